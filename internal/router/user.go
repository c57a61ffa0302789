package router

import (
	"github.com/gin-gonic/gin"

	"github.com/restockr/auth-service/internal/middleware"
)

func (r *Router) userRoutes(version *gin.RouterGroup) {
	user := version.Group("/user")
	{
		// Registration is public but shares the credential-endpoint budget.
		limited := user.Group("")
		limited.Use(middleware.RateLimit(r.Config.RateLimit.AuthMaxRequests, r.Config.RateLimit.Window))
		{
			limited.POST("/signup", r.userHandler.Signup)
		}

		// Profile routes require a valid access token
		me := user.Group("")
		me.Use(r.authMw.RequireAuth())
		{
			// Authenticated user's own profile
			me.GET("/me", r.userHandler.GetMe)

			// Partial profile update (full name, phone, city - email cannot change)
			me.PATCH("/me", r.userHandler.UpdateMe)

			// Soft-deactivate the account
			me.DELETE("/me", r.userHandler.DeactivateMe)
		}
	}
}
