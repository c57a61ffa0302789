package router

import (
	"github.com/gin-gonic/gin"

	"github.com/restockr/auth-service/internal/middleware"
)

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")
	{
		// Credential endpoints get a tighter rate limit than the rest of the
		// API to slow down enumeration and brute force attempts.
		limited := auth.Group("")
		limited.Use(middleware.RateLimit(r.Config.RateLimit.AuthMaxRequests, r.Config.RateLimit.Window))
		{
			limited.POST("/login", r.authHandler.Login)
			limited.POST("/social/signup", r.authHandler.SocialAuth)
			limited.POST("/resend-activation", r.authHandler.ResendActivation)
		}

		auth.POST("/refresh", r.authHandler.Refresh)
		auth.POST("/activate", r.authHandler.Activate)

		// Protected routes (valid access token required)
		protected := auth.Group("")
		protected.Use(r.authMw.RequireAuth())
		{
			protected.POST("/logout", r.authHandler.Logout)
		}
	}
}
