package router

import (
	"github.com/gin-gonic/gin"

	"github.com/restockr/auth-service/config"
	"github.com/restockr/auth-service/internal/constants"
	"github.com/restockr/auth-service/internal/handler"
	"github.com/restockr/auth-service/internal/middleware"
)

type Router struct {
	authHandler   *handler.AuthHandler
	userHandler   *handler.UserHandler
	healthHandler *handler.HealthHandler

	authMw *middleware.AuthMiddleware
	Config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	health *handler.HealthHandler,
	authMw *middleware.AuthMiddleware,
	config *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		userHandler:   user,
		healthHandler: health,
		authMw:        authMw,
		Config:        config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.Config.App.Environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// gin.New rather than gin.Default: logging and recovery are ours.
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestContext())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(r.Config.CORS.AllowedOrigins))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.BasicHealth)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RequestTimeout(r.Config.App.Timeout))
			v1.Use(middleware.RateLimit(r.Config.RateLimit.MaxRequests, r.Config.RateLimit.Window))

			v1.GET("/health", r.healthHandler.HealthCheck)
			v1.GET("/health/ping", r.healthHandler.Ping)

			r.authRoutes(v1)
			r.userRoutes(v1)
		}
	}

	return router
}
