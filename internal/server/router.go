package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/placeshare-backend/internal/http/handlers"
	"github.com/yungbote/placeshare-backend/internal/http/middleware"
	"github.com/yungbote/placeshare-backend/internal/platform/env"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
	"github.com/yungbote/placeshare-backend/internal/services"
)

type RouterDeps struct {
	Log           *logger.Logger
	AuthService   services.AuthService
	AuthHandler   *handlers.AuthHandler
	UserHandler   *handlers.UserHandler
	PlaceHandler  *handlers.PlaceHandler
	HealthHandler *handlers.HealthHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.Default()

	allowOrigins := strings.Split(env.Get("CORS_ALLOW_ORIGINS", "*", deps.Log), ",")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))
	router.Use(otelgin.Middleware("placeshare-backend"))

	router.GET("/healthcheck", deps.HealthHandler.Check)

	api := router.Group("/api")

	users := api.Group("/users")
	users.GET("", deps.UserHandler.List)
	users.GET("/:uid", deps.UserHandler.GetByID)
	users.POST("/signup", deps.AuthHandler.Signup)
	users.POST("/login", deps.AuthHandler.Login)

	places := api.Group("/places")
	places.GET("", deps.PlaceHandler.ListAll)
	places.GET("/:pid", deps.PlaceHandler.GetByID)
	places.GET("/user/:uid", deps.PlaceHandler.ListByCreator)

	protected := places.Group("")
	protected.Use(middleware.RequireAuth(deps.Log, deps.AuthService))
	protected.POST("", deps.PlaceHandler.Create)
	protected.PATCH("/:pid", deps.PlaceHandler.Update)
	protected.DELETE("/:pid", deps.PlaceHandler.Delete)

	return router
}
