package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/placeshare-backend/internal/data/repos"
	"github.com/yungbote/placeshare-backend/internal/db"
	"github.com/yungbote/placeshare-backend/internal/http/handlers"
	"github.com/yungbote/placeshare-backend/internal/observability"
	"github.com/yungbote/placeshare-backend/internal/platform/gcp"
	"github.com/yungbote/placeshare-backend/internal/platform/geo"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
	"github.com/yungbote/placeshare-backend/internal/server"
	"github.com/yungbote/placeshare-backend/internal/services"
)

// App wires configuration, storage, services and the HTTP router, and owns
// process lifecycle.
type App struct {
	Log    *logger.Logger
	Config *Config

	redis        *goredis.Client
	reconcile    services.ReconcileService
	router       *gin.Engine
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	bootLog, err := logger.New("dev")
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := LoadConfig(bootLog)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitTracing(ctx, log, cfg.ServiceName)

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		return nil, err
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		return nil, err
	}
	gormDB := postgresService.DB()

	bucketService, err := gcp.NewBucketService(log)
	if err != nil {
		return nil, err
	}

	redisClient := newRedisClient(ctx, cfg, log)

	geocoder, err := geo.NewGeocoder(log, redisClient)
	if err != nil {
		return nil, err
	}

	userRepo := repos.NewUserRepo(gormDB, log)
	placeRepo := repos.NewPlaceRepo(gormDB, log)

	avatarService, err := services.NewAvatarService(log, bucketService)
	if err != nil {
		return nil, err
	}
	authService, err := services.NewAuthService(gormDB, log, userRepo, avatarService, bucketService)
	if err != nil {
		return nil, err
	}
	userService := services.NewUserService(gormDB, log, userRepo)
	placeService := services.NewPlaceService(gormDB, log, placeRepo, userRepo, geocoder, bucketService)
	reconcileService := services.NewReconcileService(gormDB, log, userRepo, placeRepo, bucketService)

	router := server.NewRouter(server.RouterDeps{
		Log:           log,
		AuthService:   authService,
		AuthHandler:   handlers.NewAuthHandler(log, authService),
		UserHandler:   handlers.NewUserHandler(log, userService),
		PlaceHandler:  handlers.NewPlaceHandler(log, placeService),
		HealthHandler: handlers.NewHealthHandler(gormDB),
	})

	return &App{
		Log:          log,
		Config:       cfg,
		redis:        redisClient,
		reconcile:    reconcileService,
		router:       router,
		otelShutdown: otelShutdown,
	}, nil
}

// Run starts the background reconcile sweep and serves HTTP until the
// listener fails or the process exits.
func (a *App) Run(ctx context.Context) error {
	a.reconcile.Start(ctx)
	a.Log.Info("listening", "port", a.Config.Port)
	return a.router.Run(":" + a.Config.Port)
}

func (a *App) Shutdown(ctx context.Context) {
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.Log.Sync()
}
