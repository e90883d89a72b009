package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/where2play/calendar-api/api/swagger"
	"github.com/where2play/calendar-api/internal/handler"
	"github.com/where2play/calendar-api/internal/middleware"
	"github.com/where2play/calendar-api/internal/models"
	"github.com/where2play/calendar-api/internal/provider"
	"github.com/where2play/calendar-api/internal/repository"
	"github.com/where2play/calendar-api/internal/service"
	"github.com/where2play/calendar-api/pkg/cache"
	"github.com/where2play/calendar-api/pkg/config"
	"github.com/where2play/calendar-api/pkg/database"
	"github.com/where2play/calendar-api/pkg/jobs"
	"github.com/where2play/calendar-api/pkg/logger"
	corsmiddleware "github.com/where2play/calendar-api/pkg/middleware/cors"
	reqidmiddleware "github.com/where2play/calendar-api/pkg/middleware/requestid"
)

// @title Where2Play Calendar API
// @version 1.0.0
// @description Calendar event management with external provider sync
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.UserTTL, logr, cfg.Cache.Enabled)

	googleClient := provider.NewGoogleCalendarClient(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL, logr)
	providers := map[models.CalendarProvider]service.ProviderClient{
		models.CalendarProviderGoogle: googleClient,
	}

	verifier := provider.NewStubTokenVerifier(logr)
	authSvc := service.NewAuthService(userRepo, verifier, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, cacheSvc, validate, logr)

	e2eEnabled := cfg.E2E.Enabled && cfg.Env != config.EnvProduction
	eventSvc := service.NewEventService(eventRepo, userRepo, providers, metricsSvc, validate, logr, e2eEnabled)

	logSettings := logger.NewSettings(cfg.RequestLog.GlobalEnabled, cfg.RequestLog.Endpoints)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	loggingHandler := handler.NewLoggingHandler(logSettings)
	googleHandler := handler.NewGoogleHandler(googleClient)
	e2eHandler := handler.NewE2EHandler(eventSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(logger.BodyLogMiddleware(logr, logSettings))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/validate", middleware.JWT(authSvc), authHandler.ValidateToken)

	protected := api.Group("", middleware.JWT(authSvc))

	users := protected.Group("/users")
	users.GET("/me", userHandler.Me)
	users.PUT("/me", userHandler.UpdateMe)
	users.DELETE("/me", userHandler.DeleteMe)
	users.GET("/search", userHandler.Search)
	users.GET("/:id", userHandler.GetByID)

	events := protected.Group("/events")
	events.POST("", eventHandler.Create)
	events.GET("", eventHandler.List)
	events.GET("/range", eventHandler.ListInRange)
	events.GET("/search", eventHandler.Search)
	events.GET("/export", eventHandler.Export)
	events.GET("/:id", eventHandler.Get)
	events.PUT("/:id", eventHandler.Update)
	events.DELETE("/:id", eventHandler.Delete)
	events.POST("/:id/attendees/:userId", eventHandler.AddAttendee)
	events.DELETE("/:id/attendees/:userId", eventHandler.RemoveAttendee)
	events.POST("/sync/:provider", eventHandler.Synchronize)

	google := protected.Group("/calendar/google")
	google.GET("/authorize", googleHandler.AuthorizationURL)
	google.GET("/callback", googleHandler.Callback)
	google.GET("/status", googleHandler.Status)
	google.DELETE("/connection", googleHandler.Disconnect)

	logging := protected.Group("/logging")
	logging.GET("", loggingHandler.Status)
	logging.PUT("", loggingHandler.SetGlobal)
	logging.PUT("/endpoint", loggingHandler.SetEndpoint)
	logging.POST("/reset", loggingHandler.Reset)

	if e2eEnabled {
		e2e := protected.Group("/e2e-support")
		e2e.DELETE("/calendar/:id", e2eHandler.HardDeleteEvent)
		logr.Warn("e2e support endpoints enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Sync.BackgroundEnabled {
		queue := jobs.NewQueue("calendar-sync", func(ctx context.Context, job jobs.Job) error {
			providerName, _ := job.Payload.(string)
			return eventSvc.SynchronizeAllOwners(ctx, providerName)
		}, jobs.QueueConfig{
			Workers:    cfg.Sync.Workers,
			MaxRetries: cfg.Sync.MaxRetries,
			RetryDelay: 30 * time.Second,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		go func() {
			ticker := time.NewTicker(cfg.Sync.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					job := jobs.Job{ID: uuid.NewString(), Type: "provider-sync", Payload: string(models.CalendarProviderGoogle)}
					if err := queue.Enqueue(job); err != nil {
						logr.Sugar().Warnw("failed to enqueue sync job", "error", err)
					}
				}
			}
		}()
		logr.Sugar().Infow("background sync enabled", "interval", cfg.Sync.Interval)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
