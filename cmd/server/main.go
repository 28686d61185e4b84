package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	applinking "github.com/lineshop/backend/internal/application/linking"
	"github.com/lineshop/backend/internal/application/notify"
	"github.com/lineshop/backend/internal/domain/linking"
	"github.com/lineshop/backend/internal/infrastructure/auth"
	"github.com/lineshop/backend/internal/infrastructure/cache"
	"github.com/lineshop/backend/internal/infrastructure/config"
	"github.com/lineshop/backend/internal/infrastructure/line"
	"github.com/lineshop/backend/internal/infrastructure/logger"
	"github.com/lineshop/backend/internal/infrastructure/persistence"
	"github.com/lineshop/backend/internal/interfaces/http/handler"
	"github.com/lineshop/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting LineShop Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	linkRepo := persistence.NewGormLineLinkRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	noteRepo := persistence.NewGormOrderNoteRepository(db.DB)

	// Profile sink is optional; the service runs without Redis
	profileSink, err := cache.NewRedisProfileSink(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, profile mirroring disabled", zap.Error(err))
	}

	// LINE platform client
	lineClient := line.NewClient(line.Config{
		ChannelAccessToken: cfg.Line.ChannelAccessToken,
	}, log.Named("line"))
	if !lineClient.Configured() {
		log.Warn("LINE channel access token not configured, pushes will fail")
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	sink := profileSinkOrNil(profileSink)
	loginService := applinking.NewLoginService(cfg.Line, linkRepo, userRepo, sink, lineClient, jwtService, log.Named("login"))
	adminService := applinking.NewAdminService(linkRepo, userRepo, sink, log.Named("admin"))
	notifier := notify.NewNotifier(cfg.Line, linkRepo, lineClient, noteRepo, log.Named("notify"))

	// HTTP surface
	engine := router.New(cfg, log, jwtService, router.Handlers{
		Health:    handler.NewHealthHandler(db),
		LineLogin: handler.NewLineLoginHandler(cfg.Line, loginService),
		LineAdmin: handler.NewLineAdminHandler(adminService, notifier),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

// profileSinkOrNil narrows a possibly-nil concrete sink to the domain
// interface without producing a non-nil interface holding a nil pointer.
func profileSinkOrNil(sink *cache.RedisProfileSink) linking.ProfileSink {
	if sink == nil {
		return nil
	}
	return sink
}
