package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stride/config"
	_ "stride/docs"
	"stride/internal/cron"
	"stride/internal/notifier"
	"stride/internal/repository"
	"stride/internal/service"
	"stride/internal/storage"
	"stride/internal/transport/rest"
	"stride/pkg/database"
	"stride/pkg/logger"
)

// @title Stride API
// @version 1.0
// @description Instructor weekly availability scheduling for a therapeutic riding center

// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.NewPostgresDB(cfg.Postgres)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("running database migrations")
	if err := database.RunMigrations(db, "./migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("migrations applied")

	var archive storage.SnapshotArchive
	if cfg.S3.Endpoint != "" {
		s3Archive, err := storage.NewS3Archive(cfg.S3, log)
		if err != nil {
			log.Fatal("failed to initialize S3 archive", zap.Error(err))
		}
		archive = s3Archive
		log.Info("S3 archive initialized", zap.String("endpoint", cfg.S3.Endpoint))
	} else {
		log.Warn("S3 archive is not configured, schedule snapshots will not be stored")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis is unreachable, facility cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	repos := repository.NewRepositories(db)

	services := service.NewServices(service.Deps{
		Repos:    repos,
		Logger:   log,
		Config:   cfg,
		Archive:  archive,
		Notifier: notifier.NewSMTPSender(cfg.SMTP, log),
		Redis:    redisClient,
	})

	scheduler := cron.NewScheduler(services, log)
	if err := scheduler.Start(); err != nil {
		log.Fatal("failed to start cron scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	handler := rest.NewHandler(services, log, cfg)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler.InitRoutes(router)

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("failed to stop server", zap.Error(err))
	}

	log.Info("server stopped")
}
