package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assistant-platform/internal/activity"
	"assistant-platform/internal/assistants"
	"assistant-platform/internal/auth"
	"assistant-platform/internal/calls"
	"assistant-platform/internal/clients"
	"assistant-platform/internal/config"
	"assistant-platform/internal/httpapi"
	"assistant-platform/internal/migrate"
	"assistant-platform/internal/ratelimit"
	"assistant-platform/internal/schedules"
	"assistant-platform/internal/users"
	"assistant-platform/pkg/logger"
	"assistant-platform/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local development convenience; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrate.Run(rootCtx, db, log); err != nil {
		log.Error("schema migration failed", "err", err)
		os.Exit(1)
	}

	var rdb *redis.Client
	if addr := cfg.RedisAddr(); addr != "" {
		rdb, err = utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: addr})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
	} else {
		log.Info("redis not configured, rate limiting disabled")
	}

	// Services
	userSvc := users.NewService(users.NewPostgresRepo(db))
	assistantSvc := assistants.NewService(assistants.NewPostgresRepo(db))
	clientSvc := clients.NewService(clients.NewPostgresRepo(db))
	scheduleSvc := schedules.NewService(schedules.NewPostgresRepo(db), assistantSvc, clientSvc)
	callSvc := calls.NewService(calls.NewPostgresRepo(db), scheduleSvc)
	activitySvc := activity.NewService(activity.NewPostgresRepo(db), log)

	handlers := httpapi.Handlers{
		Auth:       auth.NewService(userSvc, tokens),
		Users:      userSvc,
		Assistants: assistantSvc,
		Clients:    clientSvc,
		Schedules:  scheduleSvc,
		Calls:      callSvc,
		Activity:   activitySvc,
		MigrationStatus: func(ctx context.Context) (map[string]bool, error) {
			return migrate.Status(ctx, db)
		},
		MigrationRun: func(ctx context.Context) error {
			return migrate.Run(ctx, db, log)
		},
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(corsMiddleware(cfg))
	r.Use(ratelimit.New(rdb, cfg.Redis.RequestsPerMinute, time.Minute).Middleware())

	httpapi.Register(r, handlers, tokens, func(ctx context.Context) error {
		return utils.HealthCheck(ctx, db, 2*time.Second)
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

func corsMiddleware(cfg config.Config) gin.HandlerFunc {
	c := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		c.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		c.AllowAllOrigins = true
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	c.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	return cors.New(c)
}
