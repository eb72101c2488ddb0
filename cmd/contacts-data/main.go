package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contacts-data/internal/config"
	httpapi "contacts-data/internal/http"
	"contacts-data/internal/ratelimit"
	"contacts-data/internal/repository"
	"contacts-data/internal/service"
	"contacts-data/internal/store"
	"contacts-data/pkg/database"
	"contacts-data/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "contacts-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Redis 不可用时降级：禁用用户缓存，限流 fail-open
	var kv store.KV
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unavailable, user cache disabled", zap.Error(err))
	} else {
		kv = store.NewRedisKV(redisClient)
	}

	var limiter ratelimit.Limiter = ratelimit.NopLimiter{}
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.Requests,
			time.Duration(cfg.RateLimit.WindowS)*time.Second)
	}

	// Optional DB-backed repositories; fall back to in-memory when unavailable
	var db *sql.DB
	var contactsRepo repository.ContactsRepository
	var usersRepo repository.UsersRepository
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for contacts-data")
		} else {
			log.Warn("DB enabled but connection failed, falling back to in-memory repositories", zap.Error(err))
		}
	}
	if db != nil {
		contactsRepo = repository.NewPostgresContactsRepository(db)
		usersRepo = repository.NewPostgresUsersRepository(db)
	} else {
		contactsRepo = repository.NewMemoryContactsRepository()
		usersRepo = repository.NewMemoryUsersRepository()
	}

	contactService := service.NewContactService(contactsRepo, log)
	authService := service.NewAuthService(usersRepo, kv,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMin)*time.Minute,
		time.Duration(cfg.Auth.UserCacheTTL)*time.Second,
		log)

	accessLog := httpapi.AccessLog(log)
	rateLimited := httpapi.RateLimit(limiter, log)
	requireAuth := httpapi.RequireAuth(authService, log)

	router := httpapi.NewRouter(log)
	router.RegisterContactRoutes(httpapi.NewContactHandler(contactService, log), accessLog)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authService, log),
		[]httpapi.Middleware{accessLog, rateLimited},
		[]httpapi.Middleware{accessLog, rateLimited, requireAuth})
	router.RegisterHealthRoutes(httpapi.NewHealthHandler(db, log), accessLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 生日提醒 Webhook（配置了 URL 才启动）
	if cfg.Notify.WebhookURL != "" {
		notifier := service.NewBirthdayNotifier(contactService, cfg.Notify.WebhookURL, cfg.Notify.Days, log)
		go notifier.Run(ctx, time.Duration(cfg.Notify.IntervalS)*time.Second)
		log.Info("birthday notifier enabled",
			zap.Int("days", cfg.Notify.Days),
			zap.Int("interval_seconds", cfg.Notify.IntervalS),
		)
	}

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		log.Info("contacts-data listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	if db != nil {
		_ = database.Close(db)
	}
	_ = redisClient.Close()
}
