package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/config"
	"github.com/Dias221467/Language_Exchange/internal/database"
	"github.com/Dias221467/Language_Exchange/internal/events"
	"github.com/Dias221467/Language_Exchange/internal/handlers"
	"github.com/Dias221467/Language_Exchange/internal/messaging"
	"github.com/Dias221467/Language_Exchange/internal/metrics"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"github.com/Dias221467/Language_Exchange/internal/repository/memstore"
	"github.com/Dias221467/Language_Exchange/internal/scheduler"
	"github.com/Dias221467/Language_Exchange/internal/services"
	"github.com/Dias221467/Language_Exchange/pkg/jwt"
	"github.com/Dias221467/Language_Exchange/pkg/logger"
	"github.com/Dias221467/Language_Exchange/pkg/middleware"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration from .env file and the environment
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	ctx := context.Background()
	var closers []func()

	// --- Stores ---
	var (
		userStore    services.UserStore
		requestStore services.FriendRequestStore
	)
	switch cfg.DBDriver {
	case "memory":
		store := memstore.New()
		userStore, requestStore = store.Users(), store.FriendRequests()
		logger.Log.Warn("Using in-memory store; data is lost on restart")
	default:
		client, db, err := database.ConnectDB(ctx, cfg)
		if err != nil {
			logger.Log.WithError(err).Fatal("Database connection error")
		}
		if err := database.EnsureIndexes(ctx, db); err != nil {
			logger.Log.WithError(err).Fatal("Failed to create indexes")
		}
		closers = append(closers, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Log.WithError(err).Warn("MongoDB disconnect failed")
			}
		})
		userStore, requestStore = repository.NewUserRepository(db), repository.NewFriendRepository(db)
	}

	// --- Chat provider identity sync ---
	var syncer messaging.IdentitySyncer = messaging.NoopSyncer{}
	if cfg.NATSURL != "" {
		nc, err := messaging.ConnectNATS(cfg.NATSURL)
		if err != nil {
			logger.Log.WithError(err).Fatal("NATS connection error")
		}
		closers = append(closers, func() { drainNATS(nc) })
		syncer = messaging.NewNATSSyncer(nc, cfg.ChatUpsertSubject)
	} else {
		logger.Log.Warn("NATS_URL not set; chat identities will not be synced")
	}
	identities := messaging.NewAsyncPublisher(
		messaging.Instrument(syncer, metrics.RecordProviderSync),
		cfg.ProviderTimeout,
		messaging.LogErrors,
	)

	// --- Friend events ---
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RedisURL != "" {
		rdb, err := events.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Log.WithError(err).Fatal("Redis connection error")
		}
		closers = append(closers, func() { closeRedis(rdb) })
		publisher = events.NewRedisPublisher(rdb, cfg.NotificationChannel)
	}

	tokens, err := jwt.NewManager(cfg.JWTSecret, cfg.TokenExpiry)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to create token manager")
	}

	// --- Services ---
	authService := services.NewAuthService(userStore, tokens, identities)
	userService := services.NewUserService(userStore, identities)
	friendService := services.NewFriendService(requestStore, userStore, publisher)

	limiter := middleware.NewRateLimiter(cfg.LoginRatePerSec, cfg.LoginRateBurst)

	router := handlers.NewRouter(handlers.Router{
		Auth:     handlers.NewAuthHandler(authService, userService, cfg.IsProduction()),
		Users:    handlers.NewUserHandler(userService),
		Friends:  handlers.NewFriendHandler(friendService),
		Sessions: authService,
		Limiter:  limiter,
	})

	jobs, err := scheduler.StartMaintenanceJobs(limiter)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to schedule maintenance jobs")
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("port", cfg.Port).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Graceful shutdown failed")
	}

	<-jobs.Stop().Done()
	identities.Close()
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	logger.Log.Info("Server stopped")
}

func drainNATS(nc *nats.Conn) {
	if err := nc.Drain(); err != nil {
		logger.Log.WithError(err).Warn("NATS drain failed")
	}
}

func closeRedis(rdb *redis.Client) {
	if err := rdb.Close(); err != nil {
		logger.Log.WithError(err).Warn("Redis close failed")
	}
}
