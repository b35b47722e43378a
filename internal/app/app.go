package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/refdeck/refdeck/internal/catalog"
	"github.com/refdeck/refdeck/internal/config"
	"github.com/refdeck/refdeck/internal/httpserver"
	"github.com/refdeck/refdeck/internal/httpserver/deps"
	"github.com/refdeck/refdeck/internal/logger"
	"github.com/refdeck/refdeck/internal/notify"
	"github.com/refdeck/refdeck/internal/redis"
	"github.com/refdeck/refdeck/internal/seed"
	redisstore "github.com/refdeck/refdeck/internal/store/redis"
	"github.com/refdeck/refdeck/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	importer    *seed.Importer
	assembler   *catalog.Assembler
	feed        *notify.Feed
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Document store and notification emitter share one client
	store := redisstore.NewStore(redisClient)
	emitter := notify.NewEmitter(store)

	// Seed importer (if a seed file is configured)
	var importer *seed.Importer
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, importer enabled",
			logger.String("file", cfg.SeedFile))
		importer = seed.NewImporter(cfg.SeedFile, store, emitter, loggerClient)
	} else {
		loggerClient.Info("seed file not configured, starting with whatever the store holds")
	}

	// Live views over the store
	assembler := catalog.NewAssembler(store, loggerClient)
	feed := notify.NewFeed(store, loggerClient)

	// Mutation service
	mutations := catalog.NewService(store, emitter, loggerClient)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:      loggerClient,
		StartTime:   time.Now(),
		Version:     version.Version,
		Commit:      version.Commit,
		BuildDate:   version.BuildDate,
		GoVersion:   version.GoVersion,
		RedisClient: redisClient,
		Assembler:   assembler,
		Feed:        feed,
		Mutations:   mutations,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		importer:    importer,
		assembler:   assembler,
		feed:        feed,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Refdeck v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Refdeck %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed the catalog before the live views attach. A failed import
	// leaves the store as-is; the server still serves what is there.
	if a.importer != nil {
		if err := a.importer.Run(ctx); err != nil {
			a.logger.Warn("seed import failed, continuing with existing store",
				logger.Error(err))
		}
	}

	// Start the live category tree
	if err := a.assembler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog assembler: %w", err)
	}
	a.logger.Info("catalog assembler started")

	// Start the live notification feed
	if err := a.feed.Start(ctx); err != nil {
		return fmt.Errorf("failed to start notification feed: %w", err)
	}
	a.logger.Info("notification feed started")

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// Release the store subscriptions once no handler can reach them
	a.assembler.Close()
	a.feed.Close()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Refdeck stopped cleanly")
	return nil
}
