package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/stpi-ops/portal/internal/cache"
	"github.com/stpi-ops/portal/internal/config"
	"github.com/stpi-ops/portal/internal/domain"
	"github.com/stpi-ops/portal/internal/httpserver"
	"github.com/stpi-ops/portal/internal/httpserver/deps"
	"github.com/stpi-ops/portal/internal/logger"
	mongostore "github.com/stpi-ops/portal/internal/store/mongo"
	"github.com/stpi-ops/portal/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	mongoClient *driver.Client
	redisClient *goredis.Client
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// The record store is the whole application - fail fast if unavailable.
	mongoClient, err := mongostore.Connect(mongostore.ConnectOptions{
		URI:            cfg.MongoURI,
		ConnectTimeout: cfg.MongoConnectTimeout,
		RetryInterval:  cfg.MongoRetryInterval,
		MaxWait:        cfg.MongoMaxWait,
		PingTimeout:    cfg.MongoPingTimeout,
		WarnThreshold:  cfg.MongoWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Mongo: %v", err)
		os.Exit(1)
	}

	db := mongoClient.Database(cfg.MongoDatabase)
	customers := mongostore.NewCollection[*domain.Customer](db, domain.CollectionCustomers)
	units := mongostore.NewCollection[*domain.Unit](db, domain.CollectionUnits)
	coLocations := mongostore.NewCollection[*domain.CoLocation](db, domain.CollectionCoLocations)

	// The list cache is optional; the portal serves every read from the
	// store when redis is not configured or not reachable.
	var redisClient *goredis.Client
	var listCache *cache.Lists
	if cfg.RedisAddr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.RedisAddr,
			Username:     cfg.RedisUser,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  cfg.RedisTimeout,
			ReadTimeout:  cfg.RedisTimeout,
			WriteTimeout: cfg.RedisTimeout,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), cfg.RedisTimeout)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			loggerClient.Warn("redis unreachable, list caching disabled",
				logger.String("addr", cfg.RedisAddr),
				logger.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			listCache = cache.NewLists(redisClient, cfg.ListCacheTTL)
			loggerClient.Info("list cache enabled",
				logger.String("addr", cfg.RedisAddr),
				logger.Duration("ttl", cfg.ListCacheTTL))
		}
	} else {
		loggerClient.Info("redis not configured, list caching disabled")
	}

	d := deps.Deps{
		Logger:      loggerClient,
		StartTime:   time.Now(),
		Version:     version.Version,
		Commit:      version.Commit,
		BuildDate:   version.BuildDate,
		GoVersion:   version.GoVersion,
		TimeNow:     time.Now,
		Customers:   customers,
		Units:       units,
		CoLocations: coLocations,
		ListCache:   listCache,
		Mongo:       mongoClient,
		Redis:       redisClient,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		mongoClient: mongoClient,
		redisClient: redisClient,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting portal v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("portal %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}

	disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancelDisconnect()
	if err := a.mongoClient.Disconnect(disconnectCtx); err != nil {
		a.logger.Warnf("failed to disconnect mongo: %v", err)
	}

	a.logger.Info("✅ portal stopped cleanly")
	return nil
}
