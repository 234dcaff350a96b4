package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/albumdex/internal/config"
	"github.com/kailas-cloud/albumdex/internal/db"
	dbBadger "github.com/kailas-cloud/albumdex/internal/db/badger"
	dbRedis "github.com/kailas-cloud/albumdex/internal/db/redis"
	"github.com/kailas-cloud/albumdex/internal/domain/album"
	"github.com/kailas-cloud/albumdex/internal/domain/search/match"
	"github.com/kailas-cloud/albumdex/internal/domain/search/order"
	"github.com/kailas-cloud/albumdex/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/albumdex/internal/logger"
	"github.com/kailas-cloud/albumdex/internal/metrics"
	"github.com/kailas-cloud/albumdex/internal/repository/catalog"
	"github.com/kailas-cloud/albumdex/internal/repository/kv"
	preferencerepo "github.com/kailas-cloud/albumdex/internal/repository/preference"
	"github.com/kailas-cloud/albumdex/internal/repository/snapshot"
	chiTransport "github.com/kailas-cloud/albumdex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/albumdex/internal/usecase/health"
	"github.com/kailas-cloud/albumdex/internal/usecase/library"
	preferenceuc "github.com/kailas-cloud/albumdex/internal/usecase/preference"
	"github.com/kailas-cloud/albumdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting albumdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("section", cfg.Library.Section),
	)

	store, err := openStore(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterHTTPMetrics()
	metrics.RegisterLibraryMetrics()

	items := kv.New(store, cfg.Storage.KeyPrefix)
	prefRepo := preferencerepo.New(items)
	snapRepo := snapshot.New(items)

	parser := query.NewParser(album.Schema().Known)
	engine := library.New(
		library.Config{Debounce: cfg.Library.Debounce(), Workers: cfg.Library.Workers},
		parser,
		match.Default(),
		order.Default(),
		logger.Named("library"),
	)

	syncer := preferenceuc.New(
		preferenceuc.Config{Debounce: cfg.Preferences.Debounce(), Section: cfg.Library.Section},
		prefRepo,
		snapRepo,
		engine,
		logger.Named("preference"),
	)
	syncer.Restore(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := engine.Run(ctx); err != nil {
			logger.Error("Library engine stopped", zap.Error(err))
		}
	}()
	go func() {
		defer wg.Done()
		if err := syncer.Run(ctx); err != nil {
			logger.Error("Preference syncer stopped", zap.Error(err))
		}
	}()

	// The seed file wins over a restored snapshot.
	if cfg.Library.SeedFile != "" {
		albums, err := catalog.LoadFile(cfg.Library.SeedFile)
		if err != nil {
			logger.Fatal("Failed to load seed file", zap.String("path", cfg.Library.SeedFile), zap.Error(err))
		}
		engine.SetAlbums(albums)
		logger.Info("Seed collection loaded", zap.Int("albums", len(albums)))
	}

	healthSvc := healthuc.New(store, engine)
	server := chiTransport.NewServer(engine, parser, healthSvc, logger)
	router := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	// Stops the pipeline; the syncer flushes a pending write before returning.
	cancel()
	wg.Wait()

	logger.Info("Server stopped gracefully")
}

func openStore(cfg config.DatabaseConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverValkey, config.DriverRedis:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	case config.DriverBadger:
		return dbBadger.NewStore(dbBadger.Config{
			Path:       cfg.Path,
			InMemory:   cfg.InMemory,
			GCInterval: 5 * time.Minute,
			Logger:     logger.Named("badger"),
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
