package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/barbermirror/kiosk-backend/internal/api"
	"github.com/barbermirror/kiosk-backend/internal/config"
	"github.com/barbermirror/kiosk-backend/internal/db"
	"github.com/barbermirror/kiosk-backend/internal/ledger"
	"github.com/barbermirror/kiosk-backend/internal/mirror"
	"github.com/barbermirror/kiosk-backend/internal/recognition"
	"github.com/barbermirror/kiosk-backend/internal/redisclient"
	"github.com/barbermirror/kiosk-backend/internal/schedule"
)

const version = "1.2.0"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()
	sugar.Infow("api-server starting up", "version", version)

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("config load error", "error", err)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		sugar.Fatalw("postgres connection error", "error", err)
	}
	defer pgPool.Close()

	if err := db.Migrate(rootCtx, pgPool); err != nil {
		sugar.Fatalw("migration error", "error", err)
	}
	sugar.Info("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		sugar.Fatalw("redis connection error", "error", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			sugar.Warnw("error closing redis", "error", err)
		}
	}()
	sugar.Info("connected to Redis")

	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)

	ledgerSvc := ledger.NewService(ledger.NewPgRepository(pgPool), sugar)
	scheduleSvc := schedule.NewBookingService(schedule.NewPgRepository(pgPool), locker, ledgerSvc, sugar)
	mirrorSvc := mirror.NewService(mirror.NewPgRepository(pgPool), sugar)
	recognitionSvc := recognition.NewService(
		recognition.NewPgRepository(pgPool),
		rand.New(rand.NewSource(time.Now().UnixNano())),
		recognition.Thresholds{Recognize: cfg.RecognizeThreshold, Detect: cfg.DetectThreshold},
		sugar,
	)

	router := api.NewRouter(api.RouterConfig{
		Schedule:    scheduleSvc,
		Ledger:      ledgerSvc,
		Recognition: recognitionSvc,
		Mirror:      mirrorSvc,
		PgPool:      pgPool,
		Redis:       rdb,
		Logger:      sugar,
		Env:         cfg.Env,
		Version:     version,
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	g, gCtx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		sugar.Infow("listening", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		sugar.Info("shutting down api-server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("api-server terminated with error", "error", err)
	}
	sugar.Info("api-server stopped")
}
