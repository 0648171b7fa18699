package main

import (
	"context"
	"errors"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/barbermirror/kiosk-backend/internal/bot"
	"github.com/barbermirror/kiosk-backend/internal/config"
	"github.com/barbermirror/kiosk-backend/internal/db"
	"github.com/barbermirror/kiosk-backend/internal/ledger"
	"github.com/barbermirror/kiosk-backend/internal/mirror"
	"github.com/barbermirror/kiosk-backend/internal/recognition"
	"github.com/barbermirror/kiosk-backend/internal/redisclient"
	"github.com/barbermirror/kiosk-backend/internal/schedule"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()
	sugar.Info("bot starting up")

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("config load error", "error", err)
	}
	if cfg.TelegramToken == "" {
		sugar.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(ctx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		sugar.Fatalw("postgres connection error", "error", err)
	}
	defer pgPool.Close()

	if err := db.Migrate(ctx, pgPool); err != nil {
		sugar.Fatalw("migration error", "error", err)
	}

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		sugar.Fatalw("redis connection error", "error", err)
	}
	defer rdb.Close()

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

	sessions := bot.NewSessionStore(cfg.SessionTTL)
	flow := bot.NewFlow(sessions, scheduleSvc, ledgerSvc, mirrorSvc, recognitionSvc, sugar)

	tg, err := bot.NewTelegram(cfg.TelegramToken, flow, sugar)
	if err != nil {
		sugar.Fatalw("telegram init error", "error", err)
	}

	sugar.Info("bot ready, polling for updates")
	if err := tg.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		sugar.Errorw("bot stopped with error", "error", err)
	}
	sugar.Info("bot stopped")
}
