package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Schedule    ScheduleService
	Ledger      LedgerService
	Recognition RecognitionService
	Mirror      MirrorService
	PgPool      *pgxpool.Pool
	Redis       *redis.Client
	Logger      *zap.SugaredLogger
	Env         string
	Version     string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/api", func(r chi.Router) {
		r.Get("/slots", listSlotsHandler())
		r.Get("/services", listServicesHandler(cfg.Schedule))

		r.Get("/appointments", listAppointmentsHandler(cfg.Schedule))
		r.Post("/appointments", createAppointmentHandler(cfg.Schedule))
		r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Schedule))
		r.Post("/appointments/{id}/complete", completeAppointmentHandler(cfg.Schedule))

		r.Get("/budget", getBudgetHandler(cfg.Ledger))
		r.Post("/budget/transactions", createTransactionHandler(cfg.Ledger))
		r.Get("/budget/transactions", listTransactionsHandler(cfg.Ledger))
		r.Put("/budget/goals", updateGoalHandler(cfg.Ledger))

		r.Post("/recognition/detect", detectFaceHandler(cfg.Recognition))
		r.Get("/recognition/events", recognitionEventsHandler(cfg.Recognition))
		r.Get("/identities", listIdentitiesHandler(cfg.Recognition))
		r.Post("/identities", enrollIdentityHandler(cfg.Recognition))
		r.Delete("/identities/{id}", removeIdentityHandler(cfg.Recognition))

		r.Get("/messages", listMessagesHandler(cfg.Mirror))
		r.Get("/messages/new", newMessagesHandler(cfg.Mirror))
		r.Post("/messages/read", markMessagesReadHandler(cfg.Mirror))
		r.Post("/voice", voiceCommandHandler())
	})

	return r
}
