package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/barbermirror/kiosk-backend/internal/ledger"
	"github.com/barbermirror/kiosk-backend/internal/mirror"
	"github.com/barbermirror/kiosk-backend/internal/recognition"
	"github.com/barbermirror/kiosk-backend/internal/schedule"
)

// The handler layer depends on these slices of the engines so tests can
// substitute stubs.

type ScheduleService interface {
	ListServices(ctx context.Context, activeOnly bool) ([]schedule.Service, error)
	ListByDate(ctx context.Context, date string) ([]schedule.Appointment, error)
	Book(ctx context.Context, req schedule.BookRequest) (*schedule.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID) (*schedule.Appointment, error)
	Complete(ctx context.Context, id uuid.UUID) (*schedule.Appointment, error)
}

type LedgerService interface {
	Record(ctx context.Context, amountCents int64, serviceName, clientName string, appointmentID *uuid.UUID) (*ledger.Transaction, error)
	Summary(ctx context.Context, asOf time.Time) (*ledger.Summary, error)
	Recent(ctx context.Context, n int) ([]ledger.Transaction, error)
	SetGoal(ctx context.Context, period ledger.Period, goalCents int64) (*ledger.BudgetTarget, error)
}

type RecognitionService interface {
	Detect(ctx context.Context) (*recognition.Result, error)
	Enroll(ctx context.Context, name string) (*recognition.Identity, error)
	Remove(ctx context.Context, id int64) error
	List(ctx context.Context) ([]recognition.Identity, error)
	RecentEvents(ctx context.Context, n int) ([]recognition.Event, error)
}

type MirrorService interface {
	Recent(ctx context.Context, n int) ([]mirror.Message, error)
	Unread(ctx context.Context) ([]mirror.Message, error)
	MarkAllRead(ctx context.Context) error
}
