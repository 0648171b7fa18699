package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrInvalidGoal    = errors.New("goal must be positive")
	ErrUnknownPeriod  = errors.New("unknown budget period")
)

// Repository contains all DB interactions needed by the ledger.
type Repository interface {
	InsertTransaction(ctx context.Context, tx Transaction) (*Transaction, error)
	RecentTransactions(ctx context.Context, limit int) ([]Transaction, error)

	// SumTransactionsSince totals amount_cents over occurred_at >= since.
	SumTransactionsSince(ctx context.Context, since time.Time) (int64, error)

	GetBudgetTargets(ctx context.Context) ([]BudgetTarget, error)
	UpsertBudgetTarget(ctx context.Context, period Period, goalCents int64) (*BudgetTarget, error)
}
