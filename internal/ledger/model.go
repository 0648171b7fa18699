package ledger

import (
	"time"

	"github.com/google/uuid"
)

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Default goals used when no target row exists yet, in cents.
const (
	DefaultWeeklyGoalCents  int64 = 200000
	DefaultMonthlyGoalCents int64 = 800000
)

type Transaction struct {
	ID            int64
	AppointmentID *uuid.UUID
	AmountCents   int64
	ServiceName   string
	ClientName    string
	OccurredAt    time.Time
}

type BudgetTarget struct {
	Period    Period
	GoalCents int64
	UpdatedAt time.Time
}

// Summary is the derived goal-progress view over the transaction log.
type Summary struct {
	WeeklyGoalCents     int64   `json:"weekly_goal_cents"`
	MonthlyGoalCents    int64   `json:"monthly_goal_cents"`
	WeekEarnedCents     int64   `json:"week_earned_cents"`
	MonthEarnedCents    int64   `json:"month_earned_cents"`
	WeekRemainingCents  int64   `json:"week_remaining_cents"`
	MonthRemainingCents int64   `json:"month_remaining_cents"`
	WeekProgressPct     float64 `json:"week_progress_pct"`
	MonthProgressPct    float64 `json:"month_progress_pct"`
}
