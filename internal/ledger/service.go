package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	repo Repository
	log  *zap.SugaredLogger
}

func NewService(repo Repository, log *zap.SugaredLogger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Record appends a transaction to the ledger. Amounts are cents and must not
// be negative.
func (s *Service) Record(ctx context.Context, amountCents int64, serviceName, clientName string, appointmentID *uuid.UUID) (*Transaction, error) {
	if amountCents < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeAmount, amountCents)
	}
	if serviceName == "" {
		serviceName = "Sale"
	}
	if clientName == "" {
		clientName = "Walk-in"
	}

	tx, err := s.repo.InsertTransaction(ctx, Transaction{
		AppointmentID: appointmentID,
		AmountCents:   amountCents,
		ServiceName:   serviceName,
		ClientName:    clientName,
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("transaction recorded", "id", tx.ID, "amount_cents", tx.AmountCents, "service", tx.ServiceName)

	return tx, nil
}

// RecordSale satisfies the booking engine's SaleRecorder.
func (s *Service) RecordSale(ctx context.Context, amountCents int64, serviceName, clientName string, appointmentID *uuid.UUID) error {
	_, err := s.Record(ctx, amountCents, serviceName, clientName, appointmentID)
	return err
}

// Summary aggregates earnings for the week and month containing asOf against
// the configured goals. Weeks start on Monday.
func (s *Service) Summary(ctx context.Context, asOf time.Time) (*Summary, error) {
	weekEarned, err := s.repo.SumTransactionsSince(ctx, StartOfWeek(asOf))
	if err != nil {
		return nil, err
	}
	monthEarned, err := s.repo.SumTransactionsSince(ctx, StartOfMonth(asOf))
	if err != nil {
		return nil, err
	}

	targets, err := s.repo.GetBudgetTargets(ctx)
	if err != nil {
		return nil, err
	}

	weeklyGoal := DefaultWeeklyGoalCents
	monthlyGoal := DefaultMonthlyGoalCents
	for _, t := range targets {
		switch t.Period {
		case PeriodWeekly:
			weeklyGoal = t.GoalCents
		case PeriodMonthly:
			monthlyGoal = t.GoalCents
		}
	}

	return &Summary{
		WeeklyGoalCents:     weeklyGoal,
		MonthlyGoalCents:    monthlyGoal,
		WeekEarnedCents:     weekEarned,
		MonthEarnedCents:    monthEarned,
		WeekRemainingCents:  remaining(weeklyGoal, weekEarned),
		MonthRemainingCents: remaining(monthlyGoal, monthEarned),
		WeekProgressPct:     progressPct(weeklyGoal, weekEarned),
		MonthProgressPct:    progressPct(monthlyGoal, monthEarned),
	}, nil
}

// EarnedToday totals the transactions recorded on asOf's calendar day.
func (s *Service) EarnedToday(ctx context.Context, asOf time.Time) (int64, error) {
	return s.repo.SumTransactionsSince(ctx, StartOfDay(asOf))
}

// Recent returns up to n transactions, newest first.
func (s *Service) Recent(ctx context.Context, n int) ([]Transaction, error) {
	if n <= 0 {
		n = 20
	}
	if n > 100 {
		n = 100
	}
	return s.repo.RecentTransactions(ctx, n)
}

// SetGoal replaces the goal for a period.
func (s *Service) SetGoal(ctx context.Context, period Period, goalCents int64) (*BudgetTarget, error) {
	if period != PeriodWeekly && period != PeriodMonthly {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
	}
	if goalCents <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGoal, goalCents)
	}
	return s.repo.UpsertBudgetTarget(ctx, period, goalCents)
}

// StartOfDay returns 00:00 of t's calendar day, in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns Monday 00:00 of the week containing t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -daysSinceMonday)
}

// StartOfMonth returns the first of the month containing t, at 00:00.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func remaining(goal, earned int64) int64 {
	if earned >= goal {
		return 0
	}
	return goal - earned
}

// progressPct is clamped to [0, 100] and rounded to one decimal. A zero or
// negative goal reads as 0% rather than dividing by zero.
func progressPct(goal, earned int64) float64 {
	if goal <= 0 {
		return 0
	}
	pct := 100 * float64(earned) / float64(goal)
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return math.Round(pct*10) / 10
}
