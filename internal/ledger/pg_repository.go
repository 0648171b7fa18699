package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) InsertTransaction(ctx context.Context, tx Transaction) (*Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (appointment_id, amount_cents, service_name, client_name, occurred_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
		RETURNING id, appointment_id, amount_cents, service_name, client_name, occurred_at
	`, tx.AppointmentID, tx.AmountCents, tx.ServiceName, tx.ClientName, nullableTime(tx.OccurredAt))

	var out Transaction
	err := row.Scan(&out.ID, &out.AppointmentID, &out.AmountCents, &out.ServiceName, &out.ClientName, &out.OccurredAt)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	return &out, nil
}

func (r *PgRepository) RecentTransactions(ctx context.Context, limit int) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, appointment_id, amount_cents, service_name, client_name, occurred_at
		FROM transactions
		ORDER BY occurred_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.AppointmentID, &t.AmountCents, &t.ServiceName, &t.ClientName, &t.OccurredAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}

	return result, rows.Err()
}

func (r *PgRepository) SumTransactionsSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE occurred_at >= $1
	`, since).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum transactions: %w", err)
	}
	return total, nil
}

func (r *PgRepository) GetBudgetTargets(ctx context.Context) ([]BudgetTarget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT period, goal_cents, updated_at
		FROM budget_targets
		ORDER BY period
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BudgetTarget
	for rows.Next() {
		var t BudgetTarget
		if err := rows.Scan(&t.Period, &t.GoalCents, &t.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}

	return result, rows.Err()
}

func (r *PgRepository) UpsertBudgetTarget(ctx context.Context, period Period, goalCents int64) (*BudgetTarget, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO budget_targets (period, goal_cents, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (period) DO UPDATE
		SET goal_cents = EXCLUDED.goal_cents,
		    updated_at = now()
		RETURNING period, goal_cents, updated_at
	`, period, goalCents)

	var t BudgetTarget
	if err := row.Scan(&t.Period, &t.GoalCents, &t.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert budget target: %w", err)
	}

	return &t, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
