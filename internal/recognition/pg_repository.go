package recognition

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanIdentity(row pgx.Row) (*Identity, error) {
	var id Identity

	err := row.Scan(
		&id.ID,
		&id.Name,
		&id.EnrolledOn,
		&id.RecognitionCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	return &id, nil
}

func (r *PgRepository) GetIdentities(ctx context.Context) ([]Identity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, enrolled_on, recognition_count
		FROM identities
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Identity
	for rows.Next() {
		id, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *id)
	}

	return result, rows.Err()
}

func (r *PgRepository) GetIdentityByName(ctx context.Context, name string) (*Identity, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, enrolled_on, recognition_count
		FROM identities
		WHERE LOWER(name) = LOWER($1)
	`, name)
	return scanIdentity(row)
}

func (r *PgRepository) InsertIdentity(ctx context.Context, name string) (*Identity, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO identities (name)
		VALUES ($1)
		RETURNING id, name, enrolled_on, recognition_count
	`, name)

	id, err := scanIdentity(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrIdentityExists, name)
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	return id, nil
}

func (r *PgRepository) DeleteIdentity(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", ErrIdentityNotFound, id)
	}
	return nil
}

func (r *PgRepository) IncrementRecognitionCount(ctx context.Context, id int64) (*Identity, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE identities
		SET recognition_count = recognition_count + 1
		WHERE id = $1
		RETURNING id, name, enrolled_on, recognition_count
	`, id)
	return scanIdentity(row)
}

func (r *PgRepository) AppendEvent(ctx context.Context, ev Event) (*Event, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO recognition_events (identity_id, identity_name, confidence)
		VALUES ($1, $2, $3)
		RETURNING id, identity_id, identity_name, confidence, detected_at
	`, ev.IdentityID, ev.IdentityName, ev.Confidence)

	var out Event
	err := row.Scan(&out.ID, &out.IdentityID, &out.IdentityName, &out.Confidence, &out.DetectedAt)
	if err != nil {
		return nil, fmt.Errorf("append recognition event: %w", err)
	}

	return &out, nil
}

func (r *PgRepository) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, identity_id, identity_name, confidence, detected_at
		FROM recognition_events
		ORDER BY detected_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.IdentityID, &ev.IdentityName, &ev.Confidence, &ev.DetectedAt); err != nil {
			return nil, err
		}
		result = append(result, ev)
	}

	return result, rows.Err()
}
