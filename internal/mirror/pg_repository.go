package mirror

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) InsertMessage(ctx context.Context, msg Message) (*Message, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages (chat_id, sender, text, is_command, is_new)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, chat_id, sender, text, is_command, is_new, sent_at
	`, msg.ChatID, msg.Sender, msg.Text, msg.IsCommand)

	var out Message
	err := row.Scan(&out.ID, &out.ChatID, &out.Sender, &out.Text, &out.IsCommand, &out.IsNew, &out.SentAt)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	return &out, nil
}

func (r *PgRepository) RecentMessages(ctx context.Context, limit int) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, chat_id, sender, text, is_command, is_new, sent_at
		FROM messages
		WHERE is_command = FALSE
		ORDER BY sent_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMessages(rows)
}

func (r *PgRepository) NewMessages(ctx context.Context) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, chat_id, sender, text, is_command, is_new, sent_at
		FROM messages
		WHERE is_new = TRUE AND is_command = FALSE
		ORDER BY sent_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMessages(rows)
}

func (r *PgRepository) MarkAllRead(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `UPDATE messages SET is_new = FALSE WHERE is_new = TRUE`)
	if err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}

func collectMessages(rows pgx.Rows) ([]Message, error) {
	var result []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Sender, &m.Text, &m.IsCommand, &m.IsNew, &m.SentAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
