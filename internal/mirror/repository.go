package mirror

import "context"

// Repository contains all DB interactions needed by the message feed.
type Repository interface {
	InsertMessage(ctx context.Context, msg Message) (*Message, error)

	// RecentMessages returns non-command messages, newest first.
	RecentMessages(ctx context.Context, limit int) ([]Message, error)

	// NewMessages returns unread non-command messages, newest first.
	NewMessages(ctx context.Context) ([]Message, error)

	MarkAllRead(ctx context.Context) error
}
