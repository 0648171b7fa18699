package mirror

import "time"

// Message is one entry of the mirror's display feed. Commands (text starting
// with "/") are logged but never rendered.
type Message struct {
	ID        int64
	ChatID    int64
	Sender    string
	Text      string
	IsCommand bool
	IsNew     bool
	SentAt    time.Time
}
