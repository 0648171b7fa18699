package mirror

import (
	"context"
	"strings"

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

// Post appends a message to the mirror feed. Text starting with "/" is
// stored as a command and kept off the display.
func (s *Service) Post(ctx context.Context, chatID int64, sender, text string) (*Message, error) {
	msg, err := s.repo.InsertMessage(ctx, Message{
		ChatID:    chatID,
		Sender:    sender,
		Text:      text,
		IsCommand: strings.HasPrefix(text, "/"),
	})
	if err != nil {
		return nil, err
	}

	if !msg.IsCommand {
		s.log.Infow("mirror message posted", "id", msg.ID, "sender", msg.Sender)
	}

	return msg, nil
}

// Recent returns up to n display messages, newest first.
func (s *Service) Recent(ctx context.Context, n int) ([]Message, error) {
	if n <= 0 {
		n = 10
	}
	if n > 100 {
		n = 100
	}
	return s.repo.RecentMessages(ctx, n)
}

// Unread returns messages the display has not yet shown.
func (s *Service) Unread(ctx context.Context) ([]Message, error) {
	return s.repo.NewMessages(ctx)
}

func (s *Service) MarkAllRead(ctx context.Context) error {
	return s.repo.MarkAllRead(ctx)
}
