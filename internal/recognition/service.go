package recognition

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

// Source supplies the random draws behind the simulated detection. *rand.Rand
// satisfies it; tests pin a seeded one to make outcomes reproducible.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Thresholds partition the detection draw. A draw above Recognize matches a
// known identity, a draw above Detect sees an unknown face, anything else
// sees nothing.
type Thresholds struct {
	Recognize float64
	Detect    float64
}

type Service struct {
	repo       Repository
	src        Source
	thresholds Thresholds
	log        *zap.SugaredLogger
}

func NewService(repo Repository, src Source, thresholds Thresholds, log *zap.SugaredLogger) *Service {
	return &Service{
		repo:       repo,
		src:        src,
		thresholds: thresholds,
		log:        log,
	}
}

// Detect runs one simulated recognition draw. On a hit it increments the
// matched identity's counter and appends a confidence record; the other two
// outcomes leave no trace in the store.
func (s *Service) Detect(ctx context.Context) (*Result, error) {
	identities, err := s.repo.GetIdentities(ctx)
	if err != nil {
		return nil, fmt.Errorf("load identities: %w", err)
	}

	draw := s.src.Float64()

	if draw > s.thresholds.Recognize && len(identities) > 0 {
		picked := identities[s.src.Intn(len(identities))]

		confidence := roundConfidence(0.85 + 0.14*s.src.Float64())

		updated, err := s.repo.IncrementRecognitionCount(ctx, picked.ID)
		if err != nil {
			return nil, fmt.Errorf("increment recognition count: %w", err)
		}

		if _, err := s.repo.AppendEvent(ctx, Event{
			IdentityID:   updated.ID,
			IdentityName: updated.Name,
			Confidence:   confidence,
		}); err != nil {
			return nil, err
		}

		s.log.Infow("face recognized", "identity", updated.Name, "confidence", confidence)

		return &Result{
			Outcome:    OutcomeRecognized,
			Identity:   updated,
			Confidence: confidence,
			Message:    fmt.Sprintf("Welcome back, %s!", updated.Name),
		}, nil
	}

	if draw > s.thresholds.Detect {
		return &Result{
			Outcome: OutcomeUnrecognized,
			Message: "Face detected but not recognized. Would you like to train a new face?",
		}, nil
	}

	return &Result{
		Outcome: OutcomeNoDetection,
		Message: "No face detected. Please look at the mirror.",
	}, nil
}

// Enroll registers a new identity. Names are unique case-insensitively.
func (s *Service) Enroll(ctx context.Context, name string) (*Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	id, err := s.repo.InsertIdentity(ctx, name)
	if err != nil {
		return nil, err
	}

	s.log.Infow("identity enrolled", "id", id.ID, "name", id.Name)

	return id, nil
}

// Remove drops an identity entirely. Its past recognition events stay in the
// log.
func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.repo.DeleteIdentity(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Identity, error) {
	return s.repo.GetIdentities(ctx)
}

// RecentEvents returns up to n recognition events, newest first.
func (s *Service) RecentEvents(ctx context.Context, n int) ([]Event, error) {
	if n <= 0 {
		n = 20
	}
	if n > 100 {
		n = 100
	}
	return s.repo.RecentEvents(ctx, n)
}

func roundConfidence(c float64) float64 {
	return math.Round(c*100) / 100
}
