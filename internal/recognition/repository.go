package recognition

import (
	"context"
	"errors"
)

var (
	ErrIdentityExists   = errors.New("identity already enrolled")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrEmptyName        = errors.New("identity name must not be empty")
)

// Repository contains all DB interactions needed by the simulator.
type Repository interface {
	GetIdentities(ctx context.Context) ([]Identity, error)
	GetIdentityByName(ctx context.Context, name string) (*Identity, error)

	// InsertIdentity must reject a duplicate name (case-insensitive) with
	// ErrIdentityExists.
	InsertIdentity(ctx context.Context, name string) (*Identity, error)
	DeleteIdentity(ctx context.Context, id int64) error

	IncrementRecognitionCount(ctx context.Context, id int64) (*Identity, error)
	AppendEvent(ctx context.Context, ev Event) (*Event, error)
	RecentEvents(ctx context.Context, limit int) ([]Event, error)
}
