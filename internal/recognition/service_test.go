package recognition

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedSource plays back a fixed sequence of draws so each outcome branch
// can be forced.
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) Intn(int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

type memRoster struct {
	identities map[int64]Identity
	events     []Event
	nextID     int64
}

func newMemRoster(names ...string) *memRoster {
	r := &memRoster{identities: make(map[int64]Identity)}
	for _, n := range names {
		r.nextID++
		r.identities[r.nextID] = Identity{ID: r.nextID, Name: n}
	}
	return r
}

func (r *memRoster) GetIdentities(context.Context) ([]Identity, error) {
	var out []Identity
	for _, id := range r.identities {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRoster) GetIdentityByName(_ context.Context, name string) (*Identity, error) {
	for _, id := range r.identities {
		if strings.EqualFold(id.Name, name) {
			return &id, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrIdentityNotFound, name)
}

func (r *memRoster) InsertIdentity(ctx context.Context, name string) (*Identity, error) {
	if existing, err := r.GetIdentityByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrIdentityExists, existing.Name)
	}
	r.nextID++
	id := Identity{ID: r.nextID, Name: name}
	r.identities[id.ID] = id
	return &id, nil
}

func (r *memRoster) DeleteIdentity(_ context.Context, id int64) error {
	if _, ok := r.identities[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrIdentityNotFound, id)
	}
	delete(r.identities, id)
	return nil
}

func (r *memRoster) IncrementRecognitionCount(_ context.Context, id int64) (*Identity, error) {
	ident, ok := r.identities[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrIdentityNotFound, id)
	}
	ident.RecognitionCount++
	r.identities[id] = ident
	return &ident, nil
}

func (r *memRoster) AppendEvent(_ context.Context, ev Event) (*Event, error) {
	ev.ID = int64(len(r.events) + 1)
	r.events = append(r.events, ev)
	return &ev, nil
}

func (r *memRoster) RecentEvents(_ context.Context, limit int) ([]Event, error) {
	var out []Event
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.events[i])
	}
	return out, nil
}

var testThresholds = Thresholds{Recognize: 0.3, Detect: 0.1}

func TestDetectRecognized(t *testing.T) {
	roster := newMemRoster("Alice", "Bob", "Carol")
	// draw 0.9 beats the recognize threshold; Intn picks index 1 (Bob);
	// the second float drives the confidence.
	src := &scriptedSource{floats: []float64{0.9, 0.5}, ints: []int{1}}
	svc := NewService(roster, src, testThresholds, zap.NewNop().Sugar())

	res, err := svc.Detect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeRecognized, res.Outcome)
	require.NotNil(t, res.Identity)
	assert.Equal(t, "Bob", res.Identity.Name)
	assert.Equal(t, int64(1), res.Identity.RecognitionCount)
	assert.Equal(t, 0.92, res.Confidence) // 0.85 + 0.14*0.5 = 0.92
	assert.Equal(t, "Welcome back, Bob!", res.Message)

	require.Len(t, roster.events, 1)
	assert.Equal(t, "Bob", roster.events[0].IdentityName)
	assert.Equal(t, 0.92, roster.events[0].Confidence)
}

func TestDetectConfidenceRounding(t *testing.T) {
	roster := newMemRoster("Alice")
	src := &scriptedSource{floats: []float64{0.9, 0.123}, ints: []int{0}}
	svc := NewService(roster, src, testThresholds, zap.NewNop().Sugar())

	res, err := svc.Detect(context.Background())
	require.NoError(t, err)
	// 0.85 + 0.14*0.123 = 0.86722, rounded to two decimals.
	assert.Equal(t, 0.87, res.Confidence)
}

func TestDetectUnrecognized(t *testing.T) {
	roster := newMemRoster("Alice")
	src := &scriptedSource{floats: []float64{0.2}}
	svc := NewService(roster, src, testThresholds, zap.NewNop().Sugar())

	res, err := svc.Detect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeUnrecognized, res.Outcome)
	assert.Nil(t, res.Identity)
	assert.Contains(t, res.Message, "not recognized")
	assert.Empty(t, roster.events)
}

func TestDetectNoFace(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.05}}
	svc := NewService(newMemRoster("Alice"), src, testThresholds, zap.NewNop().Sugar())

	res, err := svc.Detect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeNoDetection, res.Outcome)
	assert.Contains(t, res.Message, "No face detected")
}

func TestDetectEmptyRosterNeverRecognizes(t *testing.T) {
	// A high draw with nobody enrolled degrades to the unrecognized outcome.
	src := &scriptedSource{floats: []float64{0.99}}
	svc := NewService(newMemRoster(), src, testThresholds, zap.NewNop().Sugar())

	res, err := svc.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnrecognized, res.Outcome)
}

func TestEnroll(t *testing.T) {
	roster := newMemRoster()
	svc := NewService(roster, &scriptedSource{}, testThresholds, zap.NewNop().Sugar())
	ctx := context.Background()

	id, err := svc.Enroll(ctx, "  Dana  ")
	require.NoError(t, err)
	assert.Equal(t, "Dana", id.Name)

	_, err = svc.Enroll(ctx, "dana")
	assert.ErrorIs(t, err, ErrIdentityExists)

	_, err = svc.Enroll(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestRemove(t *testing.T) {
	roster := newMemRoster("Alice")
	svc := NewService(roster, &scriptedSource{}, testThresholds, zap.NewNop().Sugar())

	require.NoError(t, svc.Remove(context.Background(), 1))
	assert.ErrorIs(t, svc.Remove(context.Background(), 1), ErrIdentityNotFound)
}
