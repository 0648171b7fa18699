package bot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/barbermirror/kiosk-backend/internal/ledger"
	"github.com/barbermirror/kiosk-backend/internal/mirror"
	"github.com/barbermirror/kiosk-backend/internal/recognition"
	"github.com/barbermirror/kiosk-backend/internal/schedule"
)

type stubScheduler struct {
	services []schedule.Service
	booked   map[string]schedule.Appointment // keyed by date+slot
}

func newStubScheduler() *stubScheduler {
	return &stubScheduler{
		services: []schedule.Service{
			{ID: 1, Name: "Haircut", PriceCents: 2500, IsActive: true},
			{ID: 2, Name: "Beard Trim", PriceCents: 1500, IsActive: true},
		},
		booked: make(map[string]schedule.Appointment),
	}
}

func (s *stubScheduler) ListServices(context.Context, bool) ([]schedule.Service, error) {
	return s.services, nil
}

func (s *stubScheduler) GetService(_ context.Context, id int64) (*schedule.Service, error) {
	for _, svc := range s.services {
		if svc.ID == id {
			return &svc, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", schedule.ErrServiceNotFound, id)
}

func (s *stubScheduler) Book(_ context.Context, req schedule.BookRequest) (*schedule.Appointment, error) {
	if req.ClientName == "" {
		return nil, schedule.ErrEmptyClientName
	}
	key := req.Date + "/" + req.SlotCode
	if _, taken := s.booked[key]; taken {
		return nil, fmt.Errorf("%w: %s %s", schedule.ErrSlotTaken, req.Date, req.SlotCode)
	}
	appt := schedule.Appointment{
		ID:         uuid.New(),
		ClientName: req.ClientName,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		SlotCode:   req.SlotCode,
		Status:     schedule.StatusScheduled,
		BookedVia:  req.BookedVia,
	}
	s.booked[key] = appt
	return &appt, nil
}

func (s *stubScheduler) ListByDate(_ context.Context, date string) ([]schedule.Appointment, error) {
	var out []schedule.Appointment
	for _, a := range s.booked {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

type stubBotLedger struct {
	recorded []int64
	earned   int64
	summary  ledger.Summary
}

func (l *stubBotLedger) Record(_ context.Context, amountCents int64, _, _ string, _ *uuid.UUID) (*ledger.Transaction, error) {
	l.recorded = append(l.recorded, amountCents)
	return &ledger.Transaction{ID: int64(len(l.recorded)), AmountCents: amountCents}, nil
}

func (l *stubBotLedger) Summary(context.Context, time.Time) (*ledger.Summary, error) {
	return &l.summary, nil
}

func (l *stubBotLedger) EarnedToday(context.Context, time.Time) (int64, error) {
	return l.earned, nil
}

func (l *stubBotLedger) Recent(context.Context, int) ([]ledger.Transaction, error) {
	return nil, nil
}

type stubMirror struct {
	posts []string
}

func (m *stubMirror) Post(_ context.Context, _ int64, _ string, text string) (*mirror.Message, error) {
	m.posts = append(m.posts, text)
	return &mirror.Message{ID: int64(len(m.posts)), Text: text}, nil
}

type stubRoster struct {
	identities []recognition.Identity
}

func (r *stubRoster) List(context.Context) ([]recognition.Identity, error) {
	return r.identities, nil
}

type flowFixture struct {
	flow   *Flow
	sched  *stubScheduler
	ledger *stubBotLedger
	mirror *stubMirror
}

func newFlowFixture(t *testing.T) *flowFixture {
	t.Helper()
	sched := newStubScheduler()
	led := &stubBotLedger{}
	mir := &stubMirror{}
	flow := NewFlow(NewSessionStore(0), sched, led, mir, &stubRoster{}, zap.NewNop().Sugar())
	flow.now = func() time.Time { return time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC) }
	return &flowFixture{flow: flow, sched: sched, ledger: led, mirror: mir}
}

const chatID = int64(42)

func TestBookingConversation(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	reply, err := fx.flow.HandleCallback(ctx, chatID, "marco", cbAddAppointment)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Choose a service")

	reply, err = fx.flow.HandleCallback(ctx, chatID, "marco", "svc_1")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Haircut")
	assert.Contains(t, reply.Text, "25.00")

	reply, err = fx.flow.HandleCallback(ctx, chatID, "marco", "slot_1000")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Enter the client's name")

	reply, err = fx.flow.HandleText(ctx, chatID, "marco", "Jane Doe")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Appointment booked")
	assert.Contains(t, reply.Text, "Jane Doe")
	assert.Contains(t, reply.Text, "10:00 AM")

	require.Len(t, fx.sched.booked, 1)
	booked := fx.sched.booked["2026-08-26/slot_1000"]
	assert.Equal(t, "Jane Doe", booked.ClientName)
	assert.Equal(t, schedule.ViaTelegram, booked.BookedVia)

	// The chat is idle again: a number now reads as a sale.
	assert.Equal(t, AwaitingNone, fx.flow.sessions.Get(chatID).Awaiting)
}

func TestBookingConflictReoffersSlots(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	// Occupy 10:00 first.
	_, err := fx.sched.Book(ctx, schedule.BookRequest{
		ClientName: "First", ServiceID: 1, Date: "2026-08-26", SlotCode: "slot_1000",
	})
	require.NoError(t, err)

	_, err = fx.flow.HandleCallback(ctx, chatID, "marco", cbAddAppointment)
	require.NoError(t, err)
	_, err = fx.flow.HandleCallback(ctx, chatID, "marco", "svc_2")
	require.NoError(t, err)
	_, err = fx.flow.HandleCallback(ctx, chatID, "marco", "slot_1000")
	require.NoError(t, err)

	reply, err := fx.flow.HandleText(ctx, chatID, "marco", "Second")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "10:00 AM is already booked")
	assert.Contains(t, reply.Text, "Beard Trim")
	require.Len(t, fx.sched.booked, 1, "no second appointment on conflict")

	// The service survives the conflict, the slot does not.
	state := fx.flow.sessions.Get(chatID)
	assert.Equal(t, int64(2), state.Draft.ServiceID)
	assert.Empty(t, state.Draft.SlotCode)
	assert.Equal(t, AwaitingNone, state.Awaiting)

	// Picking a free slot completes the booking.
	_, err = fx.flow.HandleCallback(ctx, chatID, "marco", "slot_1100")
	require.NoError(t, err)
	reply, err = fx.flow.HandleText(ctx, chatID, "marco", "Second")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Appointment booked")
	assert.Len(t, fx.sched.booked, 2)
}

func TestSlotBeforeService(t *testing.T) {
	fx := newFlowFixture(t)

	reply, err := fx.flow.HandleCallback(context.Background(), chatID, "marco", "slot_1000")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "choose a service first")
	assert.Empty(t, fx.sched.booked)
}

func TestSaleAmountRetryLoop(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	_, err := fx.flow.HandleCallback(ctx, chatID, "marco", cbRecordSale)
	require.NoError(t, err)

	// Bad input re-prompts without leaving the state or touching the mirror.
	for _, bad := range []string{"abc", "45,50"} {
		reply, err := fx.flow.HandleText(ctx, chatID, "marco", bad)
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "Invalid amount", "input %q", bad)
		assert.Equal(t, AwaitingSaleAmount, fx.flow.sessions.Get(chatID).Awaiting)
	}
	assert.Empty(t, fx.mirror.posts)
	assert.Empty(t, fx.ledger.recorded)

	reply, err := fx.flow.HandleText(ctx, chatID, "marco", "$45.50")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Sale of $45.50 recorded")
	assert.Equal(t, []int64{4550}, fx.ledger.recorded)
	assert.Equal(t, AwaitingNone, fx.flow.sessions.Get(chatID).Awaiting)
}

func TestCancelEscapesAnyState(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	_, err := fx.flow.HandleCallback(ctx, chatID, "marco", cbAddAppointment)
	require.NoError(t, err)
	_, err = fx.flow.HandleCallback(ctx, chatID, "marco", "svc_1")
	require.NoError(t, err)
	_, err = fx.flow.HandleCallback(ctx, chatID, "marco", "slot_1000")
	require.NoError(t, err)

	reply, err := fx.flow.HandleCallback(ctx, chatID, "marco", cbCancel)
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Cancelled")

	state := fx.flow.sessions.Get(chatID)
	assert.Equal(t, AwaitingNone, state.Awaiting)
	assert.Zero(t, state.Draft.ServiceID)
}

func TestMenuNavigationDropsDraft(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	_, err := fx.flow.HandleCallback(ctx, chatID, "marco", cbAddAppointment)
	require.NoError(t, err)
	_, err = fx.flow.HandleCallback(ctx, chatID, "marco", "svc_1")
	require.NoError(t, err)

	_, err = fx.flow.HandleCallback(ctx, chatID, "marco", cbFinancial)
	require.NoError(t, err)
	assert.Zero(t, fx.flow.sessions.Get(chatID).Draft.ServiceID)
}

func TestIdleNumberRecordsSale(t *testing.T) {
	fx := newFlowFixture(t)

	reply, err := fx.flow.HandleText(context.Background(), chatID, "marco", "30")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Sale of $30.00 recorded")
	assert.Equal(t, []int64{3000}, fx.ledger.recorded)
	assert.Empty(t, fx.mirror.posts)
}

func TestIdleTextGoesToMirror(t *testing.T) {
	fx := newFlowFixture(t)

	reply, err := fx.flow.HandleText(context.Background(), chatID, "marco", "Back in 5 minutes")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Message sent to mirror")
	assert.Equal(t, []string{"Back in 5 minutes"}, fx.mirror.posts)
	assert.Empty(t, fx.ledger.recorded)
}

func TestRunningLateAlert(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	_, err := fx.flow.HandleCallback(ctx, chatID, "marco", cbRunningLate)
	require.NoError(t, err)

	reply, err := fx.flow.HandleText(ctx, chatID, "marco", "John 6:00 PM")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Late notification sent")
	assert.Equal(t, []string{"[LATE] John 6:00 PM"}, fx.mirror.posts)
	assert.Equal(t, AwaitingNone, fx.flow.sessions.Get(chatID).Awaiting)
}

func TestMirrorControlCommand(t *testing.T) {
	fx := newFlowFixture(t)

	reply, err := fx.flow.HandleCallback(context.Background(), chatID, "marco", "cmd_detect_face")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Detect Face")
	assert.Equal(t, []string{"/detect_face"}, fx.mirror.posts)
}

func TestSlashCommandResetsState(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	_, err := fx.flow.HandleCallback(ctx, chatID, "marco", cbRecordSale)
	require.NoError(t, err)

	reply, err := fx.flow.HandleCommand(ctx, chatID, "marco", "start")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Barber Admin Dashboard")
	assert.Equal(t, AwaitingNone, fx.flow.sessions.Get(chatID).Awaiting)
}

func TestEarningsCommand(t *testing.T) {
	fx := newFlowFixture(t)
	fx.ledger.earned = 12345

	reply, err := fx.flow.HandleCommand(context.Background(), chatID, "marco", "earnings")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "$123.45")
}

func TestTodayCommandEmpty(t *testing.T) {
	fx := newFlowFixture(t)

	reply, err := fx.flow.HandleCommand(context.Background(), chatID, "marco", "today")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "No appointments scheduled")
}

func TestSessionTTLExpiry(t *testing.T) {
	store := NewSessionStore(30 * time.Minute)

	base := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	now := base
	store.now = func() time.Time { return now }

	store.Put(chatID, ConversationState{Awaiting: AwaitingSaleAmount})

	now = base.Add(29 * time.Minute)
	assert.Equal(t, AwaitingSaleAmount, store.Get(chatID).Awaiting)

	now = base.Add(31 * time.Minute)
	assert.Equal(t, AwaitingNone, store.Get(chatID).Awaiting, "idle sessions expire")
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", progressBar(0))
	assert.Equal(t, "█████░░░░░", progressBar(50))
	assert.Equal(t, "██████████", progressBar(100))
	assert.Equal(t, "██████████", progressBar(250))
}
