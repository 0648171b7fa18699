package bot

import (
	"sync"
	"time"
)

// Awaiting tags what the next free-text message from a chat means. It is
// checked before any generic interpretation of the text.
type Awaiting string

const (
	AwaitingNone          Awaiting = "none"
	AwaitingSaleAmount    Awaiting = "sale_amount"
	AwaitingRunningLate   Awaiting = "running_late"
	AwaitingMirrorMessage Awaiting = "mirror_message"
	AwaitingBookingName   Awaiting = "booking_name"
)

// Draft holds the booking fields accumulated across a conversation before
// commit.
type Draft struct {
	ServiceID   int64
	ServiceName string
	PriceCents  int64
	SlotCode    string
}

type ConversationState struct {
	Awaiting Awaiting
	Draft    Draft
}

func idleState() ConversationState {
	return ConversationState{Awaiting: AwaitingNone}
}

type sessionEntry struct {
	state   ConversationState
	touched time.Time
}

// SessionStore keys transient conversation state by chat id. State lives in
// memory only; a restart drops all drafts, which is acceptable because every
// flow is short and restartable from the menu. Entries idle longer than ttl
// are reset lazily on next access (ttl 0 keeps them forever).
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[int64]*sessionEntry
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[int64]*sessionEntry),
	}
}

func (s *SessionStore) Get(chatID int64) ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[chatID]
	if !ok {
		return idleState()
	}
	if s.ttl > 0 && s.now().Sub(e.touched) > s.ttl {
		delete(s.sessions, chatID)
		return idleState()
	}
	return e.state
}

func (s *SessionStore) Put(chatID int64, state ConversationState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[chatID] = &sessionEntry{state: state, touched: s.now()}
}

func (s *SessionStore) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
}
