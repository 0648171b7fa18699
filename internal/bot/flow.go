package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/barbermirror/kiosk-backend/internal/ledger"
	"github.com/barbermirror/kiosk-backend/internal/mirror"
	"github.com/barbermirror/kiosk-backend/internal/recognition"
	"github.com/barbermirror/kiosk-backend/internal/schedule"
)

// Scheduler, Ledger, MirrorFeed and Roster are the slices of the engines the
// conversation needs. The engines never call back into the flow.
type Scheduler interface {
	ListServices(ctx context.Context, activeOnly bool) ([]schedule.Service, error)
	GetService(ctx context.Context, id int64) (*schedule.Service, error)
	Book(ctx context.Context, req schedule.BookRequest) (*schedule.Appointment, error)
	ListByDate(ctx context.Context, date string) ([]schedule.Appointment, error)
}

type Ledger interface {
	Record(ctx context.Context, amountCents int64, serviceName, clientName string, appointmentID *uuid.UUID) (*ledger.Transaction, error)
	Summary(ctx context.Context, asOf time.Time) (*ledger.Summary, error)
	EarnedToday(ctx context.Context, asOf time.Time) (int64, error)
	Recent(ctx context.Context, n int) ([]ledger.Transaction, error)
}

type MirrorFeed interface {
	Post(ctx context.Context, chatID int64, sender, text string) (*mirror.Message, error)
}

type Roster interface {
	List(ctx context.Context) ([]recognition.Identity, error)
}

// Flow is the per-chat conversational state machine of the admin console.
// Each incoming message is interpreted against the chat's current awaiting
// tag first; only idle chats get the generic number-or-message treatment.
type Flow struct {
	sessions *SessionStore
	sched    Scheduler
	ledger   Ledger
	mirror   MirrorFeed
	roster   Roster
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewFlow(sessions *SessionStore, sched Scheduler, led Ledger, feed MirrorFeed, roster Roster, log *zap.SugaredLogger) *Flow {
	return &Flow{
		sessions: sessions,
		sched:    sched,
		ledger:   led,
		mirror:   feed,
		roster:   roster,
		log:      log,
		now:      time.Now,
	}
}

const welcomeText = "🪞 Barber Admin Dashboard\n\n" +
	"Welcome! Use the buttons below to manage your shop.\n\n" +
	"Quick actions:\n" +
	"• Send any text to display on the mirror\n" +
	"• Send a number (e.g. 45.50) to record a sale"

// HandleCommand processes a slash command.
func (f *Flow) HandleCommand(ctx context.Context, chatID int64, sender, cmd string) (Reply, error) {
	f.sessions.Reset(chatID)

	switch cmd {
	case "start":
		return Reply{Text: welcomeText, Keyboard: mainMenu()}, nil
	case "help":
		return Reply{Text: "🪞 Barber Mirror Bot Help\n\n" +
			"/start — main menu\n" +
			"/help — this help\n" +
			"/today — today's appointments\n" +
			"/earnings — today's earnings\n\n" +
			"Send a number to record a sale, or any text to display it on the mirror."}, nil
	case "today":
		return f.todayAppointments(ctx, nil)
	case "earnings":
		total, err := f.ledger.EarnedToday(ctx, f.now())
		if err != nil {
			return f.failure(chatID, err)
		}
		return Reply{Text: fmt.Sprintf("💰 Today's Earnings: $%s", formatCents(total))}, nil
	default:
		return Reply{Text: "Unknown command. Send /help for the list.", Keyboard: mainMenu()}, nil
	}
}

// HandleCallback processes an inline keyboard press.
func (f *Flow) HandleCallback(ctx context.Context, chatID int64, sender, data string) (Reply, error) {
	state := f.sessions.Get(chatID)

	switch {
	case data == cbMainMenu:
		f.sessions.Reset(chatID)
		return Reply{Text: "🪞 Barber Admin Dashboard\n\nSelect an option:", Keyboard: mainMenu()}, nil

	case data == cbAppointments:
		f.sessions.Reset(chatID)
		return Reply{Text: "📅 Appointments\n\nManage today's schedule:", Keyboard: appointmentsMenu()}, nil

	case data == cbViewToday:
		return f.todayAppointments(ctx, backTo(cbAppointments))

	case data == cbAddAppointment:
		services, err := f.sched.ListServices(ctx, true)
		if err != nil {
			return f.failure(chatID, err)
		}
		if len(services) == 0 {
			return Reply{Text: "No bookable services are configured.", Keyboard: backTo(cbAppointments)}, nil
		}
		f.sessions.Put(chatID, idleState())
		return Reply{Text: "✂️ New Appointment\n\nChoose a service:", Keyboard: servicesKeyboard(services)}, nil

	case strings.HasPrefix(data, svcPrefix):
		return f.pickService(ctx, chatID, state, strings.TrimPrefix(data, svcPrefix))

	case strings.HasPrefix(data, "slot_"):
		return f.pickSlot(chatID, state, data)

	case data == cbRunningLate:
		state = idleState()
		state.Awaiting = AwaitingRunningLate
		f.sessions.Put(chatID, state)
		return Reply{
			Text:     "⏰ Running Late Alert\n\nEnter client name and appointment time:\n\nExample: John 6:00 PM",
			Keyboard: cancelTo(cbCancel),
		}, nil

	case data == cbFinancial:
		f.sessions.Reset(chatID)
		return Reply{Text: "📊 Financial Tracking\n\nTrack your earnings:", Keyboard: financialMenu()}, nil

	case data == cbRecordSale:
		state = idleState()
		state.Awaiting = AwaitingSaleAmount
		f.sessions.Put(chatID, state)
		return Reply{Text: "💰 Record Sale\n\nEnter sale amount (e.g. 45.50):", Keyboard: cancelTo(cbCancel)}, nil

	case data == cbTodayEarnings:
		return f.todayEarnings(ctx, chatID)

	case data == cbWeeklyProgress:
		return f.weeklyProgress(ctx, chatID)

	case data == cbCustomers:
		return f.customers(ctx, chatID)

	case data == cbMirrorControls:
		f.sessions.Reset(chatID)
		return Reply{Text: "📺 Mirror Controls\n\nRemotely control the mirror:", Keyboard: mirrorControlsMenu()}, nil

	case strings.HasPrefix(data, cmdPrefix):
		command := strings.TrimPrefix(data, cmdPrefix)
		if _, err := f.mirror.Post(ctx, chatID, sender, "/"+command); err != nil {
			return f.failure(chatID, err)
		}
		return Reply{
			Text:     fmt.Sprintf("✅ Command sent: %s\n\nThe mirror will update shortly.", commandName(command)),
			Keyboard: backTo(cbMirrorControls),
		}, nil

	case data == cbSendMessage:
		state = idleState()
		state.Awaiting = AwaitingMirrorMessage
		f.sessions.Put(chatID, state)
		return Reply{
			Text:     "💬 Send Message to Mirror\n\nType your message below.\n\nExamples:\n• Running 10 mins late!\n• Special: 20% off today!",
			Keyboard: cancelTo(cbCancel),
		}, nil

	case data == cbCancel:
		f.sessions.Reset(chatID)
		return Reply{Text: "Cancelled.", Keyboard: mainMenu()}, nil

	default:
		return Reply{Text: "That button has expired. Here is the menu:", Keyboard: mainMenu()}, nil
	}
}

// HandleText processes free text against the chat's awaiting tag. The tag
// wins over any generic reading of the message: "45.50" is a sale amount in
// an idle chat but a client name while a booking draft waits for one.
func (f *Flow) HandleText(ctx context.Context, chatID int64, sender, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	state := f.sessions.Get(chatID)

	switch state.Awaiting {
	case AwaitingSaleAmount:
		cents, err := ledger.ParseAmount(text)
		if err != nil {
			// Stay in the same state and ask again; falling through to the
			// mirror-message path here would swallow the typo.
			return Reply{Text: "❌ Invalid amount. Please enter a number (e.g. 45.50):", Keyboard: cancelTo(cbCancel)}, nil
		}
		if _, err := f.ledger.Record(ctx, cents, "Sale", "Walk-in", nil); err != nil {
			return f.failure(chatID, err)
		}
		f.sessions.Reset(chatID)
		return Reply{Text: fmt.Sprintf("✅ Sale of $%s recorded!", formatCents(cents)), Keyboard: financialMenu()}, nil

	case AwaitingRunningLate:
		if _, err := f.mirror.Post(ctx, chatID, sender, "[LATE] "+text); err != nil {
			return f.failure(chatID, err)
		}
		f.sessions.Reset(chatID)
		return Reply{
			Text:     fmt.Sprintf("✅ Late notification sent!\n\nMessage: %s\n\nThe mirror will display this alert.", text),
			Keyboard: mainMenu(),
		}, nil

	case AwaitingMirrorMessage:
		if _, err := f.mirror.Post(ctx, chatID, sender, text); err != nil {
			return f.failure(chatID, err)
		}
		f.sessions.Reset(chatID)
		return Reply{Text: fmt.Sprintf("✅ Message sent to mirror!\n\n%q", text), Keyboard: mainMenu()}, nil

	case AwaitingBookingName:
		return f.commitBooking(ctx, chatID, sender, state, text)
	}

	// Idle chat: a number records a walk-in sale, anything else goes to the
	// mirror display.
	if cents, err := ledger.ParseAmount(text); err == nil {
		if _, err := f.ledger.Record(ctx, cents, "Sale", "Walk-in", nil); err != nil {
			return f.failure(chatID, err)
		}
		return Reply{Text: fmt.Sprintf("💰 Sale of $%s recorded!\n\nSend /start for full menu.", formatCents(cents))}, nil
	}

	if _, err := f.mirror.Post(ctx, chatID, sender, text); err != nil {
		return f.failure(chatID, err)
	}
	return Reply{Text: fmt.Sprintf("📺 Message sent to mirror!\n\n%q\n\nSend /start for menu options.", text)}, nil
}

func (f *Flow) pickService(ctx context.Context, chatID int64, state ConversationState, idStr string) (Reply, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return Reply{Text: "That button has expired. Here is the menu:", Keyboard: mainMenu()}, nil
	}

	svc, err := f.sched.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, schedule.ErrServiceNotFound) {
			return Reply{Text: "That service is no longer available.", Keyboard: backTo(cbAddAppointment)}, nil
		}
		return f.failure(chatID, err)
	}

	state = idleState()
	state.Draft = Draft{ServiceID: svc.ID, ServiceName: svc.Name, PriceCents: svc.PriceCents}
	f.sessions.Put(chatID, state)

	return Reply{
		Text:     fmt.Sprintf("🕐 %s ($%s)\n\nPick a time slot for today:", svc.Name, formatCents(svc.PriceCents)),
		Keyboard: slotsKeyboard(),
	}, nil
}

func (f *Flow) pickSlot(chatID int64, state ConversationState, code string) (Reply, error) {
	if state.Draft.ServiceID == 0 {
		return Reply{Text: "Please choose a service first.", Keyboard: backTo(cbAddAppointment)}, nil
	}
	if _, ok := schedule.SlotByCode(code); !ok {
		return Reply{Text: "That time slot is not available.", Keyboard: slotsKeyboard()}, nil
	}

	// Conflicts are deliberately not checked here; looking at a slot must
	// not reserve it. The commit re-validates.
	state.Draft.SlotCode = code
	state.Awaiting = AwaitingBookingName
	f.sessions.Put(chatID, state)

	return Reply{
		Text:     fmt.Sprintf("👤 %s at %s\n\nEnter the client's name:", state.Draft.ServiceName, schedule.LabelFor(code)),
		Keyboard: cancelTo(cbCancel),
	}, nil
}

func (f *Flow) commitBooking(ctx context.Context, chatID int64, sender string, state ConversationState, clientName string) (Reply, error) {
	date := f.now().Format("2006-01-02")

	appt, err := f.sched.Book(ctx, schedule.BookRequest{
		ClientName: clientName,
		ServiceID:  state.Draft.ServiceID,
		Date:       date,
		SlotCode:   state.Draft.SlotCode,
		BookedBy:   sender,
		BookedVia:  schedule.ViaTelegram,
	})

	switch {
	case err == nil:
		f.sessions.Reset(chatID)
		return Reply{
			Text: fmt.Sprintf("✅ Appointment booked!\n\n👤 %s\n✂️ %s\n🕐 %s\n💵 $%s",
				appt.ClientName, state.Draft.ServiceName,
				schedule.LabelFor(appt.SlotCode), formatCents(state.Draft.PriceCents)),
			Keyboard: mainMenu(),
		}, nil

	case errors.Is(err, schedule.ErrSlotTaken):
		// Keep the chosen service, drop the slot, offer the grid again.
		taken := state.Draft.SlotCode
		state.Draft.SlotCode = ""
		state.Awaiting = AwaitingNone
		f.sessions.Put(chatID, state)
		return Reply{
			Text:     fmt.Sprintf("⚠️ %s is already booked for today.\n\nPick another slot for %s:", schedule.LabelFor(taken), state.Draft.ServiceName),
			Keyboard: slotsKeyboard(),
		}, nil

	case errors.Is(err, schedule.ErrEmptyClientName):
		return Reply{Text: "Please enter a non-empty client name:", Keyboard: cancelTo(cbCancel)}, nil

	default:
		return f.failure(chatID, err)
	}
}

func (f *Flow) todayAppointments(ctx context.Context, keyboard [][]Button) (Reply, error) {
	date := f.now().Format("2006-01-02")
	appts, err := f.sched.ListByDate(ctx, date)
	if err != nil {
		return Reply{Text: "Something went wrong, please try again.", Keyboard: mainMenu()}, nil
	}

	if len(appts) == 0 {
		return Reply{Text: "📅 No appointments scheduled for today.", Keyboard: keyboard}, nil
	}

	var b strings.Builder
	b.WriteString("📅 Today's Appointments:\n\n")
	for _, a := range appts {
		fmt.Fprintf(&b, "⏰ %s — %s\n", schedule.LabelFor(a.SlotCode), a.ClientName)
		fmt.Fprintf(&b, "   Service: %s\n", a.ServiceName)
		fmt.Fprintf(&b, "   Barber: %s\n\n", a.Barber)
	}
	return Reply{Text: b.String(), Keyboard: keyboard}, nil
}

func (f *Flow) todayEarnings(ctx context.Context, chatID int64) (Reply, error) {
	total, err := f.ledger.EarnedToday(ctx, f.now())
	if err != nil {
		return f.failure(chatID, err)
	}
	recent, err := f.ledger.Recent(ctx, 5)
	if err != nil {
		return f.failure(chatID, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💰 Today's Earnings\n\nTotal: $%s\n", formatCents(total))
	if len(recent) > 0 {
		b.WriteString("\nRecent transactions:\n")
		for _, t := range recent {
			fmt.Fprintf(&b, "• $%s — %s\n", formatCents(t.AmountCents), t.ServiceName)
		}
	}
	return Reply{Text: b.String(), Keyboard: backTo(cbFinancial)}, nil
}

func (f *Flow) weeklyProgress(ctx context.Context, chatID int64) (Reply, error) {
	sum, err := f.ledger.Summary(ctx, f.now())
	if err != nil {
		return f.failure(chatID, err)
	}

	bar := progressBar(sum.WeekProgressPct)

	text := fmt.Sprintf("📊 Weekly Progress\n\n"+
		"Goal: $%s\nEarned: $%s\nRemaining: $%s\n\n[%s] %.1f%%",
		formatCents(sum.WeeklyGoalCents),
		formatCents(sum.WeekEarnedCents),
		formatCents(sum.WeekRemainingCents),
		bar, sum.WeekProgressPct)

	return Reply{Text: text, Keyboard: backTo(cbFinancial)}, nil
}

func (f *Flow) customers(ctx context.Context, chatID int64) (Reply, error) {
	identities, err := f.roster.List(ctx)
	if err != nil {
		return f.failure(chatID, err)
	}

	if len(identities) == 0 {
		return Reply{Text: "👥 No customers registered yet.", Keyboard: backTo(cbMainMenu)}, nil
	}

	var b strings.Builder
	b.WriteString("👥 Customer History\n\n")
	for i, id := range identities {
		if i == 10 {
			break
		}
		fmt.Fprintf(&b, "• %s — %d visits\n", id.Name, id.RecognitionCount)
	}
	return Reply{Text: b.String(), Keyboard: backTo(cbMainMenu)}, nil
}

// failure resets the session so an error can never strand the chat in an
// un-exitable state.
func (f *Flow) failure(chatID int64, err error) (Reply, error) {
	f.log.Errorw("flow error", "chat", chatID, "error", err)
	f.sessions.Reset(chatID)
	return Reply{Text: "Something went wrong, please try again.", Keyboard: mainMenu()}, nil
}

func progressBar(pct float64) string {
	filled := int(pct / 10)
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func commandName(cmd string) string {
	names := map[string]string{
		"detect_face":       "Detect Face",
		"show_appointments": "Show Appointments",
		"show_weather":      "Show Weather",
		"show_news":         "Show News",
		"clear":             "Clear Display",
	}
	if n, ok := names[cmd]; ok {
		return n
	}
	return cmd
}
