package bot

import (
	"fmt"

	"github.com/barbermirror/kiosk-backend/internal/schedule"
)

// Button is one inline keyboard entry; Data is the callback payload.
type Button struct {
	Label string
	Data  string
}

// Reply is what the flow wants sent back to the chat.
type Reply struct {
	Text     string
	Keyboard [][]Button
}

// Callback payloads. Service and slot picks carry their own data
// ("svc_<id>", "slot_<hhmm>").
const (
	cbMainMenu       = "main_menu"
	cbAppointments   = "appointments"
	cbViewToday      = "view_today"
	cbAddAppointment = "add_appointment"
	cbRunningLate    = "running_late"
	cbFinancial      = "financial"
	cbRecordSale     = "record_sale"
	cbTodayEarnings  = "today_earnings"
	cbWeeklyProgress = "weekly_progress"
	cbCustomers      = "customers"
	cbMirrorControls = "mirror_controls"
	cbSendMessage    = "send_message"
	cbCancel         = "flow_cancel"

	svcPrefix = "svc_"
	cmdPrefix = "cmd_"
)

func mainMenu() [][]Button {
	return [][]Button{
		{{Label: "📅 Today's Appointments", Data: cbAppointments}},
		{{Label: "📊 Financial Tracking", Data: cbFinancial}},
		{{Label: "👥 Customer History", Data: cbCustomers}},
		{{Label: "📺 Mirror Controls", Data: cbMirrorControls}},
		{{Label: "💬 Send Message to Mirror", Data: cbSendMessage}},
	}
}

func appointmentsMenu() [][]Button {
	return [][]Button{
		{{Label: "📋 View Today", Data: cbViewToday}},
		{{Label: "➕ Add Appointment", Data: cbAddAppointment}},
		{{Label: "⏰ Running Late Alert", Data: cbRunningLate}},
		{{Label: "🏠 Main Menu", Data: cbMainMenu}},
	}
}

func financialMenu() [][]Button {
	return [][]Button{
		{{Label: "💰 Record Sale", Data: cbRecordSale}},
		{{Label: "📈 Today's Earnings", Data: cbTodayEarnings}},
		{{Label: "📊 Weekly Progress", Data: cbWeeklyProgress}},
		{{Label: "🏠 Main Menu", Data: cbMainMenu}},
	}
}

func mirrorControlsMenu() [][]Button {
	return [][]Button{
		{{Label: "👁️ Detect Face", Data: cmdPrefix + "detect_face"}},
		{{Label: "📋 Show Appointments", Data: cmdPrefix + "show_appointments"}},
		{{Label: "🌤️ Show Weather", Data: cmdPrefix + "show_weather"}},
		{{Label: "📰 Show News", Data: cmdPrefix + "show_news"}},
		{{Label: "🔄 Clear Display", Data: cmdPrefix + "clear"}},
		{{Label: "🏠 Main Menu", Data: cbMainMenu}},
	}
}

func servicesKeyboard(services []schedule.Service) [][]Button {
	var rows [][]Button
	for _, s := range services {
		rows = append(rows, []Button{{
			Label: fmt.Sprintf("%s — $%s", s.Name, formatCents(s.PriceCents)),
			Data:  fmt.Sprintf("%s%d", svcPrefix, s.ID),
		}})
	}
	rows = append(rows, []Button{{Label: "❌ Cancel", Data: cbCancel}})
	return rows
}

func slotsKeyboard() [][]Button {
	var rows [][]Button
	var row []Button
	for _, s := range schedule.Slots() {
		row = append(row, Button{Label: s.Label, Data: s.Code})
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []Button{{Label: "❌ Cancel", Data: cbCancel}})
	return rows
}

func backTo(data string) [][]Button {
	return [][]Button{{{Label: "🔙 Back", Data: data}}}
}

func cancelTo(data string) [][]Button {
	return [][]Button{{{Label: "❌ Cancel", Data: data}}}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
