package schedule

// Slot is one entry of the fixed daily booking grid.
type Slot struct {
	Code      string `json:"code"`
	StartTime string `json:"start_time"` // 24h HH:MM
	Label     string `json:"label"`
}

// The grid is identical for every calendar day: nine hourly slots from
// 09:00 through 17:00, ordered by start time.
var slots = []Slot{
	{Code: "slot_0900", StartTime: "09:00", Label: "9:00 AM"},
	{Code: "slot_1000", StartTime: "10:00", Label: "10:00 AM"},
	{Code: "slot_1100", StartTime: "11:00", Label: "11:00 AM"},
	{Code: "slot_1200", StartTime: "12:00", Label: "12:00 PM"},
	{Code: "slot_1300", StartTime: "13:00", Label: "1:00 PM"},
	{Code: "slot_1400", StartTime: "14:00", Label: "2:00 PM"},
	{Code: "slot_1500", StartTime: "15:00", Label: "3:00 PM"},
	{Code: "slot_1600", StartTime: "16:00", Label: "4:00 PM"},
	{Code: "slot_1700", StartTime: "17:00", Label: "5:00 PM"},
}

// Slots returns the daily slot catalog in ascending start-time order.
func Slots() []Slot {
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

// SlotByCode looks up a catalog entry.
func SlotByCode(code string) (Slot, bool) {
	for _, s := range slots {
		if s.Code == code {
			return s, true
		}
	}
	return Slot{}, false
}

// LabelFor returns the display label for a slot code. Unknown codes come
// back verbatim so stale input never breaks display code.
func LabelFor(code string) string {
	if s, ok := SlotByCode(code); ok {
		return s.Label
	}
	return code
}

// StartTimeFor maps a slot code to its HH:MM start, defaulting to midday
// for codes that are not in the catalog.
func StartTimeFor(code string) string {
	if s, ok := SlotByCode(code); ok {
		return s.StartTime
	}
	return "12:00"
}
