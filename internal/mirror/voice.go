package mirror

import (
	"fmt"
	"strings"
	"time"
)

// VoiceAction is what the display should do in response to a spoken command.
type VoiceAction string

const (
	ActionDetectFace       VoiceAction = "detect_face"
	ActionTrainFace        VoiceAction = "train_face"
	ActionShowAppointments VoiceAction = "show_appointments"
	ActionShowBudget       VoiceAction = "show_budget"
	ActionShowWeather      VoiceAction = "show_weather"
	ActionTellTime         VoiceAction = "tell_time"
	ActionGreeting         VoiceAction = "greeting"
	ActionUnknown          VoiceAction = "unknown"
)

type VoiceResult struct {
	Recognized bool        `json:"recognized"`
	Action     VoiceAction `json:"action,omitempty"`
	Message    string      `json:"message"`
	Speak      string      `json:"speak,omitempty"`
}

// wakePhrase must open every voice command.
const wakePhrase = "mirror mirror"

// InterpretVoice maps a raw transcript onto a display action. Keyword based
// on purpose: the mirror only understands a handful of phrases.
func InterpretVoice(command string, now time.Time) VoiceResult {
	c := strings.ToLower(strings.TrimSpace(command))

	if !strings.HasPrefix(c, wakePhrase) {
		return VoiceResult{
			Recognized: false,
			Message:    `Please start with "Mirror mirror..." to activate voice commands.`,
		}
	}

	rest := strings.TrimSpace(strings.TrimPrefix(c, wakePhrase))

	switch {
	case strings.Contains(rest, "detect face") || strings.Contains(rest, "who am i"):
		return VoiceResult{
			Recognized: true,
			Action:     ActionDetectFace,
			Message:    "Starting face detection...",
			Speak:      "Scanning for face recognition",
		}
	case strings.Contains(rest, "new face") || strings.Contains(rest, "train"):
		return VoiceResult{
			Recognized: true,
			Action:     ActionTrainFace,
			Message:    "Starting face training mode...",
			Speak:      "Please look at the mirror for face training",
		}
	case strings.Contains(rest, "appointment") || strings.Contains(rest, "schedule"):
		return VoiceResult{
			Recognized: true,
			Action:     ActionShowAppointments,
			Message:    "Showing appointments...",
			Speak:      "Here are your appointments for today",
		}
	case strings.Contains(rest, "budget") || strings.Contains(rest, "earnings"):
		return VoiceResult{
			Recognized: true,
			Action:     ActionShowBudget,
			Message:    "Showing budget tracker...",
			Speak:      "Displaying your budget summary",
		}
	case strings.Contains(rest, "weather"):
		return VoiceResult{
			Recognized: true,
			Action:     ActionShowWeather,
			Message:    "Weather information displayed",
			Speak:      "Showing weather forecast",
		}
	case strings.Contains(rest, "time"):
		clock := now.Format("3:04 PM")
		return VoiceResult{
			Recognized: true,
			Action:     ActionTellTime,
			Message:    fmt.Sprintf("The time is %s", clock),
			Speak:      fmt.Sprintf("The current time is %s", clock),
		}
	case strings.Contains(rest, "hello") || strings.Contains(rest, "hi"):
		return VoiceResult{
			Recognized: true,
			Action:     ActionGreeting,
			Message:    "Hello! How can I help you today?",
			Speak:      "Hello! How can I help you today?",
		}
	default:
		return VoiceResult{
			Recognized: true,
			Action:     ActionUnknown,
			Message:    fmt.Sprintf("Command not recognized: %q", rest),
			Speak:      "Sorry, I did not understand that command. Try saying detect face, show appointments, or show budget.",
		}
	}
}
