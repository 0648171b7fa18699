package recognition

import "time"

type Identity struct {
	ID               int64
	Name             string
	EnrolledOn       time.Time
	RecognitionCount int64
}

type Event struct {
	ID           int64
	IdentityID   int64
	IdentityName string
	Confidence   float64
	DetectedAt   time.Time
}

type Outcome string

const (
	OutcomeRecognized   Outcome = "recognized"
	OutcomeUnrecognized Outcome = "unrecognized"
	OutcomeNoDetection  Outcome = "no_detection"
)

// Result is what a single detection draw produced.
type Result struct {
	Outcome    Outcome
	Identity   *Identity
	Confidence float64
	Message    string
}
