package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/barbermirror/kiosk-backend/internal/ledger"
	"github.com/barbermirror/kiosk-backend/internal/recognition"
	"github.com/barbermirror/kiosk-backend/internal/schedule"
)

type CreateAppointmentRequest struct {
	ClientName string `json:"client_name"`
	ServiceID  int64  `json:"service_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Slot       string `json:"slot"`
	Barber     string `json:"barber,omitempty"`
	BookedBy   string `json:"booked_by,omitempty"`
}

type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	ClientName  string    `json:"client_name"`
	ServiceID   int64     `json:"service_id"`
	ServiceName string    `json:"service_name,omitempty"`
	PriceCents  int64     `json:"price_cents,omitempty"`
	Date        string    `json:"date"`
	Slot        string    `json:"slot"`
	SlotLabel   string    `json:"slot_label"`
	StartTime   string    `json:"start_time"`
	Barber      string    `json:"barber"`
	BookedVia   string    `json:"booked_via"`
	Status      string    `json:"status"`
}

func toAppointmentResponse(a *schedule.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		ClientName:  a.ClientName,
		ServiceID:   a.ServiceID,
		ServiceName: a.ServiceName,
		PriceCents:  a.PriceCents,
		Date:        a.Date,
		Slot:        a.SlotCode,
		SlotLabel:   schedule.LabelFor(a.SlotCode),
		StartTime:   a.StartTime,
		Barber:      a.Barber,
		BookedVia:   string(a.BookedVia),
		Status:      string(a.Status),
	}
}

type ServiceResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	IsActive   bool   `json:"is_active"`
}

type TransactionRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Service     string `json:"service,omitempty"`
	Client      string `json:"client,omitempty"`
}

type TransactionResponse struct {
	ID            int64      `json:"id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	AmountCents   int64      `json:"amount_cents"`
	ServiceName   string     `json:"service_name"`
	ClientName    string     `json:"client_name"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

func toTransactionResponse(t *ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		AppointmentID: t.AppointmentID,
		AmountCents:   t.AmountCents,
		ServiceName:   t.ServiceName,
		ClientName:    t.ClientName,
		OccurredAt:    t.OccurredAt,
	}
}

type BudgetResponse struct {
	Budget             ledger.Summary        `json:"budget"`
	RecentTransactions []TransactionResponse `json:"recent_transactions"`
}

type GoalRequest struct {
	Period    string `json:"period"`
	GoalCents int64  `json:"goal_cents"`
}

type IdentityRequest struct {
	Name string `json:"name"`
}

type IdentityResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	EnrolledOn       string `json:"enrolled_on"`
	RecognitionCount int64  `json:"recognition_count"`
}

func toIdentityResponse(id *recognition.Identity) IdentityResponse {
	return IdentityResponse{
		ID:               id.ID,
		Name:             id.Name,
		EnrolledOn:       id.EnrolledOn.Format("2006-01-02"),
		RecognitionCount: id.RecognitionCount,
	}
}

type DetectResponse struct {
	Outcome    string            `json:"outcome"`
	Identity   *IdentityResponse `json:"identity,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Message    string            `json:"message"`
}

type RecognitionEventResponse struct {
	IdentityID   int64     `json:"identity_id"`
	IdentityName string    `json:"identity_name"`
	Confidence   float64   `json:"confidence"`
	DetectedAt   time.Time `json:"detected_at"`
}

type MessageResponse struct {
	ID     int64     `json:"id"`
	Sender string    `json:"sender"`
	Text   string    `json:"text"`
	IsNew  bool      `json:"is_new"`
	SentAt time.Time `json:"sent_at"`
}

type VoiceRequest struct {
	Command string `json:"command"`
}
