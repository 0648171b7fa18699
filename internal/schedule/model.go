package schedule

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

type BookedVia string

const (
	ViaAPI      BookedVia = "api"
	ViaTelegram BookedVia = "telegram"
)

type Service struct {
	ID         int64
	Name       string
	PriceCents int64
	IsActive   bool
	CreatedAt  time.Time
}

type Appointment struct {
	ID         uuid.UUID
	ClientName string
	ServiceID  int64
	Date       string // YYYY-MM-DD
	SlotCode   string
	StartTime  string // HH:MM
	Barber     string
	BookedBy   string
	BookedVia  BookedVia
	Status     AppointmentStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined from services for listings, not stored on the row.
	ServiceName string
	PriceCents  int64
}

// BookRequest carries everything the engine needs to commit one booking.
type BookRequest struct {
	ClientName string
	ServiceID  int64
	Date       string
	SlotCode   string
	Barber     string
	BookedBy   string
	BookedVia  BookedVia
}
