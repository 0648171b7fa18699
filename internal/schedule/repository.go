package schedule

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrServiceNotFound     = errors.New("service not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrUnknownSlot         = errors.New("unknown time slot")
	ErrSlotTaken           = errors.New("slot already has a scheduled appointment")
	ErrNotScheduled        = errors.New("appointment is not scheduled")
	ErrEmptyClientName     = errors.New("client name must not be empty")
)

// Repository contains all DB interactions needed by the booking engine.
type Repository interface {
	GetServices(ctx context.Context, activeOnly bool) ([]Service, error)
	GetServiceByID(ctx context.Context, id int64) (*Service, error)

	GetAppointmentsByDate(ctx context.Context, date string) ([]Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// HasConflict reports whether a scheduled appointment already occupies
	// the (date, slot) pair.
	HasConflict(ctx context.Context, date, slotCode string) (bool, error)

	// InsertAppointment must reject a second scheduled row for the same
	// (date, slot) pair with ErrSlotTaken regardless of any earlier check.
	InsertAppointment(ctx context.Context, appt Appointment) (*Appointment, error)

	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error)
}
