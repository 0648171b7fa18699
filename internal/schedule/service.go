package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/barbermirror/kiosk-backend/internal/redisclient"
)

// SaleRecorder is the slice of the ledger the booking engine needs: completed
// appointments turn into transactions.
type SaleRecorder interface {
	RecordSale(ctx context.Context, amountCents int64, serviceName, clientName string, appointmentID *uuid.UUID) error
}

type BookingService struct {
	repo   Repository
	locker redisclient.Locker
	ledger SaleRecorder
	log    *zap.SugaredLogger
}

func NewBookingService(repo Repository, locker redisclient.Locker, ledger SaleRecorder, log *zap.SugaredLogger) *BookingService {
	return &BookingService{
		repo:   repo,
		locker: locker,
		ledger: ledger,
		log:    log,
	}
}

// ListServices returns the bookable service catalog.
func (s *BookingService) ListServices(ctx context.Context, activeOnly bool) ([]Service, error) {
	svcs, err := s.repo.GetServices(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return svcs, nil
}

func (s *BookingService) GetService(ctx context.Context, id int64) (*Service, error) {
	return s.repo.GetServiceByID(ctx, id)
}

// CheckConflict reports whether the (date, slot) pair is already occupied by
// a scheduled appointment.
func (s *BookingService) CheckConflict(ctx context.Context, date, slotCode string) (bool, error) {
	return s.repo.HasConflict(ctx, date, slotCode)
}

// Book commits a new appointment. The conflict rule is re-validated at
// commit time under a per-slot lock, and the store's unique constraint backs
// the check so a racing writer gets ErrSlotTaken rather than a double booking.
func (s *BookingService) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	if strings.TrimSpace(req.ClientName) == "" {
		return nil, ErrEmptyClientName
	}

	slot, ok := SlotByCode(req.SlotCode)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSlot, req.SlotCode)
	}

	svc, err := s.repo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, fmt.Errorf("%w: id %d", ErrServiceNotFound, req.ServiceID)
	}

	barber := req.Barber
	if barber == "" {
		barber = "Any"
	}
	via := req.BookedVia
	if via == "" {
		via = ViaAPI
	}

	var created *Appointment

	err = s.locker.WithSlotLock(ctx, req.Date, req.SlotCode, func(lockCtx context.Context) error {
		taken, err := s.repo.HasConflict(lockCtx, req.Date, req.SlotCode)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s %s", ErrSlotTaken, req.Date, req.SlotCode)
		}

		appt, err := s.repo.InsertAppointment(lockCtx, Appointment{
			ClientName: strings.TrimSpace(req.ClientName),
			ServiceID:  req.ServiceID,
			Date:       req.Date,
			SlotCode:   req.SlotCode,
			StartTime:  slot.StartTime,
			Barber:     barber,
			BookedBy:   req.BookedBy,
			BookedVia:  via,
		})
		if err != nil {
			return err
		}

		created = appt
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			// Another writer holds the slot right now; surface it the same
			// way as a committed conflict.
			return nil, fmt.Errorf("%w: %s %s", ErrSlotTaken, req.Date, req.SlotCode)
		}
		return nil, err
	}

	s.log.Infow("appointment booked",
		"id", created.ID, "date", created.Date, "slot", created.SlotCode, "via", created.BookedVia)

	return created, nil
}

// Cancel transitions an appointment to cancelled. Cancelling an appointment
// that is already cancelled is a no-op success, so a double tap in the chat
// UI does not produce a spurious failure.
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch appt.Status {
	case StatusCancelled:
		return appt, nil
	case StatusCompleted:
		return nil, fmt.Errorf("%w: %s is completed", ErrNotScheduled, id)
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, id, StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.log.Infow("appointment cancelled", "id", id)

	return updated, nil
}

// Complete marks a scheduled appointment as done and records the earnings
// against the ledger.
func (s *BookingService) Complete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != StatusScheduled {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotScheduled, id, appt.Status)
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, id, StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("complete appointment: %w", err)
	}

	if s.ledger != nil {
		apptID := updated.ID
		if err := s.ledger.RecordSale(ctx, updated.PriceCents, updated.ServiceName, updated.ClientName, &apptID); err != nil {
			// The status change stands even if the ledger write fails.
			s.log.Errorw("record completion sale", "appointment", id, "error", err)
		}
	}

	return updated, nil
}

// ListByDate returns the scheduled appointments for a date, earliest first.
func (s *BookingService) ListByDate(ctx context.Context, date string) ([]Appointment, error) {
	appts, err := s.repo.GetAppointmentsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}
