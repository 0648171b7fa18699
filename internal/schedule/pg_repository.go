package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanService(row pgx.Row) (*Service, error) {
	var s Service

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.PriceCents,
		&s.IsActive,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	return &s, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.ClientName,
		&a.ServiceID,
		&a.Date,
		&a.SlotCode,
		&a.StartTime,
		&a.Barber,
		&a.BookedBy,
		&a.BookedVia,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.ServiceName,
		&a.PriceCents,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

const appointmentColumns = `
	a.id, a.client_name, a.service_id, to_char(a.appointment_date, 'YYYY-MM-DD'),
	a.time_slot, a.start_time, a.barber, a.booked_by, a.booked_via, a.status,
	a.created_at, a.updated_at,
	COALESCE(s.name, ''), COALESCE(s.price_cents, 0)`

// Interface methods

func (r *PgRepository) GetServices(ctx context.Context, activeOnly bool) ([]Service, error) {
	query := `
		SELECT id, name, price_cents, is_active, created_at
		FROM services
		ORDER BY name`
	if activeOnly {
		query = `
		SELECT id, name, price_cents, is_active, created_at
		FROM services
		WHERE is_active = TRUE
		ORDER BY name`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	return result, rows.Err()
}

func (r *PgRepository) GetServiceByID(ctx context.Context, id int64) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, price_cents, is_active, created_at
		FROM services
		WHERE id = $1
	`, id)
	return scanService(row)
}

func (r *PgRepository) GetAppointmentsByDate(ctx context.Context, date string) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments a
		LEFT JOIN services s ON a.service_id = s.id
		WHERE a.appointment_date = $1 AND a.status = 'scheduled'
		ORDER BY a.start_time
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	return result, rows.Err()
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments a
		LEFT JOIN services s ON a.service_id = s.id
		WHERE a.id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) HasConflict(ctx context.Context, date, slotCode string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE appointment_date = $1 AND time_slot = $2 AND status = 'scheduled'
		)
	`, date, slotCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check conflict: %w", err)
	}
	return exists, nil
}

func (r *PgRepository) InsertAppointment(ctx context.Context, appt Appointment) (*Appointment, error) {
	id := appt.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO appointments
				(id, client_name, service_id, appointment_date, time_slot, start_time,
				 barber, booked_by, booked_via, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'scheduled', now(), now())
			RETURNING *
		)
		SELECT `+appointmentColumns+`
		FROM inserted a
		LEFT JOIN services s ON a.service_id = s.id
	`, id, appt.ClientName, appt.ServiceID, appt.Date, appt.SlotCode,
		appt.StartTime, appt.Barber, appt.BookedBy, appt.BookedVia)

	created, err := scanAppointment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%w: %s %s", ErrSlotTaken, appt.Date, appt.SlotCode)
		}
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	return created, nil
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE appointments
			SET status = $2,
			    updated_at = now()
			WHERE id = $1
			RETURNING *
		)
		SELECT `+appointmentColumns+`
		FROM updated a
		LEFT JOIN services s ON a.service_id = s.id
	`, id, status)

	return scanAppointment(row)
}
