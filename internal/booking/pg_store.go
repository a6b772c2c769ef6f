package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hackgods/clinic-booking-scheduler/internal/db"
	"github.com/hackgods/clinic-booking-scheduler/internal/schedule"
)

type PgStore struct {
	pool db.DBTX
}

func NewPgStore(pool db.DBTX) *PgStore {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &PgStore{pool: pool}
}

const appointmentColumns = `id, doctor_id, patient_id, date, time_type, status_id, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var date int64

	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&a.PatientID,
		&date,
		&a.TimeType,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Date = schedule.Date(date)
	return &a, nil
}

// FindConfirmedAppointment picks the oldest confirmed booking when the key
// matches more than one, which can happen when the date is not matched.
func (r *PgStore) FindConfirmedAppointment(ctx context.Context, key LookupKey) (*Appointment, error) {
	if key.MatchDate {
		row := r.pool.QueryRow(ctx, `
			SELECT `+appointmentColumns+`
			FROM bookings
			WHERE doctor_id = $1 AND patient_id = $2 AND time_type = $3 AND status_id = $4 AND date = $5
			ORDER BY created_at
			LIMIT 1
		`, key.DoctorID, key.PatientID, key.TimeType, StatusConfirmed, int64(key.Date))
		return scanAppointment(row)
	}

	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM bookings
		WHERE doctor_id = $1 AND patient_id = $2 AND time_type = $3 AND status_id = $4
		ORDER BY created_at
		LIMIT 1
	`, key.DoctorID, key.PatientID, key.TimeType, StatusConfirmed)
	return scanAppointment(row)
}

func (r *PgStore) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE bookings
		SET status_id = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status_id = $3
		RETURNING `+appointmentColumns+`
	`, id, to, from)

	return scanAppointment(row)
}
