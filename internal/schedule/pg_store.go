package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hackgods/clinic-booking-scheduler/internal/db"
)

type PgStore struct {
	pool db.DBTX
}

func NewPgStore(pool db.DBTX) *PgStore {
	if pool == nil {
		panic("schedule: pgx pool required")
	}
	return &PgStore{pool: pool}
}

func scanSlot(row pgx.Row) (TimeSlot, error) {
	var s TimeSlot
	var date int64

	err := row.Scan(
		&s.TimeType,
		&date,
		&s.DoctorID,
		&s.MaxNumber,
	)
	if err != nil {
		return TimeSlot{}, err
	}

	s.Date = Date(date)
	return s, nil
}

func (r *PgStore) FindSlots(ctx context.Context, doctorID uuid.UUID, date Date) ([]TimeSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT time_type, date, doctor_id, max_number
		FROM schedules
		WHERE doctor_id = $1 AND date = $2
		ORDER BY time_type
	`, doctorID, int64(date))
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	result := []TimeSlot{}
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// InsertSlots writes the batch in one transaction. Rows colliding with the
// unique key are skipped by the database, not reported as errors.
func (r *PgStore) InsertSlots(ctx context.Context, slots []TimeSlot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin insert schedules: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, s := range slots {
		tag, err := tx.Exec(ctx, `
			INSERT INTO schedules (doctor_id, date, time_type, max_number, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (doctor_id, date, time_type) DO NOTHING
		`, s.DoctorID, int64(s.Date), s.TimeType, s.MaxNumber)
		if err != nil {
			return 0, fmt.Errorf("insert schedule %s: %w", s.TimeType, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit insert schedules: %w", err)
	}

	return inserted, nil
}
