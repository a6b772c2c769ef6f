package schedule

import (
	"context"

	"github.com/google/uuid"
)

// Store persists time slots. Implementations must enforce uniqueness of
// (doctor, date, timeType) and silently skip rows that already exist.
type Store interface {
	FindSlots(ctx context.Context, doctorID uuid.UUID, date Date) ([]TimeSlot, error)
	// InsertSlots returns the number of rows actually written.
	InsertSlots(ctx context.Context, slots []TimeSlot) (int, error)
}
