package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-booking-scheduler/internal/schedule"
)

var (
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrDoctorInfoNotFound = errors.New("doctor info not found")
)

// Repository contains the read joins behind the directory plus the doctor
// info upsert.
type Repository interface {
	ScheduleByDate(ctx context.Context, doctorID uuid.UUID, date schedule.Date) ([]ScheduleEntry, error)
	ConfirmedPatients(ctx context.Context, doctorID uuid.UUID, date schedule.Date) ([]PatientBooking, error)

	DoctorDetail(ctx context.Context, id uuid.UUID) (*DoctorDetail, error)
	DoctorInfo(ctx context.Context, doctorID uuid.UUID) (*DoctorInfo, error)
	TopDoctors(ctx context.Context, limit int) ([]Doctor, error)
	AllDoctors(ctx context.Context) ([]Doctor, error)

	UpsertDoctorInfo(ctx context.Context, in SaveDoctorInfoInput) error
}
