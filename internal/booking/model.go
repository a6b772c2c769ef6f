package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-booking-scheduler/internal/schedule"
)

// Status values are the lookup codes stored in bookings.status_id.
type Status string

const (
	StatusPending   Status = "S1"
	StatusConfirmed Status = "S2"
	StatusCompleted Status = "S3"
	StatusCancelled Status = "S4"
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return string(s)
	}
}

type Appointment struct {
	ID           uuid.UUID
	DoctorID     uuid.UUID
	PatientID    uuid.UUID
	Date         schedule.Date
	TimeType     string
	Status       Status
	PatientEmail string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LookupKey selects the confirmed appointment a remedy belongs to. Date only
// takes part in the match when MatchDate is set.
type LookupKey struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	TimeType  string
	Date      schedule.Date
	MatchDate bool
}

// Outcome tells the two successful completion results apart.
type Outcome string

const (
	OutcomeCompleted             Outcome = "completed"
	OutcomeNoMatchingAppointment Outcome = "no_matching_appointment"
)

type RemedyRequest struct {
	DoctorID    uuid.UUID
	PatientID   uuid.UUID
	TimeType    string
	Date        schedule.Date
	Email       string
	PatientName string
	// Attachment is a data URL or bare base64 payload.
	Attachment string
}

type CompletionResult struct {
	Outcome       Outcome    `json:"outcome"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
}
