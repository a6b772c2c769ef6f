package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// Store contains the booking persistence the status machine needs.
type Store interface {
	// FindConfirmedAppointment returns ErrAppointmentNotFound when no
	// confirmed appointment matches the key.
	FindConfirmedAppointment(ctx context.Context, key LookupKey) (*Appointment, error)
	// UpdateAppointmentStatus moves the appointment from one status to another
	// and returns ErrAppointmentNotFound if it is no longer in from.
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Appointment, error)
}
