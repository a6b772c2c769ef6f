package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-booking-scheduler/internal/apperr"
	"github.com/hackgods/clinic-booking-scheduler/internal/metrics"
	"github.com/hackgods/clinic-booking-scheduler/internal/remedy"
)

// Deliverer sends the remedy document to the patient.
type Deliverer interface {
	Deliver(ctx context.Context, doc remedy.Document) error
}

// StatusMachine completes confirmed appointments and delivers the remedy.
// It keeps no state between calls.
type StatusMachine struct {
	store     Store
	deliverer Deliverer
	matchDate bool
	metrics   *metrics.SchedulingMetrics
	logger    zerolog.Logger
}

type Option func(*StatusMachine)

// WithDateMatching makes the appointment date part of the lookup key.
func WithDateMatching(on bool) Option {
	return func(m *StatusMachine) { m.matchDate = on }
}

func WithMetrics(mt *metrics.SchedulingMetrics) Option {
	return func(m *StatusMachine) { m.metrics = mt }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *StatusMachine) { m.logger = l }
}

func NewStatusMachine(store Store, deliverer Deliverer, opts ...Option) (*StatusMachine, error) {
	if store == nil {
		return nil, errors.New("booking: store required")
	}
	if deliverer == nil {
		return nil, errors.New("booking: deliverer required")
	}
	m := &StatusMachine{
		store:     store,
		deliverer: deliverer,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// CompleteWithRemedy moves the matching confirmed appointment to completed
// and then delivers the remedy. Without a confirmed match nothing is updated
// but the remedy is still delivered. A failed status write aborts before
// delivery; a failed delivery does not undo the status write.
func (m *StatusMachine) CompleteWithRemedy(ctx context.Context, req RemedyRequest) (CompletionResult, error) {
	defer m.metrics.ObserveDuration("complete_with_remedy", time.Now())

	if err := m.validate(req); err != nil {
		return CompletionResult{}, err
	}

	attachment, err := remedy.ParseAttachment(req.Attachment, fmt.Sprintf("remedy-%s-%d", req.PatientID, time.Now().UnixMilli()))
	if err != nil {
		return CompletionResult{}, apperr.Invalid("attachment", err.Error())
	}

	result, err := m.transition(ctx, req)
	if err != nil {
		return CompletionResult{}, err
	}
	m.metrics.ObserveCompletion(string(result.Outcome))

	doc := remedy.Document{
		To:          req.Email,
		PatientName: req.PatientName,
		DoctorID:    req.DoctorID.String(),
		PatientID:   req.PatientID.String(),
		TimeType:    req.TimeType,
		Date:        req.Date.String(),
		Attachment:  attachment,
	}
	err = m.deliverer.Deliver(ctx, doc)
	m.metrics.ObserveDelivery(err)
	if err != nil {
		m.logger.Error().Err(err).
			Str("patient_id", req.PatientID.String()).
			Str("outcome", string(result.Outcome)).
			Msg("remedy delivery failed")
		return CompletionResult{}, apperr.Delivery(err)
	}

	m.logger.Info().
		Str("doctor_id", req.DoctorID.String()).
		Str("patient_id", req.PatientID.String()).
		Str("time_type", req.TimeType).
		Str("outcome", string(result.Outcome)).
		Msg("remedy delivered")

	return result, nil
}

func (m *StatusMachine) validate(req RemedyRequest) error {
	switch {
	case req.Email == "":
		return apperr.Missing("email")
	case req.DoctorID == uuid.Nil:
		return apperr.Missing("doctor_id")
	case req.PatientID == uuid.Nil:
		return apperr.Missing("patient_id")
	case req.TimeType == "":
		return apperr.Missing("time_type")
	case req.Attachment == "":
		return apperr.Missing("attachment")
	case m.matchDate && req.Date.IsZero():
		return apperr.Missing("date")
	}
	return nil
}

// transition applies Confirmed -> Completed if a confirmed appointment
// matches. Any other state is left alone.
func (m *StatusMachine) transition(ctx context.Context, req RemedyRequest) (CompletionResult, error) {
	noMatch := CompletionResult{Outcome: OutcomeNoMatchingAppointment}

	appt, err := m.store.FindConfirmedAppointment(ctx, LookupKey{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		TimeType:  req.TimeType,
		Date:      req.Date,
		MatchDate: m.matchDate,
	})
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return noMatch, nil
		}
		return CompletionResult{}, apperr.Store("find confirmed appointment", err)
	}

	updated, err := m.store.UpdateAppointmentStatus(ctx, appt.ID, StatusConfirmed, StatusCompleted)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// Someone else moved it out of confirmed in between.
			return noMatch, nil
		}
		return CompletionResult{}, apperr.Store("complete appointment", err)
	}

	id := updated.ID
	return CompletionResult{Outcome: OutcomeCompleted, AppointmentID: &id}, nil
}
