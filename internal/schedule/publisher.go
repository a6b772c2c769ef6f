package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-booking-scheduler/internal/apperr"
	"github.com/hackgods/clinic-booking-scheduler/internal/metrics"
	redisclient "github.com/hackgods/clinic-booking-scheduler/internal/redis"
)

var ErrCapacityRequired = errors.New("slot capacity must be configured as a positive integer")

// Publisher adds a doctor's requested slots for a date, skipping the ones
// that already exist.
type Publisher struct {
	store     Store
	maxNumber int
	locker    redisclient.Locker
	metrics   *metrics.SchedulingMetrics
	logger    zerolog.Logger
}

type PublisherOption func(*Publisher)

// WithLocker serializes publishes per doctor and date. A publish that finds
// the lock held runs unlocked and the database unique key decides on
// duplicates.
func WithLocker(l redisclient.Locker) PublisherOption {
	return func(p *Publisher) { p.locker = l }
}

func WithMetrics(m *metrics.SchedulingMetrics) PublisherOption {
	return func(p *Publisher) { p.metrics = m }
}

func WithLogger(l zerolog.Logger) PublisherOption {
	return func(p *Publisher) { p.logger = l }
}

func NewPublisher(store Store, maxNumber int, opts ...PublisherOption) (*Publisher, error) {
	if store == nil {
		return nil, errors.New("schedule: store required")
	}
	if maxNumber <= 0 {
		return nil, ErrCapacityRequired
	}
	p := &Publisher{
		store:     store,
		maxNumber: maxNumber,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Publish stores the requested slots that are not yet present for the
// doctor and date. Calling it again with the same request writes nothing.
func (p *Publisher) Publish(ctx context.Context, req PublishRequest) (PublishResult, error) {
	defer p.metrics.ObserveDuration("publish", time.Now())

	if req.DoctorID == uuid.Nil {
		return PublishResult{}, apperr.Missing("doctor_id")
	}
	if req.Date.IsZero() {
		return PublishResult{}, apperr.Missing("date")
	}
	if len(req.Slots) == 0 {
		return PublishResult{}, apperr.Missing("slots")
	}

	requested, err := p.stamp(req)
	if err != nil {
		return PublishResult{}, err
	}

	var result PublishResult
	ran := false
	run := func(ctx context.Context) error {
		ran = true

		existing, err := p.store.FindSlots(ctx, req.DoctorID, req.Date)
		if err != nil {
			return apperr.Store("find slots", err)
		}

		toCreate := newSlots(requested, existing)

		created := 0
		if len(toCreate) > 0 {
			created, err = p.store.InsertSlots(ctx, toCreate)
			if err != nil {
				return apperr.Store("insert slots", err)
			}
		}

		result = PublishResult{
			Requested: len(req.Slots),
			Created:   created,
			Skipped:   len(req.Slots) - created,
		}
		return nil
	}

	if p.locker != nil {
		err = p.locker.WithLock(ctx, lockKey(req.DoctorID, req.Date), run)
		if errors.Is(err, redisclient.ErrLockNotAcquired) && !ran {
			p.logger.Debug().
				Str("doctor_id", req.DoctorID.String()).
				Str("date", req.Date.String()).
				Msg("schedule lock held, publishing unlocked")
			err = run(ctx)
		}
	} else {
		err = run(ctx)
	}
	if err != nil {
		if !ran {
			return PublishResult{}, apperr.Store("acquire schedule lock", err)
		}
		p.logger.Error().Err(err).
			Str("doctor_id", req.DoctorID.String()).
			Str("date", req.Date.String()).
			Msg("publish schedule failed")
		return PublishResult{}, err
	}

	p.metrics.ObservePublish(result.Created, result.Skipped)
	p.logger.Info().
		Str("doctor_id", req.DoctorID.String()).
		Str("date", req.Date.String()).
		Int("requested", result.Requested).
		Int("created", result.Created).
		Msg("schedule published")

	return result, nil
}

// stamp turns the request into slot records carrying the doctor, the date
// and the configured capacity. Repeated time types keep their first entry.
func (p *Publisher) stamp(req PublishRequest) ([]TimeSlot, error) {
	seen := make(map[slotKey]struct{}, len(req.Slots))
	slots := make([]TimeSlot, 0, len(req.Slots))

	for i, s := range req.Slots {
		if s.TimeType == "" {
			return nil, apperr.Missing(fmt.Sprintf("slots[%d].time_type", i))
		}
		date := s.Date
		if date.IsZero() {
			date = req.Date
		}
		if date != req.Date {
			return nil, apperr.Invalid(fmt.Sprintf("slots[%d].date", i), "must match the schedule date "+req.Date.String())
		}

		slot := TimeSlot{
			DoctorID:  req.DoctorID,
			Date:      date,
			TimeType:  s.TimeType,
			MaxNumber: p.maxNumber,
		}
		if _, dup := seen[keyOf(slot)]; dup {
			continue
		}
		seen[keyOf(slot)] = struct{}{}
		slots = append(slots, slot)
	}

	return slots, nil
}

// newSlots returns the requested slots that have no existing counterpart
// with the same time type and date.
func newSlots(requested, existing []TimeSlot) []TimeSlot {
	have := make(map[slotKey]struct{}, len(existing))
	for _, e := range existing {
		have[keyOf(e)] = struct{}{}
	}

	var out []TimeSlot
	for _, r := range requested {
		if _, ok := have[keyOf(r)]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

func lockKey(doctorID uuid.UUID, date Date) string {
	return fmt.Sprintf("schedule:%s:%s", doctorID, date)
}
