package directory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-booking-scheduler/internal/apperr"
	"github.com/hackgods/clinic-booking-scheduler/internal/metrics"
	"github.com/hackgods/clinic-booking-scheduler/internal/schedule"
)

const DefaultTopLimit = 10

// Service serves the read side of the clinic: schedules, patient lists and
// doctor profiles. Lookups that find nothing return empty values, never nil.
type Service struct {
	repo    Repository
	metrics *metrics.SchedulingMetrics
	logger  zerolog.Logger
}

type Option func(*Service)

func WithMetrics(m *metrics.SchedulingMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ScheduleByDate(ctx context.Context, doctorID uuid.UUID, date schedule.Date) ([]ScheduleEntry, error) {
	defer s.metrics.ObserveDuration("schedule_by_date", time.Now())

	if doctorID == uuid.Nil {
		return nil, apperr.Missing("doctor_id")
	}
	if date.IsZero() {
		return nil, apperr.Missing("date")
	}

	entries, err := s.repo.ScheduleByDate(ctx, doctorID, date)
	if err != nil {
		return nil, apperr.Store("schedule by date", err)
	}
	if entries == nil {
		entries = []ScheduleEntry{}
	}
	return entries, nil
}

// PatientsForDoctor lists the confirmed bookings a doctor has on a date.
func (s *Service) PatientsForDoctor(ctx context.Context, doctorID uuid.UUID, date schedule.Date) ([]PatientBooking, error) {
	defer s.metrics.ObserveDuration("patients_for_doctor", time.Now())

	if doctorID == uuid.Nil {
		return nil, apperr.Missing("doctor_id")
	}
	if date.IsZero() {
		return nil, apperr.Missing("date")
	}

	patients, err := s.repo.ConfirmedPatients(ctx, doctorID, date)
	if err != nil {
		return nil, apperr.Store("patients for doctor", err)
	}
	if patients == nil {
		patients = []PatientBooking{}
	}
	return patients, nil
}

func (s *Service) DoctorDetail(ctx context.Context, id uuid.UUID) (*DoctorDetail, error) {
	if id == uuid.Nil {
		return nil, apperr.Missing("id")
	}

	detail, err := s.repo.DoctorDetail(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return &DoctorDetail{}, nil
		}
		return nil, apperr.Store("doctor detail", err)
	}
	return detail, nil
}

func (s *Service) DoctorInfo(ctx context.Context, doctorID uuid.UUID) (*DoctorInfo, error) {
	if doctorID == uuid.Nil {
		return nil, apperr.Missing("doctor_id")
	}

	info, err := s.repo.DoctorInfo(ctx, doctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorInfoNotFound) {
			return &DoctorInfo{}, nil
		}
		return nil, apperr.Store("doctor info", err)
	}
	return info, nil
}

// TopDoctors returns the newest doctors. A non-positive limit means the default.
func (s *Service) TopDoctors(ctx context.Context, limit int) ([]Doctor, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	doctors, err := s.repo.TopDoctors(ctx, limit)
	if err != nil {
		return nil, apperr.Store("top doctors", err)
	}
	if doctors == nil {
		doctors = []Doctor{}
	}
	return doctors, nil
}

func (s *Service) AllDoctors(ctx context.Context) ([]Doctor, error) {
	doctors, err := s.repo.AllDoctors(ctx)
	if err != nil {
		return nil, apperr.Store("all doctors", err)
	}
	if doctors == nil {
		doctors = []Doctor{}
	}
	return doctors, nil
}

// SaveDoctorInfo upserts the doctor's clinic info and profile text. The
// first missing required field is reported; description and clinic name
// are optional.
func (s *Service) SaveDoctorInfo(ctx context.Context, in SaveDoctorInfoInput) error {
	defer s.metrics.ObserveDuration("save_doctor_info", time.Now())

	if field := firstMissing(in); field != "" {
		return apperr.Missing(field)
	}

	if err := s.repo.UpsertDoctorInfo(ctx, in); err != nil {
		s.logger.Error().Err(err).
			Str("doctor_id", in.DoctorID.String()).
			Msg("save doctor info failed")
		return apperr.Store("save doctor info", err)
	}

	s.logger.Info().Str("doctor_id", in.DoctorID.String()).Msg("doctor info saved")
	return nil
}

func firstMissing(in SaveDoctorInfoInput) string {
	if in.DoctorID == uuid.Nil {
		return "doctor_id"
	}
	fields := []struct {
		name  string
		value string
	}{
		{"content_html", in.ContentHTML},
		{"content_markdown", in.ContentMarkdown},
		{"selected_price", in.PriceID},
		{"selected_payment", in.PaymentID},
		{"selected_province", in.ProvinceID},
		{"address_clinic", in.AddressClinic},
		{"note", in.Note},
		{"specialty_id", in.SpecialtyID},
		{"clinic_id", in.ClinicID},
	}
	for _, f := range fields {
		if f.value == "" {
			return f.name
		}
	}
	return ""
}
