package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackgods/clinic-booking-scheduler/internal/apperr"
	"github.com/hackgods/clinic-booking-scheduler/internal/booking"
	"github.com/hackgods/clinic-booking-scheduler/internal/directory"
	"github.com/hackgods/clinic-booking-scheduler/internal/schedule"
)

type SchedulePublisher interface {
	Publish(ctx context.Context, req schedule.PublishRequest) (schedule.PublishResult, error)
}

type RemedyCompleter interface {
	CompleteWithRemedy(ctx context.Context, req booking.RemedyRequest) (booking.CompletionResult, error)
}

type Directory interface {
	ScheduleByDate(ctx context.Context, doctorID uuid.UUID, date schedule.Date) ([]directory.ScheduleEntry, error)
	PatientsForDoctor(ctx context.Context, doctorID uuid.UUID, date schedule.Date) ([]directory.PatientBooking, error)
	DoctorDetail(ctx context.Context, id uuid.UUID) (*directory.DoctorDetail, error)
	DoctorInfo(ctx context.Context, doctorID uuid.UUID) (*directory.DoctorInfo, error)
	TopDoctors(ctx context.Context, limit int) ([]directory.Doctor, error)
	AllDoctors(ctx context.Context) ([]directory.Doctor, error)
	SaveDoctorInfo(ctx context.Context, in directory.SaveDoctorInfoInput) error
}

func publishScheduleHandler(svc SchedulePublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PublishScheduleRequest
		if !decodeBody(w, r, &req) {
			return
		}

		doctorID, err := parseID(req.DoctorID, "doctor_id")
		if err != nil {
			writeServiceError(w, err)
			return
		}

		result, err := svc.Publish(r.Context(), schedule.PublishRequest{
			DoctorID: doctorID,
			Date:     req.Date,
			Slots:    req.Slots,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		status := http.StatusOK
		if result.Created > 0 {
			status = http.StatusCreated
		}
		writeJSON(w, status, result)
	}
}

func completeRemedyHandler(svc RemedyCompleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CompleteRemedyRequest
		if !decodeBody(w, r, &req) {
			return
		}

		doctorID, err := parseID(req.DoctorID, "doctor_id")
		if err != nil {
			writeServiceError(w, err)
			return
		}
		patientID, err := parseID(req.PatientID, "patient_id")
		if err != nil {
			writeServiceError(w, err)
			return
		}

		result, err := svc.CompleteWithRemedy(r.Context(), booking.RemedyRequest{
			DoctorID:    doctorID,
			PatientID:   patientID,
			TimeType:    req.TimeType,
			Date:        req.Date,
			Email:       req.Email,
			PatientName: req.PatientName,
			Attachment:  req.ImageBase64,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func scheduleByDateHandler(svc Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, date, err := doctorAndDate(r)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		entries, err := svc.ScheduleByDate(r.Context(), doctorID, date)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func patientsForDoctorHandler(svc Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, date, err := doctorAndDate(r)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		patients, err := svc.PatientsForDoctor(r.Context(), doctorID, date)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, patients)
	}
}

func listDoctorsHandler(svc Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.AllDoctors(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doctors)
	}
}

func topDoctorsHandler(svc Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeServiceError(w, apperr.Invalid("limit", "must be an integer"))
				return
			}
			limit = n
		}

		doctors, err := svc.TopDoctors(r.Context(), limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doctors)
	}
}

func doctorDetailHandler(svc Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(chi.URLParam(r, "id"), "id")
		if err != nil {
			writeServiceError(w, err)
			return
		}

		detail, err := svc.DoctorDetail(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

func doctorInfoHandler(svc Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(chi.URLParam(r, "id"), "doctor_id")
		if err != nil {
			writeServiceError(w, err)
			return
		}

		info, err := svc.DoctorInfo(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func saveDoctorInfoHandler(svc Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SaveDoctorInfoRequest
		if !decodeBody(w, r, &req) {
			return
		}

		doctorID, err := parseID(req.DoctorID, "doctor_id")
		if err != nil {
			writeServiceError(w, err)
			return
		}
		in := req.SaveDoctorInfoInput
		in.DoctorID = doctorID

		if err := svc.SaveDoctorInfo(r.Context(), in); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
	}
}

// Helpers

// parseID leaves an empty id as uuid.Nil so the service reports it missing.
func parseID(raw, field string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Invalid(field, "must be a valid UUID")
	}
	return id, nil
}

func doctorAndDate(r *http.Request) (uuid.UUID, schedule.Date, error) {
	doctorID, err := parseID(chi.URLParam(r, "id"), "doctor_id")
	if err != nil {
		return uuid.Nil, 0, err
	}
	date, err := schedule.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		return uuid.Nil, 0, err
	}
	return doctorID, date, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, apperr.ErrInvalidParameter) {
			writeServiceError(w, err)
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrMissingParameter):
		writeError(w, http.StatusBadRequest, "missing_parameter", err.Error())
	case errors.Is(err, apperr.ErrInvalidParameter):
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
	case errors.Is(err, apperr.ErrDelivery):
		writeError(w, http.StatusBadGateway, "delivery_failed", err.Error())
	case errors.Is(err, apperr.ErrStore):
		writeError(w, http.StatusInternalServerError, "store_error", "could not reach the data store")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
