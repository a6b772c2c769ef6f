package api

import (
	"github.com/hackgods/clinic-booking-scheduler/internal/directory"
	"github.com/hackgods/clinic-booking-scheduler/internal/schedule"
)

// Identifiers travel as strings so an absent id can be reported as missing
// rather than as a malformed body.

type PublishScheduleRequest struct {
	DoctorID string                 `json:"doctor_id"`
	Date     schedule.Date          `json:"date"`
	Slots    []schedule.SlotRequest `json:"slots"`
}

type CompleteRemedyRequest struct {
	DoctorID    string        `json:"doctor_id"`
	PatientID   string        `json:"patient_id"`
	TimeType    string        `json:"time_type"`
	Date        schedule.Date `json:"date"`
	Email       string        `json:"email"`
	PatientName string        `json:"patient_name"`
	ImageBase64 string        `json:"image_base64"`
}

type SaveDoctorInfoRequest struct {
	DoctorID string `json:"doctor_id"`
	directory.SaveDoctorInfoInput
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
