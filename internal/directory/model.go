package directory

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-booking-scheduler/internal/schedule"
)

// Label is the display text of a reference code.
type Label struct {
	ValueEn string `json:"value_en"`
	ValueVi string `json:"value_vi"`
}

type PersonName struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ScheduleEntry struct {
	ID            int64         `json:"id"`
	DoctorID      uuid.UUID     `json:"doctor_id"`
	Date          schedule.Date `json:"date"`
	TimeType      string        `json:"time_type"`
	MaxNumber     int           `json:"max_number"`
	CurrentNumber int           `json:"current_number"`
	TimeTypeData  Label         `json:"time_type_data"`
	DoctorData    PersonName    `json:"doctor_data"`
}

type PatientContact struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	Gender     string `json:"gender"`
	GenderData Label  `json:"gender_data"`
}

type PatientBooking struct {
	ID           uuid.UUID      `json:"id"`
	DoctorID     uuid.UUID      `json:"doctor_id"`
	PatientID    uuid.UUID      `json:"patient_id"`
	Date         schedule.Date  `json:"date"`
	TimeType     string         `json:"time_type"`
	StatusID     string         `json:"status_id"`
	PatientData  PatientContact `json:"patient_data"`
	TimeTypeData Label          `json:"time_type_data"`
}

type Doctor struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email,omitempty"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	Address      string     `json:"address,omitempty"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	PositionID   string     `json:"position_id,omitempty"`
	Image        string     `json:"image,omitempty"`
	PositionData *Label     `json:"position_data,omitempty"`
	GenderData   *Label     `json:"gender_data,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

type Markdown struct {
	Description     string `json:"description"`
	ContentHTML     string `json:"content_html"`
	ContentMarkdown string `json:"content_markdown"`
}

type DoctorInfo struct {
	PriceID          string `json:"price_id,omitempty"`
	ProvinceID       string `json:"province_id,omitempty"`
	PaymentID        string `json:"payment_id,omitempty"`
	AddressClinic    string `json:"address_clinic,omitempty"`
	NameClinic       string `json:"name_clinic,omitempty"`
	Note             string `json:"note,omitempty"`
	SpecialtyID      string `json:"specialty_id,omitempty"`
	ClinicID         string `json:"clinic_id,omitempty"`
	Count            int    `json:"count,omitempty"`
	PriceTypeData    *Label `json:"price_type_data,omitempty"`
	ProvinceTypeData *Label `json:"province_type_data,omitempty"`
	PaymentTypeData  *Label `json:"payment_type_data,omitempty"`
}

// DoctorDetail is the zero value when the doctor does not exist.
type DoctorDetail struct {
	Doctor
	Markdown   *Markdown   `json:"markdown,omitempty"`
	DoctorInfo *DoctorInfo `json:"doctor_info,omitempty"`
}

type SaveDoctorInfoInput struct {
	DoctorID        uuid.UUID `json:"doctor_id"`
	ContentHTML     string    `json:"content_html"`
	ContentMarkdown string    `json:"content_markdown"`
	Description     string    `json:"description"`
	PriceID         string    `json:"selected_price"`
	PaymentID       string    `json:"selected_payment"`
	ProvinceID      string    `json:"selected_province"`
	AddressClinic   string    `json:"address_clinic"`
	NameClinic      string    `json:"name_clinic"`
	Note            string    `json:"note"`
	SpecialtyID     string    `json:"specialty_id"`
	ClinicID        string    `json:"clinic_id"`
}
