package schedule

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is one published unit of availability. (DoctorID, Date, TimeType)
// is unique.
type TimeSlot struct {
	ID        int64
	DoctorID  uuid.UUID
	Date      Date
	TimeType  string
	MaxNumber int
	CreatedAt time.Time
}

// SlotRequest is a slot as submitted by the client. A zero Date inherits the
// date of the publish request.
type SlotRequest struct {
	TimeType string `json:"time_type"`
	Date     Date   `json:"date"`
}

type PublishRequest struct {
	DoctorID uuid.UUID
	Date     Date
	Slots    []SlotRequest
}

type PublishResult struct {
	Requested int `json:"requested"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
}

type slotKey struct {
	timeType string
	date     Date
}

func keyOf(s TimeSlot) slotKey {
	return slotKey{timeType: s.TimeType, date: s.Date}
}
