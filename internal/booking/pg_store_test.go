package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-booking-scheduler/internal/schedule"
)

var bookingCols = []string{"id", "doctor_id", "patient_id", "date", "time_type", "status_id", "created_at", "updated_at"}

func TestPgStoreFindConfirmedWithoutDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id, doctor, patient := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT id, doctor_id, patient_id").
		WithArgs(doctor, patient, "T1", StatusConfirmed).
		WillReturnRows(pgxmock.NewRows(bookingCols).
			AddRow(id, doctor, patient, int64(20240101), "T1", StatusConfirmed, now, now))

	appt, err := NewPgStore(mock).FindConfirmedAppointment(context.Background(), LookupKey{
		DoctorID: doctor, PatientID: patient, TimeType: "T1", Date: 20240101,
	})
	require.NoError(t, err)
	assert.Equal(t, id, appt.ID)
	assert.Equal(t, schedule.Date(20240101), appt.Date)
	assert.Equal(t, StatusConfirmed, appt.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStoreFindConfirmedWithDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	doctor, patient := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT id, doctor_id, patient_id").
		WithArgs(doctor, patient, "T1", StatusConfirmed, int64(20240101)).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPgStore(mock).FindConfirmedAppointment(context.Background(), LookupKey{
		DoctorID: doctor, PatientID: patient, TimeType: "T1", Date: 20240101, MatchDate: true,
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStoreUpdateStatusGuarded(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id, doctor, patient := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	store := NewPgStore(mock)

	mock.ExpectQuery("UPDATE bookings").
		WithArgs(id, StatusCompleted, StatusConfirmed).
		WillReturnRows(pgxmock.NewRows(bookingCols).
			AddRow(id, doctor, patient, int64(1), "T1", StatusCompleted, now, now))

	appt, err := store.UpdateAppointmentStatus(context.Background(), id, StatusConfirmed, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, appt.Status)

	mock.ExpectQuery("UPDATE bookings").
		WithArgs(id, StatusCompleted, StatusConfirmed).
		WillReturnError(pgx.ErrNoRows)
	_, err = store.UpdateAppointmentStatus(context.Background(), id, StatusConfirmed, StatusCompleted)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	cause := errors.New("conn closed")
	mock.ExpectQuery("UPDATE bookings").
		WithArgs(id, StatusCompleted, StatusConfirmed).
		WillReturnError(cause)
	_, err = store.UpdateAppointmentStatus(context.Background(), id, StatusConfirmed, StatusCompleted)
	assert.ErrorIs(t, err, cause)

	require.NoError(t, mock.ExpectationsWereMet())
}
