package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgStoreFindSlots(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPgStore(mock)
	doctor := uuid.New()

	mock.ExpectQuery("SELECT time_type, date, doctor_id, max_number").
		WithArgs(doctor, int64(20240101)).
		WillReturnRows(pgxmock.NewRows([]string{"time_type", "date", "doctor_id", "max_number"}).
			AddRow("T1", int64(20240101), doctor, 10).
			AddRow("T2", int64(20240101), doctor, 10))

	slots, err := store.FindSlots(context.Background(), doctor, 20240101)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "T1", slots[0].TimeType)
	assert.Equal(t, Date(20240101), slots[0].Date)
	assert.Equal(t, doctor, slots[1].DoctorID)
	assert.Equal(t, 10, slots[1].MaxNumber)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStoreFindSlotsEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	doctor := uuid.New()
	mock.ExpectQuery("SELECT time_type, date, doctor_id, max_number").
		WithArgs(doctor, int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"time_type", "date", "doctor_id", "max_number"}))

	slots, err := NewPgStore(mock).FindSlots(context.Background(), doctor, 7)
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestPgStoreInsertSlotsCountsOnlyWrittenRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	doctor := uuid.New()
	slots := []TimeSlot{
		{DoctorID: doctor, Date: 20240101, TimeType: "T1", MaxNumber: 10},
		{DoctorID: doctor, Date: 20240101, TimeType: "T2", MaxNumber: 10},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").
		WithArgs(doctor, int64(20240101), "T1", 10).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO schedules").
		WithArgs(doctor, int64(20240101), "T2", 10).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectCommit()

	n, err := NewPgStore(mock).InsertSlots(context.Background(), slots)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStoreInsertSlotsRollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	doctor := uuid.New()
	cause := errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").
		WithArgs(doctor, int64(1), "T1", 5).
		WillReturnError(cause)
	mock.ExpectRollback()

	_, err = NewPgStore(mock).InsertSlots(context.Background(), []TimeSlot{
		{DoctorID: doctor, Date: 1, TimeType: "T1", MaxNumber: 5},
	})
	assert.ErrorIs(t, err, cause)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgStoreInsertNothing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	n, err := NewPgStore(mock).InsertSlots(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
