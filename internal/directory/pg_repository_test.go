package directory

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-booking-scheduler/internal/schedule"
)

func strp(s string) *string { return &s }

var doctorCols = []string{
	"id", "email", "first_name", "last_name", "address", "phone_number", "gender", "position_id", "image", "created_at",
	"pos_en", "pos_vi", "gen_en", "gen_vi",
}

func TestPgRepositoryScheduleByDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	doctor := uuid.New()
	mock.ExpectQuery("FROM schedules s").
		WithArgs(doctor, int64(20240101)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "doctor_id", "date", "time_type", "max_number", "current_number",
			"value_en", "value_vi", "first_name", "last_name",
		}).
			AddRow(int64(1), doctor, int64(20240101), "T1", 10, 2, "8:00 - 9:00", "8:00 - 9:00", "Ann", "Lee").
			AddRow(int64(2), doctor, int64(20240101), "T2", 10, 0, "9:00 - 10:00", "9:00 - 10:00", "Ann", "Lee"))

	entries, err := NewPgRepository(mock).ScheduleByDate(context.Background(), doctor, 20240101)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, schedule.Date(20240101), entries[0].Date)
	assert.Equal(t, 2, entries[0].CurrentNumber)
	assert.Equal(t, "9:00 - 10:00", entries[1].TimeTypeData.ValueEn)
	assert.Equal(t, "Lee", entries[1].DoctorData.LastName)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRepositoryConfirmedPatientsEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	doctor := uuid.New()
	mock.ExpectQuery("FROM bookings b").
		WithArgs(doctor, int64(20240101)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	patients, err := NewPgRepository(mock).ConfirmedPatients(context.Background(), doctor, 20240101)
	require.NoError(t, err)
	assert.NotNil(t, patients)
	assert.Empty(t, patients)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRepositoryDoctorInfoNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	doctor := uuid.New()
	mock.ExpectQuery("FROM doctor_info di").
		WithArgs(doctor).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPgRepository(mock).DoctorInfo(context.Background(), doctor)
	assert.ErrorIs(t, err, ErrDoctorInfoNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRepositoryDoctorInfoLabels(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	doctor := uuid.New()
	mock.ExpectQuery("FROM doctor_info di").
		WithArgs(doctor).
		WillReturnRows(pgxmock.NewRows([]string{
			"price_id", "province_id", "payment_id", "address_clinic", "name_clinic",
			"note", "specialty_id", "clinic_id", "count",
			"pr_en", "pr_vi", "pv_en", "pv_vi", "pm_en", "pm_vi",
		}).AddRow(
			"PRI1", "PRO1", "PAY1", "1 Main St", (*string)(nil),
			"note", "SP1", "CL1", 3,
			strp("10 USD"), strp("250000"), strp("Hanoi"), strp("Ha Noi"), (*string)(nil), (*string)(nil),
		))

	info, err := NewPgRepository(mock).DoctorInfo(context.Background(), doctor)
	require.NoError(t, err)
	assert.Equal(t, "PRI1", info.PriceID)
	assert.Equal(t, "", info.NameClinic)
	assert.Equal(t, 3, info.Count)
	assert.Equal(t, &Label{ValueEn: "10 USD", ValueVi: "250000"}, info.PriceTypeData)
	assert.Nil(t, info.PaymentTypeData)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRepositoryTopDoctors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM users u").
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows(doctorCols).AddRow(
			id, strp("ann@example.com"), strp("Ann"), strp("Lee"), (*string)(nil), (*string)(nil),
			strp("M"), strp("P1"), strp("img"), created,
			strp("Master"), strp("Thac si"), strp("Male"), strp("Nam"),
		))

	doctors, err := NewPgRepository(mock).TopDoctors(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, id, doctors[0].ID)
	assert.Equal(t, "img", doctors[0].Image)
	assert.Equal(t, "Master", doctors[0].PositionData.ValueEn)
	assert.Equal(t, created, *doctors[0].CreatedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRepositoryDoctorDetailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery("FROM users u").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPgRepository(mock).DoctorDetail(context.Background(), id)
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRepositoryDoctorDetailIgnoresRole(t *testing.T) {
	matcher := pgxmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error {
		if strings.Contains(actualSQL, "role_id") {
			return fmt.Errorf("detail query filters on role: %s", actualSQL)
		}
		if !strings.Contains(actualSQL, expectedSQL) {
			return fmt.Errorf("query %q does not contain %q", actualSQL, expectedSQL)
		}
		return nil
	})
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery("WHERE u.id = $1").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPgRepository(mock).DoctorDetail(context.Background(), id)
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRepositoryUpsertDoctorInfo(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	in := SaveDoctorInfoInput{
		DoctorID: uuid.New(), ContentHTML: "<p>x</p>", ContentMarkdown: "x", Description: "d",
		PriceID: "PRI1", PaymentID: "PAY1", ProvinceID: "PRO1", AddressClinic: "addr",
		NameClinic: "clinic", Note: "note", SpecialtyID: "SP1", ClinicID: "CL1",
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO doctor_info").
		WithArgs(in.DoctorID, in.PriceID, in.ProvinceID, in.PaymentID, in.AddressClinic, in.NameClinic,
			in.Note, in.SpecialtyID, in.ClinicID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO markdowns").
		WithArgs(in.DoctorID, in.Description, in.ContentHTML, in.ContentMarkdown).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, NewPgRepository(mock).UpsertDoctorInfo(context.Background(), in))
	require.NoError(t, mock.ExpectationsWereMet())
}
