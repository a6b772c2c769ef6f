package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-booking-scheduler/internal/booking"
	"github.com/hackgods/clinic-booking-scheduler/internal/db"
	"github.com/hackgods/clinic-booking-scheduler/internal/logging"
	"github.com/hackgods/clinic-booking-scheduler/internal/schedule"
)

type code struct {
	key, typ, en, vi string
}

var codes = []code{
	{"R1", "ROLE", "Admin", "Quan tri vien"},
	{"R2", "ROLE", "Doctor", "Bac si"},
	{"R3", "ROLE", "Patient", "Benh nhan"},

	{"S1", "STATUS", "New", "Lich hen moi"},
	{"S2", "STATUS", "Confirmed", "Da xac nhan"},
	{"S3", "STATUS", "Done", "Da kham xong"},
	{"S4", "STATUS", "Cancel", "Da huy"},

	{"T1", "TIME", "8:00 AM - 9:00 AM", "8:00 - 9:00"},
	{"T2", "TIME", "9:00 AM - 10:00 AM", "9:00 - 10:00"},
	{"T3", "TIME", "10:00 AM - 11:00 AM", "10:00 - 11:00"},
	{"T4", "TIME", "11:00 AM - 0:00 PM", "11:00 - 12:00"},
	{"T5", "TIME", "1:00 PM - 2:00 PM", "13:00 - 14:00"},
	{"T6", "TIME", "2:00 PM - 3:00 PM", "14:00 - 15:00"},
	{"T7", "TIME", "3:00 PM - 4:00 PM", "15:00 - 16:00"},
	{"T8", "TIME", "4:00 PM - 5:00 PM", "16:00 - 17:00"},

	{"P0", "POSITION", "None", "Bac si"},
	{"P1", "POSITION", "Master", "Thac si"},
	{"P2", "POSITION", "Doctor", "Tien si"},
	{"P3", "POSITION", "Associate Professor", "Pho giao su"},
	{"P4", "POSITION", "Professor", "Giao su"},

	{"M", "GENDER", "Male", "Nam"},
	{"F", "GENDER", "Female", "Nu"},
	{"O", "GENDER", "Other", "Khac"},

	{"PRI1", "PRICE", "10", "200000"},
	{"PRI2", "PRICE", "15", "250000"},
	{"PRI3", "PRICE", "20", "300000"},
	{"PRI4", "PRICE", "25", "350000"},

	{"PAY1", "PAYMENT", "Cash", "Tien mat"},
	{"PAY2", "PAYMENT", "Credit card", "The ATM"},
	{"PAY3", "PAYMENT", "All", "Tat ca"},

	{"PRO1", "PROVINCE", "Ha Noi", "Ha Noi"},
	{"PRO2", "PROVINCE", "Ho Chi Minh", "Ho Chi Minh"},
	{"PRO3", "PROVINCE", "Da Nang", "Da Nang"},
	{"PRO4", "PROVINCE", "Can Tho", "Can Tho"},
}

func keysOf(typ string) []string {
	var out []string
	for _, c := range codes {
		if c.typ == typ {
			out = append(out, c.key)
		}
	}
	return out
}

func main() {
	_ = godotenv.Load()
	logger := logging.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	logger.Info().Msg("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		logger.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	faker := gofakeit.New(uint64(time.Now().UnixNano()))
	s := &seeder{pool: pool, faker: faker, logger: logger}

	doctorCount := getInt("SEED_DOCTORS", 20)
	patientCount := getInt("SEED_PATIENTS", 500)
	bookingCount := getInt("SEED_BOOKINGS", 200)

	run := context.Background()
	if err := s.seedCodes(run); err != nil {
		logger.Fatal().Err(err).Msg("seed reference codes")
	}
	doctors, err := s.seedUsers(run, "R2", doctorCount)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed doctors")
	}
	patients, err := s.seedUsers(run, "R3", patientCount)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed patients")
	}
	if err := s.seedDoctorProfiles(run, doctors); err != nil {
		logger.Fatal().Err(err).Msg("seed doctor profiles")
	}
	if err := s.seedBookings(run, doctors, patients, bookingCount); err != nil {
		logger.Fatal().Err(err).Msg("seed bookings")
	}

	logger.Info().Msg("seed complete")
}

type seeder struct {
	pool   *pgxpool.Pool
	faker  *gofakeit.Faker
	logger zerolog.Logger
}

func (s *seeder) seedCodes(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, c := range codes {
		_, err := tx.Exec(ctx, `
			INSERT INTO allcodes (key_map, type, value_en, value_vi, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (key_map) DO NOTHING
		`, c.key, c.typ, c.en, c.vi)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.logger.Info().Int("count", len(codes)).Msg("reference codes seeded")
	return nil
}

func (s *seeder) seedUsers(ctx context.Context, role string, count int) ([]uuid.UUID, error) {
	const batchSize = 500

	genders := keysOf("GENDER")
	positions := keysOf("POSITION")
	ids := make([]uuid.UUID, 0, count)

	for offset := 0; offset < count; offset += batchSize {
		end := min(offset+batchSize, count)

		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return nil, err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			var position *string
			if role == "R2" {
				p := positions[s.faker.Number(0, len(positions)-1)]
				position = &p
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO users (id, email, first_name, last_name, address, phone_number, gender,
				                   role_id, position_id, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
			`, id, fmt.Sprintf("%s.%d@example.com", s.faker.Username(), i), s.faker.FirstName(), s.faker.LastName(),
				s.faker.Address().Address, s.faker.Phone(), genders[s.faker.Number(0, len(genders)-1)],
				role, position)
			if err != nil {
				_ = tx.Rollback(ctx)
				return nil, err
			}
			ids = append(ids, id)
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		s.logger.Info().Str("role", role).Int("seeded", end).Int("total", count).Msg("users seeded")
	}

	return ids, nil
}

func (s *seeder) seedDoctorProfiles(ctx context.Context, doctors []uuid.UUID) error {
	prices, payments, provinces := keysOf("PRICE"), keysOf("PAYMENT"), keysOf("PROVINCE")
	specialties := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Neurology",
		"Pediatrics",
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, id := range doctors {
		specialty := specialties[s.faker.Number(0, len(specialties)-1)]
		clinic := s.faker.Company() + " Clinic"
		_, err := tx.Exec(ctx, `
			INSERT INTO doctor_info (doctor_id, price_id, province_id, payment_id, address_clinic, name_clinic,
			                         note, specialty_id, clinic_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
			ON CONFLICT (doctor_id) DO NOTHING
		`, id, prices[s.faker.Number(0, len(prices)-1)], provinces[s.faker.Number(0, len(provinces)-1)],
			payments[s.faker.Number(0, len(payments)-1)], s.faker.Address().Address, clinic,
			"Please arrive 15 minutes early.", specialty, strconv.Itoa(s.faker.Number(1, 20)))
		if err != nil {
			return err
		}

		description := fmt.Sprintf("%s specialist at %s", specialty, clinic)
		body := fmt.Sprintf("%s. Consults on %s and %s.", description, s.faker.WeekDay(), s.faker.WeekDay())
		_, err = tx.Exec(ctx, `
			INSERT INTO markdowns (doctor_id, description, content_html, content_markdown, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (doctor_id) DO NOTHING
		`, id, description, "<p>"+body+"</p>", body)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.logger.Info().Int("count", len(doctors)).Msg("doctor profiles seeded")
	return nil
}

// seedBookings spreads bookings over the coming week, mostly confirmed so
// that remedies can be sent against them.
func (s *seeder) seedBookings(ctx context.Context, doctors, patients []uuid.UUID, count int) error {
	if len(doctors) == 0 || len(patients) == 0 {
		return nil
	}

	times := keysOf("TIME")
	statuses := []booking.Status{booking.StatusPending, booking.StatusConfirmed, booking.StatusConfirmed, booking.StatusConfirmed}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		date := schedule.DateFromTime(time.Now().AddDate(0, 0, s.faker.Number(0, 6)))
		_, err := tx.Exec(ctx, `
			INSERT INTO bookings (id, doctor_id, patient_id, date, time_type, status_id, token, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		`, uuid.New(), doctors[s.faker.Number(0, len(doctors)-1)], patients[s.faker.Number(0, len(patients)-1)],
			int64(date), times[s.faker.Number(0, len(times)-1)], statuses[s.faker.Number(0, len(statuses)-1)],
			uuid.NewString())
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.logger.Info().Int("count", count).Msg("bookings seeded")
	return nil
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
