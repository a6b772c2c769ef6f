package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-booking-scheduler/internal/db"
	"github.com/hackgods/clinic-booking-scheduler/internal/logging"
	"github.com/hackgods/clinic-booking-scheduler/internal/schedule"
)

// A tiny transparent PNG sent as the remedy attachment.
const remedyImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

var timeTypes = []string{"T1", "T2", "T3", "T4", "T5", "T6", "T7", "T8"}

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	PublishRatio float64
	RemedyRatio  float64
	ReadRatio    float64
	DoctorLimit  int
	BookingLimit int
	DaysAhead    int
	PostgresDSN  string
}

type confirmedBooking struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	TimeType  string
	Date      schedule.Date
	Email     string
	Name      string
}

type DataPool struct {
	Doctors  []uuid.UUID
	Bookings []confirmedBooking
	Dates    []schedule.Date
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[percentileIndex(len(latencies), 50)]
	p95 = latencies[percentileIndex(len(latencies), 95)]
	return avg, min, max, p50, p95
}

func percentileIndex(n, p int) int {
	idx := n * p / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}

type Metrics struct {
	Publish  OperationMetrics
	Remedy   OperationMetrics
	Schedule OperationMetrics
	Patients OperationMetrics

	SlotsCreated int64
	Completed    int64
	NoMatch      int64
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
	logger  zerolog.Logger
}

func main() {
	_ = godotenv.Load()
	logger := logging.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	logger.Info().
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Float64("publish", cfg.PublishRatio).
		Float64("remedy", cfg.RemedyRatio).
		Float64("read", cfg.ReadRatio).
		Msg("simulator starting")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pgPool.Close()

	dataPool, err := loadDataPool(ctx, pgPool, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("load data pool")
	}
	logger.Info().Int("doctors", len(dataPool.Doctors)).Int("bookings", len(dataPool.Bookings)).Msg("data pool loaded")

	sim := &Simulator{
		config: cfg,
		pool:   dataPool,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}

	sim.Run()
	sim.PrintReport()

	dups, err := findDuplicateSlots(context.Background(), pgPool, dataPool.Doctors)
	if err != nil {
		logger.Fatal().Err(err).Msg("duplicate slot check")
	}
	if dups > 0 {
		logger.Fatal().Int("duplicates", dups).Msg("duplicate slots found")
	}
	logger.Info().Msg("no duplicate slots")
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:   getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 10),
		PublishRatio: getFloat("SIM_PUBLISH_RATIO", 0.5),
		RemedyRatio:  getFloat("SIM_REMEDY_RATIO", 0.2),
		ReadRatio:    getFloat("SIM_READ_RATIO", 0.3),
		DoctorLimit:  getInt("SIM_DOCTOR_LIMIT", 5),
		BookingLimit: getInt("SIM_BOOKING_LIMIT", 500),
		DaysAhead:    getInt("SIM_DAYS_AHEAD", 3),
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
	}

	total := cfg.PublishRatio + cfg.RemedyRatio + cfg.ReadRatio
	if total > 0 {
		cfg.PublishRatio /= total
		cfg.RemedyRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required (set in .env or environment)")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	if cfg.DaysAhead <= 0 {
		return fmt.Errorf("SIM_DAYS_AHEAD must be > 0")
	}
	return nil
}

// loadDataPool keeps the doctor set small so that concurrent publishes
// contend on the same (doctor, date) keys.
func loadDataPool(ctx context.Context, pool *pgxpool.Pool, cfg SimConfig) (*DataPool, error) {
	dataPool := &DataPool{}

	rows, err := pool.Query(ctx, `SELECT id FROM users WHERE role_id = 'R2' LIMIT $1`, cfg.DoctorLimit)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		dataPool.Doctors = append(dataPool.Doctors, id)
	}
	rows.Close()

	rows, err = pool.Query(ctx, `
		SELECT b.doctor_id, b.patient_id, b.time_type, b.date, COALESCE(p.email, ''), COALESCE(p.first_name, '')
		FROM bookings b
		JOIN users p ON p.id = b.patient_id
		WHERE b.status_id = 'S2'
		LIMIT $1
	`, cfg.BookingLimit)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	for rows.Next() {
		var b confirmedBooking
		var date int64
		if err := rows.Scan(&b.DoctorID, &b.PatientID, &b.TimeType, &date, &b.Email, &b.Name); err != nil {
			rows.Close()
			return nil, err
		}
		b.Date = schedule.Date(date)
		dataPool.Bookings = append(dataPool.Bookings, b)
	}
	rows.Close()

	for i := 0; i < cfg.DaysAhead; i++ {
		dataPool.Dates = append(dataPool.Dates, schedule.DateFromTime(time.Now().AddDate(0, 0, i)))
	}

	if len(dataPool.Doctors) == 0 {
		return nil, errors.New("no doctors loaded")
	}

	return dataPool, nil
}

func findDuplicateSlots(ctx context.Context, pool *pgxpool.Pool, doctors []uuid.UUID) (int, error) {
	var dups int
	err := pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM (
			SELECT doctor_id, date, time_type
			FROM schedules
			WHERE doctor_id = ANY($1)
			GROUP BY doctor_id, date, time_type
			HAVING COUNT(*) > 1
		) d
	`, doctors).Scan(&dups)
	return dups, err
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	s.logger.Info().Dur("duration", s.config.Duration).Int("workers", s.config.Workers).Msg("starting simulation")

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.logger.Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			switch {
			case r < s.config.PublishRatio:
				s.doPublish(ctx, rng)
			case r < s.config.PublishRatio+s.config.RemedyRatio:
				s.doRemedy(ctx, rng)
			case rng.Intn(2) == 0:
				s.doReadSchedule(ctx, rng)
			default:
				s.doReadPatients(ctx, rng)
			}
		}
	}
}

// doPublish sends a shuffled, overlapping subset of time types so that
// retries and races hit already published slots.
func (s *Simulator) doPublish(ctx context.Context, rng *rand.Rand) {
	doctor := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]
	date := s.pool.Dates[rng.Intn(len(s.pool.Dates))]

	picked := append([]string(nil), timeTypes...)
	rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	picked = picked[:1+rng.Intn(len(picked))]

	slots := make([]map[string]string, 0, len(picked))
	for _, tt := range picked {
		slots = append(slots, map[string]string{"time_type": tt, "date": date.String()})
	}

	var result struct {
		Created int `json:"created"`
	}
	status, latency, err := s.post(ctx, "/api/schedules", map[string]any{
		"doctor_id": doctor.String(),
		"date":      date.String(),
		"slots":     slots,
	}, &result)

	success := err == nil && (status == http.StatusOK || status == http.StatusCreated)
	if success {
		atomic.AddInt64(&s.metrics.SlotsCreated, int64(result.Created))
	}
	s.metrics.Publish.Record(latency, success)
}

func (s *Simulator) doRemedy(ctx context.Context, rng *rand.Rand) {
	if len(s.pool.Bookings) == 0 {
		return
	}
	b := s.pool.Bookings[rng.Intn(len(s.pool.Bookings))]

	var result struct {
		Outcome string `json:"outcome"`
	}
	status, latency, err := s.post(ctx, "/api/remedies", map[string]any{
		"doctor_id":    b.DoctorID.String(),
		"patient_id":   b.PatientID.String(),
		"time_type":    b.TimeType,
		"date":         b.Date.String(),
		"email":        b.Email,
		"patient_name": b.Name,
		"image_base64": remedyImage,
	}, &result)

	success := err == nil && status == http.StatusOK
	if success {
		if result.Outcome == "completed" {
			atomic.AddInt64(&s.metrics.Completed, 1)
		} else {
			atomic.AddInt64(&s.metrics.NoMatch, 1)
		}
	}
	s.metrics.Remedy.Record(latency, success)
}

func (s *Simulator) doReadSchedule(ctx context.Context, rng *rand.Rand) {
	doctor := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]
	date := s.pool.Dates[rng.Intn(len(s.pool.Dates))]

	status, latency, err := s.get(ctx, fmt.Sprintf("/api/doctors/%s/schedules?date=%s", doctor, date))
	s.metrics.Schedule.Record(latency, err == nil && status == http.StatusOK)
}

func (s *Simulator) doReadPatients(ctx context.Context, rng *rand.Rand) {
	doctor := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]
	date := s.pool.Dates[rng.Intn(len(s.pool.Dates))]

	status, latency, err := s.get(ctx, fmt.Sprintf("/api/doctors/%s/patients?date=%s", doctor, date))
	s.metrics.Patients.Record(latency, err == nil && status == http.StatusOK)
}

func (s *Simulator) post(ctx context.Context, path string, body any, out any) (int, time.Duration, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, 0, err
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIBaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return 0, latency, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusBadRequest {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode, latency, nil
}

func (s *Simulator) get(ctx context.Context, path string) (int, time.Duration, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.APIBaseURL+path, nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return 0, latency, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, latency, nil
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Printf("Slots created: %d\n", atomic.LoadInt64(&s.metrics.SlotsCreated))
	fmt.Printf("Remedies: completed=%d no_match=%d\n",
		atomic.LoadInt64(&s.metrics.Completed), atomic.LoadInt64(&s.metrics.NoMatch))
	fmt.Println()

	printOperationReport("Publish", &s.metrics.Publish)
	printOperationReport("Remedy", &s.metrics.Remedy)
	printOperationReport("Schedule by date", &s.metrics.Schedule)
	printOperationReport("Patients for doctor", &s.metrics.Patients)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	failed := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if failed > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", failed, float64(failed)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
