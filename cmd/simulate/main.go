package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
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
	"github.com/rs/zerolog/log"

	"github.com/ruralcare/arogya/internal/config"
	"github.com/ruralcare/arogya/internal/db"
)

// The simulator drives the live HTTP API with concurrent patients fighting
// over a deliberately small pool of doctor slots, then reports how many
// bookings won, how many hit conflicts, and what latencies looked like.

type SimConfig struct {
	APIBaseURL      string
	Duration        time.Duration
	Workers         int
	BookingRatio    float64
	CancelRatio     float64
	SearchRatio     float64
	PatientLimit    int
	DoctorLimit     int
	DayHorizon      int
	PatientPassword string
	PostgresDSN     string
}

// slotTimes is intentionally short so that workers collide on the same
// doctor/date/time tuples.
var slotTimes = []string{"09:00", "09:30", "10:00", "10:30", "11:00", "14:00", "14:30", "15:00"}

type patientSession struct {
	ID    uuid.UUID
	Token string
}

type doctorRef struct {
	ID         uuid.UUID
	HospitalID uuid.UUID
}

type bookedRef struct {
	AppointmentID uuid.UUID
	Owner         *patientSession
}

type DataPool struct {
	Patients []patientSession
	Doctors  []doctorRef

	mu     sync.RWMutex
	booked []bookedRef
}

func (dp *DataPool) AddBooked(id uuid.UUID, owner *patientSession) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.booked = append(dp.booked, bookedRef{AppointmentID: id, Owner: owner})
}

func (dp *DataPool) RandomBooked(rng *rand.Rand) (bookedRef, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.booked) == 0 {
		return bookedRef{}, false
	}
	return dp.booked[rng.Intn(len(dp.booked))], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case success:
		atomic.AddInt64(&om.Success, 1)
	case conflict:
		atomic.AddInt64(&om.Conflict, 1)
	default:
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

func percentileIndex(n, pct int) int {
	idx := n * pct / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}

type Metrics struct {
	Booking         OperationMetrics
	Cancel          OperationMetrics
	HospitalsNearby OperationMetrics
	DoctorsNearby   OperationMetrics
	MyAppointments  OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
}

func main() {
	log.Info().Msg("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	log.Info().
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Float64("booking", cfg.BookingRatio).
		Float64("cancel", cfg.CancelRatio).
		Float64("search", cfg.SearchRatio).
		Msg("config")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pgPool.Close()

	sim := &Simulator{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}

	dataPool, err := sim.loadDataPool(ctx, pgPool)
	if err != nil {
		log.Fatal().Err(err).Msg("load data pool")
	}
	sim.pool = dataPool

	log.Info().
		Int("patients", len(dataPool.Patients)).
		Int("doctors", len(dataPool.Doctors)).
		Msg("data pool ready")

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	baseCfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load base config")
	}

	cfg := SimConfig{
		APIBaseURL:      getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:        getDuration("SIM_DURATION", 30*time.Second),
		Workers:         getInt("SIM_WORKERS", 10),
		BookingRatio:    getFloat("SIM_BOOKING_RATIO", 0.5),
		CancelRatio:     getFloat("SIM_CANCEL_RATIO", 0.2),
		SearchRatio:     getFloat("SIM_SEARCH_RATIO", 0.3),
		PatientLimit:    getInt("SIM_PATIENT_LIMIT", 100),
		DoctorLimit:     getInt("SIM_DOCTOR_LIMIT", 20),
		DayHorizon:      getInt("SIM_DAY_HORIZON", 3),
		PatientPassword: getEnv("SIM_PATIENT_PASSWORD", "password123"),
		PostgresDSN:     baseCfg.PostgresDSN,
	}

	total := cfg.BookingRatio + cfg.CancelRatio + cfg.SearchRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.CancelRatio /= total
		cfg.SearchRatio /= total
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
	if cfg.DayHorizon <= 0 {
		return fmt.Errorf("SIM_DAY_HORIZON must be > 0")
	}
	return nil
}

// loadDataPool pulls patient phones and doctor IDs straight from Postgres,
// then logs each patient in over the API so that workers hold real tokens.
func (s *Simulator) loadDataPool(ctx context.Context, pool *pgxpool.Pool) (*DataPool, error) {
	dataPool := &DataPool{}

	rows, err := pool.Query(ctx, `
		SELECT id, phone FROM patients WHERE is_active ORDER BY created_at LIMIT $1
	`, s.config.PatientLimit)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	defer rows.Close()

	type patientRow struct {
		id    uuid.UUID
		phone string
	}
	var patients []patientRow
	for rows.Next() {
		var p patientRow
		if err := rows.Scan(&p.id, &p.phone); err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	if len(patients) == 0 {
		return nil, fmt.Errorf("no patients loaded, run the seed tool first")
	}

	rows, err = pool.Query(ctx, `
		SELECT d.id, d.hospital_id
		FROM doctors d
		JOIN hospitals h ON h.id = d.hospital_id
		WHERE h.registration_status = 'approved'
		ORDER BY d.created_at
		LIMIT $1
	`, s.config.DoctorLimit)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d doctorRef
		if err := rows.Scan(&d.ID, &d.HospitalID); err != nil {
			return nil, err
		}
		dataPool.Doctors = append(dataPool.Doctors, d)
	}
	if len(dataPool.Doctors) == 0 {
		return nil, fmt.Errorf("no doctors loaded, run the seed tool first")
	}

	log.Info().Int("count", len(patients)).Msg("logging in patients")

	for _, p := range patients {
		token, err := s.login(ctx, p.phone)
		if err != nil {
			log.Warn().Err(err).Str("phone", p.phone).Msg("login failed, skipping patient")
			continue
		}
		dataPool.Patients = append(dataPool.Patients, patientSession{ID: p.id, Token: token})
	}
	if len(dataPool.Patients) == 0 {
		return nil, fmt.Errorf("no patient logins succeeded, check SIM_PATIENT_PASSWORD")
	}

	return dataPool, nil
}

func (s *Simulator) login(ctx context.Context, phone string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"role":     "patient",
		"phone":    phone,
		"password": s.config.PatientPassword,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIBaseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login status %d", resp.StatusCode)
	}

	var loginResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return "", err
	}
	if loginResp.AccessToken == "" {
		return "", fmt.Errorf("empty token in login response")
	}
	return loginResp.AccessToken, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Info().Dur("duration", s.config.Duration).Int("workers", s.config.Workers).Msg("starting simulation")

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Info().Msg("simulation complete")
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
			case r < s.config.BookingRatio:
				s.doBooking(ctx, rng)
			case r < s.config.BookingRatio+s.config.CancelRatio:
				s.doCancel(ctx, rng)
			default:
				switch rng.Intn(3) {
				case 0:
					s.doHospitalsNearby(ctx, rng)
				case 1:
					s.doDoctorsNearby(ctx, rng)
				case 2:
					s.doMyAppointments(ctx, rng)
				}
			}
		}
	}
}

func (s *Simulator) randomPatient(rng *rand.Rand) *patientSession {
	return &s.pool.Patients[rng.Intn(len(s.pool.Patients))]
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	patient := s.randomPatient(rng)
	doctor := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]
	date := time.Now().AddDate(0, 0, rng.Intn(s.config.DayHorizon)+1).Format("2006-01-02")
	timeSlot := slotTimes[rng.Intn(len(slotTimes))]

	body, _ := json.Marshal(map[string]string{
		"doctor_id":        doctor.ID.String(),
		"hospital_id":      doctor.HospitalID.String(),
		"appointment_date": date,
		"appointment_time": timeSlot,
		"reason":           "routine checkup",
	})

	start := time.Now()
	resp, err := s.doAuthed(ctx, http.MethodPost, "/api/appointments/book", patient.Token, body)
	latency := time.Since(start)

	success := false
	conflict := false
	if err == nil {
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusCreated:
			success = true
			var apptResp struct {
				ID uuid.UUID `json:"id"`
			}
			bodyBytes, _ := io.ReadAll(resp.Body)
			if json.Unmarshal(bodyBytes, &apptResp) == nil && apptResp.ID != uuid.Nil {
				s.pool.AddBooked(apptResp.ID, patient)
			}
		case http.StatusConflict:
			conflict = true
		}
	}

	s.metrics.Booking.Record(latency, success, conflict)
}

func (s *Simulator) doCancel(ctx context.Context, rng *rand.Rand) {
	ref, ok := s.pool.RandomBooked(rng)
	if !ok {
		return
	}

	start := time.Now()
	resp, err := s.doAuthed(ctx, http.MethodPut,
		fmt.Sprintf("/api/appointments/%s/cancel", ref.AppointmentID), ref.Owner.Token, nil)
	latency := time.Since(start)

	success := false
	conflict := false
	if err == nil {
		defer resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusOK:
			success = true
		case http.StatusBadRequest:
			// Already cancelled by another worker.
			conflict = true
		}
	}

	s.metrics.Cancel.Record(latency, success, conflict)
}

func (s *Simulator) doHospitalsNearby(ctx context.Context, rng *rand.Rand) {
	s.doNearby(ctx, rng, "/api/hospitals/nearby", "", &s.metrics.HospitalsNearby)
}

func (s *Simulator) doDoctorsNearby(ctx context.Context, rng *rand.Rand) {
	specializations := []string{"", "Cardiology", "Pediatrics", "General Medicine"}
	s.doNearby(ctx, rng, "/api/doctors/nearby", specializations[rng.Intn(len(specializations))], &s.metrics.DoctorsNearby)
}

func (s *Simulator) doNearby(ctx context.Context, rng *rand.Rand, path, specialization string, om *OperationMetrics) {
	lat := 10.7905 + rng.Float64()*0.2 - 0.1
	lon := 78.7047 + rng.Float64()*0.2 - 0.1

	payload := map[string]any{
		"latitude":  lat,
		"longitude": lon,
		"radius":    50,
	}
	if specialization != "" {
		payload["specialization"] = specialization
	}
	body, _ := json.Marshal(payload)

	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIBaseURL+path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	om.Record(latency, success, false)
}

func (s *Simulator) doMyAppointments(ctx context.Context, rng *rand.Rand) {
	patient := s.randomPatient(rng)

	start := time.Now()
	resp, err := s.doAuthed(ctx, http.MethodGet, "/api/appointments/my", patient.Token, nil)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.MyAppointments.Record(latency, success, false)
}

func (s *Simulator) doAuthed(ctx context.Context, method, path, token string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return s.client.Do(req)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Booking", &s.metrics.Booking)
	printOperationReport("Cancel", &s.metrics.Cancel)
	printOperationReport("Hospitals Nearby", &s.metrics.HospitalsNearby)
	printOperationReport("Doctors Nearby", &s.metrics.DoctorsNearby)
	printOperationReport("My Appointments", &s.metrics.MyAppointments)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	errCount := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if errCount > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", errCount, float64(errCount)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

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
