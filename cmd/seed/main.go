package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/ruralcare/arogya/internal/db"
)

// Demo password shared by every seeded account.
const seedPassword = "password123"

var specializations = []string{
	"General Medicine",
	"Cardiology",
	"Pediatrics",
	"Orthopedics",
	"Gynecology",
	"Dermatology",
	"ENT",
	"Ophthalmology",
	"Neurology",
	"Psychiatry",
}

var availabilityStatuses = []string{"available", "available", "available", "unavailable", "on_leave"}

func main() {
	log.Info().Msg("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	if err := db.Migrate(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("migrate schema")
	}

	gofakeit.Seed(time.Now().UnixNano())

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash seed password")
	}

	hospitalIDs, err := seedHospitals(context.Background(), pool, string(hash), 25)
	if err != nil {
		log.Fatal().Err(err).Msg("seed hospitals")
	}
	if err := seedDoctors(context.Background(), pool, hospitalIDs, 6); err != nil {
		log.Fatal().Err(err).Msg("seed doctors")
	}
	if err := seedPatients(context.Background(), pool, string(hash), 200); err != nil {
		log.Fatal().Err(err).Msg("seed patients")
	}
	if err := seedMedicines(context.Background(), pool, hospitalIDs, 15); err != nil {
		log.Fatal().Err(err).Msg("seed medicines")
	}
	if err := seedContent(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("seed content")
	}

	log.Info().Msg("seed complete")
}

// seedHospitals scatters hospitals around the default search origin so that
// nearby queries return a useful mix of distances. Most are approved, a few
// are left pending for the admin flow.
func seedHospitals(ctx context.Context, pool *pgxpool.Pool, passwordHash string, count int) ([]uuid.UUID, error) {
	log.Info().Int("count", count).Msg("seeding hospitals")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		lat := 10.7905 + gofakeit.Float64Range(-0.5, 0.5)
		lon := 78.7047 + gofakeit.Float64Range(-0.5, 0.5)

		status := "approved"
		if i%8 == 7 {
			status = "pending"
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO hospitals (id, name, district, taluk, village, latitude, longitude,
				phone, email, password_hash, total_beds, registration_status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		`, id,
			gofakeit.Company()+" Hospital",
			"Tiruchirappalli",
			gofakeit.City(),
			gofakeit.City(),
			lat, lon,
			gofakeit.Phone(),
			fmt.Sprintf("hospital%d@example.org", i),
			passwordHash,
			gofakeit.Number(20, 200),
			status,
		)
		if err != nil {
			return nil, err
		}

		if status == "approved" {
			ids = append(ids, id)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Info().Msg("hospitals seeded")
	return ids, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, hospitalIDs []uuid.UUID, perHospital int) error {
	log.Info().Int("per_hospital", perHospital).Msg("seeding doctors")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, hospitalID := range hospitalIDs {
		for i := 0; i < perHospital; i++ {
			_, err := tx.Exec(ctx, `
				INSERT INTO doctors (id, hospital_id, name, specialization, phone,
					availability_status, consultation_fee, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			`, uuid.New(),
				hospitalID,
				"Dr. "+gofakeit.Name(),
				specializations[gofakeit.Number(0, len(specializations)-1)],
				gofakeit.Phone(),
				availabilityStatuses[gofakeit.Number(0, len(availabilityStatuses)-1)],
				gofakeit.Float64Range(50, 500),
			)
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().Msg("doctors seeded")
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, passwordHash string, count int) error {
	log.Info().Int("count", count).Msg("seeding patients")

	const batchSize = 100

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, name, phone, email, password_hash, age, gender, is_active, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, true, now())
			`, uuid.New(),
				gofakeit.Name(),
				fmt.Sprintf("9%09d", i),
				gofakeit.Email(),
				passwordHash,
				gofakeit.Number(18, 85),
				gofakeit.RandomString([]string{"male", "female"}),
			)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}
	}

	log.Info().Msg("patients seeded")
	return nil
}

func seedMedicines(ctx context.Context, pool *pgxpool.Pool, hospitalIDs []uuid.UUID, perHospital int) error {
	log.Info().Int("per_hospital", perHospital).Msg("seeding medicines")

	medicines := []struct{ name, generic, unit string }{
		{"Crocin 500", "Paracetamol", "tablet"},
		{"Amoxil 250", "Amoxicillin", "capsule"},
		{"Metformin 500", "Metformin", "tablet"},
		{"Amlodipine 5", "Amlodipine", "tablet"},
		{"ORS Sachet", "Oral Rehydration Salts", "sachet"},
		{"Ventolin Inhaler", "Salbutamol", "unit"},
		{"Iron Folic Acid", "Ferrous Sulphate", "tablet"},
		{"Cetirizine 10", "Cetirizine", "tablet"},
		{"Omeprazole 20", "Omeprazole", "capsule"},
		{"Ibuprofen 400", "Ibuprofen", "tablet"},
		{"Azithromycin 500", "Azithromycin", "tablet"},
		{"Insulin 40IU", "Human Insulin", "vial"},
		{"Betadine Solution", "Povidone Iodine", "bottle"},
		{"Cough Syrup", "Dextromethorphan", "bottle"},
		{"Vitamin D3", "Cholecalciferol", "tablet"},
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, hospitalID := range hospitalIDs {
		for i := 0; i < perHospital && i < len(medicines); i++ {
			m := medicines[i]

			// Leave some stock exhausted and some batches expired so the
			// availability flags show up in listings.
			quantity := gofakeit.Number(0, 500)
			expiry := time.Now().AddDate(0, gofakeit.Number(-2, 24), 0)

			_, err := tx.Exec(ctx, `
				INSERT INTO medicines (id, hospital_id, name, generic_name, quantity, unit, expiry_date, cost, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
			`, uuid.New(), hospitalID, m.name, m.generic, quantity, m.unit, expiry, gofakeit.Float64Range(2, 150))
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().Msg("medicines seeded")
	return nil
}

func seedContent(ctx context.Context, pool *pgxpool.Pool) error {
	log.Info().Msg("seeding awareness content and health schemes")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	articles := []struct{ title, category string }{
		{"Preventing Dengue in the Monsoon", "Disease Prevention"},
		{"Safe Drinking Water Practices", "Hygiene"},
		{"Maternal Nutrition Basics", "Maternal Health"},
		{"Recognising Early Signs of Diabetes", "Chronic Disease"},
	}
	for _, a := range articles {
		_, err := tx.Exec(ctx, `
			INSERT INTO awareness_content (id, title, content, category, language, created_at)
			VALUES ($1, $2, $3, $4, 'EN', now())
		`, uuid.New(), a.title, gofakeit.Paragraph(2, 4, 10, " "), a.category)
		if err != nil {
			return err
		}
	}

	schemes := []struct{ name, description string }{
		{"Ayushman Bharat PM-JAY", "Health cover of Rs. 5 lakh per family per year for secondary and tertiary care."},
		{"Chief Minister's Comprehensive Health Insurance", "Cashless treatment for listed procedures in empanelled hospitals."},
	}
	for _, s := range schemes {
		_, err := tx.Exec(ctx, `
			INSERT INTO health_schemes (id, name, description, eligibility, benefits, contact_info, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, now())
		`, uuid.New(), s.name, s.description,
			"See scheme portal for eligibility details.",
			"Cashless hospitalisation.",
			"104")
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().Msg("content seeded")
	return nil
}
