package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// statements are applied in order on startup. Everything is idempotent so the
// server can boot against a fresh or an existing database.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		id            uuid PRIMARY KEY,
		name          text NOT NULL,
		phone         text NOT NULL UNIQUE,
		email         text,
		password_hash text NOT NULL,
		age           int,
		gender        text,
		is_active     boolean NOT NULL DEFAULT true,
		created_at    timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS hospitals (
		id                  uuid PRIMARY KEY,
		name                text NOT NULL,
		district            text NOT NULL,
		taluk               text NOT NULL,
		village             text NOT NULL,
		latitude            double precision NOT NULL,
		longitude           double precision NOT NULL,
		phone               text NOT NULL,
		email               text NOT NULL UNIQUE,
		password_hash       text NOT NULL,
		total_beds          int NOT NULL DEFAULT 50,
		registration_status text NOT NULL DEFAULT 'pending',
		created_at          timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS doctors (
		id                  uuid PRIMARY KEY,
		hospital_id         uuid NOT NULL REFERENCES hospitals(id),
		name                text NOT NULL,
		specialization      text NOT NULL,
		phone               text NOT NULL,
		availability_status text NOT NULL DEFAULT 'available',
		consultation_fee    double precision NOT NULL DEFAULT 0,
		created_at          timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id               uuid PRIMARY KEY,
		patient_id       uuid NOT NULL REFERENCES patients(id),
		doctor_id        uuid NOT NULL REFERENCES doctors(id),
		hospital_id      uuid NOT NULL REFERENCES hospitals(id),
		appointment_date date NOT NULL,
		appointment_time text NOT NULL,
		reason           text NOT NULL,
		status           text NOT NULL DEFAULT 'confirmed',
		created_at       timestamptz NOT NULL DEFAULT now(),
		CONSTRAINT uq_slot UNIQUE (doctor_id, appointment_date, appointment_time)
	)`,
	`CREATE TABLE IF NOT EXISTS prescriptions (
		id            uuid PRIMARY KEY,
		patient_id    uuid NOT NULL REFERENCES patients(id),
		doctor_id     uuid NOT NULL REFERENCES doctors(id),
		medicine_name text NOT NULL,
		dosage        text NOT NULL,
		duration      text,
		notes         text,
		prescribed_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS medicines (
		id           uuid PRIMARY KEY,
		hospital_id  uuid NOT NULL REFERENCES hospitals(id),
		name         text NOT NULL,
		generic_name text,
		quantity     int NOT NULL,
		unit         text NOT NULL DEFAULT 'tablet',
		expiry_date  date NOT NULL,
		cost         double precision NOT NULL DEFAULT 0,
		created_at   timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS awareness_content (
		id         uuid PRIMARY KEY,
		title      text NOT NULL,
		content    text NOT NULL,
		category   text NOT NULL,
		language   text NOT NULL DEFAULT 'EN',
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS health_schemes (
		id           uuid PRIMARY KEY,
		name         text NOT NULL,
		description  text NOT NULL,
		eligibility  text,
		benefits     text,
		contact_info text,
		created_at   timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_doctors_hospital ON doctors (hospital_id)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments (patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_prescriptions_patient ON prescriptions (patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_medicines_hospital ON medicines (hospital_id)`,
}

// Migrate brings the schema up to date.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
