// Package content serves the static reference material shown to patients:
// awareness articles, government health schemes, and the read-side of
// prescriptions and hospital medicine stock.
package content

import (
	"time"

	"github.com/google/uuid"
)

type AwarenessContent struct {
	ID        uuid.UUID
	Title     string
	Content   string
	Category  string
	Language  string
	CreatedAt time.Time
}

type HealthScheme struct {
	ID          uuid.UUID
	Name        string
	Description string
	Eligibility string
	Benefits    string
	ContactInfo string
	CreatedAt   time.Time
}

type Prescription struct {
	ID           uuid.UUID
	PatientID    uuid.UUID
	DoctorID     uuid.UUID
	DoctorName   string
	MedicineName string
	Dosage       string
	Duration     string
	Notes        string
	PrescribedAt time.Time
}

type Medicine struct {
	ID          uuid.UUID
	HospitalID  uuid.UUID
	Name        string
	GenericName string
	Quantity    int
	Unit        string
	ExpiryDate  time.Time
	Cost        float64
	CreatedAt   time.Time
}

// Available reports whether any stock remains.
func (m Medicine) Available() bool {
	return m.Quantity > 0
}

// Expired reports whether the expiry date has passed relative to now.
func (m Medicine) Expired(now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return m.ExpiryDate.Before(today)
}
