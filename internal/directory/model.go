package directory

import (
	"time"

	"github.com/google/uuid"

	"github.com/ruralcare/arogya/internal/geo"
)

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// DoctorAvailable is the only availability value that counts toward a
// hospital's available_doctors tally. The column is free text otherwise
// ("unavailable", "on_leave", ...).
const DoctorAvailable = "available"

type Hospital struct {
	ID                 uuid.UUID
	Name               string
	District           string
	Taluk              string
	Village            string
	Location           geo.Coordinate
	Phone              string
	Email              string
	PasswordHash       string
	TotalBeds          int
	RegistrationStatus RegistrationStatus
	CreatedAt          time.Time

	Doctors []Doctor
}

type Doctor struct {
	ID                 uuid.UUID
	HospitalID         uuid.UUID
	Name               string
	Specialization     string
	Phone              string
	AvailabilityStatus string
	ConsultationFee    float64
	CreatedAt          time.Time
}

// HospitalResult is a hospital annotated for a nearby search.
type HospitalResult struct {
	Hospital
	DistanceKm       float64
	AvailableDoctors int
}

// DoctorResult is a doctor annotated with its hospital's distance from the
// search origin. Doctors have no coordinates of their own.
type DoctorResult struct {
	Doctor
	DistanceKm   float64
	HospitalName string
}
