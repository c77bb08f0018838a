package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrHospitalNotFound = errors.New("hospital not found")
	ErrDoctorNotFound   = errors.New("doctor not found")
	ErrEmailTaken       = errors.New("hospital email already registered")
)

// Repository contains all DB interactions needed by the directory service and
// the registration flow.
type Repository interface {
	// ListApprovedWithDoctors returns approved hospitals in insertion order,
	// each with its doctors loaded. Nearby search relies on that order for
	// stable ranking of equidistant hospitals.
	ListApprovedWithDoctors(ctx context.Context) ([]Hospital, error)

	CreateHospital(ctx context.Context, h Hospital) (*Hospital, error)
	GetHospitalByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	GetHospitalByEmail(ctx context.Context, email string) (*Hospital, error)
	ListByStatus(ctx context.Context, status RegistrationStatus) ([]Hospital, error)

	// SetRegistrationStatus transitions a hospital from one status to another.
	// Returns ErrHospitalNotFound when the hospital does not exist or is not
	// currently in the expected status.
	SetRegistrationStatus(ctx context.Context, id uuid.UUID, from, to RegistrationStatus) (*Hospital, error)

	CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
}
