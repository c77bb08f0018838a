package content

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	ListAwareness(ctx context.Context, language string) ([]AwarenessContent, error)
	ListSchemes(ctx context.Context) ([]HealthScheme, error)
	ListPrescriptionsByPatient(ctx context.Context, patientID uuid.UUID) ([]Prescription, error)
	ListMedicinesByHospital(ctx context.Context, hospitalID uuid.UUID) ([]Medicine, error)
}
