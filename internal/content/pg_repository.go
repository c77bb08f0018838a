package content

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) ListAwareness(ctx context.Context, language string) ([]AwarenessContent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, category, language, created_at
		FROM awareness_content
		WHERE language = $1
		ORDER BY created_at, id
	`, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AwarenessContent
	for rows.Next() {
		var c AwarenessContent
		if err := rows.Scan(&c.ID, &c.Title, &c.Content, &c.Category, &c.Language, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}

	return result, rows.Err()
}

func (r *PgRepository) ListSchemes(ctx context.Context) ([]HealthScheme, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description,
		       COALESCE(eligibility, ''), COALESCE(benefits, ''), COALESCE(contact_info, ''),
		       created_at
		FROM health_schemes
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []HealthScheme
	for rows.Next() {
		var s HealthScheme
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Eligibility, &s.Benefits, &s.ContactInfo, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	return result, rows.Err()
}

func (r *PgRepository) ListPrescriptionsByPatient(ctx context.Context, patientID uuid.UUID) ([]Prescription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.patient_id, p.doctor_id, d.name,
		       p.medicine_name, p.dosage, COALESCE(p.duration, ''), COALESCE(p.notes, ''),
		       p.prescribed_at
		FROM prescriptions p
		JOIN doctors d ON d.id = p.doctor_id
		WHERE p.patient_id = $1
		ORDER BY p.prescribed_at, p.id
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Prescription
	for rows.Next() {
		var p Prescription
		if err := rows.Scan(&p.ID, &p.PatientID, &p.DoctorID, &p.DoctorName,
			&p.MedicineName, &p.Dosage, &p.Duration, &p.Notes, &p.PrescribedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	return result, rows.Err()
}

func (r *PgRepository) ListMedicinesByHospital(ctx context.Context, hospitalID uuid.UUID) ([]Medicine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, hospital_id, name, COALESCE(generic_name, ''), quantity, unit,
		       expiry_date, cost, created_at
		FROM medicines
		WHERE hospital_id = $1
		ORDER BY name, id
	`, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Medicine
	for rows.Next() {
		var m Medicine
		if err := rows.Scan(&m.ID, &m.HospitalID, &m.Name, &m.GenericName, &m.Quantity,
			&m.Unit, &m.ExpiryDate, &m.Cost, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}

	return result, rows.Err()
}
