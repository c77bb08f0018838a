package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const hospitalColumns = `id, name, district, taluk, village, latitude, longitude,
	phone, email, password_hash, total_beds, registration_status, created_at`

const doctorColumns = `id, hospital_id, name, specialization, phone,
	availability_status, consultation_fee, created_at`

// Helpers

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital

	err := row.Scan(
		&h.ID,
		&h.Name,
		&h.District,
		&h.Taluk,
		&h.Village,
		&h.Location.Lat,
		&h.Location.Lon,
		&h.Phone,
		&h.Email,
		&h.PasswordHash,
		&h.TotalBeds,
		&h.RegistrationStatus,
		&h.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHospitalNotFound
		}
		return nil, err
	}

	return &h, nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.HospitalID,
		&d.Name,
		&d.Specialization,
		&d.Phone,
		&d.AvailabilityStatus,
		&d.ConsultationFee,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

func (r *PgRepository) collectHospitals(ctx context.Context, query string, args ...any) ([]Hospital, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Interface methods

func (r *PgRepository) ListApprovedWithDoctors(ctx context.Context) ([]Hospital, error) {
	hospitals, err := r.collectHospitals(ctx, `
		SELECT `+hospitalColumns+`
		FROM hospitals
		WHERE registration_status = 'approved'
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	if len(hospitals) == 0 {
		return hospitals, nil
	}

	ids := make([]uuid.UUID, 0, len(hospitals))
	index := make(map[uuid.UUID]int, len(hospitals))
	for i, h := range hospitals {
		ids = append(ids, h.ID)
		index[h.ID] = i
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE hospital_id = ANY($1)
		ORDER BY created_at, id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[d.HospitalID]; ok {
			hospitals[i].Doctors = append(hospitals[i].Doctors, *d)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return hospitals, nil
}

func (r *PgRepository) CreateHospital(ctx context.Context, h Hospital) (*Hospital, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO hospitals (id, name, district, taluk, village, latitude, longitude,
			phone, email, password_hash, total_beds, registration_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		RETURNING `+hospitalColumns+`
	`, h.ID, h.Name, h.District, h.Taluk, h.Village, h.Location.Lat, h.Location.Lon,
		h.Phone, h.Email, h.PasswordHash, h.TotalBeds, h.RegistrationStatus)

	created, err := scanHospital(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert hospital: %w", err)
	}

	return created, nil
}

func (r *PgRepository) GetHospitalByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+hospitalColumns+`
		FROM hospitals
		WHERE id = $1
	`, id)
	return scanHospital(row)
}

func (r *PgRepository) GetHospitalByEmail(ctx context.Context, email string) (*Hospital, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+hospitalColumns+`
		FROM hospitals
		WHERE email = $1
	`, email)
	return scanHospital(row)
}

func (r *PgRepository) ListByStatus(ctx context.Context, status RegistrationStatus) ([]Hospital, error) {
	return r.collectHospitals(ctx, `
		SELECT `+hospitalColumns+`
		FROM hospitals
		WHERE registration_status = $1
		ORDER BY created_at, id
	`, status)
}

func (r *PgRepository) SetRegistrationStatus(ctx context.Context, id uuid.UUID, from, to RegistrationStatus) (*Hospital, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE hospitals
		SET registration_status = $2
		WHERE id = $1
		  AND registration_status = $3
		RETURNING `+hospitalColumns+`
	`, id, to, from)

	return scanHospital(row)
}

func (r *PgRepository) CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (id, hospital_id, name, specialization, phone,
			availability_status, consultation_fee, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING `+doctorColumns+`
	`, d.ID, d.HospitalID, d.Name, d.Specialization, d.Phone,
		d.AvailabilityStatus, d.ConsultationFee)

	created, err := scanDoctor(row)
	if err != nil {
		return nil, fmt.Errorf("insert doctor: %w", err)
	}

	return created, nil
}

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}
