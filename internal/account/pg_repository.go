package account

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

const userColumns = `id, name, phone, email, password_hash, age, gender, is_active, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var email *string
	var age *int
	var gender *string

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Phone,
		&email,
		&u.PasswordHash,
		&age,
		&gender,
		&u.IsActive,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if email != nil {
		u.Email = *email
	}
	if age != nil {
		u.Age = *age
	}
	if gender != nil {
		u.Gender = *gender
	}
	return &u, nil
}

func (r *PgRepository) CreatePatient(ctx context.Context, u User) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, name, phone, email, password_hash, age, gender, is_active, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, true, now())
		RETURNING `+userColumns+`
	`, u.ID, u.Name, u.Phone, u.Email, u.PasswordHash, u.Age, u.Gender)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("insert patient: %w", err)
	}

	return created, nil
}

func (r *PgRepository) GetPatientByPhone(ctx context.Context, phone string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM patients
		WHERE phone = $1
	`, phone)
	return scanUser(row)
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM patients
		WHERE id = $1
	`, id)
	return scanUser(row)
}
