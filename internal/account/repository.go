package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrPhoneTaken   = errors.New("phone number already registered")
)

type Repository interface {
	CreatePatient(ctx context.Context, u User) (*User, error)
	GetPatientByPhone(ctx context.Context, phone string) (*User, error)
	GetPatientByID(ctx context.Context, id uuid.UUID) (*User, error)
}
