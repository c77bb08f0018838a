package account

import (
	"time"

	"github.com/google/uuid"
)

// User is a patient account. Hospital accounts live on the hospital record
// itself (the directory owns those rows).
type User struct {
	ID           uuid.UUID
	Name         string
	Phone        string
	Email        string
	PasswordHash string
	Age          int
	Gender       string
	IsActive     bool
	CreatedAt    time.Time
}
