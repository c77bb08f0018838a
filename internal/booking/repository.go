package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the booking service.
type Repository interface {
	// GetBySlot returns the appointment occupying (doctorID, date, timeSlot)
	// in any status, or ErrAppointmentNotFound when the slot is free.
	GetBySlot(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string) (*Appointment, error)

	// Create inserts a new appointment. Returns ErrSlotTaken when the slot's
	// unique constraint rejects the insert.
	Create(ctx context.Context, a Appointment) (*Appointment, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// UpdateStatus transitions an appointment from one status to another.
	// Returns ErrAppointmentNotFound when the appointment does not exist or
	// is not currently in the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error)

	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]AppointmentDetail, error)
}
