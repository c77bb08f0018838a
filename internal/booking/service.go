package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	redisclient "github.com/ruralcare/arogya/internal/redis"
)

var (
	ErrMissingFields  = errors.New("missing required booking fields")
	ErrBadDate        = errors.New("appointment_date must be YYYY-MM-DD")
	ErrPastDate       = errors.New("appointment date is in the past")
	ErrSlotTaken      = errors.New("slot already booked")
	ErrSlotBusy       = errors.New("slot is currently being booked, please retry")
	ErrNotCancellable = errors.New("only confirmed appointments can be cancelled")
)

type BookingInput struct {
	DoctorID   uuid.UUID
	HospitalID uuid.UUID
	Date       string // YYYY-MM-DD
	TimeSlot   string
	Reason     string
}

type Service struct {
	repo   Repository
	locker redisclient.Locker
	now    func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		now:    time.Now,
	}
}

// Book creates a confirmed appointment for the patient. It takes a per-slot
// lock so that concurrent requests for the same (doctor, date, time) cannot
// both pass the existence check; requests for different slots do not contend.
//
// The conflict check matches appointments in any status, so a slot that was
// booked and later cancelled stays occupied. This mirrors the behavior the
// frontend was built against; the uq_slot constraint enforces the same rule
// at the storage level.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, in BookingInput) (*Appointment, error) {
	if in.DoctorID == uuid.Nil || in.HospitalID == uuid.Nil ||
		in.Date == "" || in.TimeSlot == "" || in.Reason == "" {
		return nil, ErrMissingFields
	}

	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return nil, ErrBadDate
	}

	// Same-day booking is allowed; only strictly earlier dates are rejected.
	today := s.now()
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(todayDate) {
		return nil, ErrPastDate
	}

	var created *Appointment

	err = s.locker.WithSlotLock(ctx, SlotKey(in.DoctorID, date, in.TimeSlot), func(lockCtx context.Context) error {
		existing, err := s.repo.GetBySlot(lockCtx, in.DoctorID, date, in.TimeSlot)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("check slot: %w", err)
		}
		if existing != nil {
			return ErrSlotTaken
		}

		appt, err := s.repo.Create(lockCtx, Appointment{
			ID:         uuid.New(),
			PatientID:  patientID,
			DoctorID:   in.DoctorID,
			HospitalID: in.HospitalID,
			Date:       date,
			TimeSlot:   in.TimeSlot,
			Reason:     in.Reason,
			Status:     StatusConfirmed,
		})
		if err != nil {
			return err
		}

		created = appt
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	log.Debug().
		Str("appointment_id", created.ID.String()).
		Str("doctor_id", in.DoctorID.String()).
		Str("date", in.Date).
		Str("time", in.TimeSlot).
		Msg("appointment booked")

	return created, nil
}

// Cancel transitions a confirmed appointment to cancelled. Only the owning
// patient may cancel; an appointment owned by someone else is reported as
// not found so callers cannot probe for other patients' bookings.
func (s *Service) Cancel(ctx context.Context, appointmentID, patientID uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if appt.PatientID != patientID {
		return nil, ErrAppointmentNotFound
	}

	if appt.Status != StatusConfirmed {
		return nil, ErrNotCancellable
	}

	updated, err := s.repo.UpdateStatus(ctx, appointmentID, StatusConfirmed, StatusCancelled)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// Lost a race with another cancel; the status moved under us.
			return nil, ErrNotCancellable
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	return updated, nil
}

// ListForPatient returns all of the patient's appointments, any status, in
// storage order.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]AppointmentDetail, error) {
	appts, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}
