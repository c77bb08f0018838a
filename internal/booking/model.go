package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

const dateLayout = "2006-01-02"

type Appointment struct {
	ID         uuid.UUID
	PatientID  uuid.UUID
	DoctorID   uuid.UUID
	HospitalID uuid.UUID
	Date       time.Time // calendar date, time-of-day is ignored
	TimeSlot   string    // free text, e.g. "10:00"
	Reason     string
	Status     AppointmentStatus
	CreatedAt  time.Time
}

// SlotKey identifies the (doctor, date, time) tuple that must stay unique
// across appointments. Used both as the lock key and for conflict lookups.
func SlotKey(doctorID uuid.UUID, date time.Time, timeSlot string) string {
	return fmt.Sprintf("%s:%s:%s", doctorID, date.Format(dateLayout), timeSlot)
}

// AppointmentDetail hydrates an appointment with display names for listings.
type AppointmentDetail struct {
	Appointment
	PatientName  string
	DoctorName   string
	HospitalName string
}
