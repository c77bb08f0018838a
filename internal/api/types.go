package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/ruralcare/arogya/internal/account"
	"github.com/ruralcare/arogya/internal/booking"
	"github.com/ruralcare/arogya/internal/content"
	"github.com/ruralcare/arogya/internal/directory"
)

const dateLayout = "2006-01-02"

// Requests

type RegisterRequest struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`

	// patient fields
	Age    int    `json:"age"`
	Gender string `json:"gender"`

	// hospital fields
	District  string   `json:"district"`
	Taluk     string   `json:"taluk"`
	Village   string   `json:"village"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	TotalBeds int      `json:"total_beds"`
}

type LoginRequest struct {
	Role     string `json:"role"`
	Phone    string `json:"phone"` // hospital logins put the email here
	Password string `json:"password"`
}

type NearbyRequest struct {
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Radius         *float64 `json:"radius"`
	Specialization string   `json:"specialization,omitempty"`
}

type BookAppointmentRequest struct {
	DoctorID        string `json:"doctor_id"`
	HospitalID      string `json:"hospital_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Reason          string `json:"reason"`
}

type AddDoctorRequest struct {
	Name               string  `json:"name"`
	Specialization     string  `json:"specialization"`
	Phone              string  `json:"phone"`
	AvailabilityStatus string  `json:"availability_status"`
	ConsultationFee    float64 `json:"consultation_fee"`
}

// Responses

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	Age       int       `json:"age,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *account.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Phone:     u.Phone,
		Email:     u.Email,
		Role:      "patient",
		Age:       u.Age,
		Gender:    u.Gender,
		CreatedAt: u.CreatedAt,
	}
}

type HospitalResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	District           string    `json:"district"`
	Taluk              string    `json:"taluk"`
	Village            string    `json:"village"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	Phone              string    `json:"phone"`
	Email              string    `json:"email"`
	TotalBeds          int       `json:"total_beds"`
	RegistrationStatus string    `json:"registration_status"`
	CreatedAt          time.Time `json:"created_at"`

	Distance         *float64 `json:"distance,omitempty"`
	AvailableDoctors *int     `json:"available_doctors,omitempty"`
}

func toHospitalResponse(h *directory.Hospital) HospitalResponse {
	return HospitalResponse{
		ID:                 h.ID,
		Name:               h.Name,
		District:           h.District,
		Taluk:              h.Taluk,
		Village:            h.Village,
		Latitude:           h.Location.Lat,
		Longitude:          h.Location.Lon,
		Phone:              h.Phone,
		Email:              h.Email,
		TotalBeds:          h.TotalBeds,
		RegistrationStatus: string(h.RegistrationStatus),
		CreatedAt:          h.CreatedAt,
	}
}

func toHospitalResultResponse(r directory.HospitalResult) HospitalResponse {
	resp := toHospitalResponse(&r.Hospital)
	d := r.DistanceKm
	n := r.AvailableDoctors
	resp.Distance = &d
	resp.AvailableDoctors = &n
	return resp
}

type DoctorResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Specialization     string    `json:"specialization"`
	HospitalID         uuid.UUID `json:"hospital_id"`
	HospitalName       string    `json:"hospital_name,omitempty"`
	Phone              string    `json:"phone"`
	AvailabilityStatus string    `json:"availability_status"`
	ConsultationFee    float64   `json:"consultation_fee"`

	Distance *float64 `json:"distance,omitempty"`
}

func toDoctorResponse(d *directory.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:                 d.ID,
		Name:               d.Name,
		Specialization:     d.Specialization,
		HospitalID:         d.HospitalID,
		Phone:              d.Phone,
		AvailabilityStatus: d.AvailabilityStatus,
		ConsultationFee:    d.ConsultationFee,
	}
}

func toDoctorResultResponse(r directory.DoctorResult) DoctorResponse {
	resp := toDoctorResponse(&r.Doctor)
	resp.HospitalName = r.HospitalName
	d := r.DistanceKm
	resp.Distance = &d
	return resp
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patient_id"`
	DoctorID        uuid.UUID `json:"doctor_id"`
	HospitalID      uuid.UUID `json:"hospital_id"`
	PatientName     string    `json:"patient_name,omitempty"`
	DoctorName      string    `json:"doctor_name,omitempty"`
	HospitalName    string    `json:"hospital_name,omitempty"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	Reason          string    `json:"reason"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func toAppointmentResponse(a *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		HospitalID:      a.HospitalID,
		AppointmentDate: a.Date.Format(dateLayout),
		AppointmentTime: a.TimeSlot,
		Reason:          a.Reason,
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt,
	}
}

func toAppointmentDetailResponse(d booking.AppointmentDetail) AppointmentResponse {
	resp := toAppointmentResponse(&d.Appointment)
	resp.PatientName = d.PatientName
	resp.DoctorName = d.DoctorName
	resp.HospitalName = d.HospitalName
	return resp
}

type PrescriptionResponse struct {
	ID           uuid.UUID `json:"id"`
	PatientID    uuid.UUID `json:"patient_id"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	DoctorName   string    `json:"doctor_name"`
	MedicineName string    `json:"medicine_name"`
	Dosage       string    `json:"dosage"`
	Duration     string    `json:"duration,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	PrescribedAt time.Time `json:"prescribed_at"`
}

func toPrescriptionResponse(p content.Prescription) PrescriptionResponse {
	return PrescriptionResponse{
		ID:           p.ID,
		PatientID:    p.PatientID,
		DoctorID:     p.DoctorID,
		DoctorName:   p.DoctorName,
		MedicineName: p.MedicineName,
		Dosage:       p.Dosage,
		Duration:     p.Duration,
		Notes:        p.Notes,
		PrescribedAt: p.PrescribedAt,
	}
}

type MedicineResponse struct {
	ID          uuid.UUID `json:"id"`
	HospitalID  uuid.UUID `json:"hospital_id"`
	Name        string    `json:"name"`
	GenericName string    `json:"generic_name,omitempty"`
	Quantity    int       `json:"quantity"`
	Unit        string    `json:"unit"`
	ExpiryDate  string    `json:"expiry_date"`
	Cost        float64   `json:"cost"`
	IsAvailable bool      `json:"is_available"`
	IsExpired   bool      `json:"is_expired"`
}

func toMedicineResponse(m content.Medicine, now time.Time) MedicineResponse {
	return MedicineResponse{
		ID:          m.ID,
		HospitalID:  m.HospitalID,
		Name:        m.Name,
		GenericName: m.GenericName,
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		ExpiryDate:  m.ExpiryDate.Format(dateLayout),
		Cost:        m.Cost,
		IsAvailable: m.Available(),
		IsExpired:   m.Expired(now),
	}
}

type AwarenessResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

type SchemeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Eligibility string    `json:"eligibility,omitempty"`
	Benefits    string    `json:"benefits,omitempty"`
	ContactInfo string    `json:"contact_info,omitempty"`
}

type TokenResponse struct {
	Message     string            `json:"message"`
	AccessToken string            `json:"access_token"`
	User        *UserResponse     `json:"user,omitempty"`
	Hospital    *HospitalResponse `json:"hospital,omitempty"`
}
