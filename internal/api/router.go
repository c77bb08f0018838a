package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ruralcare/arogya/internal/account"
	"github.com/ruralcare/arogya/internal/auth"
	"github.com/ruralcare/arogya/internal/booking"
	"github.com/ruralcare/arogya/internal/content"
	"github.com/ruralcare/arogya/internal/directory"
	"github.com/ruralcare/arogya/internal/geo"
)

// Service interfaces consumed by the handlers. The concrete services in
// internal/{account,directory,booking} satisfy them; handler tests substitute
// stubs.

type AccountService interface {
	RegisterPatient(ctx context.Context, in account.PatientRegistration) (*account.User, error)
	RegisterHospital(ctx context.Context, in account.HospitalRegistration) (*directory.Hospital, error)
	LoginPatient(ctx context.Context, phone, password string) (string, *account.User, error)
	LoginHospital(ctx context.Context, email, password string) (string, *directory.Hospital, error)
	LoginAdmin(ctx context.Context, username, password string) (string, error)
}

type DirectoryService interface {
	SearchHospitals(ctx context.Context, origin geo.Coordinate, radiusKm float64) ([]directory.HospitalResult, error)
	SearchDoctors(ctx context.Context, origin geo.Coordinate, radiusKm float64, specialization string) ([]directory.DoctorResult, error)
	AddDoctor(ctx context.Context, hospitalID uuid.UUID, in directory.NewDoctor) (*directory.Doctor, error)
	ListHospitalsByStatus(ctx context.Context, status directory.RegistrationStatus) ([]directory.Hospital, error)
	ApproveHospital(ctx context.Context, id uuid.UUID) (*directory.Hospital, error)
	RejectHospital(ctx context.Context, id uuid.UUID) (*directory.Hospital, error)
}

type BookingService interface {
	Book(ctx context.Context, patientID uuid.UUID, in booking.BookingInput) (*booking.Appointment, error)
	Cancel(ctx context.Context, appointmentID, patientID uuid.UUID) (*booking.Appointment, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]booking.AppointmentDetail, error)
}

type RouterConfig struct {
	Accounts  AccountService
	Directory DirectoryService
	Booking   BookingService
	Content   content.Repository
	Tokens    *auth.TokenManager

	PgPool *pgxpool.Pool
	Redis  *redis.Client
	Logger zerolog.Logger
	Env    string
	Version string

	DefaultOrigin   geo.Coordinate
	DefaultRadiusKm float64
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", registerHandler(cfg.Accounts, cfg.DefaultOrigin))
		r.Post("/auth/login", loginHandler(cfg.Accounts))

		r.Post("/hospitals/nearby", hospitalsNearbyHandler(cfg.Directory, cfg.DefaultOrigin, cfg.DefaultRadiusKm))
		r.Post("/doctors/nearby", doctorsNearbyHandler(cfg.Directory, cfg.DefaultOrigin, cfg.DefaultRadiusKm))

		r.Get("/awareness/all", awarenessHandler(cfg.Content))
		r.Get("/health-schemes", schemesHandler(cfg.Content))
		r.Get("/hospitals/{id}/medicines", medicinesHandler(cfg.Content, time.Now))

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(cfg.Tokens))

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(auth.RolePatient))
				r.Post("/appointments/book", bookAppointmentHandler(cfg.Booking))
				r.Get("/appointments/my", myAppointmentsHandler(cfg.Booking))
				r.Put("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Booking))
				r.Get("/prescriptions/my", myPrescriptionsHandler(cfg.Content))
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(auth.RoleHospital))
				r.Post("/doctors", addDoctorHandler(cfg.Directory))
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(auth.RoleAdmin))
				r.Get("/admin/hospitals", listHospitalsHandler(cfg.Directory))
				r.Put("/admin/hospitals/{id}/approve", resolveHospitalHandler(cfg.Directory, true))
				r.Put("/admin/hospitals/{id}/reject", resolveHospitalHandler(cfg.Directory, false))
			})
		})
	})

	return r
}
