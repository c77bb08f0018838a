package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ruralcare/arogya/internal/auth"
	"github.com/ruralcare/arogya/internal/directory"
	"github.com/ruralcare/arogya/internal/geo"
)

var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrHospitalNotApproved = errors.New("hospital registration not approved")
)

type Service struct {
	users     Repository
	hospitals directory.Repository
	tokens    *auth.TokenManager

	adminUser     string
	adminPassword string
}

func NewService(users Repository, hospitals directory.Repository, tokens *auth.TokenManager, adminUser, adminPassword string) *Service {
	return &Service{
		users:         users,
		hospitals:     hospitals,
		tokens:        tokens,
		adminUser:     adminUser,
		adminPassword: adminPassword,
	}
}

type PatientRegistration struct {
	Name     string
	Phone    string
	Email    string
	Password string
	Age      int
	Gender   string
}

// RegisterPatient creates a patient account with a bcrypt-hashed password.
func (s *Service) RegisterPatient(ctx context.Context, in PatientRegistration) (*User, error) {
	if in.Phone == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreatePatient(ctx, User{
		ID:           uuid.New(),
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: string(hash),
		Age:          in.Age,
		Gender:       in.Gender,
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

type HospitalRegistration struct {
	Name      string
	District  string
	Taluk     string
	Village   string
	Location  geo.Coordinate
	Phone     string
	Email     string
	Password  string
	TotalBeds int
}

// RegisterHospital creates a hospital record in pending status. It stays out
// of search results until an admin approves it.
func (s *Service) RegisterHospital(ctx context.Context, in HospitalRegistration) (*directory.Hospital, error) {
	if in.Email == "" || in.Phone == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	beds := in.TotalBeds
	if beds <= 0 {
		beds = 50
	}

	hospital, err := s.hospitals.CreateHospital(ctx, directory.Hospital{
		ID:                 uuid.New(),
		Name:               in.Name,
		District:           in.District,
		Taluk:              in.Taluk,
		Village:            in.Village,
		Location:           in.Location,
		Phone:              in.Phone,
		Email:              in.Email,
		PasswordHash:       string(hash),
		TotalBeds:          beds,
		RegistrationStatus: directory.RegistrationPending,
	})
	if err != nil {
		return nil, err
	}

	return hospital, nil
}

// LoginPatient checks the phone/password pair and returns a signed token.
func (s *Service) LoginPatient(ctx context.Context, phone, password string) (string, *User, error) {
	if phone == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	user, err := s.users.GetPatientByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load patient: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, auth.RolePatient)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// LoginHospital authenticates by email. Unapproved hospitals can not log in.
func (s *Service) LoginHospital(ctx context.Context, email, password string) (string, *directory.Hospital, error) {
	if email == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	hospital, err := s.hospitals.GetHospitalByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, directory.ErrHospitalNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load hospital: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hospital.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	if hospital.RegistrationStatus != directory.RegistrationApproved {
		return "", nil, ErrHospitalNotApproved
	}

	token, err := s.tokens.Issue(hospital.ID, auth.RoleHospital)
	if err != nil {
		return "", nil, err
	}

	return token, hospital, nil
}

// LoginAdmin checks the configured admin credentials.
func (s *Service) LoginAdmin(_ context.Context, username, password string) (string, error) {
	if username != s.adminUser || password != s.adminPassword {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(uuid.Nil, auth.RoleAdmin)
}
