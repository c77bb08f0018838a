package account

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ruralcare/arogya/internal/auth"
	"github.com/ruralcare/arogya/internal/directory"
	"github.com/ruralcare/arogya/internal/geo"
)

type memUsers struct {
	users []User
}

func (m *memUsers) CreatePatient(_ context.Context, u User) (*User, error) {
	for _, existing := range m.users {
		if existing.Phone == u.Phone {
			return nil, ErrPhoneTaken
		}
	}
	m.users = append(m.users, u)
	return &u, nil
}

func (m *memUsers) GetPatientByPhone(_ context.Context, phone string) (*User, error) {
	for i := range m.users {
		if m.users[i].Phone == phone {
			return &m.users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memUsers) GetPatientByID(_ context.Context, id uuid.UUID) (*User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

type memHospitals struct {
	hospitals []directory.Hospital
}

func (m *memHospitals) ListApprovedWithDoctors(_ context.Context) ([]directory.Hospital, error) {
	return nil, nil
}

func (m *memHospitals) CreateHospital(_ context.Context, h directory.Hospital) (*directory.Hospital, error) {
	for _, existing := range m.hospitals {
		if existing.Email == h.Email {
			return nil, directory.ErrEmailTaken
		}
	}
	m.hospitals = append(m.hospitals, h)
	return &h, nil
}

func (m *memHospitals) GetHospitalByID(_ context.Context, id uuid.UUID) (*directory.Hospital, error) {
	for i := range m.hospitals {
		if m.hospitals[i].ID == id {
			return &m.hospitals[i], nil
		}
	}
	return nil, directory.ErrHospitalNotFound
}

func (m *memHospitals) GetHospitalByEmail(_ context.Context, email string) (*directory.Hospital, error) {
	for i := range m.hospitals {
		if m.hospitals[i].Email == email {
			return &m.hospitals[i], nil
		}
	}
	return nil, directory.ErrHospitalNotFound
}

func (m *memHospitals) ListByStatus(_ context.Context, status directory.RegistrationStatus) ([]directory.Hospital, error) {
	return nil, nil
}

func (m *memHospitals) SetRegistrationStatus(_ context.Context, id uuid.UUID, from, to directory.RegistrationStatus) (*directory.Hospital, error) {
	for i := range m.hospitals {
		if m.hospitals[i].ID == id && m.hospitals[i].RegistrationStatus == from {
			m.hospitals[i].RegistrationStatus = to
			return &m.hospitals[i], nil
		}
	}
	return nil, directory.ErrHospitalNotFound
}

func (m *memHospitals) CreateDoctor(_ context.Context, d directory.Doctor) (*directory.Doctor, error) {
	return &d, nil
}

func (m *memHospitals) GetDoctorByID(_ context.Context, id uuid.UUID) (*directory.Doctor, error) {
	return nil, directory.ErrDoctorNotFound
}

func newTestService() (*Service, *memUsers, *memHospitals, *auth.TokenManager) {
	users := &memUsers{}
	hospitals := &memHospitals{}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	svc := NewService(users, hospitals, tokens, "admin", "admin123")
	return svc, users, hospitals, tokens
}

func TestRegisterPatientHashesPassword(t *testing.T) {
	svc, _, _, _ := newTestService()

	user, err := svc.RegisterPatient(context.Background(), PatientRegistration{
		Name:     "Lakshmi",
		Phone:    "9876543210",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
}

func TestRegisterPatientRequiresPhoneAndPassword(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.RegisterPatient(context.Background(), PatientRegistration{Phone: "987"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.RegisterPatient(context.Background(), PatientRegistration{Password: "x"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestRegisterPatientDuplicatePhone(t *testing.T) {
	svc, _, _, _ := newTestService()
	reg := PatientRegistration{Phone: "9876543210", Password: "pw"}

	_, err := svc.RegisterPatient(context.Background(), reg)
	require.NoError(t, err)

	_, err = svc.RegisterPatient(context.Background(), reg)
	assert.ErrorIs(t, err, ErrPhoneTaken)
}

func TestLoginPatientIssuesToken(t *testing.T) {
	svc, _, _, tokens := newTestService()

	user, err := svc.RegisterPatient(context.Background(), PatientRegistration{
		Phone:    "9876543210",
		Password: "pw",
	})
	require.NoError(t, err)

	token, got, err := svc.LoginPatient(context.Background(), "9876543210", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.SubjectID)
	assert.Equal(t, auth.RolePatient, claims.Role)
}

func TestLoginPatientWrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.RegisterPatient(context.Background(), PatientRegistration{
		Phone:    "9876543210",
		Password: "pw",
	})
	require.NoError(t, err)

	_, _, err = svc.LoginPatient(context.Background(), "9876543210", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown phone yields the same error.
	_, _, err = svc.LoginPatient(context.Background(), "0000000000", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterHospitalStartsPending(t *testing.T) {
	svc, _, _, _ := newTestService()

	hospital, err := svc.RegisterHospital(context.Background(), HospitalRegistration{
		Name:     "Taluk GH",
		Location: geo.Coordinate{Lat: 10.8, Lon: 78.7},
		Phone:    "0431-2411000",
		Email:    "gh@example.org",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, directory.RegistrationPending, hospital.RegistrationStatus)
	assert.Equal(t, 50, hospital.TotalBeds)
}

func TestLoginHospitalBlockedUntilApproved(t *testing.T) {
	svc, _, hospitals, tokens := newTestService()

	hospital, err := svc.RegisterHospital(context.Background(), HospitalRegistration{
		Name:     "Taluk GH",
		Phone:    "0431-2411000",
		Email:    "gh@example.org",
		Password: "pw",
	})
	require.NoError(t, err)

	_, _, err = svc.LoginHospital(context.Background(), "gh@example.org", "pw")
	assert.ErrorIs(t, err, ErrHospitalNotApproved)

	_, err = hospitals.SetRegistrationStatus(context.Background(), hospital.ID,
		directory.RegistrationPending, directory.RegistrationApproved)
	require.NoError(t, err)

	token, got, err := svc.LoginHospital(context.Background(), "gh@example.org", "pw")
	require.NoError(t, err)
	assert.Equal(t, hospital.ID, got.ID)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleHospital, claims.Role)
}

func TestLoginAdmin(t *testing.T) {
	svc, _, _, tokens := newTestService()

	token, err := svc.LoginAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	_, err = svc.LoginAdmin(context.Background(), "admin", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
