package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruralcare/arogya/internal/account"
	"github.com/ruralcare/arogya/internal/auth"
	"github.com/ruralcare/arogya/internal/booking"
	"github.com/ruralcare/arogya/internal/content"
	"github.com/ruralcare/arogya/internal/directory"
	"github.com/ruralcare/arogya/internal/geo"
)

type stubServices struct {
	bookErr    error
	booked     *booking.Appointment
	cancelErr  error
	cancelled  *booking.Appointment
	myAppts    []booking.AppointmentDetail
	hospitals  []directory.HospitalResult
	doctors    []directory.DoctorResult
	lastOrigin geo.Coordinate
	lastRadius float64
	lastSpec   string
}

func (s *stubServices) Book(_ context.Context, patientID uuid.UUID, in booking.BookingInput) (*booking.Appointment, error) {
	if s.bookErr != nil {
		return nil, s.bookErr
	}
	if s.booked != nil {
		appt := *s.booked
		appt.PatientID = patientID
		return &appt, nil
	}
	date, _ := time.Parse("2006-01-02", in.Date)
	return &booking.Appointment{
		ID:         uuid.New(),
		PatientID:  patientID,
		DoctorID:   in.DoctorID,
		HospitalID: in.HospitalID,
		Date:       date,
		TimeSlot:   in.TimeSlot,
		Reason:     in.Reason,
		Status:     booking.StatusConfirmed,
	}, nil
}

func (s *stubServices) Cancel(_ context.Context, appointmentID, patientID uuid.UUID) (*booking.Appointment, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return s.cancelled, nil
}

func (s *stubServices) ListForPatient(_ context.Context, patientID uuid.UUID) ([]booking.AppointmentDetail, error) {
	return s.myAppts, nil
}

func (s *stubServices) SearchHospitals(_ context.Context, origin geo.Coordinate, radiusKm float64) ([]directory.HospitalResult, error) {
	s.lastOrigin = origin
	s.lastRadius = radiusKm
	return s.hospitals, nil
}

func (s *stubServices) SearchDoctors(_ context.Context, origin geo.Coordinate, radiusKm float64, specialization string) ([]directory.DoctorResult, error) {
	s.lastOrigin = origin
	s.lastRadius = radiusKm
	s.lastSpec = specialization
	return s.doctors, nil
}

func (s *stubServices) AddDoctor(_ context.Context, hospitalID uuid.UUID, in directory.NewDoctor) (*directory.Doctor, error) {
	return &directory.Doctor{ID: uuid.New(), HospitalID: hospitalID, Name: in.Name, Specialization: in.Specialization}, nil
}

func (s *stubServices) ListHospitalsByStatus(_ context.Context, status directory.RegistrationStatus) ([]directory.Hospital, error) {
	return nil, nil
}

func (s *stubServices) ApproveHospital(_ context.Context, id uuid.UUID) (*directory.Hospital, error) {
	return &directory.Hospital{ID: id, RegistrationStatus: directory.RegistrationApproved}, nil
}

func (s *stubServices) RejectHospital(_ context.Context, id uuid.UUID) (*directory.Hospital, error) {
	return &directory.Hospital{ID: id, RegistrationStatus: directory.RegistrationRejected}, nil
}

func (s *stubServices) RegisterPatient(_ context.Context, in account.PatientRegistration) (*account.User, error) {
	if in.Phone == "" || in.Password == "" {
		return nil, account.ErrMissingFields
	}
	return &account.User{ID: uuid.New(), Name: in.Name, Phone: in.Phone}, nil
}

func (s *stubServices) RegisterHospital(_ context.Context, in account.HospitalRegistration) (*directory.Hospital, error) {
	return &directory.Hospital{ID: uuid.New(), Name: in.Name, Location: in.Location,
		RegistrationStatus: directory.RegistrationPending}, nil
}

func (s *stubServices) LoginPatient(_ context.Context, phone, password string) (string, *account.User, error) {
	return "", nil, account.ErrInvalidCredentials
}

func (s *stubServices) LoginHospital(_ context.Context, email, password string) (string, *directory.Hospital, error) {
	return "", nil, account.ErrInvalidCredentials
}

func (s *stubServices) LoginAdmin(_ context.Context, username, password string) (string, error) {
	return "", account.ErrInvalidCredentials
}

type stubContent struct{}

func (stubContent) ListAwareness(_ context.Context, language string) ([]content.AwarenessContent, error) {
	return nil, nil
}
func (stubContent) ListSchemes(_ context.Context) ([]content.HealthScheme, error) {
	return nil, nil
}
func (stubContent) ListPrescriptionsByPatient(_ context.Context, patientID uuid.UUID) ([]content.Prescription, error) {
	return nil, nil
}
func (stubContent) ListMedicinesByHospital(_ context.Context, hospitalID uuid.UUID) ([]content.Medicine, error) {
	return nil, nil
}

var testTokens = auth.NewTokenManager("test-secret", time.Hour)

func newTestRouter(stub *stubServices) http.Handler {
	return NewRouter(RouterConfig{
		Accounts:        stub,
		Directory:       stub,
		Booking:         stub,
		Content:         stubContent{},
		Tokens:          testTokens,
		Logger:          zerolog.Nop(),
		Env:             "test",
		DefaultOrigin:   geo.Coordinate{Lat: 10.7905, Lon: 78.7047},
		DefaultRadiusKm: 50,
	})
}

func bearer(t *testing.T, role auth.Role) string {
	t.Helper()
	token, err := testTokens.Issue(uuid.New(), role)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, router http.Handler, method, path, authz string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validBookBody() map[string]string {
	return map[string]string{
		"doctor_id":        uuid.NewString(),
		"hospital_id":      uuid.NewString(),
		"appointment_date": "2030-01-01",
		"appointment_time": "10:00",
		"reason":           "checkup",
	}
}

func TestBookEndpointCreated(t *testing.T) {
	stub := &stubServices{}
	router := newTestRouter(stub)

	rec := doJSON(t, router, http.MethodPost, "/api/appointments/book", bearer(t, auth.RolePatient), validBookBody())
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "2030-01-01", resp.AppointmentDate)
}

func TestBookEndpointRequiresAuth(t *testing.T) {
	router := newTestRouter(&stubServices{})

	rec := doJSON(t, router, http.MethodPost, "/api/appointments/book", "", validBookBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookEndpointForbiddenForNonPatients(t *testing.T) {
	router := newTestRouter(&stubServices{})

	for _, role := range []auth.Role{auth.RoleHospital, auth.RoleAdmin} {
		rec := doJSON(t, router, http.MethodPost, "/api/appointments/book", bearer(t, role), validBookBody())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}
}

func TestBookEndpointErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{booking.ErrMissingFields, http.StatusBadRequest},
		{booking.ErrBadDate, http.StatusBadRequest},
		{booking.ErrPastDate, http.StatusBadRequest},
		{booking.ErrSlotTaken, http.StatusConflict},
		{booking.ErrSlotBusy, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		router := newTestRouter(&stubServices{bookErr: tc.err})
		rec := doJSON(t, router, http.MethodPost, "/api/appointments/book", bearer(t, auth.RolePatient), validBookBody())
		assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
	}
}

func TestCancelEndpointMapsNotFoundAndState(t *testing.T) {
	router := newTestRouter(&stubServices{cancelErr: booking.ErrAppointmentNotFound})
	rec := doJSON(t, router, http.MethodPut, "/api/appointments/"+uuid.NewString()+"/cancel", bearer(t, auth.RolePatient), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	router = newTestRouter(&stubServices{cancelErr: booking.ErrNotCancellable})
	rec = doJSON(t, router, http.MethodPut, "/api/appointments/"+uuid.NewString()+"/cancel", bearer(t, auth.RolePatient), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelEndpointOK(t *testing.T) {
	cancelled := &booking.Appointment{
		ID:     uuid.New(),
		Status: booking.StatusCancelled,
		Date:   time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	router := newTestRouter(&stubServices{cancelled: cancelled})

	rec := doJSON(t, router, http.MethodPut, "/api/appointments/"+cancelled.ID.String()+"/cancel", bearer(t, auth.RolePatient), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cancelled", resp.Status)
}

func TestHospitalsNearbyAppliesDefaults(t *testing.T) {
	stub := &stubServices{}
	router := newTestRouter(stub)

	rec := doJSON(t, router, http.MethodPost, "/api/hospitals/nearby", "", map[string]any{})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, geo.Coordinate{Lat: 10.7905, Lon: 78.7047}, stub.lastOrigin)
	assert.Equal(t, 50.0, stub.lastRadius)
}

func TestHospitalsNearbyUsesProvidedValues(t *testing.T) {
	stub := &stubServices{}
	router := newTestRouter(stub)

	rec := doJSON(t, router, http.MethodPost, "/api/hospitals/nearby", "", map[string]any{
		"latitude":  11.0,
		"longitude": 79.0,
		"radius":    5.0,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, geo.Coordinate{Lat: 11.0, Lon: 79.0}, stub.lastOrigin)
	assert.Equal(t, 5.0, stub.lastRadius)
}

func TestHospitalsNearbyResponseShape(t *testing.T) {
	stub := &stubServices{hospitals: []directory.HospitalResult{
		{
			Hospital: directory.Hospital{
				ID:                 uuid.New(),
				Name:               "Taluk GH",
				RegistrationStatus: directory.RegistrationApproved,
			},
			DistanceKm:       3.2,
			AvailableDoctors: 2,
		},
	}}
	router := newTestRouter(stub)

	rec := doJSON(t, router, http.MethodPost, "/api/hospitals/nearby", "", map[string]any{})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, 3.2, resp[0]["distance"])
	assert.Equal(t, 2.0, resp[0]["available_doctors"])
}

func TestDoctorsNearbyPassesSpecialization(t *testing.T) {
	stub := &stubServices{}
	router := newTestRouter(stub)

	rec := doJSON(t, router, http.MethodPost, "/api/doctors/nearby", "", map[string]any{
		"specialization": "Cardiology",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cardiology", stub.lastSpec)
}

func TestRegisterInvalidRole(t *testing.T) {
	router := newTestRouter(&stubServices{})

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"role": "wizard", "phone": "9876543210", "password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	router := newTestRouter(&stubServices{})

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"phone": "9876543210", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesForbiddenForPatients(t *testing.T) {
	router := newTestRouter(&stubServices{})

	rec := doJSON(t, router, http.MethodPut, "/api/admin/hospitals/"+uuid.NewString()+"/approve", bearer(t, auth.RolePatient), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminApproveHospital(t *testing.T) {
	router := newTestRouter(&stubServices{})

	rec := doJSON(t, router, http.MethodPut, "/api/admin/hospitals/"+uuid.NewString()+"/approve", bearer(t, auth.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HospitalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "approved", resp.RegistrationStatus)
}
