package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ruralcare/arogya/internal/account"
	"github.com/ruralcare/arogya/internal/directory"
	"github.com/ruralcare/arogya/internal/geo"
)

func registerHandler(svc AccountService, defaultOrigin geo.Coordinate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		role := req.Role
		if role == "" {
			role = "patient"
		}

		switch role {
		case "patient":
			user, err := svc.RegisterPatient(r.Context(), account.PatientRegistration{
				Name:     req.Name,
				Phone:    req.Phone,
				Email:    req.Email,
				Password: req.Password,
				Age:      req.Age,
				Gender:   req.Gender,
			})
			if err != nil {
				handleRegisterError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, toUserResponse(user))

		case "hospital":
			location := defaultOrigin
			if req.Latitude != nil {
				location.Lat = *req.Latitude
			}
			if req.Longitude != nil {
				location.Lon = *req.Longitude
			}

			hospital, err := svc.RegisterHospital(r.Context(), account.HospitalRegistration{
				Name:      req.Name,
				District:  req.District,
				Taluk:     req.Taluk,
				Village:   req.Village,
				Location:  location,
				Phone:     req.Phone,
				Email:     req.Email,
				Password:  req.Password,
				TotalBeds: req.TotalBeds,
			})
			if err != nil {
				handleRegisterError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, toHospitalResponse(hospital))

		default:
			writeError(w, http.StatusBadRequest, "invalid_role", "role must be patient or hospital")
		}
	}
}

func handleRegisterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "missing_fields", err.Error())
	case errors.Is(err, account.ErrPhoneTaken), errors.Is(err, directory.ErrEmailTaken):
		writeError(w, http.StatusConflict, "already_registered", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func loginHandler(svc AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		role := req.Role
		if role == "" {
			role = "patient"
		}

		switch role {
		case "patient":
			token, user, err := svc.LoginPatient(r.Context(), req.Phone, req.Password)
			if err != nil {
				handleLoginError(w, err)
				return
			}
			resp := toUserResponse(user)
			writeJSON(w, http.StatusOK, TokenResponse{
				Message:     "login successful",
				AccessToken: token,
				User:        &resp,
			})

		case "hospital":
			token, hospital, err := svc.LoginHospital(r.Context(), req.Phone, req.Password)
			if err != nil {
				handleLoginError(w, err)
				return
			}
			resp := toHospitalResponse(hospital)
			writeJSON(w, http.StatusOK, TokenResponse{
				Message:     "login successful",
				AccessToken: token,
				Hospital:    &resp,
			})

		case "admin":
			token, err := svc.LoginAdmin(r.Context(), req.Phone, req.Password)
			if err != nil {
				handleLoginError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, TokenResponse{
				Message:     "login successful",
				AccessToken: token,
			})

		default:
			writeError(w, http.StatusBadRequest, "invalid_role", "role must be patient, hospital or admin")
		}
	}
}

func handleLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "missing_fields", err.Error())
	case errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	case errors.Is(err, account.ErrHospitalNotApproved):
		writeError(w, http.StatusForbidden, "not_approved", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
