package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ruralcare/arogya/internal/directory"
	"github.com/ruralcare/arogya/internal/geo"
)

func (req *NearbyRequest) origin(defaults geo.Coordinate) geo.Coordinate {
	origin := defaults
	if req.Latitude != nil {
		origin.Lat = *req.Latitude
	}
	if req.Longitude != nil {
		origin.Lon = *req.Longitude
	}
	return origin
}

func (req *NearbyRequest) radius(defaultRadius float64) float64 {
	if req.Radius != nil {
		return *req.Radius
	}
	return defaultRadius
}

func hospitalsNearbyHandler(svc DirectoryService, defaultOrigin geo.Coordinate, defaultRadius float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NearbyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		results, err := svc.SearchHospitals(r.Context(), req.origin(defaultOrigin), req.radius(defaultRadius))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]HospitalResponse, 0, len(results))
		for _, res := range results {
			resp = append(resp, toHospitalResultResponse(res))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func doctorsNearbyHandler(svc DirectoryService, defaultOrigin geo.Coordinate, defaultRadius float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NearbyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		results, err := svc.SearchDoctors(r.Context(), req.origin(defaultOrigin), req.radius(defaultRadius), req.Specialization)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]DoctorResponse, 0, len(results))
		for _, res := range results {
			resp = append(resp, toDoctorResultResponse(res))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func addDoctorHandler(svc DirectoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_token", "authentication required")
			return
		}

		var req AddDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		// The authenticated hospital can only add doctors to itself.
		doc, err := svc.AddDoctor(r.Context(), claims.SubjectID, directory.NewDoctor{
			Name:               req.Name,
			Specialization:     req.Specialization,
			Phone:              req.Phone,
			AvailabilityStatus: req.AvailabilityStatus,
			ConsultationFee:    req.ConsultationFee,
		})
		if err != nil {
			switch {
			case errors.Is(err, directory.ErrMissingFields):
				writeError(w, http.StatusBadRequest, "missing_fields", err.Error())
			case errors.Is(err, directory.ErrHospitalNotFound):
				writeError(w, http.StatusNotFound, "hospital_not_found", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusCreated, toDoctorResponse(doc))
	}
}
