package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ruralcare/arogya/internal/directory"
)

func listHospitalsHandler(svc DirectoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := directory.RegistrationStatus(r.URL.Query().Get("status"))
		if status == "" {
			status = directory.RegistrationPending
		}

		switch status {
		case directory.RegistrationPending, directory.RegistrationApproved, directory.RegistrationRejected:
		default:
			writeError(w, http.StatusBadRequest, "invalid_status", "status must be pending, approved or rejected")
			return
		}

		hospitals, err := svc.ListHospitalsByStatus(r.Context(), status)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]HospitalResponse, 0, len(hospitals))
		for i := range hospitals {
			resp = append(resp, toHospitalResponse(&hospitals[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func resolveHospitalHandler(svc DirectoryService, approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_hospital_id", "id must be a valid UUID")
			return
		}

		var hospital *directory.Hospital
		if approve {
			hospital, err = svc.ApproveHospital(r.Context(), id)
		} else {
			hospital, err = svc.RejectHospital(r.Context(), id)
		}
		if err != nil {
			switch {
			case errors.Is(err, directory.ErrHospitalNotFound):
				writeError(w, http.StatusNotFound, "hospital_not_found", err.Error())
			case errors.Is(err, directory.ErrNotPending):
				writeError(w, http.StatusConflict, "not_pending", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, toHospitalResponse(hospital))
	}
}
