package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ruralcare/arogya/internal/content"
)

func awarenessHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		language := r.URL.Query().Get("language")
		if language == "" {
			language = "EN"
		}

		items, err := repo.ListAwareness(r.Context(), language)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]AwarenessResponse, 0, len(items))
		for _, c := range items {
			resp = append(resp, AwarenessResponse{
				ID:        c.ID,
				Title:     c.Title,
				Content:   c.Content,
				Category:  c.Category,
				Language:  c.Language,
				CreatedAt: c.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func schemesHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schemes, err := repo.ListSchemes(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]SchemeResponse, 0, len(schemes))
		for _, s := range schemes {
			resp = append(resp, SchemeResponse{
				ID:          s.ID,
				Name:        s.Name,
				Description: s.Description,
				Eligibility: s.Eligibility,
				Benefits:    s.Benefits,
				ContactInfo: s.ContactInfo,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func myPrescriptionsHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_token", "authentication required")
			return
		}

		prescriptions, err := repo.ListPrescriptionsByPatient(r.Context(), claims.SubjectID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]PrescriptionResponse, 0, len(prescriptions))
		for _, p := range prescriptions {
			resp = append(resp, toPrescriptionResponse(p))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func medicinesHandler(repo content.Repository, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hospitalID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_hospital_id", "id must be a valid UUID")
			return
		}

		medicines, err := repo.ListMedicinesByHospital(r.Context(), hospitalID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		at := now()
		resp := make([]MedicineResponse, 0, len(medicines))
		for _, m := range medicines {
			resp = append(resp, toMedicineResponse(m, at))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
