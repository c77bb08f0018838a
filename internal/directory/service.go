package directory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ruralcare/arogya/internal/geo"
)

var (
	ErrNotPending    = errors.New("hospital is not pending approval")
	ErrMissingFields = errors.New("missing required fields")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SearchHospitals returns approved hospitals within radiusKm of origin,
// ordered by ascending distance. The radius boundary is inclusive. Hospitals
// at equal distance keep their insertion order.
func (s *Service) SearchHospitals(ctx context.Context, origin geo.Coordinate, radiusKm float64) ([]HospitalResult, error) {
	hospitals, err := s.repo.ListApprovedWithDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approved hospitals: %w", err)
	}

	results := make([]HospitalResult, 0, len(hospitals))
	for _, h := range hospitals {
		d := geo.Distance(origin, h.Location)
		if d > radiusKm {
			continue
		}

		available := 0
		for _, doc := range h.Doctors {
			if doc.AvailabilityStatus == DoctorAvailable {
				available++
			}
		}

		results = append(results, HospitalResult{
			Hospital:         h,
			DistanceKm:       d,
			AvailableDoctors: available,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	return results, nil
}

// SearchDoctors returns doctors at approved hospitals within radiusKm of
// origin, ordered by their hospital's distance. A non-empty specialization
// filters by case-insensitive exact match.
func (s *Service) SearchDoctors(ctx context.Context, origin geo.Coordinate, radiusKm float64, specialization string) ([]DoctorResult, error) {
	hospitals, err := s.repo.ListApprovedWithDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approved hospitals: %w", err)
	}

	results := make([]DoctorResult, 0)
	for _, h := range hospitals {
		d := geo.Distance(origin, h.Location)
		if d > radiusKm {
			continue
		}

		for _, doc := range h.Doctors {
			if specialization != "" && !strings.EqualFold(doc.Specialization, specialization) {
				continue
			}
			results = append(results, DoctorResult{
				Doctor:       doc,
				DistanceKm:   d,
				HospitalName: h.Name,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	return results, nil
}

type NewDoctor struct {
	Name               string
	Specialization     string
	Phone              string
	AvailabilityStatus string
	ConsultationFee    float64
}

// AddDoctor registers a doctor under the given hospital.
func (s *Service) AddDoctor(ctx context.Context, hospitalID uuid.UUID, in NewDoctor) (*Doctor, error) {
	if in.Name == "" || in.Specialization == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.repo.GetHospitalByID(ctx, hospitalID); err != nil {
		if errors.Is(err, ErrHospitalNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load hospital: %w", err)
	}

	status := in.AvailabilityStatus
	if status == "" {
		status = DoctorAvailable
	}

	doc, err := s.repo.CreateDoctor(ctx, Doctor{
		ID:                 uuid.New(),
		HospitalID:         hospitalID,
		Name:               in.Name,
		Specialization:     in.Specialization,
		Phone:              in.Phone,
		AvailabilityStatus: status,
		ConsultationFee:    in.ConsultationFee,
	})
	if err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}

	return doc, nil
}

// ListHospitalsByStatus is the admin view over the registration queue.
func (s *Service) ListHospitalsByStatus(ctx context.Context, status RegistrationStatus) ([]Hospital, error) {
	hospitals, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list hospitals by status: %w", err)
	}
	return hospitals, nil
}

// ApproveHospital moves a pending hospital to approved.
func (s *Service) ApproveHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.resolveRegistration(ctx, id, RegistrationApproved)
}

// RejectHospital moves a pending hospital to rejected.
func (s *Service) RejectHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.resolveRegistration(ctx, id, RegistrationRejected)
}

func (s *Service) resolveRegistration(ctx context.Context, id uuid.UUID, to RegistrationStatus) (*Hospital, error) {
	h, err := s.repo.SetRegistrationStatus(ctx, id, RegistrationPending, to)
	if err != nil {
		if errors.Is(err, ErrHospitalNotFound) {
			// Distinguish an absent hospital from one already resolved.
			if _, getErr := s.repo.GetHospitalByID(ctx, id); getErr == nil {
				return nil, ErrNotPending
			}
			return nil, ErrHospitalNotFound
		}
		return nil, fmt.Errorf("set registration status: %w", err)
	}
	return h, nil
}
