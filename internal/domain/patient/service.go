package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/httperr"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func validate(p *Patient) error {
	if p.Name == "" {
		return httperr.Validation("name is required")
	}
	if p.Age < 0 {
		return httperr.Validation("age must not be negative")
	}
	if !ValidGenders[p.Gender] {
		return httperr.Validation("invalid gender: %s", p.Gender)
	}
	if p.ContactNumber == "" {
		return httperr.Validation("contact number is required")
	}
	if p.Address == "" {
		return httperr.Validation("address is required")
	}
	if p.BloodGroup != nil && !ValidBloodGroups[*p.BloodGroup] {
		return httperr.Validation("invalid blood group: %s", *p.BloodGroup)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	if p.CurrentMedications == nil {
		p.CurrentMedications = []string{}
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

// Delete removes the patient record. Appointments, admissions, bills and
// claims referencing it are left in place and read back with null patient
// summaries.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}
