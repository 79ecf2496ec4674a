package admission

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/httperr"
)

type Service struct {
	admissions Repository
}

func NewService(admissions Repository) *Service {
	return &Service{admissions: admissions}
}

func validate(a *Admission) error {
	if a.PatientID == uuid.Nil {
		return httperr.Validation("patient id is required")
	}
	if a.AdmittedBy == uuid.Nil {
		return httperr.Validation("admitting staff id is required")
	}
	if a.RoomNumber == "" {
		return httperr.Validation("room number is required")
	}
	if a.BedNumber == "" {
		return httperr.Validation("bed number is required")
	}
	if a.Diagnosis == "" {
		return httperr.Validation("diagnosis is required")
	}
	if a.Status != "" && !ValidStatuses[a.Status] {
		return httperr.Validation("invalid admission status: %s", a.Status)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, a *Admission) error {
	if err := validate(a); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = "Admitted"
	}
	if a.AdmissionDate.IsZero() {
		a.AdmissionDate = time.Now()
	}
	return s.admissions.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return s.admissions.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, a *Admission) error {
	if err := validate(a); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = "Admitted"
	}
	return s.admissions.Update(ctx, a)
}

// Discharge marks the admission Discharged. The request may carry a discharge
// date; absent one, now is stamped.
func (s *Service) Discharge(ctx context.Context, id uuid.UUID, dischargeDate *time.Time) (*Admission, error) {
	when := time.Now()
	if dischargeDate != nil {
		when = *dischargeDate
	}
	return s.admissions.Discharge(ctx, id, when)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Admission, int, error) {
	return s.admissions.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error) {
	return s.admissions.ListByPatient(ctx, patientID, limit, offset)
}
