package scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/httperr"
)

type Service struct {
	appointments Repository
}

func NewService(appointments Repository) *Service {
	return &Service{appointments: appointments}
}

func validate(a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return httperr.Validation("patient id is required")
	}
	if a.DoctorID == uuid.Nil {
		return httperr.Validation("doctor id is required")
	}
	if a.Date.IsZero() {
		return httperr.Validation("date is required")
	}
	if a.Time == "" {
		return httperr.Validation("time is required")
	}
	if a.Purpose == "" {
		return httperr.Validation("purpose is required")
	}
	if a.Status != "" && !ValidStatuses[a.Status] {
		return httperr.Validation("invalid appointment status: %s", a.Status)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if err := validate(a); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = "Scheduled"
	}
	return s.appointments.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, a *Appointment) error {
	if err := validate(a); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = "Scheduled"
	}
	return s.appointments.Update(ctx, a)
}

// UpdateStatus replaces the appointment status. Any member of the closed set
// is accepted regardless of the current status.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	if !ValidStatuses[status] {
		return nil, httperr.Validation("invalid appointment status: %s", status)
	}
	return s.appointments.UpdateStatus(ctx, id, status)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByDoctor(ctx, doctorID, limit, offset)
}
