package insurance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/httperr"
)

type Service struct {
	claims Repository
	now    func() time.Time
}

func NewService(claims Repository) *Service {
	return &Service{claims: claims, now: time.Now}
}

func validateClaim(cl *Claim) error {
	if cl.PatientID == uuid.Nil {
		return httperr.Validation("patient id is required")
	}
	if cl.BillID == uuid.Nil {
		return httperr.Validation("bill id is required")
	}
	if cl.InsuranceProvider == "" {
		return httperr.Validation("insurance provider is required")
	}
	if cl.PolicyNumber == "" {
		return httperr.Validation("policy number is required")
	}
	if cl.ClaimAmount <= 0 {
		return httperr.Validation("claim amount must be a positive number")
	}
	if cl.Status != "" && !ValidStatuses[cl.Status] {
		return httperr.Validation("invalid claim status: %s", cl.Status)
	}
	return nil
}

// Create submits a claim. The claim amount is accepted verbatim and is not
// checked against the bill's total.
func (s *Service) Create(ctx context.Context, cl *Claim) error {
	if err := validateClaim(cl); err != nil {
		return err
	}
	if cl.Status == "" {
		cl.Status = StatusSubmitted
	}
	if cl.SubmissionDate.IsZero() {
		cl.SubmissionDate = s.now()
	}
	return s.claims.Create(ctx, cl)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Claim, error) {
	return s.claims.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, cl *Claim) error {
	if err := validateClaim(cl); err != nil {
		return err
	}
	return s.claims.Update(ctx, cl)
}

// UpdateStatus moves a claim to any member of the status set. Approved and
// Partially Approved stamp the approval date; the bill is never touched.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string, approvedAmount *float64) (*Claim, error) {
	if !ValidStatuses[status] {
		return nil, httperr.Validation("invalid claim status: %s", status)
	}
	cl, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cl.Status = status
	if approvedAmount != nil {
		cl.ApprovedAmount = approvedAmount
	}
	if status == StatusApproved || status == StatusPartiallyApproved {
		now := s.now()
		cl.ApprovalDate = &now
	}
	if err := s.claims.Update(ctx, cl); err != nil {
		return nil, err
	}
	return s.claims.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.claims.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Claim, int, error) {
	return s.claims.List(ctx, limit, offset)
}

func (s *Service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Claim, int, error) {
	if !ValidStatuses[status] {
		return nil, 0, httperr.Validation("invalid claim status: %s", status)
	}
	return s.claims.ListByStatus(ctx, status, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Claim, int, error) {
	return s.claims.ListByPatient(ctx, patientID, limit, offset)
}
