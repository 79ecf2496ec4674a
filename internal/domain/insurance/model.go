package insurance

import (
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/patient"
)

// Claim statuses. Approved and Partially Approved stamp the approval date;
// nothing here ever writes back to the underlying bill.
const (
	StatusSubmitted         = "Submitted"
	StatusInProcess         = "In Process"
	StatusApproved          = "Approved"
	StatusRejected          = "Rejected"
	StatusPartiallyApproved = "Partially Approved"
)

var ValidStatuses = map[string]bool{
	StatusSubmitted: true, StatusInProcess: true, StatusApproved: true,
	StatusRejected: true, StatusPartiallyApproved: true,
}

// BillSummary is the slice of the bill a claim read carries.
type BillSummary struct {
	ID          uuid.UUID `json:"id"`
	TotalAmount float64   `json:"totalAmount"`
	BillDate    time.Time `json:"billDate"`
}

// Claim maps to the insurance_claims table. The claim amount is stored as
// submitted and is never reconciled against the bill.
type Claim struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	PatientID         uuid.UUID  `db:"patient_id" json:"patientId"`
	BillID            uuid.UUID  `db:"bill_id" json:"billId"`
	InsuranceProvider string     `db:"insurance_provider" json:"insuranceProvider"`
	PolicyNumber      string     `db:"policy_number" json:"policyNumber"`
	ClaimAmount       float64    `db:"claim_amount" json:"claimAmount"`
	ApprovedAmount    *float64   `db:"approved_amount" json:"approvedAmount,omitempty"`
	Status            string     `db:"status" json:"status"`
	SubmissionDate    time.Time  `db:"submission_date" json:"submissionDate"`
	ApprovalDate      *time.Time `db:"approval_date" json:"approvalDate,omitempty"`
	RejectionReason   *string    `db:"rejection_reason" json:"rejectionReason,omitempty"`
	Notes             *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`

	// Joined summaries, nil when the reference dangles.
	Patient *patient.Summary `db:"-" json:"patient,omitempty"`
	Bill    *BillSummary     `db:"-" json:"bill,omitempty"`
}
