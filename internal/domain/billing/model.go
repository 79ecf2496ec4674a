package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/patient"
)

// Bill types.
var ValidBillTypes = map[string]bool{
	"Consultation": true, "Room Charge": true, "Laboratory": true,
	"Medication": true, "Surgery": true, "Lab Test": true, "Other": true,
}

// Payment statuses. Overdue is never produced by RecordPayment; it exists for
// read-side classification and manual assignment through UpdateBill.
const (
	StatusPending = "Pending"
	StatusPartial = "Partial"
	StatusPaid    = "Paid"
	StatusOverdue = "Overdue"
)

var ValidPaymentStatuses = map[string]bool{
	StatusPending: true, StatusPartial: true, StatusPaid: true, StatusOverdue: true,
}

var ValidPaymentMethods = map[string]bool{
	"Cash": true, "Credit Card": true, "Debit Card": true,
	"Insurance": true, "Online Payment": true,
}

// LineItem is one charge on a bill. Amount is authoritative; it is not
// re-derived from quantity and unit price.
type LineItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

// Payment is one recorded payment against a bill.
type Payment struct {
	ID     uuid.UUID `db:"id" json:"id"`
	BillID uuid.UUID `db:"bill_id" json:"billId"`
	Amount float64   `db:"amount" json:"amount"`
	Date   time.Time `db:"date" json:"date"`
	Method string    `db:"method" json:"method"`
}

// Bill maps to the bills table. Items is stored as JSONB; payments live in
// the bill_payments child table.
type Bill struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patientId"`
	AdmissionID   *uuid.UUID `db:"admission_id" json:"admissionId,omitempty"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointmentId,omitempty"`
	BillType      string     `db:"bill_type" json:"billType"`
	Items         []LineItem `db:"items" json:"items"`
	TotalAmount   float64    `db:"total_amount" json:"totalAmount"`
	PaidAmount    float64    `db:"paid_amount" json:"paidAmount"`
	PaymentStatus string     `db:"payment_status" json:"paymentStatus"`
	PaymentMethod *string    `db:"payment_method" json:"paymentMethod,omitempty"`
	BillDate      time.Time  `db:"bill_date" json:"billDate"`
	DueDate       time.Time  `db:"due_date" json:"dueDate"`
	Payments      []Payment  `db:"-" json:"payments"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`

	// Joined patient summary, nil when the reference dangles.
	Patient *patient.Summary `db:"-" json:"patient,omitempty"`
}

// Remaining returns the outstanding balance.
func (b *Bill) Remaining() float64 {
	return b.TotalAmount - b.PaidAmount
}

// StatusFor derives the payment status from amounts. Overdue is never
// returned; it is a read-side classification.
func StatusFor(paid, total float64) string {
	switch {
	case paid <= 0:
		return StatusPending
	case paid < total:
		return StatusPartial
	default:
		return StatusPaid
	}
}

// PaymentSummary is the response shape of a recorded payment.
type PaymentSummary struct {
	ID            uuid.UUID `json:"id"`
	TotalAmount   float64   `json:"totalAmount"`
	PaidAmount    float64   `json:"paidAmount"`
	PaymentStatus string    `json:"paymentStatus"`
}

// Breakdown is a per-group aggregate in revenue statistics.
type Breakdown struct {
	Group string  `json:"group"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// MonthlyPoint is one month's revenue bucket; expenses are synthesized as 70%
// of revenue for charting.
type MonthlyPoint struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
}

// ChartDataset is a single pre-shaped chart series.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// RevenueStats is the response of the revenue statistics endpoint.
type RevenueStats struct {
	TotalBilled      float64        `json:"totalBilled"`
	TotalPaid        float64        `json:"totalPaid"`
	TotalOutstanding float64        `json:"totalOutstanding"`
	ByPaymentMethod  []Breakdown    `json:"byPaymentMethod"`
	ByBillType       []Breakdown    `json:"byBillType"`
	MonthlyData      []MonthlyPoint `json:"monthlyData"`
	Labels           []string       `json:"labels"`
	Datasets         []ChartDataset `json:"datasets"`
	Period           Period         `json:"period"`
}

// Period reports the range the totals were computed over.
type Period struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// PendingSummary is the response of the pending payments endpoint.
type PendingSummary struct {
	Bills        []*Bill `json:"bills"`
	TotalPending float64 `json:"totalPending"`
	Count        int     `json:"count"`
}

// OverdueSummary is the response of the overdue payments endpoint.
type OverdueSummary struct {
	Bills        []*Bill `json:"bills"`
	TotalOverdue float64 `json:"totalOverdue"`
	Count        int     `json:"count"`
}
