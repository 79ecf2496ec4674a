package billing

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/httperr"
)

type Service struct {
	bills Repository
	now   func() time.Time
}

func NewService(bills Repository) *Service {
	return &Service{bills: bills, now: time.Now}
}

func validateBill(b *Bill) error {
	if b.PatientID == uuid.Nil {
		return httperr.Validation("patient id is required")
	}
	if !ValidBillTypes[b.BillType] {
		return httperr.Validation("invalid bill type: %s", b.BillType)
	}
	if b.TotalAmount < 0 {
		return httperr.Validation("total amount must not be negative")
	}
	if b.PaymentStatus != "" && !ValidPaymentStatuses[b.PaymentStatus] {
		return httperr.Validation("invalid payment status: %s", b.PaymentStatus)
	}
	if b.PaymentMethod != nil && !ValidPaymentMethods[*b.PaymentMethod] {
		return httperr.Validation("invalid payment method: %s", *b.PaymentMethod)
	}
	if b.DueDate.IsZero() {
		return httperr.Validation("due date is required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, b *Bill) error {
	if err := validateBill(b); err != nil {
		return err
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = StatusPending
	}
	if b.BillDate.IsZero() {
		b.BillDate = s.now()
	}
	if b.Items == nil {
		b.Items = []LineItem{}
	}
	if err := s.bills.Create(ctx, b); err != nil {
		return err
	}
	b.Payments = []Payment{}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return s.bills.GetByID(ctx, id)
}

// Update assigns fields directly. It does not re-derive payment_status from
// the amounts; RecordPayment is the invariant-preserving mutation path.
func (s *Service) Update(ctx context.Context, b *Bill) error {
	if err := validateBill(b); err != nil {
		return err
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = StatusPending
	}
	return s.bills.Update(ctx, b)
}

// Delete removes the bill. Insurance claims referencing it keep their bill id
// and read back with a null bill summary.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.bills.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Bill, int, error) {
	return s.bills.List(ctx, limit, offset)
}

func (s *Service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Bill, int, error) {
	if !ValidPaymentStatuses[status] {
		return nil, 0, httperr.Validation("invalid payment status: %s", status)
	}
	return s.bills.ListByStatus(ctx, status, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Bill, int, error) {
	return s.bills.ListByPatient(ctx, patientID, limit, offset)
}

// RecordPayment applies a payment to a bill. The bill row is locked for the
// duration so concurrent payments serialize; a rejected payment leaves no
// state change.
func (s *Service) RecordPayment(ctx context.Context, billID uuid.UUID, amount float64, method string) (*PaymentSummary, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, httperr.Validation("payment amount must be a positive number")
	}
	if method == "" {
		method = "Cash"
	}
	if !ValidPaymentMethods[method] {
		return nil, httperr.Validation("invalid payment method: %s", method)
	}

	var summary *PaymentSummary
	err := s.bills.InTx(ctx, func(ctx context.Context) error {
		b, err := s.bills.GetForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		if b.PaidAmount+amount > b.TotalAmount {
			return httperr.ExceedsBalance(b.Remaining())
		}
		paid := b.PaidAmount + amount
		status := StatusFor(paid, b.TotalAmount)
		if err := s.bills.SetPaymentState(ctx, b.ID, paid, status); err != nil {
			return err
		}
		if err := s.bills.AddPayment(ctx, &Payment{
			BillID: b.ID,
			Amount: amount,
			Date:   s.now(),
			Method: method,
		}); err != nil {
			return err
		}
		summary = &PaymentSummary{
			ID:            b.ID,
			TotalAmount:   b.TotalAmount,
			PaidAmount:    paid,
			PaymentStatus: status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// RevenueStats aggregates billing totals over [start, end] (defaulting to the
// trailing six months). The monthly series always covers the most recent six
// calendar months regardless of the requested range.
func (s *Service) RevenueStats(ctx context.Context, start, end *time.Time) (*RevenueStats, error) {
	now := s.now()
	rangeEnd := now
	if end != nil {
		rangeEnd = *end
	}
	rangeStart := rangeEnd.AddDate(0, -6, 0)
	if start != nil {
		rangeStart = *start
	}

	inRange, err := s.bills.ListInRange(ctx, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	stats := &RevenueStats{
		Period: Period{StartDate: rangeStart, EndDate: rangeEnd},
	}
	byMethod := make(map[string]*Breakdown)
	byType := make(map[string]*Breakdown)
	for _, b := range inRange {
		stats.TotalBilled += b.TotalAmount
		stats.TotalPaid += b.PaidAmount
		stats.TotalOutstanding += b.Remaining()

		method := "Unspecified"
		if b.PaymentMethod != nil {
			method = *b.PaymentMethod
		}
		addBreakdown(byMethod, method, b.PaidAmount)
		addBreakdown(byType, b.BillType, b.TotalAmount)
	}
	stats.ByPaymentMethod = flattenBreakdowns(byMethod)
	stats.ByBillType = flattenBreakdowns(byType)

	// Fixed trailing-6-month chart window anchored on the current month.
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	windowStart := monthStart.AddDate(0, -5, 0)
	windowBills, err := s.bills.ListInRange(ctx, windowStart, now)
	if err != nil {
		return nil, err
	}

	revenueByMonth := make(map[string]float64, 6)
	for _, b := range windowBills {
		revenueByMonth[b.BillDate.Format("2006-01")] += b.PaidAmount
	}

	revSeries := make([]float64, 0, 6)
	expSeries := make([]float64, 0, 6)
	for i := 5; i >= 0; i-- {
		m := monthStart.AddDate(0, -i, 0)
		revenue := revenueByMonth[m.Format("2006-01")]
		expenses := math.Round(revenue * 0.7)
		stats.MonthlyData = append(stats.MonthlyData, MonthlyPoint{
			Month:    m.Format("Jan"),
			Revenue:  revenue,
			Expenses: expenses,
		})
		stats.Labels = append(stats.Labels, m.Format("Jan"))
		revSeries = append(revSeries, revenue)
		expSeries = append(expSeries, expenses)
	}
	stats.Datasets = []ChartDataset{
		{Label: "Revenue", Data: revSeries},
		{Label: "Expenses", Data: expSeries},
	}
	return stats, nil
}

func addBreakdown(m map[string]*Breakdown, group string, amount float64) {
	bd, ok := m[group]
	if !ok {
		bd = &Breakdown{Group: group}
		m[group] = bd
	}
	bd.Count++
	bd.Total += amount
}

func flattenBreakdowns(m map[string]*Breakdown) []Breakdown {
	out := make([]Breakdown, 0, len(m))
	for _, bd := range m {
		out = append(out, *bd)
	}
	return out
}

// PendingPayments returns every bill that still carries a balance.
func (s *Service) PendingPayments(ctx context.Context) (*PendingSummary, error) {
	bills, err := s.bills.ListUnpaid(ctx)
	if err != nil {
		return nil, err
	}
	summary := &PendingSummary{Bills: bills, Count: len(bills)}
	if summary.Bills == nil {
		summary.Bills = []*Bill{}
	}
	for _, b := range bills {
		summary.TotalPending += b.Remaining()
	}
	return summary, nil
}

// OverduePayments returns unpaid bills whose due date has passed.
func (s *Service) OverduePayments(ctx context.Context) (*OverdueSummary, error) {
	bills, err := s.bills.ListUnpaid(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	summary := &OverdueSummary{Bills: []*Bill{}}
	for _, b := range bills {
		if b.DueDate.Before(today) {
			summary.Bills = append(summary.Bills, b)
			summary.TotalOverdue += b.Remaining()
		}
	}
	summary.Count = len(summary.Bills)
	return summary, nil
}
