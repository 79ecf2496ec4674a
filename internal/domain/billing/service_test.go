package billing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/httperr"
)

// -- Mock Repository --

type mockRepo struct {
	bills    map[uuid.UUID]*Bill
	payments map[uuid.UUID][]Payment
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		bills:    make(map[uuid.UUID]*Bill),
		payments: make(map[uuid.UUID][]Payment),
	}
}

func (m *mockRepo) Create(_ context.Context, b *Bill) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()
	cp := *b
	m.bills[b.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Bill, error) {
	b, ok := m.bills[id]
	if !ok {
		return nil, httperr.NotFound("bill")
	}
	cp := *b
	cp.Payments = append([]Payment{}, m.payments[id]...)
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, b *Bill) error {
	if _, ok := m.bills[b.ID]; !ok {
		return httperr.NotFound("bill")
	}
	cp := *b
	m.bills[b.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.bills[id]; !ok {
		return httperr.NotFound("bill")
	}
	delete(m.bills, id)
	delete(m.payments, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Bill, int, error) {
	var result []*Bill
	for _, b := range m.bills {
		result = append(result, b)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByStatus(_ context.Context, status string, limit, offset int) ([]*Bill, int, error) {
	var result []*Bill
	for _, b := range m.bills {
		if b.PaymentStatus == status {
			result = append(result, b)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Bill, int, error) {
	var result []*Bill
	for _, b := range m.bills {
		if b.PatientID == patientID {
			result = append(result, b)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *mockRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*Bill, error) {
	b, ok := m.bills[id]
	if !ok {
		return nil, httperr.NotFound("bill")
	}
	cp := *b
	return &cp, nil
}

func (m *mockRepo) SetPaymentState(_ context.Context, id uuid.UUID, paid float64, status string) error {
	b, ok := m.bills[id]
	if !ok {
		return httperr.NotFound("bill")
	}
	b.PaidAmount = paid
	b.PaymentStatus = status
	return nil
}

func (m *mockRepo) AddPayment(_ context.Context, p *Payment) error {
	p.ID = uuid.New()
	m.payments[p.BillID] = append(m.payments[p.BillID], *p)
	return nil
}

func (m *mockRepo) ListInRange(_ context.Context, start, end time.Time) ([]*Bill, error) {
	var result []*Bill
	for _, b := range m.bills {
		if !b.BillDate.Before(start) && !b.BillDate.After(end) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockRepo) ListUnpaid(_ context.Context) ([]*Bill, error) {
	var result []*Bill
	for _, b := range m.bills {
		if b.PaymentStatus == StatusPending || b.PaymentStatus == StatusPartial {
			result = append(result, b)
		}
	}
	return result, nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func validBill() *Bill {
	return &Bill{
		PatientID:   uuid.New(),
		BillType:    "Consultation",
		Items:       []LineItem{{Name: "Consultation fee", Quantity: 1, UnitPrice: 500, Amount: 500}},
		TotalAmount: 500,
		DueDate:     time.Now().AddDate(0, 0, 14),
	}
}

// -- StatusFor --

func TestStatusFor(t *testing.T) {
	cases := []struct {
		paid, total float64
		want        string
	}{
		{0, 500, StatusPending},
		{100, 500, StatusPartial},
		{499.99, 500, StatusPartial},
		{500, 500, StatusPaid},
		{600, 500, StatusPaid},
		{0, 0, StatusPending},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.paid, tc.total); got != tc.want {
			t.Errorf("StatusFor(%v, %v) = %q, want %q", tc.paid, tc.total, got, tc.want)
		}
	}
}

// -- Bill CRUD --

func TestCreateBill_Defaults(t *testing.T) {
	svc, _ := newTestService()
	b := validBill()

	if err := svc.Create(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.PaymentStatus != StatusPending {
		t.Errorf("expected default status Pending, got %q", b.PaymentStatus)
	}
	if b.BillDate.IsZero() {
		t.Error("expected bill date to default to now")
	}
}

func TestCreateBill_Validation(t *testing.T) {
	svc, _ := newTestService()

	cases := []struct {
		name   string
		mutate func(*Bill)
	}{
		{"missing patient", func(b *Bill) { b.PatientID = uuid.Nil }},
		{"unknown bill type", func(b *Bill) { b.BillType = "Parking" }},
		{"negative total", func(b *Bill) { b.TotalAmount = -1 }},
		{"unknown status", func(b *Bill) { b.PaymentStatus = "Settled" }},
		{"unknown method", func(b *Bill) { m := "Barter"; b.PaymentMethod = &m }},
		{"missing due date", func(b *Bill) { b.DueDate = time.Time{} }},
	}
	for _, tc := range cases {
		b := validBill()
		tc.mutate(b)
		err := svc.Create(context.Background(), b)
		appErr, ok := err.(*httperr.Error)
		if !ok || appErr.Kind != httperr.KindValidation {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestUpdateBill_DoesNotRederiveStatus(t *testing.T) {
	svc, repo := newTestService()
	b := validBill()
	if err := svc.Create(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Direct assignment can leave paid == total with a non-Paid status.
	b.PaidAmount = b.TotalAmount
	b.PaymentStatus = StatusPending
	if err := svc.Update(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := repo.bills[b.ID]
	if got.PaymentStatus != StatusPending {
		t.Errorf("expected status left as assigned, got %q", got.PaymentStatus)
	}
}

// -- RecordPayment --

func TestRecordPayment_PartialThenPaid(t *testing.T) {
	svc, _ := newTestService()
	b := validBill()
	if err := svc.Create(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := svc.RecordPayment(context.Background(), b.ID, 200, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.PaidAmount != 200 || summary.PaymentStatus != StatusPartial {
		t.Fatalf("expected 200/Partial, got %v/%s", summary.PaidAmount, summary.PaymentStatus)
	}

	summary, err = svc.RecordPayment(context.Background(), b.ID, 300, "Credit Card")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.PaidAmount != 500 || summary.PaymentStatus != StatusPaid {
		t.Fatalf("expected 500/Paid, got %v/%s", summary.PaidAmount, summary.PaymentStatus)
	}

	got, err := svc.Get(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Payments) != 2 {
		t.Fatalf("expected 2 payment rows, got %d", len(got.Payments))
	}
	if got.Payments[0].Method != "Cash" {
		t.Errorf("expected omitted method to default to Cash, got %q", got.Payments[0].Method)
	}
}

func TestRecordPayment_ExceedsBalance(t *testing.T) {
	svc, repo := newTestService()
	b := validBill()
	if err := svc.Create(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.RecordPayment(context.Background(), b.ID, 300, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.RecordPayment(context.Background(), b.ID, 250, "")
	appErr, ok := err.(*httperr.Error)
	if !ok || appErr.Kind != httperr.KindExceedsBalance {
		t.Fatalf("expected exceeds-balance error, got %v", err)
	}
	if !strings.Contains(appErr.Message, "200.00") {
		t.Errorf("expected message to report remaining balance 200.00, got %q", appErr.Message)
	}

	// Rejected payment leaves no state change.
	got := repo.bills[b.ID]
	if got.PaidAmount != 300 || got.PaymentStatus != StatusPartial {
		t.Errorf("expected state unchanged after rejection, got %v/%s", got.PaidAmount, got.PaymentStatus)
	}
	if len(repo.payments[b.ID]) != 1 {
		t.Errorf("expected no payment row appended on rejection, got %d", len(repo.payments[b.ID]))
	}
}

func TestRecordPayment_ExactBalance(t *testing.T) {
	svc, _ := newTestService()
	b := validBill()
	if err := svc.Create(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := svc.RecordPayment(context.Background(), b.ID, 500, "Insurance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.PaymentStatus != StatusPaid {
		t.Errorf("expected Paid on exact balance, got %q", summary.PaymentStatus)
	}
}

func TestRecordPayment_InvalidAmount(t *testing.T) {
	svc, _ := newTestService()
	b := validBill()
	if err := svc.Create(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, amount := range []float64{0, -50} {
		_, err := svc.RecordPayment(context.Background(), b.ID, amount, "")
		appErr, ok := err.(*httperr.Error)
		if !ok || appErr.Kind != httperr.KindValidation {
			t.Errorf("amount %v: expected validation error, got %v", amount, err)
		}
	}
}

func TestRecordPayment_UnknownBill(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.RecordPayment(context.Background(), uuid.New(), 100, "")
	if !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// -- Revenue stats --

func TestRevenueStats(t *testing.T) {
	svc, repo := newTestService()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	method := "Cash"
	mk := func(billDate time.Time, total, paid float64, billType string) {
		b := &Bill{
			ID:            uuid.New(),
			PatientID:     uuid.New(),
			BillType:      billType,
			TotalAmount:   total,
			PaidAmount:    paid,
			PaymentStatus: StatusFor(paid, total),
			PaymentMethod: &method,
			BillDate:      billDate,
			DueDate:       billDate.AddDate(0, 0, 14),
		}
		repo.bills[b.ID] = b
	}

	mk(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), 1000, 600, "Surgery")
	mk(time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC), 500, 500, "Consultation")
	mk(time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC), 300, 100, "Lab Test")
	// Outside both the default range and the chart window.
	mk(time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC), 900, 900, "Surgery")

	stats, err := svc.RevenueStats(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalBilled != 1800 {
		t.Errorf("expected total billed 1800, got %v", stats.TotalBilled)
	}
	if stats.TotalPaid != 1200 {
		t.Errorf("expected total paid 1200, got %v", stats.TotalPaid)
	}
	if stats.TotalOutstanding != 600 {
		t.Errorf("expected outstanding 600, got %v", stats.TotalOutstanding)
	}

	if len(stats.MonthlyData) != 6 || len(stats.Labels) != 6 {
		t.Fatalf("expected exactly 6 monthly buckets, got %d", len(stats.MonthlyData))
	}
	wantLabels := []string{"Apr", "May", "Jun", "Jul", "Aug", "Sep"}
	for i, want := range wantLabels {
		if stats.Labels[i] != want {
			t.Errorf("label %d: expected %s, got %s", i, want, stats.Labels[i])
		}
	}

	// April bucket carries the Lab Test payment, September the Surgery one.
	if stats.MonthlyData[0].Revenue != 100 {
		t.Errorf("expected April revenue 100, got %v", stats.MonthlyData[0].Revenue)
	}
	if stats.MonthlyData[5].Revenue != 600 {
		t.Errorf("expected September revenue 600, got %v", stats.MonthlyData[5].Revenue)
	}
	if stats.MonthlyData[5].Expenses != 420 {
		t.Errorf("expected September expenses 420, got %v", stats.MonthlyData[5].Expenses)
	}

	if len(stats.Datasets) != 2 || stats.Datasets[0].Label != "Revenue" || stats.Datasets[1].Label != "Expenses" {
		t.Fatalf("expected Revenue and Expenses datasets, got %+v", stats.Datasets)
	}
	if stats.Datasets[0].Data[4] != 500 {
		t.Errorf("expected August revenue 500 in dataset, got %v", stats.Datasets[0].Data[4])
	}
}

func TestRevenueStats_ChartWindowIgnoresRange(t *testing.T) {
	svc, repo := newTestService()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	b := &Bill{
		ID:            uuid.New(),
		PatientID:     uuid.New(),
		BillType:      "Consultation",
		TotalAmount:   400,
		PaidAmount:    400,
		PaymentStatus: StatusPaid,
		BillDate:      time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
	}
	repo.bills[b.ID] = b

	// A narrow range that excludes August entirely.
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)
	stats, err := svc.RevenueStats(context.Background(), &start, &end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalPaid != 0 {
		t.Errorf("expected range totals to exclude August bill, got %v", stats.TotalPaid)
	}
	if len(stats.MonthlyData) != 6 {
		t.Fatalf("expected 6 monthly buckets, got %d", len(stats.MonthlyData))
	}
	if stats.MonthlyData[4].Revenue != 400 {
		t.Errorf("expected August chart bucket to still carry 400, got %v", stats.MonthlyData[4].Revenue)
	}
}

// -- Pending / overdue --

func TestPendingAndOverduePayments(t *testing.T) {
	svc, repo := newTestService()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	mk := func(total, paid float64, due time.Time) *Bill {
		b := &Bill{
			ID:            uuid.New(),
			PatientID:     uuid.New(),
			BillType:      "Consultation",
			TotalAmount:   total,
			PaidAmount:    paid,
			PaymentStatus: StatusFor(paid, total),
			BillDate:      now.AddDate(0, 0, -30),
			DueDate:       due,
		}
		repo.bills[b.ID] = b
		return b
	}

	mk(500, 0, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))   // overdue, 500 out
	mk(400, 150, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)) // pending only, 250 out
	mk(300, 300, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))  // paid, excluded

	pending, err := svc.PendingPayments(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending.Count != 2 {
		t.Errorf("expected 2 pending bills, got %d", pending.Count)
	}
	if pending.TotalPending != 750 {
		t.Errorf("expected total pending 750, got %v", pending.TotalPending)
	}

	overdue, err := svc.OverduePayments(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overdue.Count != 1 {
		t.Errorf("expected 1 overdue bill, got %d", overdue.Count)
	}
	if overdue.TotalOverdue != 500 {
		t.Errorf("expected total overdue 500, got %v", overdue.TotalOverdue)
	}
}

func TestOverdue_DueTodayNotOverdue(t *testing.T) {
	svc, repo := newTestService()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	b := &Bill{
		ID:            uuid.New(),
		PatientID:     uuid.New(),
		BillType:      "Consultation",
		TotalAmount:   100,
		PaymentStatus: StatusPending,
		BillDate:      now,
		DueDate:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	repo.bills[b.ID] = b

	overdue, err := svc.OverduePayments(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overdue.Count != 0 {
		t.Errorf("bill due today should not be overdue, got count %d", overdue.Count)
	}
}
