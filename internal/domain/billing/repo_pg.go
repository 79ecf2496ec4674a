package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/httperr"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const cols = `b.id, b.patient_id, b.admission_id, b.appointment_id, b.bill_type,
	b.items, b.total_amount, b.paid_amount, b.payment_status, b.payment_method,
	b.bill_date, b.due_date, b.created_at, b.updated_at,
	p.id, p.name, p.contact_number`

const joins = ` FROM bills b LEFT JOIN patients p ON p.id = b.patient_id`

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	var pid *uuid.UUID
	var pName, pContact *string
	err := row.Scan(&b.ID, &b.PatientID, &b.AdmissionID, &b.AppointmentID, &b.BillType,
		&b.Items, &b.TotalAmount, &b.PaidAmount, &b.PaymentStatus, &b.PaymentMethod,
		&b.BillDate, &b.DueDate, &b.CreatedAt, &b.UpdatedAt,
		&pid, &pName, &pContact)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("bill")
	}
	if err != nil {
		return nil, err
	}
	if pid != nil {
		b.Patient = &patient.Summary{ID: *pid, Name: *pName, ContactNumber: *pContact}
	}
	if b.Payments == nil {
		b.Payments = []Payment{}
	}
	return &b, nil
}

// loadPayments attaches payment rows to the given bills in one query.
func (r *repoPG) loadPayments(ctx context.Context, bills []*Bill) error {
	if len(bills) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(bills))
	byID := make(map[uuid.UUID]*Bill, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
		byID[b.ID] = b
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, bill_id, amount, date, method
		FROM bill_payments WHERE bill_id = ANY($1) ORDER BY date ASC`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.BillID, &p.Amount, &p.Date, &p.Method); err != nil {
			return err
		}
		if b, ok := byID[p.BillID]; ok {
			b.Payments = append(b.Payments, p)
		}
	}
	return rows.Err()
}

func (r *repoPG) Create(ctx context.Context, b *Bill) error {
	b.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO bills (id, patient_id, admission_id, appointment_id, bill_type,
			items, total_amount, paid_amount, payment_status, payment_method,
			bill_date, due_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		b.ID, b.PatientID, b.AdmissionID, b.AppointmentID, b.BillType,
		b.Items, b.TotalAmount, b.PaidAmount, b.PaymentStatus, b.PaymentMethod,
		b.BillDate, b.DueDate).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bill, error) {
	b, err := scanBill(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+joins+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, []*Bill{b}); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repoPG) Update(ctx context.Context, b *Bill) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bills SET patient_id=$2, admission_id=$3, appointment_id=$4,
			bill_type=$5, items=$6, total_amount=$7, paid_amount=$8,
			payment_status=$9, payment_method=$10, bill_date=$11, due_date=$12,
			updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.PatientID, b.AdmissionID, b.AppointmentID,
		b.BillType, b.Items, b.TotalAmount, b.PaidAmount,
		b.PaymentStatus, b.PaymentMethod, b.BillDate, b.DueDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("bill")
	}
	return nil
}

// Delete removes the bill and its payments. Insurance claims referencing the
// bill are left in place.
func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("bill")
	}
	return nil
}

func (r *repoPG) list(ctx context.Context, where, order string, args []interface{}, limit, offset int) ([]*Bill, int, error) {
	q := r.conn(ctx)
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM bills b`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	args = append(args, limit, offset)
	rows, err := q.Query(ctx,
		fmt.Sprintf(`SELECT `+cols+joins+where+order+` LIMIT $%d OFFSET $%d`, n+1, n+2),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadPayments(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Bill, int, error) {
	return r.list(ctx, "", ` ORDER BY b.bill_date DESC`, nil, limit, offset)
}

func (r *repoPG) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Bill, int, error) {
	return r.list(ctx, ` WHERE b.payment_status = $1`, ` ORDER BY b.due_date ASC`, []interface{}{status}, limit, offset)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Bill, int, error) {
	return r.list(ctx, ` WHERE b.patient_id = $1`, ` ORDER BY b.bill_date DESC`, []interface{}{patientID}, limit, offset)
}

func (r *repoPG) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, tx, err := db.WithPoolTx(ctx, r.pool)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := fn(txCtx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *repoPG) GetForUpdate(ctx context.Context, id uuid.UUID) (*Bill, error) {
	var b Bill
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, bill_type, total_amount, paid_amount, payment_status
		FROM bills WHERE id = $1 FOR UPDATE`, id).
		Scan(&b.ID, &b.PatientID, &b.BillType, &b.TotalAmount, &b.PaidAmount, &b.PaymentStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("bill")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repoPG) SetPaymentState(ctx context.Context, id uuid.UUID, paid float64, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE bills SET paid_amount=$2, payment_status=$3, updated_at=NOW() WHERE id = $1`,
		id, paid, status)
	return err
}

func (r *repoPG) AddPayment(ctx context.Context, p *Payment) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO bill_payments (id, bill_id, amount, date, method) VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.BillID, p.Amount, p.Date, p.Method)
	return err
}

func (r *repoPG) ListInRange(ctx context.Context, start, end time.Time) ([]*Bill, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cols+joins+` WHERE b.bill_date >= $1 AND b.bill_date <= $2 ORDER BY b.bill_date ASC`,
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *repoPG) ListUnpaid(ctx context.Context) ([]*Bill, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cols+joins+` WHERE b.payment_status IN ('Pending','Partial') ORDER BY b.due_date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}
