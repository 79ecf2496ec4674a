package insurance

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

const cols = `ic.id, ic.patient_id, ic.bill_id, ic.insurance_provider, ic.policy_number,
	ic.claim_amount, ic.approved_amount, ic.status, ic.submission_date, ic.approval_date,
	ic.rejection_reason, ic.notes, ic.created_at, ic.updated_at,
	p.id, p.name, p.contact_number,
	b.id, b.total_amount, b.bill_date`

const joins = ` FROM insurance_claims ic
	LEFT JOIN patients p ON p.id = ic.patient_id
	LEFT JOIN bills b ON b.id = ic.bill_id`

func scanClaim(row pgx.Row) (*Claim, error) {
	var cl Claim
	var pid *uuid.UUID
	var pName, pContact *string
	var bid *uuid.UUID
	var bTotal *float64
	var bDate *time.Time
	err := row.Scan(&cl.ID, &cl.PatientID, &cl.BillID, &cl.InsuranceProvider, &cl.PolicyNumber,
		&cl.ClaimAmount, &cl.ApprovedAmount, &cl.Status, &cl.SubmissionDate, &cl.ApprovalDate,
		&cl.RejectionReason, &cl.Notes, &cl.CreatedAt, &cl.UpdatedAt,
		&pid, &pName, &pContact,
		&bid, &bTotal, &bDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("insurance claim")
	}
	if err != nil {
		return nil, err
	}
	if pid != nil {
		cl.Patient = &patient.Summary{ID: *pid, Name: *pName, ContactNumber: *pContact}
	}
	if bid != nil {
		cl.Bill = &BillSummary{ID: *bid, TotalAmount: *bTotal, BillDate: *bDate}
	}
	return &cl, nil
}

func (r *repoPG) Create(ctx context.Context, cl *Claim) error {
	cl.ID = uuid.New()
	if err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO insurance_claims (id, patient_id, bill_id, insurance_provider,
			policy_number, claim_amount, approved_amount, status, submission_date,
			approval_date, rejection_reason, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		cl.ID, cl.PatientID, cl.BillID, cl.InsuranceProvider,
		cl.PolicyNumber, cl.ClaimAmount, cl.ApprovedAmount, cl.Status, cl.SubmissionDate,
		cl.ApprovalDate, cl.RejectionReason, cl.Notes).
		Scan(&cl.CreatedAt, &cl.UpdatedAt); err != nil {
		return err
	}
	created, err := r.GetByID(ctx, cl.ID)
	if err != nil {
		return err
	}
	*cl = *created
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Claim, error) {
	return scanClaim(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+joins+` WHERE ic.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, cl *Claim) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE insurance_claims SET patient_id=$2, bill_id=$3, insurance_provider=$4,
			policy_number=$5, claim_amount=$6, approved_amount=$7, status=$8,
			submission_date=$9, approval_date=$10, rejection_reason=$11, notes=$12,
			updated_at=NOW()
		WHERE id = $1`,
		cl.ID, cl.PatientID, cl.BillID, cl.InsuranceProvider,
		cl.PolicyNumber, cl.ClaimAmount, cl.ApprovedAmount, cl.Status,
		cl.SubmissionDate, cl.ApprovalDate, cl.RejectionReason, cl.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("insurance claim")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM insurance_claims WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("insurance claim")
	}
	return nil
}

func (r *repoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Claim, int, error) {
	q := r.conn(ctx)
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM insurance_claims ic`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	args = append(args, limit, offset)
	rows, err := q.Query(ctx,
		fmt.Sprintf(`SELECT `+cols+joins+where+` ORDER BY ic.submission_date DESC LIMIT $%d OFFSET $%d`, n+1, n+2),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Claim
	for rows.Next() {
		cl, err := scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, cl)
	}
	return items, total, rows.Err()
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Claim, int, error) {
	return r.list(ctx, "", nil, limit, offset)
}

func (r *repoPG) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Claim, int, error) {
	return r.list(ctx, " WHERE ic.status = $1", []interface{}{status}, limit, offset)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Claim, int, error) {
	return r.list(ctx, " WHERE ic.patient_id = $1", []interface{}{patientID}, limit, offset)
}
