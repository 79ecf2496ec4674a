package admission

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
	"github.com/hms/hms/internal/domain/staff"
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

const cols = `ad.id, ad.patient_id, ad.admitted_by, ad.room_number, ad.bed_number,
	ad.admission_date, ad.discharge_date, ad.diagnosis, ad.treatment_plan, ad.status,
	ad.created_at, ad.updated_at,
	p.id, p.name, p.contact_number,
	s.id, s.name, s.role, s.department`

const joins = ` FROM admissions ad
	LEFT JOIN patients p ON p.id = ad.patient_id
	LEFT JOIN staff s ON s.id = ad.admitted_by`

func scanAdmission(row pgx.Row) (*Admission, error) {
	var a Admission
	var pid *uuid.UUID
	var pName, pContact *string
	var sid *uuid.UUID
	var sName, sRole, sDept *string
	err := row.Scan(&a.ID, &a.PatientID, &a.AdmittedBy, &a.RoomNumber, &a.BedNumber,
		&a.AdmissionDate, &a.DischargeDate, &a.Diagnosis, &a.TreatmentPlan, &a.Status,
		&a.CreatedAt, &a.UpdatedAt,
		&pid, &pName, &pContact,
		&sid, &sName, &sRole, &sDept)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("admission")
	}
	if err != nil {
		return nil, err
	}
	if pid != nil {
		a.Patient = &patient.Summary{ID: *pid, Name: *pName, ContactNumber: *pContact}
	}
	if sid != nil {
		a.Staff = &staff.Summary{ID: *sid, Name: *sName, Role: *sRole, Department: *sDept}
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Admission) error {
	a.ID = uuid.New()
	if err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO admissions (id, patient_id, admitted_by, room_number, bed_number,
			admission_date, discharge_date, diagnosis, treatment_plan, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.AdmittedBy, a.RoomNumber, a.BedNumber,
		a.AdmissionDate, a.DischargeDate, a.Diagnosis, a.TreatmentPlan, a.Status).
		Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return err
	}
	created, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *created
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return scanAdmission(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+joins+` WHERE ad.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Admission) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE admissions SET patient_id=$2, admitted_by=$3, room_number=$4,
			bed_number=$5, admission_date=$6, discharge_date=$7, diagnosis=$8,
			treatment_plan=$9, status=$10, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.AdmittedBy, a.RoomNumber,
		a.BedNumber, a.AdmissionDate, a.DischargeDate, a.Diagnosis,
		a.TreatmentPlan, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("admission")
	}
	return nil
}

func (r *repoPG) Discharge(ctx context.Context, id uuid.UUID, dischargeDate time.Time) (*Admission, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE admissions SET status='Discharged', discharge_date=$2, updated_at=NOW()
		WHERE id = $1`, id, dischargeDate)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, httperr.NotFound("admission")
	}
	return r.GetByID(ctx, id)
}

func (r *repoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Admission, int, error) {
	q := r.conn(ctx)
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM admissions ad`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	args = append(args, limit, offset)
	rows, err := q.Query(ctx,
		fmt.Sprintf(`SELECT `+cols+joins+where+` ORDER BY ad.admission_date DESC LIMIT $%d OFFSET $%d`, n+1, n+2),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Admission
	for rows.Next() {
		a, err := scanAdmission(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Admission, int, error) {
	return r.list(ctx, "", nil, limit, offset)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error) {
	return r.list(ctx, " WHERE ad.patient_id = $1", []interface{}{patientID}, limit, offset)
}
