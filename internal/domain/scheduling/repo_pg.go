package scheduling

import (
	"context"
	"errors"
	"fmt"

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

const cols = `ap.id, ap.patient_id, ap.doctor_id, ap.date, ap.time, ap.status,
	ap.purpose, ap.notes, ap.created_at, ap.updated_at,
	p.id, p.name, p.contact_number,
	s.id, s.name, s.role, s.department`

const joins = ` FROM appointments ap
	LEFT JOIN patients p ON p.id = ap.patient_id
	LEFT JOIN staff s ON s.id = ap.doctor_id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var pid *uuid.UUID
	var pName, pContact *string
	var sid *uuid.UUID
	var sName, sRole, sDept *string
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Time, &a.Status,
		&a.Purpose, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&pid, &pName, &pContact,
		&sid, &sName, &sRole, &sDept)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("appointment")
	}
	if err != nil {
		return nil, err
	}
	if pid != nil {
		a.Patient = &patient.Summary{ID: *pid, Name: *pName, ContactNumber: *pContact}
	}
	if sid != nil {
		a.Doctor = &staff.Summary{ID: *sid, Name: *sName, Role: *sRole, Department: *sDept}
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	if err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, date, time, status, purpose, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.Time, a.Status, a.Purpose, a.Notes).
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

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+joins+` WHERE ap.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET patient_id=$2, doctor_id=$3, date=$4, time=$5,
			status=$6, purpose=$7, notes=$8, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.Time, a.Status, a.Purpose, a.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("appointment")
	}
	return nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, httperr.NotFound("appointment")
	}
	return r.GetByID(ctx, id)
}

func (r *repoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Appointment, int, error) {
	q := r.conn(ctx)
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM appointments ap`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	args = append(args, limit, offset)
	rows, err := q.Query(ctx,
		fmt.Sprintf(`SELECT `+cols+joins+where+` ORDER BY ap.date DESC, ap.time ASC LIMIT $%d OFFSET $%d`, n+1, n+2),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, "", nil, limit, offset)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, " WHERE ap.patient_id = $1", []interface{}{patientID}, limit, offset)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, " WHERE ap.doctor_id = $1", []interface{}{doctorID}, limit, offset)
}
