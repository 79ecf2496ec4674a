package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/httperr"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func connFor(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

// =========== Staff Repository ===========

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const staffCols = `id, name, staff_code, role, department, contact_number, email,
	joining_date, qualification, schedule, created_at, updated_at`

func scanStaff(row pgx.Row) (*Staff, error) {
	var s Staff
	err := row.Scan(&s.ID, &s.Name, &s.StaffCode, &s.Role, &s.Department,
		&s.ContactNumber, &s.Email, &s.JoiningDate, &s.Qualification,
		&s.Schedule, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("staff member")
	}
	return &s, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *repoPG) Create(ctx context.Context, s *Staff) error {
	s.ID = uuid.New()
	err := connFor(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO staff (id, name, staff_code, role, department, contact_number,
			email, joining_date, qualification, schedule)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		s.ID, s.Name, s.StaffCode, s.Role, s.Department, s.ContactNumber,
		s.Email, s.JoiningDate, s.Qualification, s.Schedule).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if isUniqueViolation(err) {
		return httperr.Conflict("staff code or email already registered")
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return scanStaff(connFor(ctx, r.pool).QueryRow(ctx, `SELECT `+staffCols+` FROM staff WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, s *Staff) error {
	tag, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE staff SET name=$2, staff_code=$3, role=$4, department=$5,
			contact_number=$6, email=$7, joining_date=$8, qualification=$9,
			schedule=$10, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.StaffCode, s.Role, s.Department,
		s.ContactNumber, s.Email, s.JoiningDate, s.Qualification, s.Schedule)
	if isUniqueViolation(err) {
		return httperr.Conflict("staff code or email already registered")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("staff member")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := connFor(ctx, r.pool).Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("staff member")
	}
	return nil
}

func (r *repoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Staff, int, error) {
	q := connFor(ctx, r.pool)
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM staff`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	args = append(args, limit, offset)
	rows, err := q.Query(ctx,
		fmt.Sprintf(`SELECT `+staffCols+` FROM staff`+where+` ORDER BY name ASC LIMIT $%d OFFSET $%d`, n+1, n+2),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Staff, int, error) {
	return r.list(ctx, "", nil, limit, offset)
}

func (r *repoPG) ListByRole(ctx context.Context, role string, limit, offset int) ([]*Staff, int, error) {
	return r.list(ctx, " WHERE role = $1", []interface{}{role}, limit, offset)
}

func (r *repoPG) ListByDepartment(ctx context.Context, department string, limit, offset int) ([]*Staff, int, error) {
	return r.list(ctx, " WHERE department = $1", []interface{}{department}, limit, offset)
}

// =========== Attendance Repository ===========

type attendanceRepoPG struct{ pool *pgxpool.Pool }

func NewAttendanceRepoPG(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepoPG{pool: pool}
}

const attCols = `a.id, a.staff_id, a.date, a.check_in, a.check_out, a.status, a.notes,
	s.id, s.name, s.role, s.department`

const attJoin = ` FROM attendance a LEFT JOIN staff s ON s.id = a.staff_id`

func scanAttendance(row pgx.Row) (*Attendance, error) {
	var a Attendance
	var sid *uuid.UUID
	var sName, sRole, sDept *string
	err := row.Scan(&a.ID, &a.StaffID, &a.Date, &a.CheckIn, &a.CheckOut,
		&a.Status, &a.Notes, &sid, &sName, &sRole, &sDept)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("attendance record")
	}
	if err != nil {
		return nil, err
	}
	if sid != nil {
		a.Staff = &Summary{ID: *sid, Name: *sName, Role: *sRole, Department: *sDept}
	}
	return &a, nil
}

// Upsert keeps one row per staff member per day. Fields omitted from a remark
// carry forward from the existing row.
func (r *attendanceRepoPG) Upsert(ctx context.Context, a *Attendance) error {
	a.ID = uuid.New()
	return connFor(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO attendance (id, staff_id, date, check_in, check_out, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (staff_id, date) DO UPDATE SET
			check_in  = COALESCE(NULLIF(EXCLUDED.check_in, ''), attendance.check_in),
			check_out = COALESCE(EXCLUDED.check_out, attendance.check_out),
			status    = COALESCE(NULLIF(EXCLUDED.status, ''), attendance.status),
			notes     = COALESCE(EXCLUDED.notes, attendance.notes)
		RETURNING id, check_in, check_out, status, notes`,
		a.ID, a.StaffID, a.Date, a.CheckIn, a.CheckOut, a.Status, a.Notes).
		Scan(&a.ID, &a.CheckIn, &a.CheckOut, &a.Status, &a.Notes)
}

func (r *attendanceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Attendance, error) {
	return scanAttendance(connFor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+attCols+attJoin+` WHERE a.id = $1`, id))
}

func (r *attendanceRepoPG) Update(ctx context.Context, a *Attendance) error {
	tag, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE attendance SET check_in=$2, check_out=$3, status=$4, notes=$5
		WHERE id = $1`,
		a.ID, a.CheckIn, a.CheckOut, a.Status, a.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("attendance record")
	}
	return nil
}

func (r *attendanceRepoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Attendance, int, error) {
	q := connFor(ctx, r.pool)
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance a`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	args = append(args, limit, offset)
	rows, err := q.Query(ctx,
		fmt.Sprintf(`SELECT `+attCols+attJoin+where+` ORDER BY a.date DESC LIMIT $%d OFFSET $%d`, n+1, n+2),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *attendanceRepoPG) List(ctx context.Context, limit, offset int) ([]*Attendance, int, error) {
	return r.list(ctx, "", nil, limit, offset)
}

func (r *attendanceRepoPG) ListByDate(ctx context.Context, date time.Time, limit, offset int) ([]*Attendance, int, error) {
	return r.list(ctx, " WHERE a.date = $1", []interface{}{date}, limit, offset)
}

func (r *attendanceRepoPG) ListByStaff(ctx context.Context, staffID uuid.UUID, limit, offset int) ([]*Attendance, int, error) {
	return r.list(ctx, " WHERE a.staff_id = $1", []interface{}{staffID}, limit, offset)
}
