package staff

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	Update(ctx context.Context, s *Staff) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Staff, int, error)
	ListByRole(ctx context.Context, role string, limit, offset int) ([]*Staff, int, error)
	ListByDepartment(ctx context.Context, department string, limit, offset int) ([]*Staff, int, error)
}

type AttendanceRepository interface {
	// Upsert inserts or, when a row for (staff_id, date) exists, updates it.
	Upsert(ctx context.Context, a *Attendance) error
	GetByID(ctx context.Context, id uuid.UUID) (*Attendance, error)
	Update(ctx context.Context, a *Attendance) error
	List(ctx context.Context, limit, offset int) ([]*Attendance, int, error)
	ListByDate(ctx context.Context, date time.Time, limit, offset int) ([]*Attendance, int, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID, limit, offset int) ([]*Attendance, int, error)
}
