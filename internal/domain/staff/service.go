package staff

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/httperr"
)

type Service struct {
	staff      Repository
	attendance AttendanceRepository
}

func NewService(staff Repository, attendance AttendanceRepository) *Service {
	return &Service{staff: staff, attendance: attendance}
}

func validateStaff(s *Staff) error {
	if s.Name == "" {
		return httperr.Validation("name is required")
	}
	if s.StaffCode == "" {
		return httperr.Validation("staff code is required")
	}
	if !ValidRoles[s.Role] {
		return httperr.Validation("invalid role: %s", s.Role)
	}
	if !ValidDepartments[s.Department] {
		return httperr.Validation("invalid department: %s", s.Department)
	}
	if s.ContactNumber == "" {
		return httperr.Validation("contact number is required")
	}
	if s.Email == "" {
		return httperr.Validation("email is required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, st *Staff) error {
	if err := validateStaff(st); err != nil {
		return err
	}
	if st.JoiningDate.IsZero() {
		st.JoiningDate = time.Now()
	}
	if st.Schedule == nil {
		st.Schedule = []ScheduleEntry{}
	}
	return s.staff.Create(ctx, st)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return s.staff.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, st *Staff) error {
	if err := validateStaff(st); err != nil {
		return err
	}
	return s.staff.Update(ctx, st)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.staff.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Staff, int, error) {
	return s.staff.List(ctx, limit, offset)
}

func (s *Service) ListByRole(ctx context.Context, role string, limit, offset int) ([]*Staff, int, error) {
	if !ValidRoles[role] {
		return nil, 0, httperr.Validation("invalid role: %s", role)
	}
	return s.staff.ListByRole(ctx, role, limit, offset)
}

func (s *Service) ListByDepartment(ctx context.Context, department string, limit, offset int) ([]*Staff, int, error) {
	if !ValidDepartments[department] {
		return nil, 0, httperr.Validation("invalid department: %s", department)
	}
	return s.staff.ListByDepartment(ctx, department, limit, offset)
}

// -- Attendance --

// MarkAttendance records attendance for a staff member on a given day. A
// second remark for the same day updates the existing row rather than adding
// another one.
func (s *Service) MarkAttendance(ctx context.Context, a *Attendance) error {
	if a.StaffID == uuid.Nil {
		return httperr.Validation("staff id is required")
	}
	if a.CheckIn == "" {
		return httperr.Validation("check-in time is required")
	}
	if a.Status == "" {
		a.Status = "Present"
	}
	if !ValidAttendanceStatuses[a.Status] {
		return httperr.Validation("invalid attendance status: %s", a.Status)
	}
	if a.Date.IsZero() {
		a.Date = time.Now().Truncate(24 * time.Hour)
	}
	// Remarking attendance for a missing staff member is a 404.
	st, err := s.staff.GetByID(ctx, a.StaffID)
	if err != nil {
		return err
	}
	if err := s.attendance.Upsert(ctx, a); err != nil {
		return err
	}
	a.Staff = &Summary{ID: st.ID, Name: st.Name, Role: st.Role, Department: st.Department}
	return nil
}

func (s *Service) UpdateAttendance(ctx context.Context, a *Attendance) error {
	if a.CheckIn == "" {
		return httperr.Validation("check-in time is required")
	}
	if a.Status != "" && !ValidAttendanceStatuses[a.Status] {
		return httperr.Validation("invalid attendance status: %s", a.Status)
	}
	return s.attendance.Update(ctx, a)
}

func (s *Service) ListAttendance(ctx context.Context, limit, offset int) ([]*Attendance, int, error) {
	return s.attendance.List(ctx, limit, offset)
}

func (s *Service) ListAttendanceByDate(ctx context.Context, date time.Time, limit, offset int) ([]*Attendance, int, error) {
	return s.attendance.ListByDate(ctx, date, limit, offset)
}

func (s *Service) ListAttendanceByStaff(ctx context.Context, staffID uuid.UUID, limit, offset int) ([]*Attendance, int, error) {
	return s.attendance.ListByStaff(ctx, staffID, limit, offset)
}
