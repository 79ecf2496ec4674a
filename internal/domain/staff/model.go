package staff

import (
	"time"

	"github.com/google/uuid"
)

// Roles a staff member can be hired as.
var ValidRoles = map[string]bool{
	"Doctor": true, "Nurse": true, "Receptionist": true,
	"Lab Technician": true, "Admin": true, "Other": true,
}

// Departments a staff member can belong to.
var ValidDepartments = map[string]bool{
	"Cardiology": true, "Neurology": true, "Pediatrics": true,
	"Orthopedics": true, "Gynecology": true, "General": true,
	"Emergency": true, "Administration": true,
}

// Attendance statuses for a working day.
var ValidAttendanceStatuses = map[string]bool{
	"Present": true, "Absent": true, "Late": true,
	"Half Day": true, "On Leave": true,
}

// ScheduleEntry is one working slot in a staff member's weekly schedule.
type ScheduleEntry struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Staff maps to the staff table. Schedule is stored as JSONB.
type Staff struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	StaffCode     string          `db:"staff_code" json:"staffCode"`
	Role          string          `db:"role" json:"role"`
	Department    string          `db:"department" json:"department"`
	ContactNumber string          `db:"contact_number" json:"contactNumber"`
	Email         string          `db:"email" json:"email"`
	JoiningDate   time.Time       `db:"joining_date" json:"joiningDate"`
	Qualification *string         `db:"qualification" json:"qualification,omitempty"`
	Schedule      []ScheduleEntry `db:"schedule" json:"schedule"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// Summary is the joined reference shape embedded in appointment, admission
// and attendance reads.
type Summary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
}

// Attendance maps to the attendance table. One row per (staff_id, date).
type Attendance struct {
	ID       uuid.UUID `db:"id" json:"id"`
	StaffID  uuid.UUID `db:"staff_id" json:"staffId"`
	Date     time.Time `db:"date" json:"date"`
	CheckIn  string    `db:"check_in" json:"checkIn"`
	CheckOut *string   `db:"check_out" json:"checkOut,omitempty"`
	Status   string    `db:"status" json:"status"`
	Notes    *string   `db:"notes" json:"notes,omitempty"`

	// Joined staff summary, nil when the staff record is gone.
	Staff *Summary `db:"-" json:"staff,omitempty"`
}
