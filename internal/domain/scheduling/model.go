package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/domain/staff"
)

// Appointment statuses. Any member status may replace any other; there is no
// transition graph.
var ValidStatuses = map[string]bool{
	"Scheduled": true, "Confirmed": true, "Completed": true,
	"Cancelled": true, "No-Show": true,
}

// Appointment maps to the appointments table.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patientId"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctorId"`
	Date      time.Time `db:"date" json:"date"`
	Time      string    `db:"time" json:"time"`
	Status    string    `db:"status" json:"status"`
	Purpose   string    `db:"purpose" json:"purpose"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Joined summaries, nil when the reference dangles.
	Patient *patient.Summary `db:"-" json:"patient,omitempty"`
	Doctor  *staff.Summary   `db:"-" json:"doctor,omitempty"`
}
