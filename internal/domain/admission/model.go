package admission

import (
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/domain/staff"
)

var ValidStatuses = map[string]bool{
	"Admitted": true, "Discharged": true,
}

// Admission maps to the admissions table.
type Admission struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patientId"`
	AdmittedBy    uuid.UUID  `db:"admitted_by" json:"admittedBy"`
	RoomNumber    string     `db:"room_number" json:"roomNumber"`
	BedNumber     string     `db:"bed_number" json:"bedNumber"`
	AdmissionDate time.Time  `db:"admission_date" json:"admissionDate"`
	DischargeDate *time.Time `db:"discharge_date" json:"dischargeDate,omitempty"`
	Diagnosis     string     `db:"diagnosis" json:"diagnosis"`
	TreatmentPlan *string    `db:"treatment_plan" json:"treatmentPlan,omitempty"`
	Status        string     `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`

	// Joined summaries, nil when the reference dangles.
	Patient *patient.Summary `db:"-" json:"patient,omitempty"`
	Staff   *staff.Summary   `db:"-" json:"staff,omitempty"`
}
