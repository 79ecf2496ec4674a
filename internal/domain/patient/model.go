package patient

import (
	"time"

	"github.com/google/uuid"
)

// Genders accepted for a patient record.
var ValidGenders = map[string]bool{
	"Male": true, "Female": true, "Other": true,
}

// Blood groups accepted for a patient record.
var ValidBloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

// Patient maps to the patients table.
type Patient struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	Age                int       `db:"age" json:"age"`
	Gender             string    `db:"gender" json:"gender"`
	ContactNumber      string    `db:"contact_number" json:"contactNumber"`
	Email              *string   `db:"email" json:"email,omitempty"`
	Address            string    `db:"address" json:"address"`
	BloodGroup         *string   `db:"blood_group" json:"bloodGroup,omitempty"`
	MedicalHistory     string    `db:"medical_history" json:"medicalHistory"`
	EmergencyContact   *string   `db:"emergency_contact" json:"emergencyContact,omitempty"`
	Allergies          []string  `db:"allergies" json:"allergies"`
	CurrentMedications []string  `db:"current_medications" json:"currentMedications"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// Summary is the joined reference shape embedded in appointment, admission
// and billing reads.
type Summary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactNumber string    `json:"contactNumber"`
}
