package types

import "time"

// Patient represents a patient record
type Patient struct {
	ID          string    `json:"id" db:"id"`
	TenantID    string    `json:"tenant_id" db:"tenant_id"`
	FullName    string    `json:"full_name" db:"full_name"`
	ParentName  string    `json:"parent_name,omitempty" db:"parent_name"`
	ParentPhone string    `json:"parent_phone,omitempty" db:"parent_phone"`
	Condition   string    `json:"condition,omitempty" db:"condition"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Note represents a clinical note attached to a patient, optionally
// tied to the appointment it was taken during.
type Note struct {
	ID            string    `json:"id" db:"id"`
	PatientID     string    `json:"patient_id" db:"patient_id"`
	AppointmentID string    `json:"appointment_id,omitempty" db:"appointment_id"`
	DoctorID      string    `json:"doctor_id" db:"doctor_id"`
	DoctorName    string    `json:"doctor_name" db:"doctor_name"`
	Content       string    `json:"content" db:"content"`
	IsVoiceMemo   bool      `json:"is_voice_memo" db:"is_voice_memo"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// PatientUpdates represents updates to a patient record
type PatientUpdates struct {
	FullName    *string `json:"full_name,omitempty"`
	ParentName  *string `json:"parent_name,omitempty"`
	ParentPhone *string `json:"parent_phone,omitempty"`
	Condition   *string `json:"condition,omitempty"`
}
