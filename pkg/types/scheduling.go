package types

import "time"

// DateFormat is the calendar-date layout used across the system.
// All dates and times are local-naive by contract: no timezone
// conversion happens anywhere between storage and layout.
const DateFormat = "2006-01-02"

// ClockFormat is the 24h wall-clock layout for appointment times.
const ClockFormat = "15:04"

// DefaultDurationMinutes is applied when an appointment carries no
// usable duration.
const DefaultDurationMinutes = 30

// AppointmentStatus represents the lifecycle state of an appointment.
// The set is closed; presentation mappings are total over these four.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCanceled  AppointmentStatus = "canceled"
	StatusDone      AppointmentStatus = "done"
)

// Valid reports whether the status is one of the closed set.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCanceled, StatusDone:
		return true
	}
	return false
}

// Appointment represents a scheduled visit. Date and Time are kept as
// naive strings ("2006-01-02" / "HH:MM") because the calendar treats
// them as wall-clock values, never as instants.
type Appointment struct {
	ID              string            `json:"id" db:"id"`
	TenantID        string            `json:"tenant_id" db:"tenant_id"`
	PatientID       string            `json:"patient_id" db:"patient_id"`
	PatientName     string            `json:"patient_name" db:"patient_name"`
	DoctorID        string            `json:"doctor_id" db:"doctor_id"`
	DoctorName      string            `json:"doctor_name" db:"doctor_name"`
	Date            string            `json:"date" db:"date"`
	Time            string            `json:"time" db:"time"`
	DurationMinutes int               `json:"duration" db:"duration_minutes"`
	Status          AppointmentStatus `json:"status" db:"status"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}

// AppointmentFilters represents filters for appointment queries
type AppointmentFilters struct {
	DoctorID  string            `json:"doctor_id,omitempty"`
	PatientID string            `json:"patient_id,omitempty"`
	Status    AppointmentStatus `json:"status,omitempty"`
	FromDate  string            `json:"from_date,omitempty"`
	ToDate    string            `json:"to_date,omitempty"`
	Search    string            `json:"search,omitempty"`
	Limit     int               `json:"limit,omitempty"`
	Offset    int               `json:"offset,omitempty"`
}

// AppointmentUpdates represents updates to an appointment
type AppointmentUpdates struct {
	Date            *string            `json:"date,omitempty"`
	Time            *string            `json:"time,omitempty"`
	DurationMinutes *int               `json:"duration,omitempty"`
	Status          *AppointmentStatus `json:"status,omitempty"`
	DoctorID        *string            `json:"doctor_id,omitempty"`
	DoctorName      *string            `json:"doctor_name,omitempty"`
}
