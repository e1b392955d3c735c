package types

// DashboardStats summarizes the practice's activity for the home page
type DashboardStats struct {
	AppointmentsToday    int `json:"appointments_today"`
	AppointmentsUpcoming int `json:"appointments_upcoming"`
	PatientsTotal        int `json:"patients_total"`
	PatientsNew          int `json:"patients_new"`
}

// DoctorStats summarizes a single doctor's activity
type DoctorStats struct {
	DoctorID              string  `json:"doctor_id"`
	DoctorName            string  `json:"doctor_name"`
	TotalAppointments     int     `json:"total_appointments"`
	CompletedAppointments int     `json:"completed_appointments"`
	EstimatedIncome       float64 `json:"estimated_income"`
}
