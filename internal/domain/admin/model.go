package admin

import "time"

// AppointmentRow is one appointment as shown on the admin dashboard. The
// joined names are nullable because the joins are outer joins.
type AppointmentRow struct {
	ID          int64     `json:"id"`
	PatientID   int64     `json:"patient_id"`
	DoctorID    *int64    `json:"doctor_id"`
	ServiceID   int64     `json:"service_id"`
	Date        string    `json:"appointment_date"`
	Time        string    `json:"appointment_time"`
	Notes       string    `json:"notes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	PatientName *string   `json:"patient_name"`
	DoctorName  *string   `json:"doctor_name"`
	ServiceName *string   `json:"service_name"`
}

type PatientSummary struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	CreatedAt        time.Time `json:"created_at"`
	AppointmentCount int       `json:"appointment_count"`
}

type DoctorSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Specialization   string `json:"specialization"`
	AppointmentCount int    `json:"appointment_count"`
}

// Statistics keeps the camelCase keys the dashboard reads.
type Statistics struct {
	TotalAppointments int `json:"totalAppointments"`
	TodayAppointments int `json:"todayAppointments"`
	TotalPatients     int `json:"totalPatients"`
	TotalDoctors      int `json:"totalDoctors"`
}
