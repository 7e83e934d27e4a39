package scheduling

import "time"

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no-show"
)

type Appointment struct {
	ID        int64     `json:"id"`
	PatientID int64     `json:"patient_id"`
	DoctorID  *int64    `json:"doctor_id"`
	ServiceID int64     `json:"service_id"`
	Date      string    `json:"appointment_date"` // YYYY-MM-DD
	Time      string    `json:"appointment_time"` // HH:MM
	Notes     string    `json:"notes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// AppointmentDetail is an appointment joined with the names shown in listings.
type AppointmentDetail struct {
	Appointment
	ServiceName  string  `json:"service_name"`
	DoctorName   *string `json:"doctor_name"`
	PatientName  string  `json:"patient_name,omitempty"`
	PatientEmail string  `json:"-"`
	PatientPhone string  `json:"-"`
}

type BookingRequest struct {
	ServiceID int64 `json:"service_id" validate:"required,gt=0"`
	// ServiceName picks the doctor specialization and labels the email. It
	// is not checked against ServiceID.
	ServiceName string `json:"service_name" validate:"max=255"`
	Date        string `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"appointment_time" validate:"required,datetime=15:04"`
	Notes       string `json:"notes" validate:"max=2000"`
}

type BookingResult struct {
	AppointmentID      int64  `json:"appointment_id"`
	DoctorAssigned     bool   `json:"doctor_assigned"`
	DoctorID           *int64 `json:"doctor_id"`
	NotificationQueued bool   `json:"notification_queued"`
}

type StatusUpdate struct {
	Status string `json:"status" validate:"required"`
}

// PatientContact is the slice of a patient record the workflow needs.
type PatientContact struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

type DoctorRef struct {
	ID             int64
	Name           string
	Specialization string
}

type ReminderReport struct {
	Date   string `json:"date"`
	Sent   int    `json:"sent"`
	Failed int    `json:"failed"`
}
