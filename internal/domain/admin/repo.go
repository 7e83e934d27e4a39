package admin

import "context"

// Repository is the read-only reporting view over the booking tables.
type Repository interface {
	ListAppointments(ctx context.Context, limit, offset int) ([]*AppointmentRow, int, error)
	ListPatients(ctx context.Context, limit, offset int) ([]*PatientSummary, int, error)
	ListDoctors(ctx context.Context, limit, offset int) ([]*DoctorSummary, int, error)
	// Statistics counts appointments on today (YYYY-MM-DD) alongside the totals.
	Statistics(ctx context.Context, today string) (*Statistics, error)
}
