package scheduling

import "context"

// Directory resolves the people an appointment refers to.
type Directory interface {
	// GetPatient returns ErrPatientNotFound for an unknown id.
	GetPatient(ctx context.Context, id int64) (*PatientContact, error)
	// FindDoctorBySpecialization returns the lowest-id doctor whose
	// specialization contains spec (case-insensitive), or nil when none does.
	FindDoctorBySpecialization(ctx context.Context, spec string) (*DoctorRef, error)
}

type AppointmentRepository interface {
	// Create returns ErrUnknownService when ServiceID does not exist.
	Create(ctx context.Context, a *Appointment) error
	ListByPatient(ctx context.Context, patientID int64) ([]*AppointmentDetail, error)
	// ListOpenForDoctor returns scheduled appointments owned by the doctor or unassigned.
	ListOpenForDoctor(ctx context.Context, doctorID int64) ([]*AppointmentDetail, error)
	ListScheduledOn(ctx context.Context, date string) ([]*AppointmentDetail, error)

	// GetForPatient and GetForDoctor return ErrAppointmentNotFound when the
	// appointment does not exist or is not visible to the caller.
	GetForPatient(ctx context.Context, id, patientID int64) (*AppointmentDetail, error)
	GetForDoctor(ctx context.Context, id, doctorID int64) (*AppointmentDetail, error)

	// The mutators below are conditional updates; false means no row matched.
	CancelByPatient(ctx context.Context, id, patientID int64) (bool, error)
	// UpdateStatusByDoctor moves from -> to and assigns the doctor when the
	// appointment was unassigned.
	UpdateStatusByDoctor(ctx context.Context, id, doctorID int64, from, to string) (bool, error)
	Claim(ctx context.Context, id, doctorID int64) (bool, error)
}
