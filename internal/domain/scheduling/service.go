package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medbook/medbook/internal/platform/auth"
	"github.com/medbook/medbook/internal/platform/notification"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrForbidden           = errors.New("access denied, doctors only")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidTransition   = errors.New("status change not allowed")
	ErrUnknownService      = errors.New("unknown service")
)

// Notifier accepts outbound notifications without waiting for delivery.
type Notifier interface {
	Enqueue(ctx context.Context, t notification.Task) error
}

// ReminderSender delivers one notification synchronously.
type ReminderSender interface {
	Send(ctx context.Context, kind notification.Kind, recipient string, data notification.AppointmentData) notification.Result
}

type Service struct {
	directory    Directory
	appointments AppointmentRepository
	notifier     Notifier
}

func NewService(dir Directory, appts AppointmentRepository, notifier Notifier) *Service {
	return &Service{directory: dir, appointments: appts, notifier: notifier}
}

// -- Booking --

// Book stores a scheduled appointment for the patient, assigns the first
// doctor matching the service's specialization if there is one, and queues
// the confirmation email.
func (s *Service) Book(ctx context.Context, patientID int64, req BookingRequest) (*BookingResult, error) {
	patient, err := s.directory.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	doctor, err := s.directory.FindDoctorBySpecialization(ctx, SpecializationFor(req.ServiceName))
	if err != nil {
		return nil, err
	}

	a := &Appointment{
		PatientID: patient.ID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
		Status:    StatusScheduled,
	}
	if doctor != nil {
		a.DoctorID = &doctor.ID
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}

	data := notification.AppointmentData{
		AppointmentID: a.ID,
		PatientName:   patient.Name,
		ServiceName:   req.ServiceName,
		Date:          a.Date,
		Time:          a.Time,
		Notes:         a.Notes,
	}
	if doctor != nil {
		data.DoctorName = doctor.Name
	}
	queued := s.notify(ctx, notification.KindConfirmation, patient.Email, patient.Phone, data)

	return &BookingResult{
		AppointmentID:      a.ID,
		DoctorAssigned:     doctor != nil,
		DoctorID:           a.DoctorID,
		NotificationQueued: queued,
	}, nil
}

// notify never fails the caller; the dispatcher logs dropped tasks.
func (s *Service) notify(ctx context.Context, kind notification.Kind, email, phone string, data notification.AppointmentData) bool {
	err := s.notifier.Enqueue(ctx, notification.Task{
		Kind:      kind,
		Recipient: email,
		Phone:     phone,
		Data:      data,
	})
	return err == nil
}

func detailData(d *AppointmentDetail) notification.AppointmentData {
	data := notification.AppointmentData{
		AppointmentID: d.ID,
		PatientName:   d.PatientName,
		ServiceName:   d.ServiceName,
		Date:          d.Date,
		Time:          d.Time,
		Notes:         d.Notes,
	}
	if d.DoctorName != nil {
		data.DoctorName = *d.DoctorName
	}
	return data
}

// -- Listing --

func (s *Service) ListForPatient(ctx context.Context, patientID int64) ([]*AppointmentDetail, error) {
	return s.appointments.ListByPatient(ctx, patientID)
}

// ListForDoctor returns the scheduled appointments the doctor owns plus the
// unassigned ones any doctor may pick up.
func (s *Service) ListForDoctor(ctx context.Context, caller auth.Identity) ([]*AppointmentDetail, error) {
	if caller.Role != auth.RoleDoctor {
		return nil, ErrForbidden
	}
	return s.appointments.ListOpenForDoctor(ctx, caller.ID)
}

// -- Status changes --

// Cancel marks the patient's appointment cancelled and queues the
// cancellation email. Cancelling twice is allowed and emails twice.
func (s *Service) Cancel(ctx context.Context, id, patientID int64) error {
	d, err := s.appointments.GetForPatient(ctx, id, patientID)
	if err != nil {
		return err
	}
	if !canPatientCancel(d.Status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, StatusCancelled)
	}

	ok, err := s.appointments.CancelByPatient(ctx, id, patientID)
	if err != nil {
		return err
	}
	if !ok {
		// status moved on between the read and the update
		return ErrInvalidTransition
	}

	s.notify(ctx, notification.KindCancellation, d.PatientEmail, d.PatientPhone, detailData(d))
	return nil
}

// UpdateStatus applies a doctor's status change. An unassigned appointment
// becomes the caller's.
func (s *Service) UpdateStatus(ctx context.Context, caller auth.Identity, id int64, status string) error {
	if caller.Role != auth.RoleDoctor {
		return ErrForbidden
	}
	if !ValidStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	d, err := s.appointments.GetForDoctor(ctx, id, caller.ID)
	if err != nil {
		return err
	}
	if !CanTransition(d.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, status)
	}

	ok, err := s.appointments.UpdateStatusByDoctor(ctx, id, caller.ID, d.Status, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}
	return nil
}

// Claim assigns an unassigned scheduled appointment to the caller without
// changing its status. Claiming one's own appointment is a no-op.
func (s *Service) Claim(ctx context.Context, caller auth.Identity, id int64) error {
	if caller.Role != auth.RoleDoctor {
		return ErrForbidden
	}

	d, err := s.appointments.GetForDoctor(ctx, id, caller.ID)
	if err != nil {
		return err
	}
	if d.DoctorID != nil && *d.DoctorID == caller.ID {
		return nil
	}
	if d.Status != StatusScheduled {
		return fmt.Errorf("%w: appointment is %s", ErrInvalidTransition, d.Status)
	}

	ok, err := s.appointments.Claim(ctx, id, caller.ID)
	if err != nil {
		return err
	}
	if !ok {
		// another doctor got there first
		return ErrAppointmentNotFound
	}
	return nil
}

// -- Reminders --

// SendReminders emails every patient with a scheduled appointment on date.
// Delivery failures are counted, not returned.
func (s *Service) SendReminders(ctx context.Context, date string, sender ReminderSender) (*ReminderReport, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid reminder date %q: %w", date, err)
	}

	appts, err := s.appointments.ListScheduledOn(ctx, date)
	if err != nil {
		return nil, err
	}

	report := &ReminderReport{Date: date}
	for _, d := range appts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := sender.Send(ctx, notification.KindReminder, d.PatientEmail, detailData(d))
		if res.Success {
			report.Sent++
		} else {
			report.Failed++
		}
	}
	return report, nil
}
