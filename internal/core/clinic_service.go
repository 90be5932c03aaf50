package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"carepoint.io/care-assistant/internal/apperrors"
	"carepoint.io/care-assistant/internal/datasync"
	"carepoint.io/care-assistant/internal/store"
)

// Refresher is told which data types changed after a successful write.
type Refresher interface {
	Refresh(dts ...datasync.DataType)
}

// ClinicService manages patients, doctors and appointments and announces
// every change through the sync notifier.
type ClinicService struct {
	dbStore  *store.SQLiteStore
	notifier Refresher
	logger   zerolog.Logger
}

func NewClinicService(db *store.SQLiteStore, notifier Refresher, logger zerolog.Logger) *ClinicService {
	return &ClinicService{
		dbStore:  db,
		notifier: notifier,
		logger:   logger.With().Str("component", "clinic").Logger(),
	}
}

func (s *ClinicService) changed(dts ...datasync.DataType) {
	s.logger.Debug().Interface("types", dts).Msg("Clinic data changed")
	s.notifier.Refresh(dts...)
}

// Patients

func (s *ClinicService) ListPatients(ctx context.Context) ([]store.Patient, error) {
	return s.dbStore.ListPatients(ctx)
}

func (s *ClinicService) GetPatient(ctx context.Context, id string) (*store.Patient, error) {
	return s.dbStore.GetPatient(ctx, id)
}

func (s *ClinicService) CreatePatient(ctx context.Context, p *store.Patient) error {
	if err := s.dbStore.CreatePatient(ctx, p); err != nil {
		return err
	}
	s.changed(datasync.Patients)
	return nil
}

func (s *ClinicService) UpdatePatient(ctx context.Context, p *store.Patient) error {
	if err := s.dbStore.UpdatePatient(ctx, p); err != nil {
		return err
	}
	s.changed(datasync.Patients)
	return nil
}

// DeletePatient also removes the patient's appointments.
func (s *ClinicService) DeletePatient(ctx context.Context, id string) error {
	if err := s.dbStore.DeletePatient(ctx, id); err != nil {
		return err
	}
	s.changed(datasync.Patients, datasync.Appointments)
	return nil
}

// Doctors

func (s *ClinicService) ListDoctors(ctx context.Context, specialty string) ([]store.Doctor, error) {
	return s.dbStore.ListDoctors(ctx, specialty)
}

func (s *ClinicService) GetDoctor(ctx context.Context, id string) (*store.Doctor, error) {
	return s.dbStore.GetDoctor(ctx, id)
}

func (s *ClinicService) CreateDoctor(ctx context.Context, d *store.Doctor) error {
	if err := s.dbStore.CreateDoctor(ctx, d); err != nil {
		return err
	}
	s.changed(datasync.Doctors)
	return nil
}

func (s *ClinicService) UpdateDoctor(ctx context.Context, d *store.Doctor) error {
	if err := s.dbStore.UpdateDoctor(ctx, d); err != nil {
		return err
	}
	s.changed(datasync.Doctors)
	return nil
}

func (s *ClinicService) DeleteDoctor(ctx context.Context, id string) error {
	if err := s.dbStore.DeleteDoctor(ctx, id); err != nil {
		return err
	}
	s.changed(datasync.Doctors, datasync.Appointments)
	return nil
}

// Appointments

func (s *ClinicService) ListAppointments(ctx context.Context, f store.AppointmentFilter) ([]store.Appointment, error) {
	return s.dbStore.ListAppointments(ctx, f)
}

func (s *ClinicService) GetAppointment(ctx context.Context, id string) (*store.Appointment, error) {
	return s.dbStore.GetAppointment(ctx, id)
}

// BookAppointment checks that both parties exist and the doctor is taking
// appointments before inserting.
func (s *ClinicService) BookAppointment(ctx context.Context, a *store.Appointment) error {
	if _, err := s.dbStore.GetPatient(ctx, a.PatientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: patient %s does not exist", apperrors.ErrValidation, a.PatientID)
		}
		return err
	}
	doc, err := s.dbStore.GetDoctor(ctx, a.DoctorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: doctor %s does not exist", apperrors.ErrValidation, a.DoctorID)
		}
		return err
	}
	if !doc.Available {
		return fmt.Errorf("%w: doctor %s is not accepting appointments", apperrors.ErrConflict, doc.Name)
	}

	a.Status = store.AppointmentScheduled
	if err := s.dbStore.CreateAppointment(ctx, a); err != nil {
		return err
	}
	s.changed(datasync.Appointments)
	return nil
}

// BookAppointmentFor books on behalf of a patient account. The patient
// record must be linked to that account.
func (s *ClinicService) BookAppointmentFor(ctx context.Context, account string, a *store.Appointment) error {
	p, err := s.dbStore.GetPatient(ctx, a.PatientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: patient %s does not exist", apperrors.ErrValidation, a.PatientID)
		}
		return err
	}
	if account == "" || p.AccountID != account {
		s.logger.Warn().Str("account", account).Str("patient_id", a.PatientID).Msg("Booking refused for unlinked patient record")
		return fmt.Errorf("%w: patients may only book for their own record", apperrors.ErrPermission)
	}
	return s.BookAppointment(ctx, a)
}

// SetAppointmentStatus moves a scheduled appointment to completed or
// cancelled. Finished appointments cannot change again.
func (s *ClinicService) SetAppointmentStatus(ctx context.Context, id, status string) (*store.Appointment, error) {
	if status != store.AppointmentCompleted && status != store.AppointmentCancelled && status != store.AppointmentScheduled {
		return nil, fmt.Errorf("%w: unknown appointment status %q", apperrors.ErrValidation, status)
	}
	current, err := s.dbStore.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != store.AppointmentScheduled && current.Status != status {
		return nil, fmt.Errorf("%w: appointment is already %s", apperrors.ErrConflict, current.Status)
	}
	if current.Status == status {
		return current, nil
	}

	if err := s.dbStore.UpdateAppointmentStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.changed(datasync.Appointments)
	return s.dbStore.GetAppointment(ctx, id)
}

func (s *ClinicService) DeleteAppointment(ctx context.Context, id string) error {
	if err := s.dbStore.DeleteAppointment(ctx, id); err != nil {
		return err
	}
	s.changed(datasync.Appointments)
	return nil
}
