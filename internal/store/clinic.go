package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// Patients

func (s *SQLiteStore) CreatePatient(ctx context.Context, p *Patient) error {
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO patients (id, name, email, phone, date_of_birth, gender, account_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.Name, p.Email, p.Phone, p.DateOfBirth, p.Gender, nullIfEmpty(p.AccountID), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account %s already has a patient record", ErrDuplicate, p.AccountID)
		}
		return fmt.Errorf("failed to insert patient: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetPatient(ctx context.Context, id string) (*Patient, error) {
	var p Patient
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(date_of_birth, ''), COALESCE(gender, ''), COALESCE(account_id, ''), created_at, updated_at FROM patients WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.DateOfBirth, &p.Gender, &p.AccountID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStore) ListPatients(ctx context.Context) ([]Patient, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(date_of_birth, ''), COALESCE(gender, ''), COALESCE(account_id, ''), created_at, updated_at FROM patients ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	patients := []Patient{}
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.DateOfBirth, &p.Gender, &p.AccountID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan patient row: %w", err)
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (s *SQLiteStore) UpdatePatient(ctx context.Context, p *Patient) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"UPDATE patients SET name = ?, email = ?, phone = ?, date_of_birth = ?, gender = ?, account_id = ?, updated_at = ? WHERE id = ?",
		p.Name, p.Email, p.Phone, p.DateOfBirth, p.Gender, nullIfEmpty(p.AccountID), p.UpdatedAt, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account %s already has a patient record", ErrDuplicate, p.AccountID)
		}
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return expectAffected(res)
}

func (s *SQLiteStore) DeletePatient(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM patients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return expectAffected(res)
}

// Doctors

func (s *SQLiteStore) CreateDoctor(ctx context.Context, d *Doctor) error {
	now := time.Now().UTC()
	d.ID = uuid.NewString()
	d.CreatedAt, d.UpdatedAt = now, now
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO doctors (id, name, specialty, email, phone, available, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		d.ID, d.Name, d.Specialty, d.Email, d.Phone, d.Available, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert doctor: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	var d Doctor
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, specialty, COALESCE(email, ''), COALESCE(phone, ''), available, created_at, updated_at FROM doctors WHERE id = ?", id).
		Scan(&d.ID, &d.Name, &d.Specialty, &d.Email, &d.Phone, &d.Available, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &d, nil
}

// ListDoctors returns all doctors, or only those in specialty when non-empty.
func (s *SQLiteStore) ListDoctors(ctx context.Context, specialty string) ([]Doctor, error) {
	query := "SELECT id, name, specialty, COALESCE(email, ''), COALESCE(phone, ''), available, created_at, updated_at FROM doctors"
	var args []any
	if specialty != "" {
		query += " WHERE LOWER(specialty) = LOWER(?)"
		args = append(args, specialty)
	}
	query += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query doctors: %w", err)
	}
	defer rows.Close()

	doctors := []Doctor{}
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty, &d.Email, &d.Phone, &d.Available, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan doctor row: %w", err)
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

func (s *SQLiteStore) UpdateDoctor(ctx context.Context, d *Doctor) error {
	d.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"UPDATE doctors SET name = ?, specialty = ?, email = ?, phone = ?, available = ?, updated_at = ? WHERE id = ?",
		d.Name, d.Specialty, d.Email, d.Phone, d.Available, d.UpdatedAt, d.ID)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	return expectAffected(res)
}

func (s *SQLiteStore) DeleteDoctor(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM doctors WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return expectAffected(res)
}

// Appointments

func (s *SQLiteStore) CreateAppointment(ctx context.Context, a *Appointment) error {
	now := time.Now().UTC()
	a.ID = uuid.NewString()
	a.CreatedAt, a.UpdatedAt = now, now
	if a.Status == "" {
		a.Status = AppointmentScheduled
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO appointments (id, patient_id, doctor_id, scheduled_at, reason, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.PatientID, a.DoctorID, a.ScheduledAt.UTC(), a.Reason, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

const appointmentColumns = "id, patient_id, doctor_id, scheduled_at, COALESCE(reason, ''), status, created_at, updated_at"

func (s *SQLiteStore) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	var a Appointment
	err := s.db.QueryRowContext(ctx, "SELECT "+appointmentColumns+" FROM appointments WHERE id = ?", id).
		Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.ScheduledAt, &a.Reason, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &a, nil
}

// AppointmentFilter narrows ListAppointments; zero fields match everything.
type AppointmentFilter struct {
	PatientID string
	DoctorID  string
	Status    string
}

func (s *SQLiteStore) ListAppointments(ctx context.Context, f AppointmentFilter) ([]Appointment, error) {
	query := "SELECT " + appointmentColumns + " FROM appointments WHERE 1 = 1"
	var args []any
	if f.PatientID != "" {
		query += " AND patient_id = ?"
		args = append(args, f.PatientID)
	}
	if f.DoctorID != "" {
		query += " AND doctor_id = ?"
		args = append(args, f.DoctorID)
	}
	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, f.Status)
	}
	query += " ORDER BY scheduled_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	appointments := []Appointment{}
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.ScheduledAt, &a.Reason, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment row: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func (s *SQLiteStore) UpdateAppointmentStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE appointments SET status = ?, updated_at = ? WHERE id = ?", status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return expectAffected(res)
}

func (s *SQLiteStore) DeleteAppointment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM appointments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// nullIfEmpty stores optional unique columns as NULL so unlinked rows do not
// collide.
func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}
