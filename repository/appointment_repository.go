package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clinicAppointments/models"
)

// storedTimeLayout is how scheduled_at is kept in SQLite. Times are stored
// in UTC so equal instants always compare equal as text.
const storedTimeLayout = "2006-01-02 15:04:05"

func encodeTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(storedTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse scheduled_at %q: %w", s, err)
	}
	return t, nil
}

// AppointmentRepository is the core repository for Appointment entities.
type AppointmentRepository struct {
	db DBTX
}

// NewAppointmentRepository creates a new AppointmentRepository.
func NewAppointmentRepository(db DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

const appointmentColumns = `id, doctor_id, patient_id, scheduled_at, complaint, condition, conclusion, status`

// Create inserts a new appointment. Status defaults to 'scheduled' if empty.
// A taken (doctor, time) slot surfaces as a unique violation.
func (r *AppointmentRepository) Create(ctx context.Context, a *models.Appointment) (*models.Appointment, error) {
	if a == nil {
		return nil, errors.New("appointment is nil")
	}
	if a.Status == "" {
		a.Status = models.AppointmentScheduled
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO appointments (doctor_id, patient_id, scheduled_at, complaint, condition, conclusion, status) VALUES (?,?,?,?,?,?,?)`,
		a.DoctorID, a.PatientID, encodeTime(a.ScheduledAt), a.Complaint, a.Condition, a.Conclusion, string(a.Status))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *a
	out.ID = id
	out.ScheduledAt = a.ScheduledAt.UTC().Truncate(time.Second)
	return &out, nil
}

// GetForDoctor fetches an appointment only if it belongs to the given doctor.
func (r *AppointmentRepository) GetForDoctor(ctx context.Context, id, doctorID int64) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanAppointment(r.db.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = ? AND doctor_id = ?`, id, doctorID))
}

// IsSlotTaken reports whether any appointment of the doctor starts at exactly at.
func (r *AppointmentRepository) IsSlotTaken(ctx context.Context, doctorID int64, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM appointments WHERE doctor_id = ? AND scheduled_at = ? LIMIT 1`, doctorID, encodeTime(at)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateRecord overwrites the complaint, condition, conclusion and status of an appointment.
func (r *AppointmentRepository) UpdateRecord(ctx context.Context, a *models.Appointment) error {
	if a == nil {
		return errors.New("appointment is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return execOne(ctx, r.db, `UPDATE appointments SET complaint = ?, condition = ?, conclusion = ?, status = ? WHERE id = ?`,
		a.Complaint, a.Condition, a.Conclusion, string(a.Status), a.ID)
}

// DeleteByDoctorID removes every appointment of a doctor and returns how many were removed.
func (r *AppointmentRepository) DeleteByDoctorID(ctx context.Context, doctorID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE doctor_id = ?`, doctorID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanAppointment(row *sql.Row) (*models.Appointment, error) {
	var a models.Appointment
	var at, status string
	if err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &at, &a.Complaint, &a.Condition, &a.Conclusion, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t, err := decodeTime(at)
	if err != nil {
		return nil, err
	}
	a.ScheduledAt = t
	a.Status = models.AppointmentStatus(status)
	return &a, nil
}
