package repository

import (
	"context"
	"database/sql"
	"time"

	"clinicAppointments/models"
)

// viewQuery joins appointments with both profiles so each row carries the
// doctor and patient names.
const viewQuery = `
SELECT a.id, a.doctor_id, d.fio, p.fio, a.scheduled_at, a.status, a.complaint, a.condition, a.conclusion
FROM appointments a
JOIN doctors d ON d.id = a.doctor_id
JOIN patients p ON p.id = a.patient_id`

// ListViewsByDoctorID returns the doctor's appointments ordered by time, then id.
func (r *AppointmentRepository) ListViewsByDoctorID(ctx context.Context, doctorID int64) ([]models.AppointmentView, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, viewQuery+`
WHERE a.doctor_id = ?
ORDER BY a.scheduled_at ASC, a.id ASC`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanViewRows(rows)
}

// ListViewsByPatientID returns the patient's appointments ordered by time, then id.
func (r *AppointmentRepository) ListViewsByPatientID(ctx context.Context, patientID int64) ([]models.AppointmentView, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, viewQuery+`
WHERE a.patient_id = ?
ORDER BY a.scheduled_at ASC, a.id ASC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanViewRows(rows)
}

// scanViewRows is a helper to scan joined rows into AppointmentView objects.
func scanViewRows(rows *sql.Rows) ([]models.AppointmentView, error) {
	out := []models.AppointmentView{}
	for rows.Next() {
		var v models.AppointmentView
		var at, status string
		if err := rows.Scan(&v.ID, &v.DoctorID, &v.DoctorFIO, &v.PatientFIO, &at, &status, &v.Complaint, &v.Condition, &v.Conclusion); err != nil {
			return nil, err
		}
		t, err := decodeTime(at)
		if err != nil {
			return nil, err
		}
		v.ScheduledAt = t
		v.Status = models.AppointmentStatus(status)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
