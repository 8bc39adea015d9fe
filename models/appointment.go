package models

import "time"

// AppointmentStatus represents the progress of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// Appointment is a booked visit of a patient to a doctor.
// The (DoctorID, ScheduledAt) pair is unique.
type Appointment struct {
	ID          int64             `db:"id" json:"id"`
	DoctorID    int64             `db:"doctor_id" json:"doctor_id"`
	PatientID   int64             `db:"patient_id" json:"patient_id"`
	ScheduledAt time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Complaint   string            `db:"complaint" json:"complaint"`
	Condition   string            `db:"condition" json:"condition"`
	Conclusion  string            `db:"conclusion" json:"conclusion"`
	Status      AppointmentStatus `db:"status" json:"status"`
}

// AppointmentView is an appointment enriched with the doctor and patient names.
type AppointmentView struct {
	ID          int64             `json:"id"`
	DoctorID    int64             `json:"doctor_id"`
	DoctorFIO   string            `json:"doctor_fio"`
	PatientFIO  string            `json:"patient_fio"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Status      AppointmentStatus `json:"status"`
	Complaint   string            `json:"complaint"`
	Condition   string            `json:"condition"`
	Conclusion  string            `json:"conclusion"`
}
