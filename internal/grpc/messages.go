package grpcserver

import (
	"clinicAppointments/internal/service"
	"clinicAppointments/models"
)

// Empty is used where a method takes or returns nothing.
type Empty struct{}

type RegisterPatientRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	FIO      string `json:"fio"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// AuthResponse carries a session token and the identity it was issued for.
type AuthResponse struct {
	Token  string      `json:"token"`
	UserID int64       `json:"user_id"`
	Login  string      `json:"login"`
	Role   models.Role `json:"role"`
}

type ListDoctorsRequest struct {
	Specialization string `json:"specialization,omitempty"`
}

type ListDoctorsResponse struct {
	Doctors []models.DoctorView `json:"doctors"`
}

type ListSpecializationsResponse struct {
	Specializations []string `json:"specializations"`
}

type CreateDoctorRequest struct {
	Login          string `json:"login"`
	Password       string `json:"password"`
	FIO            string `json:"fio"`
	Specialization string `json:"specialization"`
}

type DoctorResponse struct {
	Doctor models.DoctorView `json:"doctor"`
}

type UpdateDoctorRequest struct {
	ID             int64  `json:"id"`
	FIO            string `json:"fio"`
	Specialization string `json:"specialization"`
	Login          string `json:"login,omitempty"`
	Password       string `json:"password,omitempty"`
}

type DeleteDoctorRequest struct {
	ID int64 `json:"id"`
}

// BookAppointmentRequest names the slot as "YYYY-MM-DD HH:MM".
type BookAppointmentRequest struct {
	DoctorID    int64  `json:"doctor_id"`
	ScheduledAt string `json:"scheduled_at"`
}

type ListDoctorAppointmentsRequest struct {
	DoctorID int64 `json:"doctor_id"`
}

type UpdateAppointmentRequest struct {
	AppointmentID int64  `json:"appointment_id"`
	Complaint     string `json:"complaint"`
	Condition     string `json:"condition"`
	Conclusion    string `json:"conclusion"`
	Status        string `json:"status"`
}

// Appointment is the wire form of an appointment; times use the
// user-facing layout.
type Appointment struct {
	ID          int64  `json:"id"`
	DoctorID    int64  `json:"doctor_id"`
	DoctorFIO   string `json:"doctor_fio,omitempty"`
	PatientFIO  string `json:"patient_fio,omitempty"`
	ScheduledAt string `json:"scheduled_at"`
	Status      string `json:"status"`
	Complaint   string `json:"complaint"`
	Condition   string `json:"condition"`
	Conclusion  string `json:"conclusion"`
}

type AppointmentResponse struct {
	Appointment Appointment `json:"appointment"`
}

type ListAppointmentsResponse struct {
	Appointments []Appointment `json:"appointments"`
}

func toWireAppointment(a *models.Appointment) Appointment {
	return Appointment{
		ID:          a.ID,
		DoctorID:    a.DoctorID,
		ScheduledAt: service.FormatDateTime(a.ScheduledAt),
		Status:      string(a.Status),
		Complaint:   a.Complaint,
		Condition:   a.Condition,
		Conclusion:  a.Conclusion,
	}
}

func toWireViews(views []models.AppointmentView) []Appointment {
	out := make([]Appointment, 0, len(views))
	for _, v := range views {
		out = append(out, Appointment{
			ID:          v.ID,
			DoctorID:    v.DoctorID,
			DoctorFIO:   v.DoctorFIO,
			PatientFIO:  v.PatientFIO,
			ScheduledAt: service.FormatDateTime(v.ScheduledAt),
			Status:      string(v.Status),
			Complaint:   v.Complaint,
			Condition:   v.Condition,
			Conclusion:  v.Conclusion,
		})
	}
	return out
}
