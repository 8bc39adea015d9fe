package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"clinicAppointments/internal/db"
	"clinicAppointments/models"
	"clinicAppointments/repository"
)

// UpdateAppointmentInput is a doctor's edit of an appointment record.
type UpdateAppointmentInput struct {
	DoctorUserID  int64
	AppointmentID int64
	Complaint     string
	Condition     string
	Conclusion    string
	Status        models.AppointmentStatus
}

// CreateAppointment books the doctor's slot at for the patient owned by
// patientUserID. The slot must be free; the UNIQUE constraint on
// (doctor_id, scheduled_at) settles concurrent bookings.
func (s *Service) CreateAppointment(ctx context.Context, patientUserID, doctorID int64, at time.Time) (*models.Appointment, error) {
	if at.IsZero() {
		return nil, ErrDateFormat
	}
	var created *models.Appointment
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		patient, err := repository.NewPatientRepository(tx).GetByUserID(ctx, patientUserID)
		if err != nil {
			return fmt.Errorf("get patient: %w", err)
		}
		if patient == nil {
			return ErrPatientNotFound
		}
		doctor, err := repository.NewDoctorRepository(tx).GetByID(ctx, doctorID)
		if err != nil {
			return fmt.Errorf("get doctor: %w", err)
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		appts := repository.NewAppointmentRepository(tx)
		taken, err := appts.IsSlotTaken(ctx, doctor.ID, at)
		if err != nil {
			return fmt.Errorf("check slot: %w", err)
		}
		if taken {
			return ErrSlotTaken
		}
		created, err = appts.Create(ctx, &models.Appointment{
			DoctorID:    doctor.ID,
			PatientID:   patient.ID,
			ScheduledAt: at,
			Status:      models.AppointmentScheduled,
		})
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"appointment_id": created.ID,
		"doctor_id":      created.DoctorID,
		"patient_id":     created.PatientID,
		"at":             FormatDateTime(created.ScheduledAt),
	}).Info("appointment booked")
	return created, nil
}

// GetPatientAppointments lists the appointments of the patient owned by patientUserID.
func (s *Service) GetPatientAppointments(ctx context.Context, patientUserID int64) ([]models.AppointmentView, error) {
	patient, err := repository.NewPatientRepository(s.db).GetByUserID(ctx, patientUserID)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	views, err := repository.NewAppointmentRepository(s.db).ListViewsByPatientID(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return views, nil
}

// GetDoctorAppointments lists the appointments of the doctor owned by doctorUserID.
func (s *Service) GetDoctorAppointments(ctx context.Context, doctorUserID int64) ([]models.AppointmentView, error) {
	doctor, err := repository.NewDoctorRepository(s.db).GetByUserID(ctx, doctorUserID)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return s.listByDoctor(ctx, doctor.ID)
}

// GetAppointmentsByDoctorID lists the appointments of a doctor by profile id.
func (s *Service) GetAppointmentsByDoctorID(ctx context.Context, doctorID int64) ([]models.AppointmentView, error) {
	doctor, err := repository.NewDoctorRepository(s.db).GetByID(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return s.listByDoctor(ctx, doctor.ID)
}

func (s *Service) listByDoctor(ctx context.Context, doctorID int64) ([]models.AppointmentView, error) {
	views, err := repository.NewAppointmentRepository(s.db).ListViewsByDoctorID(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return views, nil
}

// UpdateAppointmentByDoctor overwrites the record fields and status of one
// of the doctor's appointments. Any status may follow any other.
func (s *Service) UpdateAppointmentByDoctor(ctx context.Context, in UpdateAppointmentInput) error {
	if !in.Status.Valid() {
		return ErrInvalidStatus
	}
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		doctor, err := repository.NewDoctorRepository(tx).GetByUserID(ctx, in.DoctorUserID)
		if err != nil {
			return fmt.Errorf("get doctor: %w", err)
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}
		appts := repository.NewAppointmentRepository(tx)
		a, err := appts.GetForDoctor(ctx, in.AppointmentID, doctor.ID)
		if err != nil {
			return fmt.Errorf("get appointment: %w", err)
		}
		if a == nil {
			return ErrAppointmentNotFound
		}
		a.Complaint = strings.TrimSpace(in.Complaint)
		a.Condition = strings.TrimSpace(in.Condition)
		a.Conclusion = strings.TrimSpace(in.Conclusion)
		a.Status = in.Status
		if err := appts.UpdateRecord(ctx, a); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"appointment_id": in.AppointmentID, "status": in.Status}).Info("appointment updated")
	return nil
}
