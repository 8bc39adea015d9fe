package repository

import (
	"context"
	"database/sql"
	"time"

	"clinicAppointments/models"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// standalone or inside a transaction opened by the caller.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, login, passwordHash string, role models.Role) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int, error)
	UpdateLogin(ctx context.Context, id int64, login string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// DoctorRepositoryI defines operations on Doctor entities.
type DoctorRepositoryI interface {
	Create(ctx context.Context, userID int64, fio, specialization string) (*models.Doctor, error)
	GetByID(ctx context.Context, id int64) (*models.Doctor, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Doctor, error)
	List(ctx context.Context) ([]models.Doctor, error)
	ListBySpecialization(ctx context.Context, specialization string) ([]models.Doctor, error)
	Specializations(ctx context.Context) ([]string, error)
	Update(ctx context.Context, d *models.Doctor) error
	Delete(ctx context.Context, id int64) error
}

// PatientRepositoryI defines operations on Patient entities.
type PatientRepositoryI interface {
	Create(ctx context.Context, userID int64, fio, phone string) (*models.Patient, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Patient, error)
}

// AppointmentRepositoryI defines operations on Appointment entities.
type AppointmentRepositoryI interface {
	Create(ctx context.Context, a *models.Appointment) (*models.Appointment, error)
	GetForDoctor(ctx context.Context, id, doctorID int64) (*models.Appointment, error)
	IsSlotTaken(ctx context.Context, doctorID int64, at time.Time) (bool, error)
	UpdateRecord(ctx context.Context, a *models.Appointment) error
	ListViewsByDoctorID(ctx context.Context, doctorID int64) ([]models.AppointmentView, error)
	ListViewsByPatientID(ctx context.Context, patientID int64) ([]models.AppointmentView, error)
	DeleteByDoctorID(ctx context.Context, doctorID int64) (int64, error)
}

var (
	_ UserRepositoryI        = (*UserRepository)(nil)
	_ DoctorRepositoryI      = (*DoctorRepository)(nil)
	_ PatientRepositoryI     = (*PatientRepository)(nil)
	_ AppointmentRepositoryI = (*AppointmentRepository)(nil)
)
