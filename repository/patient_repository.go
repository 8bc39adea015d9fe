package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"clinicAppointments/models"
)

type PatientRepository struct {
	db DBTX
}

func NewPatientRepository(db DBTX) *PatientRepository {
	return &PatientRepository{db: db}
}

// Create inserts the patient profile of an existing user with role patient.
func (r *PatientRepository) Create(ctx context.Context, userID int64, fio, phone string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO patients (user_id, fio, phone) VALUES (?, ?, ?)`, userID, fio, phone)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Patient{ID: id, UserID: userID, FIO: fio, Phone: phone}, nil
}

func (r *PatientRepository) GetByUserID(ctx context.Context, userID int64) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanPatient(r.db.QueryRowContext(ctx, `SELECT id, user_id, fio, phone FROM patients WHERE user_id = ?`, userID))
}

func scanPatient(row *sql.Row) (*models.Patient, error) {
	var p models.Patient
	if err := row.Scan(&p.ID, &p.UserID, &p.FIO, &p.Phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
