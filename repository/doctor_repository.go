package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"clinicAppointments/models"
)

// DoctorRepository handles the doctors table (the doctor directory).
type DoctorRepository struct {
	db DBTX
}

// NewDoctorRepository creates a new DoctorRepository.
func NewDoctorRepository(db DBTX) *DoctorRepository {
	return &DoctorRepository{db: db}
}

const doctorColumns = `id, user_id, fio, specialization`

// Create inserts the doctor profile of an existing user with role doctor.
func (r *DoctorRepository) Create(ctx context.Context, userID int64, fio, specialization string) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO doctors (user_id, fio, specialization) VALUES (?, ?, ?)`, userID, fio, specialization)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Doctor{ID: id, UserID: userID, FIO: fio, Specialization: specialization}, nil
}

// GetByID fetches a doctor by its ID.
func (r *DoctorRepository) GetByID(ctx context.Context, id int64) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanDoctor(r.db.QueryRowContext(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id = ?`, id))
}

// GetByUserID fetches the doctor profile owned by a user.
func (r *DoctorRepository) GetByUserID(ctx context.Context, userID int64) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanDoctor(r.db.QueryRowContext(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE user_id = ?`, userID))
}

// List returns all doctors ordered by full name, then id.
func (r *DoctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+doctorColumns+` FROM doctors ORDER BY fio ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDoctorRows(rows)
}

// ListBySpecialization returns doctors with exactly the given specialization.
func (r *DoctorRepository) ListBySpecialization(ctx context.Context, specialization string) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE specialization = ? ORDER BY fio ASC, id ASC`, specialization)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDoctorRows(rows)
}

// Specializations returns the distinct specializations in ascending order.
func (r *DoctorRepository) Specializations(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT specialization FROM doctors ORDER BY specialization ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update overwrites the full name and specialization of a doctor.
func (r *DoctorRepository) Update(ctx context.Context, d *models.Doctor) error {
	if d == nil {
		return errors.New("doctor is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return execOne(ctx, r.db, `UPDATE doctors SET fio = ?, specialization = ? WHERE id = ?`, d.FIO, d.Specialization, d.ID)
}

// Delete removes a doctor by ID. The linked user is left to the caller.
func (r *DoctorRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = ?`, id)
	return err
}

func scanDoctor(row *sql.Row) (*models.Doctor, error) {
	var d models.Doctor
	if err := row.Scan(&d.ID, &d.UserID, &d.FIO, &d.Specialization); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func scanDoctorRows(rows *sql.Rows) ([]models.Doctor, error) {
	out := []models.Doctor{}
	for rows.Next() {
		var d models.Doctor
		if err := rows.Scan(&d.ID, &d.UserID, &d.FIO, &d.Specialization); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
