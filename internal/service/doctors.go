package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"clinicAppointments/internal/db"
	"clinicAppointments/internal/password"
	"clinicAppointments/models"
	"clinicAppointments/repository"
)

// CreateDoctorInput carries an administrator's new doctor.
type CreateDoctorInput struct {
	Login          string `validate:"required"`
	Password       string `validate:"required"`
	FIO            string `validate:"required"`
	Specialization string `validate:"required"`
}

// UpdateDoctorInput edits a doctor. Blank Login or Password leave the
// linked account unchanged.
type UpdateDoctorInput struct {
	ID             int64
	FIO            string `validate:"required"`
	Specialization string `validate:"required"`
	Login          string
	Password       string
}

// GetDoctors returns the directory ordered by full name.
func (s *Service) GetDoctors(ctx context.Context) ([]models.DoctorView, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.WithError(err).Warn("doctor cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	gen := s.directoryGen.Load()
	list, err := repository.NewDoctorRepository(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	views := toViews(list)
	if s.cache != nil {
		s.fillDirectory(ctx, gen, views)
	}
	return views, nil
}

// fillDirectory caches views read at generation gen. A mutation committed
// after the read either stops the write or, if it slipped in during Set,
// invalidates the entry again.
func (s *Service) fillDirectory(ctx context.Context, gen uint64, views []models.DoctorView) {
	if s.directoryGen.Load() != gen {
		return
	}
	if err := s.cache.Set(ctx, views); err != nil {
		s.log.WithError(err).Warn("doctor cache write failed")
		return
	}
	if s.directoryGen.Load() != gen {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.WithError(err).Warn("doctor cache invalidation failed")
		}
	}
}

// DoctorsBySpecialization filters the directory. A blank specialization
// returns every doctor. Without a cache the filter runs in SQL.
func (s *Service) DoctorsBySpecialization(ctx context.Context, specialization string) ([]models.DoctorView, error) {
	specialization = strings.TrimSpace(specialization)
	if specialization == "" {
		return s.GetDoctors(ctx)
	}
	if s.cache == nil {
		list, err := repository.NewDoctorRepository(s.db).ListBySpecialization(ctx, specialization)
		if err != nil {
			return nil, fmt.Errorf("list doctors: %w", err)
		}
		return toViews(list), nil
	}
	all, err := s.GetDoctors(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.DoctorView, 0, len(all))
	for _, d := range all {
		if d.Specialization == specialization {
			out = append(out, d)
		}
	}
	return out, nil
}

func toViews(list []models.Doctor) []models.DoctorView {
	views := make([]models.DoctorView, 0, len(list))
	for i := range list {
		views = append(views, list[i].View())
	}
	return views
}

// Specializations returns the distinct specializations in ascending order.
func (s *Service) Specializations(ctx context.Context) ([]string, error) {
	specs, err := repository.NewDoctorRepository(s.db).Specializations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list specializations: %w", err)
	}
	return specs, nil
}

// CreateDoctor creates a doctor account and profile in one transaction.
func (s *Service) CreateDoctor(ctx context.Context, in CreateDoctorInput) (*models.DoctorView, error) {
	in.Login = strings.TrimSpace(in.Login)
	in.FIO = strings.TrimSpace(in.FIO)
	in.Specialization = strings.TrimSpace(in.Specialization)
	if err := s.check(in); err != nil {
		return nil, err
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	var doc *models.Doctor
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		u, err := repository.NewUserRepository(tx).Create(ctx, in.Login, hash, models.RoleDoctor)
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrLoginTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		doc, err = repository.NewDoctorRepository(tx).Create(ctx, u.ID, in.FIO, in.Specialization)
		if err != nil {
			return fmt.Errorf("create doctor: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateDirectory(ctx)
	s.log.WithFields(logrus.Fields{"doctor_id": doc.ID, "login": in.Login}).Info("doctor created")
	v := doc.View()
	return &v, nil
}

// UpdateDoctor overwrites a doctor's name and specialization and, when
// given, the login and password of the linked account.
func (s *Service) UpdateDoctor(ctx context.Context, in UpdateDoctorInput) error {
	in.FIO = strings.TrimSpace(in.FIO)
	in.Specialization = strings.TrimSpace(in.Specialization)
	in.Login = strings.TrimSpace(in.Login)
	in.Password = strings.TrimSpace(in.Password)
	if in.ID <= 0 {
		return ErrDoctorNotFound
	}
	if err := s.check(in); err != nil {
		return err
	}
	var hash string
	if in.Password != "" {
		h, err := password.Hash(in.Password)
		if err != nil {
			return err
		}
		hash = h
	}

	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		doctors := repository.NewDoctorRepository(tx)
		users := repository.NewUserRepository(tx)

		doc, err := doctors.GetByID(ctx, in.ID)
		if err != nil {
			return fmt.Errorf("get doctor: %w", err)
		}
		if doc == nil {
			return ErrDoctorNotFound
		}
		doc.FIO = in.FIO
		doc.Specialization = in.Specialization
		if err := doctors.Update(ctx, doc); err != nil {
			return fmt.Errorf("update doctor: %w", err)
		}
		if in.Login != "" {
			if err := users.UpdateLogin(ctx, doc.UserID, in.Login); err != nil {
				if repository.IsUniqueViolation(err) {
					return ErrLoginTaken
				}
				return fmt.Errorf("update login: %w", err)
			}
		}
		if hash != "" {
			if err := users.UpdatePassword(ctx, doc.UserID, hash); err != nil {
				return fmt.Errorf("update password: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateDirectory(ctx)
	s.log.WithField("doctor_id", in.ID).Info("doctor updated")
	return nil
}

// DeleteDoctor removes a doctor, their appointments and the linked account
// in one transaction.
func (s *Service) DeleteDoctor(ctx context.Context, id int64) error {
	var removed int64
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		doctors := repository.NewDoctorRepository(tx)
		doc, err := doctors.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get doctor: %w", err)
		}
		if doc == nil {
			return ErrDoctorNotFound
		}
		removed, err = repository.NewAppointmentRepository(tx).DeleteByDoctorID(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("delete appointments: %w", err)
		}
		if err := doctors.Delete(ctx, doc.ID); err != nil {
			return fmt.Errorf("delete doctor: %w", err)
		}
		if err := repository.NewUserRepository(tx).Delete(ctx, doc.UserID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateDirectory(ctx)
	s.log.WithFields(logrus.Fields{"doctor_id": id, "appointments_removed": removed}).Info("doctor deleted")
	return nil
}

// invalidateDirectory must run after the mutation has committed.
func (s *Service) invalidateDirectory(ctx context.Context) {
	s.directoryGen.Add(1)
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WithError(err).Warn("doctor cache invalidation failed")
	}
}
