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

// RegisterPatientInput carries a self-registration request.
type RegisterPatientInput struct {
	Login    string `validate:"required"`
	Password string `validate:"required"`
	FIO      string `validate:"required"`
	Phone    string `validate:"required"`
}

// RegisterPatient creates a patient account and its profile in one transaction.
func (s *Service) RegisterPatient(ctx context.Context, in RegisterPatientInput) (*models.AuthPayload, error) {
	in.Login = strings.TrimSpace(in.Login)
	in.FIO = strings.TrimSpace(in.FIO)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.check(in); err != nil {
		return nil, err
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		u, err := repository.NewUserRepository(tx).Create(ctx, in.Login, hash, models.RolePatient)
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrLoginTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		if _, err := repository.NewPatientRepository(tx).Create(ctx, u.ID, in.FIO, in.Phone); err != nil {
			return fmt.Errorf("create patient: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "login": user.Login}).Info("patient registered")
	return user.Payload(), nil
}

// LoginUser checks credentials. Unknown, deleted and wrong-password logins
// all fail with ErrInvalidCredentials.
func (s *Service) LoginUser(ctx context.Context, login, pw string) (*models.AuthPayload, error) {
	users := repository.NewUserRepository(s.db)
	u, err := users.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || u.Role == models.RoleDeleted {
		return nil, ErrInvalidCredentials
	}

	switch {
	case password.Verify(pw, u.Password):
	case s.allowLegacy && !password.IsHashed(u.Password) && password.VerifyLegacy(pw, u.Password):
		s.rehash(ctx, users, u, pw)
	default:
		s.log.WithField("login", u.Login).Debug("login rejected")
		return nil, ErrInvalidCredentials
	}
	return u.Payload(), nil
}

// rehash replaces a legacy plaintext password with a hash bundle. Failure
// only costs another legacy login, so it is logged rather than returned.
func (s *Service) rehash(ctx context.Context, users *repository.UserRepository, u *models.User, pw string) {
	hash, err := password.Hash(pw)
	if err == nil {
		err = users.UpdatePassword(ctx, u.ID, hash)
	}
	if err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("legacy password not rehashed")
		return
	}
	s.log.WithField("user_id", u.ID).Info("legacy password rehashed")
}
