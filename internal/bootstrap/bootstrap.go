// Package bootstrap prepares a fresh database for first use.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"clinicAppointments/internal/config"
	"clinicAppointments/internal/db"
	"clinicAppointments/internal/password"
	"clinicAppointments/models"
	"clinicAppointments/repository"
)

// Run ensures an administrator account exists. The schema itself is
// created by db.Open. It reports whether an admin was created.
//
// The check and insert share a transaction but are not guarded against a
// second process starting at the same moment; the application runs as a
// single instance.
func Run(ctx context.Context, d *sql.DB, admin config.AdminConfig, log *logrus.Logger) (bool, error) {
	login := strings.TrimSpace(admin.Login)
	if login == "" || admin.Password == "" {
		return false, fmt.Errorf("admin login and password must be set")
	}
	created := false
	err := db.WithTx(ctx, d, func(tx *sql.Tx) error {
		users := repository.NewUserRepository(tx)
		n, err := users.CountByRole(ctx, models.RoleAdmin)
		if err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if n > 0 {
			return nil
		}
		hash, err := password.Hash(admin.Password)
		if err != nil {
			return err
		}
		a := models.NewAdmin(login, hash)
		if _, err := users.Create(ctx, a.Login, a.Password, a.Role); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if created && log != nil {
		log.WithField("login", login).Warn("default administrator created; change its password")
	}
	return created, nil
}
