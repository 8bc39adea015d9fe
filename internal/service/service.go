// Package service holds the clinic actions: authentication, the doctor
// directory and appointment booking. Every mutating action runs in its own
// transaction and either commits completely or leaves no trace.
package service

import (
	"context"
	"database/sql"
	"io"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"clinicAppointments/models"
)

// DirectoryCache stores the full doctor directory between mutations.
type DirectoryCache interface {
	Get(ctx context.Context) ([]models.DoctorView, bool, error)
	Set(ctx context.Context, doctors []models.DoctorView) error
	Invalidate(ctx context.Context) error
}

// Options configures a Service. Zero values are usable.
type Options struct {
	Logger               *logrus.Logger
	Cache                DirectoryCache
	AllowLegacyPasswords bool
}

// Service executes clinic actions against a SQLite database.
type Service struct {
	db          *sql.DB
	log         *logrus.Logger
	cache       DirectoryCache
	validate    *validator.Validate
	allowLegacy bool

	// directoryGen counts committed directory mutations; a cache fill that
	// raced with one is dropped.
	directoryGen atomic.Uint64
}

// New creates a Service over d.
func New(d *sql.DB, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Service{
		db:          d,
		log:         log,
		cache:       opts.Cache,
		validate:    validator.New(),
		allowLegacy: opts.AllowLegacyPasswords,
	}
}

// check validates the struct tags of in and collapses any failure into
// ErrMissingFields.
func (s *Service) check(in any) error {
	if err := s.validate.Struct(in); err != nil {
		return ErrMissingFields
	}
	return nil
}
