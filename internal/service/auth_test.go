package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"clinicAppointments/internal/password"
	"clinicAppointments/models"
	"clinicAppointments/repository"
)

func TestRegisterThenLogin(t *testing.T) {
	s := newTestService(t, Options{})
	ctx := context.Background()

	reg, err := s.RegisterPatient(ctx, RegisterPatientInput{Login: "  anna ", Password: "secret", FIO: " Anna K ", Phone: " +7 900 "})
	require.NoError(t, err)
	require.Equal(t, models.RolePatient, reg.Role)
	require.Equal(t, "anna", reg.Login)

	got, err := s.LoginUser(ctx, "anna", "secret")
	require.NoError(t, err)
	require.Equal(t, reg.UserID, got.UserID)
	require.Equal(t, models.RolePatient, got.Role)

	p, err := repository.NewPatientRepository(s.db).GetByUserID(ctx, reg.UserID)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, "Anna K", p.FIO)
	require.Equal(t, "+7 900", p.Phone)
}

func TestRegisterPatient_MissingFields(t *testing.T) {
	s := newTestService(t, Options{})
	cases := []RegisterPatientInput{
		{Password: "x", FIO: "x", Phone: "x"},
		{Login: "x", FIO: "x", Phone: "x"},
		{Login: "x", Password: "x", FIO: "   ", Phone: "x"},
		{Login: "x", Password: "x", FIO: "x"},
	}
	for _, in := range cases {
		_, err := s.RegisterPatient(context.Background(), in)
		require.ErrorIs(t, err, ErrMissingFields, "input %+v", in)
	}
}

func TestRegisterPatient_DuplicateLoginLeavesNoPartialRows(t *testing.T) {
	s := newTestService(t, Options{})
	ctx := context.Background()

	first := mustRegister(t, s, "boris")
	_, err := s.RegisterPatient(ctx, RegisterPatientInput{Login: "boris", Password: "other", FIO: "Impostor", Phone: "+1"})
	require.ErrorIs(t, err, ErrLoginTaken)
	require.Equal(t, "login is already taken", err.Error())

	var patients int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM patients`).Scan(&patients))
	require.Equal(t, 1, patients)

	// The first registration still works with its own password.
	got, err := s.LoginUser(ctx, "boris", "pw-boris")
	require.NoError(t, err)
	require.Equal(t, first.UserID, got.UserID)
	_, err = s.LoginUser(ctx, "boris", "other")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUser_RejectsUnknownWrongAndDeleted(t *testing.T) {
	s := newTestService(t, Options{})
	ctx := context.Background()
	reg := mustRegister(t, s, "vera")

	_, err := s.LoginUser(ctx, "nobody", "x")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.LoginUser(ctx, "vera", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, string(models.RoleDeleted), reg.UserID)
	require.NoError(t, err)
	_, err = s.LoginUser(ctx, "vera", "pw-vera")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUser_LegacyPlaintext(t *testing.T) {
	ctx := context.Background()

	strict := newTestService(t, Options{})
	u, err := repository.NewUserRepository(strict.db).Create(ctx, "old", "plain", models.RoleAdmin)
	require.NoError(t, err)
	_, err = strict.LoginUser(ctx, "old", "plain")
	require.ErrorIs(t, err, ErrInvalidCredentials, "plaintext rows are rejected unless enabled")

	legacy := New(strict.db, Options{AllowLegacyPasswords: true})
	_, err = legacy.LoginUser(ctx, "old", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := legacy.LoginUser(ctx, "old", "plain")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)

	stored, err := repository.NewUserRepository(strict.db).GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, password.IsHashed(stored.Password), "legacy password must be rehashed")
	require.True(t, password.Verify("plain", stored.Password))

	// After the upgrade the strict service accepts it too.
	_, err = strict.LoginUser(ctx, "old", "plain")
	require.NoError(t, err)
}
