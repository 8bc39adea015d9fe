package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clinicAppointments/models"
	"clinicAppointments/repository"
)

func TestDoctorDirectory_CreateListFilter(t *testing.T) {
	s := newTestService(t, Options{})
	ctx := context.Background()

	mustCreateDoctor(t, s, "d1", "Sidorov S.", "Surgeon")
	mustCreateDoctor(t, s, "d2", "Abramova A.", "Therapist")
	mustCreateDoctor(t, s, "d3", "Petrov P.", "Surgeon")

	all, err := s.GetDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"Abramova A.", "Petrov P.", "Sidorov S."}, []string{all[0].FIO, all[1].FIO, all[2].FIO})

	surgeons, err := s.DoctorsBySpecialization(ctx, "Surgeon")
	require.NoError(t, err)
	require.Len(t, surgeons, 2)

	everyone, err := s.DoctorsBySpecialization(ctx, " ")
	require.NoError(t, err)
	require.Len(t, everyone, 3)

	specs, err := s.Specializations(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Surgeon", "Therapist"}, specs)

	// The doctor can log in with the doctor role.
	p, err := s.LoginUser(ctx, "d1", "pw-d1")
	require.NoError(t, err)
	require.Equal(t, models.RoleDoctor, p.Role)
}

func TestCreateDoctor_Validation(t *testing.T) {
	s := newTestService(t, Options{})
	ctx := context.Background()

	_, err := s.CreateDoctor(ctx, CreateDoctorInput{Login: "x", Password: "x", FIO: "x"})
	require.ErrorIs(t, err, ErrMissingFields)

	mustCreateDoctor(t, s, "dup", "A", "B")
	_, err = s.CreateDoctor(ctx, CreateDoctorInput{Login: "dup", Password: "x", FIO: "C", Specialization: "D"})
	require.ErrorIs(t, err, ErrLoginTaken)

	all, err := s.GetDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestUpdateDoctor(t *testing.T) {
	s := newTestService(t, Options{})
	ctx := context.Background()
	doc := mustCreateDoctor(t, s, "lena", "Lena", "ENT")
	mustCreateDoctor(t, s, "oleg", "Oleg", "ENT")

	err := s.UpdateDoctor(ctx, UpdateDoctorInput{ID: 9999, FIO: "X", Specialization: "Y"})
	require.ErrorIs(t, err, ErrDoctorNotFound)

	err = s.UpdateDoctor(ctx, UpdateDoctorInput{ID: doc.ID, FIO: "", Specialization: "Y"})
	require.ErrorIs(t, err, ErrMissingFields)

	// Blank login/password keep the account as is.
	require.NoError(t, s.UpdateDoctor(ctx, UpdateDoctorInput{ID: doc.ID, FIO: " Elena ", Specialization: "Cardiology", Login: " ", Password: ""}))
	_, err = s.LoginUser(ctx, "lena", "pw-lena")
	require.NoError(t, err)

	require.NoError(t, s.UpdateDoctor(ctx, UpdateDoctorInput{ID: doc.ID, FIO: "Elena", Specialization: "Cardiology", Login: "elena", Password: "newpw"}))
	_, err = s.LoginUser(ctx, "lena", "pw-lena")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.LoginUser(ctx, "elena", "newpw")
	require.NoError(t, err)

	err = s.UpdateDoctor(ctx, UpdateDoctorInput{ID: doc.ID, FIO: "Changed", Specialization: "Changed", Login: "oleg"})
	require.ErrorIs(t, err, ErrLoginTaken)

	// The failed update rolled back the name change too.
	got, err := repository.NewDoctorRepository(s.db).GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, "Elena", got.FIO)
	require.Equal(t, "Cardiology", got.Specialization)
}

func TestDeleteDoctor_RemovesAppointmentsAndAccount(t *testing.T) {
	s := newTestService(t, Options{})
	ctx := context.Background()
	doomed := mustCreateDoctor(t, s, "doomed", "Doomed", "GP")
	other := mustCreateDoctor(t, s, "other", "Other", "GP")
	patient := mustRegister(t, s, "pat")

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	_, err := s.CreateAppointment(ctx, patient.UserID, doomed.ID, at)
	require.NoError(t, err)
	_, err = s.CreateAppointment(ctx, patient.UserID, other.ID, at)
	require.NoError(t, err)

	require.NoError(t, s.DeleteDoctor(ctx, doomed.ID))
	require.ErrorIs(t, s.DeleteDoctor(ctx, doomed.ID), ErrDoctorNotFound)

	_, err = s.GetAppointmentsByDoctorID(ctx, doomed.ID)
	require.ErrorIs(t, err, ErrDoctorNotFound)

	// Nothing of the deleted doctor resurfaces elsewhere.
	remaining, err := s.GetPatientAppointments(ctx, patient.UserID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, other.ID, remaining[0].DoctorID)
	require.Equal(t, "Other", remaining[0].DoctorFIO)

	_, err = s.LoginUser(ctx, "doomed", "pw-doomed")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// A new doctor never reuses the deleted id.
	fresh := mustCreateDoctor(t, s, "fresh", "Fresh", "GP")
	require.NotEqual(t, doomed.ID, fresh.ID)
	views, err := s.GetAppointmentsByDoctorID(ctx, fresh.ID)
	require.NoError(t, err)
	require.Empty(t, views)
}

func TestGetDoctors_UsesAndInvalidatesCache(t *testing.T) {
	cache := &memoryCache{}
	s := newTestService(t, Options{Cache: cache})
	ctx := context.Background()

	doc := mustCreateDoctor(t, s, "c1", "Cached", "GP")
	require.Equal(t, 1, cache.invalidated)

	_, err := s.GetDoctors(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	// A second read is served from the cache.
	_, err = s.GetDoctors(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	require.NoError(t, s.UpdateDoctor(ctx, UpdateDoctorInput{ID: doc.ID, FIO: "Renamed", Specialization: "GP"}))
	require.Equal(t, 2, cache.invalidated)

	all, err := s.GetDoctors(ctx)
	require.NoError(t, err)
	require.Equal(t, "Renamed", all[0].FIO)
	require.Equal(t, 2, cache.sets)

	require.NoError(t, s.DeleteDoctor(ctx, doc.ID))
	require.Equal(t, 3, cache.invalidated)
}
