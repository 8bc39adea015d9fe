package repository

import (
	"context"
	"testing"
	"time"

	"clinicAppointments/internal/testutil"
	"clinicAppointments/models"
)

type apptFixture struct {
	users    *UserRepository
	doctors  *DoctorRepository
	patients *PatientRepository
	appts    *AppointmentRepository
	doctor   *models.Doctor
	patient  *models.Patient
}

func newApptFixture(t *testing.T, name string) *apptFixture {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	f := &apptFixture{
		users:    NewUserRepository(d),
		doctors:  NewDoctorRepository(d),
		patients: NewPatientRepository(d),
		appts:    NewAppointmentRepository(d),
	}
	ctx := context.Background()
	f.doctor = seedDoctor(t, ctx, f.users, f.doctors, "doc", "Dr. Who", "Time")
	pu, err := f.users.Create(ctx, "pat", "hash", models.RolePatient)
	if err != nil {
		t.Fatalf("create patient user: %v", err)
	}
	f.patient, err = f.patients.Create(ctx, pu.ID, "Amy Pond", "+44")
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return f
}

func TestAppointmentRepository_CreateAndSlotUniqueness(t *testing.T) {
	f := newApptFixture(t, "apptrepo_slot")
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	a, err := f.appts.Create(ctx, &models.Appointment{DoctorID: f.doctor.ID, PatientID: f.patient.ID, ScheduledAt: at})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == 0 || a.Status != models.AppointmentScheduled {
		t.Fatalf("unexpected appointment: %+v", a)
	}

	taken, err := f.appts.IsSlotTaken(ctx, f.doctor.ID, at)
	if err != nil || !taken {
		t.Fatalf("expected slot taken: %v %v", taken, err)
	}
	free, err := f.appts.IsSlotTaken(ctx, f.doctor.ID, at.Add(30*time.Minute))
	if err != nil || free {
		t.Fatalf("expected slot free: %v %v", free, err)
	}

	// Same instant in another zone is the same slot.
	moscow := time.FixedZone("MSK", 3*60*60)
	_, err = f.appts.Create(ctx, &models.Appointment{DoctorID: f.doctor.ID, PatientID: f.patient.ID, ScheduledAt: at.In(moscow)})
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation for double booking, got %v", err)
	}

	got, err := f.appts.GetForDoctor(ctx, a.ID, f.doctor.ID)
	if err != nil || got == nil || !got.ScheduledAt.Equal(at) {
		t.Fatalf("get by id: %v %+v", err, got)
	}
}

func TestAppointmentRepository_ViewsAndRecordUpdate(t *testing.T) {
	f := newApptFixture(t, "apptrepo_views")
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	// Insert out of order; listing must come back sorted by time.
	var ids []int64
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		a, err := f.appts.Create(ctx, &models.Appointment{DoctorID: f.doctor.ID, PatientID: f.patient.ID, ScheduledAt: base.Add(offset)})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, a.ID)
	}

	views, err := f.appts.ListViewsByDoctorID(ctx, f.doctor.ID)
	if err != nil {
		t.Fatalf("list by doctor: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}
	for i := 1; i < len(views); i++ {
		if !views[i-1].ScheduledAt.Before(views[i].ScheduledAt) {
			t.Fatalf("views not ordered by time: %+v", views)
		}
	}
	if views[0].DoctorFIO != "Dr. Who" || views[0].PatientFIO != "Amy Pond" {
		t.Fatalf("names not joined: %+v", views[0])
	}

	byPatient, err := f.appts.ListViewsByPatientID(ctx, f.patient.ID)
	if err != nil || len(byPatient) != 3 {
		t.Fatalf("list by patient: %v len=%d", err, len(byPatient))
	}

	a, err := f.appts.GetForDoctor(ctx, ids[0], f.doctor.ID)
	if err != nil || a == nil {
		t.Fatalf("get for doctor: %v %+v", err, a)
	}
	other, err := f.appts.GetForDoctor(ctx, ids[0], f.doctor.ID+100)
	if err != nil || other != nil {
		t.Fatalf("expected nil for foreign doctor, got %+v err=%v", other, err)
	}

	a.Complaint = "headache"
	a.Condition = "stable"
	a.Conclusion = "rest"
	a.Status = models.AppointmentCompleted
	if err := f.appts.UpdateRecord(ctx, a); err != nil {
		t.Fatalf("update record: %v", err)
	}
	got, _ := f.appts.GetForDoctor(ctx, a.ID, f.doctor.ID)
	if got.Complaint != "headache" || got.Condition != "stable" || got.Conclusion != "rest" || got.Status != models.AppointmentCompleted {
		t.Fatalf("record not updated: %+v", got)
	}

	n, err := f.appts.DeleteByDoctorID(ctx, f.doctor.ID)
	if err != nil || n != 3 {
		t.Fatalf("delete by doctor: n=%d err=%v", n, err)
	}
}
