package grpcserver

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"clinicAppointments/internal/auth"
	"clinicAppointments/internal/service"
	"clinicAppointments/models"
)

// ClinicServer bundles dependencies and implements ClinicService.
type ClinicServer struct {
	Svc      *service.Service
	Users    auth.UserLookup
	Secret   string
	TokenTTL time.Duration
	Log      *logrus.Logger
}

var _ ClinicServiceServer = (*ClinicServer)(nil)

func (s *ClinicServer) fail(method string, err error) error {
	return toStatus(s.Log, method, err)
}

// issue signs a session token for an authenticated payload.
func (s *ClinicServer) issue(method string, p *models.AuthPayload) (*AuthResponse, error) {
	tok, err := auth.IssueToken(s.Secret, *p, s.TokenTTL)
	if err != nil {
		return nil, s.fail(method, err)
	}
	return &AuthResponse{Token: tok, UserID: p.UserID, Login: p.Login, Role: p.Role}, nil
}

// RegisterPatient creates a patient account and logs it in.
func (s *ClinicServer) RegisterPatient(ctx context.Context, req *RegisterPatientRequest) (*AuthResponse, error) {
	p, err := s.Svc.RegisterPatient(ctx, service.RegisterPatientInput{
		Login:    req.Login,
		Password: req.Password,
		FIO:      req.FIO,
		Phone:    req.Phone,
	})
	if err != nil {
		return nil, s.fail(MethodRegisterPatient, err)
	}
	return s.issue(MethodRegisterPatient, p)
}

func (s *ClinicServer) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	p, err := s.Svc.LoginUser(ctx, req.Login, req.Password)
	if err != nil {
		return nil, s.fail(MethodLogin, err)
	}
	return s.issue(MethodLogin, p)
}

// ListDoctors returns the directory, optionally filtered by specialization.
func (s *ClinicServer) ListDoctors(ctx context.Context, req *ListDoctorsRequest) (*ListDoctorsResponse, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	docs, err := s.Svc.DoctorsBySpecialization(ctx, req.Specialization)
	if err != nil {
		return nil, s.fail(MethodListDoctors, err)
	}
	return &ListDoctorsResponse{Doctors: docs}, nil
}

func (s *ClinicServer) ListSpecializations(ctx context.Context, _ *Empty) (*ListSpecializationsResponse, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	specs, err := s.Svc.Specializations(ctx)
	if err != nil {
		return nil, s.fail(MethodListSpecializations, err)
	}
	return &ListSpecializationsResponse{Specializations: specs}, nil
}

func (s *ClinicServer) CreateDoctor(ctx context.Context, req *CreateDoctorRequest) (*DoctorResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	v, err := s.Svc.CreateDoctor(ctx, service.CreateDoctorInput{
		Login:          req.Login,
		Password:       req.Password,
		FIO:            req.FIO,
		Specialization: req.Specialization,
	})
	if err != nil {
		return nil, s.fail(MethodCreateDoctor, err)
	}
	return &DoctorResponse{Doctor: *v}, nil
}

func (s *ClinicServer) UpdateDoctor(ctx context.Context, req *UpdateDoctorRequest) (*Empty, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	err := s.Svc.UpdateDoctor(ctx, service.UpdateDoctorInput{
		ID:             req.ID,
		FIO:            req.FIO,
		Specialization: req.Specialization,
		Login:          req.Login,
		Password:       req.Password,
	})
	if err != nil {
		return nil, s.fail(MethodUpdateDoctor, err)
	}
	return &Empty{}, nil
}

func (s *ClinicServer) DeleteDoctor(ctx context.Context, req *DeleteDoctorRequest) (*Empty, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	if err := s.Svc.DeleteDoctor(ctx, req.ID); err != nil {
		return nil, s.fail(MethodDeleteDoctor, err)
	}
	return &Empty{}, nil
}

// BookAppointment books a slot for the calling patient.
func (s *ClinicServer) BookAppointment(ctx context.Context, req *BookAppointmentRequest) (*AppointmentResponse, error) {
	p, err := auth.RequireRole(ctx, models.RolePatient)
	if err != nil {
		return nil, err
	}
	at, err := service.ParseDateTime(req.ScheduledAt)
	if err != nil {
		return nil, s.fail(MethodBookAppointment, err)
	}
	a, err := s.Svc.CreateAppointment(ctx, p.UserID, req.DoctorID, at)
	if err != nil {
		return nil, s.fail(MethodBookAppointment, err)
	}
	return &AppointmentResponse{Appointment: toWireAppointment(a)}, nil
}

// ListMyAppointments lists the caller's appointments, as patient or doctor.
func (s *ClinicServer) ListMyAppointments(ctx context.Context, _ *Empty) (*ListAppointmentsResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	var views []models.AppointmentView
	switch p.Role {
	case models.RolePatient:
		views, err = s.Svc.GetPatientAppointments(ctx, p.UserID)
	case models.RoleDoctor:
		views, err = s.Svc.GetDoctorAppointments(ctx, p.UserID)
	default:
		return nil, status.Error(codes.PermissionDenied, "only patient or doctor can perform this action")
	}
	if err != nil {
		return nil, s.fail(MethodListMyAppointments, err)
	}
	return &ListAppointmentsResponse{Appointments: toWireViews(views)}, nil
}

func (s *ClinicServer) ListDoctorAppointments(ctx context.Context, req *ListDoctorAppointmentsRequest) (*ListAppointmentsResponse, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	views, err := s.Svc.GetAppointmentsByDoctorID(ctx, req.DoctorID)
	if err != nil {
		return nil, s.fail(MethodListDoctorAppointments, err)
	}
	return &ListAppointmentsResponse{Appointments: toWireViews(views)}, nil
}

// UpdateAppointment lets a doctor fill in the record of their appointment.
func (s *ClinicServer) UpdateAppointment(ctx context.Context, req *UpdateAppointmentRequest) (*Empty, error) {
	p, err := auth.RequireRole(ctx, models.RoleDoctor)
	if err != nil {
		return nil, err
	}
	err = s.Svc.UpdateAppointmentByDoctor(ctx, service.UpdateAppointmentInput{
		DoctorUserID:  p.UserID,
		AppointmentID: req.AppointmentID,
		Complaint:     req.Complaint,
		Condition:     req.Condition,
		Conclusion:    req.Conclusion,
		Status:        models.AppointmentStatus(req.Status),
	})
	if err != nil {
		return nil, s.fail(MethodUpdateAppointment, err)
	}
	return &Empty{}, nil
}
