package grpcserver

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "clinic.v1.ClinicService"

// Full method names, as seen by interceptors.
const (
	MethodRegisterPatient        = "/" + ServiceName + "/RegisterPatient"
	MethodLogin                  = "/" + ServiceName + "/Login"
	MethodListDoctors            = "/" + ServiceName + "/ListDoctors"
	MethodListSpecializations    = "/" + ServiceName + "/ListSpecializations"
	MethodCreateDoctor           = "/" + ServiceName + "/CreateDoctor"
	MethodUpdateDoctor           = "/" + ServiceName + "/UpdateDoctor"
	MethodDeleteDoctor           = "/" + ServiceName + "/DeleteDoctor"
	MethodBookAppointment        = "/" + ServiceName + "/BookAppointment"
	MethodListMyAppointments     = "/" + ServiceName + "/ListMyAppointments"
	MethodListDoctorAppointments = "/" + ServiceName + "/ListDoctorAppointments"
	MethodUpdateAppointment      = "/" + ServiceName + "/UpdateAppointment"
)

// ClinicServiceServer is the server API for ClinicService.
type ClinicServiceServer interface {
	RegisterPatient(context.Context, *RegisterPatientRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	ListDoctors(context.Context, *ListDoctorsRequest) (*ListDoctorsResponse, error)
	ListSpecializations(context.Context, *Empty) (*ListSpecializationsResponse, error)
	CreateDoctor(context.Context, *CreateDoctorRequest) (*DoctorResponse, error)
	UpdateDoctor(context.Context, *UpdateDoctorRequest) (*Empty, error)
	DeleteDoctor(context.Context, *DeleteDoctorRequest) (*Empty, error)
	BookAppointment(context.Context, *BookAppointmentRequest) (*AppointmentResponse, error)
	ListMyAppointments(context.Context, *Empty) (*ListAppointmentsResponse, error)
	ListDoctorAppointments(context.Context, *ListDoctorAppointmentsRequest) (*ListAppointmentsResponse, error)
	UpdateAppointment(context.Context, *UpdateAppointmentRequest) (*Empty, error)
}

// RegisterClinicServiceServer registers srv on s.
func RegisterClinicServiceServer(s grpc.ServiceRegistrar, srv ClinicServiceServer) {
	s.RegisterService(&clinicServiceDesc, srv)
}

var clinicServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ClinicServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("RegisterPatient", ClinicServiceServer.RegisterPatient),
		unary("Login", ClinicServiceServer.Login),
		unary("ListDoctors", ClinicServiceServer.ListDoctors),
		unary("ListSpecializations", ClinicServiceServer.ListSpecializations),
		unary("CreateDoctor", ClinicServiceServer.CreateDoctor),
		unary("UpdateDoctor", ClinicServiceServer.UpdateDoctor),
		unary("DeleteDoctor", ClinicServiceServer.DeleteDoctor),
		unary("BookAppointment", ClinicServiceServer.BookAppointment),
		unary("ListMyAppointments", ClinicServiceServer.ListMyAppointments),
		unary("ListDoctorAppointments", ClinicServiceServer.ListDoctorAppointments),
		unary("UpdateAppointment", ClinicServiceServer.UpdateAppointment),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "clinic/v1/clinic.proto",
}

// unary builds the method descriptor for one request/response method,
// routing through the server's interceptor chain.
func unary[Req, Resp any](name string, call func(ClinicServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			impl := srv.(ClinicServiceServer)
			if interceptor == nil {
				return call(impl, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(impl, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
