package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client is a typed ClinicService client over the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// WithToken attaches a session token to outgoing calls made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RegisterPatient(ctx context.Context, in *RegisterPatientRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c, MethodRegisterPatient, in, opts...)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c, MethodLogin, in, opts...)
}

func (c *Client) ListDoctors(ctx context.Context, in *ListDoctorsRequest, opts ...grpc.CallOption) (*ListDoctorsResponse, error) {
	return invoke[ListDoctorsResponse](ctx, c, MethodListDoctors, in, opts...)
}

func (c *Client) ListSpecializations(ctx context.Context, opts ...grpc.CallOption) (*ListSpecializationsResponse, error) {
	return invoke[ListSpecializationsResponse](ctx, c, MethodListSpecializations, &Empty{}, opts...)
}

func (c *Client) CreateDoctor(ctx context.Context, in *CreateDoctorRequest, opts ...grpc.CallOption) (*DoctorResponse, error) {
	return invoke[DoctorResponse](ctx, c, MethodCreateDoctor, in, opts...)
}

func (c *Client) UpdateDoctor(ctx context.Context, in *UpdateDoctorRequest, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c, MethodUpdateDoctor, in, opts...)
	return err
}

func (c *Client) DeleteDoctor(ctx context.Context, id int64, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c, MethodDeleteDoctor, &DeleteDoctorRequest{ID: id}, opts...)
	return err
}

func (c *Client) BookAppointment(ctx context.Context, in *BookAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, MethodBookAppointment, in, opts...)
}

func (c *Client) ListMyAppointments(ctx context.Context, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	return invoke[ListAppointmentsResponse](ctx, c, MethodListMyAppointments, &Empty{}, opts...)
}

func (c *Client) ListDoctorAppointments(ctx context.Context, doctorID int64, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	return invoke[ListAppointmentsResponse](ctx, c, MethodListDoctorAppointments, &ListDoctorAppointmentsRequest{DoctorID: doctorID}, opts...)
}

func (c *Client) UpdateAppointment(ctx context.Context, in *UpdateAppointmentRequest, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c, MethodUpdateAppointment, in, opts...)
	return err
}
