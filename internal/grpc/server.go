package grpcserver

import (
	"context"
	"database/sql"
	"net"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"clinicAppointments/internal/auth"
	"clinicAppointments/internal/config"
	"clinicAppointments/internal/service"
	"clinicAppointments/repository"
)

const healthCheckMethod = "/grpc.health.v1.Health/Check"

// NewServer builds the gRPC server with the auth interceptor, ClinicService
// and the health service registered.
func NewServer(cfg *config.Config, svc *service.Service, d *sql.DB, log *logrus.Logger) *grpc.Server {
	if cfg == nil {
		panic("config is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(auth.NewUnaryAuthInterceptor(
		cfg.Auth.JWTSecret,
		healthCheckMethod,
		MethodLogin,
		MethodRegisterPatient,
	)))

	RegisterClinicServiceServer(srv, &ClinicServer{
		Svc:      svc,
		Users:    repository.NewUserRepository(d),
		Secret:   cfg.Auth.JWTSecret,
		TokenTTL: cfg.Auth.TokenTTL,
		Log:      log,
	})

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

// StartGRPC starts the gRPC server on the configured address and returns a shutdown function.
func StartGRPC(cfg *config.Config, svc *service.Service, d *sql.DB, log *logrus.Logger) (func(context.Context) error, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	srv := NewServer(cfg, svc, d, log)

	addr := cfg.GRPC.Address
	if addr == "" {
		addr = ":50051"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := srv.Serve(lis); err != nil {
			log.WithError(err).Error("grpc serve stopped")
		}
	}()
	log.WithField("addr", lis.Addr().String()).Info("grpc listening")

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}
