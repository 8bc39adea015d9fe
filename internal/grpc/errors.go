package grpcserver

import (
	"errors"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"clinicAppointments/internal/service"
)

// toStatus maps an action error to a gRPC status. Domain errors keep their
// message; anything else is logged and reported as Internal.
func toStatus(log *logrus.Logger, method string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var domain *service.Error
	if !errors.As(err, &domain) {
		log.WithError(err).WithField("method", method).Error("request failed")
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(codeFor(domain), domain.Message)
}

func codeFor(err *service.Error) codes.Code {
	switch err {
	case service.ErrMissingFields, service.ErrDateFormat, service.ErrInvalidStatus:
		return codes.InvalidArgument
	case service.ErrDoctorNotFound, service.ErrPatientNotFound, service.ErrAppointmentNotFound:
		return codes.NotFound
	case service.ErrLoginTaken, service.ErrSlotTaken:
		return codes.AlreadyExists
	case service.ErrInvalidCredentials:
		return codes.Unauthenticated
	default:
		// Domain errors without a listed kind are rule violations, not bad input.
		return codes.FailedPrecondition
	}
}
