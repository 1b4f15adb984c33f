package grpc

import (
	"errors"

	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/DRSN-tech/supply-registry/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GRPCErrorResponse сопоставляет ошибку с кодом gRPC.
// Для ошибок реестра в сообщение попадает их текст.
func GRPCErrorResponse(err error) error {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case domain.KindNotFound:
			return status.Error(codes.NotFound, domainErr.Msg)
		case domain.KindInvalidInput:
			return status.Error(codes.InvalidArgument, domainErr.Msg)
		}
	}

	switch {
	case errors.Is(err, e.ErrInvalidProductID):
		return status.Error(codes.InvalidArgument, e.ErrInvalidProductID.Error())
	case errors.Is(err, e.ErrInvalidBody):
		return status.Error(codes.InvalidArgument, e.ErrInvalidBody.Error())
	case errors.Is(err, e.ErrIDSpaceExhausted):
		return status.Error(codes.ResourceExhausted, e.ErrIDSpaceExhausted.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

func isServerError(err error) bool {
	switch status.Code(err) {
	case codes.Internal, codes.ResourceExhausted, codes.Unknown:
		return true
	default:
		return false
	}
}
