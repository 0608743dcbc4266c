package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pkggrpc "github.com/0xsj/overwatch-pkg/grpc"

	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
)

// toGRPCError converts domain errors to gRPC status errors.
// Coordination failures get dedicated codes; everything else goes through
// the Kind-based mapping of pkg/grpc.
func toGRPCError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domainerror.ErrRateLimited):
		return status.Error(codes.ResourceExhausted, domainerror.ErrRateLimited.Error())
	case errors.Is(err, domainerror.ErrLockAcquisitionTimeout):
		return status.Error(codes.Aborted, domainerror.ErrLockAcquisitionTimeout.Error())
	case errors.Is(err, domainerror.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, domainerror.ErrStoreUnavailable.Error())
	}

	return pkggrpc.ToStatus(err).Err()
}
