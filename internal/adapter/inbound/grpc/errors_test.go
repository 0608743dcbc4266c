package grpc

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
)

func TestToGRPCError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode codes.Code
	}{
		// Nil error
		{
			name:         "nil error returns nil",
			err:          nil,
			expectedCode: codes.OK,
		},

		// NotFound errors -> codes.NotFound
		{
			name:         "ErrPostNotFound",
			err:          domainerror.ErrPostNotFound,
			expectedCode: codes.NotFound,
		},

		// Validation errors -> codes.InvalidArgument
		{
			name:         "ErrPostIDRequired",
			err:          domainerror.ErrPostIDRequired,
			expectedCode: codes.InvalidArgument,
		},
		{
			name:         "ErrPostTitleRequired",
			err:          domainerror.ErrPostTitleRequired,
			expectedCode: codes.InvalidArgument,
		},
		{
			name:         "ErrSearchQueryRequired",
			err:          domainerror.ErrSearchQueryRequired,
			expectedCode: codes.InvalidArgument,
		},

		// Unauthorized errors -> codes.Unauthenticated
		{
			name:         "ErrUnauthenticated",
			err:          domainerror.ErrUnauthenticated,
			expectedCode: codes.Unauthenticated,
		},
		{
			name:         "ErrBearerTokenRequired",
			err:          domainerror.ErrBearerTokenRequired,
			expectedCode: codes.Unauthenticated,
		},

		// Coordination errors
		{
			name:         "ErrRateLimited",
			err:          domainerror.ErrRateLimited,
			expectedCode: codes.ResourceExhausted,
		},
		{
			name:         "ErrLockAcquisitionTimeout",
			err:          domainerror.ErrLockAcquisitionTimeout,
			expectedCode: codes.Aborted,
		},
		{
			name:         "ErrStoreUnavailable",
			err:          domainerror.ErrStoreUnavailable,
			expectedCode: codes.Unavailable,
		},
		{
			name:         "wrapped ErrStoreUnavailable",
			err:          fmt.Errorf("validate session: %w", domainerror.ErrStoreUnavailable),
			expectedCode: codes.Unavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grpcErr := toGRPCError(tt.err)

			if tt.err == nil {
				if grpcErr != nil {
					t.Errorf("toGRPCError(nil) = %v, want nil", grpcErr)
				}
				return
			}

			st, ok := status.FromError(grpcErr)
			if !ok {
				t.Fatalf("toGRPCError() did not return a gRPC status error")
			}
			if st.Code() != tt.expectedCode {
				t.Errorf("code = %v, want %v", st.Code(), tt.expectedCode)
			}
		})
	}
}

func TestToGRPCError_PreservesMessage(t *testing.T) {
	tests := []struct {
		err             error
		expectedMessage string
	}{
		{domainerror.ErrPostNotFound, "post not found"},
		{domainerror.ErrRateLimited, "too many requests, please try again later"},
		{domainerror.ErrStoreUnavailable, "key-value store is unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.expectedMessage, func(t *testing.T) {
			grpcErr := toGRPCError(tt.err)
			st, _ := status.FromError(grpcErr)

			if st.Message() != tt.expectedMessage {
				t.Errorf("message = %q, want %q", st.Message(), tt.expectedMessage)
			}
		})
	}
}

func TestToGRPCError_UnknownError(t *testing.T) {
	st, ok := status.FromError(toGRPCError(errors.New("boom")))
	if !ok {
		t.Fatal("toGRPCError() did not return a gRPC status error")
	}
	if st.Code() == codes.OK {
		t.Error("plain errors must not map to OK")
	}
}
