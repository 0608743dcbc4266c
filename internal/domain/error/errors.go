package error

import (
	"github.com/0xsj/overwatch-pkg/errors"
)

// Domain error codes
const (
	// Post errors
	CodePostNotFound       errors.Code = "POST_NOT_FOUND"
	CodePostIDRequired     errors.Code = "POST_ID_REQUIRED"
	CodePostTitleRequired  errors.Code = "POST_TITLE_REQUIRED"
	CodeSearchQueryMissing errors.Code = "SEARCH_QUERY_REQUIRED"

	// Session errors
	CodeUnauthenticated    errors.Code = "UNAUTHENTICATED"
	CodeSubjectIDRequired  errors.Code = "SUBJECT_ID_REQUIRED"
	CodeBearerTokenMissing errors.Code = "BEARER_TOKEN_REQUIRED"
	CodeInvalidCredentials errors.Code = "INVALID_CREDENTIALS"
	CodeCredentialsMissing errors.Code = "CREDENTIALS_REQUIRED"

	// Coordination errors
	CodeRateLimited            errors.Code = "RATE_LIMITED"
	CodeLockAcquisitionTimeout errors.Code = "LOCK_ACQUISITION_TIMEOUT"
	CodeLockNameRequired       errors.Code = "LOCK_NAME_REQUIRED"
	CodeStoreUnavailable       errors.Code = "STORE_UNAVAILABLE"
)

// Post errors
var (
	ErrPostNotFound = errors.New(errors.KindNotFound, CodePostNotFound, "post not found")

	ErrPostIDRequired = errors.New(errors.KindValidation, CodePostIDRequired, "post ID is required")

	ErrPostTitleRequired = errors.New(errors.KindValidation, CodePostTitleRequired, "post title is required")

	ErrSearchQueryRequired = errors.New(errors.KindValidation, CodeSearchQueryMissing, "search query is missing")
)

// Session errors
var (
	ErrUnauthenticated = errors.New(errors.KindUnauthorized, CodeUnauthenticated, "not authenticated")

	ErrSubjectIDRequired = errors.New(errors.KindValidation, CodeSubjectIDRequired, "subject ID is required")

	ErrBearerTokenRequired = errors.New(errors.KindUnauthorized, CodeBearerTokenMissing, "access token required")

	ErrInvalidCredentials = errors.New(errors.KindUnauthorized, CodeInvalidCredentials, "invalid credentials")

	ErrCredentialsRequired = errors.New(errors.KindValidation, CodeCredentialsMissing, "email and password are required")
)

// Coordination errors
var (
	ErrRateLimited = errors.New(errors.KindForbidden, CodeRateLimited, "too many requests, please try again later")

	ErrLockAcquisitionTimeout = errors.New(errors.KindConflict, CodeLockAcquisitionTimeout, "could not acquire lock within retry budget")

	ErrLockNameRequired = errors.New(errors.KindValidation, CodeLockNameRequired, "lock name is required")

	ErrStoreUnavailable = errors.New(errors.KindDomain, CodeStoreUnavailable, "key-value store is unavailable")
)
