package apierr

// Code is a machine-readable error code returned in API responses.
type Code string

// Common errors.
const (
	CodeInvalidRequestBody Code = "INVALID_REQUEST_BODY"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeRateLimited        Code = "RATE_LIMITED"
)

// Session exchange errors.
const (
	CodeSessionTokenRequired Code = "SESSION_TOKEN_REQUIRED"
	CodeNoLinkedIdentity     Code = "NO_LINKED_IDENTITY"
	CodeInvalidSession       Code = "INVALID_SESSION"
	CodeIdentityUnavailable  Code = "IDENTITY_UNAVAILABLE"
)

// Profile errors.
const (
	CodeProfileSaveFailed Code = "PROFILE_SAVE_FAILED"
)

// Upload errors.
const (
	CodeFileRequired         Code = "FILE_REQUIRED"
	CodeFileTooLarge         Code = "FILE_TOO_LARGE"
	CodeUnsupportedImageType Code = "UNSUPPORTED_IMAGE_TYPE"
	CodeUploadFailed         Code = "UPLOAD_FAILED"
)

// Health errors.
const (
	CodeDatabaseNotReady Code = "DATABASE_NOT_READY"
)
