package apierr

import "net/http"

// --- Common ---

func InvalidRequestBody() *Error {
	return New(CodeInvalidRequestBody, http.StatusBadRequest, "Invalid request body")
}

func InternalError(cause error) *Error {
	return Wrap(CodeInternalError, http.StatusInternalServerError, "Internal server error", cause)
}

func RateLimited() *Error {
	return New(CodeRateLimited, http.StatusTooManyRequests, "Too many requests, please slow down")
}

// --- Session exchange ---

func SessionTokenRequired() *Error {
	return New(CodeSessionTokenRequired, http.StatusBadRequest, "Session token is required")
}

func NoLinkedIdentity() *Error {
	return New(CodeNoLinkedIdentity, http.StatusBadRequest, "No Twitter account is linked to this session")
}

func InvalidSession(cause error) *Error {
	return Wrap(CodeInvalidSession, http.StatusUnauthorized, "Session is invalid or expired", cause)
}

func IdentityUnavailable(cause error) *Error {
	return Wrap(CodeIdentityUnavailable, http.StatusBadGateway, "Identity provider is unavailable, please try again", cause)
}

// --- Profile ---

func ProfileSaveFailed(cause error) *Error {
	return Wrap(CodeProfileSaveFailed, http.StatusInternalServerError, "Failed to save profile", cause)
}

// --- Upload ---

func FileRequired() *Error {
	return New(CodeFileRequired, http.StatusBadRequest, "File is required (multipart field 'file')")
}

func FileTooLarge() *Error {
	return New(CodeFileTooLarge, http.StatusRequestEntityTooLarge, "File is too large")
}

func UnsupportedImageType() *Error {
	return New(CodeUnsupportedImageType, http.StatusBadRequest, "Only PNG and JPEG images are supported")
}

func UploadFailed(cause error) *Error {
	return Wrap(CodeUploadFailed, http.StatusInternalServerError, "Failed to upload file", cause)
}

// --- Health ---

func DatabaseNotReady() *Error {
	return New(CodeDatabaseNotReady, http.StatusServiceUnavailable, "Database not ready")
}
