package auth

import "fmt"

// FailureKind classifies why a bearer token was rejected.
type FailureKind string

const (
	KindInvalidSignature FailureKind = "invalid_signature"
	KindExpired          FailureKind = "expired"
	KindMalformedToken   FailureKind = "malformed_token"
	KindMissingSubject   FailureKind = "missing_subject"
	KindKeysUnavailable  FailureKind = "keys_unavailable"
)

// VerifyError is returned by Verifier.Verify for every rejected token.
type VerifyError struct {
	Kind FailureKind
	Err  error
}

// Sentinels for errors.Is matching on the failure kind.
var (
	ErrInvalidSignature = &VerifyError{Kind: KindInvalidSignature}
	ErrExpired          = &VerifyError{Kind: KindExpired}
	ErrMalformedToken   = &VerifyError{Kind: KindMalformedToken}
	ErrMissingSubject   = &VerifyError{Kind: KindMissingSubject}
	ErrKeysUnavailable  = &VerifyError{Kind: KindKeysUnavailable}
)

func (e *VerifyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("token %s", e.Kind)
}

func (e *VerifyError) Unwrap() error { return e.Err }

// Is matches any VerifyError of the same kind.
func (e *VerifyError) Is(target error) bool {
	t, ok := target.(*VerifyError)
	return ok && t.Kind == e.Kind
}

func verifyFailure(kind FailureKind, err error) *VerifyError {
	return &VerifyError{Kind: kind, Err: err}
}
