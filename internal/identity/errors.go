package identity

import "fmt"

// FailureKind classifies a failed session exchange.
type FailureKind string

const (
	KindInvalidSession   FailureKind = "invalid_session"
	KindNetworkError     FailureKind = "network_error"
	KindNoLinkedIdentity FailureKind = "no_linked_identity"
)

// ExchangeError is returned by Exchanger.Exchange for every failure.
type ExchangeError struct {
	Kind FailureKind
	Err  error
}

var (
	ErrInvalidSession   = &ExchangeError{Kind: KindInvalidSession}
	ErrNetwork          = &ExchangeError{Kind: KindNetworkError}
	ErrNoLinkedIdentity = &ExchangeError{Kind: KindNoLinkedIdentity}
)

func (e *ExchangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("session exchange %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("session exchange %s", e.Kind)
}

func (e *ExchangeError) Unwrap() error { return e.Err }

// Is matches any ExchangeError of the same kind.
func (e *ExchangeError) Is(target error) bool {
	t, ok := target.(*ExchangeError)
	return ok && t.Kind == e.Kind
}

func exchangeFailure(kind FailureKind, err error) *ExchangeError {
	return &ExchangeError{Kind: kind, Err: err}
}
