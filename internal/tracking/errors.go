package tracking

import "errors"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNoActiveSession
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNoActiveSession:
		return "no_active_session"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Error is returned by every Ledger and Tracker operation that fails.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func conflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func noActiveSessionError() *Error {
	return &Error{Kind: KindNoActiveSession, Message: "No active session found"}
}

func storeError(op string, err error) *Error {
	return &Error{Kind: KindStore, Message: op, Err: err}
}

// KindOf returns the kind of err, or 0 when err is not a tracking error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
