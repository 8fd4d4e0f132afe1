package domainerrors

import "errors"

// Code represents a domain error category independent of any transport.
// Codes describe what went wrong in engine terms, not HTTP terms.
type Code string

const (
	// CodeNotFound: no regulation record for the requested jurisdiction.
	// Expected and recoverable; callers offer "no data" instead of failing.
	CodeNotFound Code = "not_found"
	// CodeInvalidInput: malformed vehicle descriptor or request. Rejected
	// before any computation starts; aborts the whole request.
	CodeInvalidInput Code = "invalid_input"
	// CodeDataIntegrity: authored registry data is internally inconsistent.
	// Fatal at load time; a broken snapshot must never publish.
	CodeDataIntegrity Code = "data_integrity"
	CodeValidation    Code = "validation_failed"
	CodeConflict      Code = "conflict"
	CodeInternal      Code = "internal_error"
)

// Error wraps domain or infrastructure failures with a stable code. It is
// transport-agnostic and usable across service and store layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a domain error wrapping an existing error. If the wrapped
// error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
