package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID indicates the identifier cannot name any stored entity.
	ErrInvalidID = errors.New("invalid id")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
)

// Kind tags a failure with the outcome it maps to.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a failure carrying an explicit Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a validation-kind error with the given message.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Conflict wraps ErrAlreadyExists as a validation-kind error.
func Conflict(message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: ErrAlreadyExists}
}

// KindOf classifies err. Validation is checked before not-found, which is
// checked before the internal fallback.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var de *Error
	hasTagged := errors.As(err, &de)
	if (hasTagged && de.Kind == KindValidation) || errors.Is(err, ErrAlreadyExists) {
		return KindValidation
	}
	if (hasTagged && de.Kind == KindNotFound) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID) {
		return KindNotFound
	}
	return KindInternal
}
