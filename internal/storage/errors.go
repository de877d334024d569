package storage

import (
	"errors"
	"fmt"
)

// Kind classifies a storage failure for callers.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConstraint
	KindInvalidArgument
	KindTransaction
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindConstraint:
		return "constraint violation"
	case KindInvalidArgument:
		return "invalid argument"
	case KindTransaction:
		return "transaction failed"
	default:
		return "internal error"
	}
}

var (
	ErrNotFound        = errors.New("not found")
	ErrConstraint      = errors.New("constraint violation")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTransaction     = errors.New("transaction failed")
)

// Error is returned by store operations. It keeps the underlying driver error
// reachable through Unwrap and matches the sentinel of its Kind via errors.Is.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

// NewError wraps err for operation op.
func NewError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConstraint:
		return e.Kind == KindConstraint
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrTransaction:
		return e.Kind == KindTransaction
	}
	return false
}

// KindOf returns the Kind carried by err, or KindInternal if err is not a
// storage error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
