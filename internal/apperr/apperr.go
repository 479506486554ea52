package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide whether to absorb or propagate it.
type Kind string

const (
	InvalidRequest           Kind = "InvalidRequest"
	ContentGenerationFailure Kind = "ContentGenerationFailure"
	SynthesisFailure         Kind = "SynthesisFailure"
	RenderFailure            Kind = "RenderFailure"
	InvalidInput             Kind = "InvalidInput"
	Internal                 Kind = "Internal"
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind with a formatted detail message.
func New(kind Kind, op string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a kind to err. A nil err stays nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e.Kind != "" {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
