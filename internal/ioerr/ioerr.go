// Package ioerr defines the error taxonomy shared by the conversion engine,
// the plugin contract and the format plugins.
//
// Every fallible operation returns an error value. Errors carry a kind
// (one of the sentinel values below) and, optionally, an underlying cause.
// Both are reachable through errors.Is:
//
//	err := convert.ConvertTypes(...)
//	if errors.Is(err, ioerr.ErrUnsupportedType) {
//	    // caller asked for a basetype the engine cannot represent
//	}
//
// A Channel keeps the most recent error message for call sites that still
// poll for errors instead of inspecting returned values.
package ioerr

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Error kinds.
var (
	// ErrUnsupportedType is returned for a basetype or aggregate that the
	// requested operation cannot represent.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidLayout is returned for strides, dimensions or buffer sizes
	// that cannot describe a valid pixel region.
	ErrInvalidLayout = errors.New("invalid layout")

	// ErrAllocation is returned when a requested buffer size is negative or
	// overflows.
	ErrAllocation = errors.New("allocation failure")

	// ErrOpen is returned when a file cannot be opened or created.
	ErrOpen = errors.New("open failure")

	// ErrUnsupportedFeature is returned when a plugin is asked for a feature
	// (tiles, append, volumes) it does not provide.
	ErrUnsupportedFeature = errors.New("unsupported feature")

	// ErrIO is returned when an underlying read or write fails.
	ErrIO = errors.New("i/o failure")

	// ErrInternal marks a broken internal invariant.
	ErrInternal = errors.New("internal error")

	// ErrUnimplemented is returned by capabilities that are declared but not
	// provided.
	ErrUnimplemented = errors.New("unimplemented")

	// ErrNotOpen is returned by plugin operations issued while closed.
	ErrNotOpen = errors.New("not open")
)

// Error is a classified error. Kind is one of the sentinel values of this
// package; Err is the optional cause.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Errorf builds an Error of the given kind with a formatted message.
func Errorf(kind error, op, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause under kind. The formatted message is prefixed to the
// cause's own message. Wrap returns nil when cause is nil.
func Wrap(kind error, op string, cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return &Error{
		Kind: kind,
		Op:   op,
		Msg:  fmt.Sprintf(format, args...),
		Err:  pkgerrors.WithMessagef(cause, format, args...),
	}
}

// KindOf returns the sentinel kind of err, or nil if err was not produced by
// this package.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, k := range []error{
		ErrUnsupportedType, ErrInvalidLayout, ErrAllocation, ErrOpen,
		ErrUnsupportedFeature, ErrIO, ErrInternal, ErrUnimplemented, ErrNotOpen,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
