package toolerr

import (
	"errors"
	"fmt"
)

// Kind classifies a tool failure.
type Kind string

const (
	// KindValidation indicates malformed or unsupported input: empty required
	// strings, negative limit/offset, invalid regular expressions, projection
	// against multiple records, unsupported enum values.
	KindValidation Kind = "invalid input"

	// KindNotFound indicates a requested resource is absent, such as an
	// archive member that does not exist in a package tarball.
	KindNotFound Kind = "not found"

	// KindUpstream indicates any other failure from a wrapped library,
	// network call, or external process.
	KindUpstream Kind = "upstream failure"
)

// Error is the single error type carried across tool boundaries.
type Error struct {
	Kind Kind
	Err  error
}

// Compile-time verification that Error supports unwrapping.
var _ interface{ Unwrap() error } = (*Error)(nil)

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validationf returns a KindValidation error with a formatted message.
func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Err: fmt.Errorf(format, args...)}
}

// NotFoundf returns a KindNotFound error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Err: fmt.Errorf(format, args...)}
}

// Upstream wraps err as a KindUpstream error. A nil err returns nil.
func Upstream(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindUpstream, Err: err}
}

// Upstreamf returns a KindUpstream error with a formatted message.
func Upstreamf(format string, args ...any) error {
	return &Error{Kind: KindUpstream, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the classification of err. Unclassified errors, including
// nil, are reported as KindUpstream so that unexpected failures from wrapped
// libraries never masquerade as caller mistakes.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUpstream
}
