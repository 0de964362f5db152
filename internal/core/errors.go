package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies lookup failures.
type ErrorKind string

const (
	KindDeserialization ErrorKind = "deserialization"
	KindTransport       ErrorKind = "transport"
	KindAPIUnsuccessful ErrorKind = "api_unsuccessful"
	KindNotFound        ErrorKind = "not_found"
)

// ErrNotFound reports that no matching entity exists. It is an expected
// outcome, not a malfunction.
var ErrNotFound = errors.New("not found")

// ErrAPIUnsuccessful reports a 2xx response whose own success flag was false.
var ErrAPIUnsuccessful = errors.New("api unsuccessful")

// SourceError is a hard error raised by one source.
type SourceError struct {
	Source SourceKind
	Kind   ErrorKind
	Err    error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError wraps err as a hard error of the given kind.
func NewSourceError(source SourceKind, kind ErrorKind, err error) *SourceError {
	return &SourceError{Source: source, Kind: kind, Err: err}
}

// IsNotFound reports whether err means "no data" rather than a malfunction.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// KindOf classifies err. Unclassified errors count as transport failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var sourceErr *SourceError
	if errors.As(err, &sourceErr) {
		return sourceErr.Kind
	}
	if IsNotFound(err) {
		return KindNotFound
	}
	if errors.Is(err, ErrAPIUnsuccessful) {
		return KindAPIUnsuccessful
	}
	return KindTransport
}

// GroupNotFoundError reports that no source knew any alias of a group.
type GroupNotFoundError struct {
	Group NameGroup
}

func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("no source found %q", e.Group.String())
}

func (e *GroupNotFoundError) Unwrap() error {
	return ErrNotFound
}
