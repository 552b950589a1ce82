// Package errkind classifies infracore errors into the small, stable taxonomy
// every contract in this module reports through (invalid-argument, invalid-state,
// type-mismatch, serialization, timeout, cancelled, transport). Callers branch on
// Kind, not on error identity or string matching.
package errkind

import "github.com/cockroachdb/errors"

// Kind is one of the seven error categories every core contract may report.
type Kind int

const (
	// Unknown is the zero value: an error nobody tagged with a Kind.
	Unknown Kind = iota
	// InvalidArgument marks a synchronous, side-effect-free rejection of the call
	// (empty key, null collection, non-positive page size, cross-type numeric op).
	InvalidArgument
	// InvalidState marks an operation attempted against an entry that cannot
	// legally accept it (complete/abandon on an already-resolved queue entry).
	InvalidState
	// TypeMismatch marks a list op on a non-list key, or a numeric op against a
	// stored payload that isn't a compatible number.
	TypeMismatch
	// Serialization marks an encode or strict-mode decode failure.
	Serialization
	// Timeout marks a dequeue/acquire that exceeded its window.
	Timeout
	// Cancelled marks a cancellation token firing mid-operation.
	Cancelled
	// Transport marks an underlying bus or remote cache I/O failure.
	Transport
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid-argument"
	case InvalidState:
		return "invalid-state"
	case TypeMismatch:
		return "type-mismatch"
	case Serialization:
		return "serialization"
	case Timeout:
		return "timeout"
	case Cancelled:
		return "cancelled"
	case Transport:
		return "transport"
	default:
		return "unknown"
	}
}

// kindedError pairs an error with its Kind so KindOf can recover it.
type kindedError struct {
	kind Kind
	err  error
}

func (e *kindedError) Error() string { return e.err.Error() }
func (e *kindedError) Unwrap() error { return e.err }

// New builds a Kind-tagged error from a message, the same way the teacher's
// packages define package-level sentinel errors (e.g. compressor.ErrIncompressible).
func New(kind Kind, msg string) error {
	return &kindedError{kind: kind, err: errors.New(msg)}
}

// Newf builds a Kind-tagged error with formatting.
func Newf(kind Kind, format string, args ...any) error {
	return &kindedError{kind: kind, err: errors.Newf(format, args...)}
}

// Wrap tags an existing error with a Kind without discarding its cause chain.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &kindedError{kind: kind, err: errors.Wrap(err, msg)}
}

// KindOf walks the error's Unwrap chain looking for the first Kind tag.
// Untagged errors (including nil) report Unknown.
func KindOf(err error) Kind {
	var ke *kindedError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return Unknown
}

// Is reports whether err is tagged with kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
