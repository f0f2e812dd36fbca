/*
Package e2 is the error taxonomy of the cloud agent. Every failure observed at
the top-level entry points (agent creation, envelope handling and relationship
provisioning) is an *Error which carries the failure Kind, the chain of context
strings added at each propagation boundary, and the root cause.

Use errors.Is with the kind sentinels to classify a failure:

	if errors.Is(err, e2.ErrStateConflict) {
		// pairwise or route already exists
	}
*/
package e2

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the failure class of an Error.
type Kind int

const (
	Unknown Kind = iota
	ResourceProvision
	StateConflict
	NotFound
	Protocol
	Crypto
	Timeout
)

func (k Kind) String() string {
	return [...]string{"unknown", "resource provision", "state conflict",
		"not found", "protocol", "crypto", "timeout"}[k]
}

// Kind sentinels to be used with errors.Is.
var (
	ErrResourceProvision = &Error{Kind: ResourceProvision}
	ErrStateConflict     = &Error{Kind: StateConflict}
	ErrNotFound          = &Error{Kind: NotFound}
	ErrProtocol          = &Error{Kind: Protocol}
	ErrCrypto            = &Error{Kind: Crypto}
	ErrTimeout           = &Error{Kind: Timeout}
)

// ErrUnsupportedMessage is the cause of a Protocol error when a dispatched
// message has no handler.
var ErrUnsupportedMessage = errors.New("unsupported message")

// Error is a classified failure with an ordered context chain. Ctx is in
// propagation order: Ctx[0] was added closest to the root cause.
type Error struct {
	Kind Kind
	Ctx  []string
	Err  error
}

func (e *Error) Error() string {
	var sb strings.Builder
	for i := len(e.Ctx) - 1; i >= 0; i-- {
		sb.WriteString(e.Ctx[i])
		sb.WriteString(": ")
	}
	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	} else {
		sb.WriteString(e.Kind.String())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind sentinel of e. Only sentinels (no
// cause, no context) match, so two distinct failures are never equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Err != nil || len(t.Ctx) != 0 {
		return false
	}
	return t.Kind == e.Kind
}

// New creates a classified error from a message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

// Wrap classifies err and adds the first context string. It returns nil if err
// is nil.
func Wrap(kind Kind, err error, ctx string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Ctx: []string{ctx}, Err: err}
}

// Wrapf is Wrap with a formatted context string.
func Wrapf(kind Kind, err error, format string, a ...any) error {
	return Wrap(kind, err, fmt.Sprintf(format, a...))
}

// Annotate appends a context string to err keeping its Kind. A plain error is
// classified as Unknown.
func Annotate(err error, ctx string) error {
	if err == nil {
		return nil
	}
	e, ok := err.(*Error)
	if !ok {
		return Wrap(Unknown, err, ctx)
	}
	c := make([]string, len(e.Ctx), len(e.Ctx)+1)
	copy(c, e.Ctx)
	return &Error{Kind: e.Kind, Ctx: append(c, ctx), Err: e.Err}
}

// Unsupported returns the Protocol error for a message type without handler.
func Unsupported(msgType fmt.Stringer) error {
	return Wrapf(Protocol, fmt.Errorf("%w: %s", ErrUnsupportedMessage, msgType),
		"dispatch")
}

// KindOf returns the Kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
