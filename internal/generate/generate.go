// Package generate turns a prompt into story text. It defines the client
// contract used by the reader and the failure taxonomy surfaced to users.
package generate

import (
	"context"
	"errors"
	"fmt"
)

// Client produces narrative text for a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Kind classifies a generation failure.
type Kind int

const (
	// KindTransport covers network failures and unexpected service responses.
	KindTransport Kind = iota
	// KindAuth covers rejected or missing credentials.
	KindAuth
	// KindMalformed covers responses without usable text.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuth:
		return "auth"
	case KindMalformed:
		return "malformed"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by every Client for a failed generation.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "generation failed (" + e.Kind.String() + ")"
	}
	return "generation failed (" + e.Kind.String() + "): " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns a short explanation suitable for showing to a reader.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindAuth:
		return "Could not generate story: the API key was rejected."
	case KindMalformed:
		return "Could not generate story: the service returned no text."
	}
	return "Could not generate story: the service could not be reached."
}

// ErrEmptyResponse is wrapped by KindMalformed errors when no text came back.
var ErrEmptyResponse = errors.New("empty response")

func failure(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// IsKind reports whether err is a generation Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Kind == kind
}

// UserMessage explains err to a reader. Errors that did not come from a
// Client get a generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge.UserMessage()
	}
	return "Could not generate story."
}
