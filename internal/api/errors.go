package api

import "fmt"

// Kind classifies an API failure.
type Kind int

const (
	// KindFailure is a generic request failure (validation, bad input,
	// server-side errors with a message).
	KindFailure Kind = iota

	// KindUnauthorized means the server rejected the bearer token.
	// The gateway has already torn down the persisted session.
	KindUnauthorized

	// KindForbidden means the server understood the request but refused it.
	KindForbidden

	// KindNotFound means the addressed resource does not exist.
	KindNotFound

	// KindTransport means no response was received at all.
	KindTransport
)

// Error is a failed API call: the server-supplied message when one exists,
// a per-field validation map when the server sent one, and a kind for the
// caller to branch on.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Errors  map[string]string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return "api: " + e.Message
}

// Result is the uniform outcome shape every manager operation returns.
// Nothing propagates past the manager boundary as an error or panic.
type Result struct {
	Success bool
	Message string
	Errors  map[string]string

	// Kind carries the failure classification for callers that map
	// outcomes to exit codes. Zero on success.
	Kind Kind
}

// OK is a successful Result.
func OK() Result {
	return Result{Success: true}
}

// Failed converts an error into a failure Result, substituting fallback
// when there is no server-supplied message.
func Failed(err error, fallback string) Result {
	res := Result{Message: fallback}
	if apiErr, ok := err.(*Error); ok {
		if apiErr.Message != "" {
			res.Message = apiErr.Message
		}
		res.Errors = apiErr.Errors
		res.Kind = apiErr.Kind
	}
	return res
}
