package api

import "fmt"

// Kind classifies a failed API call.
type Kind int

const (
	// KindNetwork marks transport-level failures: the request never
	// produced a parseable response.
	KindNetwork Kind = iota
	// KindRejected marks responses that parsed but carried success=false
	// or a failure status code.
	KindRejected
)

// Error is the failure type returned by Client. Transport failures and
// server rejections resolve to the same type so callers can treat them
// identically, per the dashboard's failure handling.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Message is user-facing: the server's message when present, a
	// generic fallback otherwise.
	Message string
	// StatusCode is the HTTP status, 0 for transport failures.
	StatusCode int
	// Err is the underlying transport error, nil for rejections.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api: %s: %v", e.Message, e.Err)
	}
	return "api: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns the message to surface in a notification.
func (e *Error) UserMessage() string { return e.Message }

func networkError(msg string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: msg, Err: err}
}

func rejectedError(status int, msg, fallback string) *Error {
	if msg == "" {
		msg = fallback
	}
	return &Error{Kind: KindRejected, Message: msg, StatusCode: status}
}
