package interview

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/papercomputeco/rehearse/pkg/question"
)

var (
	// ErrNoCredential is returned before any request is made when no session
	// token is stored.
	ErrNoCredential = errors.New("not logged in: no session token")

	// ErrEmptyResult is returned when a stream ends without the sentinel and
	// without any question text.
	ErrEmptyResult = question.ErrEmptyResult

	// ErrNoQuestion is returned when an answer is submitted before the
	// current question's identifier is known.
	ErrNoQuestion = errors.New("answer cannot yet be submitted: question identifier unknown")

	// ErrStreamTimeout is the cause of a stream that ran past its total
	// timeout.
	ErrStreamTimeout = errors.New("question stream timed out")

	// ErrStreamIdle is the cause of a stream that went quiet for longer than
	// the idle timeout.
	ErrStreamIdle = errors.New("question stream idle for too long")
)

// TransportError reports that the stream could not be opened or read.
type TransportError struct {
	// StatusCode is set when the server answered with a non-2xx status.
	StatusCode int

	Reason string
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("question stream: HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil && e.Reason != "":
		return fmt.Sprintf("question stream: %s: %v", e.Reason, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("question stream: %v", e.Err)
	default:
		return "question stream: " + e.Reason
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolDecodeError reports bytes that are not valid UTF-8 text.
type ProtocolDecodeError struct {
	Err error
}

func (e *ProtocolDecodeError) Error() string {
	return fmt.Sprintf("question stream: decoding: %v", e.Err)
}

func (e *ProtocolDecodeError) Unwrap() error {
	return e.Err
}

// ReconciliationError reports that the identifier of a freshly streamed
// question could not be determined. It never fails a stream.
type ReconciliationError struct {
	SessionID int64
	Err       error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciling question id for session %d: %v", e.SessionID, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// APIError is a failed JSON API call, either at the HTTP level or inside a
// successful response envelope.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s %s: code %d: %s", e.Method, e.Path, e.Code, msg)
}

// Unauthorized reports whether the stored token was rejected.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}
