// Package sse provides the small subset of SSE (Server-Sent Events) parsing
// that rehearse needs to consume the question stream: blank-line framing over
// a growing text buffer, and "event:" / "data:" field extraction.
//
// This package intentionally does NOT provide a general SSE client, writer,
// or reconnection support. "id:" and "retry:" fields are ignored.
//
// See the Server-Sent Events format:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

const (
	// FrameSeparator is the blank line that terminates every frame.
	FrameSeparator = "\n\n"

	// TypeMessage is the only event type that carries question text.
	TypeMessage = "message"
)

// Event is a single decoded frame.
type Event struct {
	// Type is the value of the "event:" field. Unlike browser EventSource there is
	// no implicit "message" default: a frame without an "event:" line has an
	// empty Type.
	Type string

	// Data is the value of the "data:" field.
	Data string
}
