package sse

import "strings"

const (
	eventField = "event:"
	dataField  = "data:"
)

// DecodeFrame extracts the event type and data payload from one frame.
//
// Leading whitespace and a trailing "\r" are stripped from each line before
// the field prefix is matched. The event type is fully trimmed. For data, a
// single space after the colon is removed as the SSE format prescribes; any
// further whitespace belongs to the payload, so "data:  me" decodes to " me".
// Trailing whitespace is kept as well: "data: Tell " decodes to "Tell ", and
// the space joins it to the next fragment.
//
// Unrecognized lines are ignored. The stream sends at most one data line per
// frame; if a frame carries several, the last one wins.
func DecodeFrame(frame string) Event {
	var ev Event

	for line := range strings.SplitSeq(frame, "\n") {
		line = strings.TrimLeft(strings.TrimSuffix(line, "\r"), " \t")

		switch {
		case strings.HasPrefix(line, eventField):
			ev.Type = strings.TrimSpace(line[len(eventField):])
		case strings.HasPrefix(line, dataField):
			ev.Data = strings.TrimPrefix(line[len(dataField):], " ")
		}
	}

	return ev
}
