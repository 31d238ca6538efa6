// Package question assembles the text of a streamed interview question from
// decoded SSE events.
package question

import (
	"errors"
	"strings"

	"github.com/papercomputeco/rehearse/pkg/sse"
)

// Sentinel is the data payload of the message event that ends a stream.
const Sentinel = "[DONE]"

// ErrEmptyResult is returned by Finish when the stream ended without the
// sentinel and without any question text.
var ErrEmptyResult = errors.New("stream ended without question content")

// Outcome is the result of one stream.
type Outcome struct {
	// Text is the ordered concatenation of every message payload.
	Text string

	// Complete is set once the outcome is final.
	Complete bool

	// Sentinel reports whether completion came from the [DONE] event. When
	// false the stream ended early and the outcome is a degraded success.
	Sentinel bool
}

// Assembler folds decoded events into an Outcome. It is single use: create
// one per stream and discard it once the stream has finished.
type Assembler struct {
	text    strings.Builder
	done    bool
	sawDone bool
	onDelta func(delta string)
}

// NewAssembler returns an Assembler that calls onDelta with every appended
// payload. onDelta may be nil.
func NewAssembler(onDelta func(delta string)) *Assembler {
	return &Assembler{onDelta: onDelta}
}

// Accept consumes one event in arrival order and reports whether the stream
// is done. Events after completion are ignored.
func (a *Assembler) Accept(ev sse.Event) bool {
	if a.done {
		return true
	}

	// Other event types are tolerated for forward compatibility.
	if ev.Type != sse.TypeMessage {
		return false
	}

	if ev.Data == Sentinel {
		a.done = true
		a.sawDone = true
		return true
	}

	if ev.Data == "" {
		return false
	}

	a.text.WriteString(ev.Data)
	if a.onDelta != nil {
		a.onDelta(ev.Data)
	}

	return false
}

// Done reports whether the sentinel has been seen.
func (a *Assembler) Done() bool {
	return a.done
}

// Text returns the text accumulated so far.
func (a *Assembler) Text() string {
	return a.text.String()
}

// Finish closes the assembler once the source is exhausted or the sentinel
// arrived. Without a sentinel, non-blank accumulated text still completes the
// outcome. Text made only of whitespace counts as no text and yields
// ErrEmptyResult, even though its fragments were already delivered.
func (a *Assembler) Finish() (Outcome, error) {
	if a.sawDone {
		return Outcome{Text: a.text.String(), Complete: true, Sentinel: true}, nil
	}

	a.done = true

	text := a.text.String()
	if strings.TrimSpace(text) == "" {
		return Outcome{Text: text}, ErrEmptyResult
	}

	return Outcome{Text: text, Complete: true}, nil
}
