package question

// UpdateKind tags an Update.
type UpdateKind int

const (
	// KindDelta carries a newly appended fragment of question text.
	KindDelta UpdateKind = iota

	// KindComplete carries the final question text. It is terminal.
	KindComplete

	// KindFailed carries the error that ended the stream. It is terminal.
	KindFailed
)

func (k UpdateKind) String() string {
	switch k {
	case KindDelta:
		return "delta"
	case KindComplete:
		return "complete"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Update is one element of a question stream delivered as a sequence.
// A sequence holds zero or more deltas followed by exactly one Complete or
// Failed element, unless the consumer stops early.
type Update struct {
	Kind UpdateKind
	Text string
	Err  error
}

// Delta returns a KindDelta update.
func Delta(text string) Update {
	return Update{Kind: KindDelta, Text: text}
}

// Complete returns a KindComplete update.
func Complete(text string) Update {
	return Update{Kind: KindComplete, Text: text}
}

// Failed returns a KindFailed update.
func Failed(err error) Update {
	return Update{Kind: KindFailed, Err: err}
}

// Terminal reports whether u ends a sequence.
func (u Update) Terminal() bool {
	return u.Kind == KindComplete || u.Kind == KindFailed
}
