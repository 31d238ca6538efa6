package eventstream

import "errors"

// ErrNilQuestionEvent indicates a nil question event payload was provided to a publisher.
var ErrNilQuestionEvent = errors.New("nil question event")
