// Package inmemory provides a storage driver that keeps state in process
// memory. It backs tests and the "memory" storage provider.
package inmemory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/papercomputeco/rehearse/pkg/storage"
)

// Driver implements storage.Driver using in-memory maps.
type Driver struct {
	// mu is a read write sync mutex guarding every map below
	mu sync.RWMutex

	sessions  map[int64]storage.SessionState
	questions map[int64][]storage.QuestionRecord
	answers   map[int64][]storage.AnswerRecord

	// nextID allocates question and answer IDs
	nextID int64
}

// NewDriver creates a new in-memory store.
func NewDriver() *Driver {
	return &Driver{
		sessions:  make(map[int64]storage.SessionState),
		questions: make(map[int64][]storage.QuestionRecord),
		answers:   make(map[int64][]storage.AnswerRecord),
	}
}

// PutSession implements storage.Driver.
func (d *Driver) PutSession(_ context.Context, st storage.SessionState) error {
	if st.SessionID == 0 {
		return errors.New("cannot store session without id")
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now()
	}
	st.CurrentQuestionID = clone(st.CurrentQuestionID)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.sessions[st.SessionID] = st
	return nil
}

// GetSession implements storage.Driver.
func (d *Driver) GetSession(_ context.Context, sessionID int64) (*storage.SessionState, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	st, ok := d.sessions[sessionID]
	if !ok {
		return nil, storage.NotFoundError{SessionID: sessionID}
	}

	st.CurrentQuestionID = clone(st.CurrentQuestionID)
	return &st, nil
}

// ListSessions implements storage.Driver.
func (d *Driver) ListSessions(_ context.Context) ([]storage.SessionState, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]storage.SessionState, 0, len(d.sessions))
	for _, st := range d.sessions {
		st.CurrentQuestionID = clone(st.CurrentQuestionID)
		out = append(out, st)
	}

	slices.SortFunc(out, func(a, b storage.SessionState) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.SessionID, a.SessionID)
	})

	return out, nil
}

// DeleteSession implements storage.Driver.
func (d *Driver) DeleteSession(_ context.Context, sessionID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.sessions, sessionID)
	delete(d.questions, sessionID)
	delete(d.answers, sessionID)
	return nil
}

// AddQuestion implements storage.Driver.
func (d *Driver) AddQuestion(_ context.Context, q storage.QuestionRecord) (int64, error) {
	if q.StreamedAt.IsZero() {
		q.StreamedAt = time.Now()
	}
	q.QuestionID = clone(q.QuestionID)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	q.ID = d.nextID
	d.questions[q.SessionID] = append(d.questions[q.SessionID], q)
	return q.ID, nil
}

// Questions implements storage.Driver.
func (d *Driver) Questions(_ context.Context, sessionID int64) ([]storage.QuestionRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := slices.Clone(d.questions[sessionID])
	for i := range out {
		out[i].QuestionID = clone(out[i].QuestionID)
	}
	return out, nil
}

// AddAnswer implements storage.Driver.
func (d *Driver) AddAnswer(_ context.Context, a storage.AnswerRecord) (int64, error) {
	if a.AnsweredAt.IsZero() {
		a.AnsweredAt = time.Now()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	a.ID = d.nextID
	d.answers[a.SessionID] = append(d.answers[a.SessionID], a)
	return a.ID, nil
}

// Answers implements storage.Driver.
func (d *Driver) Answers(_ context.Context, sessionID int64) ([]storage.AnswerRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return slices.Clone(d.answers[sessionID]), nil
}

// Close implements storage.Driver.
func (d *Driver) Close() error {
	return nil
}

func clone(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
