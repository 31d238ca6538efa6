// Package recorder provides an asynchronous worker pool that persists
// streamed questions and submitted answers using the provided storage.Driver
// and publishes question events using the provided eventstream.Publisher.
//
// The pool keeps storage and publishing off the interactive path so a slow
// database or broker never delays the next prompt.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/papercomputeco/rehearse/pkg/eventstream"
	"github.com/papercomputeco/rehearse/pkg/logger"
	"github.com/papercomputeco/rehearse/pkg/storage"
)

var (
	// A single worker keeps jobs for a session in submission order.
	defaultNumWorkers   uint = 1
	defaultJobQueueSize uint = 64

	defaultJobTimeout = 30 * time.Second
)

// Job is a unit of work for the worker pool to execute against.
// Session is always stored; Question and Answer are optional.
type Job struct {
	Session  storage.SessionState
	Question *storage.QuestionRecord
	Answer   *storage.AnswerRecord

	// Stream is published alongside Question.
	Stream eventstream.StreamMeta
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Driver is the storage backend for persisting practice state.
	Driver storage.Driver

	// Publisher receives an event for every recorded question. Optional.
	Publisher eventstream.Publisher

	// Source identifies this client in published events.
	Source eventstream.EventSource

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 64).
	QueueSize uint

	Logger *slog.Logger
}

// Pool processes recording jobs asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *slog.Logger

	closeOnce sync.Once
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Driver == nil {
		return nil, errors.New("recorder requires a storage driver")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	if c.Logger == nil {
		c.Logger = logger.Nop()
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("job queued", "session_id", job.Session.SessionID)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped", "session_id", job.Session.SessionID)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// It is safe to call more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.queue)
		p.wg.Wait()
	})
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("recorder worker started", "worker_id", id)

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("recorder worker stopped", "worker_id", id)
}

// processJob stores the session, then the question or answer, then
// publishes the question event. A storage failure skips publishing.
func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultJobTimeout)
	defer cancel()

	sessionID := job.Session.SessionID

	if err := p.config.Driver.PutSession(ctx, job.Session); err != nil {
		p.logger.Error("storing session failed", "session_id", sessionID, "error", err)
		return
	}

	if job.Answer != nil {
		if _, err := p.config.Driver.AddAnswer(ctx, *job.Answer); err != nil {
			p.logger.Error("storing answer failed", "session_id", sessionID, "error", err)
			return
		}
		p.logger.Debug("answer stored", "session_id", sessionID, "question_id", job.Answer.QuestionID)
	}

	if job.Question == nil {
		return
	}

	if _, err := p.config.Driver.AddQuestion(ctx, *job.Question); err != nil {
		p.logger.Error("storing question failed", "session_id", sessionID, "error", err)
		return
	}
	p.logger.Debug("question stored", "session_id", sessionID)

	if p.config.Publisher == nil {
		return
	}

	event := eventstream.NewQuestionStreamedEvent(
		p.config.Source,
		eventstream.SessionMeta{ID: sessionID, Title: job.Session.Title},
		eventstream.QuestionMeta{
			ID:       job.Question.QuestionID,
			Text:     job.Question.Text,
			Sentinel: job.Question.Sentinel,
		},
		job.Stream,
	)

	if err := p.config.Publisher.PublishQuestion(ctx, event); err != nil {
		p.logger.Error("publishing question event failed",
			"session_id", sessionID,
			"event_id", event.EventID,
			"error", err,
		)
	}
}
