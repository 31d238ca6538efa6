package interview

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/papercomputeco/rehearse/pkg/question"
	"github.com/papercomputeco/rehearse/pkg/sse"
	"github.com/papercomputeco/rehearse/pkg/utils"
)

const (
	tracerName = "github.com/papercomputeco/rehearse/pkg/interview"

	// readSize is the largest chunk handed to the frame buffer per read.
	readSize = 4 << 10
)

// OpenQuestionStream asks the backend to generate the next question of a
// session and returns the event stream body. The caller must close it.
//
// It fails with ErrNoCredential before any request is made when no token is
// stored, and with *TransportError for network failures, non-2xx statuses
// and bodiless responses.
func (c *Client) OpenQuestionStream(ctx context.Context, sessionID int64) (io.ReadCloser, error) {
	tok, err := c.token()
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, ErrNoCredential
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(sessionPath(sessionID, "/next-question-stream")), nil)
	if err != nil {
		return nil, &TransportError{Reason: "creating request", Err: err}
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set(authHeader, tok)
	req.Header.Set("User-Agent", utils.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Reason: "sending request", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &TransportError{StatusCode: resp.StatusCode}
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, &TransportError{Reason: "no body"}
	}

	return resp.Body, nil
}

// Streamer streams questions and reconciles them with their session.
type Streamer struct {
	client     *Client
	reconciler Reconciler
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewStreamer creates a Streamer. A nil reconciler defaults to a
// HighestIDReconciler backed by client.
func NewStreamer(client *Client, reconciler Reconciler) *Streamer {
	if reconciler == nil {
		reconciler = HighestIDReconciler{Questions: client}
	}

	return &Streamer{
		client:     client,
		reconciler: reconciler,
		logger:     client.logger,
		tracer:     otel.Tracer(tracerName),
	}
}

// StreamNextQuestion streams the next question of session.
//
// onChunk receives every fragment of question text in order. Once the
// stream completes, session.CurrentQuestionID is cleared and then set by
// the Reconciler, after which onComplete receives the full text exactly
// once. A failed reconciliation is logged and leaves the identifier unset;
// it does not fail the call.
//
// On error neither further onChunk calls nor onComplete happen. The error
// is ErrNoCredential, *TransportError, *ProtocolDecodeError, ErrEmptyResult,
// or ctx.Err() when ctx was cancelled. Either callback may be nil.
func (s *Streamer) StreamNextQuestion(ctx context.Context, session *Session, onChunk, onComplete func(string)) error {
	outcome, err := s.NextQuestion(ctx, session, onChunk)
	if err != nil {
		return err
	}

	if onComplete != nil {
		onComplete(outcome.Text)
	}

	return nil
}

// NextQuestion is StreamNextQuestion returning the completed outcome, which
// also records whether the stream ended with the sentinel.
func (s *Streamer) NextQuestion(ctx context.Context, session *Session, onChunk func(string)) (question.Outcome, error) {
	if session == nil {
		return question.Outcome{}, errors.New("streaming question: nil session")
	}

	ctx, span := s.tracer.Start(ctx, "interview.StreamNextQuestion",
		trace.WithAttributes(attribute.Int64("interview.session_id", session.ID)))
	defer span.End()

	outcome, err := s.stream(ctx, session.ID, onChunk)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Debug("question stream failed", "session_id", session.ID, "error", err)
		return question.Outcome{}, err
	}

	span.SetAttributes(
		attribute.Int("interview.question_length", len(outcome.Text)),
		attribute.Bool("interview.sentinel", outcome.Sentinel),
	)
	if !outcome.Sentinel {
		s.logger.Warn("question stream ended without sentinel", "session_id", session.ID)
	}

	if err := ctx.Err(); err != nil {
		return question.Outcome{}, err
	}

	session.CurrentQuestionID = nil
	if err := s.reconciler.Reconcile(ctx, session); err != nil {
		span.AddEvent("reconciliation failed", trace.WithAttributes(attribute.String("error", err.Error())))
		s.logger.Warn("could not determine question id", "session_id", session.ID, "error", err)
	} else if session.CurrentQuestionID != nil {
		span.SetAttributes(attribute.Int64("interview.question_id", *session.CurrentQuestionID))
	}

	if err := ctx.Err(); err != nil {
		return question.Outcome{}, err
	}

	return outcome, nil
}

// Stream is StreamNextQuestion as a sequence: zero or more question.Delta
// updates followed by one question.Complete or question.Failed. Breaking out
// of the loop early cancels the request.
func (s *Streamer) Stream(ctx context.Context, session *Session) iter.Seq[question.Update] {
	return func(yield func(question.Update) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		stopped := false
		err := s.StreamNextQuestion(ctx, session,
			func(delta string) {
				if stopped {
					return
				}
				if !yield(question.Delta(delta)) {
					stopped = true
					cancel()
				}
			},
			func(text string) {
				if !stopped {
					stopped = !yield(question.Complete(text))
				}
			},
		)

		if err != nil && !stopped {
			yield(question.Failed(err))
		}
	}
}

// stream runs one request through the frame buffer and assembler.
func (s *Streamer) stream(parent context.Context, sessionID int64, onChunk func(string)) (question.Outcome, error) {
	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)

	if s.client.timeout > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeoutCause(ctx, s.client.timeout, ErrStreamTimeout)
		defer stop()
	}

	body, err := s.client.OpenQuestionStream(ctx, sessionID)
	if err != nil {
		return question.Outcome{}, failure(parent, ctx, err)
	}
	defer body.Close()

	resetIdle := func() {}
	if s.client.idleTimeout > 0 {
		idle := s.client.idleTimeout
		timer := time.AfterFunc(idle, func() { cancel(ErrStreamIdle) })
		defer timer.Stop()
		resetIdle = func() { timer.Reset(idle) }
	}

	src := &bodyReader{r: body}
	text := transform.NewReader(src, encoding.UTF8Validator)

	asm := question.NewAssembler(onChunk)
	var buf sse.Buffer
	chunk := make([]byte, readSize)

	for !asm.Done() {
		n, rerr := text.Read(chunk)
		resetIdle()

		if err := parent.Err(); err != nil {
			return question.Outcome{}, err
		}

		if n > 0 {
			buf.WriteString(string(chunk[:n]))
			feed(asm, buf.Frames())
		}

		if errors.Is(rerr, io.EOF) {
			feed(asm, buf.Flush())
			break
		}

		if rerr != nil {
			if src.err == nil {
				return question.Outcome{}, &ProtocolDecodeError{Err: rerr}
			}
			return question.Outcome{}, failure(parent, ctx, &TransportError{Reason: "reading stream", Err: rerr})
		}
	}

	return asm.Finish()
}

// feed decodes frames in order until the assembler is done.
func feed(asm *question.Assembler, frames []string) {
	for _, frame := range frames {
		if asm.Accept(sse.DecodeFrame(frame)) {
			return
		}
	}
}

// failure maps an error raised after ctx was cancelled to the reason for
// the cancellation.
func failure(parent, ctx context.Context, err error) error {
	if perr := parent.Err(); perr != nil {
		return perr
	}

	if errors.Is(err, ErrNoCredential) {
		return err
	}

	if cause := context.Cause(ctx); cause != nil {
		return &TransportError{Reason: "aborted", Err: cause}
	}

	return err
}

// bodyReader remembers the last non-EOF error of the response body so read
// failures can be told apart from decode failures.
type bodyReader struct {
	r   io.Reader
	err error
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		b.err = err
	}
	return n, err
}
