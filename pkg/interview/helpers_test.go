package interview_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/credentials"
	"github.com/papercomputeco/rehearse/pkg/interview"
)

const testBaseURL = "http://backend.test/api"

// chunkedBody returns exactly one chunk per Read call, then EOF or failErr.
type chunkedBody struct {
	mu      sync.Mutex
	chunks  [][]byte
	failErr error
	closed  atomic.Bool
}

func newChunkedBody(chunks ...string) *chunkedBody {
	b := &chunkedBody{}
	for _, c := range chunks {
		b.chunks = append(b.chunks, []byte(c))
	}
	return b
}

func (b *chunkedBody) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.chunks) == 0 {
		if b.failErr != nil {
			return 0, b.failErr
		}
		return 0, io.EOF
	}

	n := copy(p, b.chunks[0])
	if n < len(b.chunks[0]) {
		b.chunks[0] = b.chunks[0][n:]
	} else {
		b.chunks = b.chunks[1:]
	}
	return n, nil
}

func (b *chunkedBody) Close() error {
	b.closed.Store(true)
	return nil
}

// fakeBackend routes requests by path and records what it saw.
type fakeBackend struct {
	mu        sync.Mutex
	stream    func() (int, io.ReadCloser)
	questions func() (int, string)
	requests  []*http.Request
}

func (f *fakeBackend) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	resp := &http.Response{
		Request: req,
		Header:  http.Header{},
	}

	switch {
	case strings.HasSuffix(req.URL.Path, "/next-question-stream"):
		resp.StatusCode, resp.Body = f.stream()
		resp.Header.Set("Content-Type", "text/event-stream")
	case strings.HasSuffix(req.URL.Path, "/questions"):
		code, body := http.StatusOK, `{"code":1,"msg":"success","data":[]}`
		if f.questions != nil {
			code, body = f.questions()
		}
		resp.StatusCode = code
		resp.Body = io.NopCloser(strings.NewReader(body))
	default:
		resp.StatusCode = http.StatusNotFound
		resp.Body = io.NopCloser(strings.NewReader(`{"code":0,"msg":"not found"}`))
	}

	return resp, nil
}

func (f *fakeBackend) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.requests {
		out = append(out, r.URL.Path)
	}
	return out
}

func streamOf(chunks ...string) func() (int, io.ReadCloser) {
	return func() (int, io.ReadCloser) {
		return http.StatusOK, newChunkedBody(chunks...)
	}
}

func questionsJSON(ids ...int64) func() (int, string) {
	return func() (int, string) {
		qs := make([]interview.Question, 0, len(ids))
		for _, id := range ids {
			qs = append(qs, interview.Question{ID: id, QuestionText: "q"})
		}
		data, err := json.Marshal(map[string]any{"code": 1, "msg": "success", "data": qs})
		Expect(err).NotTo(HaveOccurred())
		return http.StatusOK, string(data)
	}
}

func newTestClient(rt http.RoundTripper, token string) *interview.Client {
	return newTestClientWithTimeouts(rt, token, 0, 0)
}

func newTestClientWithTimeouts(rt http.RoundTripper, token string, timeout, idle time.Duration) *interview.Client {
	c, err := interview.NewClient(interview.Config{
		BaseURL:     testBaseURL,
		Tokens:      credentials.StaticToken(token),
		HTTPClient:  &http.Client{Transport: rt},
		Timeout:     timeout,
		IdleTimeout: idle,
	})
	Expect(err).NotTo(HaveOccurred())
	return c
}

// recorder captures callback invocations in order.
type recorder struct {
	mu        sync.Mutex
	chunks    []string
	completes []string
}

func (r *recorder) onChunk(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, s)
}

func (r *recorder) onComplete(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completes = append(r.completes, s)
}

func (r *recorder) joined() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.chunks, "")
}

var errConnReset = errors.New("connection reset by peer")
