package interview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/papercomputeco/rehearse/pkg/utils"
)

// envelope wraps every JSON response.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// ok reports success. The backend uses code 1 for success; some handlers
// return the zero value with no message.
func (e envelope) ok() bool {
	return e.Code == 1 || (e.Code == 0 && e.Msg == "")
}

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// do issues a JSON request and decodes the envelope's data into out, which
// may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	tok, err := c.token()
	if err != nil {
		return err
	}
	if tok != "" {
		req.Header.Set(authHeader, tok)
	}
	req.Header.Set("User-Agent", utils.UserAgent())

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var env envelope
		if json.Unmarshal(raw, &env) == nil {
			apiErr.Code = env.Code
			apiErr.Message = env.Msg
		}
		c.logger.Debug("api error", "method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) && out == nil {
			return nil
		}
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}

	if !env.ok() {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Code: env.Code, Message: env.Msg}
	}

	if out == nil || len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decoding data: %w", method, path, err)
	}

	return nil
}

// Login exchanges a username and password for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("login succeeded without a token")
	}
	return &resp, nil
}

// Logout invalidates the current token on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Profile returns the authenticated user.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateSession creates a session in the CREATED state.
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	return c.session(ctx, http.MethodPost, "/interview/create", req)
}

// StartSession moves a session to IN_PROGRESS.
func (c *Client) StartSession(ctx context.Context, id int64) (*Session, error) {
	return c.session(ctx, http.MethodPost, sessionPath(id, "/start"), nil)
}

// FinishSession moves a session to COMPLETED, which triggers report
// generation on the backend.
func (c *Client) FinishSession(ctx context.Context, id int64) (*Session, error) {
	return c.session(ctx, http.MethodPost, sessionPath(id, "/finish"), nil)
}

// GetSession returns one session, including its report once generated.
func (c *Client) GetSession(ctx context.Context, id int64) (*Session, error) {
	return c.session(ctx, http.MethodGet, sessionPath(id, ""), nil)
}

func (c *Client) session(ctx context.Context, method, path string, body any) (*Session, error) {
	var s Session
	if err := c.do(ctx, method, path, body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSessions returns the user's sessions.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var sessions []Session
	if err := c.do(ctx, http.MethodGet, "/interview/list", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// DeleteSession deletes a session and its questions.
func (c *Client) DeleteSession(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, sessionPath(id, ""), nil, nil)
}

// ListQuestions returns the persisted questions of a session in backend
// order.
func (c *Client) ListQuestions(ctx context.Context, sessionID int64) ([]Question, error) {
	var questions []Question
	if err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "/questions"), nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// ListEvaluations returns the evaluations of every answered question.
func (c *Client) ListEvaluations(ctx context.Context, sessionID int64) ([]Evaluation, error) {
	var evals []Evaluation
	if err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "/evaluations"), nil, &evals); err != nil {
		return nil, err
	}
	return evals, nil
}

// SubmitAnswer submits an answer to a question and returns its evaluation.
func (c *Client) SubmitAnswer(ctx context.Context, sub AnswerSubmission) (*Evaluation, error) {
	if sub.QuestionID == 0 {
		return nil, ErrNoQuestion
	}

	var eval Evaluation
	if err := c.do(ctx, http.MethodPost, "/interview/submit-answer", sub, &eval); err != nil {
		return nil, err
	}
	return &eval, nil
}

// AnswerCurrent answers the session's current question. It fails with
// ErrNoQuestion until a streamed question has been reconciled.
func (c *Client) AnswerCurrent(ctx context.Context, session *Session, answer string) (*Evaluation, error) {
	if session == nil || session.CurrentQuestionID == nil {
		return nil, ErrNoQuestion
	}
	return c.SubmitAnswer(ctx, AnswerSubmission{QuestionID: *session.CurrentQuestionID, UserAnswer: answer})
}

// ListPositions returns the positions the user can practice for. Blank
// requirements and skills are dropped.
func (c *Client) ListPositions(ctx context.Context) ([]Position, error) {
	var positions []Position
	if err := c.do(ctx, http.MethodGet, "/positions", nil, &positions); err != nil {
		return nil, err
	}

	blank := func(s string) bool { return strings.TrimSpace(s) == "" }
	for i := range positions {
		positions[i].Requirements = slices.DeleteFunc(positions[i].Requirements, blank)
		positions[i].Skills = slices.DeleteFunc(positions[i].Skills, blank)
	}

	return positions, nil
}
