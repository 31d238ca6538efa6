package mockserver

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/rehearse/pkg/interview"
)

const (
	authHeader = "authentication"

	userIDKey = "userID"
	tokenKey  = "token"

	codeOK   = 1
	codeFail = 0
)

// response is the envelope every JSON endpoint returns.
type response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(response{Code: codeOK, Msg: "success", Data: data})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(response{Code: codeFail, Msg: msg})
}

// failErr maps a state error to its HTTP status.
func failErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errSessionNotFound), errors.Is(err, errQuestionUnknown):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, errNotInProgress), errors.Is(err, errAllAnswered),
		errors.Is(err, errSessionClosed), errors.Is(err, errAlreadyAnswered):
		return fail(c, fiber.StatusConflict, err.Error())
	default:
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
}

// requireToken rejects requests without a known token.
func (s *Server) requireToken(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Get(authHeader))
	if token == "" {
		return fail(c, fiber.StatusUnauthorized, "missing authentication token")
	}

	userID, found := s.state.userForToken(token)
	if !found {
		return fail(c, fiber.StatusUnauthorized, "invalid or expired token")
	}

	c.Locals(userIDKey, userID)
	c.Locals(tokenKey, token)
	return c.Next()
}

func userID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(userIDKey).(int64)
	return id
}

func sessionID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session id %q", c.Params("id"))
	}
	return id, nil
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req interview.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "username and password are required")
	}

	resp := s.state.login(strings.TrimSpace(req.Username))
	s.logger.Debug("user logged in", "username", req.Username, "user_id", resp.UserID)
	return ok(c, resp)
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	token, _ := c.Locals(tokenKey).(string)
	s.state.logout(token)
	return ok(c, nil)
}

func (s *Server) handleProfile(c *fiber.Ctx) error {
	u, found := s.state.user(userID(c))
	if !found {
		return fail(c, fiber.StatusNotFound, "user not found")
	}
	return ok(c, u)
}

func (s *Server) handlePositions(c *fiber.Ctx) error {
	return ok(c, s.bank.Positions())
}

func (s *Server) handleCreate(c *fiber.Ctx) error {
	var req interview.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Position) == "" {
		return fail(c, fiber.StatusBadRequest, "position is required")
	}
	return ok(c, s.state.create(userID(c), req))
}

func (s *Server) handleList(c *fiber.Ctx) error {
	return ok(c, s.state.list(userID(c)))
}

func (s *Server) handleGetSession(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	session, err := s.state.session(userID(c), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, session)
}

func (s *Server) handleDeleteSession(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if err := s.state.remove(userID(c), id); err != nil {
		return failErr(c, err)
	}
	return ok(c, nil)
}

func (s *Server) handleStart(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	session, err := s.state.start(userID(c), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, session)
}

func (s *Server) handleFinish(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	session, err := s.state.finish(userID(c), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, session)
}

func (s *Server) handleQuestions(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	questions, err := s.state.questions(userID(c), id)
	if err != nil {
		return failErr(c, err)
	}
	if questions == nil {
		questions = []interview.Question{}
	}
	return ok(c, questions)
}

func (s *Server) handleEvaluations(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	evals, err := s.state.evaluations(userID(c), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, evals)
}

func (s *Server) handleSubmitAnswer(c *fiber.Ctx) error {
	var sub interview.AnswerSubmission
	if err := c.BodyParser(&sub); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if sub.QuestionID <= 0 {
		return fail(c, fiber.StatusBadRequest, "questionId is required")
	}

	eval, err := s.state.answer(userID(c), sub)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, eval)
}

// handleQuestionStream streams the next question word by word as "message"
// events. The question is persisted before the closing [DONE] event, so a
// client that lists questions after the sentinel finds it.
func (s *Server) handleQuestionStream(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	uid := userID(c)
	n, position, err := s.state.prepareQuestion(uid, id)
	if err != nil {
		return failErr(c, err)
	}
	text := s.bank.Pick(position, n)

	c.Set(fiber.HeaderContentType, "text/event-stream;charset=UTF-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	// pw.Write blocks until fasthttp consumes the chunk, so every frame is
	// flushed to the client as it is produced.
	pr, pw := io.Pipe()
	go s.writeQuestion(pw, uid, id, text)
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

func (s *Server) writeQuestion(pw *io.PipeWriter, uid, sessionID int64, text string) {
	defer pw.Close()

	start := time.Now()
	if _, err := io.WriteString(pw, ": stream open\n\n"); err != nil {
		return
	}

	for _, chunk := range chunks(text) {
		if _, err := fmt.Fprintf(pw, "event: message\ndata: %s\n\n", chunk); err != nil {
			s.logger.Debug("client left question stream", "session_id", sessionID, "error", err)
			return
		}
		if s.config.ChunkDelay > 0 {
			time.Sleep(s.config.ChunkDelay)
		}
	}

	qid, err := s.state.addQuestion(uid, sessionID, text)
	if err != nil {
		s.logger.Warn("could not persist streamed question", "session_id", sessionID, "error", err)
		pw.CloseWithError(err)
		return
	}

	if _, err := io.WriteString(pw, "event: message\ndata: [DONE]\n\n"); err != nil {
		return
	}

	s.logger.Debug("question streamed",
		"session_id", sessionID,
		"question_id", qid,
		"duration", time.Since(start),
	)
}

// chunks splits text into words, each carrying the space before it.
func chunks(text string) []string {
	words := strings.Fields(text)
	out := make([]string, len(words))
	for i, w := range words {
		if i > 0 {
			w = " " + w
		}
		out[i] = w
	}
	return out
}
