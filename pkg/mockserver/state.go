package mockserver

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/rehearse/pkg/interview"
)

var (
	errSessionNotFound = errors.New("interview session not found")
	errNotInProgress   = errors.New("interview session is not in progress")
	errAllAnswered     = errors.New("all questions have been asked")
	errQuestionUnknown = errors.New("question not found")
	errAlreadyAnswered = errors.New("question already answered")
	errSessionClosed   = errors.New("interview session is already finished")
)

type record struct {
	session     interview.Session
	userID      int64
	questions   []interview.Question
	evaluations []interview.Evaluation
}

// state is the backend's in-memory data. One sequence numbers every entity
// so a newer question always has a higher id than an older one.
type state struct {
	mu       sync.Mutex
	seq      int64
	users    map[string]*interview.User
	tokens   map[string]int64
	sessions map[int64]*record
}

func newState() *state {
	return &state{
		users:    make(map[string]*interview.User),
		tokens:   make(map[string]int64),
		sessions: make(map[int64]*record),
	}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

func now() interview.Timestamp {
	return interview.Timestamp{Time: time.Now().Truncate(time.Second)}
}

// login accepts any non-empty credentials, registering the user on first
// use, and issues a fresh token.
func (s *state) login(username string) interview.LoginResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		u = &interview.User{ID: s.next(), Username: username, Email: username + "@rehearse.local", Status: 1}
		s.users[username] = u
	}

	token := uuid.NewString()
	s.tokens[token] = u.ID
	return interview.LoginResponse{Token: token, UserID: u.ID}
}

func (s *state) logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func (s *state) userForToken(token string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	return id, ok
}

func (s *state) user(id int64) (interview.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return *u, true
		}
	}
	return interview.User{}, false
}

func (s *state) create(userID int64, req interview.CreateSessionRequest) interview.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := req.TotalQuestions
	if total <= 0 {
		total = interview.DefaultTotalQuestions
	}

	r := &record{
		userID: userID,
		session: interview.Session{
			ID:              s.next(),
			Title:           req.Title,
			Position:        req.Position,
			Company:         req.Company,
			InterviewType:   req.InterviewType,
			DifficultyLevel: req.DifficultyLevel,
			Status:          interview.StatusCreated,
			TotalQuestions:  total,
		},
	}
	s.sessions[r.session.ID] = r
	return r.session
}

// get returns the user's session record. Callers must hold s.mu.
func (s *state) get(userID, id int64) (*record, error) {
	r, ok := s.sessions[id]
	if !ok || r.userID != userID {
		return nil, errSessionNotFound
	}
	return r, nil
}

func (s *state) session(userID, id int64) (interview.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.get(userID, id)
	if err != nil {
		return interview.Session{}, err
	}
	return r.session, nil
}

func (s *state) list(userID int64) []interview.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []interview.Session{}
	for _, r := range s.sessions {
		if r.userID == userID {
			out = append(out, r.session)
		}
	}
	slices.SortFunc(out, func(a, b interview.Session) int { return cmp.Compare(b.ID, a.ID) })
	return out
}

func (s *state) remove(userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.get(userID, id); err != nil {
		return err
	}
	delete(s.sessions, id)
	return nil
}

func (s *state) start(userID, id int64) (interview.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.get(userID, id)
	if err != nil {
		return interview.Session{}, err
	}

	switch r.session.Status {
	case interview.StatusCreated:
		r.session.Status = interview.StatusInProgress
		r.session.StartTime = now()
	case interview.StatusInProgress:
	default:
		return interview.Session{}, errSessionClosed
	}
	return r.session, nil
}

func (s *state) finish(userID, id int64) (interview.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.get(userID, id)
	if err != nil {
		return interview.Session{}, err
	}
	if r.session.Status.IsCompleted() {
		return r.session, nil
	}
	if r.session.Status == interview.StatusCancelled {
		return interview.Session{}, errSessionClosed
	}

	r.session.Status = interview.StatusCompleted
	r.session.EndTime = now()
	r.session.Report = buildReport(id, r.evaluations)
	r.session.OverallScore = r.session.Report.OverallScore
	return r.session, nil
}

// prepareQuestion returns the ordinal of the next question and the
// session's position, or an error when no question can be asked.
func (s *state) prepareQuestion(userID, id int64) (int, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.get(userID, id)
	if err != nil {
		return 0, "", err
	}
	if !r.session.Status.IsInProgress() {
		return 0, "", errNotInProgress
	}
	if len(r.questions) >= r.session.TotalQuestions {
		return 0, "", errAllAnswered
	}
	return len(r.questions), r.session.Position, nil
}

func (s *state) addQuestion(userID, id int64, text string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.get(userID, id)
	if err != nil {
		return 0, err
	}
	q := interview.Question{ID: s.next(), QuestionText: text}
	r.questions = append(r.questions, q)
	return q.ID, nil
}

func (s *state) questions(userID, id int64) ([]interview.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.get(userID, id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(r.questions), nil
}

func (s *state) evaluations(userID, id int64) ([]interview.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.get(userID, id)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(r.evaluations)
	if out == nil {
		out = []interview.Evaluation{}
	}
	return out, nil
}

func (s *state) answer(userID int64, sub interview.AnswerSubmission) (interview.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.sessions {
		if r.userID != userID {
			continue
		}
		i := slices.IndexFunc(r.questions, func(q interview.Question) bool { return q.ID == sub.QuestionID })
		if i < 0 {
			continue
		}
		if !r.session.Status.IsInProgress() {
			return interview.Evaluation{}, errNotInProgress
		}
		q := &r.questions[i]
		if q.UserAnswer != "" {
			return interview.Evaluation{}, errAlreadyAnswered
		}

		q.UserAnswer = sub.UserAnswer
		q.AnswerTime = now()

		eval := evaluate(sub.UserAnswer)
		eval.ID = s.next()
		eval.QARecordID = q.ID
		eval.EvaluationTime = q.AnswerTime

		r.evaluations = append(r.evaluations, eval)
		r.session.AnsweredQuestions++
		return eval, nil
	}

	return interview.Evaluation{}, errQuestionUnknown
}

// evaluate scores an answer by how much it says.
func evaluate(answer string) interview.Evaluation {
	words := len(strings.Fields(answer))
	score := func(per int) float64 {
		return float64(min(10, max(1, 1+words/per)))
	}

	eval := interview.Evaluation{
		ProfessionalScore: score(8),
		LogicScore:        score(6),
		CompletenessScore: score(10),
	}
	eval.OverallScore = round1((eval.ProfessionalScore + eval.LogicScore + eval.CompletenessScore) / 3)

	switch {
	case words == 0:
		eval.AIFeedback = "No answer was given."
	case eval.OverallScore >= 7:
		eval.AIFeedback = "Thorough answer with concrete detail."
	case eval.OverallScore >= 4:
		eval.AIFeedback = "Reasonable answer. Add an example to make it stronger."
	default:
		eval.AIFeedback = "The answer is too brief to assess. Explain your reasoning."
	}
	return eval
}

func buildReport(sessionID int64, evals []interview.Evaluation) *interview.Report {
	rep := &interview.Report{SessionID: sessionID, GeneratedAt: now()}
	if len(evals) == 0 {
		rep.PerformanceAnalysis = "No questions were answered."
		return rep
	}

	for _, e := range evals {
		rep.ProfessionalScore += e.ProfessionalScore
		rep.LogicScore += e.LogicScore
		rep.CompletenessScore += e.CompletenessScore
		rep.OverallScore += e.OverallScore
	}
	n := float64(len(evals))
	rep.ProfessionalScore = round1(rep.ProfessionalScore / n)
	rep.LogicScore = round1(rep.LogicScore / n)
	rep.CompletenessScore = round1(rep.CompletenessScore / n)
	rep.OverallScore = round1(rep.OverallScore / n)

	rep.PerformanceAnalysis = "Answered questions were scored on professional depth, logic and completeness."
	if rep.LogicScore >= rep.CompletenessScore {
		rep.StrongPoints = "Clear reasoning."
		rep.WeakPoints = "Answers could cover more ground."
	} else {
		rep.StrongPoints = "Broad coverage of each topic."
		rep.WeakPoints = "Reasoning could be more structured."
	}
	rep.ImprovementSuggestions = "Practice answering with a concrete example from your own work."
	return rep
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
