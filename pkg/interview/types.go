package interview

import (
	"fmt"
	"strings"
)

// Session is one mock interview as the backend reports it.
type Session struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Position          string    `json:"position"`
	Company           string    `json:"company"`
	InterviewType     int       `json:"interviewType"`
	DifficultyLevel   int       `json:"difficultyLevel"`
	Status            Status    `json:"status"`
	TotalQuestions    int       `json:"totalQuestions"`
	AnsweredQuestions int       `json:"answeredQuestions"`
	OverallScore      float64   `json:"overallScore"`
	StartTime         Timestamp `json:"startTime,omitzero"`
	EndTime           Timestamp `json:"endTime,omitzero"`

	// Report is only present on completed sessions.
	Report *Report `json:"report,omitempty"`

	// CurrentQuestionID is client-side state. It is cleared when a new
	// question finishes streaming and set only by a Reconciler.
	CurrentQuestionID *int64 `json:"-"`
}

// DisplayName returns the title, or a name derived from the ID when the
// session is untitled.
func (s *Session) DisplayName() string {
	if strings.TrimSpace(s.Title) != "" {
		return s.Title
	}
	return fmt.Sprintf("Interview #%d", s.ID)
}

// CanViewReport reports whether the session is finished and its report has
// been generated.
func (s *Session) CanViewReport() bool {
	return s.Status.IsCompleted() && s.Report != nil
}

// Question is a persisted interview question and the user's answer, if any.
type Question struct {
	ID           int64     `json:"id"`
	QuestionText string    `json:"questionText"`
	UserAnswer   string    `json:"userAnswer"`
	AnswerTime   Timestamp `json:"answerTime,omitzero"`
}

// Evaluation is the AI assessment of one answer.
type Evaluation struct {
	ID                int64     `json:"id,omitempty"`
	QARecordID        int64     `json:"qaRecordId,omitempty"`
	ProfessionalScore float64   `json:"professionalScore"`
	LogicScore        float64   `json:"logicScore"`
	CompletenessScore float64   `json:"completenessScore"`
	OverallScore      float64   `json:"overallScore"`
	AIFeedback        string    `json:"aiFeedback"`
	EvaluationTime    Timestamp `json:"evaluationTime,omitzero"`
}

// Report summarizes a finished session.
type Report struct {
	ID                     int64     `json:"id,omitempty"`
	SessionID              int64     `json:"sessionId"`
	OverallScore           float64   `json:"overallScore"`
	ProfessionalScore      float64   `json:"professionalScore"`
	LogicScore             float64   `json:"logicScore"`
	CompletenessScore      float64   `json:"completenessScore"`
	PerformanceAnalysis    string    `json:"performanceAnalysis"`
	SkillAssessment        string    `json:"skillAssessment"`
	ImprovementSuggestions string    `json:"improvementSuggestions"`
	StrongPoints           string    `json:"strongPoints"`
	WeakPoints             string    `json:"weakPoints"`
	GeneratedAt            Timestamp `json:"generatedAt,omitzero"`
}

// Position is a job the user can practice for.
type Position struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Level        string   `json:"level"`
	Description  string   `json:"description,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Skills       []string `json:"skills,omitempty"`
}

// User is the authenticated account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Nickname string `json:"nickname,omitempty"`
	Status   int    `json:"status"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
}

// CreateSessionRequest is the body of POST /interview/create.
type CreateSessionRequest struct {
	Title           string `json:"title"`
	Position        string `json:"position"`
	Company         string `json:"company"`
	InterviewType   int    `json:"interviewType"`
	DifficultyLevel int    `json:"difficultyLevel"`
	TotalQuestions  int    `json:"totalQuestions"`
}

// AnswerSubmission is the body of POST /interview/submit-answer.
type AnswerSubmission struct {
	QuestionID int64  `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
}

const (
	// TechnicalInterview is the only interview type the backend generates
	// questions for.
	TechnicalInterview = 1

	// DefaultTotalQuestions is the length of a session when none is given.
	DefaultTotalQuestions = 10

	defaultCompany = "Target company"
)

// Difficulty levels accepted by the backend.
const (
	DifficultyJunior = 1
	DifficultyMid    = 2
	DifficultySenior = 3
)

// DifficultyForLevel maps a position level to a difficulty. Unknown levels
// are treated as mid.
func DifficultyForLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "junior", "entry", "初级":
		return DifficultyJunior
	case "senior", "lead", "高级":
		return DifficultySenior
	default:
		return DifficultyMid
	}
}

// NewCreateSessionRequest builds a technical interview request for pos.
// Empty title and company fall back to defaults.
func NewCreateSessionRequest(pos Position, title, company string) CreateSessionRequest {
	if strings.TrimSpace(title) == "" {
		title = pos.Name + " mock interview"
	}
	if strings.TrimSpace(company) == "" {
		company = defaultCompany
	}

	return CreateSessionRequest{
		Title:           title,
		Position:        pos.Name,
		Company:         company,
		InterviewType:   TechnicalInterview,
		DifficultyLevel: DifficultyForLevel(pos.Level),
		TotalQuestions:  DefaultTotalQuestions,
	}
}
