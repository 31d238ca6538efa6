package practicecmder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/rehearse/pkg/cliui"
	"github.com/papercomputeco/rehearse/pkg/interview"
	"github.com/papercomputeco/rehearse/pkg/question"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

type practiceState int

const (
	stateStreaming practiceState = iota
	stateAnswering
	stateSubmitting
	stateEvaluated
	stateFinishing
	stateFinished
	stateFailed
)

const (
	defaultWidth  = 80
	editorHeight  = 8
	updatesBuffer = 64
)

var (
	practiceTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	practiceMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	practiceTextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	practiceErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	practiceLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	practiceRuleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
)

type practiceKeyMap struct {
	Submit key.Binding
	Next   key.Binding
	Finish key.Binding
	Retry  key.Binding
	Quit   key.Binding
}

func (k practiceKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Next, k.Finish, k.Retry, k.Quit}
}

func (k practiceKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Next}, {k.Finish, k.Retry, k.Quit}}
}

func defaultKeyMap() practiceKeyMap {
	return practiceKeyMap{
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Next:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next question")),
		Finish: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
		Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// questionDeltaMsg carries one streamed fragment of question text.
type questionDeltaMsg string

type questionDoneMsg struct {
	outcome question.Outcome
	err     error
}

type evaluatedMsg struct {
	eval *interview.Evaluation
	err  error
}

type finishedMsg struct {
	session *interview.Session
	err     error
}

type practiceModel struct {
	ctx     context.Context
	backend backend
	session *interview.Session

	state    practiceState
	question string
	sentinel bool
	eval     *interview.Evaluation
	err      error

	// updates receives the messages of the question stream in flight.
	updates chan bubbletea.Msg

	width   int
	height  int
	spinner spinner.Model
	editor  textarea.Model
	keys    practiceKeyMap
	help    help.Model
}

func runPracticeTUI(ctx context.Context, b backend, session *interview.Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newPracticeModel(ctx, b, session)

	program := bubbletea.NewProgram(model,
		bubbletea.WithContext(ctx),
		bubbletea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}

func newPracticeModel(ctx context.Context, b backend, session *interview.Session) practiceModel {
	editor := textarea.New()
	editor.Placeholder = "Write your answer..."
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.SetWidth(defaultWidth)
	editor.SetHeight(editorHeight)

	return practiceModel{
		ctx:     ctx,
		backend: b,
		session: session,
		state:   stateStreaming,
		updates: make(chan bubbletea.Msg, updatesBuffer),
		width:   defaultWidth,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("82"))),
		),
		editor: editor,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
}

func (m practiceModel) Init() bubbletea.Cmd {
	return bubbletea.Batch(m.spinner.Tick, streamCmd(m.ctx, m.backend, m.session, m.updates))
}

// streamCmd streams the next question in the background and waits for
// its first message. Later messages are picked up with waitForUpdate.
func streamCmd(ctx context.Context, b backend, session *interview.Session, updates chan bubbletea.Msg) bubbletea.Cmd {
	return func() bubbletea.Msg {
		go func() {
			send := func(msg bubbletea.Msg) {
				select {
				case updates <- msg:
				case <-ctx.Done():
				}
			}

			outcome, err := b.NextQuestion(ctx, session, func(delta string) {
				send(questionDeltaMsg(delta))
			})
			send(questionDoneMsg{outcome: outcome, err: err})
		}()

		select {
		case msg := <-updates:
			return msg
		case <-ctx.Done():
			return questionDoneMsg{err: ctx.Err()}
		}
	}
}

func waitForUpdate(updates <-chan bubbletea.Msg) bubbletea.Cmd {
	return func() bubbletea.Msg {
		return <-updates
	}
}

func submitCmd(ctx context.Context, b backend, session *interview.Session, answer string) bubbletea.Cmd {
	return func() bubbletea.Msg {
		eval, err := b.Answer(ctx, session, answer)
		return evaluatedMsg{eval: eval, err: err}
	}
}

func finishCmd(ctx context.Context, b backend, session *interview.Session) bubbletea.Cmd {
	return func() bubbletea.Msg {
		finished, err := b.Finish(ctx, session)
		return finishedMsg{session: finished, err: err}
	}
}

func (m practiceModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(max(msg.Width-4, 20))
		return m, nil

	case spinner.TickMsg:
		var cmd bubbletea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case questionDeltaMsg:
		m.question += string(msg)
		return m, waitForUpdate(m.updates)

	case questionDoneMsg:
		if msg.err != nil {
			m.state = stateFailed
			m.err = msg.err
			return m, nil
		}
		m.question = msg.outcome.Text
		m.sentinel = msg.outcome.Sentinel
		m.state = stateAnswering
		m.editor.Reset()
		return m, m.editor.Focus()

	case evaluatedMsg:
		if msg.err != nil {
			// Keep the answer so it can be resubmitted.
			m.state = stateAnswering
			m.err = msg.err
			return m, m.editor.Focus()
		}
		m.eval = msg.eval
		m.err = nil
		m.session.AnsweredQuestions++
		m.state = stateEvaluated
		return m, nil

	case finishedMsg:
		if msg.err != nil {
			m.state = stateEvaluated
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.state = stateFinished
		return m, nil

	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m practiceModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, bubbletea.Quit
	}

	switch m.state {
	case stateAnswering:
		if key.Matches(msg, m.keys.Submit) {
			return m.submit()
		}
		var cmd bubbletea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd

	case stateEvaluated:
		switch {
		case key.Matches(msg, m.keys.Next) && !m.allAnswered():
			return m.next()
		case key.Matches(msg, m.keys.Finish):
			m.state = stateFinishing
			m.err = nil
			return m, bubbletea.Batch(m.spinner.Tick, finishCmd(m.ctx, m.backend, m.session))
		}

	case stateFailed:
		if key.Matches(msg, m.keys.Retry) {
			return m.next()
		}

	case stateFinished:
		if msg.String() == "q" || msg.String() == "enter" {
			return m, bubbletea.Quit
		}
	}

	return m, nil
}

func (m practiceModel) submit() (bubbletea.Model, bubbletea.Cmd) {
	answer := strings.TrimSpace(m.editor.Value())
	if answer == "" {
		return m, nil
	}

	m.editor.Blur()
	m.state = stateSubmitting
	m.err = nil
	return m, bubbletea.Batch(m.spinner.Tick, submitCmd(m.ctx, m.backend, m.session, answer))
}

func (m practiceModel) next() (bubbletea.Model, bubbletea.Cmd) {
	m.state = stateStreaming
	m.question = ""
	m.sentinel = false
	m.eval = nil
	m.err = nil
	m.updates = make(chan bubbletea.Msg, updatesBuffer)
	return m, bubbletea.Batch(m.spinner.Tick, streamCmd(m.ctx, m.backend, m.session, m.updates))
}

func (m practiceModel) allAnswered() bool {
	return m.session.TotalQuestions > 0 && m.session.AnsweredQuestions >= m.session.TotalQuestions
}

func (m practiceModel) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	switch m.state {
	case stateStreaming:
		fmt.Fprintf(&b, "%s %s\n\n", m.spinner.View(), practiceMutedStyle.Render("Generating question..."))
		b.WriteString(practiceTextStyle.Width(m.width).Render(m.question))
		b.WriteString("\n")

	case stateAnswering, stateSubmitting:
		b.WriteString(m.viewQuestion())
		b.WriteString("\n")
		b.WriteString(m.editor.View())
		b.WriteString("\n")
		if m.state == stateSubmitting {
			fmt.Fprintf(&b, "\n%s %s\n", m.spinner.View(), practiceMutedStyle.Render("Evaluating answer..."))
		}

	case stateEvaluated, stateFinishing:
		b.WriteString(m.viewQuestion())
		b.WriteString("\n")
		b.WriteString(viewEvaluation(m.eval))
		if m.allAnswered() {
			fmt.Fprintf(&b, "\n%s\n", practiceMutedStyle.Render("All questions answered. Press f to finish and generate the report."))
		}
		if m.state == stateFinishing {
			fmt.Fprintf(&b, "\n%s %s\n", m.spinner.View(), practiceMutedStyle.Render("Finishing session..."))
		}

	case stateFinished:
		b.WriteString(viewFinished(m.session))

	case stateFailed:
		fmt.Fprintf(&b, "%s %s\n", cliui.FailMark, practiceErrorStyle.Render("Could not get the next question."))
	}

	if m.err != nil {
		fmt.Fprintf(&b, "\n%s\n", practiceErrorStyle.Render(m.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(practiceMutedStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m practiceModel) viewHeader() string {
	title := practiceTitleStyle.Render(m.session.DisplayName())
	progress := practiceMutedStyle.Render(progressLabel(m.session))
	return title + "  " + progress + "\n" + renderRule(m.width)
}

func (m practiceModel) viewQuestion() string {
	rendered, err := cliui.RenderMarkdownWidth(m.question, m.width)
	if err != nil {
		rendered = practiceTextStyle.Width(m.width).Render(m.question) + "\n"
	}
	if !m.sentinel {
		rendered += practiceMutedStyle.Render("(the stream ended early, the question may be incomplete)") + "\n"
	}
	if m.session.CurrentQuestionID == nil {
		rendered += practiceErrorStyle.Render(interview.ErrNoQuestion.Error()) + "\n"
	}
	return rendered
}

func viewEvaluation(eval *interview.Evaluation) string {
	if eval == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s   ", practiceLabelStyle.Render("Overall"), cliui.Score(eval.OverallScore))
	fmt.Fprintf(&b, "%s %s   ", practiceLabelStyle.Render("Professional"), cliui.Score(eval.ProfessionalScore))
	fmt.Fprintf(&b, "%s %s   ", practiceLabelStyle.Render("Logic"), cliui.Score(eval.LogicScore))
	fmt.Fprintf(&b, "%s %s\n", practiceLabelStyle.Render("Completeness"), cliui.Score(eval.CompletenessScore))
	if eval.AIFeedback != "" {
		fmt.Fprintf(&b, "\n%s\n", practiceTextStyle.Render(eval.AIFeedback))
	}
	return b.String()
}

func viewFinished(session *interview.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Session %s\n", cliui.SuccessMark, cliui.Status(session.Status.String()))
	if session.CanViewReport() {
		fmt.Fprintf(&b, "\n%s %s\n", practiceLabelStyle.Render("Overall score"), cliui.Score(session.OverallScore))
	}
	fmt.Fprintf(&b, "\n%s\n", practiceMutedStyle.Render(fmt.Sprintf("See the report with: rehearse session show %d", session.ID)))
	return b.String()
}

func progressLabel(session *interview.Session) string {
	if session.TotalQuestions <= 0 {
		return fmt.Sprintf("%d answered", session.AnsweredQuestions)
	}
	return fmt.Sprintf("%d/%d answered", session.AnsweredQuestions, session.TotalQuestions)
}

func renderRule(width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	return practiceRuleStyle.Render(strings.Repeat("─", width))
}
