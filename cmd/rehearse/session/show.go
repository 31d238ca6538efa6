package sessioncmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/rehearse/pkg/app"
	"github.com/papercomputeco/rehearse/pkg/cliui"
	"github.com/papercomputeco/rehearse/pkg/interview"
)

const showLongDesc string = `Show a session with its questions, answers and report.

Without an id the selected session is shown.

Examples:
  rehearse session show
  rehearse session show 12`

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a session and its report",
		Long:  showLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, rt *app.Runtime, args []string) error {
			id, err := sessionArg(rt, args)
			if err != nil {
				return err
			}

			session, err := rt.Client.GetSession(cmd.Context(), id)
			if err != nil {
				return err
			}
			questions, err := rt.Client.ListQuestions(cmd.Context(), id)
			if err != nil {
				return err
			}

			md := sessionMarkdown(session, questions)
			rendered, err := cliui.RenderMarkdown(md)
			if err != nil {
				rendered = md
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		}),
	}

	app.AddClientFlags(cmd)

	return cmd
}

// sessionMarkdown renders a session as markdown for glamour.
func sessionMarkdown(s *interview.Session, questions []interview.Question) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", s.DisplayName())
	fmt.Fprintf(&b, "- **Status:** %s\n", s.Status)
	if s.Company != "" {
		fmt.Fprintf(&b, "- **Company:** %s\n", s.Company)
	}
	fmt.Fprintf(&b, "- **Progress:** %d of %d answered\n", s.AnsweredQuestions, s.TotalQuestions)
	if !s.StartTime.IsZero() {
		fmt.Fprintf(&b, "- **Started:** %s\n", s.StartTime.Format("2006-01-02 15:04"))
	}
	if !s.EndTime.IsZero() {
		fmt.Fprintf(&b, "- **Finished:** %s\n", s.EndTime.Format("2006-01-02 15:04"))
	}

	if len(questions) > 0 {
		b.WriteString("\n## Questions\n")
		for i, q := range questions {
			fmt.Fprintf(&b, "\n### %d. %s\n\n", i+1, q.QuestionText)
			if q.UserAnswer == "" {
				b.WriteString("_Not answered yet._\n")
				continue
			}
			writeQuote(&b, q.UserAnswer)
		}
	}

	if s.CanViewReport() && s.Report != nil {
		writeReport(&b, s.Report)
	}

	return b.String()
}

func writeReport(w io.Writer, r *interview.Report) {
	fmt.Fprintf(w, "\n## Report\n\n")
	fmt.Fprintf(w, "| Overall | Professional | Logic | Completeness |\n")
	fmt.Fprintf(w, "|---|---|---|---|\n")
	fmt.Fprintf(w, "| %.1f | %.1f | %.1f | %.1f |\n",
		r.OverallScore, r.ProfessionalScore, r.LogicScore, r.CompletenessScore)

	sections := []struct {
		title, body string
	}{
		{"Performance", r.PerformanceAnalysis},
		{"Skills", r.SkillAssessment},
		{"Strong points", r.StrongPoints},
		{"Weak points", r.WeakPoints},
		{"Suggestions", r.ImprovementSuggestions},
	}
	for _, sec := range sections {
		if strings.TrimSpace(sec.body) == "" {
			continue
		}
		fmt.Fprintf(w, "\n### %s\n\n%s\n", sec.title, sec.body)
	}
}

func writeQuote(b *strings.Builder, text string) {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		b.WriteString("> ")
		b.WriteString(line)
		b.WriteString("\n")
	}
}
