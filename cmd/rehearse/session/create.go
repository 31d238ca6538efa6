package sessioncmder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/rehearse/pkg/app"
	"github.com/papercomputeco/rehearse/pkg/cliui"
	"github.com/papercomputeco/rehearse/pkg/interview"
)

const createLongDesc string = `Create an interview session for a position.

The position is matched by id or by name, ignoring case. The difficulty is
derived from the position's level.

Examples:
  rehearse session create --position "Go Developer"
  rehearse session create --position 2 --title "Onsite prep" --questions 5`

type createCommander struct {
	position  string
	title     string
	company   string
	questions int
}

func newCreateCmd() *cobra.Command {
	cmder := &createCommander{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an interview session",
		Long:  createLongDesc,
		Args:  cobra.NoArgs,
		RunE:  withRuntime(cmder.run),
	}

	cmd.Flags().StringVarP(&cmder.position, "position", "p", "", "Position id or name (required)")
	cmd.Flags().StringVarP(&cmder.title, "title", "t", "", "Session title (default: \"<position> mock interview\")")
	cmd.Flags().StringVar(&cmder.company, "company", "", "Company you are interviewing with")
	cmd.Flags().IntVarP(&cmder.questions, "questions", "n", interview.DefaultTotalQuestions, "Number of questions")
	_ = cmd.MarkFlagRequired("position")
	app.AddClientFlags(cmd)

	return cmd
}

func (c *createCommander) run(cmd *cobra.Command, rt *app.Runtime, _ []string) error {
	if c.questions <= 0 {
		return fmt.Errorf("--questions must be positive, got %d", c.questions)
	}

	positions, err := rt.Client.ListPositions(cmd.Context())
	if err != nil {
		return err
	}

	pos, err := findPosition(positions, c.position)
	if err != nil {
		return err
	}

	req := interview.NewCreateSessionRequest(pos, c.title, c.company)
	req.TotalQuestions = c.questions

	session, err := rt.Client.CreateSession(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n  %s Created %s %s\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(session.DisplayName()),
		cliui.IDStyle.Render(fmt.Sprintf("#%d", session.ID)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n\n",
		cliui.DimStyle.Render(fmt.Sprintf("Start it with: rehearse session start %d", session.ID)),
	)
	return nil
}

func findPosition(positions []interview.Position, query string) (interview.Position, error) {
	query = strings.TrimSpace(query)
	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		for _, p := range positions {
			if p.ID == id {
				return p, nil
			}
		}
	}

	for _, p := range positions {
		if strings.EqualFold(p.Name, query) {
			return p, nil
		}
	}

	names := make([]string, len(positions))
	for i, p := range positions {
		names[i] = p.Name
	}
	return interview.Position{}, fmt.Errorf("unknown position %q\n\nAvailable positions: %s", query, strings.Join(names, ", "))
}
