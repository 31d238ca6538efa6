package sessioncmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/rehearse/pkg/app"
	"github.com/papercomputeco/rehearse/pkg/cliui"
)

func newPositionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "List the positions you can practice for",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, rt *app.Runtime, _ []string) error {
			positions, err := rt.Client.ListPositions(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(positions) == 0 {
				fmt.Fprintf(w, "\n  %s No positions available.\n\n", cliui.DimStyle.Render("●"))
				return nil
			}

			fmt.Fprintf(w, "\n  %s\n\n", cliui.HeaderStyle.Render("Positions"))
			for _, p := range positions {
				fmt.Fprintf(w, "  %s  %s  %s\n",
					cliui.IDStyle.Render(fmt.Sprintf("#%d", p.ID)),
					cliui.NameStyle.Render(p.Name),
					cliui.DimStyle.Render(strings.TrimSpace(p.Category+" "+p.Level)),
				)
				if len(p.Skills) > 0 {
					fmt.Fprintf(w, "      %s\n", cliui.DimStyle.Render(strings.Join(p.Skills, ", ")))
				}
			}
			fmt.Fprintln(w)
			return nil
		}),
	}

	app.AddClientFlags(cmd)

	return cmd
}
