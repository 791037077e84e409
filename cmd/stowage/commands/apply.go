package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/DrSkyle/stowage/internal/app"
	"github.com/DrSkyle/stowage/pkg/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newApplyCmd(o *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Review the plan and add the recommended storage modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
				plan, err := a.Engine.Plan(ctx)
				if err != nil {
					return err
				}
				if !plan.Short() {
					fmt.Fprintln(out, "Storage covers every buffer. Nothing to add.")
					return nil
				}

				if !yes {
					final, err := tea.NewProgram(tui.NewModel(plan.Summary()), tea.WithContext(ctx)).Run()
					if err != nil {
						return fmt.Errorf("review failed: %w", err)
					}
					if m, ok := final.(tui.Model); !ok || !m.Confirmed() {
						fmt.Fprintln(out, "Aborted. Station unchanged.")
						return nil
					}
				}

				added := 0
				for _, add := range plan.Additions() {
					added += add.Count
				}

				res, err := a.Engine.Apply(ctx, plan)
				if err != nil {
					return err
				}
				if err := a.Persist(ctx); err != nil {
					return err
				}
				fmt.Fprintf(out, "Added %d storage modules (%d new, %d increased). Station is now v%d.\n",
					added, res.Appended, res.Incremented, res.Version)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Apply without the review screen")
	return cmd
}
