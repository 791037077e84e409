package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/DrSkyle/stowage/internal/app"
	"github.com/DrSkyle/stowage/pkg/engine/report"
	"github.com/spf13/cobra"
)

func newPlanCmd(o *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show storage needs and recommended modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(output)
			if err != nil {
				return err
			}
			if format != report.FormatText && format != report.FormatJSON && format != report.FormatCSV {
				return fmt.Errorf("plan prints text, json or csv; use export for %s", format)
			}

			return o.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
				plan, err := a.Engine.Plan(ctx)
				if err != nil {
					return err
				}
				data, err := report.Render(format, plan.Summary())
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or csv")
	return cmd
}
