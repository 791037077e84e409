package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/DrSkyle/stowage/internal/app"
	"github.com/DrSkyle/stowage/pkg/layout"
	"github.com/spf13/cobra"
)

func newLayoutCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Save and restore station layouts",
	}
	cmd.AddCommand(
		newLayoutSaveCmd(o),
		newLayoutLoadCmd(o),
		newLayoutListCmd(o),
		newLayoutDeleteCmd(o),
	)
	return cmd
}

func newLayoutSaveCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "save <name>",
		Short: "Save the station under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
				if args[0] == app.WorkingLayout {
					return fmt.Errorf("%q is reserved for the working station", args[0])
				}
				if err := a.Layouts.Save(ctx, a.Snapshot(args[0])); err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved layout %s\n", args[0])
				return nil
			})
		},
	}
}

func newLayoutLoadCmd(o *options) *cobra.Command {
	var add bool

	cmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Replace the station with a saved layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
				l, err := a.Layouts.Get(ctx, args[0])
				if err != nil {
					return err
				}

				if add {
					res, err := layout.Add(ctx, a.Engine.Station, l)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Added layout %s (%d new, %d increased)\n", l.Name, res.Appended, res.Incremented)
				} else {
					if err := a.Use(l); err != nil {
						return err
					}
					fmt.Fprintf(out, "Loaded layout %s\n", l.Name)
				}
				return a.Persist(ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&add, "add", false, "Add the layout's modules to the station instead of replacing it")
	return cmd
}

func newLayoutListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
				names, err := a.Layouts.List(ctx)
				if err != nil {
					return err
				}
				for _, n := range names {
					if n == app.WorkingLayout {
						continue
					}
					fmt.Fprintln(out, n)
				}
				return nil
			})
		},
	}
}

func newLayoutDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
				if err := a.Layouts.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted layout %s\n", args[0])
				return nil
			})
		},
	}
}
