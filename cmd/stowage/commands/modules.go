package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/DrSkyle/stowage/internal/app"
	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/DrSkyle/stowage/pkg/engine/sizing"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderHeader(false).
		Headers(headers...)
}

func newModulesCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List or edit the station modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
				snap := a.Engine.Station.Snapshot()
				if len(snap.Instances) == 0 {
					fmt.Fprintln(out, "Station is empty. Add modules with 'stowage modules set <id> <count>'.")
					return nil
				}
				t := newTable("MODULE", "NAME", "COUNT")
				for _, inst := range snap.Instances {
					name := "(unknown)"
					if inst.Module != nil {
						name = inst.Module.Name
					}
					t.Row(inst.ModuleID, name, strconv.Itoa(inst.Count))
				}
				_, err := fmt.Fprintln(out, t.String())
				return err
			})
		},
	}

	cmd.AddCommand(newModulesSetCmd(o), newModulesRemoveCmd(o), newModulesCandidatesCmd(o))
	return cmd
}

func newModulesSetCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <module-id> <count>",
		Short: "Set how many of a module the station has",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid count %q", args[1])
			}
			return o.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
				if _, err := a.Engine.Catalog.RequireModule(args[0]); err != nil {
					return err
				}
				if err := a.Engine.Station.SetCount(args[0], count); err != nil {
					return err
				}
				if err := a.Persist(ctx); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s x %d (station v%d)\n", args[0], count, a.Engine.Station.Version())
				return nil
			})
		},
	}
}

func newModulesRemoveCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <module-id>",
		Short: "Remove a module from the station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
				if !a.Engine.Station.Remove(args[0]) {
					return fmt.Errorf("module %q is not on the station", args[0])
				}
				if err := a.Persist(ctx); err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newModulesCandidatesCmd(o *options) *cobra.Command {
	var cargo string

	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List storage modules allowed by the current filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct := catalog.CargoType(cargo)
			if !ct.Valid() {
				return fmt.Errorf("unknown cargo type %q", cargo)
			}
			return o.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
				f := sizing.FilterFromConfig(a.Engine.Settings().Filter)
				t := newTable("MODULE", "MAKER", "CAPACITY")
				for _, m := range a.Engine.Calculator.GetFilteredStorageModules(ct, f) {
					t.Row(m.ID, m.Maker, strconv.FormatFloat(m.Cargo.Max, 'f', 0, 64))
				}
				_, err := fmt.Fprintln(out, t.String())
				return err
			})
		},
	}

	cmd.Flags().StringVar(&cargo, "cargo", string(catalog.CargoContainer), "Cargo type: container, liquid or solid")
	return cmd
}

func newFactionsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "factions",
		Short: "List factions that build storage modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
				for _, f := range a.Engine.Calculator.GetAvailableStorageFactions() {
					fmt.Fprintf(out, "%-10s %s\n", f.ID, f.Name)
				}
				return nil
			})
		},
	}
}
