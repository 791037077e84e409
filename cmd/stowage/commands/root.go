package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DrSkyle/stowage/internal/app"
	"github.com/DrSkyle/stowage/pkg/config"
	"github.com/DrSkyle/stowage/pkg/version"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// options is shared by every subcommand of one root.
type options struct {
	cfgFile string
	v       *viper.Viper
}

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"catalog":       "catalog",
	"rules":         "rules",
	"layout-store":  "layout_store",
	"otel-endpoint": "otel_endpoint",
	"json-logs":     "json_logs",
	"faction":       "filter.faction",
	"small":         "filter.small",
	"medium":        "filter.medium",
	"large":         "filter.large",
	"any-size":      "filter.any_size",
	"input-hours":   "retention.input_hours",
	"output-hours":  "retention.output_hours",
	"sunlight":      "station.sunlight",
	"workforce":     "station.workforce",
	"hq":            "station.hq",
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	o := &options{v: viper.New()}
	d := config.Default()

	rootCmd := &cobra.Command{
		Use:   version.AppName,
		Short: "Storage planner for station builds",
		Long: `Stowage sizes container, liquid and solid storage for a station and
recommends the modules that cover the shortfall.`,
		Version:       version.Current,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.initConfig(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.cfgFile, "config", "", "Config file (default $HOME/.stowage.yaml)")
	pf.String("catalog", "", "Catalog YAML replacing the embedded game data")
	pf.String("rules", "", "CEL rules file for storage candidates")
	pf.String("layout-store", d.LayoutStore, "Layout directory or s3://bucket/prefix")
	pf.String("otel-endpoint", "", "OTLP trace endpoint")
	pf.Bool("json-logs", d.JSONLogs, "Log as JSON")
	pf.String("faction", d.Filter.Faction, "Storage maker faction, empty for any")
	pf.Bool("small", d.Filter.Small, "Allow S storage modules")
	pf.Bool("medium", d.Filter.Medium, "Allow M storage modules")
	pf.Bool("large", d.Filter.Large, "Allow L storage modules")
	pf.Bool("any-size", d.Filter.AnySize, "Ignore module size")
	pf.Float64("input-hours", d.Retention.InputHours, "Hours of input buffered")
	pf.Float64("output-hours", d.Retention.OutputHours, "Hours of output buffered")
	pf.Float64("sunlight", d.Station.Sunlight, "Sector sunlight in percent")
	pf.Float64("workforce", d.Station.Workforce, "Manual workforce when auto workforce is off")
	pf.Bool("hq", d.Station.HQ, "Station is the player HQ")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderFutureGlassHelp(cmd)
	})

	rootCmd.AddCommand(
		newPlanCmd(o),
		newApplyCmd(o),
		newModulesCmd(o),
		newFactionsCmd(o),
		newExportCmd(o),
		newLayoutCmd(o),
		newServeCmd(o),
		newVersionCmd(),
		newCompletionCmd(rootCmd),
	)
	return rootCmd
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (o *options) initConfig(cmd *cobra.Command) error {
	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		o.v.SetConfigFile(filepath.Join(home, ".stowage.yaml"))
		o.v.SetConfigType("yaml")
	}

	o.v.SetEnvPrefix("STOWAGE")
	o.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	o.v.AutomaticEnv()

	if err := o.v.ReadInConfig(); err != nil {
		// A missing default file is fine, an explicit one is not.
		if o.cfgFile != "" {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := o.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// open resolves the config and restores the working station.
func (o *options) open(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(o.v)
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg)
}

// run opens the app, calls fn and flushes telemetry.
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context, a *app.App, out io.Writer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())
	return fn(ctx, a, cmd.OutOrStdout())
}

func renderFutureGlassHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("STOWAGE %s", version.Current)))
	fmt.Fprintln(out, cmd.Short)

	fmt.Fprintln(out, titleStyle.Render("USAGE"))
	fmt.Fprintf(out, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(out, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(out, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(out, flagStyle.Render(output))
	})
	fmt.Fprintln(out)
}
