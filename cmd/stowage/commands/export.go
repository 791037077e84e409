package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/DrSkyle/stowage/internal/app"
	"github.com/DrSkyle/stowage/pkg/engine/report"
	"github.com/DrSkyle/stowage/pkg/storage"
	"github.com/spf13/cobra"
)

func newExportCmd(o *options) *cobra.Command {
	var (
		outPath string
		name    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the plan (text, json, csv, xlsx, pdf, html)",
		Long: `Write the current plan to a file. The format follows the file extension.

A directory or s3://bucket/prefix target receives every format, named after --name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
				plan, err := a.Engine.Plan(ctx)
				if err != nil {
					return err
				}

				if _, _, ok := storage.ParseS3URL(outPath); ok || isDir(outPath) {
					store, err := storage.Open(ctx, outPath)
					if err != nil {
						return err
					}
					keys, err := a.Engine.UploadArtifacts(ctx, store, "", name, plan)
					if err != nil {
						return err
					}
					for _, k := range keys {
						fmt.Fprintf(out, "wrote %s\n", k)
					}
					return nil
				}

				if err := report.WriteFile(outPath, plan.Summary()); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", outPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "stowage-plan.csv", "Output file, directory or s3://bucket/prefix")
	cmd.Flags().StringVar(&name, "name", "stowage-plan", "Base name for directory and S3 exports")
	return cmd
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	if filepath.Ext(path) == "" {
		return true
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
