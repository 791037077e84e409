package commands

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"github.com/DrSkyle/stowage/internal/app"
	"github.com/DrSkyle/stowage/pkg/api"
	"github.com/spf13/cobra"
)

func newServeCmd(o *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
				ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				srv := api.NewServer(a.Engine, api.WithLayouts(a.Layouts), api.WithLogger(a.Engine.Logger))
				if err := srv.ListenAndServe(ctx, addr); err != nil {
					return err
				}
				return a.Persist(context.Background())
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
