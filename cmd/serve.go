package main

import (
	srv "github.com/mohammad-safakhou/khobor/internal/server"
	"github.com/spf13/cobra"
)

func serveCMD(cfgPath *string) *cobra.Command {
	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *cfgPath, false)
			if err != nil {
				return err
			}
			if serveAddr != "" {
				a.cfg.Server.Address = serveAddr
			}
			opts := srv.Options{Desk: a.desk, Metrics: a.metrics, MetricsPath: a.cfg.Telemetry.MetricsPath}
			if a.registry != nil {
				opts.Gatherer = a.registry
			}
			return srv.Run(ctx, a.cfg.Server, opts)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.address)")

	return serve
}
