package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/balticwatch/cablewatch/internal/analysis"
	"github.com/balticwatch/cablewatch/internal/cable"
	"github.com/balticwatch/cablewatch/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve crossing checks over HTTP",
	Long:  "Loads the cable routes once and serves trajectory checks and run history over a JSON API.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		set, err := cable.Load(cfg.Cables.Path)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			// The API still works without history; checks just cannot be saved.
			zap.L().Warn("serve: run store unavailable", zap.Error(err))
		} else {
			defer st.Close() //nolint:errcheck
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := server.New(set, cfg.Cables.Path, st,
			analysis.Options{NearThresholdDeg: cfg.Analysis.NearThresholdDeg})
		return srv.ListenAndServe(ctx, port)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
