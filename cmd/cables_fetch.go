package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/balticwatch/cablewatch/internal/fetcher"
)

var (
	cablesFetchURL string
	cablesFetchOut string
)

var cablesFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a cable route file",
	Long:  "Downloads cable route data over HTTP or FTP to the configured route file path.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		url := firstNonEmpty(cablesFetchURL, cfg.Cables.URL)
		if url == "" {
			return eris.New("no source URL: pass --url or set cables.url")
		}
		out := firstNonEmpty(cablesFetchOut, cfg.Cables.Path)

		f, err := fetcher.ForURL(url, fetcher.Options{
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Fetch.MaxRetries,
			RatePerSec: cfg.Fetch.RatePerSec,
		})
		if err != nil {
			return err
		}

		zap.L().Info("downloading cable routes", zap.String("url", url), zap.String("dest", out))
		n, err := f.DownloadToFile(ctx, url, out)
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %d bytes to %s\n", n, out)
		return nil
	},
}

func init() {
	cablesFetchCmd.Flags().StringVar(&cablesFetchURL, "url", "", "source URL (default from config)")
	cablesFetchCmd.Flags().StringVar(&cablesFetchOut, "out", "", "destination path (default from config)")
	cablesCmd.AddCommand(cablesFetchCmd)
}
