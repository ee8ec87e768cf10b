package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/balticwatch/cablewatch/internal/analysis"
	"github.com/balticwatch/cablewatch/internal/cable"
	"github.com/balticwatch/cablewatch/internal/export"
	"github.com/balticwatch/cablewatch/internal/store"
	"github.com/balticwatch/cablewatch/internal/trajectory"
)

var (
	checkCables   string
	checkScenario string
	checkSave     bool
	checkXLSX     string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a vessel trajectory against cable routes",
	Long:  "Loads cable routes, sweeps a trajectory against every cable segment, and reports crossings and near passes. Without --scenario the built-in rostock-approach track is used.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		opts := checkOptions{
			CablePath: firstNonEmpty(checkCables, cfg.Cables.Path),
			Scenario:  checkScenario,
			Save:      checkSave,
			XLSXPath:  checkXLSX,
			Analysis:  analysis.Options{NearThresholdDeg: cfg.Analysis.NearThresholdDeg},
		}
		if opts.Save {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			opts.Store = st
		}

		_, err := runCheck(ctx, os.Stdout, opts)
		return err
	},
}

// checkOptions collects everything one analysis invocation needs, so the run
// itself stays testable without flag or config state.
type checkOptions struct {
	CablePath string
	Scenario  string // scenario YAML path; empty means the default track
	Save      bool
	XLSXPath  string
	Analysis  analysis.Options
	Store     store.Store
}

// runCheck loads inputs, analyzes, reports to out, and applies the requested
// side outputs (store, XLSX).
func runCheck(ctx context.Context, out io.Writer, opts checkOptions) (*analysis.Result, error) {
	traj := trajectory.Default()
	if opts.Scenario != "" {
		var err error
		traj, err = trajectory.LoadScenario(opts.Scenario)
		if err != nil {
			return nil, err
		}
	}

	set, err := cable.Load(opts.CablePath)
	if err != nil {
		return nil, err
	}

	zap.L().Info("checking trajectory against cable routes",
		zap.String("scenario", traj.Name),
		zap.String("cables", opts.CablePath),
		zap.Int("cable_count", len(set.Cables)),
		zap.Int("segment_count", set.SegmentCount()),
	)

	result := analysis.Run(traj, set, opts.Analysis)
	analysis.WriteReport(out, traj, result, opts.Analysis)

	if opts.Save && opts.Store != nil {
		run, err := opts.Store.CreateRun(ctx, traj.Name, opts.CablePath, result)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "\nSaved run %s\n", run.ID)
	}

	if opts.XLSXPath != "" {
		if err := export.WriteXLSX(opts.XLSXPath, traj, result); err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "\nWrote %s\n", opts.XLSXPath)
	}

	return &result, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	checkCmd.Flags().StringVar(&checkCables, "cables", "", "cable route file (default from config)")
	checkCmd.Flags().StringVar(&checkScenario, "scenario", "", "trajectory scenario YAML file")
	checkCmd.Flags().BoolVar(&checkSave, "save", false, "persist the result to the run store")
	checkCmd.Flags().StringVar(&checkXLSX, "xlsx", "", "write the result to an XLSX workbook")
	rootCmd.AddCommand(checkCmd)
}
