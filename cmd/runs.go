package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/balticwatch/cablewatch/internal/store"
)

var (
	runsListScenario string
	runsListLimit    int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved analysis runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		runs, err := st.ListRuns(ctx, store.Filter{
			Scenario: runsListScenario,
			Limit:    runsListLimit,
		})
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No saved runs.")
			return nil
		}

		fmt.Printf("%-36s  %-20s  %-10s  %-7s  %s\n", "ID", "SCENARIO", "CROSSINGS", "NEARBY", "CREATED")
		for _, r := range runs {
			fmt.Printf("%-36s  %-20s  %-10d  %-7d  %s\n",
				r.ID, r.Scenario,
				len(r.Result.Intersections), len(r.Result.NearbyCables),
				r.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one saved run as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func init() {
	runsListCmd.Flags().StringVar(&runsListScenario, "scenario", "", "filter by scenario name")
	runsListCmd.Flags().IntVar(&runsListLimit, "limit", 0, "maximum runs to list (default 20)")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
