package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balticwatch/cablewatch/internal/cable"
)

var cablesInfoPath string

var cablesInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize a cable route file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := firstNonEmpty(cablesInfoPath, cfg.Cables.Path)

		set, err := cable.Load(path)
		if err != nil {
			return err
		}

		fmt.Println("=== Cable Routes ===")
		fmt.Printf("File:              %s\n", path)
		fmt.Printf("Cables:            %d\n", len(set.Cables))
		fmt.Printf("Skipped features:  %d\n", set.Skipped)
		fmt.Printf("Total segments:    %d\n", set.SegmentCount())
		if set.Bounds != nil {
			fmt.Printf("Extent:            (%g, %g) to (%g, %g)\n",
				set.Bounds.Min(0), set.Bounds.Min(1),
				set.Bounds.Max(0), set.Bounds.Max(1))
		}
		fmt.Println()

		for _, c := range set.Cables {
			fmt.Printf("  %s (%s): %d line-string(s), %d segment(s)\n",
				c.Name, c.ID, len(c.Lines), c.SegmentCount())
		}

		return nil
	},
}

func init() {
	cablesInfoCmd.Flags().StringVar(&cablesInfoPath, "cables", "", "cable route file (default from config)")
	cablesCmd.AddCommand(cablesInfoCmd)
}
