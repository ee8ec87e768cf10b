package main

import "github.com/spf13/cobra"

var cablesCmd = &cobra.Command{
	Use:   "cables",
	Short: "Manage cable route data",
	Long:  "Inspect and download the cable route files used by crossing checks.",
}

func init() { rootCmd.AddCommand(cablesCmd) }
