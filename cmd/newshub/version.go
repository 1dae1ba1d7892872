package main

import (
	"fmt"

	"github.com/pders01/newshub/internal/tui"
	"github.com/spf13/cobra"
)

var flagBanner bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if flagBanner {
			fmt.Fprintln(out, tui.Banner(Version))
			return
		}
		fmt.Fprintf(out, "%s %s\n", tui.AppName, Version)
		fmt.Fprintln(out, "Terminal news reader")
		fmt.Fprintln(out, "github.com/pders01/newshub")
	},
}

func init() {
	versionCmd.Flags().BoolVar(&flagBanner, "banner", false, "show the logo")
}
