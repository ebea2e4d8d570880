package main

import (
	"fmt"

	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the PulseBot version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", core.PulseName, core.PulseVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
