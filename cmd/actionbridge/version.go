package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/actionbridge"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of actionbridge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "actionbridge version %s\n", strings.TrimSpace(actionbridge.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
