package main

import (
	"fmt"

	"github.com/aretw0/algoviz"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of algoviz",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "algoviz version %s\n", algoviz.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
