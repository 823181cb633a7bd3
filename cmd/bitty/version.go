package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/bitty"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bitty",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bitty version %s\n", strings.TrimSpace(bitty.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
