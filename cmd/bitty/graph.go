package main

import (
	"os"

	"github.com/aretw0/bitty/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <page.yaml>",
	Short: "Export the signal wiring of a page",
	Long:  `Outputs a Mermaid diagram (graph TD) linking every sender to the receivers of the signals it emits.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Graph(cmd.Context(), pagePath(args), os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
