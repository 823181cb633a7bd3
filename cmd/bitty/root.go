package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/bitty/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bitty",
	Short: "bitty is a declarative signal router for element trees",
	Long: `bitty mounts components declared in a page document, routes the signals
their elements send to the elements that receive them, and replays scripted
interactions against the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text or json)")
	rootCmd.PersistentFlags().Bool("strict", false, "Warn about signals nothing handles")
}

func logOptions(cmd *cobra.Command) cli.LogOptions {
	debug, _ := cmd.Flags().GetBool("debug")
	format, _ := cmd.Flags().GetString("log-format")
	return cli.LogOptions{Debug: debug, Format: format}
}

func pagePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
