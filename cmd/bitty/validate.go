package main

import (
	"fmt"
	"os"

	"github.com/aretw0/bitty/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <page.yaml>",
	Short: "Check a page document",
	Long:  `Compiles the page, checks node ids and script targets, and mounts it to make sure every component connects.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.Validate(cmd.Context(), pagePath(args), os.Stdout); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Println("Page is valid!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
