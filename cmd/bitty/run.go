package main

import (
	"os"

	"github.com/aretw0/bitty/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <page.yaml>",
	Short: "Mount a page and replay its script",
	Long:  `Mounts every component of the page document and replays its script, printing one line per dispatched signal.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		headless, _ := cmd.Flags().GetBool("headless")
		watchMode, _ := cmd.Flags().GetBool("watch")
		jsonMode, _ := cmd.Flags().GetBool("json")
		strict, _ := cmd.Flags().GetBool("strict")
		redisURL, _ := cmd.Flags().GetString("redis")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Execute(ctx, cli.RunOptions{
			Path:     pagePath(args),
			Headless: headless,
			Watch:    watchMode,
			JSON:     jsonMode,
			Strict:   strict,
			RedisURL: redisURL,
			Log:      logOptions(cmd),
		}, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Print only dispatch traces")
	runCmd.Flags().Bool("json", false, "Print dispatch traces as NDJSON")
	runCmd.Flags().BoolP("watch", "w", false, "Re-run the page whenever the file changes")
	runCmd.Flags().String("redis", "", "Record dispatch traces in Redis (redis://host:port/db)")
}
