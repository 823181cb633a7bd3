package main

import (
	"os"

	"github.com/aretw0/bitty/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <page.yaml>",
	Short: "Serve a mounted page over HTTP",
	Long:  `Mounts the page and exposes it over HTTP: inject events, forward signals, inspect the tree and dispatch traces, scrape /metrics.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		redisURL, _ := cmd.Flags().GetString("redis")
		fresh, _ := cmd.Flags().GetBool("fresh")
		strict, _ := cmd.Flags().GetBool("strict")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Serve(ctx, cli.ServeOptions{
			Path:     pagePath(args),
			Addr:     ":" + port,
			RedisURL: redisURL,
			Fresh:    fresh,
			Strict:   strict,
			Log:      logOptions(cmd),
		}, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Keep dispatch traces in Redis (redis://host:port/db)")
	serveCmd.Flags().Bool("fresh", false, "Clear the page's trace stream before serving")
}
