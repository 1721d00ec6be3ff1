package cli

import (
	"github.com/spf13/cobra"

	"github.com/Way/highcharts-utils/internal/httpapi"
	"github.com/Way/highcharts-utils/pkg/store"
)

// serveCommand creates the serve command, exposing the pipeline over HTTP.
// Dataset persistence is enabled when a MongoDB URI is configured.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var mongoURI string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the expansion pipeline over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if mongoURI == "" {
				mongoURI = c.Config.Mongo.URI
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			var st httpapi.DatasetStore
			if mongoURI != "" {
				mongoStore, err := store.Connect(ctx, mongoURI, c.Config.Mongo.Database)
				if err != nil {
					return err
				}
				defer mongoStore.Close(ctx)
				st = mongoStore
				logger.Info("dataset persistence enabled", "database", c.Config.Mongo.Database)
			}

			return httpapi.NewServer(runner, st, logger).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB URI for dataset persistence (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
