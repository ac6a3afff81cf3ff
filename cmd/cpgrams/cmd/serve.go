/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ssargent/cpgrams/pkg/api"
	"github.com/ssargent/cpgrams/pkg/collection"
	"github.com/ssargent/cpgrams/pkg/config"
)

// version is reported by the API root and swagger doc
var version = "1.0.0"

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Load the grievance collection and start the REST API server.

The collection is loaded once at startup; if it cannot be loaded the server
does not start. With --watch the JSON file is reloaded when it changes and
queries keep using the previous snapshot until the new one is ready.

Examples:
  cpgrams serve
  cpgrams serve --data-file ./data/no_pii_grievance_v2.json --port 8000 --watch
  cpgrams serve --source pebble --pebble-dir ./data/pebble --api-key mysecretkey`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyServeFlags(cmd, cfg)
		return runServe(cmd.Context(), cfg)
	},
}

// runServe loads the collection and serves it until ctx is cancelled or a signal arrives
func runServe(ctx context.Context, c *config.Config) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := container.GetMetrics()
	eng, holder, closer, err := openEngine(ctx, c, metrics)
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	defer closer.Close()

	serverConfig := api.ServerConfig{
		Bind:        c.Server.Bind,
		Port:        c.Server.Port,
		APIKey:      c.Security.ClientAPIKey,
		CORSOrigins: c.Server.CORSOrigins,
		Version:     version,
	}
	if serverConfig.APIKey == "" {
		logger.Warn("no client API key configured, /api/grievances is unauthenticated")
	}

	g, gctx := errgroup.WithContext(ctx)
	if c.Data.Watch {
		g.Go(func() error {
			logger.Info("watching collection file", zap.String("file", c.Data.File))
			return collection.Watch(gctx, holder, c.Data.File, c.Data.WatchDebounce)
		})
	}
	g.Go(func() error {
		starter := container.GetServerFactory().CreateServerStarter()
		return starter.StartServer(gctx, eng, serverConfig)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// applyServeFlags overrides server settings with explicitly set flags
func applyServeFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		c.Server.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("bind") {
		c.Server.Bind, _ = flags.GetString("bind")
	}
	if flags.Changed("api-key") {
		c.Security.ClientAPIKey, _ = flags.GetString("api-key")
	}
	if flags.Changed("watch") {
		c.Data.Watch, _ = flags.GetBool("watch")
	}
}

// addServeFlags registers the server flags read by applyServeFlags
func addServeFlags(c *cobra.Command) {
	c.Flags().IntP("port", "p", 8000, "Port to listen on")
	c.Flags().String("bind", "127.0.0.1", "Address to bind")
	c.Flags().String("api-key", "", "API key required on /api/grievances (empty disables)")
	c.Flags().Bool("watch", false, "Reload the collection when the data file changes")
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServeFlags(serveCmd)
}
