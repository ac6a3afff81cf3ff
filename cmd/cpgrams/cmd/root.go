/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/cpgrams/pkg/api"
	"github.com/ssargent/cpgrams/pkg/config"
	"github.com/ssargent/cpgrams/pkg/di"
	"github.com/ssargent/cpgrams/pkg/logging"
)

var (
	container *di.Container
	cfg       *config.Config
	logger    *zap.Logger
)

// SetContainer injects the dependency container, mainly for tests
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cpgrams",
	Short: "cpgrams - grievance record query service",
	Long: `cpgrams loads a JSON collection of public grievance records, normalizes
extended JSON wrappers ($date, $numberLong, $oid) and serves filtering,
pagination, lookups and aggregations over HTTP or from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// setup resolves the configuration, then builds the logger and the dependency container
func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	cmd.SetContext(logging.NewContext(cmd.Context(), logger))

	if container == nil {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		container = di.NewContainer(api.NewMetrics(reg), logger)
	}
	return nil
}

// resolveConfig loads the config file (if any), then env overrides, then flags
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	c := config.DefaultConfig()
	switch {
	case configPath != "":
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		c = loaded
	case config.ConfigExists(config.GetDefaultConfigPath()):
		loaded, err := config.LoadConfig(config.GetDefaultConfigPath())
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	if err := config.ApplyEnv(cmd.Context(), c); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data-file") {
		c.Data.File, _ = flags.GetString("data-file")
		c.Data.Source = config.SourceFile
	}
	if flags.Changed("source") {
		c.Data.Source, _ = flags.GetString("source")
	}
	if flags.Changed("pebble-dir") {
		c.Data.PebbleDir, _ = flags.GetString("pebble-dir")
	}
	if flags.Changed("log-level") {
		c.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		c.Logging.Format, _ = flags.GetString("log-format")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default ~/.config/cpgrams/config.yaml when present)")
	rootCmd.PersistentFlags().StringP("data-file", "f", "", "Grievance JSON file (overrides data.file)")
	rootCmd.PersistentFlags().String("source", "", "Collection source: file or pebble (overrides data.source)")
	rootCmd.PersistentFlags().String("pebble-dir", "", "Snapshot store directory (overrides data.pebble_dir)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: console or json")
}
