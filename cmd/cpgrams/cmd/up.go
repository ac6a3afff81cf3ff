/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/cpgrams/pkg/config"
)

// upCmd represents the up command
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Bootstrap cpgrams and start the server",
	Long: `Create the configuration with a generated client API key if it does not
exist yet, then load the grievance collection and start the REST API server.
This is the quickest way to get cpgrams running.

Examples:
  cpgrams up
  cpgrams up --data-file ./data/no_pii_grievance_v2.json --port 9000
  cpgrams up --config ./cpgrams.yaml --print-keys`,
	// the config is bootstrapped before the root loader reads it
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if !config.ConfigExists(configPath) {
			dataFile, _ := cmd.Flags().GetString("data-file")
			printKeys, _ := cmd.Flags().GetBool("print-keys")

			cmd.Printf("🔧 First run detected. Bootstrapping cpgrams...\n")
			c, err := config.BootstrapConfig(configPath, dataFile)
			if err != nil {
				return fmt.Errorf("error bootstrapping config: %w", err)
			}
			cmd.Printf("✅ Configuration created at %s\n", configPath)
			if printKeys {
				cmd.Printf("Client API key: %s\n", c.Security.ClientAPIKey)
				cmd.Printf("Store this key securely! It is also saved in %s\n", configPath)
			}
		}

		if err := cmd.Flags().Set("config", configPath); err != nil {
			return err
		}
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		applyServeFlags(cmd, cfg)
		cmd.Printf("🚀 Starting cpgrams on %s:%d\n", cfg.Server.Bind, cfg.Server.Port)
		cmd.Printf("📁 Data: %s (%s)\n", dataLocation(cfg), cfg.Data.Source)
		return runServe(cmd.Context(), cfg)
	},
}

// dataLocation returns the file or directory the configured source reads
func dataLocation(c *config.Config) string {
	if c.Data.Source == config.SourcePebble {
		return c.Data.PebbleDir
	}
	return c.Data.File
}

func init() {
	rootCmd.AddCommand(upCmd)
	addServeFlags(upCmd)
	upCmd.Flags().Bool("print-keys", false, "Print the generated API key on first run")
}
