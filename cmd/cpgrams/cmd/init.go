/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/cpgrams/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file",
	Long: `Create a cpgrams configuration file with a generated client API key.

Examples:
  cpgrams init
  cpgrams init --config ./cpgrams.yaml --data-file ./data/no_pii_grievance_v2.json
  cpgrams init --force --print-keys`,
	// config may not exist yet, so skip the root loader
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dataFile, _ := cmd.Flags().GetString("data-file")
		force, _ := cmd.Flags().GetBool("force")
		printKeys, _ := cmd.Flags().GetBool("print-keys")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		c, err := config.BootstrapConfig(configPath, dataFile)
		if err != nil {
			return fmt.Errorf("error bootstrapping config: %w", err)
		}

		cmd.Printf("✅ Configuration created at %s\n", configPath)
		cmd.Printf("Data file: %s\n", c.Data.File)
		if printKeys {
			cmd.Printf("Client API key: %s\n", c.Security.ClientAPIKey)
		} else {
			cmd.Printf("Client API key: %s...\n", c.Security.ClientAPIKey[:8])
		}
		cmd.Printf("\nYou can now start the server with:\n")
		cmd.Printf("  cpgrams serve --config %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	initCmd.Flags().Bool("print-keys", false, "Print the full generated API key")
}
