/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/cpgrams/pkg/config"
)

const serviceName = "cpgrams.service"

var (
	// systemdUnitDir is where the unit file is installed
	systemdUnitDir = "/etc/systemd/system"

	// runCommand runs an external command, streaming its output to out
	runCommand = func(ctx context.Context, out io.Writer, name string, args ...string) error {
		c := exec.CommandContext(ctx, name, args...)
		c.Stdout = out
		c.Stderr = out
		return c.Run()
	}

	// requireRoot fails unless the process may manage systemd units
	requireRoot = func() error {
		if os.Geteuid() != 0 {
			return errors.New("this command requires root privileges (run with sudo)")
		}
		return nil
	}
)

// serviceCmd represents the service command
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage cpgrams as a systemd service",
	Long: `Manage cpgrams as a systemd service. The unit runs "cpgrams serve" with
the given configuration and restarts it on failure.`,
	// subcommands manage systemd and do not load the collection
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

// installServiceCmd represents the service install command
var installServiceCmd = &cobra.Command{
	Use:   "install",
	Short: "Install cpgrams as a systemd service",
	Long: `Install cpgrams as a systemd service.

This will:
- Create the configuration (with a generated API key) if it does not exist
- Write the systemd unit file
- Enable and optionally start the service

Examples:
  sudo cpgrams service install --config /etc/cpgrams/config.yaml --data-file /var/lib/cpgrams/grievances.json
  sudo cpgrams service install --user cpgrams --port 9000 --start=false`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoot(); err != nil {
			return err
		}

		flags := cmd.Flags()
		configPath, _ := flags.GetString("config")
		dataFile, _ := flags.GetString("data-file")
		user, _ := flags.GetString("user")
		binary, _ := flags.GetString("binary")
		startNow, _ := flags.GetBool("start")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		configPath, err := filepath.Abs(configPath)
		if err != nil {
			return fmt.Errorf("invalid config path: %w", err)
		}

		var c *config.Config
		if config.ConfigExists(configPath) {
			c, err = config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if dataFile != "" {
				c.Data.File = dataFile
			}
			cmd.Printf("✅ Loaded existing configuration from %s\n", configPath)
		} else {
			c, err = config.BootstrapConfig(configPath, dataFile)
			if err != nil {
				return fmt.Errorf("error bootstrapping config: %w", err)
			}
			cmd.Printf("✅ Created new configuration at %s\n", configPath)
		}

		if flags.Changed("port") {
			c.Server.Port, _ = flags.GetInt("port")
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if err := config.SaveConfig(c, configPath); err != nil {
			return err
		}

		if binary == "" {
			binary, err = os.Executable()
			if err != nil {
				return fmt.Errorf("failed to locate the cpgrams binary: %w", err)
			}
		}

		unitPath := filepath.Join(systemdUnitDir, serviceName)
		if err := writeSystemdUnit(unitPath, systemdUnit(c, configPath, binary, user)); err != nil {
			return fmt.Errorf("error creating systemd unit: %w", err)
		}

		out := cmd.OutOrStdout()
		if err := runCommand(cmd.Context(), out, "systemctl", "daemon-reload"); err != nil {
			return fmt.Errorf("error reloading systemd: %w", err)
		}
		if err := runCommand(cmd.Context(), out, "systemctl", "enable", serviceName); err != nil {
			return fmt.Errorf("error enabling service: %w", err)
		}
		cmd.Printf("✅ Service enabled\n")

		if startNow {
			if err := runCommand(cmd.Context(), out, "systemctl", "start", serviceName); err != nil {
				return fmt.Errorf("error starting service: %w", err)
			}
			cmd.Printf("✅ Service started\n")
		}

		cmd.Printf("\nService: %s\n", serviceName)
		cmd.Printf("Unit: %s\n", unitPath)
		cmd.Printf("Config: %s\n", configPath)
		cmd.Printf("Port: %d\n", c.Server.Port)
		if !startNow {
			cmd.Printf("\nTo start the service: sudo systemctl start %s\n", serviceName)
		}
		cmd.Printf("To view logs: cpgrams service logs --follow\n")
		return nil
	},
}

// uninstallServiceCmd represents the service uninstall command
var uninstallServiceCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the cpgrams service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoot(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_ = runCommand(cmd.Context(), out, "systemctl", "stop", serviceName) // may already be stopped
		if err := runCommand(cmd.Context(), out, "systemctl", "disable", serviceName); err != nil {
			cmd.Printf("Warning: could not disable service: %v\n", err)
		}

		unitPath := filepath.Join(systemdUnitDir, serviceName)
		if err := os.Remove(unitPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error removing unit file: %w", err)
		}
		if err := runCommand(cmd.Context(), out, "systemctl", "daemon-reload"); err != nil {
			return fmt.Errorf("error reloading systemd: %w", err)
		}

		cmd.Printf("✅ cpgrams service uninstalled\n")
		cmd.Printf("Note: configuration and data files were not removed\n")
		return nil
	},
}

// logsServiceCmd represents the service logs command
var logsServiceCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show cpgrams service logs",
	Long: `Show cpgrams service logs using journalctl.

Examples:
  cpgrams service logs
  cpgrams service logs --follow
  cpgrams service logs -n 100`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		lines, _ := cmd.Flags().GetInt("lines")

		journalArgs := []string{"-u", serviceName}
		if follow {
			journalArgs = append(journalArgs, "-f")
		}
		if lines > 0 {
			journalArgs = append(journalArgs, fmt.Sprintf("-n%d", lines))
		}
		return runCommand(cmd.Context(), cmd.OutOrStdout(), "journalctl", journalArgs...)
	},
}

// systemctlCmd builds a subcommand that runs one systemctl action on the unit
func systemctlCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runCommand(cmd.Context(), cmd.OutOrStdout(), "systemctl", action, serviceName); err != nil {
				return fmt.Errorf("systemctl %s %s failed: %w", action, serviceName, err)
			}
			return nil
		},
	}
}

// systemdUnit renders the unit file for running cpgrams serve with configPath
func systemdUnit(c *config.Config, configPath, binary, user string) string {
	return fmt.Sprintf(`[Unit]
Description=cpgrams grievance query API
After=network-online.target
Wants=network-online.target

[Service]
User=%[1]s
Group=%[1]s
ExecStart=%[2]s serve --config %[3]s
Restart=on-failure
NoNewPrivileges=true
UMask=0077
ReadWritePaths=%[4]s
ReadWritePaths=%[5]s

[Install]
WantedBy=multi-user.target
`, user, binary, configPath, dataDir(c), filepath.Dir(configPath))
}

// dataDir is the directory the service must be able to write data to
func dataDir(c *config.Config) string {
	if c.Data.Source == config.SourcePebble {
		return c.Data.PebbleDir
	}
	return filepath.Dir(c.Data.File)
}

func writeSystemdUnit(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func init() {
	rootCmd.AddCommand(serviceCmd)

	serviceCmd.AddCommand(installServiceCmd)
	serviceCmd.AddCommand(systemctlCmd("start", "Start the cpgrams service"))
	serviceCmd.AddCommand(systemctlCmd("stop", "Stop the cpgrams service"))
	serviceCmd.AddCommand(systemctlCmd("restart", "Restart the cpgrams service"))
	serviceCmd.AddCommand(systemctlCmd("status", "Show the cpgrams service status"))
	serviceCmd.AddCommand(logsServiceCmd)
	serviceCmd.AddCommand(uninstallServiceCmd)

	installServiceCmd.Flags().String("user", "cpgrams", "User to run the service as")
	installServiceCmd.Flags().String("binary", "", "Path of the cpgrams binary (default: this executable)")
	installServiceCmd.Flags().Int("port", 8000, "Port for the service")
	installServiceCmd.Flags().Bool("start", true, "Start the service after installation")

	logsServiceCmd.Flags().Bool("follow", false, "Follow log output")
	logsServiceCmd.Flags().IntP("lines", "n", 0, "Number of lines to show")
}
