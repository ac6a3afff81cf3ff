package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/cpgrams/pkg/config"
)

// stubSystemd redirects unit files to a temp dir and records external commands
func stubSystemd(t *testing.T, root bool) (string, *[]string) {
	t.Helper()
	prevDir, prevRun, prevRoot := systemdUnitDir, runCommand, requireRoot
	t.Cleanup(func() {
		systemdUnitDir, runCommand, requireRoot = prevDir, prevRun, prevRoot
	})

	systemdUnitDir = filepath.Join(t.TempDir(), "systemd")
	calls := &[]string{}
	runCommand = func(ctx context.Context, out io.Writer, name string, args ...string) error {
		*calls = append(*calls, strings.Join(append([]string{name}, args...), " "))
		return nil
	}
	requireRoot = func() error {
		if !root {
			return errors.New("this command requires root privileges (run with sudo)")
		}
		return nil
	}
	return systemdUnitDir, calls
}

func TestServiceInstall(t *testing.T) {
	env := newTestEnv(t)
	unitDir, calls := stubSystemd(t, true)

	out, err := execute(t, env, "service", "install", "--binary", "/usr/local/bin/cpgrams", "--port", "9200")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded existing configuration")
	assert.Contains(t, out, "Service started")

	unit, err := os.ReadFile(filepath.Join(unitDir, serviceName))
	require.NoError(t, err)
	assert.Contains(t, string(unit), "ExecStart=/usr/local/bin/cpgrams serve --config "+env.configPath)
	assert.Contains(t, string(unit), "User=cpgrams")
	assert.Contains(t, string(unit), "ReadWritePaths="+env.dir)

	saved, err := config.LoadConfig(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, 9200, saved.Server.Port)
	assert.Equal(t, env.dataFile, saved.Data.File)

	assert.Equal(t, []string{
		"systemctl daemon-reload",
		"systemctl enable " + serviceName,
		"systemctl start " + serviceName,
	}, *calls)
}

func TestServiceInstall_BootstrapsWithoutStarting(t *testing.T) {
	env := newTestEnv(t)
	_, calls := stubSystemd(t, true)
	fresh := testEnv{configPath: filepath.Join(env.dir, "etc", "config.yaml")}

	out, err := execute(t, fresh, "service", "install", "--data-file", env.dataFile, "--binary", "/bin/cpgrams", "--start=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Created new configuration")
	assert.Contains(t, out, "To start the service")

	saved, err := config.LoadConfig(fresh.configPath)
	require.NoError(t, err)
	assert.Len(t, saved.Security.ClientAPIKey, 64)
	assert.Equal(t, env.dataFile, saved.Data.File)
	assert.NotContains(t, *calls, "systemctl start "+serviceName)
}

func TestServiceInstall_RequiresRoot(t *testing.T) {
	env := newTestEnv(t)
	unitDir, calls := stubSystemd(t, false)

	_, err := execute(t, env, "service", "install")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root privileges")
	assert.NoFileExists(t, filepath.Join(unitDir, serviceName))
	assert.Empty(t, *calls)
}

func TestServiceUninstall(t *testing.T) {
	env := newTestEnv(t)
	unitDir, calls := stubSystemd(t, true)
	unitPath := filepath.Join(unitDir, serviceName)
	require.NoError(t, writeSystemdUnit(unitPath, "[Unit]\n"))

	out, err := execute(t, env, "service", "uninstall")
	require.NoError(t, err)
	assert.Contains(t, out, "service uninstalled")
	assert.NoFileExists(t, unitPath)
	assert.Equal(t, []string{
		"systemctl stop " + serviceName,
		"systemctl disable " + serviceName,
		"systemctl daemon-reload",
	}, *calls)
}

func TestServiceControlCommands(t *testing.T) {
	env := newTestEnv(t)
	_, calls := stubSystemd(t, false)

	for _, action := range []string{"start", "stop", "restart", "status"} {
		_, err := execute(t, env, "service", action)
		require.NoError(t, err, action)
	}
	_, err := execute(t, env, "service", "logs", "--follow", "-n", "50")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"systemctl start " + serviceName,
		"systemctl stop " + serviceName,
		"systemctl restart " + serviceName,
		"systemctl status " + serviceName,
		"journalctl -u " + serviceName + " -f -n50",
	}, *calls)
}

func TestSystemdUnit_PebbleSource(t *testing.T) {
	c := config.DefaultConfig()
	c.Data.Source = config.SourcePebble
	c.Data.PebbleDir = "/var/lib/cpgrams/pebble"

	unit := systemdUnit(c, "/etc/cpgrams/config.yaml", "/usr/bin/cpgrams", "svc")
	assert.Contains(t, unit, "User=svc\nGroup=svc\n")
	assert.Contains(t, unit, "ReadWritePaths=/var/lib/cpgrams/pebble\n")
	assert.Contains(t, unit, "ReadWritePaths=/etc/cpgrams\n")
}
