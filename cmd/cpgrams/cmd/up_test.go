package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ssargent/cpgrams/pkg/api"
	"github.com/ssargent/cpgrams/pkg/di"
)

type recordingStarter struct {
	calls   int
	configs []api.ServerConfig
	svc     api.QueryService
}

func (s *recordingStarter) StartServer(ctx context.Context, svc api.QueryService, config api.ServerConfig) error {
	s.calls++
	s.configs = append(s.configs, config)
	s.svc = svc
	return nil
}

type recordingFactory struct {
	starter *recordingStarter
}

func (f recordingFactory) CreateServerStarter() api.ServerStarter { return f.starter }

// useRecordingServer swaps in a container whose server starter returns immediately
func useRecordingServer(t *testing.T) *recordingStarter {
	t.Helper()
	prev := container
	t.Cleanup(func() { SetContainer(prev) })

	starter := &recordingStarter{}
	c := di.NewContainer(api.NewMetrics(prometheus.NewRegistry()), zap.NewNop())
	c.SetServerFactory(recordingFactory{starter: starter})
	SetContainer(c)
	return starter
}

func TestServeCommand(t *testing.T) {
	env := newTestEnv(t)
	starter := useRecordingServer(t)

	_, err := execute(t, env, "serve", "--port", "9100", "--bind", "0.0.0.0", "--api-key", "secret")
	require.NoError(t, err)

	require.Equal(t, 1, starter.calls)
	assert.NotNil(t, starter.svc)
	assert.Equal(t, 9100, starter.configs[0].Port)
	assert.Equal(t, "0.0.0.0", starter.configs[0].Bind)
	assert.Equal(t, "secret", starter.configs[0].APIKey)
	assert.Equal(t, version, starter.configs[0].Version)
}

func TestUpCommand_BootstrapsOnce(t *testing.T) {
	env := newTestEnv(t)
	starter := useRecordingServer(t)
	newConfig := filepath.Join(env.dir, "up", "cpgrams.yaml")

	up := testEnv{configPath: newConfig}
	out, err := execute(t, up, "up", "--data-file", env.dataFile, "--port", "9300", "--print-keys")
	require.NoError(t, err)

	assert.FileExists(t, newConfig)
	assert.Contains(t, out, "Configuration created")
	assert.Contains(t, out, "Client API key:")
	assert.Contains(t, out, "Starting cpgrams on 127.0.0.1:9300")
	require.Equal(t, 1, starter.calls)
	assert.Equal(t, 9300, starter.configs[0].Port)
	assert.Len(t, starter.configs[0].APIKey, 64)

	out, err = execute(t, up, "up", "--data-file", env.dataFile)
	require.NoError(t, err)
	assert.NotContains(t, out, "Configuration created")
	require.Equal(t, 2, starter.calls)
	assert.Equal(t, starter.configs[0].APIKey, starter.configs[1].APIKey)
	assert.Equal(t, 8000, starter.configs[1].Port)
}

func TestUpCommand_LoadFailure(t *testing.T) {
	env := newTestEnv(t)
	starter := useRecordingServer(t)

	_, err := execute(t, env, "up", "--data-file", filepath.Join(env.dir, "missing.json"))
	require.Error(t, err)
	assert.Zero(t, starter.calls)
}
