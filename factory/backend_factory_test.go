package factory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvUseSimulation, EnvLibraryPath, EnvClientID, EnvCreateFlags, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

// TestNewBackendFactory verifies default factory creation
func TestNewBackendFactory(t *testing.T) {
	clearEnv(t)
	factory := NewBackendFactory()

	config := factory.GetCurrentConfig()
	require.NotNil(t, config)
	assert.False(t, config.UseSimulation)
	assert.Equal(t, int32(DefaultLogLevel), config.LogLevel)
	assert.Equal(t, CreateFlagsDefault, config.CreateFlags)
}

// TestEnvironmentVariableParsing verifies environment variable handling
func TestEnvironmentVariableParsing(t *testing.T) {
	tests := []struct {
		name      string
		envKey    string
		envValue  string
		checkFunc func(*interfaces.BackendConfig) bool
	}{
		{"simulation_true", EnvUseSimulation, "true", func(c *interfaces.BackendConfig) bool { return c.UseSimulation }},
		{"simulation_invalid", EnvUseSimulation, "maybe", func(c *interfaces.BackendConfig) bool { return !c.UseSimulation }},
		{"library_path", EnvLibraryPath, "/opt/sdk.so", func(c *interfaces.BackendConfig) bool { return c.LibraryPath == "/opt/sdk.so" }},
		{"client_id", EnvClientID, "310270644849737729", func(c *interfaces.BackendConfig) bool { return c.ClientID == 310270644849737729 }},
		{"client_id_negative", EnvClientID, "-4", func(c *interfaces.BackendConfig) bool { return c.ClientID == 0 }},
		{"client_id_garbage", EnvClientID, "abc", func(c *interfaces.BackendConfig) bool { return c.ClientID == 0 }},
		{"create_flags", EnvCreateFlags, "1", func(c *interfaces.BackendConfig) bool { return c.CreateFlags == CreateFlagsNoRequireDiscord }},
		{"create_flags_unknown", EnvCreateFlags, "8", func(c *interfaces.BackendConfig) bool { return c.CreateFlags == CreateFlagsDefault }},
		{"log_level", EnvLogLevel, "4", func(c *interfaces.BackendConfig) bool { return c.LogLevel == 4 }},
		{"log_level_at_minimum", EnvLogLevel, "1", func(c *interfaces.BackendConfig) bool { return c.LogLevel == 1 }},
		{"log_level_below_minimum", EnvLogLevel, "0", func(c *interfaces.BackendConfig) bool { return c.LogLevel == DefaultLogLevel }},
		{"log_level_above_maximum", EnvLogLevel, "5", func(c *interfaces.BackendConfig) bool { return c.LogLevel == DefaultLogLevel }},
		{"log_level_garbage", EnvLogLevel, "loud", func(c *interfaces.BackendConfig) bool { return c.LogLevel == DefaultLogLevel }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.envKey, tt.envValue)

			config := NewBackendFactory().GetCurrentConfig()
			assert.True(t, tt.checkFunc(config), "unexpected config %+v", *config)
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gamesdk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, "use_simulation: true\nclient_id: 42\nlog_level: 3\n")

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.True(t, config.UseSimulation)
	assert.Equal(t, int64(42), config.ClientID)
	assert.Equal(t, int32(3), config.LogLevel)
	assert.Equal(t, CreateFlagsDefault, config.CreateFlags)
}

func TestLoadConfigFileRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "use_simulation: true\nretry_attempts: 3\n"},
		{"log level out of range", "log_level: 9\n"},
		{"unknown flags", "create_flags: 4\n"},
		{"not yaml", "use_simulation: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvClientID, "77")
	path := writeConfig(t, "client_id: 42\nuse_simulation: true\n")

	factory, err := NewBackendFactoryFromFile(path)
	require.NoError(t, err)
	config := factory.GetCurrentConfig()
	assert.Equal(t, int64(77), config.ClientID)
	assert.True(t, config.UseSimulation)
}

func TestCreateBackend(t *testing.T) {
	clearEnv(t)
	factory := NewBackendFactory()

	factory.SwitchToSimulation()
	assert.True(t, factory.IsUsingSimulation())
	assert.True(t, factory.CreateBackend().IsSimulation())

	factory.SwitchToReal()
	assert.False(t, factory.IsUsingSimulation())
	assert.False(t, factory.CreateBackend().IsSimulation())
}

func TestCreateSimulationForTesting(t *testing.T) {
	factory := NewBackendFactory()

	sim := factory.CreateSimulationForTesting(WithClientID(9), WithLogLevel(1), WithCreateFlags(CreateFlagsDefault))
	require.NotNil(t, sim)
	assert.True(t, sim.IsSimulation())
}

func TestGetCurrentConfigReturnsCopy(t *testing.T) {
	clearEnv(t)
	factory := NewBackendFactory()

	config := factory.GetCurrentConfig()
	config.UseSimulation = true
	assert.False(t, factory.IsUsingSimulation())
}

func TestUpdateConfig(t *testing.T) {
	clearEnv(t)
	factory := NewBackendFactory()

	assert.Error(t, factory.UpdateConfig(nil))
	assert.Error(t, factory.UpdateConfig(&interfaces.BackendConfig{LogLevel: 0}))

	update := &interfaces.BackendConfig{UseSimulation: true, ClientID: 5, LogLevel: 3}
	require.NoError(t, factory.UpdateConfig(update))
	update.ClientID = 6

	config := factory.GetCurrentConfig()
	assert.True(t, config.UseSimulation)
	assert.Equal(t, int64(5), config.ClientID)
}
