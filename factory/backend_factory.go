package factory

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/real"
	"github.com/opd-ai/gamesdk/testing"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Validation constants for configuration bounds checking.
const (
	// MinLogLevel is the most severe native log level (error).
	MinLogLevel = 1
	// MaxLogLevel is the most verbose native log level (verbose).
	MaxLogLevel = 4
	// DefaultLogLevel forwards warnings and errors.
	DefaultLogLevel = 2

	// CreateFlagsDefault requires a running Discord client.
	CreateFlagsDefault uint64 = 0
	// CreateFlagsNoRequireDiscord lets creation succeed without a client.
	CreateFlagsNoRequireDiscord uint64 = 1
)

// Environment variables read by NewBackendFactory.
const (
	EnvUseSimulation = "GAMESDK_USE_SIMULATION"
	EnvLibraryPath   = "GAMESDK_LIBRARY_PATH"
	EnvClientID      = "GAMESDK_CLIENT_ID"
	EnvCreateFlags   = "GAMESDK_CREATE_FLAGS"
	EnvLogLevel      = "GAMESDK_LOG_LEVEL"
)

// BackendFactory creates native or simulated backends based on configuration.
// It is safe for concurrent use; all methods are protected by an internal mutex.
type BackendFactory struct {
	mu            sync.RWMutex
	defaultConfig *interfaces.BackendConfig
}

// TestConfigOption is a functional option for customizing test simulation configuration.
type TestConfigOption func(*interfaces.BackendConfig)

// NewBackendFactory creates a new factory with default configuration
func NewBackendFactory() *BackendFactory {
	defaultConfig := createDefaultConfig()
	applyEnvironmentOverrides(defaultConfig)
	logConfigurationInfo(defaultConfig)

	return &BackendFactory{
		defaultConfig: defaultConfig,
	}
}

// NewBackendFactoryFromFile creates a factory from a YAML configuration file.
// Environment variables still take precedence over the file.
func NewBackendFactoryFromFile(path string) (*BackendFactory, error) {
	config, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	applyEnvironmentOverrides(config)
	logConfigurationInfo(config)

	return &BackendFactory{
		defaultConfig: config,
	}, nil
}

// createDefaultConfig initializes the default backend configuration.
//
// Default Value Rationale:
//   - UseSimulation: false - the native library is used unless simulation is requested
//   - CreateFlags: Default - creation fails when the Discord client is not running
//   - LogLevel: 2 (warn) - native chatter stays out of the logs by default
func createDefaultConfig() *interfaces.BackendConfig {
	return &interfaces.BackendConfig{
		UseSimulation: false,
		CreateFlags:   CreateFlagsDefault,
		LogLevel:      DefaultLogLevel,
	}
}

// LoadConfigFile reads a YAML backend configuration. Unknown keys are
// rejected and missing keys keep their defaults.
func LoadConfigFile(path string) (*interfaces.BackendConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	config := createDefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "LoadConfigFile",
		"path":     path,
	}).Info("Loaded backend configuration file")

	return config, nil
}

func validateConfig(config *interfaces.BackendConfig) error {
	if config.LogLevel < MinLogLevel || config.LogLevel > MaxLogLevel {
		return fmt.Errorf("log_level %d out of range [%d, %d]", config.LogLevel, MinLogLevel, MaxLogLevel)
	}
	if config.CreateFlags > CreateFlagsNoRequireDiscord {
		return fmt.Errorf("create_flags %d is not a known flag set", config.CreateFlags)
	}
	if config.ClientID < 0 {
		return fmt.Errorf("client_id %d is negative", config.ClientID)
	}
	return nil
}

// applyEnvironmentOverrides updates configuration based on environment variables.
// It checks for GAMESDK_* environment variables and overrides values if valid ones are found.
func applyEnvironmentOverrides(config *interfaces.BackendConfig) {
	parseSimulationSetting(config)
	parseLibraryPathSetting(config)
	parseClientIDSetting(config)
	parseCreateFlagsSetting(config)
	parseLogLevelSetting(config)
}

// parseSimulationSetting updates UseSimulation from GAMESDK_USE_SIMULATION.
func parseSimulationSetting(config *interfaces.BackendConfig) {
	if useSimStr := os.Getenv(EnvUseSimulation); useSimStr != "" {
		useSim, err := strconv.ParseBool(useSimStr)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function":    "parseSimulationSetting",
				"env_var":     EnvUseSimulation,
				"value":       useSimStr,
				"error":       err.Error(),
				"using_value": config.UseSimulation,
			}).Warn("Failed to parse GAMESDK_USE_SIMULATION environment variable, using default")
			return
		}
		config.UseSimulation = useSim
	}
}

func parseLibraryPathSetting(config *interfaces.BackendConfig) {
	if path := os.Getenv(EnvLibraryPath); path != "" {
		config.LibraryPath = path
	}
}

// parseClientIDSetting updates ClientID from GAMESDK_CLIENT_ID. Application
// ids are positive snowflakes.
func parseClientIDSetting(config *interfaces.BackendConfig) {
	if idStr := os.Getenv(EnvClientID); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			logrus.WithFields(logrus.Fields{
				"function":    "parseClientIDSetting",
				"env_var":     EnvClientID,
				"value":       idStr,
				"using_value": config.ClientID,
			}).Warn("Invalid GAMESDK_CLIENT_ID environment variable, using default")
			return
		}
		config.ClientID = id
	}
}

func parseCreateFlagsSetting(config *interfaces.BackendConfig) {
	if flagsStr := os.Getenv(EnvCreateFlags); flagsStr != "" {
		flags, err := strconv.ParseUint(flagsStr, 10, 64)
		if err != nil || flags > CreateFlagsNoRequireDiscord {
			logrus.WithFields(logrus.Fields{
				"function":    "parseCreateFlagsSetting",
				"env_var":     EnvCreateFlags,
				"value":       flagsStr,
				"using_value": config.CreateFlags,
			}).Warn("Invalid GAMESDK_CREATE_FLAGS environment variable, using default")
			return
		}
		config.CreateFlags = flags
	}
}

// parseLogLevelSetting updates LogLevel from GAMESDK_LOG_LEVEL, bounded by
// [MinLogLevel, MaxLogLevel].
func parseLogLevelSetting(config *interfaces.BackendConfig) {
	if levelStr := os.Getenv(EnvLogLevel); levelStr != "" {
		level, err := strconv.Atoi(levelStr)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function":    "parseLogLevelSetting",
				"env_var":     EnvLogLevel,
				"value":       levelStr,
				"error":       err.Error(),
				"using_value": config.LogLevel,
			}).Warn("Failed to parse GAMESDK_LOG_LEVEL environment variable, using default")
			return
		}
		if level < MinLogLevel || level > MaxLogLevel {
			logrus.WithFields(logrus.Fields{
				"function":    "parseLogLevelSetting",
				"env_var":     EnvLogLevel,
				"value":       level,
				"min":         MinLogLevel,
				"max":         MaxLogLevel,
				"using_value": config.LogLevel,
			}).Warn("GAMESDK_LOG_LEVEL value out of bounds, using default")
			return
		}
		config.LogLevel = int32(level)
	}
}

// logConfigurationInfo logs the final configuration settings for debugging purposes.
func logConfigurationInfo(config *interfaces.BackendConfig) {
	logrus.WithFields(logrus.Fields{
		"function":       "NewBackendFactory",
		"use_simulation": config.UseSimulation,
		"library_path":   config.LibraryPath,
		"client_id":      config.ClientID,
		"create_flags":   config.CreateFlags,
		"log_level":      config.LogLevel,
	}).Info("Created backend factory with configuration")
}

// CreateBackend creates a backend based on the default configuration
func (f *BackendFactory) CreateBackend() interfaces.IBackend {
	return f.CreateBackendWithConfig(nil)
}

// CreateBackendWithConfig creates a backend with a custom configuration
func (f *BackendFactory) CreateBackendWithConfig(config *interfaces.BackendConfig) interfaces.IBackend {
	if config == nil {
		config = f.GetCurrentConfig()
	}

	if config.UseSimulation {
		logrus.WithFields(logrus.Fields{
			"function": "CreateBackendWithConfig",
			"type":     "simulation",
		}).Info("Creating simulated backend")

		return testing.NewSimulatedBackend(config)
	}

	logrus.WithFields(logrus.Fields{
		"function":     "CreateBackendWithConfig",
		"type":         "native",
		"library_path": config.LibraryPath,
	}).Info("Creating native backend")

	return real.NewNativeBackend(config)
}

// WithClientID sets the application id for the test configuration.
func WithClientID(id int64) TestConfigOption {
	return func(c *interfaces.BackendConfig) {
		c.ClientID = id
	}
}

// WithLogLevel sets the native log level for the test configuration.
func WithLogLevel(level int32) TestConfigOption {
	return func(c *interfaces.BackendConfig) {
		c.LogLevel = level
	}
}

// WithCreateFlags sets the create flags for the test configuration.
func WithCreateFlags(flags uint64) TestConfigOption {
	return func(c *interfaces.BackendConfig) {
		c.CreateFlags = flags
	}
}

// CreateSimulationForTesting creates a simulated backend specifically for testing.
// Default test configuration uses: ClientID=1, LogLevel=4 (verbose), CreateFlags=NoRequireDiscord.
func (f *BackendFactory) CreateSimulationForTesting(opts ...TestConfigOption) *testing.SimulatedBackend {
	testConfig := &interfaces.BackendConfig{
		UseSimulation: true,
		ClientID:      1,
		CreateFlags:   CreateFlagsNoRequireDiscord,
		LogLevel:      MaxLogLevel,
	}

	for _, opt := range opts {
		opt(testConfig)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "CreateSimulationForTesting",
		"client_id": testConfig.ClientID,
		"log_level": testConfig.LogLevel,
	}).Info("Creating simulation backend for testing")

	return testing.NewSimulatedBackend(testConfig)
}

// SwitchToSimulation switches the configuration to use simulation
func (f *BackendFactory) SwitchToSimulation() {
	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "SwitchToSimulation",
		"previous": f.defaultConfig.UseSimulation,
	}).Info("Switching factory to simulation mode")

	f.defaultConfig.UseSimulation = true
}

// SwitchToReal switches the configuration to use the native library
func (f *BackendFactory) SwitchToReal() {
	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "SwitchToReal",
		"previous": f.defaultConfig.UseSimulation,
	}).Info("Switching factory to native mode")

	f.defaultConfig.UseSimulation = false
}

// GetCurrentConfig returns a copy of the current default configuration
func (f *BackendFactory) GetCurrentConfig() *interfaces.BackendConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()

	config := *f.defaultConfig
	return &config
}

// IsUsingSimulation returns true if the factory is configured for simulation
func (f *BackendFactory) IsUsingSimulation() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.defaultConfig.UseSimulation
}

// UpdateConfig validates and replaces the factory's default configuration
func (f *BackendFactory) UpdateConfig(config *interfaces.BackendConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := validateConfig(config); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":       "UpdateConfig",
		"old_simulation": f.defaultConfig.UseSimulation,
		"new_simulation": config.UseSimulation,
		"old_client_id":  f.defaultConfig.ClientID,
		"new_client_id":  config.ClientID,
	}).Info("Updating factory configuration")

	copied := *config
	f.defaultConfig = &copied
	return nil
}
