// Package factory creates game SDK backends.
//
// The factory abstracts the choice between the native discord_game_sdk
// library and the in-memory simulation, so the binding and its callers never
// name a concrete backend.
//
// # Configuration
//
// Defaults can come from a YAML file (LoadConfigFile, NewBackendFactoryFromFile):
//
//	use_simulation: false
//	library_path: /opt/game/lib/discord_game_sdk.so
//	client_id: 123456789012345678
//	create_flags: 1
//	log_level: 3
//
// Environment variables override both the defaults and the file:
//   - GAMESDK_USE_SIMULATION: "true" or "false"
//   - GAMESDK_LIBRARY_PATH: path to the shared library
//   - GAMESDK_CLIENT_ID: default application id
//   - GAMESDK_CREATE_FLAGS: 0 (require Discord) or 1 (no require)
//   - GAMESDK_LOG_LEVEL: 1 (error) to 4 (verbose)
//
// Invalid values are logged and ignored.
//
// # Usage
//
//	factory := factory.NewBackendFactory()
//	backend := factory.CreateBackend()
//
//	// or, in tests
//	sim := factory.CreateSimulationForTesting(factory.WithClientID(42))
//
// # Mode Switching
//
//	factory.SwitchToSimulation()
//	factory.SwitchToReal()
package factory
