// Package testing provides an in-memory simulation of the native Game SDK
// for deterministic tests of the binding.
//
// # Overview
//
// SimulatedBackend implements interfaces.IBackend. Every core it creates
// keeps users, relationships, lobbies, SKUs, entitlements and achievements in
// memory and answers the manager vtable calls the way the native library
// does: synchronous getters write through their out-pointers, and
// asynchronous operations queue their completion until the next
// RunCallbacks. Completions and events travel through the bridge
// trampolines with the same tokens the native layer would carry, so the
// whole binding above the backend runs unchanged.
//
// # Simulation vs Real Implementation
//
//   - Simulation (this package): no Discord client or shared library needed.
//     Used for unit and integration testing.
//
//   - Real (real package): loads the discord_game_sdk shared library and
//     forwards every call to its function tables.
//
// Both conform to interfaces.IBackend and are selected through the factory
// package.
//
// # Usage
//
//	backend := testing.NewSimulatedBackend(nil)
//	backend.OnCreate(func(core *testing.SimulatedCore) {
//	    core.SeedLobby(7, 1, 1, 4, "7:secret", map[string]string{"mode": "duel"}, 1)
//	    core.AddSku(300, 1, "Expansion", 999, "usd")
//	})
//
// # Fault Injection
//
// FailOn makes a named operation report a result code until ClearFailure.
// Names are "<Interface>.<Method>", for example "LobbyTransaction.SetCapacity".
// Stop makes RunCallbacks report NotRunning, and RefireLast delivers the
// last callback a second time to exercise the double invocation guard.
//
// # Thread Safety
//
// All methods on SimulatedCore are safe for concurrent use. Trampolines are
// never invoked with the internal lock held, so callbacks may call back into
// the core.
package testing
