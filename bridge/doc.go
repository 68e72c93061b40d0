// Package bridge lets the native Game SDK call back into Go closures.
//
// The native library identifies a pending callback only by the opaque void*
// it was handed with the request. Instead of passing Go pointers across the
// boundary, a Registry stores each closure under a generated integer Token
// and the token travels as the callback data. When the library later calls
// one of the package trampolines with that token, the trampoline finds the
// owning registry, takes the entry and runs the closure.
//
// # Invocation Policies
//
// One-shot registrations (OnceResult, OnceValue) serve asynchronous
// requests. They are removed before the closure runs, so a second native
// call with the same token cannot reach the closure again; it is reported
// to the registry's violation handler instead.
//
//	tok, err := bridge.OnceValue(reg, toLobby, func(l Lobby, err error) {
//	    // runs once, inside a later RunCallbacks
//	})
//	manager.CreateLobby(tx, uintptr(tok))
//
// Many-shot registrations serve filter predicates, which the library calls
// once per element during a single synchronous call, and event sinks. They
// stay registered until Release.
//
// # Panic Boundary
//
// Every closure runs under a deferred recover. A panic must never unwind
// through native frames, so it is handed to the abort handler, which by
// default logs the stack and terminates the process. Tests install their
// own handler with WithAbortHandler.
//
// # Teardown
//
// Registry.Close unregisters the registry and completes every pending
// one-shot closure with status.ErrCancelled, in token order, on the goroutine
// calling Close. This is the one place closures run outside the native
// pump. Tokens that arrive for a closed registry are logged and dropped.
package bridge
