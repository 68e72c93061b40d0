// Package interfaces defines the native ABI surface of the Game SDK as Go
// interfaces and layout-compatible structures.
//
// This package provides the foundational abstractions that enable switching
// between the dynamic library and a simulated SDK, supporting both real game
// clients and deterministic testing scenarios.
//
// # Core Interfaces
//
// [IBackend] mirrors the DiscordCreate entry point. [ICore] mirrors
// IDiscordCore and hands out one interface per manager vtable:
// [IUserManager], [IRelationshipManager], [ILobbyManager], [IOverlayManager],
// [IStoreManager] and [IAchievementManager]. Transactions and search queries
// are [ILobbyTransaction], [ILobbyMemberTransaction] and [ILobbySearchQuery].
//
// Methods return the native result as a status.Code and write data through
// out-pointers to the mirrored structures, exactly like the C functions:
//
//	var lobby interfaces.Lobby
//	if code := core.LobbyManager().GetLobby(id, &lobby); code != status.Ok {
//	    return status.ToError(code)
//	}
//
// # Callbacks
//
// Asynchronous methods take an opaque callbackData token instead of a
// function pointer. The trampoline is implied by the native signature: the
// result trampoline for callbacks carrying only a result, the value
// trampoline for callbacks that also carry a pointer. Implementations route
// those calls into the bridge package, which owns the token registry.
//
// Events follow the same path. [CreateParams].EventData is the token of a
// long-lived event sink and every event-table entry arrives as an
// [EventKind] plus its arguments widened to uintptr.
//
// # Implementations
//
//   - real: loads the shared library and calls the vtables
//   - testing: in-memory simulation used by the test suites
//
// [BackendConfig] selects between them; see the factory package.
package interfaces
