// Package gamesdk is a Go binding for the Discord Game SDK (version 2.5.6).
//
// The native library does all the work: lobbies, matchmaking, voice,
// overlay, store and achievements. This package loads it, marshals data
// across the C ABI and turns its callback-based API into Go closures that
// run on the caller's goroutine.
//
// # Getting Started
//
// Create an instance for your application and pump it once per frame:
//
//	discord, err := gamesdk.New(gamesdk.ClientID(418559331265675294))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer discord.Close()
//
//	discord.OnLobbyMemberConnect(func(lobby gamesdk.LobbyID, user gamesdk.UserID) {
//	    fmt.Printf("user %d joined lobby %d\n", user, lobby)
//	})
//
//	tx := gamesdk.NewLobbyTransaction().
//	    Kind(gamesdk.LobbyKindPublic).
//	    Capacity(4).
//	    AddMetadata("map", "harbor")
//
//	err = discord.CreateLobby(tx, func(lobby gamesdk.Lobby, err error) {
//	    if err != nil {
//	        log.Printf("create lobby: %v", err)
//	        return
//	    }
//	    fmt.Printf("created lobby %d, secret %s\n", lobby.ID, lobby.Secret)
//	})
//
//	for {
//	    if err := discord.RunCallbacks(); err != nil {
//	        log.Fatal(err)
//	    }
//	    time.Sleep(16 * time.Millisecond)
//	}
//
// # Callbacks
//
// Asynchronous methods return an error only for failures detected before
// the call reaches the native library, such as a closed instance or an
// invalid transaction. Otherwise the completion closure runs exactly once,
// from inside a later RunCallbacks, never inline. Event handlers set with
// the On* methods also run inside RunCallbacks, in the order the native
// library reports them. Close is the exception: it completes every pending
// closure itself, with an error matching ErrCancelled.
//
// A panic inside a closure terminates the process after logging the stack,
// because unwinding through native frames is undefined.
//
// # Transactions
//
// LobbyTransaction, LobbyMemberTransaction and SearchQuery collect changes
// locally. Setting the same metadata key twice keeps the last edit. The
// changes are replayed onto a native transaction when it is submitted; the
// first failure aborts the submission, and a transaction can be submitted
// only once.
//
// # Collections
//
// Iter* methods return a lazy collection.Collection over a native count and
// index accessor, usable from both ends and with range-over-func:
//
//	members, err := discord.IterLobbyMemberIDs(lobbyID)
//	if err != nil {
//	    return err
//	}
//	for id, err := range members.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(id)
//	}
//
// # Errors
//
// Native results are reported as *status.Error values. Match the broad
// category with errors.Is against ErrNotFound, ErrNotRunning, ErrTransient,
// ErrInvalidParameter, ErrPermission, ErrConflict or ErrCancelled, and
// recover the exact code with status.CodeOf. RunCallbacks failing with
// ErrNotRunning means the Discord client has gone away.
//
// # Backends
//
// By default the shared library is located through the factory package:
// GAMESDK_LIBRARY_PATH, the executable directory, the working directory and
// finally the system loader. Setting GAMESDK_USE_SIMULATION=true, or
// passing a testing.SimulatedBackend in Options.Backend, runs against an
// in-memory simulation with the same callback semantics.
package gamesdk
