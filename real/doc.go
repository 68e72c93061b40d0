// Package real binds the discord_game_sdk shared library.
//
// NativeBackend implements interfaces.IBackend by loading the library with
// purego, so no cgo toolchain is needed. DiscordCreate is resolved once;
// every other entry point is reached through the function tables the
// library hands back, called with purego.SyscallN.
//
// # Library Search
//
// The library is looked up in this order:
//
//  1. BackendConfig.LibraryPath
//  2. the GAMESDK_LIBRARY_PATH environment variable
//  3. the executable's directory, then its lib/ subdirectory
//  4. the working directory
//  5. the bare file name, left to the system loader
//
// The first library opened stays loaded for the life of the process.
//
// # Callbacks
//
// The native callback pointers and the event tables are created once and
// shared by every core. They carry the opaque tokens issued by the bridge
// package back into the bridge trampolines; nothing else crosses the
// boundary.
//
// # Platform Support
//
// Supported on linux and darwin for amd64 and arm64. On other targets
// Create returns ErrUnsupportedPlatform. Functions taking structures by
// value (the image manager) are not bound.
package real
