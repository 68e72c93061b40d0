package real

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// LibraryPathEnv overrides the library search when set.
const LibraryPathEnv = "GAMESDK_LIBRARY_PATH"

var (
	// ErrUnsupportedPlatform is returned on targets the binding cannot call into
	ErrUnsupportedPlatform = errors.New("gamesdk: native library is not supported on " + runtime.GOOS + "/" + runtime.GOARCH)

	// ErrLibraryNotLoaded is returned when no candidate library could be opened
	ErrLibraryNotLoaded = errors.New("gamesdk: discord_game_sdk library not loaded")
)

// LibraryName returns the platform file name of the native library.
func LibraryName() string {
	switch runtime.GOOS {
	case "darwin":
		return "discord_game_sdk.dylib"
	case "windows":
		return "discord_game_sdk.dll"
	default:
		return "discord_game_sdk.so"
	}
}

// SearchPaths lists the candidate library locations in order: the explicit
// path, the environment override, the executable directory, the lib
// directory next to it, the working directory and finally the bare name for
// the system loader.
func SearchPaths(explicit string) []string {
	name := LibraryName()
	var paths []string
	if explicit != "" {
		paths = append(paths, explicit)
	}
	if env := os.Getenv(LibraryPathEnv); env != "" {
		paths = append(paths, env)
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(dir, name),
			filepath.Join(dir, "lib", name),
		)
	}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, name))
	}
	return append(paths, name)
}

// resolveLibrary returns the first existing candidate, or the bare name so
// the system loader gets the last word.
func resolveLibrary(explicit string) string {
	paths := SearchPaths(explicit)
	for _, p := range paths[:len(paths)-1] {
		if _, err := os.Stat(p); err == nil {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return paths[len(paths)-1]
}
