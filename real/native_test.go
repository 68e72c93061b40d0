//go:build (linux || darwin) && (amd64 || arm64)

package real

import (
	"errors"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/status"
	"github.com/stretchr/testify/assert"
)

func TestCreateParamsLayout(t *testing.T) {
	var p createParams
	assert.Equal(t, uintptr(0), unsafe.Offsetof(p.ClientID))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(p.Events))
	assert.Equal(t, uintptr(24), unsafe.Offsetof(p.EventData))
	assert.Equal(t, uintptr(40), unsafe.Offsetof(p.ApplicationVersion))
	assert.Equal(t, uintptr(48), unsafe.Offsetof(p.UserEvents))
	assert.Equal(t, uintptr(216), unsafe.Offsetof(p.AchievementVersion))
	assert.Equal(t, uintptr(224), unsafe.Sizeof(p))
}

func TestBuildParamsInstallsSelectedTables(t *testing.T) {
	p := buildParams(&interfaces.CreateParams{
		ClientID:  7,
		Flags:     1,
		EventData: 99,
		Events:    interfaces.EventSet{Lobby: true, Store: true},
	})

	assert.Equal(t, int64(7), p.ClientID)
	assert.Equal(t, uintptr(99), p.EventData)
	assert.Equal(t, uintptr(unsafe.Pointer(&lobbyEvents)), p.LobbyEvents)
	assert.Equal(t, uintptr(unsafe.Pointer(&storeEvents)), p.StoreEvents)
	assert.Zero(t, p.UserEvents)
	assert.Zero(t, p.OverlayEvents)
	assert.Zero(t, p.Events)
	assert.Equal(t, interfaces.LobbyManagerVersion, p.LobbyVersion)
}

func TestNarrowArguments(t *testing.T) {
	assert.Equal(t, status.NotRunning, resultArg(uintptr(0xdeadbeef00000000)|uintptr(status.NotRunning)))
	assert.Equal(t, uintptr(1), u8Arg(0xff01))
	assert.Equal(t, uintptr(0xffffffff), u32Arg(^uintptr(0)))
}

func TestCreateWithMissingLibrary(t *testing.T) {
	if libHandle != 0 {
		t.Skip("native library already loaded")
	}
	t.Setenv(LibraryPathEnv, "")

	backend := NewNativeBackend(&interfaces.BackendConfig{
		LibraryPath: filepath.Join(t.TempDir(), "absent", LibraryName()),
	})
	assert.False(t, backend.IsSimulation())

	_, err := backend.Create(interfaces.DiscordVersion, &interfaces.CreateParams{})
	if err == nil {
		t.Skip("a system copy of the library was found")
	}
	assert.True(t, errors.Is(err, ErrLibraryNotLoaded), err)
}
