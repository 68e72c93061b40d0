//go:build (linux || darwin) && (amd64 || arm64)

package real

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/opd-ai/gamesdk/bridge"
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/status"
	"github.com/sirupsen/logrus"
)

const rtldLazy = 0x1

var (
	libMu     sync.Mutex
	libHandle uintptr
	libPath   string

	fnDiscordCreate func(version int32, params unsafe.Pointer, result unsafe.Pointer) int32
)

// Native callback pointers, created once for the life of the process.
var (
	callbacksOnce  sync.Once
	resultCallback uintptr
	valueCallback  uintptr
	filterCallback uintptr
	logCallback    uintptr
)

// Event tables live in static storage so the library may keep pointers to
// them for the life of every core.
var (
	userEvents         [1]uintptr
	relationshipEvents [2]uintptr
	lobbyEvents        [8]uintptr
	overlayEvents      [1]uintptr
	storeEvents        [2]uintptr
	achievementEvents  [1]uintptr
)

// createParams mirrors DiscordCreateParams.
type createParams struct {
	ClientID            int64
	Flags               uint64
	Events              uintptr
	EventData           uintptr
	ApplicationEvents   uintptr
	ApplicationVersion  int32
	UserEvents          uintptr
	UserVersion         int32
	ImageEvents         uintptr
	ImageVersion        int32
	ActivityEvents      uintptr
	ActivityVersion     int32
	RelationshipEvents  uintptr
	RelationshipVersion int32
	LobbyEvents         uintptr
	LobbyVersion        int32
	NetworkEvents       uintptr
	NetworkVersion      int32
	OverlayEvents       uintptr
	OverlayVersion      int32
	StorageEvents       uintptr
	StorageVersion      int32
	StoreEvents         uintptr
	StoreVersion        int32
	VoiceEvents         uintptr
	VoiceVersion        int32
	AchievementEvents   uintptr
	AchievementVersion  int32
}

// loadLibrary opens the native library once. A failed attempt may be retried
// with another path.
func loadLibrary(explicit string) error {
	libMu.Lock()
	defer libMu.Unlock()

	if libHandle != 0 {
		if explicit != "" && explicit != libPath {
			logrus.WithFields(logrus.Fields{
				"function":  "loadLibrary",
				"loaded":    libPath,
				"requested": explicit,
			}).Warn("Native library already loaded, ignoring requested path")
		}
		return nil
	}

	path := resolveLibrary(explicit)
	logrus.WithFields(logrus.Fields{
		"function": "loadLibrary",
		"path":     path,
		"goos":     runtime.GOOS,
		"goarch":   runtime.GOARCH,
	}).Info("Loading native game SDK library")

	handle, err := purego.Dlopen(path, rtldLazy)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "loadLibrary",
			"path":     path,
			"error":    err.Error(),
		}).Error("Failed to load native library")
		return fmt.Errorf("%w: %s: %v", ErrLibraryNotLoaded, path, err)
	}

	if _, err := purego.Dlsym(handle, "DiscordCreate"); err != nil {
		return fmt.Errorf("%w: %s has no DiscordCreate: %v", ErrLibraryNotLoaded, path, err)
	}
	purego.RegisterLibFunc(&fnDiscordCreate, handle, "DiscordCreate")
	libHandle = handle
	libPath = path
	return nil
}

func initCallbacks() {
	callbacksOnce.Do(func() {
		resultCallback = purego.NewCallback(onResult)
		valueCallback = purego.NewCallback(onValue)
		filterCallback = purego.NewCallback(onFilter)
		logCallback = purego.NewCallback(onLog)

		userEvents[0] = purego.NewCallback(onCurrentUserUpdate)

		relationshipEvents[0] = purego.NewCallback(onRelationshipRefresh)
		relationshipEvents[1] = purego.NewCallback(onRelationshipUpdate)

		lobbyEvents[0] = purego.NewCallback(onLobbyUpdate)
		lobbyEvents[1] = purego.NewCallback(onLobbyDelete)
		lobbyEvents[2] = purego.NewCallback(onMemberConnect)
		lobbyEvents[3] = purego.NewCallback(onMemberUpdate)
		lobbyEvents[4] = purego.NewCallback(onMemberDisconnect)
		lobbyEvents[5] = purego.NewCallback(onLobbyMessage)
		lobbyEvents[6] = purego.NewCallback(onSpeaking)
		lobbyEvents[7] = purego.NewCallback(onNetworkMessage)

		overlayEvents[0] = purego.NewCallback(onOverlayToggle)

		storeEvents[0] = purego.NewCallback(onEntitlementCreate)
		storeEvents[1] = purego.NewCallback(onEntitlementDelete)

		achievementEvents[0] = purego.NewCallback(onUserAchievementUpdate)
	})
}

// The native side passes narrow integers in full registers; only the low
// bits are defined.

func resultArg(v uintptr) status.Code { return status.Code(int32(uint32(v))) }

func u32Arg(v uintptr) uintptr { return uintptr(uint32(v)) }

func u8Arg(v uintptr) uintptr { return uintptr(uint8(v)) }

func onResult(data, result uintptr) {
	bridge.ResultTrampoline(data, resultArg(result))
}

func onValue(data, result, value uintptr) {
	bridge.ValueTrampoline(data, resultArg(result), value)
}

func onFilter(data, value uintptr) uintptr {
	if bridge.FilterTrampoline(data, value) {
		return 1
	}
	return 0
}

func onLog(data, level, message uintptr) {
	bridge.EventTrampoline(data, interfaces.EventLog, u32Arg(level), message)
}

func onCurrentUserUpdate(data uintptr) {
	bridge.EventTrampoline(data, interfaces.EventCurrentUserUpdate)
}

func onRelationshipRefresh(data uintptr) {
	bridge.EventTrampoline(data, interfaces.EventRelationshipRefresh)
}

func onRelationshipUpdate(data, rel uintptr) {
	bridge.EventTrampoline(data, interfaces.EventRelationshipUpdate, rel)
}

func onLobbyUpdate(data, lobbyID uintptr) {
	bridge.EventTrampoline(data, interfaces.EventLobbyUpdate, lobbyID)
}

func onLobbyDelete(data, lobbyID, reason uintptr) {
	bridge.EventTrampoline(data, interfaces.EventLobbyDelete, lobbyID, u32Arg(reason))
}

func onMemberConnect(data, lobbyID, userID uintptr) {
	bridge.EventTrampoline(data, interfaces.EventMemberConnect, lobbyID, userID)
}

func onMemberUpdate(data, lobbyID, userID uintptr) {
	bridge.EventTrampoline(data, interfaces.EventMemberUpdate, lobbyID, userID)
}

func onMemberDisconnect(data, lobbyID, userID uintptr) {
	bridge.EventTrampoline(data, interfaces.EventMemberDisconnect, lobbyID, userID)
}

func onLobbyMessage(data, lobbyID, userID, ptr, length uintptr) {
	bridge.EventTrampoline(data, interfaces.EventLobbyMessage, lobbyID, userID, ptr, u32Arg(length))
}

func onSpeaking(data, lobbyID, userID, speaking uintptr) {
	bridge.EventTrampoline(data, interfaces.EventSpeaking, lobbyID, userID, u8Arg(speaking))
}

func onNetworkMessage(data, lobbyID, userID, channel, ptr, length uintptr) {
	bridge.EventTrampoline(data, interfaces.EventNetworkMessage, lobbyID, userID, u8Arg(channel), ptr, u32Arg(length))
}

func onOverlayToggle(data, locked uintptr) {
	bridge.EventTrampoline(data, interfaces.EventOverlayToggle, u8Arg(locked))
}

func onEntitlementCreate(data, entitlement uintptr) {
	bridge.EventTrampoline(data, interfaces.EventEntitlementCreate, entitlement)
}

func onEntitlementDelete(data, entitlement uintptr) {
	bridge.EventTrampoline(data, interfaces.EventEntitlementDelete, entitlement)
}

func onUserAchievementUpdate(data, achievement uintptr) {
	bridge.EventTrampoline(data, interfaces.EventUserAchievementUpdate, achievement)
}

func tableAddr(enabled bool, table unsafe.Pointer) uintptr {
	if !enabled {
		return 0
	}
	return uintptr(table)
}

func buildParams(p *interfaces.CreateParams) *createParams {
	ev := p.Events
	return &createParams{
		ClientID:            p.ClientID,
		Flags:               p.Flags,
		EventData:           p.EventData,
		ApplicationVersion:  interfaces.ApplicationManagerVersion,
		UserEvents:          tableAddr(ev.User, unsafe.Pointer(&userEvents)),
		UserVersion:         interfaces.UserManagerVersion,
		ImageVersion:        interfaces.ImageManagerVersion,
		ActivityVersion:     interfaces.ActivityManagerVersion,
		RelationshipEvents:  tableAddr(ev.Relationship, unsafe.Pointer(&relationshipEvents)),
		RelationshipVersion: interfaces.RelationshipManagerVersion,
		LobbyEvents:         tableAddr(ev.Lobby, unsafe.Pointer(&lobbyEvents)),
		LobbyVersion:        interfaces.LobbyManagerVersion,
		NetworkVersion:      interfaces.NetworkManagerVersion,
		OverlayEvents:       tableAddr(ev.Overlay, unsafe.Pointer(&overlayEvents)),
		OverlayVersion:      interfaces.OverlayManagerVersion,
		StorageVersion:      interfaces.StorageManagerVersion,
		StoreEvents:         tableAddr(ev.Store, unsafe.Pointer(&storeEvents)),
		StoreVersion:        interfaces.StoreManagerVersion,
		VoiceVersion:        interfaces.VoiceManagerVersion,
		AchievementEvents:   tableAddr(ev.Achievement, unsafe.Pointer(&achievementEvents)),
		AchievementVersion:  interfaces.AchievementManagerVersion,
	}
}

// NativeBackend implements interfaces.IBackend over the discord_game_sdk
// shared library.
type NativeBackend struct {
	config *interfaces.BackendConfig
}

// NewNativeBackend creates a backend that loads the library on first Create
func NewNativeBackend(config *interfaces.BackendConfig) *NativeBackend {
	if config == nil {
		config = &interfaces.BackendConfig{}
	}
	logrus.WithFields(logrus.Fields{
		"function":     "NewNativeBackend",
		"library_path": config.LibraryPath,
	}).Info("Creating native game SDK backend")

	return &NativeBackend{config: config}
}

// Create implements IBackend.Create by calling DiscordCreate
func (b *NativeBackend) Create(version int32, params *interfaces.CreateParams) (interfaces.ICore, error) {
	if params == nil {
		return nil, fmt.Errorf("create params are required")
	}
	if err := loadLibrary(b.config.LibraryPath); err != nil {
		return nil, err
	}
	initCallbacks()

	native := buildParams(params)
	out := new(uintptr)
	result := status.Code(fnDiscordCreate(version, unsafe.Pointer(native), unsafe.Pointer(out)))
	runtime.KeepAlive(native)

	if result != status.Ok {
		logrus.WithFields(logrus.Fields{
			"function":  "NativeBackend.Create",
			"client_id": params.ClientID,
			"result":    result.String(),
		}).Warn("DiscordCreate failed")
		return nil, status.ToError(result)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "NativeBackend.Create",
		"client_id": params.ClientID,
	}).Info("Native core created")

	return &nativeCore{obj: object(*out)}, nil
}

// IsSimulation implements IBackend.IsSimulation
func (b *NativeBackend) IsSimulation() bool {
	return false
}

// object is a pointer to a native interface. The interface is itself the
// function table and every entry takes the interface as its first argument.
type object uintptr

func (o object) fn(slot int) uintptr {
	return *(*uintptr)(unsafe.Pointer(uintptr(o) + uintptr(slot)*unsafe.Sizeof(uintptr(0))))
}

func (o object) call(slot int, args ...uintptr) uintptr {
	r1, _, _ := purego.SyscallN(o.fn(slot), append([]uintptr{uintptr(o)}, args...)...)
	return r1
}

func (o object) result(slot int, args ...uintptr) status.Code {
	return resultArg(o.call(slot, args...))
}

func ptr[T any](p *T) uintptr {
	return uintptr(unsafe.Pointer(p))
}

func bytesPtr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

func boolArg(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}

// IDiscordCore slots
const (
	coreDestroy = iota
	coreRunCallbacks
	coreSetLogHook
	coreApplicationManager
	coreUserManager
	coreImageManager
	coreActivityManager
	coreRelationshipManager
	coreLobbyManager
	coreNetworkManager
	coreOverlayManager
	coreStorageManager
	coreStoreManager
	coreVoiceManager
	coreAchievementManager
)

type nativeCore struct {
	obj object
}

func (c *nativeCore) Destroy() {
	c.obj.call(coreDestroy)
}

func (c *nativeCore) RunCallbacks() status.Code {
	return c.obj.result(coreRunCallbacks)
}

func (c *nativeCore) SetLogHook(minLevel int32, hookData uintptr) {
	c.obj.call(coreSetLogHook, uintptr(minLevel), hookData, logCallback)
}

func (c *nativeCore) UserManager() interfaces.IUserManager {
	return userManager{object(c.obj.call(coreUserManager))}
}

func (c *nativeCore) RelationshipManager() interfaces.IRelationshipManager {
	return relationshipManager{object(c.obj.call(coreRelationshipManager))}
}

func (c *nativeCore) LobbyManager() interfaces.ILobbyManager {
	return lobbyManager{object(c.obj.call(coreLobbyManager))}
}

func (c *nativeCore) OverlayManager() interfaces.IOverlayManager {
	return overlayManager{object(c.obj.call(coreOverlayManager))}
}

func (c *nativeCore) StoreManager() interfaces.IStoreManager {
	return storeManager{object(c.obj.call(coreStoreManager))}
}

func (c *nativeCore) AchievementManager() interfaces.IAchievementManager {
	return achievementManager{object(c.obj.call(coreAchievementManager))}
}
