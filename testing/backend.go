package testing

import (
	"fmt"
	"runtime"
	"slices"
	"sync"
	"unsafe"

	"github.com/opd-ai/gamesdk/bridge"
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/status"
	"github.com/opd-ai/gamesdk/textbuf"
	"github.com/sirupsen/logrus"
)

// SimulatedBackend implements interfaces.IBackend with in-memory cores for testing
type SimulatedBackend struct {
	mu           sync.Mutex
	config       *interfaces.BackendConfig
	cores        []*SimulatedCore
	createResult status.Code
	seed         func(*SimulatedCore)
}

// NewSimulatedBackend creates a new simulation backend for testing
func NewSimulatedBackend(config *interfaces.BackendConfig) *SimulatedBackend {
	if config == nil {
		config = &interfaces.BackendConfig{UseSimulation: true}
	}
	logrus.Warn("SIMULATION FUNCTION - NOT A REAL OPERATION")
	logrus.WithFields(logrus.Fields{
		"function":  "NewSimulatedBackend",
		"client_id": config.ClientID,
	}).Info("Creating simulated game SDK backend for testing")

	return &SimulatedBackend{config: config}
}

// Create implements IBackend.Create with simulation
func (b *SimulatedBackend) Create(version int32, params *interfaces.CreateParams) (interfaces.ICore, error) {
	logrus.Warn("SIMULATION FUNCTION - NOT A REAL OPERATION")

	if params == nil {
		return nil, fmt.Errorf("create params are required")
	}
	if version != interfaces.DiscordVersion {
		return nil, status.ToError(status.InvalidVersion)
	}

	b.mu.Lock()
	code := b.createResult
	seed := b.seed
	b.mu.Unlock()
	if code != status.Ok {
		logrus.WithFields(logrus.Fields{
			"function": "SimulatedBackend.Create",
			"result":   code.String(),
		}).Info("Simulating failed core creation")
		return nil, status.ToError(code)
	}

	core := newSimulatedCore(*params)
	if seed != nil {
		seed(core)
	}

	b.mu.Lock()
	b.cores = append(b.cores, core)
	b.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":  "SimulatedBackend.Create",
		"client_id": params.ClientID,
		"flags":     params.Flags,
	}).Info("Simulated core created")

	return core, nil
}

// IsSimulation implements IBackend.IsSimulation
func (b *SimulatedBackend) IsSimulation() bool {
	return true
}

// FailCreate makes every following Create fail with code. Ok restores success.
func (b *SimulatedBackend) FailCreate(code status.Code) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createResult = code
}

// OnCreate installs a hook that seeds each new core before it is returned
func (b *SimulatedBackend) OnCreate(fn func(*SimulatedCore)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seed = fn
}

// LastCore returns the most recently created core, or nil
func (b *SimulatedBackend) LastCore() *SimulatedCore {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.cores) == 0 {
		return nil
	}
	return b.cores[len(b.cores)-1]
}

// SimulatedCore implements interfaces.ICore and every manager in memory.
// Asynchronous results and events are queued and delivered through the
// bridge trampolines on the next RunCallbacks, like the native library does.
type SimulatedCore struct {
	mu        sync.Mutex
	params    interfaces.CreateParams
	logHook   uintptr
	logLevel  int32
	destroyed bool
	stopped   bool
	pending   []func()
	lastFired func()
	calls     []string
	failures  map[string]status.Code

	currentUser  interfaces.User
	premiumType  int32
	userFlags    int32
	users        map[int64]interfaces.User
	lobbies      map[int64]*simLobby
	nextLobbyID  int64
	searchResult []int64

	relationships []interfaces.Relationship
	filtered      []interfaces.Relationship
	hasFiltered   bool

	skus                []interfaces.Sku
	skusFetched         bool
	entitlements        []interfaces.Entitlement
	entitlementsFetched bool
	nextEntitlementID   int64
	achievements        []interfaces.UserAchievement

	overlayEnabled bool
	overlayLocked  bool

	transactions       []*SimulatedTransaction
	memberTransactions []*SimulatedMemberTransaction
	queries            []*SimulatedSearchQuery
	lobbyMessages      []Message
	networkMessages    []Message
}

// Message records a lobby or network message sent through the simulation
type Message struct {
	LobbyID   int64
	UserID    int64
	ChannelID uint8
	Data      []byte
}

func newSimulatedCore(params interfaces.CreateParams) *SimulatedCore {
	c := &SimulatedCore{
		params:            params,
		failures:          make(map[string]status.Code),
		users:             make(map[int64]interfaces.User),
		lobbies:           make(map[int64]*simLobby),
		nextLobbyID:       1000,
		nextEntitlementID: 5000,
		overlayEnabled:    true,
		overlayLocked:     true,
	}
	c.currentUser = makeUser(1, "player", "0001", false)
	c.users[1] = c.currentUser
	return c
}

// Destroy implements ICore.Destroy. Pending callbacks are dropped.
func (c *SimulatedCore) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "SimulatedCore.Destroy",
		"dropped":  len(c.pending),
	}).Info("Destroying simulated core")

	c.destroyed = true
	c.pending = nil
	c.lastFired = nil
}

// RunCallbacks implements ICore.RunCallbacks. Callbacks queued while the
// batch runs are delivered on the next call.
func (c *SimulatedCore) RunCallbacks() status.Code {
	c.mu.Lock()
	if c.destroyed || c.stopped {
		c.mu.Unlock()
		return status.NotRunning
	}
	if code, ok := c.failures["Core.RunCallbacks"]; ok {
		c.mu.Unlock()
		return code
	}
	batch := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, fire := range batch {
		fire()
		c.mu.Lock()
		c.lastFired = fire
		c.mu.Unlock()
	}
	return status.Ok
}

// SetLogHook implements ICore.SetLogHook
func (c *SimulatedCore) SetLogHook(minLevel int32, hookData uintptr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logLevel = minLevel
	c.logHook = hookData
}

// UserManager implements ICore.UserManager
func (c *SimulatedCore) UserManager() interfaces.IUserManager {
	c.record("Core.UserManager")
	return &simUserManager{c}
}

// RelationshipManager implements ICore.RelationshipManager
func (c *SimulatedCore) RelationshipManager() interfaces.IRelationshipManager {
	c.record("Core.RelationshipManager")
	return &simRelationshipManager{c}
}

// LobbyManager implements ICore.LobbyManager
func (c *SimulatedCore) LobbyManager() interfaces.ILobbyManager {
	c.record("Core.LobbyManager")
	return &simLobbyManager{c}
}

// OverlayManager implements ICore.OverlayManager
func (c *SimulatedCore) OverlayManager() interfaces.IOverlayManager {
	c.record("Core.OverlayManager")
	return &simOverlayManager{c}
}

// StoreManager implements ICore.StoreManager
func (c *SimulatedCore) StoreManager() interfaces.IStoreManager {
	c.record("Core.StoreManager")
	return &simStoreManager{c}
}

// AchievementManager implements ICore.AchievementManager
func (c *SimulatedCore) AchievementManager() interfaces.IAchievementManager {
	c.record("Core.AchievementManager")
	return &simAchievementManager{c}
}

// Stop makes every following RunCallbacks report NotRunning, as when the
// Discord client is closed.
func (c *SimulatedCore) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
}

// Destroyed reports whether Destroy was called
func (c *SimulatedCore) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// Params returns the creation parameters the core was built with
func (c *SimulatedCore) Params() interfaces.CreateParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// LogLevel returns the minimum level installed through SetLogHook
func (c *SimulatedCore) LogLevel() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logLevel
}

// FailOn makes the named operation report code until cleared. Operation
// names are "<Interface>.<Method>", for example "LobbyTransaction.SetCapacity"
// or "LobbyManager.CreateLobby". Asynchronous operations deliver the code
// through their callback.
func (c *SimulatedCore) FailOn(op string, code status.Code) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[op] = code
}

// ClearFailure removes an injected failure
func (c *SimulatedCore) ClearFailure(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.failures, op)
}

// Calls returns the manager operations invoked so far, in order
func (c *SimulatedCore) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.calls)
}

// PendingCount returns the number of callbacks and events awaiting RunCallbacks
func (c *SimulatedCore) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// RefireLast queues the most recently delivered callback again. The native
// library never does this; it exists to exercise the double invocation guard.
func (c *SimulatedCore) RefireLast() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastFired == nil {
		return false
	}
	c.pending = append(c.pending, c.lastFired)
	return true
}

func (c *SimulatedCore) record(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, op)
}

// injectedLocked returns the failure injected for op. c.mu must be held.
func (c *SimulatedCore) injectedLocked(op string) status.Code {
	c.calls = append(c.calls, op)
	if code, ok := c.failures[op]; ok {
		return code
	}
	return status.Ok
}

// enqueueLocked appends a delivery. c.mu must be held.
func (c *SimulatedCore) enqueueLocked(fire func()) {
	if c.destroyed {
		return
	}
	c.pending = append(c.pending, fire)
}

func (c *SimulatedCore) queueResultLocked(data uintptr, code status.Code) {
	c.enqueueLocked(func() {
		bridge.ResultTrampoline(data, code)
	})
}

// queueValueLocked delivers a pointer to a heap copy of v, valid for the
// duration of the callback only.
func queueValueLocked[T any](c *SimulatedCore, data uintptr, code status.Code, v T) {
	payload := new(T)
	*payload = v
	c.enqueueLocked(func() {
		bridge.ValueTrampoline(data, code, uintptr(unsafe.Pointer(payload)))
		runtime.KeepAlive(payload)
	})
}

// queueEventLocked delivers an event if its table was installed at creation.
// keep holds memory referenced by args until delivery.
func (c *SimulatedCore) queueEventLocked(kind interfaces.EventKind, keep any, args ...uintptr) {
	if !c.params.Events.Has(kind) {
		return
	}
	data := c.params.EventData
	c.enqueueLocked(func() {
		bridge.EventTrampoline(data, kind, args...)
		runtime.KeepAlive(keep)
	})
}

func queuePointerEventLocked[T any](c *SimulatedCore, kind interfaces.EventKind, v T) {
	payload := new(T)
	*payload = v
	c.queueEventLocked(kind, payload, uintptr(unsafe.Pointer(payload)))
}

// EmitLog queues a native log message for the installed log hook
func (c *SimulatedCore) EmitLog(level int32, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.logHook == 0 || level > c.logLevel {
		return
	}
	text := textbuf.Terminate(message)
	hook := c.logHook
	c.enqueueLocked(func() {
		bridge.EventTrampoline(hook, interfaces.EventLog, uintptr(level), uintptr(unsafe.Pointer(&text[0])))
		runtime.KeepAlive(text)
	})
}

// EmitCurrentUserUpdate queues the current user update event
func (c *SimulatedCore) EmitCurrentUserUpdate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueEventLocked(interfaces.EventCurrentUserUpdate, nil)
}

// EmitRelationshipRefresh queues the relationship refresh event
func (c *SimulatedCore) EmitRelationshipRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueEventLocked(interfaces.EventRelationshipRefresh, nil)
}

// EmitRelationshipUpdate queues a relationship update event
func (c *SimulatedCore) EmitRelationshipUpdate(rel interfaces.Relationship) {
	c.mu.Lock()
	defer c.mu.Unlock()
	queuePointerEventLocked(c, interfaces.EventRelationshipUpdate, rel)
}

// EmitLobbyUpdate queues a lobby update event
func (c *SimulatedCore) EmitLobbyUpdate(lobbyID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueEventLocked(interfaces.EventLobbyUpdate, nil, uintptr(lobbyID))
}

// EmitLobbyDelete queues a lobby delete event
func (c *SimulatedCore) EmitLobbyDelete(lobbyID int64, reason uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueEventLocked(interfaces.EventLobbyDelete, nil, uintptr(lobbyID), uintptr(reason))
}

// EmitMemberConnect queues a member connect event
func (c *SimulatedCore) EmitMemberConnect(lobbyID, userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueEventLocked(interfaces.EventMemberConnect, nil, uintptr(lobbyID), uintptr(userID))
}

// EmitMemberUpdate queues a member update event
func (c *SimulatedCore) EmitMemberUpdate(lobbyID, userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueEventLocked(interfaces.EventMemberUpdate, nil, uintptr(lobbyID), uintptr(userID))
}

// EmitMemberDisconnect queues a member disconnect event
func (c *SimulatedCore) EmitMemberDisconnect(lobbyID, userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueEventLocked(interfaces.EventMemberDisconnect, nil, uintptr(lobbyID), uintptr(userID))
}

// EmitLobbyMessage queues a lobby message event
func (c *SimulatedCore) EmitLobbyMessage(lobbyID, userID int64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, ptr := pinnedCopy(data)
	c.queueEventLocked(interfaces.EventLobbyMessage, buf, uintptr(lobbyID), uintptr(userID), ptr, uintptr(len(data)))
}

// EmitSpeaking queues a speaking event
func (c *SimulatedCore) EmitSpeaking(lobbyID, userID int64, speaking bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueEventLocked(interfaces.EventSpeaking, nil, uintptr(lobbyID), uintptr(userID), boolArg(speaking))
}

// EmitNetworkMessage queues a network message event
func (c *SimulatedCore) EmitNetworkMessage(lobbyID, userID int64, channelID uint8, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, ptr := pinnedCopy(data)
	c.queueEventLocked(interfaces.EventNetworkMessage, buf,
		uintptr(lobbyID), uintptr(userID), uintptr(channelID), ptr, uintptr(len(data)))
}

// EmitOverlayToggle queues an overlay toggle event
func (c *SimulatedCore) EmitOverlayToggle(locked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueEventLocked(interfaces.EventOverlayToggle, nil, boolArg(locked))
}

// EmitEntitlementCreate queues an entitlement create event
func (c *SimulatedCore) EmitEntitlementCreate(e interfaces.Entitlement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	queuePointerEventLocked(c, interfaces.EventEntitlementCreate, e)
}

// EmitEntitlementDelete queues an entitlement delete event
func (c *SimulatedCore) EmitEntitlementDelete(e interfaces.Entitlement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	queuePointerEventLocked(c, interfaces.EventEntitlementDelete, e)
}

// EmitAchievementUpdate queues a user achievement update event
func (c *SimulatedCore) EmitAchievementUpdate(a interfaces.UserAchievement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	queuePointerEventLocked(c, interfaces.EventUserAchievementUpdate, a)
}

// pinnedCopy copies data to the heap and returns it with the address of its
// first byte. Empty data yields a zero pointer.
func pinnedCopy(data []byte) ([]byte, uintptr) {
	if len(data) == 0 {
		return nil, 0
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, uintptr(unsafe.Pointer(&buf[0]))
}

func boolArg(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}

func makeUser(id int64, username, discriminator string, bot bool) interfaces.User {
	u := interfaces.User{ID: id, Bot: bot}
	put(u.Username[:], username)
	put(u.Discriminator[:], discriminator)
	return u
}

// put fills a fixed buffer, truncating seeds that do not fit.
func put(dst []byte, s string) {
	if err := textbuf.Put(dst, s); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "simulation.put",
			"capacity": len(dst),
			"error":    err.Error(),
		}).Warn("Simulation seed truncated")
		_ = textbuf.Put(dst, s[:len(dst)-1])
	}
}
