package testing

import (
	"errors"
	"sync"
	"testing"
	"unsafe"

	"github.com/opd-ai/gamesdk/bridge"
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/status"
	"github.com/opd-ai/gamesdk/textbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	kind interfaces.EventKind
	args []uintptr
}

type harness struct {
	backend  *SimulatedBackend
	core     *SimulatedCore
	registry *bridge.Registry

	mu         sync.Mutex
	events     []event
	violations []string
}

func newHarness(t *testing.T, events interfaces.EventSet) *harness {
	t.Helper()
	h := &harness{backend: NewSimulatedBackend(nil)}
	h.registry = bridge.NewRegistry(bridge.WithViolationHandler(func(_ bridge.Token, reason string) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.violations = append(h.violations, reason)
	}))
	t.Cleanup(h.registry.Close)

	tok, err := h.registry.Events(func(kind interfaces.EventKind, args []uintptr) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.events = append(h.events, event{kind, append([]uintptr(nil), args...)})
	})
	require.NoError(t, err)

	core, err := h.backend.Create(interfaces.DiscordVersion, &interfaces.CreateParams{
		ClientID:  42,
		EventData: uintptr(tok),
		Events:    events,
	})
	require.NoError(t, err)
	h.core = core.(*SimulatedCore)
	t.Cleanup(h.core.Destroy)
	return h
}

func (h *harness) eventKinds() []interfaces.EventKind {
	h.mu.Lock()
	defer h.mu.Unlock()
	kinds := make([]interfaces.EventKind, len(h.events))
	for i, e := range h.events {
		kinds[i] = e.kind
	}
	return kinds
}

func (h *harness) onceResult(t *testing.T, result *error, called *int) uintptr {
	t.Helper()
	tok, err := h.registry.OnceResult(func(err error) {
		*called++
		*result = err
	})
	require.NoError(t, err)
	return uintptr(tok)
}

func lobbyFrom(p uintptr) interfaces.Lobby {
	return *(*interfaces.Lobby)(unsafe.Pointer(p))
}

func (h *harness) onceLobby(t *testing.T, out *interfaces.Lobby, result *error, called *int) uintptr {
	t.Helper()
	tok, err := bridge.OnceValue(h.registry, lobbyFrom, func(l interfaces.Lobby, err error) {
		*called++
		*out = l
		*result = err
	})
	require.NoError(t, err)
	return uintptr(tok)
}

func TestCreateChecksVersion(t *testing.T) {
	backend := NewSimulatedBackend(nil)
	assert.True(t, backend.IsSimulation())

	_, err := backend.Create(interfaces.DiscordVersion+1, &interfaces.CreateParams{})
	assert.True(t, errors.Is(err, status.ToError(status.InvalidVersion)))

	_, err = backend.Create(interfaces.DiscordVersion, nil)
	assert.Error(t, err)
	assert.Nil(t, backend.LastCore())
}

func TestFailCreate(t *testing.T) {
	backend := NewSimulatedBackend(nil)
	backend.FailCreate(status.NotInstalled)

	_, err := backend.Create(interfaces.DiscordVersion, &interfaces.CreateParams{})
	assert.ErrorIs(t, err, status.ErrNotFound)

	backend.FailCreate(status.Ok)
	core, err := backend.Create(interfaces.DiscordVersion, &interfaces.CreateParams{})
	require.NoError(t, err)
	assert.Same(t, core, backend.LastCore())
}

func TestOnCreateSeedsCore(t *testing.T) {
	backend := NewSimulatedBackend(nil)
	backend.OnCreate(func(c *SimulatedCore) {
		c.SetCurrentUser(77, "seeded", "4242", false)
	})
	core, err := backend.Create(interfaces.DiscordVersion, &interfaces.CreateParams{})
	require.NoError(t, err)

	var u interfaces.User
	require.Equal(t, status.Ok, core.UserManager().GetCurrentUser(&u))
	assert.Equal(t, int64(77), u.ID)
	assert.Equal(t, "seeded", textbuf.Decode(u.Username[:]))
}

func TestCallbacksOnlyRunInsideRunCallbacks(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())

	mgr := h.core.LobbyManager()
	tx, code := mgr.GetLobbyCreateTransaction()
	require.Equal(t, status.Ok, code)
	require.Equal(t, status.Ok, tx.SetCapacity(4))

	var lobby interfaces.Lobby
	var result error
	called := 0
	mgr.CreateLobby(tx, h.onceLobby(t, &lobby, &result, &called))

	assert.Equal(t, 0, called, "callback ran before RunCallbacks")
	assert.Equal(t, 1, h.core.PendingCount())

	require.Equal(t, status.Ok, h.core.RunCallbacks())
	assert.Equal(t, 1, called)
	require.NoError(t, result)
	assert.Equal(t, uint32(4), lobby.Capacity)
	assert.Equal(t, int64(1), lobby.OwnerID)

	snap, ok := h.core.Lobby(lobby.ID)
	require.True(t, ok)
	assert.Equal(t, []int64{1}, snap.Members)
}

func TestTransactionRecordsCallsInOrder(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())

	tx, code := h.core.LobbyManager().GetLobbyCreateTransaction()
	require.Equal(t, status.Ok, code)
	tx.SetType(2)
	tx.SetMetadata(textbuf.Terminate("mode"), textbuf.Terminate("duel"))
	tx.SetMetadata(textbuf.Terminate("mode"), textbuf.Terminate("ffa"))
	tx.DeleteMetadata(textbuf.Terminate("gone"))

	calls := h.core.Transactions()[0].Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, "SetType", calls[0].Op)
	assert.Equal(t, TxCall{Op: "SetMetadata", Key: "mode", Value: "ffa"}, calls[2])
	assert.Equal(t, "DeleteMetadata", calls[3].Op)
}

func TestTransactionRejectsUnterminatedText(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())

	tx, _ := h.core.LobbyManager().GetLobbyCreateTransaction()
	assert.Equal(t, status.InvalidPayload, tx.SetMetadata([]byte("key"), textbuf.Terminate("v")))
	assert.Equal(t, status.InvalidPayload, tx.SetType(9))
}

func TestFailOnInjectsResult(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())
	h.core.FailOn("LobbyTransaction.SetCapacity", status.InvalidPayload)

	tx, _ := h.core.LobbyManager().GetLobbyCreateTransaction()
	assert.Equal(t, status.Ok, tx.SetType(1))
	assert.Equal(t, status.InvalidPayload, tx.SetCapacity(3))

	h.core.ClearFailure("LobbyTransaction.SetCapacity")
	assert.Equal(t, status.Ok, tx.SetCapacity(3))
	assert.Contains(t, h.core.Calls(), "LobbyTransaction.SetCapacity")
}

func TestUpdateLobbyRaisesEvent(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())
	h.core.SeedLobby(7, 1, 1, 4, "7:secret", nil, 1)

	mgr := h.core.LobbyManager()
	tx, code := mgr.GetLobbyUpdateTransaction(7)
	require.Equal(t, status.Ok, code)
	tx.SetMetadata(textbuf.Terminate("map"), textbuf.Terminate("dust"))

	var result error
	called := 0
	mgr.UpdateLobby(7, tx, h.onceResult(t, &result, &called))
	require.Equal(t, status.Ok, h.core.RunCallbacks())

	require.NoError(t, result)
	assert.Equal(t, []interfaces.EventKind{interfaces.EventLobbyUpdate}, h.eventKinds())
	snap, _ := h.core.Lobby(7)
	assert.Equal(t, map[string]string{"map": "dust"}, snap.Metadata)
}

func TestUpdateLobbyRequiresOwner(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())
	h.core.SeedLobby(7, 1, 99, 4, "7:secret", nil, 99, 1)

	mgr := h.core.LobbyManager()
	tx, _ := mgr.GetLobbyUpdateTransaction(7)

	var result error
	called := 0
	mgr.UpdateLobby(7, tx, h.onceResult(t, &result, &called))
	h.core.RunCallbacks()
	assert.ErrorIs(t, result, status.ErrPermission)
}

func TestConnectLobby(t *testing.T) {
	tests := []struct {
		name     string
		capacity uint32
		secret   string
		want     error
	}{
		{"ok", 4, "7:secret", nil},
		{"wrong secret", 4, "7:nope", status.ToError(status.InvalidLobbySecret)},
		{"full", 1, "7:secret", status.ToError(status.LobbyFull)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, interfaces.AllEvents())
			h.core.SeedLobby(7, 2, 99, tt.capacity, "7:secret", nil, 99)

			var lobby interfaces.Lobby
			var result error
			called := 0
			h.core.LobbyManager().ConnectLobby(7, textbuf.Terminate(tt.secret), h.onceLobby(t, &lobby, &result, &called))
			require.Equal(t, status.Ok, h.core.RunCallbacks())

			if tt.want != nil {
				assert.ErrorIs(t, result, tt.want)
				return
			}
			require.NoError(t, result)
			assert.Equal(t, int64(7), lobby.ID)
			assert.Equal(t, []interfaces.EventKind{interfaces.EventMemberConnect}, h.eventKinds())
		})
	}
}

func TestMetadataKeysAreSorted(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())
	h.core.SeedLobby(7, 1, 1, 4, "7:secret", map[string]string{"b": "2", "a": "1", "c": "3"}, 1)

	mgr := h.core.LobbyManager()
	var count int32
	require.Equal(t, status.Ok, mgr.LobbyMetadataCount(7, &count))
	require.Equal(t, int32(3), count)

	var keys []string
	for i := int32(0); i < count; i++ {
		var key interfaces.MetadataKey
		require.Equal(t, status.Ok, mgr.GetLobbyMetadataKey(7, i, &key))
		keys = append(keys, textbuf.Decode(key[:]))
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	var key interfaces.MetadataKey
	assert.Equal(t, status.NotFound, mgr.GetLobbyMetadataKey(7, 3, &key))
}

func TestSearch(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())
	h.core.SeedLobby(10, 2, 9, 8, "a", map[string]string{"mode": "duel", "elo": "1200"}, 9)
	h.core.SeedLobby(11, 2, 9, 8, "b", map[string]string{"mode": "duel", "elo": "1500"}, 9)
	h.core.SeedLobby(12, 2, 9, 8, "c", map[string]string{"mode": "ffa", "elo": "1450"}, 9)

	mgr := h.core.LobbyManager()
	q, code := mgr.GetSearchQuery()
	require.Equal(t, status.Ok, code)
	q.Filter(textbuf.Terminate("metadata.mode"), cmpEqual, 1, textbuf.Terminate("duel"))
	q.Sort(textbuf.Terminate("metadata.elo"), castNumber, textbuf.Terminate("1450"))
	q.Limit(5)

	var result error
	called := 0
	mgr.Search(q, h.onceResult(t, &result, &called))
	require.Equal(t, status.Ok, h.core.RunCallbacks())
	require.NoError(t, result)

	var count int32
	mgr.LobbyCount(&count)
	require.Equal(t, int32(2), count)

	var first, second int64
	require.Equal(t, status.Ok, mgr.GetLobbyID(0, &first))
	require.Equal(t, status.Ok, mgr.GetLobbyID(1, &second))
	assert.Equal(t, int64(11), first)
	assert.Equal(t, int64(10), second)
}

func TestNetworkRequiresOpenChannel(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())
	h.core.SeedLobby(7, 1, 1, 4, "7:secret", nil, 1, 2)

	mgr := h.core.LobbyManager()
	assert.Equal(t, status.InvalidChannel, mgr.OpenNetworkChannel(7, 0, true))
	require.Equal(t, status.Ok, mgr.ConnectNetwork(7))
	assert.Equal(t, status.InvalidChannel, mgr.SendNetworkMessage(7, 2, 0, []byte("x")))
	require.Equal(t, status.Ok, mgr.OpenNetworkChannel(7, 0, true))
	require.Equal(t, status.Ok, mgr.SendNetworkMessage(7, 2, 0, []byte("x")))

	msgs := h.core.NetworkMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, Message{LobbyID: 7, UserID: 2, Data: []byte("x")}, msgs[0])
}

func TestRelationshipFilter(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())
	h.core.AddRelationship(1, 20, "friend", 1)
	h.core.AddRelationship(2, 21, "blocked", 0)
	h.core.AddRelationship(1, 22, "offline", 0)

	mgr := h.core.RelationshipManager()
	var count int32
	assert.Equal(t, status.NotFiltered, mgr.Count(&count))

	tok, err := h.registry.Filter(func(p uintptr) bool {
		rel := (*interfaces.Relationship)(unsafe.Pointer(p))
		return rel.Type == 1
	})
	require.NoError(t, err)
	mgr.Filter(uintptr(tok))
	h.registry.Release(tok)

	require.Equal(t, status.Ok, mgr.Count(&count))
	assert.Equal(t, int32(2), count)

	var rel interfaces.Relationship
	require.Equal(t, status.Ok, mgr.GetAt(1, &rel))
	assert.Equal(t, int64(22), rel.User.ID)
	assert.Equal(t, status.NotFound, mgr.GetAt(2, &rel))
}

func TestStoreRequiresFetch(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())
	h.core.AddSku(300, 1, "Expansion", 999, "usd")

	mgr := h.core.StoreManager()
	var sku interfaces.Sku
	assert.Equal(t, status.NotFetched, mgr.GetSku(300, &sku))

	var result error
	called := 0
	mgr.FetchSkus(h.onceResult(t, &result, &called))
	h.core.RunCallbacks()
	require.NoError(t, result)

	require.Equal(t, status.Ok, mgr.GetSku(300, &sku))
	assert.Equal(t, "Expansion", textbuf.Decode(sku.Name[:]))
	assert.Equal(t, uint32(999), sku.Price.Amount)
}

func TestPurchaseGrantsEntitlement(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())
	h.core.AddSku(300, 1, "Expansion", 999, "usd")

	mgr := h.core.StoreManager()
	var result error
	called := 0
	mgr.StartPurchase(300, h.onceResult(t, &result, &called))
	h.core.RunCallbacks()
	require.NoError(t, result)
	assert.Equal(t, []interfaces.EventKind{interfaces.EventEntitlementCreate}, h.eventKinds())

	mgr.FetchEntitlements(h.onceResult(t, &result, &called))
	h.core.RunCallbacks()

	var has bool
	require.Equal(t, status.Ok, mgr.HasSkuEntitlement(300, &has))
	assert.True(t, has)
}

func TestAchievementUnlock(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())

	mgr := h.core.AchievementManager()
	var result error
	called := 0
	mgr.SetUserAchievement(5, 100, h.onceResult(t, &result, &called))
	h.core.RunCallbacks()
	require.NoError(t, result)

	var a interfaces.UserAchievement
	require.Equal(t, status.Ok, mgr.GetUserAchievement(5, &a))
	assert.Equal(t, uint8(100), a.PercentComplete)
	assert.NotEmpty(t, textbuf.Decode(a.UnlockedAt[:]))
	assert.Equal(t, status.NotFound, mgr.GetUserAchievement(6, &a))
}

func TestOverlay(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())

	mgr := h.core.OverlayManager()
	var result error
	called := 0
	mgr.SetLocked(false, h.onceResult(t, &result, &called))
	mgr.OpenGuildInvite(textbuf.Terminate(""), h.onceResult(t, &result, &called))
	h.core.RunCallbacks()

	assert.Equal(t, 2, called)
	assert.ErrorIs(t, result, status.ToError(status.InvalidInvite))
	assert.Equal(t, []interfaces.EventKind{interfaces.EventOverlayToggle}, h.eventKinds())

	var locked bool
	mgr.IsLocked(&locked)
	assert.False(t, locked)
}

func TestEventsFollowInstalledTables(t *testing.T) {
	h := newHarness(t, interfaces.EventSet{Lobby: true})

	h.core.EmitOverlayToggle(true)
	h.core.EmitLobbyDelete(7, 0)
	h.core.RunCallbacks()

	assert.Equal(t, []interfaces.EventKind{interfaces.EventLobbyDelete}, h.eventKinds())
}

func TestStopReportsNotRunning(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())
	require.Equal(t, status.Ok, h.core.RunCallbacks())

	h.core.Stop()
	assert.Equal(t, status.NotRunning, h.core.RunCallbacks())

	h.core.Destroy()
	assert.True(t, h.core.Destroyed())
	assert.Equal(t, status.NotRunning, h.core.RunCallbacks())
}

func TestRefireLastIsViolation(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())

	var result error
	called := 0
	h.core.LobbyManager().DeleteLobby(404, h.onceResult(t, &result, &called))
	h.core.RunCallbacks()
	require.Equal(t, 1, called)
	assert.ErrorIs(t, result, status.ErrNotFound)

	require.True(t, h.core.RefireLast())
	h.core.RunCallbacks()
	assert.Equal(t, 1, called)
	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Len(t, h.violations, 1)
}

func TestLogHookHonorsLevel(t *testing.T) {
	h := newHarness(t, interfaces.AllEvents())
	tok, err := h.registry.Events(func(kind interfaces.EventKind, args []uintptr) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.events = append(h.events, event{kind, []uintptr{args[0]}})
	})
	require.NoError(t, err)

	h.core.SetLogHook(2, uintptr(tok))
	h.core.EmitLog(1, "error")
	h.core.EmitLog(4, "verbose")
	h.core.RunCallbacks()

	assert.Equal(t, []interfaces.EventKind{interfaces.EventLog}, h.eventKinds())
	assert.Equal(t, int32(2), h.core.LogLevel())
}
