package gamesdk

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/gamesdk/bridge"
	"github.com/opd-ai/gamesdk/collection"
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/limits"
	"github.com/opd-ai/gamesdk/status"
	simtesting "github.com/opd-ai/gamesdk/testing"
)

type fixture struct {
	discord *Discord
	backend *simtesting.SimulatedBackend
	core    *simtesting.SimulatedCore

	mu         sync.Mutex
	violations []string
	aborts     []any
}

func newFixture(t *testing.T, seed func(*simtesting.SimulatedCore)) *fixture {
	t.Helper()
	f := &fixture{backend: simtesting.NewSimulatedBackend(nil)}
	if seed != nil {
		f.backend.OnCreate(seed)
	}

	options := NewOptions()
	options.ClientID = 42
	flags := CreateFlagsNoRequireDiscord
	options.CreateFlags = &flags
	options.LogLevel = LogLevelDebug
	options.Backend = f.backend
	options.RegistryOptions = []bridge.Option{
		bridge.WithViolationHandler(func(_ bridge.Token, reason string) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.violations = append(f.violations, reason)
		}),
		bridge.WithAbortHandler(func(_ bridge.Token, recovered any, _ []byte) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.aborts = append(f.aborts, recovered)
		}),
	}

	d, err := NewWithOptions(options)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	f.discord = d
	f.core = f.backend.LastCore()
	require.NotNil(t, f.core)
	return f
}

func (f *fixture) pump(t *testing.T) {
	t.Helper()
	require.NoError(t, f.discord.RunCallbacks())
}

func (f *fixture) violationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.violations)
}

// ownedLobby seeds lobby 10, owned by the current user (id 1).
func ownedLobby(c *simtesting.SimulatedCore) {
	c.SeedLobby(10, int32(LobbyKindPublic), 1, 4, "owner-secret",
		map[string]string{"mode": "ranked", "map": "harbor", "elo": "1200"}, 1, 2)
	c.AddUser(2, "friend", "0002", false)
}

func TestNewWithOptions(t *testing.T) {
	f := newFixture(t, nil)

	params := f.core.Params()
	assert.Equal(t, int64(42), params.ClientID)
	assert.Equal(t, uint64(CreateFlagsNoRequireDiscord), params.Flags)
	assert.Equal(t, uintptr(f.discord.events), params.EventData)
	assert.Equal(t, interfaces.AllEvents(), params.Events)
	assert.Equal(t, int32(LogLevelDebug), f.core.LogLevel())
	assert.Equal(t, ClientID(42), f.discord.ClientID())

	calls := f.core.Calls()
	assert.Contains(t, calls, "Core.LobbyManager")
	assert.Contains(t, calls, "Core.AchievementManager")
}

func TestNewFailsWhenCoreCreationFails(t *testing.T) {
	backend := simtesting.NewSimulatedBackend(nil)
	backend.FailCreate(status.NotInstalled)

	options := NewOptions()
	options.ClientID = 42
	options.Backend = backend

	d, err := NewWithOptions(options)
	assert.Nil(t, d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateFlagsFallback(t *testing.T) {
	explicitDefault := CreateFlagsDefault
	tests := []struct {
		name  string
		flags *CreateFlags
		want  uint64
	}{
		{name: "unset uses configuration", flags: nil, want: uint64(CreateFlagsNoRequireDiscord)},
		{name: "explicit default wins", flags: &explicitDefault, want: uint64(CreateFlagsDefault)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GAMESDK_CREATE_FLAGS", "1")
			backend := simtesting.NewSimulatedBackend(nil)

			options := NewOptions()
			options.ClientID = 42
			options.CreateFlags = tt.flags
			options.Backend = backend

			d, err := NewWithOptions(options)
			require.NoError(t, err)
			t.Cleanup(func() { d.Close() })

			assert.Equal(t, tt.want, backend.LastCore().Params().Flags)
		})
	}
}

func TestCreateLobby(t *testing.T) {
	f := newFixture(t, nil)

	var (
		got    Lobby
		gotErr error
		called int
	)
	tx := NewLobbyTransaction().
		Kind(LobbyKindPublic).
		Capacity(4).
		Locked(true).
		AddMetadata("map", "harbor")

	require.NoError(t, f.discord.CreateLobby(tx, func(l Lobby, err error) {
		called++
		got, gotErr = l, err
	}))
	assert.Equal(t, 0, called, "completion must not run inline")

	f.pump(t)
	require.Equal(t, 1, called)
	require.NoError(t, gotErr)
	assert.Equal(t, LobbyKindPublic, got.Kind)
	assert.Equal(t, uint32(4), got.Capacity)
	assert.True(t, got.Locked)
	assert.Equal(t, UserID(1), got.OwnerID)
	assert.NotEmpty(t, got.Secret)

	txs := f.core.Transactions()
	require.Len(t, txs, 1)
	var ops []string
	for _, c := range txs[0].Calls() {
		ops = append(ops, c.Op)
	}
	assert.Equal(t, []string{"SetType", "SetCapacity", "SetLocked", "SetMetadata"}, ops)

	value, err := f.discord.LobbyMetadata(got.ID, "map")
	require.NoError(t, err)
	assert.Equal(t, "harbor", value)

	f.pump(t)
	assert.Equal(t, 1, called)
}

func TestCreateLobbyConsumesTransaction(t *testing.T) {
	f := newFixture(t, nil)

	tx := NewLobbyTransaction().Capacity(2)
	require.NoError(t, f.discord.CreateLobby(tx, nil))
	assert.ErrorIs(t, f.discord.CreateLobby(tx, nil), ErrTransactionConsumed)
	assert.Len(t, f.core.Transactions(), 1)
}

func TestCreateLobbyAbortsBeforeSubmission(t *testing.T) {
	f := newFixture(t, nil)
	f.core.FailOn("LobbyTransaction.SetCapacity", status.InternalError)

	called := 0
	tx := NewLobbyTransaction().Kind(LobbyKindPrivate).Capacity(4).Locked(false)
	err := f.discord.CreateLobby(tx, func(Lobby, error) { called++ })
	require.Error(t, err)

	code, ok := status.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, status.InternalError, code)
	assert.True(t, errors.Is(err, ErrTransient))

	calls := f.core.Transactions()[0].Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "SetType", calls[0].Op)
	assert.Equal(t, "SetCapacity", calls[1].Op)

	assert.Equal(t, 1, f.discord.registry.Len(), "only the event sink stays registered")
	f.pump(t)
	assert.Equal(t, 0, called)
}

func TestUpdateLobby(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(*simtesting.SimulatedCore)
		wantErr error
	}{
		{name: "owner", seed: ownedLobby},
		{
			name: "not owner",
			seed: func(c *simtesting.SimulatedCore) {
				c.SeedLobby(10, int32(LobbyKindPublic), 7, 4, "s", nil, 7, 1)
			},
			wantErr: ErrPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.seed)

			updates := 0
			f.discord.OnLobbyUpdate(func(id LobbyID) {
				assert.Equal(t, LobbyID(10), id)
				updates++
			})

			var gotErr error
			called := 0
			tx := NewLobbyTransaction().Capacity(8).DeleteMetadata("map")
			require.NoError(t, f.discord.UpdateLobby(10, tx, func(err error) {
				called++
				gotErr = err
			}))
			f.pump(t)
			require.Equal(t, 1, called)

			if tt.wantErr != nil {
				assert.ErrorIs(t, gotErr, tt.wantErr)
				assert.Equal(t, 0, updates)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, 1, updates)

			snap, ok := f.core.Lobby(10)
			require.True(t, ok)
			assert.Equal(t, uint32(8), snap.Lobby.Capacity)
			assert.NotContains(t, snap.Metadata, "map")
		})
	}
}

func TestDoubleInvocationIsReported(t *testing.T) {
	f := newFixture(t, ownedLobby)

	called := 0
	require.NoError(t, f.discord.DeleteLobby(10, func(err error) {
		assert.NoError(t, err)
		called++
	}))
	f.pump(t)
	require.Equal(t, 1, called)

	require.True(t, f.core.RefireLast())
	f.pump(t)
	assert.Equal(t, 1, called, "closure must not run twice")
	assert.Equal(t, 1, f.violationCount())
}

func TestPanicInCompletionIsContained(t *testing.T) {
	f := newFixture(t, ownedLobby)

	require.NoError(t, f.discord.DeleteLobby(10, func(error) {
		panic("boom")
	}))
	f.pump(t)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, []any{"boom"}, f.aborts)
}

func TestRunCallbacksNotRunning(t *testing.T) {
	f := newFixture(t, nil)
	f.core.Stop()

	err := f.discord.RunCallbacks()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRunning))

	code, ok := status.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, status.NotRunning, code)
}

func TestCloseCancelsPendingCompletions(t *testing.T) {
	f := newFixture(t, ownedLobby)

	var (
		gotErr error
		order  []string
	)
	called := 0
	require.NoError(t, f.discord.DeleteLobby(10, func(err error) {
		called++
		gotErr = err
		order = append(order, "delete")
	}))
	require.NoError(t, f.discord.DisconnectLobby(10, func(err error) {
		assert.ErrorIs(t, err, ErrCancelled)
		order = append(order, "disconnect")
	}))

	// No RunCallbacks: Close itself runs the pending closures.
	require.NoError(t, f.discord.Close())
	require.Equal(t, 1, called)
	assert.ErrorIs(t, gotErr, ErrCancelled)
	assert.Equal(t, []string{"delete", "disconnect"}, order)
	assert.True(t, f.core.Destroyed())

	require.NoError(t, f.discord.Close())
	assert.ErrorIs(t, f.discord.RunCallbacks(), ErrClosed)
	assert.ErrorIs(t, f.discord.DeleteLobby(10, nil), ErrClosed)
	_, err := f.discord.Lobby(10)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 1, called)
}

func TestConnectLobby(t *testing.T) {
	seed := func(c *simtesting.SimulatedCore) {
		c.SeedLobby(20, int32(LobbyKindPublic), 7, 2, "join-me", nil, 7)
		c.SeedLobby(21, int32(LobbyKindPublic), 7, 1, "full", nil, 7)
	}

	tests := []struct {
		name     string
		lobby    LobbyID
		secret   string
		wantCode status.Code
	}{
		{name: "valid secret", lobby: 20, secret: "join-me", wantCode: status.Ok},
		{name: "wrong secret", lobby: 20, secret: "nope", wantCode: status.InvalidLobbySecret},
		{name: "full lobby", lobby: 21, secret: "full", wantCode: status.LobbyFull},
		{name: "unknown lobby", lobby: 99, secret: "x", wantCode: status.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, seed)

			var joined []UserID
			f.discord.OnLobbyMemberConnect(func(_ LobbyID, user UserID) {
				joined = append(joined, user)
			})

			var (
				got    Lobby
				gotErr error
			)
			require.NoError(t, f.discord.ConnectLobby(tt.lobby, tt.secret, func(l Lobby, err error) {
				got, gotErr = l, err
			}))
			f.pump(t)

			if tt.wantCode != status.Ok {
				code, ok := status.CodeOf(gotErr)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, code)
				assert.Equal(t, Lobby{}, got)
				assert.Empty(t, joined)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tt.lobby, got.ID)
			assert.Equal(t, []UserID{1}, joined)
		})
	}
}

func TestConnectLobbySecretCheckedNatively(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		inject status.Code
		want   status.Code
	}{
		{name: "empty secret", secret: "", want: status.InvalidLobbySecret},
		{name: "oversize secret", secret: strings.Repeat("s", limits.LobbySecret), want: status.InvalidLobbySecret},
		{name: "injected failure", secret: "join-me", inject: status.InvalidPayload, want: status.InvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(c *simtesting.SimulatedCore) {
				c.SeedLobby(20, int32(LobbyKindPublic), 7, 4, "join-me", nil, 7)
				if tt.inject != status.Ok {
					c.FailOn("LobbyManager.ConnectLobby", tt.inject)
				}
			})

			var gotErr error
			require.NoError(t, f.discord.ConnectLobby(20, tt.secret, func(_ Lobby, err error) {
				gotErr = err
			}))
			assert.Contains(t, f.core.Calls(), "LobbyManager.ConnectLobby")
			f.pump(t)

			var statusErr *status.Error
			require.True(t, errors.As(gotErr, &statusErr))
			assert.Equal(t, tt.want, statusErr.Code)
		})
	}
}

func TestConnectLobbyWithActivitySecret(t *testing.T) {
	f := newFixture(t, func(c *simtesting.SimulatedCore) {
		c.SeedLobby(30, int32(LobbyKindPrivate), 7, 4, "party", nil, 7)
	})

	secret, err := f.discord.LobbyActivitySecret(30)
	require.NoError(t, err)

	var got Lobby
	require.NoError(t, f.discord.ConnectLobbyWithActivitySecret(secret, func(l Lobby, err error) {
		require.NoError(t, err)
		got = l
	}))
	f.pump(t)
	assert.Equal(t, LobbyID(30), got.ID)

	disconnected := false
	f.discord.OnLobbyMemberDisconnect(func(lobby LobbyID, user UserID) {
		disconnected = lobby == 30 && user == 1
	})
	require.NoError(t, f.discord.DisconnectLobby(30, func(err error) { assert.NoError(t, err) }))
	f.pump(t)
	assert.True(t, disconnected)
}

func TestLobbyMetadataCollection(t *testing.T) {
	f := newFixture(t, ownedLobby)

	count, err := f.discord.LobbyMetadataCount(10)
	require.NoError(t, err)
	assert.Equal(t, int32(3), count)

	md, err := f.discord.IterLobbyMetadata(10)
	require.NoError(t, err)
	all, err := md.Collect()
	require.NoError(t, err)
	assert.Equal(t, []Metadata{
		{Key: "elo", Value: "1200"},
		{Key: "map", Value: "harbor"},
		{Key: "mode", Value: "ranked"},
	}, all)

	md, err = f.discord.IterLobbyMetadata(10)
	require.NoError(t, err)
	last, err := md.NextBack()
	require.NoError(t, err)
	assert.Equal(t, "mode", last.Key)
	first, err := md.Next()
	require.NoError(t, err)
	assert.Equal(t, "elo", first.Key)
	assert.Equal(t, 1, md.Len())

	_, err = f.discord.LobbyMetadata(10, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLobbyMembers(t *testing.T) {
	f := newFixture(t, ownedLobby)

	ids, err := f.discord.IterLobbyMemberIDs(10)
	require.NoError(t, err)
	var got []UserID
	for id, err := range ids.All() {
		require.NoError(t, err)
		got = append(got, id)
	}
	assert.Equal(t, []UserID{1, 2}, got)

	user, err := f.discord.LobbyMemberUser(10, 2)
	require.NoError(t, err)
	assert.Equal(t, "friend", user.Username)
	assert.Equal(t, "0002", user.Discriminator)

	_, err = f.discord.LobbyMemberUser(10, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionFusesOnAccessorFailure(t *testing.T) {
	f := newFixture(t, ownedLobby)
	f.core.FailOn("LobbyManager.GetMemberUserID", status.InternalError)

	ids, err := f.discord.IterLobbyMemberIDs(10)
	require.NoError(t, err)

	_, err = ids.Next()
	assert.ErrorIs(t, err, ErrTransient)
	_, err = ids.Next()
	assert.ErrorIs(t, err, collection.ErrExhausted)
	_, err = ids.NextBack()
	assert.ErrorIs(t, err, collection.ErrExhausted)
}

func TestUpdateMember(t *testing.T) {
	f := newFixture(t, ownedLobby)

	var updated []UserID
	f.discord.OnLobbyMemberUpdate(func(_ LobbyID, user UserID) {
		updated = append(updated, user)
	})

	tx := NewLobbyMemberTransaction().AddMetadata("role", "tank")
	require.NoError(t, f.discord.UpdateMember(10, 1, tx, func(err error) {
		assert.NoError(t, err)
	}))
	f.pump(t)
	assert.Equal(t, []UserID{1}, updated)

	value, err := f.discord.LobbyMemberMetadata(10, 1, "role")
	require.NoError(t, err)
	assert.Equal(t, "tank", value)

	md, err := f.discord.IterLobbyMemberMetadata(10, 1)
	require.NoError(t, err)
	all, err := md.Collect()
	require.NoError(t, err)
	assert.Equal(t, []Metadata{{Key: "role", Value: "tank"}}, all)

	err = f.discord.UpdateMember(10, 99, NewLobbyMemberTransaction(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLobbySearch(t *testing.T) {
	f := newFixture(t, func(c *simtesting.SimulatedCore) {
		c.SeedLobby(100, int32(LobbyKindPublic), 7, 4, "a", map[string]string{"mode": "ranked", "elo": "1500"}, 7)
		c.SeedLobby(101, int32(LobbyKindPublic), 8, 4, "b", map[string]string{"mode": "casual", "elo": "1200"}, 8)
		c.SeedLobby(102, int32(LobbyKindPublic), 9, 4, "c", map[string]string{"mode": "ranked", "elo": "1250"}, 9)
	})

	q := NewSearchQuery().
		Filter("metadata.mode", ComparisonEqual, CastString, "ranked").
		Sort("metadata.elo", CastNumber, "1200").
		Limit(10).
		Distance(DistanceGlobal)

	done := false
	require.NoError(t, f.discord.LobbySearch(q, func(err error) {
		require.NoError(t, err)
		done = true
	}))
	f.pump(t)
	require.True(t, done)

	lobbies, err := f.discord.IterLobbies()
	require.NoError(t, err)
	got, err := lobbies.Collect()
	require.NoError(t, err)
	assert.Equal(t, []LobbyID{102, 100}, got)

	queries := f.core.SearchQueries()
	require.Len(t, queries, 1)
	var ops []string
	for _, c := range queries[0].Calls() {
		ops = append(ops, c.Op)
	}
	assert.Equal(t, []string{"Filter", "Sort", "Limit", "Distance"}, ops)

	assert.ErrorIs(t, f.discord.LobbySearch(q, nil), ErrTransactionConsumed)
}

func TestLobbyMessaging(t *testing.T) {
	f := newFixture(t, ownedLobby)

	var received []byte
	f.discord.OnLobbyMessage(func(lobby LobbyID, user UserID, data []byte) {
		assert.Equal(t, LobbyID(10), lobby)
		assert.Equal(t, UserID(2), user)
		received = data
	})

	require.NoError(t, f.discord.SendLobbyMessage(10, []byte("gg"), func(err error) {
		assert.NoError(t, err)
	}))
	f.core.EmitLobbyMessage(10, 2, []byte("hello"))
	f.pump(t)

	assert.Equal(t, []byte("hello"), received)
	sent := f.core.LobbyMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, []byte("gg"), sent[0].Data)
}

func TestLobbyNetwork(t *testing.T) {
	f := newFixture(t, ownedLobby)

	err := f.discord.OpenLobbyNetworkChannel(10, 0, true)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	require.NoError(t, f.discord.ConnectLobbyNetwork(10))
	require.NoError(t, f.discord.OpenLobbyNetworkChannel(10, 0, true))

	err = f.discord.SendLobbyNetworkMessage(10, 2, 1, []byte("x"))
	code, ok := status.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, status.InvalidChannel, code)

	require.NoError(t, f.discord.SendLobbyNetworkMessage(10, 2, 0, []byte("state")))
	require.NoError(t, f.discord.FlushLobbyNetwork())

	sent := f.core.NetworkMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(2), sent[0].UserID)
	assert.Equal(t, []byte("state"), sent[0].Data)

	var got []byte
	f.discord.OnLobbyNetworkMessage(func(_ LobbyID, _ UserID, channel NetworkChannelID, data []byte) {
		assert.Equal(t, NetworkChannelID(3), channel)
		got = data
	})
	f.core.EmitNetworkMessage(10, 2, 3, []byte{1, 2, 3})
	f.pump(t)
	assert.Equal(t, []byte{1, 2, 3}, got)

	require.NoError(t, f.discord.DisconnectLobbyNetwork(10))
}

func TestLobbyVoice(t *testing.T) {
	f := newFixture(t, ownedLobby)

	require.NoError(t, f.discord.ConnectLobbyVoice(10, func(err error) { assert.NoError(t, err) }))
	f.pump(t)
	snap, _ := f.core.Lobby(10)
	assert.True(t, snap.Voice)

	var speaking bool
	f.discord.OnLobbySpeaking(func(_ LobbyID, _ UserID, s bool) { speaking = s })
	f.core.EmitSpeaking(10, 2, true)
	f.pump(t)
	assert.True(t, speaking)

	require.NoError(t, f.discord.DisconnectLobbyVoice(10, nil))
	f.pump(t)
	snap, _ = f.core.Lobby(10)
	assert.False(t, snap.Voice)
}

func TestLobbyDeleteEvent(t *testing.T) {
	f := newFixture(t, nil)

	var (
		gotLobby  LobbyID
		gotReason uint32
	)
	f.discord.OnLobbyDelete(func(lobby LobbyID, reason uint32) {
		gotLobby, gotReason = lobby, reason
	})
	f.core.EmitLobbyDelete(55, 3)
	f.pump(t)
	assert.Equal(t, LobbyID(55), gotLobby)
	assert.Equal(t, uint32(3), gotReason)
}

func TestEventsRespectInstalledTables(t *testing.T) {
	backend := simtesting.NewSimulatedBackend(nil)
	options := NewOptions()
	options.ClientID = 42
	options.Backend = backend
	options.Events = interfaces.EventSet{User: true}

	d, err := NewWithOptions(options)
	require.NoError(t, err)
	defer d.Close()

	userUpdates, toggles := 0, 0
	d.OnCurrentUserUpdate(func() { userUpdates++ })
	d.OnOverlayToggle(func(bool) { toggles++ })

	core := backend.LastCore()
	core.EmitCurrentUserUpdate()
	core.EmitOverlayToggle(false)
	require.NoError(t, d.RunCallbacks())

	assert.Equal(t, 1, userUpdates)
	assert.Equal(t, 0, toggles)
}

func TestLogHookForwardsMessages(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	f := newFixture(t, nil)

	var (
		level   LogLevel
		message string
	)
	f.discord.OnLog(func(l LogLevel, m string) {
		level, message = l, m
	})

	f.core.EmitLog(int32(LogLevelWarn), "voice connection degraded")
	f.pump(t)

	assert.Equal(t, LogLevelWarn, level)
	assert.Equal(t, "voice connection degraded", message)

	var forwarded *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "voice connection degraded" {
			forwarded = e
		}
	}
	require.NotNil(t, forwarded)
	assert.Equal(t, logrus.WarnLevel, forwarded.Level)
	assert.Equal(t, "warn", forwarded.Data["native_level"])
	assert.Equal(t, int64(42), forwarded.Data["client_id"])
}
