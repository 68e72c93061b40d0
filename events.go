package gamesdk

import (
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/textbuf"
)

// maxLogMessage bounds how much of a native log message is read.
const maxLogMessage = 64 << 10

// Event callback types. Handlers run inside RunCallbacks.
type (
	LogCallback                  func(level LogLevel, message string)
	CurrentUserUpdateCallback    func()
	RelationshipsRefreshCallback func()
	RelationshipUpdateCallback   func(relationship Relationship)
	LobbyUpdateCallback          func(lobby LobbyID)
	LobbyDeleteCallback          func(lobby LobbyID, reason uint32)
	LobbyMemberCallback          func(lobby LobbyID, user UserID)
	LobbyMessageCallback         func(lobby LobbyID, user UserID, data []byte)
	LobbySpeakingCallback        func(lobby LobbyID, user UserID, speaking bool)
	LobbyNetworkMessageCallback  func(lobby LobbyID, user UserID, channel NetworkChannelID, data []byte)
	OverlayToggleCallback        func(opened bool)
	EntitlementCallback          func(entitlement Entitlement)
	AchievementUpdateCallback    func(achievement UserAchievement)
)

type eventHandlers struct {
	log                  LogCallback
	currentUserUpdate    CurrentUserUpdateCallback
	relationshipsRefresh RelationshipsRefreshCallback
	relationshipUpdate   RelationshipUpdateCallback
	lobbyUpdate          LobbyUpdateCallback
	lobbyDelete          LobbyDeleteCallback
	memberConnect        LobbyMemberCallback
	memberUpdate         LobbyMemberCallback
	memberDisconnect     LobbyMemberCallback
	lobbyMessage         LobbyMessageCallback
	speaking             LobbySpeakingCallback
	networkMessage       LobbyNetworkMessageCallback
	overlayToggle        OverlayToggleCallback
	entitlementCreate    EntitlementCallback
	entitlementDelete    EntitlementCallback
	achievementUpdate    AchievementUpdateCallback
}

// OnLog sets the callback for native log messages. Messages are forwarded
// to logrus whether or not a callback is set.
func (d *Discord) OnLog(callback LogCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.log = callback
}

// OnCurrentUserUpdate sets the callback fired when the current user is
// known or has changed.
func (d *Discord) OnCurrentUserUpdate(callback CurrentUserUpdateCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.currentUserUpdate = callback
}

// OnRelationshipsRefresh sets the callback fired when the relationship
// list has been (re)loaded.
func (d *Discord) OnRelationshipsRefresh(callback RelationshipsRefreshCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.relationshipsRefresh = callback
}

// OnRelationshipUpdate sets the callback for changes to one relationship.
func (d *Discord) OnRelationshipUpdate(callback RelationshipUpdateCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.relationshipUpdate = callback
}

// OnLobbyUpdate sets the callback for lobby property changes.
func (d *Discord) OnLobbyUpdate(callback LobbyUpdateCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.lobbyUpdate = callback
}

// OnLobbyDelete sets the callback for deleted lobbies.
func (d *Discord) OnLobbyDelete(callback LobbyDeleteCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.lobbyDelete = callback
}

// OnLobbyMemberConnect sets the callback for members joining a lobby.
func (d *Discord) OnLobbyMemberConnect(callback LobbyMemberCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.memberConnect = callback
}

// OnLobbyMemberUpdate sets the callback for member metadata changes.
func (d *Discord) OnLobbyMemberUpdate(callback LobbyMemberCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.memberUpdate = callback
}

// OnLobbyMemberDisconnect sets the callback for members leaving a lobby.
func (d *Discord) OnLobbyMemberDisconnect(callback LobbyMemberCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.memberDisconnect = callback
}

// OnLobbyMessage sets the callback for lobby messages.
func (d *Discord) OnLobbyMessage(callback LobbyMessageCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.lobbyMessage = callback
}

// OnLobbySpeaking sets the callback for voice activity of lobby members.
func (d *Discord) OnLobbySpeaking(callback LobbySpeakingCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.speaking = callback
}

// OnLobbyNetworkMessage sets the callback for lobby network messages.
func (d *Discord) OnLobbyNetworkMessage(callback LobbyNetworkMessageCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.networkMessage = callback
}

// OnOverlayToggle sets the callback fired when the overlay opens or closes.
func (d *Discord) OnOverlayToggle(callback OverlayToggleCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.overlayToggle = callback
}

// OnEntitlementCreate sets the callback for new entitlements.
func (d *Discord) OnEntitlementCreate(callback EntitlementCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.entitlementCreate = callback
}

// OnEntitlementDelete sets the callback for revoked entitlements.
func (d *Discord) OnEntitlementDelete(callback EntitlementCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.entitlementDelete = callback
}

// OnAchievementUpdate sets the callback for achievement progress changes.
func (d *Discord) OnAchievementUpdate(callback AchievementUpdateCallback) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()
	d.handlers.achievementUpdate = callback
}

// dispatchEvent is the event sink registered for the lifetime of the
// instance. args follow the native signature of kind and are only valid
// during the call.
func (d *Discord) dispatchEvent(kind interfaces.EventKind, args []uintptr) {
	if len(args) < kind.Arity() {
		d.logger.WithFields(logrus.Fields{
			"function": "dispatchEvent",
			"event":    kind.String(),
			"args":     len(args),
		}).Error("Native event with missing arguments")
		return
	}

	d.handlersMu.RLock()
	h := d.handlers
	d.handlersMu.RUnlock()

	switch kind {
	case interfaces.EventLog:
		level := LogLevel(int32(args[0]))
		message := textbuf.FromPointer(args[1], maxLogMessage)
		d.forwardLog(level, message)
		if h.log != nil {
			h.log(level, message)
		}
	case interfaces.EventCurrentUserUpdate:
		if h.currentUserUpdate != nil {
			h.currentUserUpdate()
		}
	case interfaces.EventRelationshipRefresh:
		if h.relationshipsRefresh != nil {
			h.relationshipsRefresh()
		}
	case interfaces.EventRelationshipUpdate:
		if h.relationshipUpdate != nil {
			h.relationshipUpdate(relationshipFromNative(at[interfaces.Relationship](args[0])))
		}
	case interfaces.EventLobbyUpdate:
		if h.lobbyUpdate != nil {
			h.lobbyUpdate(LobbyID(args[0]))
		}
	case interfaces.EventLobbyDelete:
		if h.lobbyDelete != nil {
			h.lobbyDelete(LobbyID(args[0]), uint32(args[1]))
		}
	case interfaces.EventMemberConnect:
		if h.memberConnect != nil {
			h.memberConnect(LobbyID(args[0]), UserID(args[1]))
		}
	case interfaces.EventMemberUpdate:
		if h.memberUpdate != nil {
			h.memberUpdate(LobbyID(args[0]), UserID(args[1]))
		}
	case interfaces.EventMemberDisconnect:
		if h.memberDisconnect != nil {
			h.memberDisconnect(LobbyID(args[0]), UserID(args[1]))
		}
	case interfaces.EventLobbyMessage:
		if h.lobbyMessage != nil {
			h.lobbyMessage(LobbyID(args[0]), UserID(args[1]), textbuf.BytesFromPointer(args[2], int(uint32(args[3]))))
		}
	case interfaces.EventSpeaking:
		if h.speaking != nil {
			h.speaking(LobbyID(args[0]), UserID(args[1]), byteBool(args[2]))
		}
	case interfaces.EventNetworkMessage:
		if h.networkMessage != nil {
			h.networkMessage(LobbyID(args[0]), UserID(args[1]), NetworkChannelID(args[2]),
				textbuf.BytesFromPointer(args[3], int(uint32(args[4]))))
		}
	case interfaces.EventOverlayToggle:
		if h.overlayToggle != nil {
			h.overlayToggle(!byteBool(args[0]))
		}
	case interfaces.EventEntitlementCreate:
		if h.entitlementCreate != nil {
			h.entitlementCreate(entitlementFromNative(at[interfaces.Entitlement](args[0])))
		}
	case interfaces.EventEntitlementDelete:
		if h.entitlementDelete != nil {
			h.entitlementDelete(entitlementFromNative(at[interfaces.Entitlement](args[0])))
		}
	case interfaces.EventUserAchievementUpdate:
		if h.achievementUpdate != nil {
			h.achievementUpdate(achievementFromNative(at[interfaces.UserAchievement](args[0])))
		}
	default:
		d.logger.WithFields(logrus.Fields{
			"function": "dispatchEvent",
			"event":    kind.String(),
		}).Warn("Dropping unknown native event")
	}
}

// forwardLog writes a native log message to logrus at the matching level.
func (d *Discord) forwardLog(level LogLevel, message string) {
	entry := d.logger.WithFields(logrus.Fields{
		"function":     "native",
		"native_level": level.String(),
	})
	switch level {
	case LogLevelError:
		entry.Error(message)
	case LogLevelWarn:
		entry.Warn(message)
	case LogLevelInfo:
		entry.Info(message)
	default:
		entry.Debug(message)
	}
}

// byteBool decodes a C bool widened to a register.
func byteBool(v uintptr) bool {
	return v&0xff != 0
}
