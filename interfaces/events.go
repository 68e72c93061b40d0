package interfaces

// EventKind identifies a native event-table entry or the log hook. Events
// reach Go through the event trampoline as (token, kind, args...) where the
// arguments follow the native signature in order, each widened to uintptr.
type EventKind uint32

const (
	// EventLog carries (level, const char* message)
	EventLog EventKind = iota + 1
	// EventCurrentUserUpdate carries no arguments
	EventCurrentUserUpdate
	// EventRelationshipRefresh carries no arguments
	EventRelationshipRefresh
	// EventRelationshipUpdate carries (*Relationship)
	EventRelationshipUpdate
	// EventLobbyUpdate carries (lobby id)
	EventLobbyUpdate
	// EventLobbyDelete carries (lobby id, reason)
	EventLobbyDelete
	// EventMemberConnect carries (lobby id, user id)
	EventMemberConnect
	// EventMemberUpdate carries (lobby id, user id)
	EventMemberUpdate
	// EventMemberDisconnect carries (lobby id, user id)
	EventMemberDisconnect
	// EventLobbyMessage carries (lobby id, user id, data pointer, length)
	EventLobbyMessage
	// EventSpeaking carries (lobby id, user id, speaking)
	EventSpeaking
	// EventNetworkMessage carries (lobby id, user id, channel id, data pointer, length)
	EventNetworkMessage
	// EventOverlayToggle carries (locked)
	EventOverlayToggle
	// EventEntitlementCreate carries (*Entitlement)
	EventEntitlementCreate
	// EventEntitlementDelete carries (*Entitlement)
	EventEntitlementDelete
	// EventUserAchievementUpdate carries (*UserAchievement)
	EventUserAchievementUpdate
)

var eventNames = map[EventKind]string{
	EventLog:                   "log",
	EventCurrentUserUpdate:     "current_user_update",
	EventRelationshipRefresh:   "relationship_refresh",
	EventRelationshipUpdate:    "relationship_update",
	EventLobbyUpdate:           "lobby_update",
	EventLobbyDelete:           "lobby_delete",
	EventMemberConnect:         "member_connect",
	EventMemberUpdate:          "member_update",
	EventMemberDisconnect:      "member_disconnect",
	EventLobbyMessage:          "lobby_message",
	EventSpeaking:              "speaking",
	EventNetworkMessage:        "network_message",
	EventOverlayToggle:         "overlay_toggle",
	EventEntitlementCreate:     "entitlement_create",
	EventEntitlementDelete:     "entitlement_delete",
	EventUserAchievementUpdate: "user_achievement_update",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown_event"
}

// Arity is the number of arguments the event carries.
func (k EventKind) Arity() int {
	switch k {
	case EventCurrentUserUpdate, EventRelationshipRefresh:
		return 0
	case EventRelationshipUpdate, EventLobbyUpdate, EventOverlayToggle,
		EventEntitlementCreate, EventEntitlementDelete, EventUserAchievementUpdate:
		return 1
	case EventLog, EventLobbyDelete, EventMemberConnect, EventMemberUpdate, EventMemberDisconnect:
		return 2
	case EventSpeaking:
		return 3
	case EventLobbyMessage:
		return 4
	case EventNetworkMessage:
		return 5
	}
	return -1
}
