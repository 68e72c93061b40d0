package interfaces

import "github.com/opd-ai/gamesdk/status"

// IBackend creates native cores. It mirrors the DiscordCreate entry point.
// This abstraction allows switching between the dynamic library and the
// in-memory simulation.
type IBackend interface {
	// Create builds a core for the given SDK version and parameters
	Create(version int32, params *CreateParams) (ICore, error)

	// IsSimulation returns true if this is a simulation implementation
	IsSimulation() bool
}

// CreateParams carries the fields of DiscordCreateParams that the binding
// controls. The native layer reproduces the full structure from it.
type CreateParams struct {
	// ClientID is the application id
	ClientID int64

	// Flags are the EDiscordCreateFlags bits
	Flags uint64

	// EventData is the token handed back as the first argument of every event
	EventData uintptr

	// Events selects the managers whose event tables are installed
	Events EventSet
}

// EventSet selects per-manager event tables.
type EventSet struct {
	User         bool
	Relationship bool
	Lobby        bool
	Overlay      bool
	Store        bool
	Achievement  bool
}

// AllEvents installs every event table the binding understands.
func AllEvents() EventSet {
	return EventSet{
		User:         true,
		Relationship: true,
		Lobby:        true,
		Overlay:      true,
		Store:        true,
		Achievement:  true,
	}
}

// Has reports whether the table owning kind is enabled.
func (s EventSet) Has(kind EventKind) bool {
	switch kind {
	case EventCurrentUserUpdate:
		return s.User
	case EventRelationshipRefresh, EventRelationshipUpdate:
		return s.Relationship
	case EventLobbyUpdate, EventLobbyDelete, EventMemberConnect, EventMemberUpdate,
		EventMemberDisconnect, EventLobbyMessage, EventSpeaking, EventNetworkMessage:
		return s.Lobby
	case EventOverlayToggle:
		return s.Overlay
	case EventEntitlementCreate, EventEntitlementDelete:
		return s.Store
	case EventUserAchievementUpdate:
		return s.Achievement
	case EventLog:
		return true
	}
	return false
}

// ICore mirrors IDiscordCore. Manager accessors are cheap and must be called
// again for every operation.
type ICore interface {
	Destroy()
	RunCallbacks() status.Code
	// SetLogHook installs the log hook; messages arrive as EventLog with
	// hookData as the event token.
	SetLogHook(minLevel int32, hookData uintptr)

	UserManager() IUserManager
	RelationshipManager() IRelationshipManager
	LobbyManager() ILobbyManager
	OverlayManager() IOverlayManager
	StoreManager() IStoreManager
	AchievementManager() IAchievementManager
}

// The manager interfaces mirror the native vtables one to one. Methods that
// take callbackData are asynchronous: the native layer later calls the
// result trampoline (result only) or the value trampoline (result plus a
// pointer to the mirrored structure) with callbackData as the token.

// IUserManager mirrors IDiscordUserManager.
type IUserManager interface {
	GetCurrentUser(out *User) status.Code
	// GetUser completes through the value trampoline with a *User
	GetUser(userID int64, callbackData uintptr)
	GetCurrentUserPremiumType(out *int32) status.Code
	CurrentUserHasFlag(flag int32, out *bool) status.Code
}

// IRelationshipManager mirrors IDiscordRelationshipManager.
type IRelationshipManager interface {
	// Filter calls the filter trampoline once per relationship with a
	// *Relationship and returns after the last call.
	Filter(filterData uintptr)
	Count(out *int32) status.Code
	Get(userID int64, out *Relationship) status.Code
	GetAt(index uint32, out *Relationship) status.Code
}

// ILobbyTransaction mirrors IDiscordLobbyTransaction. Text arguments are
// NUL-terminated.
type ILobbyTransaction interface {
	SetType(lobbyType int32) status.Code
	SetOwner(ownerID int64) status.Code
	SetCapacity(capacity uint32) status.Code
	SetMetadata(key, value []byte) status.Code
	DeleteMetadata(key []byte) status.Code
	SetLocked(locked bool) status.Code
}

// ILobbyMemberTransaction mirrors IDiscordLobbyMemberTransaction.
type ILobbyMemberTransaction interface {
	SetMetadata(key, value []byte) status.Code
	DeleteMetadata(key []byte) status.Code
}

// ILobbySearchQuery mirrors IDiscordLobbySearchQuery.
type ILobbySearchQuery interface {
	Filter(key []byte, comparison, cast int32, value []byte) status.Code
	Sort(key []byte, cast int32, value []byte) status.Code
	Limit(limit uint32) status.Code
	Distance(distance int32) status.Code
}

// ILobbyManager mirrors IDiscordLobbyManager.
type ILobbyManager interface {
	GetLobbyCreateTransaction() (ILobbyTransaction, status.Code)
	GetLobbyUpdateTransaction(lobbyID int64) (ILobbyTransaction, status.Code)
	GetMemberUpdateTransaction(lobbyID, userID int64) (ILobbyMemberTransaction, status.Code)

	// CreateLobby completes through the value trampoline with a *Lobby
	CreateLobby(tx ILobbyTransaction, callbackData uintptr)
	UpdateLobby(lobbyID int64, tx ILobbyTransaction, callbackData uintptr)
	DeleteLobby(lobbyID int64, callbackData uintptr)
	// ConnectLobby completes through the value trampoline with a *Lobby
	ConnectLobby(lobbyID int64, secret []byte, callbackData uintptr)
	// ConnectLobbyWithActivitySecret completes through the value trampoline with a *Lobby
	ConnectLobbyWithActivitySecret(secret []byte, callbackData uintptr)
	DisconnectLobby(lobbyID int64, callbackData uintptr)

	GetLobby(lobbyID int64, out *Lobby) status.Code
	GetLobbyActivitySecret(lobbyID int64, out *LobbySecret) status.Code
	GetLobbyMetadataValue(lobbyID int64, key []byte, out *MetadataValue) status.Code
	GetLobbyMetadataKey(lobbyID int64, index int32, out *MetadataKey) status.Code
	LobbyMetadataCount(lobbyID int64, out *int32) status.Code

	MemberCount(lobbyID int64, out *int32) status.Code
	GetMemberUserID(lobbyID int64, index int32, out *int64) status.Code
	GetMemberUser(lobbyID, userID int64, out *User) status.Code
	GetMemberMetadataValue(lobbyID, userID int64, key []byte, out *MetadataValue) status.Code
	GetMemberMetadataKey(lobbyID, userID int64, index int32, out *MetadataKey) status.Code
	MemberMetadataCount(lobbyID, userID int64, out *int32) status.Code
	UpdateMember(lobbyID, userID int64, tx ILobbyMemberTransaction, callbackData uintptr)

	SendLobbyMessage(lobbyID int64, data []byte, callbackData uintptr)

	GetSearchQuery() (ILobbySearchQuery, status.Code)
	Search(query ILobbySearchQuery, callbackData uintptr)
	LobbyCount(out *int32)
	GetLobbyID(index int32, out *int64) status.Code

	ConnectVoice(lobbyID int64, callbackData uintptr)
	DisconnectVoice(lobbyID int64, callbackData uintptr)

	ConnectNetwork(lobbyID int64) status.Code
	DisconnectNetwork(lobbyID int64) status.Code
	FlushNetwork() status.Code
	OpenNetworkChannel(lobbyID int64, channelID uint8, reliable bool) status.Code
	SendNetworkMessage(lobbyID, userID int64, channelID uint8, data []byte) status.Code
}

// IOverlayManager mirrors IDiscordOverlayManager.
type IOverlayManager interface {
	IsEnabled(out *bool)
	IsLocked(out *bool)
	SetLocked(locked bool, callbackData uintptr)
	OpenActivityInvite(actionType int32, callbackData uintptr)
	OpenGuildInvite(code []byte, callbackData uintptr)
	OpenVoiceSettings(callbackData uintptr)
}

// IStoreManager mirrors IDiscordStoreManager.
type IStoreManager interface {
	FetchSkus(callbackData uintptr)
	CountSkus(out *int32)
	GetSku(skuID int64, out *Sku) status.Code
	GetSkuAt(index int32, out *Sku) status.Code
	FetchEntitlements(callbackData uintptr)
	CountEntitlements(out *int32)
	GetEntitlement(entitlementID int64, out *Entitlement) status.Code
	GetEntitlementAt(index int32, out *Entitlement) status.Code
	HasSkuEntitlement(skuID int64, out *bool) status.Code
	StartPurchase(skuID int64, callbackData uintptr)
}

// IAchievementManager mirrors IDiscordAchievementManager.
type IAchievementManager interface {
	SetUserAchievement(achievementID int64, percentComplete uint8, callbackData uintptr)
	FetchUserAchievements(callbackData uintptr)
	CountUserAchievements(out *int32)
	GetUserAchievement(achievementID int64, out *UserAchievement) status.Code
	GetUserAchievementAt(index int32, out *UserAchievement) status.Code
}

// BackendConfig holds configuration for backend implementations
type BackendConfig struct {
	// UseSimulation determines whether to use the simulation or the native library
	UseSimulation bool `yaml:"use_simulation"`

	// LibraryPath overrides the search for the native shared library
	LibraryPath string `yaml:"library_path"`

	// ClientID is the default application id
	ClientID int64 `yaml:"client_id"`

	// CreateFlags are the default EDiscordCreateFlags
	CreateFlags uint64 `yaml:"create_flags"`

	// LogLevel is the minimum native log level forwarded to the logger (1-4)
	LogLevel int32 `yaml:"log_level"`
}
