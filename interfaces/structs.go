package interfaces

import "github.com/opd-ai/gamesdk/limits"

// Versions of the pinned native SDK (2.5.6).
const (
	DiscordVersion             int32 = 2
	ApplicationManagerVersion  int32 = 1
	UserManagerVersion         int32 = 1
	ImageManagerVersion        int32 = 1
	ActivityManagerVersion     int32 = 1
	RelationshipManagerVersion int32 = 1
	LobbyManagerVersion        int32 = 1
	NetworkManagerVersion      int32 = 1
	OverlayManagerVersion      int32 = 1
	StorageManagerVersion      int32 = 1
	StoreManagerVersion        int32 = 1
	VoiceManagerVersion        int32 = 1
	AchievementManagerVersion  int32 = 1
)

// Fixed text buffers shared by several native calls.
type (
	MetadataKey   [limits.MetadataKey]byte
	MetadataValue [limits.MetadataValue]byte
	LobbySecret   [limits.LobbySecret]byte
)

// The types below mirror the native structures byte for byte. Go lays out
// these field types with the same alignment and padding as the C compiler
// on the supported 64-bit targets, so the native layer may write them
// through out-pointers.

// User mirrors DiscordUser.
type User struct {
	ID            int64
	Username      [limits.Username]byte
	Discriminator [limits.Discriminator]byte
	Avatar        [limits.Hash]byte
	Bot           bool
}

// Lobby mirrors DiscordLobby.
type Lobby struct {
	ID       int64
	Type     int32
	OwnerID  int64
	Secret   LobbySecret
	Capacity uint32
	Locked   bool
}

// ActivityTimestamps mirrors DiscordActivityTimestamps.
type ActivityTimestamps struct {
	Start int64
	End   int64
}

// ActivityAssets mirrors DiscordActivityAssets.
type ActivityAssets struct {
	LargeImage [limits.ActivityText]byte
	LargeText  [limits.ActivityText]byte
	SmallImage [limits.ActivityText]byte
	SmallText  [limits.ActivityText]byte
}

// PartySize mirrors DiscordPartySize.
type PartySize struct {
	CurrentSize int32
	MaxSize     int32
}

// ActivityParty mirrors DiscordActivityParty.
type ActivityParty struct {
	ID   [limits.ActivityText]byte
	Size PartySize
}

// ActivitySecrets mirrors DiscordActivitySecrets.
type ActivitySecrets struct {
	Match    [limits.ActivityText]byte
	Join     [limits.ActivityText]byte
	Spectate [limits.ActivityText]byte
}

// Activity mirrors DiscordActivity.
type Activity struct {
	Type          int32
	ApplicationID int64
	Name          [limits.ActivityText]byte
	State         [limits.ActivityText]byte
	Details       [limits.ActivityText]byte
	Timestamps    ActivityTimestamps
	Assets        ActivityAssets
	Party         ActivityParty
	Secrets       ActivitySecrets
	Instance      bool
}

// Presence mirrors DiscordPresence.
type Presence struct {
	Status   int32
	Activity Activity
}

// Relationship mirrors DiscordRelationship.
type Relationship struct {
	Type     int32
	User     User
	Presence Presence
}

// SkuPrice mirrors DiscordSkuPrice.
type SkuPrice struct {
	Amount   uint32
	Currency [limits.Currency]byte
}

// Sku mirrors DiscordSku.
type Sku struct {
	ID    int64
	Type  int32
	Name  [limits.SkuName]byte
	Price SkuPrice
}

// Entitlement mirrors DiscordEntitlement.
type Entitlement struct {
	ID    int64
	Type  int32
	SkuID int64
}

// UserAchievement mirrors DiscordUserAchievement.
type UserAchievement struct {
	UserID          int64
	AchievementID   int64
	PercentComplete uint8
	UnlockedAt      [limits.DateTime]byte
}
