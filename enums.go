package gamesdk

import "fmt"

// LogLevel is the severity of a native log message.
type LogLevel int32

const (
	LogLevelError LogLevel = iota + 1
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	}
	return fmt.Sprintf("LogLevel(%d)", int32(l))
}

// CreateFlags control core creation.
type CreateFlags uint64

const (
	// CreateFlagsDefault requires a running Discord client
	CreateFlagsDefault CreateFlags = 0
	// CreateFlagsNoRequireDiscord lets creation succeed without a client
	CreateFlagsNoRequireDiscord CreateFlags = 1
)

// LobbyKind is the visibility of a lobby.
type LobbyKind int32

const (
	LobbyKindPrivate LobbyKind = iota + 1
	LobbyKindPublic
)

func (k LobbyKind) String() string {
	switch k {
	case LobbyKindPrivate:
		return "private"
	case LobbyKindPublic:
		return "public"
	}
	return fmt.Sprintf("LobbyKind(%d)", int32(k))
}

// Comparison is the operator of a lobby search filter. The stored value is
// on the left: ComparisonLessThan matches lobbies whose value is below the
// filter value.
type Comparison int32

const (
	ComparisonLessThanOrEqual    Comparison = -2
	ComparisonLessThan           Comparison = -1
	ComparisonEqual              Comparison = 0
	ComparisonGreaterThan        Comparison = 1
	ComparisonGreaterThanOrEqual Comparison = 2
	ComparisonNotEqual           Comparison = 3
)

// Cast selects how search values are compared.
type Cast int32

const (
	CastString Cast = iota + 1
	CastNumber
)

// Distance bounds a lobby search geographically.
type Distance int32

const (
	// DistanceLocal searches the same region only
	DistanceLocal Distance = iota
	// DistanceDefault searches the same and adjacent regions
	DistanceDefault
	// DistanceExtended searches far away regions
	DistanceExtended
	// DistanceGlobal searches everywhere
	DistanceGlobal
)

// PremiumKind is the Nitro tier of the current user.
type PremiumKind int32

const (
	PremiumKindNone PremiumKind = iota
	PremiumKindTier1
	PremiumKindTier2
)

// UserFlag is a bit of the current user's profile flags.
type UserFlag int32

const (
	UserFlagPartner         UserFlag = 2
	UserFlagHypeSquadEvents UserFlag = 4
	UserFlagHypeSquadHouse1 UserFlag = 64
	UserFlagHypeSquadHouse2 UserFlag = 128
	UserFlagHypeSquadHouse3 UserFlag = 256
)

// RelationshipKind describes how a user relates to the current user.
type RelationshipKind int32

const (
	RelationshipKindNone RelationshipKind = iota
	RelationshipKindFriend
	RelationshipKindBlocked
	RelationshipKindPendingIncoming
	RelationshipKindPendingOutgoing
	RelationshipKindImplicit
)

func (k RelationshipKind) String() string {
	switch k {
	case RelationshipKindNone:
		return "none"
	case RelationshipKindFriend:
		return "friend"
	case RelationshipKindBlocked:
		return "blocked"
	case RelationshipKindPendingIncoming:
		return "pending_incoming"
	case RelationshipKindPendingOutgoing:
		return "pending_outgoing"
	case RelationshipKindImplicit:
		return "implicit"
	}
	return fmt.Sprintf("RelationshipKind(%d)", int32(k))
}

// Status is the online status of a user.
type Status int32

const (
	StatusOffline Status = iota
	StatusOnline
	StatusIdle
	StatusDoNotDisturb
)

func (s Status) String() string {
	switch s {
	case StatusOffline:
		return "offline"
	case StatusOnline:
		return "online"
	case StatusIdle:
		return "idle"
	case StatusDoNotDisturb:
		return "dnd"
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// ActivityKind is the verb shown with an activity.
type ActivityKind int32

const (
	ActivityKindPlaying ActivityKind = iota
	ActivityKindStreaming
	ActivityKindListening
	ActivityKindWatching
)

// ActivityActionKind selects the invite overlay mode.
type ActivityActionKind int32

const (
	ActivityActionKindJoin ActivityActionKind = iota + 1
	ActivityActionKindSpectate
)

// SkuKind is the product category of a SKU.
type SkuKind int32

const (
	SkuKindApplication SkuKind = iota + 1
	SkuKindDLC
	SkuKindConsumable
	SkuKindBundle
)

// EntitlementKind is how an entitlement was granted.
type EntitlementKind int32

const (
	EntitlementKindPurchase EntitlementKind = iota + 1
	EntitlementKindPremiumSubscription
	EntitlementKindDeveloperGift
	EntitlementKindTestModePurchase
	EntitlementKindFreePurchase
	EntitlementKindUserGift
	EntitlementKindPremiumPurchase
)
