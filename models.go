package gamesdk

import (
	"time"
	"unsafe"

	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/textbuf"
)

// User is a Discord user.
type User struct {
	ID            UserID
	Username      string
	Discriminator string
	Avatar        string
	Bot           bool
}

// Lobby is a snapshot of a lobby's properties.
type Lobby struct {
	ID       LobbyID
	Kind     LobbyKind
	OwnerID  UserID
	Secret   string
	Capacity uint32
	Locked   bool
}

// Activity is the rich presence of a user.
type Activity struct {
	Kind          ActivityKind
	ApplicationID Snowflake
	Name          string
	State         string
	Details       string
	Start         int64
	End           int64
	LargeImage    string
	LargeText     string
	SmallImage    string
	SmallText     string
	PartyID       string
	PartySize     int32
	PartyMax      int32
	MatchSecret   string
	JoinSecret    string
	Spectate      string
	Instance      bool
}

// Presence is the status and activity of a user.
type Presence struct {
	Status   Status
	Activity Activity
}

// Relationship pairs a user with how they relate to the current user.
type Relationship struct {
	Kind     RelationshipKind
	User     User
	Presence Presence
}

// SkuPrice is the price of a SKU in the smallest currency unit.
type SkuPrice struct {
	Amount   uint32
	Currency string
}

// Sku is a purchasable product.
type Sku struct {
	ID    Snowflake
	Kind  SkuKind
	Name  string
	Price SkuPrice
}

// Entitlement grants the current user a SKU.
type Entitlement struct {
	ID    Snowflake
	Kind  EntitlementKind
	SkuID Snowflake
}

// UserAchievement is the current user's progress on one achievement.
type UserAchievement struct {
	UserID          UserID
	AchievementID   Snowflake
	PercentComplete uint8
	// UnlockedAt is the RFC 3339 unlock time, empty while locked
	UnlockedAt string
}

// Unlocked reports whether the achievement has been unlocked.
func (a UserAchievement) Unlocked() bool {
	return a.UnlockedAt != ""
}

// UnlockedTime parses UnlockedAt. The zero time is returned while locked.
func (a UserAchievement) UnlockedTime() (time.Time, error) {
	if a.UnlockedAt == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, a.UnlockedAt)
}

// at reinterprets a native pointer that is valid for the duration of the
// current callback.
func at[T any](p uintptr) *T {
	return (*T)(unsafe.Pointer(p))
}

func userFromNative(u *interfaces.User) User {
	return User{
		ID:            UserID(u.ID),
		Username:      textbuf.Decode(u.Username[:]),
		Discriminator: textbuf.Decode(u.Discriminator[:]),
		Avatar:        textbuf.Decode(u.Avatar[:]),
		Bot:           u.Bot,
	}
}

func lobbyFromNative(l *interfaces.Lobby) Lobby {
	return Lobby{
		ID:       LobbyID(l.ID),
		Kind:     LobbyKind(l.Type),
		OwnerID:  UserID(l.OwnerID),
		Secret:   textbuf.Decode(l.Secret[:]),
		Capacity: l.Capacity,
		Locked:   l.Locked,
	}
}

func activityFromNative(a *interfaces.Activity) Activity {
	return Activity{
		Kind:          ActivityKind(a.Type),
		ApplicationID: Snowflake(a.ApplicationID),
		Name:          textbuf.Decode(a.Name[:]),
		State:         textbuf.Decode(a.State[:]),
		Details:       textbuf.Decode(a.Details[:]),
		Start:         a.Timestamps.Start,
		End:           a.Timestamps.End,
		LargeImage:    textbuf.Decode(a.Assets.LargeImage[:]),
		LargeText:     textbuf.Decode(a.Assets.LargeText[:]),
		SmallImage:    textbuf.Decode(a.Assets.SmallImage[:]),
		SmallText:     textbuf.Decode(a.Assets.SmallText[:]),
		PartyID:       textbuf.Decode(a.Party.ID[:]),
		PartySize:     a.Party.Size.CurrentSize,
		PartyMax:      a.Party.Size.MaxSize,
		MatchSecret:   textbuf.Decode(a.Secrets.Match[:]),
		JoinSecret:    textbuf.Decode(a.Secrets.Join[:]),
		Spectate:      textbuf.Decode(a.Secrets.Spectate[:]),
		Instance:      a.Instance,
	}
}

func relationshipFromNative(r *interfaces.Relationship) Relationship {
	return Relationship{
		Kind: RelationshipKind(r.Type),
		User: userFromNative(&r.User),
		Presence: Presence{
			Status:   Status(r.Presence.Status),
			Activity: activityFromNative(&r.Presence.Activity),
		},
	}
}

func skuFromNative(s *interfaces.Sku) Sku {
	return Sku{
		ID:   Snowflake(s.ID),
		Kind: SkuKind(s.Type),
		Name: textbuf.Decode(s.Name[:]),
		Price: SkuPrice{
			Amount:   s.Price.Amount,
			Currency: textbuf.Decode(s.Price.Currency[:]),
		},
	}
}

func entitlementFromNative(e *interfaces.Entitlement) Entitlement {
	return Entitlement{
		ID:    Snowflake(e.ID),
		Kind:  EntitlementKind(e.Type),
		SkuID: Snowflake(e.SkuID),
	}
}

func achievementFromNative(a *interfaces.UserAchievement) UserAchievement {
	return UserAchievement{
		UserID:          UserID(a.UserID),
		AchievementID:   Snowflake(a.AchievementID),
		PercentComplete: a.PercentComplete,
		UnlockedAt:      textbuf.Decode(a.UnlockedAt[:]),
	}
}
