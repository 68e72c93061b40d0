package gamesdk

import "strconv"

// Handles are plain integers on the native side. The newtypes keep user,
// lobby and application ids from being mixed up.
type (
	// UserID identifies a Discord user
	UserID int64

	// LobbyID identifies a lobby
	LobbyID int64

	// Snowflake identifies SKUs, entitlements and achievements
	Snowflake int64

	// ClientID is the application id passed to New
	ClientID int64
)

func (id UserID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id LobbyID) String() string   { return strconv.FormatInt(int64(id), 10) }
func (id Snowflake) String() string { return strconv.FormatInt(int64(id), 10) }
func (id ClientID) String() string  { return strconv.FormatInt(int64(id), 10) }

// NetworkChannelID identifies a lobby network channel.
type NetworkChannelID uint8
