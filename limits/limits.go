// Package limits provides the fixed buffer capacities of the native Game SDK.
// Every capacity includes the NUL terminator.
package limits

import (
	"errors"
	"fmt"
)

const (
	// MetadataKey is the capacity of DiscordMetadataKey
	MetadataKey = 256

	// MetadataValue is the capacity of DiscordMetadataValue
	MetadataValue = 4096

	// LobbySecret is the capacity of DiscordLobbySecret
	LobbySecret = 128

	// Locale is the capacity of DiscordLocale
	Locale = 128

	// DateTime is the capacity of DiscordDateTime, used for achievement unlock times
	DateTime = 64

	// Username is the capacity of DiscordUser.username
	Username = 256

	// Discriminator is the capacity of DiscordUser.discriminator
	Discriminator = 8

	// Hash is the capacity of image hashes such as DiscordUser.avatar
	Hash = 128

	// SkuName is the capacity of DiscordSku.name
	SkuName = 256

	// Currency is the capacity of DiscordSkuPrice.currency
	Currency = 16

	// ActivityText is the capacity of every free-text field of DiscordActivity
	ActivityText = 128

	// MaxPercentComplete is the upper bound accepted for achievement progress
	MaxPercentComplete = 100
)

var (
	// ErrTextEmpty indicates an empty text value was provided where one is required
	ErrTextEmpty = errors.New("empty text")

	// ErrTextTooLarge indicates the terminated text does not fit its buffer
	ErrTextTooLarge = errors.New("text too large")
)

// ValidateCapacity checks that text plus its terminator fits a buffer of
// the given capacity. text must not already carry the terminator.
func ValidateCapacity(text []byte, capacity int) error {
	if len(text)+1 > capacity {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrTextTooLarge, len(text)+1, capacity)
	}
	return nil
}

// ValidateMetadataKey validates a metadata key against MetadataKey.
// Returns an error with context if the key is empty or exceeds the limit.
func ValidateMetadataKey(key []byte) error {
	if len(key) == 0 {
		return ErrTextEmpty
	}
	if len(key)+1 > MetadataKey {
		return fmt.Errorf("%w: metadata key size %d exceeds limit %d", ErrTextTooLarge, len(key)+1, MetadataKey)
	}
	return nil
}

// ValidateMetadataValue validates a metadata value against MetadataValue.
// Empty values are allowed.
func ValidateMetadataValue(value []byte) error {
	if len(value)+1 > MetadataValue {
		return fmt.Errorf("%w: metadata value size %d exceeds limit %d", ErrTextTooLarge, len(value)+1, MetadataValue)
	}
	return nil
}

// ValidateLobbySecret validates a lobby secret against LobbySecret.
func ValidateLobbySecret(secret []byte) error {
	if len(secret) == 0 {
		return ErrTextEmpty
	}
	if len(secret)+1 > LobbySecret {
		return fmt.Errorf("%w: lobby secret size %d exceeds limit %d", ErrTextTooLarge, len(secret)+1, LobbySecret)
	}
	return nil
}
