// Package limits provides centralized buffer capacities for the native Game SDK
// structures and validation helpers built on them.
//
// # Buffer Capacities
//
// The native library exchanges text through fixed-size char arrays. Each
// constant is the full array size, terminator included:
//
//   - MetadataKey (256 bytes): lobby and member metadata keys.
//
//   - MetadataValue (4096 bytes): lobby and member metadata values.
//
//   - LobbySecret (128 bytes): the secret handed out with a lobby and used to
//     connect to it.
//
//   - Username, Discriminator, Hash, SkuName, Currency, ActivityText, Locale
//     and DateTime: the remaining text fields of the mirrored structures.
//
// # Validation Functions
//
// The binding does not validate caller input against these limits before a
// native call; overlong text is rejected by the native library itself. The
// validators are used where Go code has to write into a fixed array, such
// as the simulated backend:
//
//	if err := limits.ValidateMetadataKey(key); err != nil {
//	    // Handle validation error (ErrTextEmpty or ErrTextTooLarge)
//	}
//
// For other buffers use the generic ValidateCapacity function:
//
//	err := limits.ValidateCapacity(name, limits.SkuName)
//
// # Error Types
//
//   - ErrTextEmpty: Returned when a required text value is empty
//   - ErrTextTooLarge: Returned when the terminated text exceeds its buffer
package limits
