// Package main implements sdkfetch, which downloads a Discord Game SDK
// release and unpacks the parts the binding needs.
//
// # Usage
//
//	go run ./cmd/sdkfetch 2.5.6 --out sdk
//
// The archive is fetched from <base-url>/<version>/discord_game_sdk.zip.
// Only the 64-bit libraries (lib/x86_64 and lib/aarch64) and the C header
// are extracted. The Unix libraries are renamed to libdiscord_game_sdk.so
// and libdiscord_game_sdk.dylib so the system loader finds them.
//
// # Options
//
//   - --out, -o: extraction directory, cleared first (default: sdk)
//   - --base-url: download server
//   - --blake2b: expected hex BLAKE2b-256 of the archive
//   - --timeout: overall download timeout (default: 2m)
//   - --log-level: debug, info, warn or error (default: info)
//
// Point GAMESDK_LIBRARY_PATH at the extracted library, or copy it next to
// the executable, for the binding to load it.
package main
