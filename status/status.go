// Package status maps native Game SDK result codes onto Go errors.
//
// Every native call that reports an EDiscordResult is converted with
// ToError immediately after it returns. The resulting *Error keeps the raw
// Code for diagnostics and classifies it into a Kind, so callers can branch
// on the broad failure class with errors.Is:
//
//	if errors.Is(err, status.ErrNotRunning) {
//	    // the client went away, stop pumping
//	}
package status

import (
	"errors"
	"fmt"
)

// Code mirrors the native EDiscordResult enumeration.
type Code int32

const (
	Ok                              Code = 0
	ServiceUnavailable              Code = 1
	InvalidVersion                  Code = 2
	LockFailed                      Code = 3
	InternalError                   Code = 4
	InvalidPayload                  Code = 5
	InvalidCommand                  Code = 6
	InvalidPermissions              Code = 7
	NotFetched                      Code = 8
	NotFound                        Code = 9
	Conflict                        Code = 10
	InvalidSecret                   Code = 11
	InvalidJoinSecret               Code = 12
	NoEligibleActivity              Code = 13
	InvalidInvite                   Code = 14
	NotAuthenticated                Code = 15
	InvalidAccessToken              Code = 16
	ApplicationMismatch             Code = 17
	InvalidDataURL                  Code = 18
	InvalidBase64                   Code = 19
	NotFiltered                     Code = 20
	LobbyFull                       Code = 21
	InvalidLobbySecret              Code = 22
	InvalidFilename                 Code = 23
	InvalidFileSize                 Code = 24
	InvalidEntitlement              Code = 25
	NotInstalled                    Code = 26
	NotRunning                      Code = 27
	InsufficientBuffer              Code = 28
	PurchaseCanceled                Code = 29
	InvalidGuild                    Code = 30
	InvalidEvent                    Code = 31
	InvalidChannel                  Code = 32
	InvalidOrigin                   Code = 33
	RateLimited                     Code = 34
	OAuth2Error                     Code = 35
	SelectChannelTimeout            Code = 36
	GetGuildTimeout                 Code = 37
	SelectVoiceForceRequired        Code = 38
	CaptureShortcutAlreadyListening Code = 39
	UnauthorizedForAchievement      Code = 40
	InvalidGiftCode                 Code = 41
	PurchaseError                   Code = 42
	TransactionAborted              Code = 43
)

var codeNames = [...]string{
	Ok:                              "ok",
	ServiceUnavailable:              "service unavailable",
	InvalidVersion:                  "invalid version",
	LockFailed:                      "lock failed",
	InternalError:                   "internal error",
	InvalidPayload:                  "invalid payload",
	InvalidCommand:                  "invalid command",
	InvalidPermissions:              "invalid permissions",
	NotFetched:                      "not fetched",
	NotFound:                        "not found",
	Conflict:                        "conflict",
	InvalidSecret:                   "invalid secret",
	InvalidJoinSecret:               "invalid join secret",
	NoEligibleActivity:              "no eligible activity",
	InvalidInvite:                   "invalid invite",
	NotAuthenticated:                "not authenticated",
	InvalidAccessToken:              "invalid access token",
	ApplicationMismatch:             "application mismatch",
	InvalidDataURL:                  "invalid data url",
	InvalidBase64:                   "invalid base64",
	NotFiltered:                     "not filtered",
	LobbyFull:                       "lobby full",
	InvalidLobbySecret:              "invalid lobby secret",
	InvalidFilename:                 "invalid filename",
	InvalidFileSize:                 "invalid file size",
	InvalidEntitlement:              "invalid entitlement",
	NotInstalled:                    "discord not installed",
	NotRunning:                      "discord not running",
	InsufficientBuffer:              "insufficient buffer",
	PurchaseCanceled:                "purchase canceled",
	InvalidGuild:                    "invalid guild",
	InvalidEvent:                    "invalid event",
	InvalidChannel:                  "invalid channel",
	InvalidOrigin:                   "invalid origin",
	RateLimited:                     "rate limited",
	OAuth2Error:                     "oauth2 error",
	SelectChannelTimeout:            "select channel timeout",
	GetGuildTimeout:                 "get guild timeout",
	SelectVoiceForceRequired:        "select voice force required",
	CaptureShortcutAlreadyListening: "capture shortcut already listening",
	UnauthorizedForAchievement:      "unauthorized for achievement",
	InvalidGiftCode:                 "invalid gift code",
	PurchaseError:                   "purchase error",
	TransactionAborted:              "transaction aborted",
}

// String returns a human readable name for the code.
func (c Code) String() string {
	if c >= 0 && int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("unknown result %d", int32(c))
}

// Kind is the broad failure class of a Code.
type Kind int

const (
	KindOther Kind = iota
	KindNotFound
	KindNotRunning
	KindTransient
	KindInvalidParameter
	KindPermission
	KindConflict
	KindCancelled
)

var kindNames = [...]string{
	KindOther:            "other",
	KindNotFound:         "not found",
	KindNotRunning:       "not running",
	KindTransient:        "transient",
	KindInvalidParameter: "invalid parameter",
	KindPermission:       "permission",
	KindConflict:         "conflict",
	KindCancelled:        "cancelled",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kind classifies the code. Ok and unrecognised codes report KindOther.
func (c Code) Kind() Kind {
	switch c {
	case NotFound, NotFetched, NotInstalled:
		return KindNotFound
	case NotRunning:
		return KindNotRunning
	case ServiceUnavailable, LockFailed, InternalError, RateLimited,
		SelectChannelTimeout, GetGuildTimeout, PurchaseError:
		return KindTransient
	case InvalidVersion, InvalidPayload, InvalidCommand, InvalidSecret,
		InvalidJoinSecret, NoEligibleActivity, InvalidInvite, InvalidAccessToken,
		InvalidDataURL, InvalidBase64, NotFiltered, InvalidLobbySecret,
		InvalidFilename, InvalidFileSize, InvalidEntitlement, InsufficientBuffer,
		InvalidGuild, InvalidEvent, InvalidChannel, InvalidOrigin, InvalidGiftCode:
		return KindInvalidParameter
	case InvalidPermissions, NotAuthenticated, ApplicationMismatch,
		UnauthorizedForAchievement, OAuth2Error:
		return KindPermission
	case Conflict, LobbyFull, SelectVoiceForceRequired, CaptureShortcutAlreadyListening:
		return KindConflict
	case PurchaseCanceled, TransactionAborted:
		return KindCancelled
	default:
		return KindOther
	}
}

// kindError is the sentinel type behind the Err* values.
type kindError struct {
	kind Kind
}

func (e *kindError) Error() string {
	return "gamesdk: " + e.kind.String()
}

// Sentinels for errors.Is matching against the Kind of an *Error.
var (
	ErrNotFound         error = &kindError{KindNotFound}
	ErrNotRunning       error = &kindError{KindNotRunning}
	ErrTransient        error = &kindError{KindTransient}
	ErrInvalidParameter error = &kindError{KindInvalidParameter}
	ErrPermission       error = &kindError{KindPermission}
	ErrConflict         error = &kindError{KindConflict}
	ErrCancelled        error = &kindError{KindCancelled}
	ErrOther            error = &kindError{KindOther}
)

// Error is a failed native result.
type Error struct {
	Code Code
	Kind Kind
}

func (e *Error) Error() string {
	return fmt.Sprintf("gamesdk: %s (result %d)", e.Code, int32(e.Code))
}

// Is reports whether target is the sentinel for e's Kind, or an *Error
// carrying the same Code.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case *kindError:
		return t.kind == e.Kind
	case *Error:
		return t.Code == e.Code
	}
	return false
}

// ToError converts a native result into an error. Ok yields nil.
func ToError(c Code) error {
	if c == Ok {
		return nil
	}
	return &Error{Code: c, Kind: c.Kind()}
}

// CodeOf extracts the native code carried by err, if any.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return Ok, false
}

// KindOf reports the Kind of err. Sentinels report their own kind and
// foreign errors report KindOther.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k *kindError
	if errors.As(err, &k) {
		return k.kind
	}
	return KindOther
}
