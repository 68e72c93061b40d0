// Package textbuf converts between Go text and the NUL-terminated char arrays
// used by the native Game SDK.
//
// Writes always go through a private copy: Terminate never appends to the
// caller's backing array. Reads stop at the first terminator and never trust
// the full capacity of a buffer.
package textbuf

import (
	"bytes"
	"fmt"
	"unsafe"

	"github.com/opd-ai/gamesdk/limits"
)

// Terminator marks the end of text in a native buffer.
const Terminator byte = 0

// Terminate returns an owned, NUL-terminated copy of s. Text that already
// ends in a terminator is copied as is.
func Terminate(s string) []byte {
	if len(s) > 0 && s[len(s)-1] == Terminator {
		return []byte(s)
	}
	out := make([]byte, len(s)+1)
	copy(out, s)
	return out
}

// TerminateBytes is Terminate for byte slices. b is never modified, even when
// it has spare capacity.
func TerminateBytes(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == Terminator {
		return bytes.Clone(b)
	}
	out := make([]byte, len(b)+1)
	copy(out, b)
	return out
}

// IsTerminated reports whether b ends in exactly the terminator byte.
func IsTerminated(b []byte) bool {
	return len(b) > 0 && b[len(b)-1] == Terminator
}

// Trim drops a single trailing terminator, if present.
func Trim(s string) string {
	if len(s) > 0 && s[len(s)-1] == Terminator {
		return s[:len(s)-1]
	}
	return s
}

// Decode reads the text stored in a native buffer, stopping at the first
// terminator. A buffer without a terminator decodes in full.
func Decode(buf []byte) string {
	if i := bytes.IndexByte(buf, Terminator); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}

// Put writes s into the fixed buffer dst followed by a terminator and zeroes
// the rest of dst. It fails without touching dst when the text does not fit.
func Put(dst []byte, s string) error {
	s = Trim(s)
	if err := limits.ValidateCapacity([]byte(s), len(dst)); err != nil {
		return fmt.Errorf("put %q: %w", truncate(s), err)
	}
	n := copy(dst, s)
	clear(dst[n:])
	return nil
}

// FromPointer decodes a NUL-terminated string owned by the native layer,
// reading at most max bytes. A zero pointer decodes to the empty string.
// The memory must stay valid for the duration of the call.
func FromPointer(p uintptr, max int) string {
	if p == 0 {
		return ""
	}
	var n int
	for n < max && *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != Terminator {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}

// BytesFromPointer copies length bytes owned by the native layer.
func BytesFromPointer(p uintptr, length int) []byte {
	if p == 0 || length <= 0 {
		return nil
	}
	return bytes.Clone(unsafe.Slice((*byte)(unsafe.Pointer(p)), length))
}

func truncate(s string) string {
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}
