package bridge

import (
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/status"
)

// The trampolines are the only entry points the native layer uses. They
// take the callback data exactly as the native library passed it back.

// ResultTrampoline completes a one-shot registration whose native callback
// carries only a result.
func ResultTrampoline(data uintptr, result status.Code) {
	ValueTrampoline(data, result, 0)
}

// ValueTrampoline completes a one-shot registration whose native callback
// carries a result and a payload pointer.
func ValueTrampoline(data uintptr, result status.Code, value uintptr) {
	tok := Token(data)
	r := lookup(tok)
	if r == nil {
		logOrphan(tok, "unknown registry")
		return
	}
	e := r.take(tok, shapeCompletion)
	if e == nil {
		return
	}
	r.complete(tok, e, status.ToError(result), value)
}

// FilterTrampoline runs a many-shot predicate. Dropped calls report false.
func FilterTrampoline(data uintptr, value uintptr) bool {
	tok := Token(data)
	r := lookup(tok)
	if r == nil {
		logOrphan(tok, "unknown registry")
		return false
	}
	e := r.take(tok, shapeFilter)
	if e == nil {
		return false
	}
	return r.runFilter(tok, e, value)
}

// EventTrampoline delivers a native event or log message to an event sink.
// args are only valid for the duration of the call.
func EventTrampoline(data uintptr, kind interfaces.EventKind, args ...uintptr) {
	tok := Token(data)
	r := lookup(tok)
	if r == nil {
		logOrphan(tok, "unknown registry")
		return
	}
	e := r.take(tok, shapeEvent)
	if e == nil {
		return
	}
	r.dispatch(tok, e, kind, args)
}
