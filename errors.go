package gamesdk

import (
	"errors"

	"github.com/opd-ai/gamesdk/status"
)

var (
	// ErrClosed is returned by every method after Close.
	ErrClosed = errors.New("discord instance closed")

	// ErrTransactionConsumed is returned when a transaction is submitted twice.
	ErrTransactionConsumed = errors.New("transaction already consumed")

	// ErrInvalidPercent is returned for achievement progress above 100.
	ErrInvalidPercent = errors.New("percent complete out of range")
)

// Native result kinds, matched with errors.Is. The concrete error is a
// *status.Error carrying the native code.
var (
	ErrNotFound         = status.ErrNotFound
	ErrNotRunning       = status.ErrNotRunning
	ErrTransient        = status.ErrTransient
	ErrInvalidParameter = status.ErrInvalidParameter
	ErrPermission       = status.ErrPermission
	ErrConflict         = status.ErrConflict
	ErrCancelled        = status.ErrCancelled
)

// resultError maps a native result to an error annotated with op.
func resultError(op string, code status.Code) error {
	if code == status.Ok {
		return nil
	}
	return &OpError{Op: op, Err: status.ToError(code)}
}

// OpError records the facade operation a native failure came from.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}
