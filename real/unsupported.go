//go:build !((linux || darwin) && (amd64 || arm64))

package real

import (
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/sirupsen/logrus"
)

// NativeBackend reports ErrUnsupportedPlatform on this target.
type NativeBackend struct {
	config *interfaces.BackendConfig
}

// NewNativeBackend creates a backend whose Create always fails
func NewNativeBackend(config *interfaces.BackendConfig) *NativeBackend {
	logrus.WithFields(logrus.Fields{
		"function": "NewNativeBackend",
		"error":    ErrUnsupportedPlatform.Error(),
	}).Warn("Native game SDK backend unavailable")
	return &NativeBackend{config: config}
}

// Create implements IBackend.Create
func (b *NativeBackend) Create(version int32, params *interfaces.CreateParams) (interfaces.ICore, error) {
	return nil, ErrUnsupportedPlatform
}

// IsSimulation implements IBackend.IsSimulation
func (b *NativeBackend) IsSimulation() bool {
	return false
}
