package limits

import (
	"bytes"
	"errors"
	"testing"
)

func TestValidateCapacity(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		capacity int
		wantErr  error
	}{
		{"empty fits", 0, 1, nil},
		{"exact fit leaves room for terminator", 127, LobbySecret, nil},
		{"terminator does not fit", 128, LobbySecret, ErrTextTooLarge},
		{"far too large", 5000, MetadataValue, ErrTextTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCapacity(bytes.Repeat([]byte{'a'}, tt.size), tt.capacity)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCapacity() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMetadataKey(t *testing.T) {
	if err := ValidateMetadataKey(nil); !errors.Is(err, ErrTextEmpty) {
		t.Errorf("expected ErrTextEmpty, got %v", err)
	}
	if err := ValidateMetadataKey([]byte("level")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateMetadataKey(bytes.Repeat([]byte{'k'}, MetadataKey-1)); err != nil {
		t.Errorf("key of %d bytes should fit: %v", MetadataKey-1, err)
	}
	err := ValidateMetadataKey(bytes.Repeat([]byte{'k'}, MetadataKey))
	if !errors.Is(err, ErrTextTooLarge) {
		t.Errorf("expected ErrTextTooLarge, got %v", err)
	}
}

func TestValidateMetadataValue(t *testing.T) {
	if err := ValidateMetadataValue(nil); err != nil {
		t.Errorf("empty values are allowed, got %v", err)
	}
	err := ValidateMetadataValue(make([]byte, MetadataValue))
	if !errors.Is(err, ErrTextTooLarge) {
		t.Errorf("expected ErrTextTooLarge, got %v", err)
	}
}

func TestValidateLobbySecret(t *testing.T) {
	if err := ValidateLobbySecret([]byte("")); !errors.Is(err, ErrTextEmpty) {
		t.Errorf("expected ErrTextEmpty, got %v", err)
	}
	if err := ValidateLobbySecret([]byte("123:abcdef")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
