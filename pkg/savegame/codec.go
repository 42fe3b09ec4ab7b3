package savegame

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// DeriveKey builds the HMAC key from the static game secret and a
// device-specific identifier, binding save files to both
// tampering-detection and the originating device.
func DeriveKey(secret, deviceID string) []byte {
	sum := sha256.Sum256([]byte(secret + ":" + deviceID))
	return sum[:]
}

// Encode serializes a snapshot to the on-disk representation:
// base64(payload) "." base64(HMAC-SHA256(base64(payload), key)).
func Encode(snap *Snapshot, key []byte) ([]byte, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(payload)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(encoded))
	tag := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return []byte(encoded + "." + tag), nil
}

// Decode verifies and deserializes an on-disk save. The HMAC is recomputed
// over the encoded payload and compared in constant time before any
// decoding happens; a mismatch returns ErrIntegrity and nothing is
// partially applied.
func Decode(data []byte, key []byte) (*Snapshot, error) {
	encoded, tag, found := strings.Cut(string(data), ".")
	if !found {
		return nil, ErrMalformed
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(encoded))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(tag)) {
		return nil, ErrIntegrity
	}

	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &snap, nil
}
