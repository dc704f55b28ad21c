package ledger

import (
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// ErrInvalidHashLength is returned when decoding a hash whose byte length does not match its type.
var ErrInvalidHashLength = errors.New("invalid hash length")

// Hash32 is a 32-byte blake2b-256 digest (transaction ids, datum hashes, script-data hashes).
type Hash32 [32]byte

// Hash28 is a 28-byte blake2b-224 digest (script hashes, key hashes).
type Hash28 [28]byte

// Blake2b256 hashes data with blake2b-256.
func Blake2b256(data []byte) Hash32 {
	return blake2b.Sum256(data)
}

// Blake2b224 hashes data with blake2b-224.
func Blake2b224(data []byte) Hash28 {
	// blake2b.New only fails for invalid sizes or keys longer than 64 bytes.
	h, _ := blake2b.New(28, nil)
	h.Write(data)

	var out Hash28
	copy(out[:], h.Sum(nil))
	return out
}

// String returns the lowercase hex encoding of the hash.
func (h Hash32) String() string {
	return hex.EncodeToString(h[:])
}

// MarshalText implements encoding.TextMarshaler so hashes render as hex in JSON.
func (h Hash32) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash32) UnmarshalText(text []byte) error {
	parsed, err := Hash32FromHex(string(text))
	if err != nil {
		return err
	}

	*h = parsed
	return nil
}

// Hash32FromHex decodes a 64-character hex string into a Hash32.
func Hash32FromHex(s string) (Hash32, error) {
	var h Hash32

	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid hash hex: %w", err)
	}

	if len(b) != len(h) {
		return h, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHashLength, len(h), len(b))
	}

	copy(h[:], b)
	return h, nil
}

// String returns the lowercase hex encoding of the hash.
func (h Hash28) String() string {
	return hex.EncodeToString(h[:])
}
