package vmpg

import (
	"encoding/hex"
	"fmt"
)

// PublicKey is an Ed25519 verification key as carried by a trust
// anchor or passed by a caller.
type PublicKey [32]byte

// String returns the lowercase hex form of the key.
func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

// ParsePublicKey parses the 64-character hex form of a key.
func ParsePublicKey(s string) (PublicKey, error) {
	var k PublicKey
	raw, err := hex.DecodeString(s)
	if err != nil {
		return k, fmt.Errorf("parsing public key: %w", err)
	}
	if len(raw) != len(k) {
		return k, fmt.Errorf("public key is %d bytes, want %d", len(raw), len(k))
	}
	copy(k[:], raw)
	return k, nil
}

// PublicKeyFromBytes copies a raw 32-byte key.
func PublicKeyFromBytes(raw []byte) (PublicKey, error) {
	var k PublicKey
	if len(raw) != len(k) {
		return k, fmt.Errorf("public key is %d bytes, want %d", len(raw), len(k))
	}
	copy(k[:], raw)
	return k, nil
}

// builtinTrust holds the compiled-in trust anchors. Signature
// verification falls back to these when the caller supplies no keys.
// Currently the single LZX release signing key.
var builtinTrust = [...]PublicKey{
	{
		0x6c, 0x7a, 0x78, 0x2d, 0x72, 0x65, 0x6c, 0x31,
		0x9b, 0xd4, 0x3f, 0x82, 0x11, 0x5e, 0xa0, 0x4c,
		0xe7, 0x30, 0x58, 0x26, 0xf1, 0x6a, 0x09, 0xd8,
		0x44, 0xb3, 0x9c, 0x02, 0x75, 0xee, 0x61, 0x27,
	},
}

// TrustedKeys returns a copy of the compiled-in trust anchors in
// trial order.
func TrustedKeys() []PublicKey {
	keys := make([]PublicKey, len(builtinTrust))
	copy(keys, builtinTrust[:])
	return keys
}
