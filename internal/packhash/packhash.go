// Package packhash wraps the hash and signature primitives used by the
// VMPG package format behind a minimal contract: a 256-bit BLAKE3
// content hash (keyed and unkeyed, one-shot and incremental),
// constant-time digest comparison, and Ed25519 signatures.
//
// Everything above this package treats these as black boxes; swapping
// the primitives means changing this package only.
package packhash

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

const (
	// DigestSize is the byte length of every content hash.
	DigestSize = 32

	// SignatureSize is the byte length of a detached signature.
	SignatureSize = ed25519.SignatureSize // 64

	// PublicKeySize is the byte length of a verification key.
	PublicKeySize = ed25519.PublicKeySize // 32

	// PrivateKeySize is the byte length of a signing key.
	PrivateKeySize = ed25519.PrivateKeySize // 64
)

// Sum computes the one-shot unkeyed digest of data.
func Sum(data []byte) [DigestSize]byte {
	return blake3.Sum256(data)
}

// Hasher computes a digest incrementally. The zero value is not usable;
// create one with New or NewKeyed.
type Hasher struct {
	h *blake3.Hasher
}

// New returns an incremental unkeyed hasher.
func New() *Hasher {
	return &Hasher{h: blake3.New()}
}

// NewKeyed returns an incremental hasher keyed with a 32-byte key.
func NewKeyed(key []byte) (*Hasher, error) {
	h, err := blake3.NewKeyed(key)
	if err != nil {
		return nil, fmt.Errorf("packhash: keyed hasher: %w", err)
	}
	return &Hasher{h: h}, nil
}

// Write absorbs more input. It never fails.
func (h *Hasher) Write(p []byte) (int, error) {
	return h.h.Write(p)
}

// Digest returns the digest of everything written so far. The hasher
// remains usable for further writes.
func (h *Hasher) Digest() [DigestSize]byte {
	var out [DigestSize]byte
	copy(out[:], h.h.Sum(nil))
	return out
}

// Reset returns the hasher to its initial state, preserving the key.
func (h *Hasher) Reset() {
	h.h.Reset()
}

// Equal compares two digests in constant time. All hash and key
// comparisons in package verification go through this.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Verify reports whether sig is a valid signature over message under
// the given public key. Malformed keys or signatures report false
// rather than failing.
func Verify(public, message, sig []byte) bool {
	if len(public) != PublicKeySize || len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(public), message, sig)
}

// Sign signs message with an Ed25519 private key.
func Sign(private, message []byte) ([]byte, error) {
	if len(private) != PrivateKeySize {
		return nil, fmt.Errorf("packhash: private key is %d bytes, want %d", len(private), PrivateKeySize)
	}
	return ed25519.Sign(ed25519.PrivateKey(private), message), nil
}

// GenerateKey creates a fresh Ed25519 keypair for package signing.
func GenerateKey() (public, private []byte, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("packhash: generating keypair: %w", err)
	}
	return pub, priv, nil
}

// FormatDigest returns the canonical hex form of a digest, as printed
// in CLI output and repository indexes.
func FormatDigest(d [DigestSize]byte) string {
	return hex.EncodeToString(d[:])
}

// ParseDigest parses the 64-character hex form produced by FormatDigest.
func ParseDigest(s string) ([DigestSize]byte, error) {
	var d [DigestSize]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("packhash: parsing digest: %w", err)
	}
	if len(raw) != DigestSize {
		return d, fmt.Errorf("packhash: digest is %d bytes, want %d", len(raw), DigestSize)
	}
	copy(d[:], raw)
	return d, nil
}
