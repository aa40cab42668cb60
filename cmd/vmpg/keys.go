package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/lzxindustries/videomancer-sdk-sub001/internal/packhash"
	"github.com/lzxindustries/videomancer-sdk-sub001/pkg/vmpg"
)

// Key files hold one hex-encoded key per file: <name>.key is the
// Ed25519 private key (mode 0600), <name>.pub the public key (0644).

func writeKeyFiles(prefix string, public, private []byte) error {
	privPath := prefix + ".key"
	pubPath := prefix + ".pub"
	if _, err := os.Stat(privPath); err == nil {
		return fmt.Errorf("refusing to overwrite %s", privPath)
	}
	if err := os.WriteFile(privPath, []byte(hex.EncodeToString(private)+"\n"), 0o600); err != nil {
		return err
	}
	if err := os.WriteFile(pubPath, []byte(hex.EncodeToString(public)+"\n"), 0o644); err != nil {
		return err
	}
	return nil
}

func readHexFile(path string, wantLen int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(raw) != wantLen {
		return nil, fmt.Errorf("%s: key is %d bytes, want %d", path, len(raw), wantLen)
	}
	return raw, nil
}

func readPrivateKey(path string) ([]byte, error) {
	return readHexFile(path, packhash.PrivateKeySize)
}

// readPublicKey accepts either a key file path or an inline hex key.
func readPublicKey(s string) (vmpg.PublicKey, error) {
	if _, err := os.Stat(s); err == nil {
		raw, err := readHexFile(s, packhash.PublicKeySize)
		if err != nil {
			return vmpg.PublicKey{}, err
		}
		return vmpg.PublicKeyFromBytes(raw)
	}
	return vmpg.ParsePublicKey(s)
}
