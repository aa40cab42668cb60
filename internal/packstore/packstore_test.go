package packstore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lzxindustries/videomancer-sdk-sub001/internal/packhash"
	"github.com/lzxindustries/videomancer-sdk-sub001/pkg/vmpg"
)

func testConfig(t *testing.T, id, name string) *vmpg.ProgramConfig {
	t.Helper()
	var c vmpg.ProgramConfig
	copy(c.ID[:], id)
	copy(c.Name[:], name)
	c.VerMajor, c.VerMinor, c.VerPatch = 1, 0, 0
	c.ABIMinMajor, c.ABIMinMinor = 1, 0
	c.ABIMaxMajor, c.ABIMaxMinor = 2, 0
	c.HWMask = uint32(vmpg.HWRevA)
	c.CoreID = uint32(vmpg.CoreECP5U45)
	return &c
}

func writePackage(t *testing.T, dir, file, id string, sign bool) (path string, pub []byte) {
	t.Helper()
	b := vmpg.NewBuilder()
	if err := b.SetConfig(testConfig(t, id, "Test "+id)); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if err := b.AddArtifact(vmpg.EntryBitstreamSDA, bytes.Repeat([]byte{0x5A}, 256)); err != nil {
		t.Fatalf("AddArtifact: %v", err)
	}
	if sign {
		var priv []byte
		var err error
		pub, priv, err = packhash.GenerateKey()
		if err != nil {
			t.Fatalf("GenerateKey: %v", err)
		}
		if err := b.Sign(priv); err != nil {
			t.Fatalf("Sign: %v", err)
		}
	}
	path = filepath.Join(dir, file)
	if err := b.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path, pub
}

func TestScanIndexesValidSkipsInvalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePackage(t, dir, "keyer.vmpg", "lzx.keyer", false)
	writePackage(t, dir, "mixer.vmpg", "lzx.mixer", false)

	// A corrupt package: one flipped payload byte.
	corrupt, _ := writePackage(t, dir, "broken.vmpg", "lzx.broken", false)
	data, err := os.ReadFile(corrupt)
	if err != nil {
		t.Fatalf("reading corrupt fixture: %v", err)
	}
	data[len(data)-1] ^= 0xFF
	if err := os.WriteFile(corrupt, data, 0o644); err != nil {
		t.Fatalf("rewriting corrupt fixture: %v", err)
	}

	// Junk that is not a package at all, and a file Scan must ignore.
	if err := os.WriteFile(filepath.Join(dir, "junk.vmpg"), []byte("not a package"), 0o644); err != nil {
		t.Fatalf("writing junk: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("writing notes: %v", err)
	}

	c, err := Scan(dir, Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got := len(c.Packages()); got != 2 {
		t.Fatalf("indexed %d packages, want 2: %+v", got, c.Packages())
	}
	if got := len(c.Failures()); got != 2 {
		t.Fatalf("recorded %d failures, want 2: %+v", got, c.Failures())
	}

	pkg, ok := c.ByID("lzx.keyer")
	if !ok {
		t.Fatal("lzx.keyer not indexed")
	}
	if pkg.Name != "Test lzx.keyer" || pkg.Version != "1.0.0" || pkg.Signed {
		t.Fatalf("unexpected entry: %+v", pkg)
	}
	if len(pkg.Artifacts) != 1 || pkg.Artifacts[0] != "bitstream_sd_analog" {
		t.Fatalf("artifacts %v", pkg.Artifacts)
	}

	// Deterministic order by program id.
	if c.Packages()[0].ProgramID != "lzx.keyer" || c.Packages()[1].ProgramID != "lzx.mixer" {
		t.Fatalf("ordering: %+v", c.Packages())
	}
}

func TestScanSignedPackages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, pub := writePackage(t, dir, "signed.vmpg", "lzx.signed", true)
	writePackage(t, dir, "unsigned.vmpg", "lzx.unsigned", false)

	key, err := vmpg.PublicKeyFromBytes(pub)
	if err != nil {
		t.Fatalf("PublicKeyFromBytes: %v", err)
	}
	c, err := Scan(dir, Options{VerifySignature: true, TrustKeys: []vmpg.PublicKey{key}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(c.Packages()) != 1 || c.Packages()[0].ProgramID != "lzx.signed" {
		t.Fatalf("signed scan indexed %+v", c.Packages())
	}
	if len(c.Failures()) != 1 {
		t.Fatalf("unsigned package should fail a signature-required scan: %+v", c.Failures())
	}
}

func TestScanRejectsDuplicateProgramID(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePackage(t, dir, "a.vmpg", "lzx.same", false)
	writePackage(t, dir, "b.vmpg", "lzx.same", false)

	c, err := Scan(dir, Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(c.Packages()) != 1 || len(c.Failures()) != 1 {
		t.Fatalf("packages %d failures %d", len(c.Packages()), len(c.Failures()))
	}
}

func TestReadImageDetectsSwap(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, _ := writePackage(t, dir, "keyer.vmpg", "lzx.keyer", false)

	c, err := Scan(dir, Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	img, err := c.ReadImage("lzx.keyer")
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if len(img) == 0 {
		t.Fatal("empty image")
	}

	// Swap the file under the catalog.
	img[100] ^= 0x01
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatalf("swapping file: %v", err)
	}
	if _, err := c.ReadImage("lzx.keyer"); !errors.Is(err, ErrChanged) {
		t.Fatalf("swapped file served: %v", err)
	}

	if _, err := c.ReadImage("lzx.absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id: %v", err)
	}
}
