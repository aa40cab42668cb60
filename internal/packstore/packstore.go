// Package packstore maintains a catalog of verified VMPG packages
// found in a directory. Every package is fully verified at scan time;
// files that fail verification are recorded and skipped, never served.
package packstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lzxindustries/videomancer-sdk-sub001/internal/logger"
	"github.com/lzxindustries/videomancer-sdk-sub001/internal/packhash"
	"github.com/lzxindustries/videomancer-sdk-sub001/pkg/vmpg"
)

var (
	ErrNotFound = errors.New("packstore: package not found")
	ErrChanged  = errors.New("packstore: package changed on disk since scan")
)

// Options controls how much verification Scan applies. Payload hashes
// are always verified; signatures only when VerifySignature is set.
type Options struct {
	VerifySignature bool

	// TrustKeys are the signature trial keys. Empty means the
	// compiled-in trust anchors.
	TrustKeys []vmpg.PublicKey

	// Log receives per-file scan outcomes. Nil disables logging.
	Log logger.Logger
}

// Package is one verified package in the catalog.
type Package struct {
	Path     string
	FileSize int64
	Digest   [packhash.DigestSize]byte

	ProgramID string
	Name      string
	Version   string
	Category  string
	Core      string
	Hardware  []string
	Signed    bool
	Artifacts []string
}

// Failure records one file that did not make it into the catalog.
type Failure struct {
	Path string
	Err  error
}

// Catalog is an immutable index of the packages that passed
// verification, keyed by program id.
type Catalog struct {
	dir      string
	packages []Package
	byID     map[string]int
	failures []Failure
}

// Scan verifies every *.vmpg file in dir and indexes the valid ones by
// program id. Scan fails only when the directory itself cannot be
// read; per-file failures are collected, not fatal.
func Scan(dir string, opts Options) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("packstore: %w", err)
	}

	c := &Catalog{dir: dir, byID: make(map[string]int)}
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".vmpg") {
			continue
		}
		path := filepath.Join(dir, de.Name())
		pkg, err := inspect(path, opts)
		if err != nil {
			c.failures = append(c.failures, Failure{Path: path, Err: err})
			if opts.Log != nil {
				opts.Log.Warn("package rejected", "path", path, "error", err)
			}
			continue
		}
		if prev, dup := c.byID[pkg.ProgramID]; dup {
			err := fmt.Errorf("packstore: program id %q already provided by %s",
				pkg.ProgramID, c.packages[prev].Path)
			c.failures = append(c.failures, Failure{Path: path, Err: err})
			if opts.Log != nil {
				opts.Log.Warn("package rejected", "path", path, "error", err)
			}
			continue
		}
		c.packages = append(c.packages, *pkg)
		c.byID[pkg.ProgramID] = len(c.packages) - 1
		if opts.Log != nil {
			opts.Log.Info("package indexed",
				"id", pkg.ProgramID, "version", pkg.Version, "signed", pkg.Signed)
		}
	}

	sort.Slice(c.packages, func(i, j int) bool {
		return c.packages[i].ProgramID < c.packages[j].ProgramID
	})
	for i := range c.packages {
		c.byID[c.packages[i].ProgramID] = i
	}
	return c, nil
}

func inspect(path string, opts Options) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := vmpg.OpenBytes(data, vmpg.OpenOptions{
		VerifyHashes:    true,
		VerifySignature: opts.VerifySignature,
		TrustKeys:       opts.TrustKeys,
	})
	if err != nil {
		return nil, err
	}
	cfg, err := r.Config()
	if err != nil {
		return nil, err
	}

	pkg := &Package{
		Path:      path,
		FileSize:  int64(len(data)),
		Digest:    packhash.Sum(data),
		ProgramID: cfg.ProgramID(),
		Name:      cfg.ProgramName(),
		Version:   cfg.Version().String(),
		Category:  vmpg.CString(cfg.Category[:]),
		Core:      cfg.Core().String(),
		Hardware:  cfg.Hardware(),
		Signed:    r.IsSigned(),
	}
	for _, e := range r.Entries() {
		if e.Type.IsBitstream() {
			pkg.Artifacts = append(pkg.Artifacts, e.Type.String())
		}
	}
	return pkg, nil
}

// Dir returns the scanned directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Packages returns the catalog in program id order. Callers must not
// modify the returned slice.
func (c *Catalog) Packages() []Package {
	return c.packages
}

// Failures returns the files rejected during the scan.
func (c *Catalog) Failures() []Failure {
	return c.failures
}

// ByID looks a package up by program id.
func (c *Catalog) ByID(id string) (*Package, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.packages[i], true
}

// ReadImage re-reads a package's bytes from disk and confirms they
// still match the digest taken at scan time, so a file swapped after
// verification is never handed out.
func (c *Catalog) ReadImage(id string) ([]byte, error) {
	pkg, ok := c.ByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	data, err := os.ReadFile(pkg.Path)
	if err != nil {
		return nil, err
	}
	sum := packhash.Sum(data)
	if !packhash.Equal(sum[:], pkg.Digest[:]) {
		return nil, fmt.Errorf("%w: %s", ErrChanged, pkg.Path)
	}
	return data, nil
}
