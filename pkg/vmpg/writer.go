package vmpg

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lzxindustries/videomancer-sdk-sub001/internal/packhash"
)

// Builder assembles a package image in memory: header, TOC, config
// record, artifact payloads, and optionally a signed descriptor with
// its signature. Construction is whole-image; nothing is written until
// Build. A Builder is not safe for concurrent use.
type Builder struct {
	cfg       *ProgramConfig
	artifacts []builderArtifact
	seen      map[EntryType]struct{}
	signKey   []byte
	descFlags uint32
	buildID   uint32
	wholeHash bool
}

type builderArtifact struct {
	typ  EntryType
	data []byte
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[EntryType]struct{})}
}

// SetConfig validates and stores the program config record. The
// builder keeps its own copy.
func (b *Builder) SetConfig(cfg *ProgramConfig) error {
	if cfg == nil {
		return errors.New("vmpg: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c := *cfg
	b.cfg = &c
	return nil
}

// AddArtifact adds one artifact payload under the given entry type.
// Structural types are refused; artifact types must be distinct. The
// builder borrows data until Build.
func (b *Builder) AddArtifact(t EntryType, data []byte) error {
	switch t {
	case EntryNone, EntryConfig, EntrySignedDescriptor, EntrySignature:
		return fmt.Errorf("%w: %s is not an artifact type", ErrEntryType, t)
	}
	if len(data) == 0 {
		return errors.New("vmpg: empty artifact payload")
	}
	if len(b.artifacts) >= MaxArtifacts {
		return fmt.Errorf("%w: at most %d artifacts", ErrCountRange, MaxArtifacts)
	}
	if _, dup := b.seen[t]; dup {
		return fmt.Errorf("%w: duplicate artifact type %s", ErrEntryType, t)
	}
	b.seen[t] = struct{}{}
	b.artifacts = append(b.artifacts, builderArtifact{typ: t, data: data})
	return nil
}

// Sign arranges for the package to carry a signed descriptor and
// signature, produced with the given Ed25519 private key at Build.
func (b *Builder) Sign(privateKey []byte) error {
	if len(privateKey) != packhash.PrivateKeySize {
		return fmt.Errorf("vmpg: private key is %d bytes, want %d", len(privateKey), packhash.PrivateKeySize)
	}
	b.signKey = append([]byte(nil), privateKey...)
	return nil
}

// SetBuildID sets the descriptor's build identifier.
func (b *Builder) SetBuildID(id uint32) {
	b.buildID = id
}

// SetDescriptorFlags sets the descriptor's flag word.
func (b *Builder) SetDescriptorFlags(flags uint32) {
	b.descFlags = flags
}

// SetWholeFileHash controls whether the optional whole-file hash is
// filled in. It is computed over the image with the hash field zeroed,
// then patched into the header.
func (b *Builder) SetWholeFileHash(on bool) {
	b.wholeHash = on
}

// Build assembles and returns the package image. Layout is header,
// TOC, config, artifacts in insertion order, then descriptor and
// signature when signing, densely packed.
func (b *Builder) Build() ([]byte, error) {
	if b.cfg == nil {
		return nil, errors.New("vmpg: no config set")
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfgRaw [ConfigRecordSize]byte
	if !encodeConfig(cfgRaw[:], *b.cfg) {
		return nil, errors.New("vmpg: encode config failed")
	}

	signed := len(b.signKey) > 0
	count := 1 + len(b.artifacts)
	if signed {
		count += 2
	}

	tocOff := uint32(HeaderSize)
	payloadOff := tocOff + uint32(count)*EntrySize

	total := uint64(payloadOff) + ConfigRecordSize
	for _, a := range b.artifacts {
		total += uint64(len(a.data))
	}
	if signed {
		total += DescriptorSize + SignatureSize
	}
	if total > uint64(MaxFileSize) {
		return nil, fmt.Errorf("%w: image would be %d bytes, limit %d", ErrFileSize, total, MaxFileSize)
	}

	image := make([]byte, total)
	entries := make([]TOCEntry, 0, count)
	off := payloadOff
	place := func(t EntryType, payload []byte) {
		copy(image[off:], payload)
		entries = append(entries, TOCEntry{
			Type:   t,
			Offset: off,
			Size:   uint32(len(payload)),
			Hash:   Hash(packhash.Sum(payload)),
		})
		off += uint32(len(payload))
	}

	place(EntryConfig, cfgRaw[:])
	for _, a := range b.artifacts {
		place(a.typ, a.data)
	}

	if signed {
		desc := SignedDescriptor{
			ConfigHash:    Hash(packhash.Sum(cfgRaw[:])),
			ArtifactCount: uint8(len(b.artifacts)),
			Flags:         b.descFlags,
			BuildID:       b.buildID,
		}
		for i, a := range b.artifacts {
			desc.Artifacts[i] = ArtifactHash{Type: a.typ, Hash: Hash(packhash.Sum(a.data))}
		}
		var descRaw [DescriptorSize]byte
		if !encodeDescriptor(descRaw[:], desc) {
			return nil, errors.New("vmpg: encode descriptor failed")
		}
		sig, err := packhash.Sign(b.signKey, descRaw[:])
		if err != nil {
			return nil, err
		}
		place(EntrySignedDescriptor, descRaw[:])
		place(EntrySignature, sig)
	}

	for i, e := range entries {
		at := int(tocOff) + i*EntrySize
		if !encodeEntry(image[at:at+EntrySize], e) {
			return nil, errors.New("vmpg: encode entry failed")
		}
	}

	hdr := Header{
		Magic:      Magic,
		VerMajor:   CurrentMajor,
		VerMinor:   CurrentMinor,
		HeaderSize: HeaderSize,
		FileSize:   uint32(total),
		TOCOffset:  tocOff,
		TOCBytes:   uint32(count) * EntrySize,
		TOCCount:   uint32(count),
	}
	if signed {
		hdr.Flags |= FlagSigned
	}
	if !encodeHeader(image[:HeaderSize], hdr) {
		return nil, errors.New("vmpg: encode header failed")
	}

	if b.wholeHash {
		// The hash field is still zero here, which is the form the
		// hash is defined over.
		sum := packhash.Sum(image)
		copy(image[hdrOffWholeHash:HeaderSize], sum[:])
	}
	return image, nil
}

// WriteTo builds the image and writes it to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	image, err := b.Build()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(image)
	return int64(n), err
}

// WriteFile builds the image and writes it to path.
func (b *Builder) WriteFile(path string) error {
	image, err := b.Build()
	if err != nil {
		return err
	}
	return os.WriteFile(path, image, 0o644)
}
