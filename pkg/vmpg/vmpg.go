// Package vmpg implements the VMPG package format.
//
// VMPG is a single-file, self-describing container for Videomancer
// device programs. It bundles one program config record with one or
// more FPGA bitstream artifacts, each content-hashed, and optionally
// carries an Ed25519 signature over a descriptor that binds the config
// and artifacts together. The package describes data only and never
// implies runtime behaviour on the device.
package vmpg

import (
	"encoding/hex"
	"fmt"
)

// Format constants. These must never change within a major version.
const (
	// Magic is the file magic, the bytes "VMPG" read as a
	// little-endian u32.
	Magic uint32 = 0x47504D56

	// CurrentMajor is the format major version. Any change indicates
	// a breaking format change.
	CurrentMajor uint16 = 1

	// CurrentMinor is the format minor version. Minor versions may
	// add flag bits or entry types but never move existing fields.
	CurrentMinor uint16 = 0

	// MaxFileSize is the largest package image a reader accepts.
	MaxFileSize uint32 = 1 << 20

	// MaxTOCEntries bounds the table of contents.
	MaxTOCEntries uint32 = 256

	// MaxParameters is the number of parameter slots in a config record.
	MaxParameters = 12

	// MaxArtifacts is the number of artifact slots in a signed descriptor.
	MaxArtifacts = 8

	// MaxLabels is the number of label slots in a parameter record.
	MaxLabels = 16
)

// Header flag bits.
const (
	// FlagSigned marks a package carrying a signed descriptor and
	// signature entry. Other bits are reserved and ignored.
	FlagSigned uint32 = 1 << 0
)

// Hash is a 256-bit content hash as stored in the package. The
// all-zero value means "absent" wherever a hash field is optional.
type Hash [HashSize]byte

// IsZero reports whether the hash is the all-zero "absent" value.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the lowercase hex form of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// EntryType identifies the payload kind of a TOC entry. Values above
// the last assigned type are permitted in packages for forward
// compatibility: their entries are bounds- and hash-checked like any
// other, but typed lookups ignore them.
type EntryType uint32

const (
	EntryNone             EntryType = 0
	EntryConfig           EntryType = 1
	EntrySignedDescriptor EntryType = 2
	EntrySignature        EntryType = 3
	EntryBitstream        EntryType = 4
	EntryBitstreamSDA     EntryType = 5
	EntryBitstreamSDHDMI  EntryType = 6
	EntryBitstreamSDDual  EntryType = 7
	EntryBitstreamHDA     EntryType = 8
	EntryBitstreamHDHDMI  EntryType = 9
	EntryBitstreamHDDual  EntryType = 10
)

var entryTypeNames = map[EntryType]string{
	EntryNone:             "none",
	EntryConfig:           "config",
	EntrySignedDescriptor: "signed_descriptor",
	EntrySignature:        "signature",
	EntryBitstream:        "bitstream",
	EntryBitstreamSDA:     "bitstream_sd_analog",
	EntryBitstreamSDHDMI:  "bitstream_sd_hdmi",
	EntryBitstreamSDDual:  "bitstream_sd_dual",
	EntryBitstreamHDA:     "bitstream_hd_analog",
	EntryBitstreamHDHDMI:  "bitstream_hd_hdmi",
	EntryBitstreamHDDual:  "bitstream_hd_dual",
}

// String returns the entry type's canonical name, or a numeric form
// for types this version does not know.
func (t EntryType) String() string {
	if name, ok := entryTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type_%d", uint32(t))
}

// IsBitstream reports whether the type names an FPGA bitstream payload.
func (t EntryType) IsBitstream() bool {
	return t >= EntryBitstream && t <= EntryBitstreamHDDual
}

// ParseEntryType resolves a canonical entry type name.
func ParseEntryType(s string) (EntryType, error) {
	for t, name := range entryTypeNames {
		if name == s {
			return t, nil
		}
	}
	return EntryNone, fmt.Errorf("unknown entry type %q", s)
}
