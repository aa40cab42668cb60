package vmpg

import (
	"encoding/binary"
	"fmt"
)

// ArtifactHash binds one artifact to the signed descriptor: the TOC
// entry type the artifact lives under and the expected content hash
// of that entry's payload.
type ArtifactHash struct {
	Type EntryType
	Hash Hash
}

// SignedDescriptor is the record a package signature covers. Its
// encoded image is exactly the signed message: the config hash and the
// artifact hashes reach through it to everything the signature vouches
// for.
type SignedDescriptor struct {
	ConfigHash    Hash
	ArtifactCount uint8
	pad           [dscPadLen]byte
	Artifacts     [MaxArtifacts]ArtifactHash
	Flags         uint32
	BuildID       uint32
}

// Validate checks the descriptor's counts and slot discipline. The
// artifact count is range-checked before any slot is visited.
func (d *SignedDescriptor) Validate() error {
	if d.ArtifactCount > MaxArtifacts {
		return fmt.Errorf("%w: artifact count %d", ErrCountRange, d.ArtifactCount)
	}
	if !allZero(d.pad[:]) {
		return fmt.Errorf("%w: descriptor pad bytes", ErrReservedNotZero)
	}
	for i := 0; i < MaxArtifacts; i++ {
		a := &d.Artifacts[i]
		if i < int(d.ArtifactCount) {
			if a.Type == EntryNone {
				return fmt.Errorf("%w: artifact slot %d has type none", ErrEntryType, i)
			}
			continue
		}
		if a.Type != EntryNone || !a.Hash.IsZero() {
			return fmt.Errorf("%w: unused artifact slot %d not zero", ErrFieldRange, i)
		}
	}
	return nil
}

func decodeDescriptor(buf []byte) (SignedDescriptor, bool) {
	var d SignedDescriptor
	if len(buf) != DescriptorSize {
		return d, false
	}
	copy(d.ConfigHash[:], buf[dscOffConfigHash:dscOffConfigHash+HashSize])
	d.ArtifactCount = buf[dscOffArtifactCount]
	copy(d.pad[:], buf[dscOffPad:dscOffPad+dscPadLen])
	for i := 0; i < MaxArtifacts; i++ {
		off := dscOffArtifacts + i*ArtifactHashSize
		d.Artifacts[i].Type = EntryType(binary.LittleEndian.Uint32(buf[off+artOffType:]))
		copy(d.Artifacts[i].Hash[:], buf[off+artOffHash:off+artOffHash+HashSize])
	}
	d.Flags = binary.LittleEndian.Uint32(buf[dscOffFlags:])
	d.BuildID = binary.LittleEndian.Uint32(buf[dscOffBuildID:])
	return d, true
}

func encodeDescriptor(dst []byte, d SignedDescriptor) bool {
	if len(dst) != DescriptorSize {
		return false
	}
	copy(dst[dscOffConfigHash:dscOffConfigHash+HashSize], d.ConfigHash[:])
	dst[dscOffArtifactCount] = d.ArtifactCount
	copy(dst[dscOffPad:dscOffPad+dscPadLen], d.pad[:])
	for i := 0; i < MaxArtifacts; i++ {
		off := dscOffArtifacts + i*ArtifactHashSize
		binary.LittleEndian.PutUint32(dst[off+artOffType:], uint32(d.Artifacts[i].Type))
		copy(dst[off+artOffHash:off+artOffHash+HashSize], d.Artifacts[i].Hash[:])
	}
	binary.LittleEndian.PutUint32(dst[dscOffFlags:], d.Flags)
	binary.LittleEndian.PutUint32(dst[dscOffBuildID:], d.BuildID)
	return true
}
