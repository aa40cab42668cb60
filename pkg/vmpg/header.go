package vmpg

import (
	"encoding/binary"
	"fmt"
)

// Header is the decoded package header. It mirrors the wire layout
// field for field; reserved bytes are kept so that a decoded header
// re-encodes bit for bit.
type Header struct {
	Magic      uint32
	VerMajor   uint16
	VerMinor   uint16
	HeaderSize uint16
	Reserved   uint16
	FileSize   uint32
	Flags      uint32
	TOCOffset  uint32
	TOCBytes   uint32
	TOCCount   uint32
	WholeHash  Hash
}

// IsSigned reports whether the signed flag bit is set.
func (h *Header) IsSigned() bool {
	return h.Flags&FlagSigned != 0
}

// HasWholeHash reports whether the optional whole-file hash is present.
func (h *Header) HasWholeHash() bool {
	return !h.WholeHash.IsZero()
}

// Validate checks the header against the size of the actual input.
// Counts are range-checked before any derived quantity is computed.
func (h *Header) Validate(inputSize uint32) error {
	if h.Magic != Magic {
		return fmt.Errorf("%w: 0x%08x", ErrMagic, h.Magic)
	}
	if h.VerMajor != CurrentMajor {
		return fmt.Errorf("%w: %d", ErrVersion, h.VerMajor)
	}
	if h.HeaderSize != HeaderSize {
		return fmt.Errorf("%w: %d", ErrHeaderSize, h.HeaderSize)
	}
	if h.Reserved != 0 {
		return fmt.Errorf("%w: header reserved field", ErrReservedNotZero)
	}
	if h.FileSize > MaxFileSize {
		return fmt.Errorf("%w: %d exceeds %d", ErrFileSize, h.FileSize, MaxFileSize)
	}
	if h.FileSize != inputSize {
		return fmt.Errorf("%w: header says %d, input is %d", ErrFileSize, h.FileSize, inputSize)
	}
	if h.TOCCount < 1 || h.TOCCount > MaxTOCEntries {
		return fmt.Errorf("%w: toc count %d", ErrCountRange, h.TOCCount)
	}
	if h.TOCBytes != h.TOCCount*EntrySize {
		return fmt.Errorf("%w: toc bytes %d for %d entries", ErrTOCRange, h.TOCBytes, h.TOCCount)
	}
	if h.TOCOffset < HeaderSize {
		return fmt.Errorf("%w: toc offset %d overlaps header", ErrTOCRange, h.TOCOffset)
	}
	// Overflow-safe bound: the subtraction is only taken once the
	// length is known not to exceed the file size.
	if h.TOCBytes > h.FileSize || h.TOCOffset > h.FileSize-h.TOCBytes {
		return fmt.Errorf("%w: toc [%d,+%d) outside file of %d", ErrTOCRange, h.TOCOffset, h.TOCBytes, h.FileSize)
	}
	return nil
}

func decodeHeader(buf []byte) (Header, bool) {
	var h Header
	if len(buf) != HeaderSize {
		return h, false
	}
	h.Magic = binary.LittleEndian.Uint32(buf[hdrOffMagic:])
	h.VerMajor = binary.LittleEndian.Uint16(buf[hdrOffVerMajor:])
	h.VerMinor = binary.LittleEndian.Uint16(buf[hdrOffVerMinor:])
	h.HeaderSize = binary.LittleEndian.Uint16(buf[hdrOffSize:])
	h.Reserved = binary.LittleEndian.Uint16(buf[hdrOffReserved:])
	h.FileSize = binary.LittleEndian.Uint32(buf[hdrOffFileSize:])
	h.Flags = binary.LittleEndian.Uint32(buf[hdrOffFlags:])
	h.TOCOffset = binary.LittleEndian.Uint32(buf[hdrOffTOCOffset:])
	h.TOCBytes = binary.LittleEndian.Uint32(buf[hdrOffTOCBytes:])
	h.TOCCount = binary.LittleEndian.Uint32(buf[hdrOffTOCCount:])
	copy(h.WholeHash[:], buf[hdrOffWholeHash:hdrOffWholeHash+HashSize])
	return h, true
}

func encodeHeader(dst []byte, h Header) bool {
	if len(dst) != HeaderSize {
		return false
	}
	binary.LittleEndian.PutUint32(dst[hdrOffMagic:], h.Magic)
	binary.LittleEndian.PutUint16(dst[hdrOffVerMajor:], h.VerMajor)
	binary.LittleEndian.PutUint16(dst[hdrOffVerMinor:], h.VerMinor)
	binary.LittleEndian.PutUint16(dst[hdrOffSize:], h.HeaderSize)
	binary.LittleEndian.PutUint16(dst[hdrOffReserved:], h.Reserved)
	binary.LittleEndian.PutUint32(dst[hdrOffFileSize:], h.FileSize)
	binary.LittleEndian.PutUint32(dst[hdrOffFlags:], h.Flags)
	binary.LittleEndian.PutUint32(dst[hdrOffTOCOffset:], h.TOCOffset)
	binary.LittleEndian.PutUint32(dst[hdrOffTOCBytes:], h.TOCBytes)
	binary.LittleEndian.PutUint32(dst[hdrOffTOCCount:], h.TOCCount)
	copy(dst[hdrOffWholeHash:hdrOffWholeHash+HashSize], h.WholeHash[:])
	return true
}
