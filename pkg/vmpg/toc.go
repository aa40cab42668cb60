package vmpg

import (
	"encoding/binary"
	"fmt"
)

// TOCEntry is one table-of-contents entry. The entry flags field is
// unused by this format version: it is accepted and carried but never
// interpreted. Reserved bytes must be zero.
type TOCEntry struct {
	Type     EntryType
	Flags    uint32
	Offset   uint32
	Size     uint32
	Hash     Hash
	Reserved [entReservedLen]byte
}

// End returns the exclusive end offset of the entry's payload.
func (e *TOCEntry) End() uint32 {
	return e.Offset + e.Size
}

// Validate checks one entry against the file bounds. fileSize is the
// already validated header file size.
func (e *TOCEntry) Validate(fileSize uint32) error {
	if e.Type == EntryNone {
		return fmt.Errorf("%w: type none", ErrEntryType)
	}
	if !allZero(e.Reserved[:]) {
		return fmt.Errorf("%w: entry reserved bytes", ErrReservedNotZero)
	}
	if e.Offset < HeaderSize {
		return fmt.Errorf("%w: offset %d overlaps header", ErrEntryBounds, e.Offset)
	}
	if e.Offset >= fileSize {
		return fmt.Errorf("%w: offset %d outside file of %d", ErrEntryBounds, e.Offset, fileSize)
	}
	// Overflow-safe payload bound.
	if e.Size != 0 && (e.Size > fileSize || e.Offset > fileSize-e.Size) {
		return fmt.Errorf("%w: payload [%d,+%d) outside file of %d", ErrEntryBounds, e.Offset, e.Size, fileSize)
	}
	return nil
}

func decodeEntry(buf []byte) (TOCEntry, bool) {
	var e TOCEntry
	if len(buf) != EntrySize {
		return e, false
	}
	e.Type = EntryType(binary.LittleEndian.Uint32(buf[entOffType:]))
	e.Flags = binary.LittleEndian.Uint32(buf[entOffFlags:])
	e.Offset = binary.LittleEndian.Uint32(buf[entOffOffset:])
	e.Size = binary.LittleEndian.Uint32(buf[entOffSize:])
	copy(e.Hash[:], buf[entOffHash:entOffHash+HashSize])
	copy(e.Reserved[:], buf[entOffReserved:entOffReserved+entReservedLen])
	return e, true
}

func encodeEntry(dst []byte, e TOCEntry) bool {
	if len(dst) != EntrySize {
		return false
	}
	binary.LittleEndian.PutUint32(dst[entOffType:], uint32(e.Type))
	binary.LittleEndian.PutUint32(dst[entOffFlags:], e.Flags)
	binary.LittleEndian.PutUint32(dst[entOffOffset:], e.Offset)
	binary.LittleEndian.PutUint32(dst[entOffSize:], e.Size)
	copy(dst[entOffHash:entOffHash+HashSize], e.Hash[:])
	copy(dst[entOffReserved:entOffReserved+entReservedLen], e.Reserved[:])
	return true
}
