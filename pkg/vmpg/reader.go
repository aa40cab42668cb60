package vmpg

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// DefaultScratchSize is the stream-mode payload buffer used when
// OpenOptions leaves ScratchSize unset. It covers the largest legal
// payload, so default opens can verify any conforming package.
const DefaultScratchSize = int(MaxFileSize)

// OpenOptions controls how much checking Open performs beyond the
// structural pass, which always runs.
type OpenOptions struct {
	// VerifyHashes checks every TOC entry's payload hash and the
	// whole-file hash when present.
	VerifyHashes bool

	// VerifySignature requires a valid signature at open time.
	// Unsigned packages then fail to open.
	VerifySignature bool

	// TrustKeys are the verification keys to trial, in order. Empty
	// means the compiled-in trust anchors.
	TrustKeys []PublicKey

	// ScratchSize bounds the stream-mode payload buffer. A payload
	// larger than the scratch fails its entry's verification. Zero
	// means DefaultScratchSize. Resident opens ignore it.
	ScratchSize int
}

const (
	stateOpen uint8 = iota + 1
	stateRejected
	stateClosed
)

// Reader is an opened package. A reader is either open or rejected:
// any failed structural or integrity check rejects it permanently and
// accessors on a non-open reader fail with ErrNotOpen. Readers are not
// safe for concurrent use.
type Reader struct {
	src      Source
	size     uint32
	resident []byte
	mapped   bool
	scratch  []byte

	header  Header
	entries []TOCEntry
	config  *ProgramConfig
	trust   []PublicKey
	state   uint8
}

// Open validates a package delivered through a Source. size is the
// total input length, which the header's file size must match.
func Open(src Source, size uint32, opts OpenOptions) (*Reader, error) {
	if src == nil {
		return nil, errors.New("vmpg: nil source")
	}
	scratch := opts.ScratchSize
	if scratch <= 0 {
		scratch = DefaultScratchSize
	}
	r := &Reader{
		src:     src,
		size:    size,
		scratch: make([]byte, scratch),
		trust:   opts.TrustKeys,
	}
	return finishOpen(r, opts)
}

// OpenBytes validates a package held in memory. The reader borrows
// data; it must not be modified while the reader is in use.
func OpenBytes(data []byte, opts OpenOptions) (*Reader, error) {
	if uint64(len(data)) > uint64(MaxFileSize) {
		return nil, fmt.Errorf("%w: input is %d bytes, limit %d", ErrFileSize, len(data), MaxFileSize)
	}
	r := &Reader{
		resident: data,
		size:     uint32(len(data)),
		trust:    opts.TrustKeys,
	}
	return finishOpen(r, opts)
}

// OpenFile maps a package file read-only and validates it. If mmap is
// unavailable, it falls back to ReadAt-based loading. The returned
// reader must be closed to release any mapping.
func OpenFile(path string, opts OpenOptions) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 < 0 || size64 > int64(MaxFileSize) {
		return nil, fmt.Errorf("%w: file is %d bytes, limit %d", ErrFileSize, size64, MaxFileSize)
	}
	size := int(size64)

	// Prefer mmap for zero-copy payload access.
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		r := &Reader{
			resident: data,
			mapped:   true,
			size:     uint32(size),
			trust:    opts.TrustKeys,
		}
		r, openErr := finishOpen(r, opts)
		if openErr != nil {
			_ = unix.Munmap(data)
			return nil, openErr
		}
		return r, nil
	}

	// Fallback path that does not require mmap support.
	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	r := &Reader{
		resident: data,
		size:     uint32(size),
		trust:    opts.TrustKeys,
	}
	return finishOpen(r, opts)
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

func finishOpen(r *Reader, opts OpenOptions) (*Reader, error) {
	if err := r.open(opts); err != nil {
		r.state = stateRejected
		return nil, err
	}
	r.state = stateOpen
	return r, nil
}

// open runs the validation sequence: header, TOC, then the optional
// integrity and signature passes. The first failure stops everything.
func (r *Reader) open(opts OpenOptions) error {
	var hdrBuf [HeaderSize]byte
	raw, err := r.view(0, HeaderSize, hdrBuf[:])
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	hdr, ok := decodeHeader(raw)
	if !ok {
		return fmt.Errorf("%w: header", ErrTruncated)
	}
	if err := hdr.Validate(r.size); err != nil {
		return err
	}
	r.header = hdr

	tocRaw, err := r.view(hdr.TOCOffset, hdr.TOCBytes, nil)
	if err != nil {
		return fmt.Errorf("reading toc: %w", err)
	}
	entries := make([]TOCEntry, hdr.TOCCount)
	for i := range entries {
		e, ok := decodeEntry(tocRaw[i*EntrySize : (i+1)*EntrySize])
		if !ok {
			return fmt.Errorf("%w: entry %d", ErrTruncated, i)
		}
		if err := e.Validate(hdr.FileSize); err != nil {
			return fmt.Errorf("entry %d (%s): %w", i, e.Type, err)
		}
		entries[i] = e
	}
	r.entries = entries

	if opts.VerifyHashes {
		if err := r.verifyPayloadHashes(); err != nil {
			return err
		}
		if err := r.verifyWholeHash(); err != nil {
			return err
		}
	}
	if opts.VerifySignature {
		if _, err := r.verifySignature(opts.TrustKeys); err != nil {
			return err
		}
	}
	return nil
}

// view returns size bytes at off: a zero-copy slice when the input is
// resident, otherwise a read into buf (allocated when nil).
func (r *Reader) view(off, size uint32, buf []byte) ([]byte, error) {
	if r.resident != nil {
		if uint64(off)+uint64(size) > uint64(len(r.resident)) {
			return nil, fmt.Errorf("%w: [%d,+%d) in %d bytes", ErrTruncated, off, size, len(r.resident))
		}
		return r.resident[off : off+size], nil
	}
	if buf == nil {
		buf = make([]byte, size)
	}
	b := buf[:size]
	if err := readFull(r.src, off, b); err != nil {
		return nil, err
	}
	return b, nil
}

// payloadView returns an entry payload, bounded by the scratch buffer
// in stream mode. The returned slice is only valid until the next
// payload access.
func (r *Reader) payloadView(off, size uint32) ([]byte, error) {
	if r.resident == nil && int(size) > len(r.scratch) {
		return nil, fmt.Errorf("%w: payload of %d bytes, scratch is %d", ErrPayloadTooLarge, size, len(r.scratch))
	}
	return r.view(off, size, r.scratch)
}

// entry returns the first TOC entry of the given type, or nil.
func (r *Reader) entry(t EntryType) *TOCEntry {
	for i := range r.entries {
		if r.entries[i].Type == t {
			return &r.entries[i]
		}
	}
	return nil
}

// Close releases reader resources and any mmap backing. A closed
// reader behaves like a rejected one.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}
	var err error
	if r.mapped && r.resident != nil {
		err = unix.Munmap(r.resident)
	}
	r.src = nil
	r.resident = nil
	r.mapped = false
	r.scratch = nil
	r.entries = nil
	r.config = nil
	r.state = stateClosed
	return err
}

// Header returns the validated header, or the zero header when the
// reader is not open.
func (r *Reader) Header() Header {
	if r.state != stateOpen {
		return Header{}
	}
	return r.header
}

// Entries returns the validated TOC in file order. Callers must not
// modify the returned slice.
func (r *Reader) Entries() []TOCEntry {
	if r.state != stateOpen {
		return nil
	}
	return r.entries
}

// IsSigned reports whether the open package carries the signed flag.
func (r *Reader) IsSigned() bool {
	return r.state == stateOpen && r.header.IsSigned()
}

// Config reads, decodes, and validates the program config record. The
// result is cached. A structural failure here rejects the reader; a
// missing config entry does not.
func (r *Reader) Config() (*ProgramConfig, error) {
	if r.state != stateOpen {
		return nil, ErrNotOpen
	}
	if r.config != nil {
		return r.config, nil
	}
	e := r.entry(EntryConfig)
	if e == nil {
		return nil, fmt.Errorf("%w: config", ErrNoEntry)
	}
	if e.Size != ConfigRecordSize {
		r.state = stateRejected
		return nil, fmt.Errorf("%w: config entry is %d bytes, want %d", ErrPayloadSize, e.Size, ConfigRecordSize)
	}
	raw, err := r.view(e.Offset, e.Size, nil)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, ok := decodeConfig(raw)
	if !ok {
		r.state = stateRejected
		return nil, fmt.Errorf("%w: config record", ErrTruncated)
	}
	if err := cfg.Validate(); err != nil {
		r.state = stateRejected
		return nil, fmt.Errorf("config: %w", err)
	}
	r.config = &cfg
	return r.config, nil
}

// PayloadByType copies the payload of the first entry of type t into
// dst and returns the filled prefix. A payload larger than dst fails
// with ErrPayloadTooLarge; it is never truncated.
func (r *Reader) PayloadByType(t EntryType, dst []byte) ([]byte, error) {
	if r.state != stateOpen {
		return nil, ErrNotOpen
	}
	e := r.entry(t)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoEntry, t)
	}
	if uint64(e.Size) > uint64(len(dst)) {
		return nil, fmt.Errorf("%w: payload of %d bytes, buffer is %d", ErrPayloadTooLarge, e.Size, len(dst))
	}
	if r.resident != nil {
		view, err := r.view(e.Offset, e.Size, nil)
		if err != nil {
			return nil, err
		}
		copy(dst, view)
		return dst[:e.Size], nil
	}
	b := dst[:e.Size]
	if err := readFull(r.src, e.Offset, b); err != nil {
		return nil, err
	}
	return b, nil
}

// VerifySignature checks the package signature against the given keys,
// the open options' keys, or the compiled-in trust anchors, in that
// order of preference. It returns the index of the key that verified.
// Failure rejects the reader.
func (r *Reader) VerifySignature(keys ...PublicKey) (int, error) {
	if r.state != stateOpen {
		return -1, ErrNotOpen
	}
	idx, err := r.verifySignature(keys)
	if err != nil {
		r.state = stateRejected
		return -1, err
	}
	return idx, nil
}
