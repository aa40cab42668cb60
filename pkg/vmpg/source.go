package vmpg

import (
	"fmt"
	"io"
)

// Source is the minimal input a package reader needs: bounded reads
// from a current position and absolute repositioning. Every record and
// payload access is built from these two operations.
//
// Read fills p from the current position and advances past the bytes
// returned. A count shorter than len(p) with a nil error means the
// input ended.
type Source interface {
	Read(p []byte) (int, error)
	Seek(offset uint32) error
}

// BytesSource reads from a resident buffer.
type BytesSource struct {
	data []byte
	pos  int
}

// NewBytesSource wraps data without copying it.
func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

func (s *BytesSource) Read(p []byte) (int, error) {
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}

func (s *BytesSource) Seek(offset uint32) error {
	if uint64(offset) > uint64(len(s.data)) {
		return fmt.Errorf("%w: seek to %d in %d bytes", ErrTruncated, offset, len(s.data))
	}
	s.pos = int(offset)
	return nil
}

// StreamSource adapts any io.ReadSeeker. Short reads from the
// underlying reader are retried so that the Source contract holds:
// a short result means end of input, nothing else.
type StreamSource struct {
	rs io.ReadSeeker
}

// NewStreamSource wraps an io.ReadSeeker, typically an *os.File.
func NewStreamSource(rs io.ReadSeeker) *StreamSource {
	return &StreamSource{rs: rs}
}

func (s *StreamSource) Read(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := s.rs.Read(p[total:])
		total += n
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
	}
	return total, nil
}

func (s *StreamSource) Seek(offset uint32) error {
	_, err := s.rs.Seek(int64(offset), io.SeekStart)
	return err
}

// readFull reads exactly len(p) bytes from src at offset off.
func readFull(src Source, off uint32, p []byte) error {
	if err := src.Seek(off); err != nil {
		return err
	}
	n, err := src.Read(p)
	if err != nil {
		return err
	}
	if n < len(p) {
		return fmt.Errorf("%w: %d of %d bytes at offset %d", ErrTruncated, n, len(p), off)
	}
	return nil
}
