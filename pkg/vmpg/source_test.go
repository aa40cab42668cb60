package vmpg

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestBytesSource(t *testing.T) {
	t.Parallel()

	src := NewBytesSource([]byte("0123456789"))

	buf := make([]byte, 4)
	n, err := src.Read(buf)
	if err != nil || n != 4 || string(buf) != "0123" {
		t.Fatalf("first read: n=%d err=%v buf=%q", n, err, buf)
	}

	if err := src.Seek(8); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	n, err = src.Read(buf)
	if err != nil || n != 2 || string(buf[:n]) != "89" {
		t.Fatalf("short read at end: n=%d err=%v", n, err)
	}

	// Reading past the end keeps returning zero bytes, not errors.
	n, err = src.Read(buf)
	if err != nil || n != 0 {
		t.Fatalf("read at end: n=%d err=%v", n, err)
	}

	if err := src.Seek(10); err != nil {
		t.Fatalf("seek to end: %v", err)
	}
	if err := src.Seek(11); !errors.Is(err, ErrTruncated) {
		t.Fatalf("seek past end: got %v, want ErrTruncated", err)
	}
}

// chunkyReader returns at most three bytes per read to exercise the
// retry loop in StreamSource.
type chunkyReader struct {
	r *bytes.Reader
}

func (c *chunkyReader) Read(p []byte) (int, error) {
	if len(p) > 3 {
		p = p[:3]
	}
	return c.r.Read(p)
}

func (c *chunkyReader) Seek(offset int64, whence int) (int64, error) {
	return c.r.Seek(offset, whence)
}

func TestStreamSourceFillsDespiteShortReads(t *testing.T) {
	t.Parallel()

	data := []byte("abcdefghijklmnop")
	src := NewStreamSource(&chunkyReader{r: bytes.NewReader(data)})

	buf := make([]byte, 10)
	n, err := src.Read(buf)
	if err != nil || n != 10 {
		t.Fatalf("Read: n=%d err=%v", n, err)
	}
	if string(buf) != "abcdefghij" {
		t.Fatalf("buf %q", buf)
	}

	if err := src.Seek(14); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	n, err = src.Read(buf)
	if err != nil || n != 2 {
		t.Fatalf("tail read: n=%d err=%v", n, err)
	}
	if string(buf[:n]) != "op" {
		t.Fatalf("tail %q", buf[:n])
	}
}

func TestReadFull(t *testing.T) {
	t.Parallel()

	src := NewStreamSource(bytes.NewReader([]byte("0123456789")))

	buf := make([]byte, 6)
	if err := readFull(src, 2, buf); err != nil {
		t.Fatalf("readFull: %v", err)
	}
	if string(buf) != "234567" {
		t.Fatalf("buf %q", buf)
	}

	if err := readFull(src, 6, buf); !errors.Is(err, ErrTruncated) {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

var _ io.ReadSeeker = (*chunkyReader)(nil)
