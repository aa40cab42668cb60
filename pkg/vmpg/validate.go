package vmpg

import "fmt"

// terminatedString extracts a zero-terminated string from a fixed
// buffer. ok is false when no terminator exists within the buffer.
func terminatedString(buf []byte) (string, bool) {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), true
		}
	}
	return "", false
}

// allZero reports whether every byte in buf is zero.
func allZero(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}

// CString interprets buf as a zero-terminated string. Buffers without
// a terminator yield the whole buffer; validation rejects those before
// accessors run, so this is a display helper, not a validity check.
func CString(buf []byte) string {
	s, ok := terminatedString(buf)
	if !ok {
		return string(buf)
	}
	return s
}

// SetCString writes s into a fixed string buffer, zero-filling the
// tail. It fails when s cannot fit together with its terminator.
func SetCString(dst []byte, s string) error {
	if len(s) >= len(dst) {
		return fmt.Errorf("%w: %q needs %d bytes, field holds %d", ErrFieldRange, s, len(s)+1, len(dst))
	}
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	return nil
}
