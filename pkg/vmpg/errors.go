package vmpg

import "errors"

// Sentinel errors for every rejection class. Errors returned by this
// package wrap one of these, so callers branch with errors.Is.
var (
	ErrMagic             = errors.New("invalid VMPG magic")
	ErrVersion           = errors.New("unsupported VMPG major version")
	ErrHeaderSize        = errors.New("invalid header size")
	ErrFileSize          = errors.New("invalid file size")
	ErrTOCRange          = errors.New("table of contents out of range")
	ErrEntryType         = errors.New("invalid entry type")
	ErrEntryBounds       = errors.New("entry out of bounds")
	ErrReservedNotZero   = errors.New("reserved bytes not zero")
	ErrCountRange        = errors.New("count out of range")
	ErrFieldRange        = errors.New("field out of range")
	ErrStringTermination = errors.New("unterminated string")
	ErrHashMismatch      = errors.New("content hash mismatch")
	ErrSignature         = errors.New("signature verification failed")
	ErrNotSigned         = errors.New("package is not signed")
	ErrPayloadSize       = errors.New("unexpected payload size")
	ErrPayloadTooLarge   = errors.New("payload exceeds buffer")
	ErrTruncated         = errors.New("input ended early")
	ErrNoEntry           = errors.New("no entry of requested type")
	ErrNotOpen           = errors.New("package is not open")
)
