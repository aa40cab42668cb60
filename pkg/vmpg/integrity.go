package vmpg

import (
	"fmt"

	"github.com/lzxindustries/videomancer-sdk-sub001/internal/packhash"
)

// hashPayload computes the content hash of one entry's payload.
func (r *Reader) hashPayload(e *TOCEntry) (Hash, error) {
	view, err := r.payloadView(e.Offset, e.Size)
	if err != nil {
		return Hash{}, err
	}
	return Hash(packhash.Sum(view)), nil
}

// verifyPayloadHashes checks every TOC entry's payload against its
// declared hash. Comparison is constant-time throughout.
func (r *Reader) verifyPayloadHashes() error {
	for i := range r.entries {
		e := &r.entries[i]
		got, err := r.hashPayload(e)
		if err != nil {
			return fmt.Errorf("entry %d (%s): %w", i, e.Type, err)
		}
		if !packhash.Equal(got[:], e.Hash[:]) {
			return fmt.Errorf("%w: entry %d (%s)", ErrHashMismatch, i, e.Type)
		}
	}
	return nil
}

// verifyWholeHash checks the optional whole-file hash. The hash is
// computed over the entire input with the header's hash field read as
// zero, which is how the builder computed it.
func (r *Reader) verifyWholeHash() error {
	if !r.header.HasWholeHash() {
		return nil
	}
	h := packhash.New()
	if r.resident != nil {
		var window [HashSize]byte
		h.Write(r.resident[:hdrOffWholeHash])
		h.Write(window[:])
		h.Write(r.resident[HeaderSize:])
	} else {
		if err := r.src.Seek(0); err != nil {
			return err
		}
		chunk := r.scratch
		if len(chunk) == 0 {
			chunk = make([]byte, 64<<10)
		}
		var pos uint32
		for pos < r.size {
			n := uint32(len(chunk))
			if r.size-pos < n {
				n = r.size - pos
			}
			got, err := r.src.Read(chunk[:n])
			if err != nil {
				return err
			}
			if got == 0 {
				return fmt.Errorf("%w: input ended at %d of %d", ErrTruncated, pos, r.size)
			}
			zeroWindow(chunk[:got], pos, hdrOffWholeHash, HeaderSize)
			h.Write(chunk[:got])
			pos += uint32(got)
		}
	}
	got := h.Digest()
	if !packhash.Equal(got[:], r.header.WholeHash[:]) {
		return fmt.Errorf("%w: whole-file hash", ErrHashMismatch)
	}
	return nil
}

// zeroWindow zeroes the part of chunk that overlaps the absolute file
// range [lo, hi). pos is the absolute offset of chunk[0].
func zeroWindow(chunk []byte, pos, lo, hi uint32) {
	end := pos + uint32(len(chunk))
	if end <= lo || pos >= hi {
		return
	}
	from := lo
	if pos > from {
		from = pos
	}
	to := hi
	if end < to {
		to = end
	}
	for i := from; i < to; i++ {
		chunk[i-pos] = 0
	}
}

// verifySignature runs the signature check: locate descriptor and
// signature, bind the descriptor to the config and artifact payloads
// by content hash, then trial the keys in order. Returns the index of
// the verifying key.
func (r *Reader) verifySignature(keys []PublicKey) (int, error) {
	if !r.header.IsSigned() {
		return -1, ErrNotSigned
	}
	trial := keys
	if len(trial) == 0 {
		trial = r.trust
	}
	if len(trial) == 0 {
		trial = TrustedKeys()
	}

	descEntry := r.entry(EntrySignedDescriptor)
	if descEntry == nil {
		return -1, fmt.Errorf("%w: signed flag set but no descriptor entry", ErrSignature)
	}
	if descEntry.Size != DescriptorSize {
		return -1, fmt.Errorf("%w: descriptor is %d bytes, want %d", ErrPayloadSize, descEntry.Size, DescriptorSize)
	}
	var descBuf [DescriptorSize]byte
	descRaw, err := r.view(descEntry.Offset, DescriptorSize, descBuf[:])
	if err != nil {
		return -1, fmt.Errorf("reading descriptor: %w", err)
	}
	desc, ok := decodeDescriptor(descRaw)
	if !ok {
		return -1, fmt.Errorf("%w: descriptor", ErrTruncated)
	}
	if err := desc.Validate(); err != nil {
		return -1, fmt.Errorf("descriptor: %w", err)
	}

	sigEntry := r.entry(EntrySignature)
	if sigEntry == nil {
		return -1, fmt.Errorf("%w: signed flag set but no signature entry", ErrSignature)
	}
	if sigEntry.Size != SignatureSize {
		return -1, fmt.Errorf("%w: signature is %d bytes, want %d", ErrPayloadSize, sigEntry.Size, SignatureSize)
	}
	var sigBuf [SignatureSize]byte
	sigRaw, err := r.view(sigEntry.Offset, SignatureSize, sigBuf[:])
	if err != nil {
		return -1, fmt.Errorf("reading signature: %w", err)
	}

	// The descriptor must reach everything it vouches for: the config
	// payload and each declared artifact payload, by content hash.
	cfgEntry := r.entry(EntryConfig)
	if cfgEntry == nil {
		return -1, fmt.Errorf("%w: no config entry to bind", ErrSignature)
	}
	cfgHash, err := r.hashPayload(cfgEntry)
	if err != nil {
		return -1, fmt.Errorf("hashing config: %w", err)
	}
	if !packhash.Equal(cfgHash[:], desc.ConfigHash[:]) {
		return -1, fmt.Errorf("%w: descriptor config hash", ErrHashMismatch)
	}
	for i := 0; i < int(desc.ArtifactCount); i++ {
		a := &desc.Artifacts[i]
		e := r.entry(a.Type)
		if e == nil {
			return -1, fmt.Errorf("%w: descriptor artifact %s has no entry", ErrSignature, a.Type)
		}
		got, err := r.hashPayload(e)
		if err != nil {
			return -1, fmt.Errorf("hashing artifact %s: %w", a.Type, err)
		}
		if !packhash.Equal(got[:], a.Hash[:]) {
			return -1, fmt.Errorf("%w: descriptor artifact %s", ErrHashMismatch, a.Type)
		}
	}

	for i, key := range trial {
		if packhash.Verify(key[:], descRaw, sigRaw) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no key of %d accepted the descriptor", ErrSignature, len(trial))
}
