package vmpg

import "testing"

func TestHeaderEncodingLittleEndian(t *testing.T) {
	t.Parallel()

	h := Header{
		Magic:      Magic,
		VerMajor:   0x1122,
		VerMinor:   0x3344,
		HeaderSize: HeaderSize,
		FileSize:   0x01020304,
		Flags:      0x11121314,
		TOCOffset:  0x21222324,
		TOCBytes:   0x31323334,
		TOCCount:   0x41424344,
	}
	for i := range h.WholeHash {
		h.WholeHash[i] = byte(i + 1)
	}

	var raw [HeaderSize]byte
	if !encodeHeader(raw[:], h) {
		t.Fatalf("encode header failed")
	}
	if raw[0] != 'V' || raw[1] != 'M' || raw[2] != 'P' || raw[3] != 'G' {
		t.Fatalf("magic bytes are %q", raw[0:4])
	}
	if raw[4] != 0x22 || raw[5] != 0x11 {
		t.Fatalf("ver_major is not little-endian: %x", raw[4:6])
	}
	if raw[12] != 0x04 || raw[15] != 0x01 {
		t.Fatalf("file_size is not little-endian: %x", raw[12:16])
	}
	if raw[20] != 0x24 || raw[23] != 0x21 {
		t.Fatalf("toc_offset is not little-endian: %x", raw[20:24])
	}
	if raw[32] != 1 || raw[63] != 32 {
		t.Fatalf("whole-file hash misplaced: %x %x", raw[32], raw[63])
	}

	decoded, ok := decodeHeader(raw[:])
	if !ok {
		t.Fatalf("decode header failed")
	}
	if decoded != h {
		t.Fatalf("header round-trip mismatch: got %+v want %+v", decoded, h)
	}
}

func TestEntryEncodingLittleEndian(t *testing.T) {
	t.Parallel()

	e := TOCEntry{
		Type:   EntryType(0x11223344),
		Flags:  0x55667788,
		Offset: 0x0A0B0C0D,
		Size:   0x1A1B1C1D,
	}
	for i := range e.Hash {
		e.Hash[i] = byte(0x80 + i)
	}

	var raw [EntrySize]byte
	if !encodeEntry(raw[:], e) {
		t.Fatalf("encode entry failed")
	}
	if raw[0] != 0x44 || raw[3] != 0x11 {
		t.Fatalf("type is not little-endian: %x", raw[0:4])
	}
	if raw[8] != 0x0D || raw[11] != 0x0A {
		t.Fatalf("offset is not little-endian: %x", raw[8:12])
	}
	if raw[12] != 0x1D || raw[15] != 0x1A {
		t.Fatalf("size is not little-endian: %x", raw[12:16])
	}
	if raw[16] != 0x80 || raw[47] != 0x9F {
		t.Fatalf("hash misplaced: %x %x", raw[16], raw[47])
	}
	if !allZero(raw[48:64]) {
		t.Fatalf("reserved bytes not zero: %x", raw[48:64])
	}

	decoded, ok := decodeEntry(raw[:])
	if !ok {
		t.Fatalf("decode entry failed")
	}
	if decoded != e {
		t.Fatalf("entry round-trip mismatch: got %+v want %+v", decoded, e)
	}
}

func TestParameterEncodingLittleEndian(t *testing.T) {
	t.Parallel()

	p := Parameter{
		ID:            ParamCV2,
		Mode:          CurveQuadInOut,
		Min:           0x0102,
		Max:           0x0304,
		Initial:       0x0203,
		DisplayMin:    -2,
		DisplayMax:    0x7071,
		DisplayDigits: 3,
		LabelCount:    1,
	}
	copy(p.Name[:], "Gain")
	copy(p.Labels[0][:], "On")
	copy(p.Suffix[:], "dB")

	var raw [ParameterRecordSize]byte
	if !encodeParameter(raw[:], p) {
		t.Fatalf("encode parameter failed")
	}
	if raw[0] != byte(ParamCV2) || raw[3] != 0 {
		t.Fatalf("id is not little-endian: %x", raw[0:4])
	}
	if raw[8] != 0x02 || raw[9] != 0x01 {
		t.Fatalf("min is not little-endian: %x", raw[8:10])
	}
	// -2 as little-endian two's complement.
	if raw[14] != 0xFE || raw[15] != 0xFF {
		t.Fatalf("display_min is not little-endian int16: %x", raw[14:16])
	}
	if raw[18] != 3 || raw[19] != 1 {
		t.Fatalf("digits/label_count misplaced: %x", raw[18:20])
	}
	if raw[22] != 'G' {
		t.Fatalf("name misplaced: %x", raw[22])
	}
	if raw[54] != 'O' || raw[55] != 'n' {
		t.Fatalf("label 0 misplaced: %x", raw[54:56])
	}
	if raw[566] != 'd' || raw[567] != 'B' {
		t.Fatalf("suffix misplaced: %x", raw[566:568])
	}

	decoded, ok := decodeParameter(raw[:])
	if !ok {
		t.Fatalf("decode parameter failed")
	}
	if decoded != p {
		t.Fatalf("parameter round-trip mismatch")
	}
}

func TestConfigEncodingLittleEndian(t *testing.T) {
	t.Parallel()

	c := testConfig()
	var raw [ConfigRecordSize]byte
	if !encodeConfig(raw[:], *c) {
		t.Fatalf("encode config failed")
	}
	if raw[0] != 'l' || raw[1] != 'z' || raw[2] != 'x' {
		t.Fatalf("id misplaced: %q", raw[0:3])
	}
	if raw[64] != 1 || raw[65] != 0 {
		t.Fatalf("ver_major is not little-endian: %x", raw[64:66])
	}
	if raw[78] != 0x03 || raw[81] != 0 {
		t.Fatalf("hw_mask is not little-endian: %x", raw[78:82])
	}
	if raw[86] != 'K' {
		t.Fatalf("name misplaced: %x", raw[86])
	}
	if raw[502] != 2 || raw[503] != 0 {
		t.Fatalf("param_count is not little-endian: %x", raw[502:504])
	}
	// First parameter record begins right after the count and reserved.
	if raw[506] != byte(ParamPot1) {
		t.Fatalf("parameter 0 misplaced: %x", raw[506])
	}

	decoded, ok := decodeConfig(raw[:])
	if !ok {
		t.Fatalf("decode config failed")
	}
	if decoded != *c {
		t.Fatalf("config round-trip mismatch")
	}
}

func TestDescriptorEncodingLittleEndian(t *testing.T) {
	t.Parallel()

	d := SignedDescriptor{
		ArtifactCount: 2,
		Flags:         0x0A0B0C0D,
		BuildID:       0x21222324,
	}
	for i := range d.ConfigHash {
		d.ConfigHash[i] = byte(i)
	}
	d.Artifacts[0] = ArtifactHash{Type: EntryBitstreamSDA}
	d.Artifacts[1] = ArtifactHash{Type: EntryBitstreamHDDual}
	for i := range d.Artifacts[1].Hash {
		d.Artifacts[1].Hash[i] = 0xAA
	}

	var raw [DescriptorSize]byte
	if !encodeDescriptor(raw[:], d) {
		t.Fatalf("encode descriptor failed")
	}
	if raw[31] != 31 {
		t.Fatalf("config hash misplaced: %x", raw[31])
	}
	if raw[32] != 2 {
		t.Fatalf("artifact count misplaced: %x", raw[32])
	}
	if raw[36] != byte(EntryBitstreamSDA) || raw[37] != 0 {
		t.Fatalf("artifact 0 type is not little-endian: %x", raw[36:40])
	}
	// Second slot starts 36 bytes after the first.
	if raw[72] != byte(EntryBitstreamHDDual) {
		t.Fatalf("artifact 1 type misplaced: %x", raw[72])
	}
	if raw[324] != 0x0D || raw[327] != 0x0A {
		t.Fatalf("flags are not little-endian: %x", raw[324:328])
	}
	if raw[328] != 0x24 || raw[331] != 0x21 {
		t.Fatalf("build_id is not little-endian: %x", raw[328:332])
	}

	decoded, ok := decodeDescriptor(raw[:])
	if !ok {
		t.Fatalf("decode descriptor failed")
	}
	if decoded != d {
		t.Fatalf("descriptor round-trip mismatch")
	}
}
