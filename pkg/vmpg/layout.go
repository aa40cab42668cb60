package vmpg

// Frozen record sizes. Every multi-byte integer in the format is
// little-endian and records are densely packed, so these sizes are
// exact byte counts on the wire.
const (
	// HashSize is the byte length of every content hash field.
	HashSize = 32

	// HeaderSize is the byte length of the package header.
	HeaderSize = 64

	// EntrySize is the byte length of one TOC entry.
	EntrySize = 64

	// ConfigRecordSize is the byte length of a program config record.
	ConfigRecordSize = 7372

	// ParameterRecordSize is the byte length of one parameter record.
	ParameterRecordSize = 572

	// DescriptorSize is the byte length of a signed descriptor.
	DescriptorSize = 332

	// ArtifactHashSize is the byte length of one artifact hash record.
	ArtifactHashSize = 36

	// SignatureSize is the byte length of a signature payload.
	SignatureSize = 64
)

// Package header field offsets.
const (
	hdrOffMagic     = 0
	hdrOffVerMajor  = 4
	hdrOffVerMinor  = 6
	hdrOffSize      = 8
	hdrOffReserved  = 10
	hdrOffFileSize  = 12
	hdrOffFlags     = 16
	hdrOffTOCOffset = 20
	hdrOffTOCBytes  = 24
	hdrOffTOCCount  = 28
	hdrOffWholeHash = 32
)

// TOC entry field offsets.
const (
	entOffType     = 0
	entOffFlags    = 4
	entOffOffset   = 8
	entOffSize     = 12
	entOffHash     = 16
	entOffReserved = 48
	entReservedLen = 16
)

// Program config record field offsets.
const (
	cfgOffID          = 0
	cfgOffVerMajor    = 64
	cfgOffVerMinor    = 66
	cfgOffVerPatch    = 68
	cfgOffABIMinMajor = 70
	cfgOffABIMinMinor = 72
	cfgOffABIMaxMajor = 74
	cfgOffABIMaxMinor = 76
	cfgOffHWMask      = 78
	cfgOffCoreID      = 82
	cfgOffName        = 86
	cfgOffAuthor      = 118
	cfgOffLicense     = 182
	cfgOffCategory    = 214
	cfgOffDescription = 246
	cfgOffURL         = 374
	cfgOffParamCount  = 502
	cfgOffReserved    = 504
	cfgOffParams      = 506
	cfgOffTailPad     = 7370

	cfgIDLen          = 64
	cfgNameLen        = 32
	cfgAuthorLen      = 64
	cfgLicenseLen     = 32
	cfgCategoryLen    = 32
	cfgDescriptionLen = 128
	cfgURLLen         = 128
	cfgTailPadLen     = 2
)

// Parameter record field offsets.
const (
	parOffID            = 0
	parOffMode          = 4
	parOffMin           = 8
	parOffMax           = 10
	parOffInitial       = 12
	parOffDisplayMin    = 14
	parOffDisplayMax    = 16
	parOffDisplayDigits = 18
	parOffLabelCount    = 19
	parOffReserved      = 20
	parOffName          = 22
	parOffLabels        = 54
	parOffSuffix        = 566
	parOffTailPad       = 570

	parReservedLen = 2
	parNameLen     = 32
	parLabelLen    = 32
	parSuffixLen   = 4
	parTailPadLen  = 2
)

// Signed descriptor field offsets.
const (
	dscOffConfigHash    = 0
	dscOffArtifactCount = 32
	dscOffPad           = 33
	dscOffArtifacts     = 36
	dscOffFlags         = 324
	dscOffBuildID       = 328

	dscPadLen = 3
)

// Artifact hash record field offsets.
const (
	artOffType = 0
	artOffHash = 4
)

// Layout pins. Each assignment fails to compile if a field offset
// drifts away from its record's frozen size.
var (
	_ [HeaderSize]byte          = [hdrOffWholeHash + HashSize]byte{}
	_ [EntrySize]byte           = [entOffReserved + entReservedLen]byte{}
	_ [ConfigRecordSize]byte    = [cfgOffTailPad + cfgTailPadLen]byte{}
	_ [cfgOffTailPad]byte       = [cfgOffParams + MaxParameters*ParameterRecordSize]byte{}
	_ [ParameterRecordSize]byte = [parOffTailPad + parTailPadLen]byte{}
	_ [parOffSuffix]byte        = [parOffLabels + MaxLabels*parLabelLen]byte{}
	_ [DescriptorSize]byte      = [dscOffBuildID + 4]byte{}
	_ [dscOffFlags]byte         = [dscOffArtifacts + MaxArtifacts*ArtifactHashSize]byte{}
	_ [ArtifactHashSize]byte    = [artOffHash + HashSize]byte{}
)
