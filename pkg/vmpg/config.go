package vmpg

import (
	"encoding/binary"
	"fmt"

	"github.com/coreos/go-semver/semver"
)

// ProgramConfig is the decoded program config record: the program's
// identity, versioning, compatibility envelope, and its parameter set.
// Fixed string fields are kept as wire buffers; use the accessors for
// display.
type ProgramConfig struct {
	ID          [cfgIDLen]byte
	VerMajor    uint16
	VerMinor    uint16
	VerPatch    uint16
	ABIMinMajor uint16
	ABIMinMinor uint16
	ABIMaxMajor uint16
	ABIMaxMinor uint16
	HWMask      uint32
	CoreID      uint32
	Name        [cfgNameLen]byte
	Author      [cfgAuthorLen]byte
	License     [cfgLicenseLen]byte
	Category    [cfgCategoryLen]byte
	Description [cfgDescriptionLen]byte
	URL         [cfgURLLen]byte
	ParamCount  uint16
	reserved    uint16
	Parameters  [MaxParameters]Parameter
	tailPad     [cfgTailPadLen]byte
}

// ProgramID returns the program's unique identifier string.
func (c *ProgramConfig) ProgramID() string {
	return CString(c.ID[:])
}

// ProgramName returns the program's display name.
func (c *ProgramConfig) ProgramName() string {
	return CString(c.Name[:])
}

// Version returns the program's semantic version.
func (c *ProgramConfig) Version() semver.Version {
	return semver.Version{
		Major: int64(c.VerMajor),
		Minor: int64(c.VerMinor),
		Patch: int64(c.VerPatch),
	}
}

// SupportsABI reports whether a device ABI version falls inside the
// program's half-open ABI range [min, max). Comparison is
// lexicographic on (major, minor).
func (c *ProgramConfig) SupportsABI(major, minor uint16) bool {
	return !abiBefore(major, minor, c.ABIMinMajor, c.ABIMinMinor) &&
		abiBefore(major, minor, c.ABIMaxMajor, c.ABIMaxMinor)
}

// abiBefore reports (aMajor, aMinor) < (bMajor, bMinor).
func abiBefore(aMajor, aMinor, bMajor, bMinor uint16) bool {
	if aMajor != bMajor {
		return aMajor < bMajor
	}
	return aMinor < bMinor
}

// Validate checks the whole record. The parameter count is
// range-checked before any slot is visited; slots past the count are
// carried but not validated.
func (c *ProgramConfig) Validate() error {
	if s, ok := terminatedString(c.ID[:]); !ok || s == "" {
		return fmt.Errorf("%w: program id", ErrStringTermination)
	}
	if s, ok := terminatedString(c.Name[:]); !ok || s == "" {
		return fmt.Errorf("%w: program name", ErrStringTermination)
	}
	for _, opt := range []struct {
		field string
		buf   []byte
	}{
		{"author", c.Author[:]},
		{"license", c.License[:]},
		{"category", c.Category[:]},
		{"description", c.Description[:]},
		{"url", c.URL[:]},
	} {
		if _, ok := terminatedString(opt.buf); !ok {
			return fmt.Errorf("%w: %s", ErrStringTermination, opt.field)
		}
	}
	if c.ABIMinMajor == 0 && c.ABIMinMinor == 0 {
		return fmt.Errorf("%w: abi minimum is 0.0", ErrFieldRange)
	}
	if c.ABIMaxMajor == 0 && c.ABIMaxMinor == 0 {
		return fmt.Errorf("%w: abi maximum is 0.0", ErrFieldRange)
	}
	if abiBefore(c.ABIMaxMajor, c.ABIMaxMinor, c.ABIMinMajor, c.ABIMinMinor) {
		return fmt.Errorf("%w: abi range %d.%d to %d.%d inverted", ErrFieldRange,
			c.ABIMinMajor, c.ABIMinMinor, c.ABIMaxMajor, c.ABIMaxMinor)
	}
	if c.HWMask == 0 {
		return fmt.Errorf("%w: hardware mask is zero", ErrFieldRange)
	}
	if c.CoreID == 0 {
		return fmt.Errorf("%w: core id is zero", ErrFieldRange)
	}
	if c.ParamCount > MaxParameters {
		return fmt.Errorf("%w: parameter count %d", ErrCountRange, c.ParamCount)
	}
	if c.reserved != 0 || !allZero(c.tailPad[:]) {
		return fmt.Errorf("%w: config reserved bytes", ErrReservedNotZero)
	}
	for i := 0; i < int(c.ParamCount); i++ {
		if err := c.Parameters[i].Validate(); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
	}
	return nil
}

// DecodeConfigRecord decodes and validates a standalone config record,
// for tools that handle the record outside a package.
func DecodeConfigRecord(buf []byte) (*ProgramConfig, error) {
	if len(buf) != ConfigRecordSize {
		return nil, fmt.Errorf("%w: record is %d bytes, want %d", ErrPayloadSize, len(buf), ConfigRecordSize)
	}
	c, ok := decodeConfig(buf)
	if !ok {
		return nil, fmt.Errorf("%w: config record", ErrTruncated)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// EncodeConfigRecord validates and encodes a config record to its wire
// form.
func EncodeConfigRecord(c *ProgramConfig) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, ConfigRecordSize)
	if !encodeConfig(buf, *c) {
		return nil, fmt.Errorf("%w: config record", ErrPayloadSize)
	}
	return buf, nil
}

func decodeConfig(buf []byte) (ProgramConfig, bool) {
	var c ProgramConfig
	if len(buf) != ConfigRecordSize {
		return c, false
	}
	copy(c.ID[:], buf[cfgOffID:cfgOffID+cfgIDLen])
	c.VerMajor = binary.LittleEndian.Uint16(buf[cfgOffVerMajor:])
	c.VerMinor = binary.LittleEndian.Uint16(buf[cfgOffVerMinor:])
	c.VerPatch = binary.LittleEndian.Uint16(buf[cfgOffVerPatch:])
	c.ABIMinMajor = binary.LittleEndian.Uint16(buf[cfgOffABIMinMajor:])
	c.ABIMinMinor = binary.LittleEndian.Uint16(buf[cfgOffABIMinMinor:])
	c.ABIMaxMajor = binary.LittleEndian.Uint16(buf[cfgOffABIMaxMajor:])
	c.ABIMaxMinor = binary.LittleEndian.Uint16(buf[cfgOffABIMaxMinor:])
	c.HWMask = binary.LittleEndian.Uint32(buf[cfgOffHWMask:])
	c.CoreID = binary.LittleEndian.Uint32(buf[cfgOffCoreID:])
	copy(c.Name[:], buf[cfgOffName:cfgOffName+cfgNameLen])
	copy(c.Author[:], buf[cfgOffAuthor:cfgOffAuthor+cfgAuthorLen])
	copy(c.License[:], buf[cfgOffLicense:cfgOffLicense+cfgLicenseLen])
	copy(c.Category[:], buf[cfgOffCategory:cfgOffCategory+cfgCategoryLen])
	copy(c.Description[:], buf[cfgOffDescription:cfgOffDescription+cfgDescriptionLen])
	copy(c.URL[:], buf[cfgOffURL:cfgOffURL+cfgURLLen])
	c.ParamCount = binary.LittleEndian.Uint16(buf[cfgOffParamCount:])
	c.reserved = binary.LittleEndian.Uint16(buf[cfgOffReserved:])
	for i := 0; i < MaxParameters; i++ {
		off := cfgOffParams + i*ParameterRecordSize
		p, ok := decodeParameter(buf[off : off+ParameterRecordSize])
		if !ok {
			return c, false
		}
		c.Parameters[i] = p
	}
	copy(c.tailPad[:], buf[cfgOffTailPad:cfgOffTailPad+cfgTailPadLen])
	return c, true
}

func encodeConfig(dst []byte, c ProgramConfig) bool {
	if len(dst) != ConfigRecordSize {
		return false
	}
	copy(dst[cfgOffID:cfgOffID+cfgIDLen], c.ID[:])
	binary.LittleEndian.PutUint16(dst[cfgOffVerMajor:], c.VerMajor)
	binary.LittleEndian.PutUint16(dst[cfgOffVerMinor:], c.VerMinor)
	binary.LittleEndian.PutUint16(dst[cfgOffVerPatch:], c.VerPatch)
	binary.LittleEndian.PutUint16(dst[cfgOffABIMinMajor:], c.ABIMinMajor)
	binary.LittleEndian.PutUint16(dst[cfgOffABIMinMinor:], c.ABIMinMinor)
	binary.LittleEndian.PutUint16(dst[cfgOffABIMaxMajor:], c.ABIMaxMajor)
	binary.LittleEndian.PutUint16(dst[cfgOffABIMaxMinor:], c.ABIMaxMinor)
	binary.LittleEndian.PutUint32(dst[cfgOffHWMask:], c.HWMask)
	binary.LittleEndian.PutUint32(dst[cfgOffCoreID:], c.CoreID)
	copy(dst[cfgOffName:cfgOffName+cfgNameLen], c.Name[:])
	copy(dst[cfgOffAuthor:cfgOffAuthor+cfgAuthorLen], c.Author[:])
	copy(dst[cfgOffLicense:cfgOffLicense+cfgLicenseLen], c.License[:])
	copy(dst[cfgOffCategory:cfgOffCategory+cfgCategoryLen], c.Category[:])
	copy(dst[cfgOffDescription:cfgOffDescription+cfgDescriptionLen], c.Description[:])
	copy(dst[cfgOffURL:cfgOffURL+cfgURLLen], c.URL[:])
	binary.LittleEndian.PutUint16(dst[cfgOffParamCount:], c.ParamCount)
	binary.LittleEndian.PutUint16(dst[cfgOffReserved:], c.reserved)
	for i := 0; i < MaxParameters; i++ {
		off := cfgOffParams + i*ParameterRecordSize
		if !encodeParameter(dst[off:off+ParameterRecordSize], c.Parameters[i]) {
			return false
		}
	}
	copy(dst[cfgOffTailPad:cfgOffTailPad+cfgTailPadLen], c.tailPad[:])
	return true
}
