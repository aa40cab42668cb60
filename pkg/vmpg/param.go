package vmpg

import (
	"encoding/binary"
	"fmt"
)

// Parameter is one parameter record of a program config. String
// fields are fixed zero-terminated buffers exactly as on the wire;
// use CString or the accessors for display.
type Parameter struct {
	ID            ParamID
	Mode          CurveMode
	Min           uint16
	Max           uint16
	Initial       uint16
	DisplayMin    int16
	DisplayMax    int16
	DisplayDigits uint8
	LabelCount    uint8
	reserved      [parReservedLen]byte
	Name          [parNameLen]byte
	Labels        [MaxLabels][parLabelLen]byte
	Suffix        [parSuffixLen]byte
	tailPad       [parTailPadLen]byte
}

// ParamName returns the parameter's display name.
func (p *Parameter) ParamName() string {
	return CString(p.Name[:])
}

// Label returns the label for a discrete position, or "" when the
// index is outside the used label slots.
func (p *Parameter) Label(i int) string {
	if i < 0 || i >= int(p.LabelCount) || i >= MaxLabels {
		return ""
	}
	return CString(p.Labels[i][:])
}

// SuffixText returns the display suffix, for example "%" or "dB".
func (p *Parameter) SuffixText() string {
	return CString(p.Suffix[:])
}

// Validate checks a used parameter slot. Counts are range-checked
// before the slots they govern are visited.
func (p *Parameter) Validate() error {
	if p.ID > ParamIDMax {
		return fmt.Errorf("%w: parameter id %d", ErrFieldRange, uint32(p.ID))
	}
	if p.Mode > CurveModeMax {
		return fmt.Errorf("%w: curve mode %d", ErrFieldRange, uint32(p.Mode))
	}
	if p.Min > p.Max {
		return fmt.Errorf("%w: min %d above max %d", ErrFieldRange, p.Min, p.Max)
	}
	if p.Initial < p.Min || p.Initial > p.Max {
		return fmt.Errorf("%w: initial %d outside [%d,%d]", ErrFieldRange, p.Initial, p.Min, p.Max)
	}
	if p.DisplayMin > p.DisplayMax {
		return fmt.Errorf("%w: display min %d above max %d", ErrFieldRange, p.DisplayMin, p.DisplayMax)
	}
	if p.LabelCount > MaxLabels {
		return fmt.Errorf("%w: label count %d", ErrCountRange, p.LabelCount)
	}
	if !allZero(p.reserved[:]) || !allZero(p.tailPad[:]) {
		return fmt.Errorf("%w: parameter reserved bytes", ErrReservedNotZero)
	}
	if s, ok := terminatedString(p.Name[:]); !ok || s == "" {
		return fmt.Errorf("%w: parameter name", ErrStringTermination)
	}
	for i := 0; i < MaxLabels; i++ {
		if i < int(p.LabelCount) {
			if s, ok := terminatedString(p.Labels[i][:]); !ok || s == "" {
				return fmt.Errorf("%w: label %d", ErrStringTermination, i)
			}
			continue
		}
		if !allZero(p.Labels[i][:]) {
			return fmt.Errorf("%w: unused label slot %d not zero", ErrFieldRange, i)
		}
	}
	if _, ok := terminatedString(p.Suffix[:]); !ok {
		return fmt.Errorf("%w: suffix", ErrStringTermination)
	}
	return nil
}

func decodeParameter(buf []byte) (Parameter, bool) {
	var p Parameter
	if len(buf) != ParameterRecordSize {
		return p, false
	}
	p.ID = ParamID(binary.LittleEndian.Uint32(buf[parOffID:]))
	p.Mode = CurveMode(binary.LittleEndian.Uint32(buf[parOffMode:]))
	p.Min = binary.LittleEndian.Uint16(buf[parOffMin:])
	p.Max = binary.LittleEndian.Uint16(buf[parOffMax:])
	p.Initial = binary.LittleEndian.Uint16(buf[parOffInitial:])
	p.DisplayMin = int16(binary.LittleEndian.Uint16(buf[parOffDisplayMin:]))
	p.DisplayMax = int16(binary.LittleEndian.Uint16(buf[parOffDisplayMax:]))
	p.DisplayDigits = buf[parOffDisplayDigits]
	p.LabelCount = buf[parOffLabelCount]
	copy(p.reserved[:], buf[parOffReserved:parOffReserved+parReservedLen])
	copy(p.Name[:], buf[parOffName:parOffName+parNameLen])
	for i := 0; i < MaxLabels; i++ {
		off := parOffLabels + i*parLabelLen
		copy(p.Labels[i][:], buf[off:off+parLabelLen])
	}
	copy(p.Suffix[:], buf[parOffSuffix:parOffSuffix+parSuffixLen])
	copy(p.tailPad[:], buf[parOffTailPad:parOffTailPad+parTailPadLen])
	return p, true
}

func encodeParameter(dst []byte, p Parameter) bool {
	if len(dst) != ParameterRecordSize {
		return false
	}
	binary.LittleEndian.PutUint32(dst[parOffID:], uint32(p.ID))
	binary.LittleEndian.PutUint32(dst[parOffMode:], uint32(p.Mode))
	binary.LittleEndian.PutUint16(dst[parOffMin:], p.Min)
	binary.LittleEndian.PutUint16(dst[parOffMax:], p.Max)
	binary.LittleEndian.PutUint16(dst[parOffInitial:], p.Initial)
	binary.LittleEndian.PutUint16(dst[parOffDisplayMin:], uint16(p.DisplayMin))
	binary.LittleEndian.PutUint16(dst[parOffDisplayMax:], uint16(p.DisplayMax))
	dst[parOffDisplayDigits] = p.DisplayDigits
	dst[parOffLabelCount] = p.LabelCount
	copy(dst[parOffReserved:parOffReserved+parReservedLen], p.reserved[:])
	copy(dst[parOffName:parOffName+parNameLen], p.Name[:])
	for i := 0; i < MaxLabels; i++ {
		off := parOffLabels + i*parLabelLen
		copy(dst[off:off+parLabelLen], p.Labels[i][:])
	}
	copy(dst[parOffSuffix:parOffSuffix+parSuffixLen], p.Suffix[:])
	copy(dst[parOffTailPad:parOffTailPad+parTailPadLen], p.tailPad[:])
	return true
}
