package vmpg

import "fmt"

// HWFlag is one bit of a config record's hardware-compatibility mask.
// Each bit names a Videomancer hardware revision the program runs on;
// a program declares every revision it was built and tested for.
type HWFlag uint32

const (
	HWRevA HWFlag = 1 << 0
	HWRevB HWFlag = 1 << 1
	HWRevC HWFlag = 1 << 2
	HWRevD HWFlag = 1 << 3

	// HWMaskKnown covers every assigned hardware bit.
	HWMaskKnown = uint32(HWRevA | HWRevB | HWRevC | HWRevD)
)

var hwFlagNames = [...]string{"rev_a", "rev_b", "rev_c", "rev_d"}

func (f HWFlag) String() string {
	for i, name := range hwFlagNames {
		if f == 1<<i {
			return name
		}
	}
	return fmt.Sprintf("hw_0x%x", uint32(f))
}

// ParseHWFlag resolves a canonical hardware revision name.
func ParseHWFlag(s string) (HWFlag, error) {
	for i, name := range hwFlagNames {
		if name == s {
			return 1 << i, nil
		}
	}
	return 0, fmt.Errorf("unknown hardware revision %q", s)
}

// HWMaskNames expands a hardware mask into revision names, lowest bit
// first. Bits this version does not know render numerically so that
// packages from newer tools still inspect cleanly.
func HWMaskNames(mask uint32) []string {
	var names []string
	for bit := 0; bit < 32; bit++ {
		f := HWFlag(1) << bit
		if mask&uint32(f) != 0 {
			names = append(names, f.String())
		}
	}
	return names
}

// CoreArch identifies the FPGA core architecture a program's
// bitstreams target.
type CoreArch uint32

const (
	CoreArchNone CoreArch = 0
	CoreECP5U12  CoreArch = 1
	CoreECP5U25  CoreArch = 2
	CoreECP5U45  CoreArch = 3
	CoreECP5U85  CoreArch = 4

	// CoreArchMax is the highest assigned core architecture.
	CoreArchMax = CoreECP5U85
)

var coreArchNames = [...]string{"none", "ecp5u12", "ecp5u25", "ecp5u45", "ecp5u85"}

func (a CoreArch) String() string {
	if int(a) < len(coreArchNames) {
		return coreArchNames[a]
	}
	return fmt.Sprintf("core_%d", uint32(a))
}

// ParseCoreArch resolves a canonical core architecture name. "none" is
// not a valid target and is rejected.
func ParseCoreArch(s string) (CoreArch, error) {
	for i, name := range coreArchNames {
		if name == s && CoreArch(i) != CoreArchNone {
			return CoreArch(i), nil
		}
	}
	return CoreArchNone, fmt.Errorf("unknown core architecture %q", s)
}

// Core returns the config record's core architecture.
func (c *ProgramConfig) Core() CoreArch {
	return CoreArch(c.CoreID)
}

// Hardware returns the names of the hardware revisions the config
// record declares compatibility with.
func (c *ProgramConfig) Hardware() []string {
	return HWMaskNames(c.HWMask)
}
