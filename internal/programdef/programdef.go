// Package programdef loads textual program definitions and converts
// them into VMPG program config records. A definition is the
// human-edited side of a program: the packer turns it into the binary
// record that ships inside a package.
package programdef

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/coreos/go-semver/semver"

	"github.com/lzxindustries/videomancer-sdk-sub001/pkg/vmpg"
)

// Definition mirrors the TOML program definition file.
type Definition struct {
	ID          string   `toml:"id"`
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Author      string   `toml:"author"`
	License     string   `toml:"license"`
	Category    string   `toml:"category"`
	Description string   `toml:"description"`
	URL         string   `toml:"url"`
	Core        string   `toml:"core"`
	Hardware    []string `toml:"hardware"`
	ABI         ABIRange `toml:"abi"`

	Parameters []ParameterDef `toml:"parameter"`
}

// ABIRange is the device ABI compatibility window, half-open on the
// upper bound. Bounds are "major.minor" strings; a patch component, if
// present, must be zero.
type ABIRange struct {
	Min string `toml:"min"`
	Max string `toml:"max"`
}

// ParameterDef is one [[parameter]] table.
type ParameterDef struct {
	ID      string     `toml:"id"`
	Name    string     `toml:"name"`
	Mode    string     `toml:"mode"`
	Range   ValueRange `toml:"range"`
	Display DisplayDef `toml:"display"`
	Labels  []string   `toml:"labels"`
}

// ValueRange is a parameter's raw control range.
type ValueRange struct {
	Min     int64 `toml:"min"`
	Max     int64 `toml:"max"`
	Initial int64 `toml:"initial"`
}

// DisplayDef is how a parameter value is shown on the device.
type DisplayDef struct {
	Min    int64  `toml:"min"`
	Max    int64  `toml:"max"`
	Digits int64  `toml:"digits"`
	Suffix string `toml:"suffix"`
}

// Load reads and decodes a definition file. Keys the schema does not
// know are errors: a typo in a definition must not silently drop a
// field.
func Load(path string) (*Definition, error) {
	var def Definition
	meta, err := toml.DecodeFile(path, &def)
	if err != nil {
		return nil, fmt.Errorf("programdef: %w", err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("programdef: unknown keys: %s", strings.Join(keys, ", "))
	}
	return &def, nil
}

// Parse decodes a definition from TOML text.
func Parse(data string) (*Definition, error) {
	var def Definition
	meta, err := toml.Decode(data, &def)
	if err != nil {
		return nil, fmt.Errorf("programdef: %w", err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("programdef: unknown keys: %s", strings.Join(keys, ", "))
	}
	return &def, nil
}

// Convert builds the binary config record from the definition. The
// returned record has passed vmpg validation; encoding it yields the
// exact bytes the packer stores.
func (d *Definition) Convert() (*vmpg.ProgramConfig, error) {
	var cfg vmpg.ProgramConfig

	if d.ID == "" {
		return nil, errors.New("programdef: id is required")
	}
	if d.Name == "" {
		return nil, errors.New("programdef: name is required")
	}
	if err := vmpg.SetCString(cfg.ID[:], d.ID); err != nil {
		return nil, fmt.Errorf("programdef: id: %w", err)
	}
	if err := vmpg.SetCString(cfg.Name[:], d.Name); err != nil {
		return nil, fmt.Errorf("programdef: name: %w", err)
	}
	for _, opt := range []struct {
		field string
		dst   []byte
		src   string
	}{
		{"author", cfg.Author[:], d.Author},
		{"license", cfg.License[:], d.License},
		{"category", cfg.Category[:], d.Category},
		{"description", cfg.Description[:], d.Description},
		{"url", cfg.URL[:], d.URL},
	} {
		if err := vmpg.SetCString(opt.dst, opt.src); err != nil {
			return nil, fmt.Errorf("programdef: %s: %w", opt.field, err)
		}
	}

	ver, err := semver.NewVersion(d.Version)
	if err != nil {
		return nil, fmt.Errorf("programdef: version %q: %w", d.Version, err)
	}
	if ver.Major > math.MaxUint16 || ver.Minor > math.MaxUint16 || ver.Patch > math.MaxUint16 {
		return nil, fmt.Errorf("programdef: version %q does not fit the record", d.Version)
	}
	cfg.VerMajor = uint16(ver.Major)
	cfg.VerMinor = uint16(ver.Minor)
	cfg.VerPatch = uint16(ver.Patch)

	cfg.ABIMinMajor, cfg.ABIMinMinor, err = parseABIBound(d.ABI.Min)
	if err != nil {
		return nil, fmt.Errorf("programdef: abi.min: %w", err)
	}
	cfg.ABIMaxMajor, cfg.ABIMaxMinor, err = parseABIBound(d.ABI.Max)
	if err != nil {
		return nil, fmt.Errorf("programdef: abi.max: %w", err)
	}

	if len(d.Hardware) == 0 {
		return nil, errors.New("programdef: hardware list is required")
	}
	for _, name := range d.Hardware {
		flag, err := vmpg.ParseHWFlag(name)
		if err != nil {
			return nil, fmt.Errorf("programdef: hardware: %w", err)
		}
		cfg.HWMask |= uint32(flag)
	}

	core, err := vmpg.ParseCoreArch(d.Core)
	if err != nil {
		return nil, fmt.Errorf("programdef: core: %w", err)
	}
	cfg.CoreID = uint32(core)

	if len(d.Parameters) > vmpg.MaxParameters {
		return nil, fmt.Errorf("programdef: %d parameters, at most %d", len(d.Parameters), vmpg.MaxParameters)
	}
	cfg.ParamCount = uint16(len(d.Parameters))
	for i := range d.Parameters {
		if err := d.Parameters[i].convertInto(&cfg.Parameters[i]); err != nil {
			return nil, fmt.Errorf("programdef: parameter %d: %w", i, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("programdef: converted record invalid: %w", err)
	}
	return &cfg, nil
}

func (pd *ParameterDef) convertInto(p *vmpg.Parameter) error {
	id, err := vmpg.ParseParamID(pd.ID)
	if err != nil {
		return err
	}
	p.ID = id

	mode, err := vmpg.ParseCurveMode(pd.Mode)
	if err != nil {
		return err
	}
	p.Mode = mode

	if pd.Name == "" {
		return errors.New("name is required")
	}
	if err := vmpg.SetCString(p.Name[:], pd.Name); err != nil {
		return fmt.Errorf("name: %w", err)
	}
	if err := vmpg.SetCString(p.Suffix[:], pd.Display.Suffix); err != nil {
		return fmt.Errorf("display.suffix: %w", err)
	}

	p.Min, err = toU16("range.min", pd.Range.Min)
	if err != nil {
		return err
	}
	p.Max, err = toU16("range.max", pd.Range.Max)
	if err != nil {
		return err
	}
	p.Initial, err = toU16("range.initial", pd.Range.Initial)
	if err != nil {
		return err
	}
	p.DisplayMin, err = toI16("display.min", pd.Display.Min)
	if err != nil {
		return err
	}
	p.DisplayMax, err = toI16("display.max", pd.Display.Max)
	if err != nil {
		return err
	}
	if pd.Display.Digits < 0 || pd.Display.Digits > math.MaxUint8 {
		return fmt.Errorf("display.digits %d out of range", pd.Display.Digits)
	}
	p.DisplayDigits = uint8(pd.Display.Digits)

	if len(pd.Labels) > vmpg.MaxLabels {
		return fmt.Errorf("%d labels, at most %d", len(pd.Labels), vmpg.MaxLabels)
	}
	p.LabelCount = uint8(len(pd.Labels))
	for i, label := range pd.Labels {
		if label == "" {
			return fmt.Errorf("label %d is empty", i)
		}
		if err := vmpg.SetCString(p.Labels[i][:], label); err != nil {
			return fmt.Errorf("label %d: %w", i, err)
		}
	}
	return nil
}

// parseABIBound parses a "major.minor" ABI bound. A full semver triple
// is also accepted when its patch component is zero: the record has no
// patch field for ABI bounds.
func parseABIBound(s string) (major, minor uint16, err error) {
	if s == "" {
		return 0, 0, errors.New("bound is required")
	}
	padded := s
	if strings.Count(s, ".") == 1 {
		padded = s + ".0"
	}
	v, err := semver.NewVersion(padded)
	if err != nil {
		return 0, 0, fmt.Errorf("bound %q: %w", s, err)
	}
	if v.Patch != 0 {
		return 0, 0, fmt.Errorf("bound %q has a patch component", s)
	}
	if v.Major > math.MaxUint16 || v.Minor > math.MaxUint16 {
		return 0, 0, fmt.Errorf("bound %q does not fit the record", s)
	}
	return uint16(v.Major), uint16(v.Minor), nil
}

func toU16(field string, v int64) (uint16, error) {
	if v < 0 || v > math.MaxUint16 {
		return 0, fmt.Errorf("%s %d out of range", field, v)
	}
	return uint16(v), nil
}

func toI16(field string, v int64) (int16, error) {
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, fmt.Errorf("%s %d out of range", field, v)
	}
	return int16(v), nil
}
