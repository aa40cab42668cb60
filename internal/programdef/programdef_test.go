package programdef

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lzxindustries/videomancer-sdk-sub001/pkg/vmpg"
)

const keyerDef = `
id = "lzx.keyer"
name = "Keyer"
version = "1.2.0"
author = "LZX Industries"
license = "MIT"
category = "keying"
description = "Luma keyer with soft edge control"
url = "https://lzxindustries.net/programs/keyer"
core = "ecp5u45"
hardware = ["rev_a", "rev_b"]
abi = { min = "1.0", max = "2.0" }

[[parameter]]
id = "pot_1"
name = "Threshold"
mode = "linear"
range = { min = 0, max = 1023, initial = 512 }
display = { min = 0, max = 100, digits = 0, suffix = "%" }

[[parameter]]
id = "switch_1"
name = "Range"
mode = "step_2"
range = { min = 0, max = 1, initial = 0 }
display = { min = 0, max = 1 }
labels = ["Low", "High"]
`

func TestConvertKeyer(t *testing.T) {
	t.Parallel()

	def, err := Parse(keyerDef)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err := def.Convert()
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if cfg.ProgramID() != "lzx.keyer" || cfg.ProgramName() != "Keyer" {
		t.Fatalf("identity %q %q", cfg.ProgramID(), cfg.ProgramName())
	}
	if got := cfg.Version().String(); got != "1.2.0" {
		t.Fatalf("version %q", got)
	}
	if cfg.ABIMinMajor != 1 || cfg.ABIMinMinor != 0 || cfg.ABIMaxMajor != 2 || cfg.ABIMaxMinor != 0 {
		t.Fatalf("abi range %d.%d to %d.%d",
			cfg.ABIMinMajor, cfg.ABIMinMinor, cfg.ABIMaxMajor, cfg.ABIMaxMinor)
	}
	if cfg.HWMask != uint32(vmpg.HWRevA|vmpg.HWRevB) {
		t.Fatalf("hardware mask 0x%x", cfg.HWMask)
	}
	if cfg.Core() != vmpg.CoreECP5U45 {
		t.Fatalf("core %s", cfg.Core())
	}
	if cfg.ParamCount != 2 {
		t.Fatalf("parameter count %d", cfg.ParamCount)
	}

	p0 := &cfg.Parameters[0]
	if p0.ID != vmpg.ParamPot1 || p0.Mode != vmpg.CurveLinear {
		t.Fatalf("parameter 0 binding: %s %s", p0.ID, p0.Mode)
	}
	if p0.Min != 0 || p0.Max != 1023 || p0.Initial != 512 {
		t.Fatalf("parameter 0 range %d %d %d", p0.Min, p0.Max, p0.Initial)
	}
	if p0.SuffixText() != "%" {
		t.Fatalf("parameter 0 suffix %q", p0.SuffixText())
	}

	p1 := &cfg.Parameters[1]
	if p1.LabelCount != 2 || p1.Label(0) != "Low" || p1.Label(1) != "High" {
		t.Fatalf("parameter 1 labels: %d %q %q", p1.LabelCount, p1.Label(0), p1.Label(1))
	}
}

func TestConvertRoundTripsThroughWire(t *testing.T) {
	t.Parallel()

	def, err := Parse(keyerDef)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err := def.Convert()
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	b := vmpg.NewBuilder()
	if err := b.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	image, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r, err := vmpg.OpenBytes(image, vmpg.OpenOptions{VerifyHashes: true})
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	got, err := r.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if *got != *cfg {
		t.Fatal("record changed across encode and decode")
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := Parse(keyerDef + "\nfrobnicate = true\n")
	if err == nil || !strings.Contains(err.Error(), "frobnicate") {
		t.Fatalf("unknown key not reported: %v", err)
	}
}

func TestConvertRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Definition)
		want   string
	}{
		{"missing id", func(d *Definition) { d.ID = "" }, "id is required"},
		{"missing name", func(d *Definition) { d.Name = "" }, "name is required"},
		{"bad version", func(d *Definition) { d.Version = "1.2" }, "version"},
		{"abi patch", func(d *Definition) { d.ABI.Min = "1.0.3" }, "patch component"},
		{"abi missing", func(d *Definition) { d.ABI.Max = "" }, "bound is required"},
		{"unknown hardware", func(d *Definition) { d.Hardware = []string{"rev_z"} }, "rev_z"},
		{"no hardware", func(d *Definition) { d.Hardware = nil }, "hardware list"},
		{"unknown core", func(d *Definition) { d.Core = "spartan6" }, "spartan6"},
		{"unknown mode", func(d *Definition) { d.Parameters[0].Mode = "banana" }, "banana"},
		{"unknown param id", func(d *Definition) { d.Parameters[0].ID = "pot_9" }, "pot_9"},
		{"initial outside range", func(d *Definition) { d.Parameters[0].Range.Initial = 2000 }, "initial"},
		{"long id", func(d *Definition) { d.ID = strings.Repeat("x", 64) }, "field holds"},
		{"empty label", func(d *Definition) { d.Parameters[1].Labels = []string{""} }, "empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			def, err := Parse(keyerDef)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			tc.mutate(def)
			_, err = def.Convert()
			if err == nil {
				t.Fatal("invalid definition accepted")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keyer.toml")
	if err := os.WriteFile(path, []byte(keyerDef), 0o644); err != nil {
		t.Fatalf("writing definition: %v", err)
	}
	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if def.ID != "lzx.keyer" {
		t.Fatalf("id %q", def.ID)
	}
}
