package vmpg

import (
	"reflect"
	"testing"
)

func TestHWFlagNames(t *testing.T) {
	t.Parallel()

	f, err := ParseHWFlag("rev_b")
	if err != nil || f != HWRevB {
		t.Fatalf("ParseHWFlag(rev_b) = %v, %v", f, err)
	}
	if _, err := ParseHWFlag("rev_z"); err == nil {
		t.Fatal("unknown revision accepted")
	}

	mask := uint32(HWRevA|HWRevC) | 1<<8
	got := HWMaskNames(mask)
	want := []string{"rev_a", "rev_c", "hw_0x100"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("HWMaskNames = %v, want %v", got, want)
	}
}

func TestCoreArchNames(t *testing.T) {
	t.Parallel()

	a, err := ParseCoreArch("ecp5u45")
	if err != nil || a != CoreECP5U45 {
		t.Fatalf("ParseCoreArch(ecp5u45) = %v, %v", a, err)
	}
	if a.String() != "ecp5u45" {
		t.Fatalf("String = %q", a.String())
	}
	if _, err := ParseCoreArch("none"); err == nil {
		t.Fatal("core none accepted")
	}
	if _, err := ParseCoreArch("spartan6"); err == nil {
		t.Fatal("unknown core accepted")
	}
	if got := CoreArch(99).String(); got != "core_99" {
		t.Fatalf("unknown core renders %q", got)
	}
}
