package spbm

import "testing"

func TestCatalogCounts(t *testing.T) {
	if got := Count(Power); got != 23 {
		t.Errorf("expected 23 power channels, got %d", got)
	}
	if got := Count(Energy); got != 5 {
		t.Errorf("expected 5 energy channels, got %d", got)
	}
}

func TestCatalogOrder(t *testing.T) {
	wantPower := []string{
		"sys_total", "soc_pkg", "cpu_gpu", "cpu_p", "cpu_e",
		"vcore", "vddq", "dc_input", "gpu_out", "gpc_out",
		"gpu_in", "gpc_in", "sys_in", "prereg_in", "dla_in",
		"dla_out", "pl1", "pl2", "syspl1", "budget_cpu",
		"budget_gpu", "budget_cpu_e", "budget_cpu_p",
	}
	wantEnergy := []string{"pkg", "cpu_e", "cpu_p", "gpc", "gpm"}

	for i, label := range wantPower {
		if got := Channels(Power)[i].Label; got != label {
			t.Errorf("power[%d]: expected %q, got %q", i, label, got)
		}
	}
	for i, label := range wantEnergy {
		if got := Channels(Energy)[i].Label; got != label {
			t.Errorf("energy[%d]: expected %q, got %q", i, label, got)
		}
	}
}

func TestLookupLabel(t *testing.T) {
	ch, ok := LookupLabel(Power, "cpu_p")
	if !ok || ch != 3 {
		t.Errorf("expected power/cpu_p at index 3, got %d (ok=%v)", ch, ok)
	}
	ch, ok = LookupLabel(Energy, "gpm")
	if !ok || ch != 4 {
		t.Errorf("expected energy/gpm at index 4, got %d (ok=%v)", ch, ok)
	}
	// Same label, different kind, different index.
	ch, ok = LookupLabel(Energy, "cpu_p")
	if !ok || ch != 2 {
		t.Errorf("expected energy/cpu_p at index 2, got %d (ok=%v)", ch, ok)
	}
	if _, ok := LookupLabel(Power, "no_such_rail"); ok {
		t.Error("unknown label must not resolve")
	}
}

func TestCatalogOffsets(t *testing.T) {
	// The catalog guards the register map: every offset in-window,
	// word-aligned, and unique within its kind.
	for _, kind := range []Kind{Power, Energy} {
		seen := map[uint32]string{}
		for _, c := range Channels(kind) {
			if c.Offset%4 != 0 {
				t.Errorf("%s/%s: offset 0x%x not word-aligned", kind, c.Label, c.Offset)
			}
			if c.Offset+4 > WindowSize {
				t.Errorf("%s/%s: offset 0x%x outside window", kind, c.Label, c.Offset)
			}
			if prev, dup := seen[c.Offset]; dup {
				t.Errorf("%s: offset 0x%x shared by %s and %s", kind, c.Offset, prev, c.Label)
			}
			seen[c.Offset] = c.Label
		}
	}
}

func TestKnownOffsets(t *testing.T) {
	cases := []struct {
		kind  Kind
		label string
		off   uint32
	}{
		{Power, "sys_total", 0x300},
		{Power, "dc_input", 0x31C},
		{Power, "gpu_out", 0x324},
		{Power, "gpc_out", 0x320},
		{Power, "pl1", 0x160},
		{Power, "budget_cpu_p", 0x684},
		{Energy, "pkg", 0x344},
		{Energy, "gpm", 0x374},
	}
	for _, c := range cases {
		ch, ok := LookupLabel(c.kind, c.label)
		if !ok {
			t.Errorf("%s/%s missing from catalog", c.kind, c.label)
			continue
		}
		if got := Channels(c.kind)[ch].Offset; got != c.off {
			t.Errorf("%s/%s: expected offset 0x%x, got 0x%x", c.kind, c.label, c.off, got)
		}
	}
}
