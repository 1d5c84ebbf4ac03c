package spbm

import (
	"errors"
	"testing"

	"spbm-go/errcode"
	"spbm-go/mmio"
	"spbm-go/sensors"
)

func TestChipVisible(t *testing.T) {
	b, _ := bindSim(t)
	defer b.Close()
	c := b.Chip()

	if !c.Visible(sensors.KindPower, 0) || !c.Visible(sensors.KindPower, Count(Power)-1) {
		t.Error("in-range power channels must be visible")
	}
	if !c.Visible(sensors.KindEnergy, Count(Energy)-1) {
		t.Error("in-range energy channels must be visible")
	}
	if c.Visible(sensors.KindPower, Count(Power)) || c.Visible(sensors.KindPower, -1) {
		t.Error("out-of-range channels must not be visible")
	}
	if c.Visible("temperature", 0) {
		t.Error("unknown kinds must not be visible")
	}
}

func TestChipRead(t *testing.T) {
	b, win := bindSim(t)
	defer b.Close()
	c := b.Chip()

	win.Write32(regCPUE, 2500)
	v, err := c.Read(sensors.KindPower, PowerCPUE)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v != 2_500_000 {
		t.Errorf("expected 2500000, got %d", v)
	}

	label, err := c.ReadLabel(sensors.KindEnergy, EnergyPkg)
	if err != nil || label != "pkg" {
		t.Errorf("label: %q %v", label, err)
	}

	if _, err := c.Read("temperature", 0); !errors.Is(err, errcode.Unsupported) {
		t.Errorf("unknown kind: expected unsupported, got %v", err)
	}
	if _, err := c.ReadLabel("current", 0); !errors.Is(err, errcode.Unsupported) {
		t.Errorf("unknown kind: expected unsupported, got %v", err)
	}
}

func TestChipSeesLiveRegisters(t *testing.T) {
	win := mmio.NewSimWindow(WindowSize)
	win.Write32(regSysTotal, 30000)
	b, err := Bind(win)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer b.Close()
	c := b.Chip()

	v1, _ := c.Read(sensors.KindPower, PowerSysTotal)
	win.Write32(regSysTotal, 31000)
	v2, _ := c.Read(sensors.KindPower, PowerSysTotal)
	if v1 != 30_000_000 || v2 != 31_000_000 {
		t.Errorf("stale read through chip: %d/%d", v1, v2)
	}
}
