package spbm

import (
	"context"
	"math/rand"
	"time"

	"spbm-go/mmio"
)

// Baseline power figures for the simulated firmware, milliwatts.
// Roughly a half-loaded DGX Spark.
var simPowerBase = map[string]uint32{
	"sys_total": 45000,
	"soc_pkg":   24000,
	"cpu_gpu":   18000,
	"cpu_p":     6500,
	"cpu_e":     2500,
	"vcore":     5200,
	"vddq":      1800,
	"dc_input":  47000,
	"gpu_out":   11000,
	"gpc_out":   10500,
	"gpu_in":    12000,
	"gpc_in":    11500,
	"sys_in":    46000,
	"prereg_in": 46500,
	"dla_in":    900,
	"dla_out":   800,
}

// Limits and budgets are policy values: the firmware holds them steady.
var simPowerStatic = map[string]uint32{
	"pl1":          100000,
	"pl2":          140000,
	"syspl1":       150000,
	"budget_cpu":   65000,
	"budget_gpu":   100000,
	"budget_cpu_e": 15000,
	"budget_cpu_p": 50000,
}

// Which power rail feeds each energy accumulator.
var simEnergySource = map[string]string{
	"pkg":   "soc_pkg",
	"cpu_e": "cpu_e",
	"cpu_p": "cpu_p",
	"gpc":   "gpc_out",
	"gpm":   "gpu_out",
}

// FirmwareSim drives a SimWindow the way the SPBM control loop drives
// the hardware window: power registers jitter around their baseline and
// energy accumulators integrate power over time, wrapping at 32 bits.
// Used by tests and the clients' --sim mode.
type FirmwareSim struct {
	win  *mmio.SimWindow
	acc  map[string]float64 // millijoules, pre-truncation
	last time.Time
}

func NewFirmwareSim(win *mmio.SimWindow) *FirmwareSim {
	s := &FirmwareSim{win: win, acc: map[string]float64{}, last: time.Now()}
	for label, mw := range simPowerBase {
		s.writePower(label, mw)
	}
	for label, mw := range simPowerStatic {
		s.writePower(label, mw)
	}
	return s
}

func (s *FirmwareSim) writePower(label string, mw uint32) {
	if ch, ok := LookupLabel(Power, label); ok {
		s.win.Write32(powerChannels[ch].Offset, mw)
	}
}

// Step advances the simulation to now: jitters the live rails by up to
// ±10% and integrates the energy counters.
func (s *FirmwareSim) Step() {
	now := time.Now()
	dt := now.Sub(s.last).Seconds()
	s.last = now

	for label, base := range simPowerBase {
		spread := int64(base) / 10
		if spread == 0 {
			spread = 1
		}
		mw := int64(base) + rand.Int63n(2*spread+1) - spread
		s.writePower(label, uint32(mw))
	}

	for label, src := range simEnergySource {
		ch, ok := LookupLabel(Power, src)
		if !ok {
			continue
		}
		mw := s.win.Read32(powerChannels[ch].Offset)
		s.acc[label] += float64(mw) * dt // mW * s = mJ
		if ech, ok := LookupLabel(Energy, label); ok {
			s.win.Write32(energyChannels[ech].Offset, uint32(uint64(s.acc[label])))
		}
	}
}

// Run steps the simulation on a fixed period until ctx is cancelled.
func (s *FirmwareSim) Run(ctx context.Context, period time.Duration) {
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Step()
		}
	}
}
