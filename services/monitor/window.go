package monitor

import (
	"context"
	"time"

	"spbm-go/drivers/spbm"
	"spbm-go/mmio"
	"spbm-go/platform"
	"spbm-go/types"
)

// WindowSource opens the telemetry window a configuration names.
type WindowSource interface {
	Open(ctx context.Context, cfg types.MonitorConfig) (mmio.Window, error)
}

// HardwareSource resolves the window through the platform device's
// resource list and maps it from physical memory.
type HardwareSource struct{}

func (HardwareSource) Open(ctx context.Context, cfg types.MonitorConfig) (mmio.Window, error) {
	dir := cfg.DeviceDir
	if dir == "" {
		dir = platform.DefaultDeviceDir
	}
	resources, err := platform.DeviceResources(dir)
	if err != nil {
		return nil, err
	}
	mem, err := platform.ResolveTelemetryWindow(resources)
	if err != nil {
		return nil, err
	}
	win, err := mmio.Open(mem.Start, spbm.WindowSize)
	if err != nil {
		return nil, err
	}
	return win, nil
}

// SimSource backs the window with the firmware simulator, stepped on
// its own ticker until ctx ends. Used by the clients' --sim mode.
type SimSource struct {
	// StepPeriod defaults to 100ms.
	StepPeriod time.Duration
}

func (s SimSource) Open(ctx context.Context, cfg types.MonitorConfig) (mmio.Window, error) {
	period := s.StepPeriod
	if period <= 0 {
		period = 100 * time.Millisecond
	}
	win := mmio.NewSimWindow(spbm.WindowSize)
	sim := spbm.NewFirmwareSim(win)
	go sim.Run(ctx, period)
	return win, nil
}
