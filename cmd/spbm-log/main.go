// spbm-log prints power and energy telemetry at a fixed interval,
// either as an aligned table or as CSV for capture.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"spbm-go/drivers/spbm"
	"spbm-go/mmio"
	"spbm-go/platform"
)

func main() {
	var (
		interval  = pflag.Duration("interval", time.Second, "sampling interval")
		asCSV     = pflag.Bool("csv", false, "emit CSV instead of a table")
		energy    = pflag.Bool("energy", false, "include energy channels")
		sim       = pflag.Bool("sim", false, "use the firmware simulator")
		deviceDir = pflag.String("device-dir", platform.DefaultDeviceDir, "platform device sysfs directory")
	)
	pflag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBinding(ctx, *sim, *deviceDir)
	if err != nil {
		log.Error("bind failed", "err", err)
		os.Exit(1)
	}
	defer b.Close()

	if !b.TelemetryActive() {
		log.Warn("power telemetry is inactive", "sanity", b.SanityReading())
	}

	kinds := []spbm.Kind{spbm.Power}
	if *energy {
		kinds = append(kinds, spbm.Energy)
	}

	if *asCSV {
		runCSV(ctx, b, kinds, *interval)
		return
	}
	runTable(ctx, b, kinds, *interval)
}

func openBinding(ctx context.Context, sim bool, deviceDir string) (*spbm.Binding, error) {
	if sim {
		win := mmio.NewSimWindow(spbm.WindowSize)
		fw := spbm.NewFirmwareSim(win)
		go fw.Run(ctx, 100*time.Millisecond)
		return spbm.Bind(win)
	}
	resources, err := platform.DeviceResources(deviceDir)
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
	return spbm.Bind(win)
}

func runTable(ctx context.Context, b *spbm.Binding, kinds []spbm.Kind, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		fmt.Printf("--- %s ---\n", time.Now().Format("15:04:05"))
		for _, kind := range kinds {
			for i, ch := range spbm.Channels(kind) {
				v, err := b.Read(kind, i)
				if err != nil {
					fmt.Printf("%-14s  <%v>\n", ch.Label, err)
					continue
				}
				fmt.Printf("%-14s %12.3f %s\n", ch.Label, float64(v)/1e6, baseUnit(kind))
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

func runCSV(ctx context.Context, b *spbm.Binding, kinds []spbm.Kind, interval time.Duration) {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"ts_ms"}
	for _, kind := range kinds {
		for _, ch := range spbm.Channels(kind) {
			header = append(header, kind.String()+"_"+ch.Label)
		}
	}
	w.Write(header)
	w.Flush()

	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		row := []string{strconv.FormatInt(time.Now().UnixMilli(), 10)}
		for _, kind := range kinds {
			for i := 0; i < spbm.Count(kind); i++ {
				v, err := b.Read(kind, i)
				if err != nil {
					row = append(row, "")
					continue
				}
				row = append(row, strconv.FormatInt(v, 10))
			}
		}
		w.Write(row)
		w.Flush()

		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

func baseUnit(kind spbm.Kind) string {
	if kind == spbm.Energy {
		return "J"
	}
	return "W"
}
