// spbmd binds the firmware power telemetry window, publishes samples on
// the in-process bus and serves read_now/set_rate control requests.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"spbm-go/bus"
	"spbm-go/services/config"
	"spbm-go/services/heartbeat"
	"spbm-go/services/monitor"
	"spbm-go/types"
)

func main() {
	var (
		configPath = pflag.String("config", config.DefaultPath, "configuration file")
		deviceDir  = pflag.String("device-dir", "", "platform device sysfs directory")
		intervalMs = pflag.Uint32("interval", 0, "sampling period in ms")
		sim        = pflag.Bool("sim", false, "use the firmware simulator instead of hardware")
		verbose    = pflag.BoolP("verbose", "v", false, "debug logging")
	)
	pflag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgSvc := config.NewService(*configPath)
	sections, err := cfgSvc.Load()
	if err != nil {
		log.Error("config load failed", "path", *configPath, "err", err)
		os.Exit(1)
	}
	mon := monitorSection(sections)
	if pflag.CommandLine.Changed("device-dir") {
		mon.DeviceDir = *deviceDir
	}
	if pflag.CommandLine.Changed("interval") {
		mon.IntervalMs = *intervalMs
	}
	if pflag.CommandLine.Changed("sim") {
		mon.Sim = *sim
	}
	sections["monitor"] = mon

	queueLen := mon.QueueLen
	if queueLen <= 0 {
		queueLen = 64
	}
	b := bus.NewBus(queueLen)

	done := make(chan struct{})
	go func() {
		defer close(done)
		monitor.Run(ctx, b.NewConnection("monitor"), monitor.Options{Log: log})
	}()

	hb := &heartbeat.Service{Log: log}
	if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		log.Error("heartbeat start failed", "err", err)
	}

	conn := b.NewConnection("main")
	for k, v := range sections {
		conn.Publish(conn.NewMessage(bus.T("config", k), v, true))
	}
	log.Info("spbmd started", "sim", mon.Sim, "interval_ms", mon.IntervalMs)

	<-ctx.Done()
	<-done
	log.Info("spbmd stopped")
}

// monitorSection coerces whatever the config file held into the typed
// monitor configuration.
func monitorSection(sections map[string]any) types.MonitorConfig {
	switch v := sections["monitor"].(type) {
	case types.MonitorConfig:
		return v
	case map[string]any:
		var mon types.MonitorConfig
		if iv, ok := asUint32(v["interval_ms"]); ok {
			mon.IntervalMs = iv
		}
		if s, ok := v["device_dir"].(string); ok {
			mon.DeviceDir = s
		}
		if s, ok := v["sim"].(bool); ok {
			mon.Sim = s
		}
		if q, ok := asUint32(v["queue_len"]); ok {
			mon.QueueLen = int(q)
		}
		return mon
	default:
		return types.MonitorConfig{IntervalMs: 1000, QueueLen: 64}
	}
}

func asUint32(v any) (uint32, bool) {
	switch n := v.(type) {
	case int:
		return uint32(n), true
	case int64:
		return uint32(n), true
	case uint32:
		return uint32(n), true
	case uint64:
		return uint32(n), true
	case float64:
		return uint32(n), true
	default:
		return 0, false
	}
}
