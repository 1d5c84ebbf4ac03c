// spbm-console is an interactive shell over the telemetry window:
// read individual channels, resolve labels and dump snapshots without
// writing a script.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/shlex"
	"github.com/spf13/pflag"

	"spbm-go/drivers/spbm"
	"spbm-go/mmio"
	"spbm-go/platform"
)

func main() {
	var (
		sim       = pflag.Bool("sim", false, "use the firmware simulator")
		deviceDir = pflag.String("device-dir", platform.DefaultDeviceDir, "platform device sysfs directory")
	)
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBinding(ctx, *sim, *deviceDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spbm-console: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	fmt.Println("spbm console; 'help' lists commands")
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return
		}
		args, err := shlex.Split(sc.Text())
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return
		}
		runCommand(b, args)
	}
}

func runCommand(b *spbm.Binding, args []string) {
	switch args[0] {
	case "help":
		fmt.Print(`read <kind> <channel|label>   one fresh reading
label <kind> <channel>        channel label
lookup <kind> <label>         label to channel index
list [kind]                   catalog listing
snapshot                      headline rails in one pass
health                        bind-time sanity state
quit                          leave
`)

	case "read":
		kind, ch, ok := resolveChannel(args[1:])
		if !ok {
			return
		}
		v, err := b.Read(kind, ch)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		label, _ := b.Label(kind, ch)
		fmt.Printf("%s/%d %s = %d %s (%.3f %s)\n",
			kind, ch, label, v, microUnit(kind), float64(v)/1e6, baseUnit(kind))

	case "label":
		kind, ch, ok := resolveChannel(args[1:])
		if !ok {
			return
		}
		label, err := b.Label(kind, ch)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(label)

	case "lookup":
		if len(args) != 3 {
			fmt.Println("usage: lookup <kind> <label>")
			return
		}
		kind, ok := parseKind(args[1])
		if !ok {
			return
		}
		ch, ok := spbm.LookupLabel(kind, args[2])
		if !ok {
			fmt.Println("no such label")
			return
		}
		fmt.Println(ch)

	case "list":
		kinds := []spbm.Kind{spbm.Power, spbm.Energy}
		if len(args) > 1 {
			kind, ok := parseKind(args[1])
			if !ok {
				return
			}
			kinds = []spbm.Kind{kind}
		}
		for _, kind := range kinds {
			for i, ch := range spbm.Channels(kind) {
				fmt.Printf("%-6s %2d  %-14s 0x%03x\n", kind, i, ch.Label, ch.Offset)
			}
		}

	case "snapshot":
		s := b.Snapshot()
		fmt.Printf("sys_total  %9.3f W\n", float64(s.SysTotal_uW)/1e6)
		fmt.Printf("soc_pkg    %9.3f W\n", float64(s.SocPkg_uW)/1e6)
		fmt.Printf("cpu_p      %9.3f W\n", float64(s.CPUP_uW)/1e6)
		fmt.Printf("cpu_e      %9.3f W\n", float64(s.CPUE_uW)/1e6)
		fmt.Printf("vcore      %9.3f W\n", float64(s.Vcore_uW)/1e6)
		fmt.Printf("dc_input   %9.3f W\n", float64(s.DCInput_uW)/1e6)
		fmt.Printf("gpu_out    %9.3f W\n", float64(s.GPUOut_uW)/1e6)
		fmt.Printf("pkg_energy %9.3f kJ\n", float64(s.PkgEnergy_uJ)/1e9)

	case "health":
		if b.TelemetryActive() {
			fmt.Printf("telemetry active (sanity 0x%08x)\n", b.SanityReading())
		} else {
			fmt.Printf("telemetry INACTIVE (sanity 0x%08x)\n", b.SanityReading())
		}

	default:
		fmt.Println("unknown command; 'help' lists commands")
	}
}

// resolveChannel accepts either a numeric index or a label.
func resolveChannel(args []string) (spbm.Kind, int, bool) {
	if len(args) != 2 {
		fmt.Println("usage: <kind> <channel|label>")
		return 0, 0, false
	}
	kind, ok := parseKind(args[0])
	if !ok {
		return 0, 0, false
	}
	if n, err := strconv.Atoi(args[1]); err == nil {
		return kind, n, true
	}
	ch, ok := spbm.LookupLabel(kind, args[1])
	if !ok {
		fmt.Println("no such label")
		return 0, 0, false
	}
	return kind, ch, true
}

func parseKind(s string) (spbm.Kind, bool) {
	switch strings.ToLower(s) {
	case "power", "p":
		return spbm.Power, true
	case "energy", "e":
		return spbm.Energy, true
	default:
		fmt.Println("kind must be power or energy")
		return 0, false
	}
}

func microUnit(kind spbm.Kind) string {
	if kind == spbm.Energy {
		return "uJ"
	}
	return "uW"
}

func baseUnit(kind spbm.Kind) string {
	if kind == spbm.Energy {
		return "J"
	}
	return "W"
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
