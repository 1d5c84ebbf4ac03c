// spbm-top is a live terminal view of the headline power rails, in the
// spirit of top: one row per rail, refreshed in place.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"spbm-go/drivers/spbm"
	"spbm-go/mmio"
	"spbm-go/platform"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle  = lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Bold(true)
	statusOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

type rail struct {
	label string
	kind  spbm.Kind
	ch    int
}

var rails = [...]rail{
	{"Total System", spbm.Power, spbm.PowerSysTotal},
	{"SoC Package", spbm.Power, spbm.PowerSocPkg},
	{"CPU P-cores", spbm.Power, spbm.PowerCPUP},
	{"CPU E-cores", spbm.Power, spbm.PowerCPUE},
	{"GPU Output", spbm.Power, spbm.PowerGPUOut},
	{"DC Input", spbm.Power, spbm.PowerDCInput},
}

type tickMsg time.Time

type model struct {
	binding  *spbm.Binding
	interval time.Duration
	start    time.Time

	values [len(rails)]int64
	energy int64
	errs   int
}

func (m model) Init() tea.Cmd {
	return tick(m.interval)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		for i, r := range rails {
			v, err := m.binding.Read(r.kind, r.ch)
			if err != nil {
				m.errs++
				continue
			}
			m.values[i] = v
		}
		if v, err := m.binding.ReadEnergy(spbm.EnergyPkg); err == nil {
			m.energy = v
		}
		return m, tick(m.interval)
	}
	return m, nil
}

func (m model) View() string {
	s := titleStyle.Render("SPBM Power Telemetry") + "\n\n"
	for i, r := range rails {
		s += labelStyle.Render(r.label) +
			valueStyle.Render(fmt.Sprintf("%9.3f W", float64(m.values[i])/1e6)) + "\n"
	}
	s += "\n" + labelStyle.Render("Package Energy") +
		valueStyle.Render(fmt.Sprintf("%9.3f kJ", float64(m.energy)/1e9)) + "\n\n"

	health := statusOK.Render("telemetry active")
	if !m.binding.TelemetryActive() {
		health = statusWarn.Render("telemetry INACTIVE")
	}
	elapsed := time.Since(m.start).Round(time.Second)
	s += health + footerStyle.Render(fmt.Sprintf("  up %s  errors %d  q to quit", elapsed, m.errs))
	return s + "\n"
}

func main() {
	var (
		interval  = pflag.Duration("interval", time.Second, "refresh interval")
		sim       = pflag.Bool("sim", false, "use the firmware simulator")
		deviceDir = pflag.String("device-dir", platform.DefaultDeviceDir, "platform device sysfs directory")
	)
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBinding(ctx, *sim, *deviceDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spbm-top: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	m := model{binding: b, interval: *interval, start: time.Now()}
	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "spbm-top: %v\n", err)
		os.Exit(1)
	}
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
