package spbm

import "fmt"

// Kind discriminates the two channel families.
type Kind uint8

const (
	Power  Kind = iota // instantaneous, firmware unit mW, exposed µW
	Energy             // cumulative, firmware unit mJ, exposed µJ
)

func (k Kind) String() string {
	if k == Energy {
		return "energy"
	}
	return "power"
}

// Channel is one catalog entry: a register offset inside the telemetry
// window and a stable label. The catalog is process-wide constant data.
type Channel struct {
	Offset uint32
	Label  string
}

// Channel indices for the rails clients address directly. Table order
// below is the contract: these never move.
const (
	PowerSysTotal = 0
	PowerSocPkg   = 1
	PowerCPUP     = 3
	PowerCPUE     = 4
	PowerVcore    = 5
	PowerDCInput  = 7
	PowerGPUOut   = 8

	EnergyPkg  = 0
	EnergyCPUE = 1
)

var powerChannels = [...]Channel{
	{regSysTotal, "sys_total"},
	{regSocPkg, "soc_pkg"},
	{regCPUAndG, "cpu_gpu"},
	{regCPUP, "cpu_p"},
	{regCPUE, "cpu_e"},
	{regVcore, "vcore"},
	{regVddq, "vddq"},
	{regChr, "dc_input"},
	{regGpuOut, "gpu_out"},
	{regGpcOut, "gpc_out"},
	{regGpuIn, "gpu_in"},
	{regGpcIn, "gpc_in"},
	{regSysIn, "sys_in"},
	{regPreregIn, "prereg_in"},
	{regDlaIn, "dla_in"},
	{regDlaOut, "dla_out"},
	{regPL1Eff, "pl1"},
	{regPL2Eff, "pl2"},
	{regSysPL1Eff, "syspl1"},
	{regBudCPU, "budget_cpu"},
	{regBudGPU, "budget_gpu"},
	{regBudCPUE, "budget_cpu_e"},
	{regBudCPUP, "budget_cpu_p"},
}

var energyChannels = [...]Channel{
	{regEnPkg, "pkg"},
	{regEnCPUE, "cpu_e"},
	{regEnCPUP, "cpu_p"},
	{regEnGpc, "gpc"},
	{regEnGpm, "gpm"},
}

// Channels returns the ordered catalog for a kind. Callers must not
// mutate the returned slice.
func Channels(kind Kind) []Channel {
	if kind == Energy {
		return energyChannels[:]
	}
	return powerChannels[:]
}

// Count returns the fixed number of channels of a kind.
func Count(kind Kind) int { return len(Channels(kind)) }

// LookupLabel returns the index of the channel with the given label.
func LookupLabel(kind Kind, label string) (int, bool) {
	for i, c := range Channels(kind) {
		if c.Label == label {
			return i, true
		}
	}
	return 0, false
}

// The catalog is the only source of register offsets, so range and
// alignment are checked once here, never per read.
func init() {
	for _, kind := range []Kind{Power, Energy} {
		for _, c := range Channels(kind) {
			if c.Offset%4 != 0 || c.Offset+4 > WindowSize {
				panic(fmt.Sprintf("spbm: bad catalog offset 0x%x (%s/%s)",
					c.Offset, kind, c.Label))
			}
		}
	}
}
