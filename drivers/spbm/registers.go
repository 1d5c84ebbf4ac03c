// Package spbm provides register offsets and the channel catalog for
// the System Power Budget Manager telemetry window.
package spbm

// WindowSize is the fixed size of the SPBM shared-memory region.
const WindowSize = 0x1000

// --- Register offsets (firmware-defined, 32-bit words) ---

const (
	// Instantaneous power telemetry, milliwatts.
	regSysTotal = 0x300
	regSocPkg   = 0x304
	regCPUAndG  = 0x308
	regCPUP     = 0x30C
	regCPUE     = 0x310
	regVcore    = 0x314
	regVddq     = 0x318
	regChr      = 0x31C // DC input
	regGpcOut   = 0x320
	regGpuOut   = 0x324
	regGpcIn    = 0x328
	regGpuIn    = 0x32C
	regSysIn    = 0x330
	regDlaIn    = 0x334
	regPreregIn = 0x338
	regDlaOut   = 0x33C

	// Energy accumulators, millijoules, cumulative.
	regEnPkg  = 0x344
	regEnCPUE = 0x350
	regEnCPUP = 0x35C
	regEnGpc  = 0x368
	regEnGpm  = 0x374

	// Effective power limits, milliwatts.
	regPL1Eff    = 0x160
	regPL2Eff    = 0x164
	regSysPL1Eff = 0x170

	// Power budgets, milliwatts.
	regBudCPU  = 0x600
	regBudGPU  = 0x604
	regBudCPUE = 0x680
	regBudCPUP = 0x684
)
