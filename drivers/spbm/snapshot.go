package spbm

// Snapshot collects the headline rails in one pass.
// Zero values remain where individual reads fail.
type Snapshot struct {
	SysTotal_uW int64
	SocPkg_uW   int64
	CPUP_uW     int64
	CPUE_uW     int64
	Vcore_uW    int64
	DCInput_uW  int64
	GPUOut_uW   int64

	PkgEnergy_uJ int64

	Active bool
}

func (b *Binding) Snapshot() Snapshot {
	var s Snapshot
	b.SnapshotInto(&s)
	return s
}

func (b *Binding) SnapshotInto(out *Snapshot) {
	var s Snapshot
	if v, e := b.ReadPower(PowerSysTotal); e == nil {
		s.SysTotal_uW = v
	}
	if v, e := b.ReadPower(PowerSocPkg); e == nil {
		s.SocPkg_uW = v
	}
	if v, e := b.ReadPower(PowerCPUP); e == nil {
		s.CPUP_uW = v
	}
	if v, e := b.ReadPower(PowerCPUE); e == nil {
		s.CPUE_uW = v
	}
	if v, e := b.ReadPower(PowerVcore); e == nil {
		s.Vcore_uW = v
	}
	if v, e := b.ReadPower(PowerDCInput); e == nil {
		s.DCInput_uW = v
	}
	if v, e := b.ReadPower(PowerGPUOut); e == nil {
		s.GPUOut_uW = v
	}
	if v, e := b.ReadEnergy(EnergyPkg); e == nil {
		s.PkgEnergy_uJ = v
	}
	s.Active = b.TelemetryActive()
	*out = s
}
