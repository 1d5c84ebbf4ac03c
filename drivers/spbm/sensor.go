package spbm

import (
	"spbm-go/errcode"
	"spbm-go/sensors"
)

// Chip returns the sensors.Chip view of the binding: the read-only
// attribute surface the monitoring framework consumes. Every Read is a
// fresh register load through the binding; nothing is cached.
func (b *Binding) Chip() sensors.Chip { return chip{b} }

type chip struct{ b *Binding }

func kindOf(kind string) (Kind, bool) {
	switch kind {
	case sensors.KindPower:
		return Power, true
	case sensors.KindEnergy:
		return Energy, true
	default:
		return 0, false
	}
}

func (c chip) Visible(kind string, ch int) bool {
	k, ok := kindOf(kind)
	return ok && ch >= 0 && ch < Count(k)
}

func (c chip) Read(kind string, ch int) (int64, error) {
	k, ok := kindOf(kind)
	if !ok {
		return 0, errcode.Unsupported
	}
	return c.b.Read(k, ch)
}

func (c chip) ReadLabel(kind string, ch int) (string, error) {
	k, ok := kindOf(kind)
	if !ok {
		return "", errcode.Unsupported
	}
	return c.b.Label(k, ch)
}
