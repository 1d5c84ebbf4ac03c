package spbm

import (
	"sync/atomic"

	"spbm-go/errcode"
	"spbm-go/mmio"
)

// Sentinel readings from the sanity register: either means the firmware
// telemetry loop has not written the window yet.
const (
	sentinelZero = 0x00000000
	sentinelOnes = 0xFFFFFFFF
)

// Binding is one association between a device instance and its mapped
// telemetry window. It owns the window for the life of the bind: no
// reader may outlive it. A Binding is either fully valid or does not
// exist; Bind never returns a partially initialised value.
type Binding struct {
	win    mmio.Window
	closed atomic.Bool
	sanity uint32
	active bool
}

// Bind wraps an already-mapped window and runs the post-map sanity
// read of the total-system-power register. An inactive reading is not
// an error: the binding succeeds and the condition is reported through
// TelemetryActive for the caller to log.
func Bind(win mmio.Window) (*Binding, error) {
	if win == nil || win.Size() < WindowSize {
		return nil, errcode.Wrap(errcode.MapFailed, "spbm.bind", nil)
	}
	b := &Binding{win: win}
	b.sanity = win.Read32(powerChannels[PowerSysTotal].Offset)
	b.active = b.sanity != sentinelZero && b.sanity != sentinelOnes
	return b, nil
}

// TelemetryActive reports whether the bind-time sanity read saw live
// telemetry. Firmware that starts its control loop late flips nothing
// here; re-check with a fresh ReadPower if needed.
func (b *Binding) TelemetryActive() bool { return b.active }

// SanityReading returns the raw bind-time value of the sanity register,
// for diagnostics.
func (b *Binding) SanityReading() uint32 { return b.sanity }

// Health returns nil when the bind-time sanity read saw live telemetry,
// or an inactive_telemetry diagnostic otherwise. The condition is never
// fatal; reads keep working either way.
func (b *Binding) Health() error {
	if b.active {
		return nil
	}
	return errcode.Wrap(errcode.InactiveTelemetry, "spbm.bind", nil)
}

func (b *Binding) read(kind Kind, ch int) (int64, error) {
	if ch < 0 || ch >= Count(kind) {
		return 0, errcode.OutOfRange
	}
	if b.closed.Load() {
		return 0, errcode.Closed
	}
	raw := b.win.Read32(Channels(kind)[ch].Offset)
	// Widen before scaling: a full-range 32-bit milli value times 1000
	// needs 42 bits.
	return int64(raw) * 1000, nil
}

// ReadPower returns the instantaneous power of a channel in microwatts.
// Values legitimately fluctuate between reads; the firmware control
// loop runs at millisecond granularity.
func (b *Binding) ReadPower(ch int) (int64, error) { return b.read(Power, ch) }

// ReadEnergy returns the cumulative energy of a channel in microjoules.
// The 32-bit firmware counter wraps; wraparound handling is the
// consumer's concern.
func (b *Binding) ReadEnergy(ch int) (int64, error) { return b.read(Energy, ch) }

// Read dispatches on kind.
func (b *Binding) Read(kind Kind, ch int) (int64, error) { return b.read(kind, ch) }

// Label returns the stable label of a channel. Labels are catalog data
// and remain resolvable after Close.
func (b *Binding) Label(kind Kind, ch int) (string, error) {
	if ch < 0 || ch >= Count(kind) {
		return "", errcode.OutOfRange
	}
	return Channels(kind)[ch].Label, nil
}

// Close detaches the binding and releases the window mapping. All
// subsequent channel reads fail with errcode.Closed. Close must be
// serialised against in-flight reads by the owning lifecycle, the same
// way bind/unbind are serialised by a device core.
func (b *Binding) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	if c, ok := b.win.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
