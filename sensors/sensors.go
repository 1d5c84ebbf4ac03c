// Package sensors defines the contract between a telemetry chip driver
// and the host monitoring framework that renders its channels as named,
// discoverable, read-only attributes.
//
// The framework addresses channels by (kind, index). Indices are
// zero-based and stable for the process lifetime. There are no writable
// attributes anywhere on this surface.
package sensors

// Channel kinds.
const (
	KindPower  = "power"  // instantaneous, microwatts
	KindEnergy = "energy" // cumulative, microjoules
)

// Chip is implemented by a bound telemetry device. Every Read is a
// fresh register access: implementations must not cache, average, or
// debounce values.
type Chip interface {
	// Visible reports whether (kind, ch) names a defined channel.
	// Defined channels are always readable.
	Visible(kind string, ch int) bool

	// Read returns the current value of the channel in micro-units
	// (microwatts for power, microjoules for energy).
	Read(kind string, ch int) (int64, error)

	// ReadLabel returns the channel's stable label.
	ReadLabel(kind string, ch int) (string, error)
}
