package types

// Monitor configuration supplied on topic "config/monitor".

type MonitorConfig struct {
	// DeviceDir is the sysfs directory of the platform device whose
	// resource list carries the telemetry window.
	DeviceDir string `json:"device_dir" yaml:"device_dir"`

	// IntervalMs is the sampling period. Clamped to [200, 3600000].
	IntervalMs uint32 `json:"interval_ms" yaml:"interval_ms"`

	// Sim replaces the hardware window with the firmware simulator.
	Sim bool `json:"sim" yaml:"sim"`

	// QueueLen sizes the bus subscription queues.
	QueueLen int `json:"queue_len" yaml:"queue_len"`
}
