// Package types holds the bus payload shapes shared between the
// monitor service and its clients.
package types

// ---- Monitor state (retained) ----

type MonitorState struct {
	Level  string `json:"level"`  // "idle", "ready", "stopped"
	Status string `json:"status"` // freeform short code
	Active bool   `json:"active"` // bind-time sanity result
	Sanity uint32 `json:"sanity"` // raw sanity register value
	TS     int64  `json:"ts_ms"`
}

// ---- Channel metadata (retained, one per channel) ----

// Info envelope each channel exposes (retained)
type Info struct {
	SchemaVersion int    `json:"schema_version"`
	Driver        string `json:"driver"`
	Detail        any    `json:"detail,omitempty"`
}

type ChannelInfo struct {
	Kind  string `json:"kind"` // "power" | "energy"
	Index int    `json:"index"`
	Label string `json:"label"`
	Unit  string `json:"unit"` // "uW" | "uJ"
}

// ---- Readings ----

type ChannelReading struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	Label string `json:"label"`
	Value int64  `json:"value"` // micro units, always
	TS    int64  `json:"ts_ms"`
}

// TelemetrySample is one full sweep of the catalog.
type TelemetrySample struct {
	Seq    uint64           `json:"seq"`
	Active bool             `json:"active"`
	Power  []ChannelReading `json:"power"`
	Energy []ChannelReading `json:"energy"`
	TS     int64            `json:"ts_ms"`
}

// ---- Controls ----

// ReadNow requests an immediate out-of-cycle read. Label wins over
// Index when both are set. Verb: "read_now".
type ReadNow struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	Label string `json:"label,omitempty"`
}

// SetRate changes the sampling period. Verb: "set_rate".
type SetRate struct {
	IntervalMs uint32 `json:"interval_ms"`
}

// ReadResult answers a ReadNow request.
type ReadResult struct {
	Reading ChannelReading `json:"reading"`
	Error   string         `json:"error,omitempty"` // machine-readable short code
}
