package config

import "spbm-go/types"

// -----------------------------------------------------------------------------
// Built-in defaults
//
// Every section a service subscribes to has a default here, so the
// daemon comes up usable without a configuration file.
// -----------------------------------------------------------------------------

func defaultSections() map[string]any {
	return map[string]any{
		"monitor": types.MonitorConfig{
			IntervalMs: 1000,
			QueueLen:   64,
		},
	}
}
