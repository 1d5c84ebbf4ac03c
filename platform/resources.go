// Package platform locates the SPBM telemetry window from a device's
// declared resource list instead of a hardcoded physical address.
//
// The firmware description (ACPI _CRS of the NVDA8800 device) declares
// several regions; the telemetry window is the second memory-type
// resource in declaration order. Everything else about the device is
// irrelevant to this module.
package platform

import (
	"spbm-go/errcode"
)

// IORESOURCE_MEM bit in the flags word of a Linux resource entry.
const flagMem = 0x00000200

// TelemetryResourceIndex is the 0-based ordinal of the telemetry window
// among the device's memory resources. The memory resource at ordinal 0
// is a different, unrelated region.
const TelemetryResourceIndex = 1

// Resource is one entry of a device resource list, as declared to the
// platform. End is inclusive, following the kernel's convention.
type Resource struct {
	Start uintptr
	End   uintptr
	Flags uint64
}

// IsMem reports whether the resource describes a memory region.
func (r Resource) IsMem() bool { return r.Flags&flagMem != 0 }

// Size returns the byte length of the region.
func (r Resource) Size() uint64 { return uint64(r.End-r.Start) + 1 }

// MemResource is a resolved memory window.
type MemResource struct {
	Start uintptr
	Size  uint64
}

// ResolveTelemetryWindow walks resources in declaration order, counts
// only memory-type entries, and selects the one at
// TelemetryResourceIndex. Fewer than two memory resources is a hard
// failure: no fallback address, no retry.
func ResolveTelemetryWindow(resources []Resource) (MemResource, error) {
	idx := 0
	for _, r := range resources {
		if !r.IsMem() {
			continue
		}
		if idx == TelemetryResourceIndex {
			return MemResource{Start: r.Start, Size: r.Size()}, nil
		}
		idx++
	}
	return MemResource{}, errcode.Wrap(errcode.ResourceNotFound, "platform.resolve", nil)
}
