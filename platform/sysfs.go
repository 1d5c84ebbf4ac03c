package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultDeviceDir is where the kernel exposes the physical node of the
// NVDA8800 ACPI device on a DGX Spark system.
const DefaultDeviceDir = "/sys/bus/acpi/devices/NVDA8800:00/physical_node"

// DeviceResources reads the declared resource list of a platform device
// from its sysfs "resource" file. Each line holds three hex words:
// start, end (inclusive), flags. Enumeration failures propagate to the
// caller unchanged; the resolver treats them as fatal to the binding.
func DeviceResources(deviceDir string) ([]Resource, error) {
	path := filepath.Join(deviceDir, "resource")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var resources []Resource
	for lineNo, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("%s:%d: expected 3 fields, got %d", path, lineNo+1, len(fields))
		}
		start, err := strconv.ParseUint(fields[0], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad start %q: %w", path, lineNo+1, fields[0], err)
		}
		end, err := strconv.ParseUint(fields[1], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad end %q: %w", path, lineNo+1, fields[1], err)
		}
		flags, err := strconv.ParseUint(fields[2], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad flags %q: %w", path, lineNo+1, fields[2], err)
		}
		resources = append(resources, Resource{
			Start: uintptr(start),
			End:   uintptr(end),
			Flags: flags,
		})
	}
	return resources, nil
}
