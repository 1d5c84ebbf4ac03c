//go:build !linux

package mmio

import "spbm-go/errcode"

// Physical-memory mapping needs /dev/mem; other platforms run against
// SimWindow only.
func Open(base uintptr, size uint32) (Window, error) {
	return nil, errcode.Wrap(errcode.Unsupported, "mmio.open", nil)
}
