// Package mmio provides read-only, uncached access to a device memory
// window. The firmware on the far side rewrites the window continuously,
// so every read goes through a 32-bit atomic load on the mapped page:
// the compiler may not cache, reorder, or tear it.
//
// Two implementations exist: DevMem maps physical memory through
// /dev/mem on Linux, and SimWindow is an in-process window for tests
// and simulated runs. Both share the same layout and load semantics.
package mmio

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// PageSize is the fixed size of a telemetry window mapping.
const PageSize = 0x1000

// Window is a mapped view of a device memory region.
//
// Read32 offsets must be 4-byte aligned and inside the window. Both are
// properties of the caller's static register table, never of runtime
// input, so violations panic rather than return an error.
type Window interface {
	Read32(off uint32) uint32
	Size() uint32
}

// load32 performs the volatile load. The mapping is page-aligned and
// offsets are 4-aligned, so the atomic load is always legal.
func load32(mem []byte, off uint32) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&mem[off])))
}

func store32(mem []byte, off uint32, v uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&mem[off])), v)
}

func checkOffset(off, size uint32) {
	if off%4 != 0 {
		panic(fmt.Sprintf("mmio: misaligned register offset 0x%x", off))
	}
	if off+4 > size {
		panic(fmt.Sprintf("mmio: register offset 0x%x outside %d-byte window", off, size))
	}
}

// SimWindow is an in-process stand-in for a firmware telemetry window.
// Write32 plays the firmware role and may run concurrently with readers;
// both sides use atomic word access, like the hardware window.
type SimWindow struct {
	mem []byte
}

// NewSimWindow returns a zeroed window of the given size.
func NewSimWindow(size uint32) *SimWindow {
	return &SimWindow{mem: make([]byte, size)}
}

func (w *SimWindow) Size() uint32 { return uint32(len(w.mem)) }

func (w *SimWindow) Read32(off uint32) uint32 {
	checkOffset(off, w.Size())
	return load32(w.mem, off)
}

// Write32 updates a register the way the firmware would.
func (w *SimWindow) Write32(off uint32, v uint32) {
	checkOffset(off, w.Size())
	store32(w.mem, off, v)
}
