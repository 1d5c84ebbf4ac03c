//go:build linux

package mmio

import (
	"os"

	"golang.org/x/sys/unix"

	"spbm-go/errcode"
)

// DevMem is a read-only mapping of one physical memory window obtained
// through /dev/mem. The mapping is created once in Open and released in
// Close; the owning binding guarantees no Read32 runs after Close.
type DevMem struct {
	f    *os.File
	mem  []byte // page-aligned mapping
	head uint32 // offset of the window base within the first page
	size uint32
}

// Open maps size bytes of physical memory at base. The base need not be
// page-aligned; the mapping is widened to page boundaries internally.
func Open(base uintptr, size uint32) (*DevMem, error) {
	page := uintptr(unix.Getpagesize())
	head := base & (page - 1)
	mapLen := (uintptr(size) + head + page - 1) &^ (page - 1)

	f, err := os.OpenFile("/dev/mem", os.O_RDONLY|unix.O_SYNC, 0)
	if err != nil {
		return nil, errcode.Wrap(errcode.MapFailed, "mmio.open", err)
	}
	mem, err := unix.Mmap(int(f.Fd()), int64(base-head), int(mapLen),
		unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, errcode.Wrap(errcode.MapFailed, "mmio.mmap", err)
	}
	return &DevMem{f: f, mem: mem, head: uint32(head), size: size}, nil
}

func (w *DevMem) Size() uint32 { return w.size }

func (w *DevMem) Read32(off uint32) uint32 {
	if w.mem == nil {
		panic("mmio: read on closed window")
	}
	checkOffset(off, w.size)
	return load32(w.mem, w.head+off)
}

// Close releases the mapping. Reads must not be in flight; the caller's
// lifecycle serialises close against readers.
func (w *DevMem) Close() error {
	if w.mem == nil {
		return nil
	}
	err := unix.Munmap(w.mem)
	w.mem = nil
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	return err
}
