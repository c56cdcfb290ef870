//go:build linux || darwin

// Package mmapbuf constructs flatpack buffers directly from files. On platforms
// with mmap the file's bytes are mapped read-only and adopted by the buffer with
// a deleter that unmaps the region, so a buffer written once can be read by many
// processes without any of them copying it into their own heap.
package mmapbuf

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/ashgrove/flatpack"
)

// Open maps path read-only and wraps it as a validated Buffer. The mapping is
// released when the last view over the buffer is collected.
func Open(path string, kind flatpack.OwnerKind) (*flatpack.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, flatpack.NewRuntimeError("mmapbuf.Open", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, flatpack.NewRuntimeError("mmapbuf.Open", err)
	}
	if info.Size() == 0 {
		return nil, flatpack.NewRuntimeError("mmapbuf.Open", os.ErrInvalid)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, flatpack.NewRuntimeError("mmapbuf.Open", err)
	}

	buf, err := flatpack.NewBufferAdopt(kind, data, func() { unix.Munmap(data) })
	if err != nil {
		return nil, err
	}
	return buf, nil
}
