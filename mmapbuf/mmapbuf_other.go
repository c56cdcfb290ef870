//go:build !linux && !darwin

package mmapbuf

import (
	"os"

	"github.com/ashgrove/flatpack"
)

// Open falls back to reading the whole file into memory on platforms without
// mmap; the buffer owns the slice and no deleter is needed.
func Open(path string, kind flatpack.OwnerKind) (*flatpack.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, flatpack.NewRuntimeError("mmapbuf.Open", err)
	}
	return flatpack.NewBufferFromBytes(kind, data)
}
