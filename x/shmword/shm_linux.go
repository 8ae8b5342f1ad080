//go:build linux

package shmword

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

// segmentSize is the lock word plus the value word.
const segmentSize = 8

// Open maps a named POSIX shared-memory segment under /dev/shm and
// returns a Word bound to it. The first process to successfully create
// the file is "primary" and zero-initializes the segment (lock free,
// value 0); every other process opens the existing file non-primary and
// must not re-zero it.
//
// name is a bare identifier, not a path (e.g. "scsibus-0"); it is turned
// into /dev/shm/<name>.
func Open(name string) (w *Word, primary bool, err error) {
	path := filepath.Join("/dev/shm", name)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err == nil {
		primary = true
	} else if os.IsExist(err) {
		f, err = os.OpenFile(path, os.O_RDWR, 0o600)
		if err != nil {
			return nil, false, fmt.Errorf("shmword: open %s: %w", path, err)
		}
	} else {
		return nil, false, fmt.Errorf("shmword: create %s: %w", path, err)
	}

	if primary {
		if err := f.Truncate(segmentSize); err != nil {
			f.Close()
			return nil, false, fmt.Errorf("shmword: truncate %s: %w", path, err)
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, segmentSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, false, fmt.Errorf("shmword: mmap %s: %w", path, err)
	}
	// The fd is no longer needed once mapped; the mapping keeps the pages
	// resident for every process that opened the same file.
	f.Close()

	lockP := (*int32)(unsafe.Pointer(&data[0]))
	valP := (*uint32)(unsafe.Pointer(&data[4]))
	w = Bind(lockP, valP)
	w.SetCloser(func() error { return unix.Munmap(data) })
	return w, primary, nil
}

// Unlink removes the named segment's backing file. Call once, from
// whichever process is shutting down last (typically the primary).
func Unlink(name string) error {
	return os.Remove(filepath.Join("/dev/shm", name))
}
