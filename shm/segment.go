// File: shm/segment.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Shared memory segment lifecycle: a file under /dev/shm (tmpfs), mapped
// MAP_SHARED by every participating process. Bind-once: the owner creates
// and initializes the segment before any actor starts; attachers validate
// the header before first use. Teardown happens only after all actors have
// terminated — unmapping earlier is a use-after-free in the region.

package shm

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/momentics/shmchan/api"
)

// Segment is one mapped shared memory region.
type Segment struct {
	file  *os.File
	mem   []byte
	path  string
	owner bool
}

// CreateSegment creates and initializes a new segment for the given channel
// geometry. Fails with api.ErrResourceAllocation if the region cannot be
// obtained; this is fatal and must surface before any actor starts.
func CreateSegment(name string, capacity, slotSize int) (*Segment, error) {
	if capacity <= 0 {
		return nil, api.ErrInvalidCapacity
	}
	if slotSize <= 0 {
		return nil, fmt.Errorf("%w: slot size %d", api.ErrInvalidCapacity, slotSize)
	}
	path := segmentPath(name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", api.ErrResourceAllocation, path, err)
	}
	cleanup := func() {
		file.Close()
		os.Remove(path)
	}

	total := segmentSize(capacity, slotSize)
	if err := file.Truncate(int64(total)); err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: resize %s: %v", api.ErrResourceAllocation, path, err)
	}

	mem, err := unix.Mmap(int(file.Fd()), 0, total, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: mmap %s: %v", api.ErrResourceAllocation, path, err)
	}

	seg := &Segment{file: file, mem: mem, path: path, owner: true}
	seg.initHeader(capacity, slotSize, os.Getpid())
	return seg, nil
}

// OpenSegment maps an existing segment and validates its header.
func OpenSegment(name string) (*Segment, error) {
	path := segmentPath(name)

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", api.ErrResourceAllocation, path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: stat %s: %v", api.ErrResourceAllocation, path, err)
	}
	if info.Size() < int64(slotsOffset) {
		file.Close()
		return nil, fmt.Errorf("%w: segment file too small: %d bytes", api.ErrResourceAllocation, info.Size())
	}

	mem, err := unix.Mmap(int(file.Fd()), 0, int(info.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: mmap %s: %v", api.ErrResourceAllocation, path, err)
	}

	seg := &Segment{file: file, mem: mem, path: path}
	if err := seg.validateHeader(); err != nil {
		unix.Munmap(mem)
		file.Close()
		return nil, fmt.Errorf("%w: %v", api.ErrResourceAllocation, err)
	}
	return seg, nil
}

// Close unmaps the region and closes the backing file. The owner also
// removes the file, destroying the segment for everyone.
func (s *Segment) Close() error {
	var first error
	if s.mem != nil {
		if err := unix.Munmap(s.mem); err != nil && first == nil {
			first = fmt.Errorf("munmap: %w", err)
		}
		s.mem = nil
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil && first == nil {
			first = err
		}
		s.file = nil
	}
	if s.owner {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) && first == nil {
			first = err
		}
	}
	return first
}

// Path returns the backing file path.
func (s *Segment) Path() string {
	return s.path
}

// segmentPath places segments on tmpfs when available.
func segmentPath(name string) string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return filepath.Join("/dev/shm", "shmchan_"+name)
	}
	return filepath.Join(os.TempDir(), "shmchan_"+name)
}
