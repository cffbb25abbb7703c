// File: shm/layout.go
// Package shm realizes the bounded channel over a shared memory segment,
// reachable by actors that do not share an address space.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Segment layout (all offsets fixed, little-endian, 8-byte aligned):
//
//	[0,64)    header: magic, version, capacity, slot size, closed flag,
//	          shared id counter, owner pid, ready flag
//	[64,128)  slotsEmpty semaphore word (own cache line)
//	[128,192) slotsFull semaphore word
//	[192,256) mutex semaphore word
//	[256,320) ring indices: front, rear, size
//	[320,..)  capacity * slotSize payload slots

package shm

import (
	"bytes"
	"fmt"
	"sync/atomic"
	"unsafe"
)

// SegmentVersion is bumped on any layout change.
const SegmentVersion = 1

const (
	headerSize  = 64
	semLineSize = 64

	offMagic    = 0
	offVersion  = 8
	offCapacity = 12
	offSlotSize = 16
	offClosed   = 20
	offNextID   = 24
	offOwnerPID = 32
	offReady    = 36

	offSemEmpty = headerSize
	offSemFull  = headerSize + semLineSize
	offSemMutex = headerSize + 2*semLineSize

	offFront = headerSize + 3*semLineSize
	offRear  = offFront + 4
	offSize  = offFront + 8

	slotsOffset = offFront + semLineSize
)

var segmentMagic = [8]byte{'S', 'H', 'M', 'C', 'H', 'A', 'N', 0}

// segmentSize returns the total byte size of a segment with the given
// geometry.
func segmentSize(capacity, slotSize int) int {
	return slotsOffset + capacity*slotSize
}

// word32 returns a pointer suitable for atomic access to a 32-bit field of
// the mapped region. Offsets are constructed 4-byte aligned.
func (s *Segment) word32(off int) *uint32 {
	return (*uint32)(unsafe.Pointer(&s.mem[off]))
}

// word64 returns a pointer suitable for atomic access to a 64-bit field.
func (s *Segment) word64(off int) *uint64 {
	return (*uint64)(unsafe.Pointer(&s.mem[off]))
}

// initHeader stamps a freshly created segment.
func (s *Segment) initHeader(capacity, slotSize int, ownerPID int) {
	copy(s.mem[offMagic:offMagic+8], segmentMagic[:])
	atomic.StoreUint32(s.word32(offVersion), SegmentVersion)
	atomic.StoreUint32(s.word32(offCapacity), uint32(capacity))
	atomic.StoreUint32(s.word32(offSlotSize), uint32(slotSize))
	atomic.StoreUint32(s.word32(offClosed), 0)
	atomic.StoreUint64(s.word64(offNextID), 0)
	atomic.StoreUint32(s.word32(offOwnerPID), uint32(ownerPID))

	atomic.StoreUint32(s.word32(offSemEmpty), uint32(capacity))
	atomic.StoreUint32(s.word32(offSemFull), 0)
	atomic.StoreUint32(s.word32(offSemMutex), 1)

	atomic.StoreUint32(s.word32(offFront), 0)
	atomic.StoreUint32(s.word32(offRear), 0)
	atomic.StoreUint32(s.word32(offSize), 0)

	atomic.StoreUint32(s.word32(offReady), 1)
}

// validateHeader checks an opened segment before first use.
func (s *Segment) validateHeader() error {
	if len(s.mem) < slotsOffset {
		return fmt.Errorf("segment too small: %d bytes", len(s.mem))
	}
	if !bytes.Equal(s.mem[offMagic:offMagic+8], segmentMagic[:]) {
		return fmt.Errorf("bad segment magic")
	}
	if v := atomic.LoadUint32(s.word32(offVersion)); v != SegmentVersion {
		return fmt.Errorf("segment version mismatch: have %d, want %d", v, SegmentVersion)
	}
	if atomic.LoadUint32(s.word32(offReady)) != 1 {
		return fmt.Errorf("segment not initialized")
	}
	capacity := int(atomic.LoadUint32(s.word32(offCapacity)))
	slotSize := int(atomic.LoadUint32(s.word32(offSlotSize)))
	if capacity <= 0 || slotSize <= 0 {
		return fmt.Errorf("degenerate segment geometry: capacity=%d slotSize=%d", capacity, slotSize)
	}
	if want := segmentSize(capacity, slotSize); len(s.mem) < want {
		return fmt.Errorf("segment truncated: have %d bytes, want %d", len(s.mem), want)
	}
	return nil
}

// Capacity returns the slot count recorded in the header.
func (s *Segment) Capacity() int {
	return int(atomic.LoadUint32(s.word32(offCapacity)))
}

// SlotSize returns the per-slot byte size recorded in the header.
func (s *Segment) SlotSize() int {
	return int(atomic.LoadUint32(s.word32(offSlotSize)))
}

// slot returns the byte window of slot i.
func (s *Segment) slot(i, slotSize int) []byte {
	off := slotsOffset + i*slotSize
	return s.mem[off : off+slotSize]
}
