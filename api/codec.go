// Package api
// Author: momentics
//
// Fixed-size payload codec for shared-memory transport. Payloads cross an
// address-space boundary, so they are copied by value into fixed slots:
// no pointers survive the trip.

package api

// Codec encodes payloads into fixed-size shared-memory slots.
type Codec[T any] interface {
	// SlotSize returns the fixed encoded size in bytes.
	SlotSize() int
	// Marshal writes item into dst, which is exactly SlotSize bytes.
	Marshal(item T, dst []byte) error
	// Unmarshal decodes an item from src, which is exactly SlotSize bytes.
	Unmarshal(src []byte) (T, error)
}
