// File: catalog/codec.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed 72-byte slot encoding, little-endian:
//
//	[0,8)   id
//	[8,16)  price, minor units
//	[16,18) name length
//	[18,68) name bytes
//	[68,72) padding to an 8-byte multiple

package catalog

import (
	"encoding/binary"
	"fmt"

	"github.com/momentics/shmchan/api"
)

const productSlotSize = 72

// Ensure compile-time interface compliance.
var _ api.Codec[Product] = ProductCodec{}

// ProductCodec encodes Product values into fixed shared-memory slots.
type ProductCodec struct{}

// SlotSize returns the fixed encoded size in bytes.
func (ProductCodec) SlotSize() int {
	return productSlotSize
}

// Marshal writes p into dst, which must be exactly SlotSize bytes.
func (ProductCodec) Marshal(p Product, dst []byte) error {
	if len(dst) != productSlotSize {
		return fmt.Errorf("product codec: slot window is %d bytes, want %d", len(dst), productSlotSize)
	}
	if len(p.Name) > NameMaxLength {
		return fmt.Errorf("%w: name is %d bytes, limit %d", api.ErrPayloadTooLarge, len(p.Name), NameMaxLength)
	}
	binary.LittleEndian.PutUint64(dst[0:8], p.ID)
	binary.LittleEndian.PutUint64(dst[8:16], uint64(p.Price))
	binary.LittleEndian.PutUint16(dst[16:18], uint16(len(p.Name)))
	n := copy(dst[18:18+NameMaxLength], p.Name)
	for i := 18 + n; i < productSlotSize; i++ {
		dst[i] = 0
	}
	return nil
}

// Unmarshal decodes a Product from src, which must be exactly SlotSize bytes.
func (ProductCodec) Unmarshal(src []byte) (Product, error) {
	if len(src) != productSlotSize {
		return Product{}, fmt.Errorf("product codec: slot window is %d bytes, want %d", len(src), productSlotSize)
	}
	nameLen := int(binary.LittleEndian.Uint16(src[16:18]))
	if nameLen > NameMaxLength {
		return Product{}, fmt.Errorf("product codec: corrupt slot, name length %d", nameLen)
	}
	return Product{
		ID:    binary.LittleEndian.Uint64(src[0:8]),
		Price: int64(binary.LittleEndian.Uint64(src[8:16])),
		Name:  string(src[18 : 18+nameLen]),
	}, nil
}
