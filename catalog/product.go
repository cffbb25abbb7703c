// File: catalog/product.go
// Package catalog carries the payload type flowing through the channel and
// the demo product catalog feeding the producer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NameMaxLength bounds the product name in bytes; the payload must fit a
// fixed shared-memory slot.
const NameMaxLength = 50

// Product is the immutable value carried through the channel. It is copied
// by value into and out of buffer slots; no pointers cross the actor
// boundary.
type Product struct {
	ID    uint64
	Name  string // at most NameMaxLength bytes
	Price int64  // minor currency units
}

// New builds a product, truncating the name to NameMaxLength bytes and
// converting the list price to minor units.
func New(id uint64, name string, price decimal.Decimal) Product {
	if len(name) > NameMaxLength {
		name = name[:NameMaxLength]
	}
	return Product{
		ID:    id,
		Name:  name,
		Price: price.Shift(2).IntPart(),
	}
}

// PriceDecimal returns the price in major units.
func (p Product) PriceDecimal() decimal.Decimal {
	return decimal.New(p.Price, -2)
}

// String renders the product for console output.
func (p Product) String() string {
	return fmt.Sprintf("ID: %d Price: %s Name: %s", p.ID, p.PriceDecimal(), p.Name)
}
