// Package cart holds the shopper cart of a single store and the checkout
// message composed from it.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StorageKeyPrefix prefixes the durable key of every cart
const StorageKeyPrefix = "cart_"

// Key identifies one cart: a shopper session inside one store
type Key struct {
	SessionID string
	TenantID  uuid.UUID
}

// StorageKey returns the tenant-namespaced key, e.g. cart_<tenantId>
func (k Key) StorageKey() string {
	return StorageKeyPrefix + k.TenantID.String()
}

// Line is one product's quantity entry in a cart
type Line struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Subtotal returns unit price times quantity, unrounded
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines with at most one line per product.
// Every line has a quantity of at least 1.
type Cart struct {
	key   Key
	lines []Line
}

// New creates an empty cart for the given key
func New(key Key) *Cart {
	return &Cart{key: key, lines: make([]Line, 0)}
}

// Restore rebuilds a cart from persisted lines. Duplicate products are merged
// into the first occurrence and lines with a non-positive quantity are dropped.
func Restore(key Key, lines []Line) *Cart {
	c := New(key)
	for _, l := range lines {
		if l.Quantity <= 0 || l.ProductID == "" {
			continue
		}
		if i := c.indexOf(l.ProductID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

// Key returns the cart key
func (c *Cart) Key() Key {
	return c.key
}

// TenantID returns the store the cart belongs to
func (c *Cart) TenantID() uuid.UUID {
	return c.key.TenantID
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for productID
func (c *Cart) Line(productID string) (Line, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Add increments the line for productID by one, or appends a new line with
// quantity 1. The unit price is not validated here.
func (c *Cart) Add(productID, name string, unitPrice decimal.Decimal) {
	if i := c.indexOf(productID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Line{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  1,
	})
}

// ChangeQuantity adds delta to the line quantity and removes the line when
// the result drops to zero or below. Absent products are ignored.
func (c *Cart) ChangeQuantity(productID string, delta int) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.lines[i].Quantity += delta
	if c.lines[i].Quantity <= 0 {
		c.removeAt(i)
	}
}

// Remove deletes the line for productID if present
func (c *Cart) Remove(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.removeAt(i)
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = make([]Line, 0)
}

// Total returns the exact sum of all line subtotals. Rounding happens only
// when the amount is displayed.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Count returns the number of items across all lines
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}
