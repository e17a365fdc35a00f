// Package item defines the atomic content units a layout deduplication plan
// operates over.
package item

// Size is an item's byte size. Sums of sizes (bucket ref sizes and
// intersection scores, see packages refset and score) are accumulated in
// uint64, so an intersection may exceed 4 GiB without overflow.
type Size = uint32

// Catalog is the immutable, dense [0, N) table of item sizes a run is loaded
// with. Items never change once a Catalog is built; only bucket membership
// (see package bucket) evolves during a run.
type Catalog struct {
	sizes []Size
}

// NewCatalog builds a Catalog from item sizes in natural (unswizzled) id
// order, sizes[i] being the byte size of item i.
func NewCatalog(sizes []Size) *Catalog {
	cp := make([]Size, len(sizes))
	copy(cp, sizes)
	return &Catalog{sizes: cp}
}

// Len returns the number of items, N.
func (c *Catalog) Len() int { return len(c.sizes) }

// Size returns the byte size of item i, in natural id order.
func (c *Catalog) Size(i int) Size { return c.sizes[i] }

// Sizes returns the natural-order size table. The caller must not mutate it.
func (c *Catalog) Sizes() []Size { return c.sizes }
