package refset

// Swizzle remaps a logical item/bit index into the tile-swizzled physical
// position the reference-set store and scoring kernel actually address.
//
// Items are grouped into 128-wide tiles. Within a tile, Swizzle groups 32
// rows by 4 columns so that a work-group of 32 lanes, each reading 4
// consecutive words, covers all 128 items with coalesced accesses:
//
//	0   32  64  96
//	1   33  65  97
//	...
//	31  63  95 127
//	128 160 192 224
//	...
//
// Bits 0-4 of i choose the row within the tile, bits 5-6 choose the column,
// and the remaining high bits choose the tile (vertical group).
func Swizzle(i int) int {
	row := i & 31
	col := (i >> 5) & 3
	tile := i &^ 127
	return (row << 2) | col | tile
}

// Unswizzle is the inverse of Swizzle: given a physical position, it
// recovers the logical item/bit index.
func Unswizzle(s int) int {
	tile := s &^ 127
	local := s & 127
	col := local & 3
	row := (local >> 2) & 31
	return tile | (col << 5) | row
}

// alignPadded rounds n up to the next multiple of 128, the tile width.
func alignPadded(n int) int {
	const tile = 128
	return (n + tile - 1) &^ (tile - 1)
}
