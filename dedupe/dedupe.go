// Package dedupe applies a winning combination found by package search: it
// factors the shared items of a K-tuple of buckets out into a new derived
// bucket, linking the sources to it.
package dedupe

import (
	"fmt"

	"github.com/ig-dedupe/dedupe/bucket"
	"github.com/ig-dedupe/dedupe/errors"
)

// Apply factors the intersection of the buckets named in combo out into a
// new bucket at level+1, named "dedupeNNNNN" where NNNNN is the
// collection's bucket count after the new bucket is appended (zero-padded
// to at least five digits by fmt's %05d; counts past 99999 print in full).
// It returns the new bucket's index.
//
// combo must name at least two distinct, valid bucket indices into col.
// Apply returns an errors.Invalid error if combo names fewer than two
// buckets or an index out of range; distinctness is not checked.
func Apply(col *bucket.Collection, combo []int, level int) (int, error) {
	if len(combo) < 2 {
		return 0, errors.E(errors.Invalid, "dedupe.Apply: combination must name at least two buckets")
	}
	for _, b := range combo {
		if b < 0 || b >= col.Len() {
			return 0, errors.E(errors.Invalid,
				fmt.Sprintf("dedupe.Apply: bucket index %d out of range", b))
		}
	}

	scratch := col.Store.NewScratch()
	col.Store.Intersect(scratch, combo)

	derived := col.AppendDerived("", level+1)
	col.SetName(derived, fmt.Sprintf("dedupe%05d", col.Len()))
	col.FillFromIntersection(derived, scratch)

	moved := col.At(derived)
	for _, b := range combo {
		col.SplitOff(b, scratch, moved.RefCount, moved.RefSize, derived)
	}
	return derived, nil
}
