// Package bucket holds the named, leveled collections of item references a
// layout deduplication run operates on, and the append-only collection that
// ties their metadata to the swizzled bit storage in package refset.
package bucket

import (
	"fmt"

	"github.com/ig-dedupe/dedupe/bitset"
	"github.com/ig-dedupe/dedupe/errors"
	"github.com/ig-dedupe/dedupe/item"
	"github.com/ig-dedupe/dedupe/refset"
)

// Bucket is the metadata half of a bucket: its bit membership lives in the
// Collection's refset.Store at the same index, kept in lockstep so that
// RefCount/RefSize always agree with the underlying bitset (spec invariant).
type Bucket struct {
	Name string
	// Level is 0 for input buckets, L+1 for a bucket derived from level-L
	// sources.
	Level int
	// RefCount and RefSize cache popcount(Refs) and the summed byte size of
	// Refs; Collection keeps these consistent on every mutation.
	RefCount int
	RefSize  uint64
	// SplitCount is the number of derived buckets this bucket has
	// contributed to.
	SplitCount int
	// SplitLinks holds the indices of derived buckets this bucket has
	// spawned or contributed to, in the order they were created.
	SplitLinks []int
}

// Collection is the append-only table of buckets for one run: bucket
// indices are stable for the run's lifetime, and SplitLinks stores indices,
// never pointers, so the table can grow by reallocation without disturbing
// existing references (spec section 3, "Bucket indices are stable").
type Collection struct {
	Store   *refset.Store
	buckets []Bucket
}

// NewCollection creates an empty Collection over the given item catalog.
func NewCollection(cat *item.Catalog) *Collection {
	return &Collection{Store: refset.NewStore(cat)}
}

// Len returns the number of buckets currently in the collection.
func (c *Collection) Len() int { return len(c.buckets) }

// At returns a copy of bucket b's metadata. Mutate it via the Collection's
// methods, not in place: RefCount/RefSize/Refs must change together.
func (c *Collection) At(b int) Bucket { return c.buckets[b] }

// Refs returns a view of bucket b's ref bitset, in swizzled layout.
func (c *Collection) Refs(b int) []uint32 { return c.Store.BucketWords(b) }

// Ids returns bucket b's currently-referenced item ids, ascending, in
// natural (unswizzled) order.
func (c *Collection) Ids(b int) []int { return c.Store.Ids(c.Refs(b)) }

// AddInputBucket appends a level-0 bucket named name, referencing the given
// natural item ids. It returns an InputError (errors.Invalid) if any ref is
// out of [0, N) or name is empty.
func (c *Collection) AddInputBucket(name string, refs []int) (int, error) {
	if name == "" {
		return 0, errors.E(errors.Invalid, "bucket.AddInputBucket: empty name")
	}
	n := c.Store.ItemCount()
	for _, r := range refs {
		if r < 0 || r >= n {
			return 0, errors.E(errors.Invalid,
				fmt.Sprintf("bucket %q references out-of-range item %d (item count %d)", name, r, n))
		}
	}

	idx, _ := c.Store.AppendBucket()
	for _, r := range refs {
		c.Store.SetBit(idx, r)
	}
	words := c.Refs(idx)
	c.buckets = append(c.buckets, Bucket{
		Name:     name,
		Level:    0,
		RefCount: bitset.Popcount(words),
		RefSize:  c.Store.WeightedSize(words),
	})
	return idx, nil
}

// AppendDerived appends a new, initially-empty derived bucket at level L+1
// and returns its index. Callers (package dedupe) populate its bits and
// counts via the Collection's Store and SetCounts, and typically name it
// from the post-append Len() via SetName.
func (c *Collection) AppendDerived(name string, level int) int {
	idx, _ := c.Store.AppendBucket()
	c.buckets = append(c.buckets, Bucket{Name: name, Level: level})
	return idx
}

// SetName renames bucket b.
func (c *Collection) SetName(b int, name string) {
	c.buckets[b].Name = name
}

// SetCounts recomputes and stores bucket b's RefCount/RefSize from its
// current bitset, preserving the spec invariant that cached counts always
// agree with Refs.
func (c *Collection) SetCounts(b int) {
	words := c.Refs(b)
	c.buckets[b].RefCount = bitset.Popcount(words)
	c.buckets[b].RefSize = c.Store.WeightedSize(words)
}

// AddSplitLink records that bucket b contributed to derived bucket
// derivedIdx, bumping b's split count.
func (c *Collection) AddSplitLink(b, derivedIdx int) {
	c.buckets[b].SplitLinks = append(c.buckets[b].SplitLinks, derivedIdx)
	c.buckets[b].SplitCount++
}

// AdjustSize subtracts delta bits/bytes from bucket b's cached counts,
// without touching its bitset (the caller has already XORed the bits out).
func (c *Collection) AdjustSize(b int, refCountDelta int, refSizeDelta uint64) {
	c.buckets[b].RefCount -= refCountDelta
	c.buckets[b].RefSize -= refSizeDelta
}

// FillFromIntersection copies words (a swizzled intersection bitset sized
// for the Collection's Store) into derived bucket b's ref bitset and
// recomputes its cached counts. It's used to populate a bucket just
// returned by AppendDerived.
func (c *Collection) FillFromIntersection(b int, words []uint32) {
	copy(c.Refs(b), words)
	c.SetCounts(b)
}

// SplitOff removes the bits in shared from source bucket b's ref bitset,
// adjusts its cached counts by the given delta, and records a split link to
// derivedIdx. shared must be a subset of b's current bits.
func (c *Collection) SplitOff(b int, shared []uint32, refCountDelta int, refSizeDelta uint64, derivedIdx int) {
	c.Store.Subtract(b, shared)
	c.AdjustSize(b, refCountDelta, refSizeDelta)
	c.AddSplitLink(b, derivedIdx)
}
