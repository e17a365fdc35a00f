// Package refset implements the bit-packed reference-set store: one
// fixed-width bitset per bucket plus a per-item size vector, laid out in the
// tile-swizzled layout described by package refset's Swizzle, so that
// intersection and scoring operations address memory the same way a
// data-parallel accelerator kernel would (see package score).
package refset

import (
	"math/bits"
	"sort"

	"github.com/ig-dedupe/dedupe/bitset"
	"github.com/ig-dedupe/dedupe/item"
)

// growthChunk is how many buckets worth of capacity are added at a time when
// the store needs to grow, amortizing reallocation (spec section 4.2).
const growthChunk = 64

// wordAlign rounds a bucket's word count up to a 4-word (16-byte) boundary.
// Go gives no direct control over slice pointer alignment, but keeping each
// bucket's stride a multiple of 4 words preserves the intent of the
// original's 16-byte aligned allocations for any future SIMD widening.
func wordAlign(words int) int {
	const align = 4
	return (words + align - 1) &^ (align - 1)
}

// Store holds bucket_count bitsets of word_count words each, plus the
// item-size array, both in swizzled physical layout.
type Store struct {
	itemCount int
	paddedN   int
	wordCount int // words per bucket, aligned to wordAlign

	sizes []uint32 // swizzled, length paddedN

	refs           []uint32 // flat, length bucketCapacity*wordCount
	bucketCount    int
	bucketCapacity int
}

// NewStore builds a Store from a catalog of item sizes in natural order. The
// store starts with zero buckets; use AppendBucket to add them.
func NewStore(cat *item.Catalog) *Store {
	n := cat.Len()
	padded := alignPadded(n)
	wc := wordAlign(padded / bitset.BitsPerWord)

	s := &Store{
		itemCount: n,
		paddedN:   padded,
		wordCount: wc,
		sizes:     make([]uint32, padded),
	}
	for i := 0; i < n; i++ {
		s.sizes[Swizzle(i)] = cat.Size(i)
	}
	return s
}

// ItemCount returns N, the number of natural item ids.
func (s *Store) ItemCount() int { return s.itemCount }

// WordCount returns the number of 32-bit words per bucket bitset.
func (s *Store) WordCount() int { return s.wordCount }

// BucketCount returns the number of buckets currently stored.
func (s *Store) BucketCount() int { return s.bucketCount }

// growIfNeeded ensures capacity for at least one more bucket.
func (s *Store) growIfNeeded() {
	if s.bucketCount < s.bucketCapacity {
		return
	}
	newCapacity := s.bucketCapacity + growthChunk
	newRefs := make([]uint32, newCapacity*s.wordCount)
	copy(newRefs, s.refs)
	s.refs = newRefs
	s.bucketCapacity = newCapacity
}

// AppendBucket reserves storage for a new, all-clear bucket bitset and
// returns its index and a mutable view of its words.
func (s *Store) AppendBucket() (index int, words []uint32) {
	s.growIfNeeded()
	index = s.bucketCount
	s.bucketCount++
	return index, s.BucketWords(index)
}

// BucketWords returns a mutable view of bucket b's words, in swizzled
// layout. The returned slice aliases the store's backing array.
func (s *Store) BucketWords(b int) []uint32 {
	off := b * s.wordCount
	return s.refs[off : off+s.wordCount]
}

// TestBit reports whether natural item id is set in bucket b.
func (s *Store) TestBit(b, id int) bool {
	return bitset.Test(s.BucketWords(b), Swizzle(id))
}

// SetBit sets natural item id in bucket b.
func (s *Store) SetBit(b, id int) {
	bitset.Set(s.BucketWords(b), Swizzle(id))
}

// ClearBit clears natural item id in bucket b.
func (s *Store) ClearBit(b, id int) {
	bitset.Clear(s.BucketWords(b), Swizzle(id))
}

// NewScratch allocates a word_count-sized scratch bitset suitable for
// Intersect.
func (s *Store) NewScratch() []uint32 {
	return make([]uint32, s.wordCount)
}

// Intersect computes the bitwise AND of the named buckets' ref bitsets into
// scratch, which must be word_count words long. scratch is seeded to
// all-ones so the intersection of zero buckets is (trivially) all items.
func (s *Store) Intersect(scratch []uint32, buckets []int) {
	bitset.FillOnes(scratch)
	for _, b := range buckets {
		bitset.AndInto(scratch, s.BucketWords(b))
	}
}

// Subtract removes everything set in sub from bucket b's ref bitset. sub
// must be a subset of bucket b's current bits.
func (s *Store) Subtract(b int, sub []uint32) {
	bitset.XorInto(s.BucketWords(b), sub)
}

// WeightedSize returns the sum, over all set bits in words (a swizzled
// bitset of word_count words), of the corresponding item's byte size. This
// is the scalar reference computation package score's scoring kernel
// performs per combination; it is exposed here because it's also needed
// outside scoring, e.g. to compute a freshly built bucket's ref_size.
func (s *Store) WeightedSize(words []uint32) uint64 {
	var sum uint64
	for wi, w := range words {
		if w == 0 {
			continue
		}
		base := wi * bitset.BitsPerWord
		for w != 0 {
			bit := bits.TrailingZeros32(w)
			sum += uint64(s.sizes[base+bit])
			w &= w - 1
		}
	}
	return sum
}

// Ids returns, in ascending natural order, the item ids set in words (a
// swizzled bitset of word_count words). This is the inverse of the store's
// physical layout: the serializer (out of scope for this module) walks this
// to emit natural ids from the swizzled storage.
func (s *Store) Ids(words []uint32) []int {
	var ids []int
	for physical := 0; physical < len(words)*bitset.BitsPerWord; physical++ {
		if bitset.Test(words, physical) {
			ids = append(ids, Unswizzle(physical))
		}
	}
	sort.Ints(ids)
	return ids
}
