package refset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ig-dedupe/dedupe/bitset"
	"github.com/ig-dedupe/dedupe/item"
	"github.com/ig-dedupe/dedupe/refset"
)

func TestStoreSetTestAndIntersect(t *testing.T) {
	cat := item.NewCatalog([]item.Size{10, 10, 10, 10, 10})
	s := refset.NewStore(cat)

	a, aWords := s.AppendBucket()
	b, bWords := s.AppendBucket()
	_ = aWords
	_ = bWords

	s.SetBit(a, 0)
	s.SetBit(a, 1)
	s.SetBit(b, 1)
	s.SetBit(b, 2)

	require.True(t, s.TestBit(a, 0))
	require.False(t, s.TestBit(a, 2))

	scratch := s.NewScratch()
	s.Intersect(scratch, []int{a, b})
	assert.Equal(t, []int{1}, s.Ids(scratch))
	assert.EqualValues(t, 10, s.WeightedSize(scratch))
}

func TestStoreSubtract(t *testing.T) {
	cat := item.NewCatalog([]item.Size{1, 2, 3})
	s := refset.NewStore(cat)
	a, _ := s.AppendBucket()
	s.SetBit(a, 0)
	s.SetBit(a, 1)
	s.SetBit(a, 2)

	sub := s.NewScratch()
	bitset.Set(sub, refset.Swizzle(1))
	s.Subtract(a, sub)

	assert.Equal(t, []int{0, 2}, s.Ids(s.BucketWords(a)))
}

func TestStoreGrowth(t *testing.T) {
	cat := item.NewCatalog(make([]item.Size, 4))
	s := refset.NewStore(cat)
	for i := 0; i < 200; i++ {
		idx, _ := s.AppendBucket()
		if idx != i {
			t.Fatalf("bucket %d got index %d", i, idx)
		}
	}
	assert.Equal(t, 200, s.BucketCount())
}
