package dedupe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ig-dedupe/dedupe/bucket"
	"github.com/ig-dedupe/dedupe/dedupe"
	"github.com/ig-dedupe/dedupe/item"
)

func TestApplyFactorsOutIntersection(t *testing.T) {
	cat := item.NewCatalog([]item.Size{10, 20, 30, 40, 50})
	col := bucket.NewCollection(cat)

	a, err := col.AddInputBucket("a", []int{0, 1, 2})
	require.NoError(t, err)
	b, err := col.AddInputBucket("b", []int{1, 2, 3})
	require.NoError(t, err)

	beforeA := col.At(a)
	beforeB := col.At(b)

	derived, err := dedupe.Apply(col, []int{a, b}, 0)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, col.Ids(derived))
	assert.EqualValues(t, 20+30, col.At(derived).RefSize)
	assert.Equal(t, 1, col.At(derived).Level)

	assert.Equal(t, []int{0}, col.Ids(a))
	assert.Equal(t, []int{3}, col.Ids(b))

	assert.Equal(t, beforeA.RefCount-2, col.At(a).RefCount)
	assert.Equal(t, beforeB.RefCount-2, col.At(b).RefCount)

	assert.Equal(t, []int{derived}, col.At(a).SplitLinks)
	assert.Equal(t, []int{derived}, col.At(b).SplitLinks)
	assert.Equal(t, 1, col.At(a).SplitCount)
}

func TestApplyRejectsTooFewBuckets(t *testing.T) {
	cat := item.NewCatalog([]item.Size{10})
	col := bucket.NewCollection(cat)
	a, err := col.AddInputBucket("a", []int{0})
	require.NoError(t, err)

	_, err = dedupe.Apply(col, []int{a}, 0)
	assert.Error(t, err)
}

func TestApplyRejectsOutOfRangeBucket(t *testing.T) {
	cat := item.NewCatalog([]item.Size{10})
	col := bucket.NewCollection(cat)
	a, err := col.AddInputBucket("a", []int{0})
	require.NoError(t, err)

	_, err = dedupe.Apply(col, []int{a, 99}, 0)
	assert.Error(t, err)
}

func TestApplyNameIncludesBucketCount(t *testing.T) {
	cat := item.NewCatalog([]item.Size{10, 20})
	col := bucket.NewCollection(cat)
	a, _ := col.AddInputBucket("a", []int{0, 1})
	b, _ := col.AddInputBucket("b", []int{0, 1})

	derived, err := dedupe.Apply(col, []int{a, b}, 0)
	require.NoError(t, err)
	assert.Equal(t, "dedupe00003", col.At(derived).Name)
}
