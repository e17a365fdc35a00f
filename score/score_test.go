package score_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ig-dedupe/dedupe/item"
	"github.com/ig-dedupe/dedupe/refset"
	"github.com/ig-dedupe/dedupe/score"
)

func buildStore(t *testing.T) (*refset.Store, []int) {
	t.Helper()
	cat := item.NewCatalog([]item.Size{10, 20, 30, 40, 50})
	s := refset.NewStore(cat)

	a, _ := s.AppendBucket()
	s.SetBit(a, 0)
	s.SetBit(a, 1)
	s.SetBit(a, 2)

	b, _ := s.AppendBucket()
	s.SetBit(b, 1)
	s.SetBit(b, 2)
	s.SetBit(b, 3)

	c, _ := s.AppendBucket()
	s.SetBit(c, 2)
	s.SetBit(c, 4)

	return s, []int{a, b, c}
}

func TestIntersectionSize(t *testing.T) {
	s, buckets := buildStore(t)
	scratch := s.NewScratch()

	// a ∩ b = {1, 2} -> 20 + 30 = 50
	got := score.IntersectionSize(s, scratch, buckets[0:2])
	assert.EqualValues(t, 50, got)

	// a ∩ b ∩ c = {2} -> 30
	got = score.IntersectionSize(s, scratch, buckets)
	assert.EqualValues(t, 30, got)
}

func TestGainWeightsByKMinusOne(t *testing.T) {
	assert.EqualValues(t, 0, score.Gain(100, 1))
	assert.EqualValues(t, 100, score.Gain(100, 2))
	assert.EqualValues(t, 300, score.Gain(100, 4))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, score.Config{KickSize: 1024, LocalSize: 64}.Validate())
	assert.Error(t, score.Config{KickSize: 1000, LocalSize: 64}.Validate())
	assert.Error(t, score.Config{KickSize: 1024, LocalSize: 3}.Validate())
	assert.Error(t, score.Config{KickSize: 64, LocalSize: 1024}.Validate())
}

func TestCPUEngineScoreBatchMatchesScalarReference(t *testing.T) {
	s, buckets := buildStore(t)
	engine, err := score.NewCPUEngine(score.Config{KickSize: 1024, LocalSize: 64})
	require.NoError(t, err)

	combos := []int{
		buckets[0], buckets[1],
		buckets[0], buckets[2],
		buckets[1], buckets[2],
	}
	results := engine.ScoreBatch(s, 2, combos)
	require.Len(t, results, 3)

	scratch := s.NewScratch()
	for _, r := range results {
		want := score.IntersectionSize(s, scratch, r.Buckets)
		assert.Equal(t, want, r.Size)
	}
}
