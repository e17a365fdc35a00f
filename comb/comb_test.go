package comb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ig-dedupe/dedupe/comb"
)

func drain(t *testing.T, e *comb.Enumerator) [][]int {
	t.Helper()
	k := e.K()
	var got [][]int
	buf := make([]int, 4*k)
	for !e.Done() {
		n := e.NextBatch(buf, 4, nil)
		require.Greater(t, n, 0)
		for i := 0; i < n; i++ {
			row := append([]int(nil), buf[i*k:(i+1)*k]...)
			got = append(got, row)
		}
	}
	return got
}

func TestEnumeratorCountMatchesBinomial(t *testing.T) {
	for _, c := range []struct {
		n, k int
		want int64
	}{
		{5, 2, 10},
		{6, 3, 20},
		{4, 4, 1},
		{10, 1, 10},
	} {
		e := comb.New(c.n, c.k)
		assert.Equal(t, c.want, e.Count())
	}
}

func TestEnumeratorProducesAllCombinationsOnce(t *testing.T) {
	e := comb.New(5, 2)
	got := drain(t, e)
	assert.True(t, e.Done())
	assert.Len(t, got, 10)

	seen := make(map[[2]int]bool)
	for _, row := range got {
		key := [2]int{row[0], row[1]}
		assert.False(t, seen[key], "duplicate combination %v", row)
		seen[key] = true
		assert.Less(t, row[0], row[1])
	}
	assert.Len(t, seen, 10)
}

func TestEnumeratorLexicographicOrder(t *testing.T) {
	e := comb.New(4, 2)
	got := drain(t, e)
	want := [][]int{
		{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i], got[i])
	}
}

func TestEnumeratorRemap(t *testing.T) {
	remap := []int{10, 20, 30}
	e := comb.New(3, 2)
	buf := make([]int, 2)
	n := e.NextBatch(buf, 1, remap)
	require.Equal(t, 1, n)
	assert.Equal(t, []int{10, 20}, buf)
}

func TestEnumeratorBatchSmallerThanRemaining(t *testing.T) {
	e := comb.New(5, 2)
	buf := make([]int, 6)
	total := 0
	for !e.Done() {
		n := e.NextBatch(buf, 3, nil)
		total += n
	}
	assert.EqualValues(t, e.Count(), total)
}

func TestEnumeratorReset(t *testing.T) {
	e := comb.New(4, 2)
	first := drain(t, e)
	e.Reset()
	second := drain(t, e)
	assert.Equal(t, first, second)
}
