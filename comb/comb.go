// Package comb enumerates k-element combinations of the integers
// [0, n) in lexicographic order, without materializing the full sequence:
// callers pull batches as they consume them, the way package search pulls
// batches of candidate bucket tuples to score.
package comb

// Enumerator produces the k-combinations of [0, n) in ascending
// lexicographic order. The zero value is not usable; construct one with
// New.
type Enumerator struct {
	n, k  int
	cur   []int // current combination, length k; cur[k-1] starts one below its first value
	index int64
	count int64
}

// New creates an Enumerator over the k-combinations of [0, n). It panics if
// k is not in [1, n].
func New(n, k int) *Enumerator {
	if k <= 0 || k > n {
		panic("comb: k must be in [1, n]")
	}
	e := &Enumerator{
		n:   n,
		k:   k,
		cur: make([]int, k),
	}
	for x := 0; x < k; x++ {
		e.cur[x] = x
	}
	// Decrement the last index once so NextBatch's pre-increment produces
	// the first combination, 0..k-1, on its first step.
	e.cur[k-1]--

	var num, div int64 = 1, 1
	for x := 0; x < k; x++ {
		num *= int64(n - x)
	}
	for x := 0; x < k-1; x++ {
		div *= int64(k - x)
	}
	e.count = num / div
	return e
}

// N returns the enumerator's universe size.
func (e *Enumerator) N() int { return e.n }

// K returns the combination size.
func (e *Enumerator) K() int { return e.k }

// Count returns the total number of combinations the enumerator produces.
func (e *Enumerator) Count() int64 { return e.count }

// Index returns the number of combinations already emitted.
func (e *Enumerator) Index() int64 { return e.index }

// Done reports whether every combination has been emitted.
func (e *Enumerator) Done() bool { return e.index >= e.count }

// NextBatch writes up to max combinations into dst, k ints each, and returns
// how many it wrote. dst must have length at least max*k. If remap is
// non-nil, each emitted index i is translated to remap[i] before being
// written; remap is typically a bucket eligibility list, so the enumerator
// itself only ever needs to know about the eligible count.
func (e *Enumerator) NextBatch(dst []int, max int, remap []int) int {
	seqLeft := e.count - e.index
	want := int64(max)
	if want > seqLeft {
		want = seqLeft
	}
	remaining := int(want)

	n, k := e.n, e.k
	out := 0
	for remaining > 0 {
		y := k - 1
		hi := n - 1
		v := 0
		for y >= 0 {
			v = e.cur[y]
			if v < hi {
				break
			}
			y--
			hi--
		}
		e.cur[y] = v + 1
		for x := y + 1; x < k; x++ {
			e.cur[x] = e.cur[x-1] + 1
		}

		for x := 0; x < k; x++ {
			id := e.cur[x]
			if remap != nil {
				id = remap[id]
			}
			dst[out] = id
			out++
		}
		remaining--
	}
	e.index += want
	return int(want)
}

// Reset rewinds the enumerator to its first combination.
func (e *Enumerator) Reset() {
	*e = *New(e.n, e.k)
}
