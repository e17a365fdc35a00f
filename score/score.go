// Package score evaluates candidate bucket combinations: for a K-tuple of
// bucket indices, it computes the byte size of their shared (intersected)
// items and the resulting gain if that intersection were factored out into
// a derived bucket.
//
// Scoring is split into a scalar reference kernel (IntersectionSize) and an
// Engine that dispatches batches of combinations to it. The reference
// kernel is the one actually used today; Engine exists so that a future
// data-parallel backend addressing the same tile-swizzled layout (see
// package refset) can be substituted without changing package search.
package score

import (
	"github.com/ig-dedupe/dedupe/errors"
	"github.com/ig-dedupe/dedupe/refset"
	"github.com/ig-dedupe/dedupe/traverse"
)

// Config holds the batch-dispatch parameters for a CPU Engine: the number
// of combinations scored per dispatch (KickSize) and the shard size used to
// group combinations within a dispatch (LocalSize), mirroring the global
// and local work-group sizes of a data-parallel kernel launch.
type Config struct {
	// KickSize is how many combinations are scored per batch.
	KickSize int
	// LocalSize bounds the shard size combinations within a batch are
	// grouped into: a batch of n combinations is split into
	// ceil(n/LocalSize) shards of at most LocalSize combinations, each with
	// its own scratch buffer.
	LocalSize int
}

// Validate checks that c's fields are positive powers of two, as a
// data-parallel kernel launch requires for its work-group size, and that
// LocalSize does not exceed KickSize.
func (c Config) Validate() error {
	if !isPowerOfTwo(c.KickSize) {
		return errors.E(errors.Invalid, "score: KickSize must be a power of two")
	}
	if !isPowerOfTwo(c.LocalSize) {
		return errors.E(errors.Invalid, "score: LocalSize must be a power of two")
	}
	if c.LocalSize > c.KickSize {
		return errors.E(errors.Invalid, "score: LocalSize must not exceed KickSize")
	}
	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Combo is a scored K-tuple of bucket indices.
type Combo struct {
	Buckets []int
	// Size is the byte size of the combo's shared items (the raw
	// intersection weight), unweighted by K.
	Size uint64
}

// IntersectionSize is the scalar reference kernel: it computes the byte
// size of the intersection of the given buckets' ref sets, using scratch as
// scratch space (see refset.Store.NewScratch). Any backend that scores
// combinations, accelerated or not, must agree with this function bit for
// bit.
func IntersectionSize(store *refset.Store, scratch []uint32, buckets []int) uint64 {
	store.Intersect(scratch, buckets)
	return store.WeightedSize(scratch)
}

// Engine scores batches of same-K combinations against a refset.Store.
type Engine interface {
	// ScoreBatch scores every K-tuple in combos (combos is len(batch)*k
	// ints, flattened the way package comb emits them) and returns one
	// Combo per tuple, in the same order.
	ScoreBatch(store *refset.Store, k int, combos []int) []Combo
}

// CPUEngine is the reference Engine: it evaluates IntersectionSize for each
// combination, sharding the batch across goroutines the way a kernel launch
// shards work items across work-groups of LocalSize.
type CPUEngine struct {
	Config Config
}

// NewCPUEngine creates a CPUEngine, validating cfg.
func NewCPUEngine(cfg Config) (*CPUEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &CPUEngine{Config: cfg}, nil
}

// ScoreBatch implements Engine.
func (e *CPUEngine) ScoreBatch(store *refset.Store, k int, combos []int) []Combo {
	n := len(combos) / k
	results := make([]Combo, n)
	scratches := make([][]uint32, runtimeShards(n, e.Config.LocalSize))
	for i := range scratches {
		scratches[i] = store.NewScratch()
	}
	// traverse splits the batch into len(scratches) shards of shardSize
	// combinations, so start/shardSize is the shard's own index.
	shardSize := (n + len(scratches) - 1) / len(scratches)
	traverse.Parallel(n).Sharded(len(scratches)).DoRange(func(start, end int) error {
		shard := start / max(1, shardSize)
		if shard >= len(scratches) {
			shard = len(scratches) - 1
		}
		scratch := scratches[shard]
		for i := start; i < end; i++ {
			tuple := combos[i*k : (i+1)*k]
			results[i] = Combo{
				Buckets: append([]int(nil), tuple...),
				Size:    IntersectionSize(store, scratch, tuple),
			}
		}
		return nil
	})
	return results
}

// runtimeShards picks how many scratch buffers ScoreBatch allocates: one
// per LocalSize-sized group of combinations, at least one.
func runtimeShards(n, localSize int) int {
	if localSize <= 0 {
		localSize = 1
	}
	shards := (n + localSize - 1) / localSize
	if shards < 1 {
		shards = 1
	}
	return shards
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Gain returns the weighted savings of factoring a size-K combination's
// shared items into a derived bucket: the intersection is removed from K
// buckets and re-added once, a net savings of (K-1) copies.
func Gain(size uint64, k int) uint64 {
	return size * uint64(k-1)
}
