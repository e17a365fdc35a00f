// Package search drives one iteration's worth of combination search: it
// filters which buckets are eligible to take part, sweeps K from a
// configured maximum down to 2, and returns the best-scoring combination
// found, if any scored above zero. The gain threshold is applied by the
// caller (package plan).
package search

import (
	"github.com/ig-dedupe/dedupe/bucket"
	"github.com/ig-dedupe/dedupe/comb"
	"github.com/ig-dedupe/dedupe/refset"
	"github.com/ig-dedupe/dedupe/score"
)

// Eligibility holds the per-level parameters that decide which buckets may
// take part in a given pass's search.
type Eligibility struct {
	// MaxSplits excludes a bucket once its SplitCount reaches this value.
	MaxSplits int
	// MinBucketSize excludes a bucket whose RefSize is at or below this
	// threshold.
	MinBucketSize uint64
	// MergeAcrossLevels, when false, restricts eligibility to buckets whose
	// Level equals the level being searched.
	MergeAcrossLevels bool
	// Level is the level currently being searched.
	Level int
}

// EligibleBuckets returns the indices, in ascending order, of the buckets
// in [0, passBucketCount) that satisfy e against col.
func EligibleBuckets(col *bucket.Collection, passBucketCount int, e Eligibility) []int {
	var eligible []int
	for i := 0; i < passBucketCount; i++ {
		b := col.At(i)
		if b.SplitCount >= e.MaxSplits {
			continue
		}
		if b.RefSize <= e.MinBucketSize {
			continue
		}
		if !e.MergeAcrossLevels && b.Level != e.Level {
			continue
		}
		eligible = append(eligible, i)
	}
	return eligible
}

// Result is the winning combination from one Step call.
type Result struct {
	Buckets []int
	K       int
	Gain    uint64
}

// Step sweeps K from maxK down to 2 over the eligible buckets, scoring
// every K-combination in batches of kickSize combinations, and
// returns the combination with the greatest gain. Ties are broken in favor
// of the combination found first: larger K is swept first, and a later
// combination only replaces the current best if its gain is strictly
// greater.
//
// Step returns ok == false if eligible has fewer than 2 buckets or no
// combination scores above zero.
func Step(store *refset.Store, eligible []int, maxK int, engine score.Engine, kickSize int) (Result, bool) {
	var best Result
	found := false
	for k := maxK; k >= 2; k-- {
		if len(eligible) < k {
			continue
		}
		gen := comb.New(len(eligible), k)
		buf := make([]int, kickSize*k)
		for !gen.Done() {
			n := gen.NextBatch(buf, kickSize, eligible)
			scored := engine.ScoreBatch(store, k, buf[:n*k])
			for _, c := range scored {
				gain := score.Gain(c.Size, k)
				if gain > best.Gain {
					best = Result{Buckets: c.Buckets, K: k, Gain: gain}
					found = true
				}
			}
		}
	}
	return best, found
}
