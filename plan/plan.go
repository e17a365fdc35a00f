// Package plan orchestrates a full deduplication run: it sweeps levels and
// iterations, invoking package search to find the best combination each
// iteration and package dedupe to apply it, until the configured gain
// threshold, iteration budget, or level budget is exhausted.
package plan

import (
	"github.com/ig-dedupe/dedupe/bucket"
	"github.com/ig-dedupe/dedupe/dedupe"
	"github.com/ig-dedupe/dedupe/errors"
	"github.com/ig-dedupe/dedupe/log"
	"github.com/ig-dedupe/dedupe/score"
	"github.com/ig-dedupe/dedupe/search"
)

// Config holds the tunables for a deduplication run.
type Config struct {
	// AllowGPU indicates whether an accelerated score.Engine may be used in
	// place of score.CPUEngine. This module only implements the CPU engine;
	// a caller wiring in an accelerator should check this before
	// substituting one.
	AllowGPU bool
	// MinGainMB is the minimum byte savings, in megabytes, an iteration's
	// best combination must clear; iteration stops at a level once a
	// candidate falls short.
	MinGainMB float64
	// MinBucketSize excludes buckets at or below this size from search.
	MinBucketSize uint64
	// KickSize is the number of combinations scored per batch.
	KickSize int
	// LocalSize bounds the shard size within a batch (see score.Config).
	LocalSize int
	// MaxK is the largest combination size swept; the sweep runs from MaxK
	// down to 2. Run reduces a MaxK above 6 to 6, logging a warning at
	// log.Error.
	MaxK int
	// MaxLevels bounds how many dedupe levels are run.
	MaxLevels int
	// MaxIterations bounds how many combinations are applied per level.
	MaxIterations int
	// MaxBucketSplits excludes a bucket from search once its SplitCount
	// reaches this value.
	MaxBucketSplits int
	// MergeAcrossLevels, when true, allows a level's search to consider
	// buckets from any level, not just the one being processed.
	MergeAcrossLevels bool
}

// DefaultConfig returns the stock configuration: a 5MB minimum gain, a
// 512KiB minimum bucket size, a 65536-combination kick size, a 256-wide
// local size, K swept from 4 down to 2, up to 3 levels of up to 1024
// iterations each, and a 25-split cap per bucket, with cross-level merging
// enabled.
func DefaultConfig() Config {
	return Config{
		AllowGPU:          true,
		MinGainMB:         5.0,
		MinBucketSize:     512 * 1024,
		KickSize:          65536,
		LocalSize:         256,
		MaxK:              4,
		MaxLevels:         3,
		MaxIterations:     1024,
		MaxBucketSplits:   25,
		MergeAcrossLevels: true,
	}
}

// Validate checks c for internally-consistent values: the run-level
// parameters package search and dedupe depend on, and KickSize and
// LocalSize via score.Config.Validate. It rejects bad values rather than
// clamping them.
func (c Config) Validate() error {
	if c.MaxK < 2 {
		return errors.E(errors.Invalid, "plan: MaxK must be at least 2")
	}
	if c.MaxLevels < 1 {
		return errors.E(errors.Invalid, "plan: MaxLevels must be at least 1")
	}
	if c.MaxIterations < 1 {
		return errors.E(errors.Invalid, "plan: MaxIterations must be at least 1")
	}
	if c.MaxBucketSplits < 0 {
		return errors.E(errors.Invalid, "plan: MaxBucketSplits must not be negative")
	}
	return score.Config{KickSize: c.KickSize, LocalSize: c.LocalSize}.Validate()
}

func (c Config) minGainBytes() uint64 {
	return uint64(c.MinGainMB * 1024 * 1024)
}

// Summary reports what a Run call did.
type Summary struct {
	// LevelsRun is how many levels actually executed (may be less than
	// Config.MaxLevels if a level produced zero iterations).
	LevelsRun int
	// Iterations is the total number of combinations applied across all
	// levels.
	Iterations int
	// TotalGain is the sum of every applied combination's weighted gain, in
	// bytes.
	TotalGain uint64
}

// Run executes a full deduplication plan over col, in place, per cfg. It
// returns a Summary of what happened.
func Run(col *bucket.Collection, cfg Config) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	const maxKCap = 6
	if cfg.MaxK > maxKCap {
		log.Error.Printf("plan: MaxK %d exceeds the supported maximum of %d; using %d", cfg.MaxK, maxKCap, maxKCap)
		cfg.MaxK = maxKCap
	}
	engine, err := score.NewCPUEngine(score.Config{KickSize: cfg.KickSize, LocalSize: cfg.LocalSize})
	if err != nil {
		return Summary{}, err
	}
	minGain := cfg.minGainBytes()

	var summary Summary
	for level := 0; level < cfg.MaxLevels; level++ {
		passBucketCount := col.Len()
		log.Info.Printf("deduplication running, level %d/%d - %d buckets", level+1, cfg.MaxLevels, passBucketCount)

		iterationsThisLevel := 0
		for iter := 0; iter < cfg.MaxIterations; iter++ {
			eligible := search.EligibleBuckets(col, passBucketCount, search.Eligibility{
				MaxSplits:         cfg.MaxBucketSplits,
				MinBucketSize:     cfg.MinBucketSize,
				MergeAcrossLevels: cfg.MergeAcrossLevels,
				Level:             level,
			})

			result, ok := search.Step(col.Store, eligible, cfg.MaxK, engine, cfg.KickSize)
			if !ok || result.Gain < minGain {
				log.Info.Printf("aborting level %d after %d iterations, gain below threshold", level+1, iter+1)
				break
			}

			if _, err := dedupe.Apply(col, result.Buckets, level); err != nil {
				return summary, err
			}

			summary.TotalGain += result.Gain
			iterationsThisLevel++
		}

		summary.Iterations += iterationsThisLevel
		summary.LevelsRun++
		if iterationsThisLevel == 0 {
			break
		}
	}
	return summary, nil
}

// TotalSize returns the sum, over every bucket currently in col, of its
// cached RefSize.
func TotalSize(col *bucket.Collection) uint64 {
	var sum uint64
	for i := 0; i < col.Len(); i++ {
		sum += col.At(i).RefSize
	}
	return sum
}

// SeekCost returns the number of bucket "seeks" a reader following origin's
// split links would perform to retrieve everything originally referenced by
// origin: one for origin itself, plus recursively one for each distinct
// derived bucket it (directly or transitively) split into. A bucket is
// counted at most once even if multiple ancestors link to it.
func SeekCost(col *bucket.Collection, origin int) int {
	visited := make([]bool, col.Len())
	return seekCost(col, visited, origin)
}

func seekCost(col *bucket.Collection, visited []bool, b int) int {
	if visited[b] {
		return 0
	}
	visited[b] = true
	sum := 1
	info := col.At(b)
	for _, link := range info.SplitLinks {
		sum += seekCost(col, visited, link)
	}
	return sum
}

// SeekCosts returns SeekCost for every level-0 (input) bucket in col, in
// bucket order, stopping at the first non-level-0 bucket the way an
// append-only, input-buckets-first collection guarantees.
func SeekCosts(col *bucket.Collection) []int {
	var costs []int
	for i := 0; i < col.Len(); i++ {
		if col.At(i).Level != 0 {
			break
		}
		costs = append(costs, SeekCost(col, i))
	}
	return costs
}
