// Copyright 2022 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// This is similar to github.com/willf/bitset, but with some extraneous
// abstraction removed and the word width pinned to 32 bits to match the
// scoring kernel's access pattern.

package bitset

import (
	"math/bits"
)

// BitsPerWord is the number of bits in a bitset word.
const BitsPerWord = 32

// Log2BitsPerWord is log_2(BitsPerWord).
const Log2BitsPerWord = uint(5)

// Set sets the given bit in a []uint32 bitset.
func Set(data []uint32, bitIdx int) {
	data[uint(bitIdx)>>Log2BitsPerWord] |= 1 << (uint(bitIdx) & (BitsPerWord - 1))
}

// Clear clears the given bit in a []uint32 bitset.
func Clear(data []uint32, bitIdx int) {
	wordIdx := uint(bitIdx) >> Log2BitsPerWord
	data[wordIdx] &^= 1 << (uint(bitIdx) & (BitsPerWord - 1))
}

// Test returns true iff the given bit is set.
func Test(data []uint32, bitIdx int) bool {
	return (data[uint(bitIdx)>>Log2BitsPerWord] & (1 << (uint(bitIdx) & (BitsPerWord - 1)))) != 0
}

// SetInterval sets the bits at all positions in [startIdx, limitIdx) in a
// []uint32 bitset.
func SetInterval(data []uint32, startIdx, limitIdx int) {
	if startIdx >= limitIdx {
		return
	}
	startWordIdx := startIdx >> Log2BitsPerWord
	startBit := uint32(1) << uint32(startIdx&(BitsPerWord-1))
	limitWordIdx := limitIdx >> Log2BitsPerWord
	limitBit := uint32(1) << uint32(limitIdx&(BitsPerWord-1))
	if startWordIdx == limitWordIdx {
		data[startWordIdx] |= limitBit - startBit
		return
	}
	data[startWordIdx] |= -startBit
	for wordIdx := startWordIdx + 1; wordIdx < limitWordIdx; wordIdx++ {
		data[wordIdx] = ^uint32(0)
	}
	if limitBit != 1 {
		data[limitWordIdx] |= limitBit - 1
	}
}

// ClearInterval clears the bits at all positions in [startIdx, limitIdx) in a
// []uint32 bitset.
func ClearInterval(data []uint32, startIdx, limitIdx int) {
	if startIdx >= limitIdx {
		return
	}
	startWordIdx := startIdx >> Log2BitsPerWord
	startBit := uint32(1) << uint32(startIdx&(BitsPerWord-1))
	limitWordIdx := limitIdx >> Log2BitsPerWord
	limitBit := uint32(1) << uint32(limitIdx&(BitsPerWord-1))
	if startWordIdx == limitWordIdx {
		data[startWordIdx] &= ^(limitBit - startBit)
		return
	}
	data[startWordIdx] &= startBit - 1
	for wordIdx := startWordIdx + 1; wordIdx < limitWordIdx; wordIdx++ {
		data[wordIdx] = 0
	}
	if limitBit != 1 {
		data[limitWordIdx] &= -limitBit
	}
}

// NewClearBits creates a []uint32 bitset with capacity for at least nBit
// bits, and all bits clear.
func NewClearBits(nBit int) []uint32 {
	nWord := (nBit + BitsPerWord - 1) / BitsPerWord
	return make([]uint32, nWord)
}

// NewSetBits creates a []uint32 bitset with capacity for at least nBit bits,
// and all bits at positions [0, nBit) set.
func NewSetBits(nBit int) []uint32 {
	data := NewClearBits(nBit)
	SetInterval(data, 0, nBit)
	return data
}

// FillOnes sets every word in data to all-ones. Used to seed the scratch
// bitset an intersection is built into, since AND-ing down from all-ones
// is cheaper to reason about than special-casing the first source bucket.
func FillOnes(data []uint32) {
	for i := range data {
		data[i] = ^uint32(0)
	}
}

// AndInto computes dst &= src word by word. dst and src must have the same
// length.
func AndInto(dst, src []uint32) {
	for i := range dst {
		dst[i] &= src[i]
	}
}

// XorInto computes dst ^= src word by word. Used to subtract an
// already-established subset (src ⊆ dst) out of dst.
func XorInto(dst, src []uint32) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// Popcount returns the number of set bits across all words.
func Popcount(data []uint32) int {
	n := 0
	for _, w := range data {
		n += bits.OnesCount32(w)
	}
	return n
}

// NonzeroWordScanner iterates over and clears the set bits in a bitset, with
// the somewhat unusual precondition that the number of nonzero words is known
// in advance.
//
// Note that, when many bits are set, a more complicated double-loop based
// around a function like willf/bitset.NextSetMany() has less overhead, and
// manual inlining of the iteration logic does better still. As a
// consequence, it shouldn't be used when bit iteration/clearing is the
// dominant cost, but it's a good default everywhere else.
type NonzeroWordScanner struct {
	data         []uint32
	bitIdxOffset int
	bitWord      uint32
	nNonzeroWord int
}

// NewNonzeroWordScanner returns a NonzeroWordScanner for the given bitset,
// along with the position of the first bit.
//
// The bitset is expected to be nonempty; otherwise this will crash the
// program with an out-of-bounds slice access. Similarly, if nNonzeroWord is
// larger than the actual number of nonzero words, or initially <= 0, the
// standard for loop will crash the program.
func NewNonzeroWordScanner(data []uint32, nNonzeroWord int) (NonzeroWordScanner, int) {
	for wordIdx := 0; ; wordIdx++ {
		bitWord := data[wordIdx]
		if bitWord != 0 {
			bitIdxOffset := wordIdx * BitsPerWord
			return NonzeroWordScanner{
				data:         data,
				bitIdxOffset: bitIdxOffset,
				bitWord:      bitWord & (bitWord - 1),
				nNonzeroWord: nNonzeroWord,
			}, bits.TrailingZeros32(bitWord) + bitIdxOffset
		}
	}
}

// Next returns the position of the next set bit, or -1 if there aren't any.
func (s *NonzeroWordScanner) Next() int {
	bitWord := s.bitWord
	if bitWord == 0 {
		wordIdx := int(uint(s.bitIdxOffset) >> Log2BitsPerWord)
		s.data[wordIdx] = 0
		s.nNonzeroWord--
		if s.nNonzeroWord == 0 {
			return -1
		}
		for {
			wordIdx++
			bitWord = s.data[wordIdx]
			if bitWord != 0 {
				break
			}
		}
		s.bitIdxOffset = wordIdx * BitsPerWord
	}
	s.bitWord = bitWord & (bitWord - 1)
	return bits.TrailingZeros32(bitWord) + s.bitIdxOffset
}
