// Copyright 2022 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bitset_test

import (
	"math/rand"
	"testing"

	gbitset "github.com/ig-dedupe/dedupe/bitset"
	"github.com/willf/bitset"
)

func TestSetTestClear(t *testing.T) {
	const nBit = 300
	data := gbitset.NewClearBits(nBit)
	ref := bitset.New(nBit)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		bit := rng.Intn(nBit)
		if rng.Intn(2) == 0 {
			gbitset.Set(data, bit)
			ref.Set(uint(bit))
		} else {
			gbitset.Clear(data, bit)
			ref.Clear(uint(bit))
		}
	}

	for i := 0; i < nBit; i++ {
		if got, want := gbitset.Test(data, i), ref.Test(uint(i)); got != want {
			t.Fatalf("bit %d: got %v, want %v", i, got, want)
		}
	}
}

func TestAndXorInto(t *testing.T) {
	a := gbitset.NewClearBits(128)
	b := gbitset.NewClearBits(128)
	gbitset.SetInterval(a, 0, 100)
	gbitset.SetInterval(b, 50, 128)

	scratch := gbitset.NewClearBits(128)
	gbitset.FillOnes(scratch)
	gbitset.AndInto(scratch, a)
	gbitset.AndInto(scratch, b)

	// Intersection of [0,100) and [50,128) is [50,100).
	for i := 0; i < 128; i++ {
		want := i >= 50 && i < 100
		if got := gbitset.Test(scratch, i); got != want {
			t.Fatalf("bit %d: got %v, want %v", i, got, want)
		}
	}

	// a \ scratch should be [0, 50).
	gbitset.XorInto(a, scratch)
	for i := 0; i < 128; i++ {
		want := i < 50
		if got := gbitset.Test(a, i); got != want {
			t.Fatalf("subtracted bit %d: got %v, want %v", i, got, want)
		}
	}
}

func TestPopcount(t *testing.T) {
	data := gbitset.NewClearBits(256)
	rng := rand.New(rand.NewSource(2))
	ref := bitset.New(256)
	for i := 0; i < 500; i++ {
		bit := rng.Intn(256)
		gbitset.Set(data, bit)
		ref.Set(uint(bit))
	}
	if got, want := gbitset.Popcount(data), int(ref.Count()); got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestNonzeroWordScanner(t *testing.T) {
	data := gbitset.NewClearBits(256)
	want := map[int]bool{3: true, 31: true, 32: true, 200: true, 255: true}
	for bit := range want {
		gbitset.Set(data, bit)
	}
	nzw := 0
	for _, w := range data {
		if w != 0 {
			nzw++
		}
	}

	got := map[int]bool{}
	for s, i := gbitset.NewNonzeroWordScanner(data, nzw); i != -1; i = s.Next() {
		got[i] = true
	}
	if len(got) != len(want) {
		t.Fatalf("got %d bits, want %d", len(got), len(want))
	}
	for bit := range want {
		if !got[bit] {
			t.Fatalf("missing bit %d", bit)
		}
	}
}
