// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package bitset provides support for treating a []uint32 as a bitset.  It
// is deliberately word-width-pinned to 32 bits rather than the machine word
// size: the reference-set store (see package refset) shares this exact
// layout with a data-parallel scoring kernel, which addresses memory in
// 32-bit lanes regardless of host architecture. It's essentially a
// less-abstracted, narrower-word variant of github.com/willf/bitset.
package bitset
