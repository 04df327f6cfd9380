// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package namesource generates the deterministic stream of short candidate
// identifiers used throughout the minifier (spec §4.1), and the
// Namespace/used-name bookkeeping built on top of it.
package namesource

// alphabet excludes 'l' (and 'L' in the upper form) per the obfuscation
// tradition of avoiding visual confusion with the digit 1 and, in upper
// case, with the "L" that opens a type descriptor.
const alphabet = "abcdefghijkmnopqrstuvwxyz"

// NameSource is a deterministic, infinite sequence of candidate
// identifiers: it first drains an optional dictionary (in order), then
// enumerates a, b, c, ..., z, aa, ab, ... over alphabet.
//
// A NameSource is single-owner, stateful and not safe for concurrent use —
// each Namespace or per-signature naming state owns exactly one.
type NameSource struct {
	dictionary []string
	dictIndex  int
	counter    uint64 // number of alphabet-generated names already produced
}

// New builds a NameSource that drains dictionary before falling back to
// the base alphabet. A nil or empty dictionary just skips straight to the
// alphabet.
func New(dictionary []string) *NameSource {
	return &NameSource{dictionary: dictionary}
}

// Next returns the next candidate in the sequence. The alphabet part never
// repeats itself, but a dictionary entry that is also a short alphabet
// name (e.g. "e") is returned again when the alphabet reaches it; callers
// filter candidates through their own used-name checks.
func (s *NameSource) Next() string {
	if s.dictIndex < len(s.dictionary) {
		name := s.dictionary[s.dictIndex]
		s.dictIndex++
		return name
	}
	name := indexToName(s.counter)
	s.counter++
	return name
}

// indexToName maps 0, 1, 2, ... to a, b, ..., z, aa, ab, ... (bijective
// base-len(alphabet) numbering, so there is no "az, a0" gap).
func indexToName(i uint64) string {
	const base = uint64(len(alphabet))
	// Bijective base-N: digits are 1..base instead of 0..base-1, so we
	// never emit a leading "virtual zero" digit.
	var digits []byte
	for {
		rem := i % base
		i /= base
		digits = append(digits, alphabet[rem])
		if i == 0 {
			break
		}
		i--
	}
	// reverse in place
	for l, r := 0, len(digits)-1; l < r; l, r = l+1, r-1 {
		digits[l], digits[r] = digits[r], digits[l]
	}
	return string(digits)
}
