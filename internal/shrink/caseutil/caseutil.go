// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package caseutil implements the mixed-case collision policy from spec
// §4.1: when mixed-case names are disallowed (the host CLI's
// "-dontusemixedcaseclassnames" style flag), the global used-name set is
// keyed by a case-folded form, so "Aa" and "aA" collide.
package caseutil

import "golang.org/x/text/cases"

// folder performs full Unicode case folding, not just ASCII lower-casing,
// so obfuscated dictionaries containing non-ASCII fresh names (synthetic
// names copied from a Kotlin/Java source with non-Latin identifiers) still
// collide correctly under the mixed-case-disabled policy.
var folder = cases.Fold()

// Fold returns s unchanged (the case-sensitive policy) unless
// mixedCaseAllowed is false, in which case it returns the case-folded form
// used as the collision key.
func Fold(s string, mixedCaseAllowed bool) string {
	if mixedCaseAllowed {
		return s
	}
	return folder.String(s)
}
