// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package namesource

import (
	"github.com/derekparker/trie"

	"github.com/chrispaulwu/r8/internal/shrink/caseutil"
)

// Namespace is a per-package or per-outer-class pool of names already in
// use, plus the NameSource that supplies fresh candidates for it. Binding
// is by prefix string: "com/x/" for a package, "com/x/A$" for an outer
// class, or a synthesized site key for a compiler-generated class (spec
// §4.2, §9).
//
// The used-name set is a trie rather than a plain map so that a "does
// anything already start with this prefix" query (HasPrefixed) is a
// single PrefixSearch instead of a linear scan.
type Namespace struct {
	prefix        string
	sourcePackage string // original package, for PackageRenaming; "" if unknown/not applicable
	source        *NameSource
	used          *trie.Trie
	mixedCase     bool
}

// NewNamespace creates a Namespace bound to prefix, seeded with an
// optional dictionary and the global mixed-case policy.
func NewNamespace(prefix, sourcePackage string, dictionary []string, mixedCase bool) *Namespace {
	return &Namespace{
		prefix:        prefix,
		sourcePackage: sourcePackage,
		source:        New(dictionary),
		used:          trie.New(),
		mixedCase:     mixedCase,
	}
}

// Prefix returns the binary-name or package prefix this Namespace is bound
// to.
func (ns *Namespace) Prefix() string { return ns.prefix }

// PackageName returns the package this Namespace renames *from*, for the
// PackageRenaming table (spec §4.2 "Package renaming output").
func (ns *Namespace) PackageName() string { return ns.sourcePackage }

// MarkUsed records candidate as taken in this Namespace, so that later
// NextFreshName calls skip it. NextFreshName calls it for every name it
// returns; ClassMinifier records strategy-reserved descriptors in its own
// global used set instead of calling MarkUsed.
func (ns *Namespace) MarkUsed(candidate string) {
	ns.used.Add(caseutil.Fold(candidate, ns.mixedCase), nil)
}

// isUsedLocally reports whether candidate collides with a name already
// marked used in this Namespace.
func (ns *Namespace) isUsedLocally(candidate string) bool {
	_, ok := ns.used.Find(caseutil.Fold(candidate, ns.mixedCase))
	return ok
}

// HasPrefixed reports whether any name used in this Namespace begins with
// prefix. ClassMinifier does not call it: inner-class names are kept
// apart by the Namespace bound to the outer prefix and by the global
// descriptor set.
func (ns *Namespace) HasPrefixed(prefix string) bool {
	return len(ns.used.PrefixSearch(caseutil.Fold(prefix, ns.mixedCase))) > 0
}

// NextFreshName draws candidates from the NameSource until one is
// accepted by both this Namespace's local used-set and the caller-supplied
// isUsed predicate (which typically checks a global cross-package used set
// for reserved descriptors, per spec §4.2's "Collision rule"). The
// accepted name is marked used before being returned.
func (ns *Namespace) NextFreshName(isUsed func(candidate string) bool) string {
	for {
		candidate := ns.source.Next()
		if ns.isUsedLocally(candidate) {
			continue
		}
		if isUsed != nil && isUsed(candidate) {
			continue
		}
		ns.MarkUsed(candidate)
		return candidate
	}
}
