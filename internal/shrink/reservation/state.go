// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reservation implements the ReservationState tree (spec §3,
// §4.3): a hierarchical store of names that keep rules or apply-mapping
// have locked in for a given SignatureKey, rooted at a synthetic node for
// java.lang.Object.
//
// A ReservationState node's parent is the node of its type's supertype (or
// the synthetic root, for a type with no supertype). Lookups walk the
// parent chain so that a reservation recorded on a supertype is visible —
// and therefore blocks the name — for every subtype, without requiring the
// write to be duplicated into every subtype's node.
package reservation

import (
	"sort"

	"github.com/chrispaulwu/r8/internal/shrink/model"
)

// node is one ReservationState in the tree.
type node struct {
	parent *node
	byKey  map[model.SignatureKey]map[string]bool
}

func newNode(parent *node) *node {
	return &node{parent: parent, byKey: make(map[model.SignatureKey]map[string]bool)}
}

// Registry lazily creates and owns one node per Type for the lifetime of a
// minification run (spec §3 "Lifecycles"): states are never destroyed.
type Registry struct {
	root  *node // synthetic Object root
	nodes map[*model.Type]*node
}

// NewRegistry creates an empty Registry with its synthetic Object root.
func NewRegistry() *Registry {
	return &Registry{
		root:  newNode(nil),
		nodes: make(map[*model.Type]*node),
	}
}

// stateFor returns (creating if necessary) the node for t, recursively
// creating its supertype's node first so the parent chain is always fully
// linked before t's node is handed out.
func (r *Registry) stateFor(t *model.Type) *node {
	if t == nil {
		return r.root
	}
	if n, ok := r.nodes[t]; ok {
		return n
	}
	parent := r.stateFor(t.Supertype)
	n := newNode(parent)
	r.nodes[t] = n
	return n
}

// Reserve records that name is locked in for sig at t's own node (spec
// §4.3: reservations are written at the frontier, not duplicated onto
// every subtype).
func (r *Registry) Reserve(t *model.Type, sig model.SignatureKey, name string) {
	n := r.stateFor(t)
	set := n.byKey[sig]
	if set == nil {
		set = make(map[string]bool)
		n.byKey[sig] = set
	}
	set[name] = true
}

// IsReserved reports whether name is reserved for sig anywhere in t's
// parent chain (t's own node up through the synthetic root).
func (r *Registry) IsReserved(t *model.Type, sig model.SignatureKey, name string) bool {
	for n := r.stateFor(t); n != nil; n = n.parent {
		if n.byKey[sig][name] {
			return true
		}
	}
	return false
}

// Reservations returns every name reserved for sig across t's parent
// chain, sorted for deterministic iteration (callers that need to pick
// "the" reservation among several apply-mapping-registered names, per
// spec §4.5, must see a stable order).
func (r *Registry) Reservations(t *model.Type, sig model.SignatureKey) []string {
	seen := make(map[string]bool)
	for n := r.stateFor(t); n != nil; n = n.parent {
		for name := range n.byKey[sig] {
			seen[name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasAny reports whether t's own node (not its ancestors) carries any
// reservation for sig, telling a name recorded on t itself apart from one
// merely inherited from an ancestor. No other package in this module
// calls it.
func (r *Registry) HasAny(t *model.Type, sig model.SignatureKey) bool {
	n, ok := r.nodes[t]
	if !ok {
		return false
	}
	return len(n.byKey[sig]) > 0
}
