// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package naming implements the NamingState tree (spec §3, §4.5): a
// hierarchical store of names already committed during method assignment,
// parallel to the ReservationState tree in package reservation.
//
// A NamingState node's parent is the node of its type's superclass. Child
// nodes inherit assigned names from the parent chain, which is how a
// subtype discovers (and reuses) a name its superclass already picked for
// an overridden method, without MethodMinifier having to special-case
// overrides.
package naming

import (
	"github.com/chrispaulwu/r8/internal/shrink/model"
	"github.com/chrispaulwu/r8/internal/shrink/namesource"
	"github.com/chrispaulwu/r8/internal/shrink/reservation"
)

// internalState is the per-(node, SignatureKey) bucket: spec's
// InternalState, storing assigned names and which MethodRefs claim each
// name, plus the NameSource that produces fresh candidates for this
// signature pool.
type internalState struct {
	assigned map[model.MethodRef]string
	usedBy   map[string]map[model.MethodRef]bool
	source   *namesource.NameSource
}

func newInternalState() *internalState {
	return &internalState{
		assigned: make(map[model.MethodRef]string),
		usedBy:   make(map[string]map[model.MethodRef]bool),
		source:   namesource.New(nil),
	}
}

type node struct {
	parent *node
	byKey  map[model.SignatureKey]*internalState
}

func newNode(parent *node) *node {
	return &node{parent: parent, byKey: make(map[model.SignatureKey]*internalState)}
}

func (n *node) stateFor(sig model.SignatureKey) *internalState {
	s, ok := n.byKey[sig]
	if !ok {
		s = newInternalState()
		n.byKey[sig] = s
	}
	return s
}

// Registry lazily creates and owns one node per Type, mirroring the class
// hierarchy (not the frontier collapse that ReservationState performs):
// each program class gets its own node so per-class assignment can see,
// but not corrupt, its ancestors' commitments.
type Registry struct {
	root  *node
	nodes map[*model.Type]*node
}

// NewRegistry creates an empty Registry with a synthetic Object root.
func NewRegistry() *Registry {
	return &Registry{root: newNode(nil), nodes: make(map[*model.Type]*node)}
}

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

// Assigned searches t's parent chain for a name already committed under
// sig (spec §4.5: "look up any already assigned name for this MethodRef
// in the NamingState chain; if present, reuse it").
//
// sig alone (params-only, see model.SignatureKeyFunc) is not enough to
// identify "the same logical method" across a bucket: two differently
// named methods that happen to share a param list land in the same
// bucket (that's the point — it lets the fresh-name draw avoid handing
// them the same new name), but only an ancestor declaration with the
// same original Name as ref is actually an override ref should inherit
// from. An exact MethodRef match (same Holder) only ever occurs when
// this method is looked up twice, which idempotent apply-mapping runs
// rely on.
func (r *Registry) Assigned(t *model.Type, sig model.SignatureKey, ref model.MethodRef) (string, bool) {
	for n := r.stateFor(t); n != nil; n = n.parent {
		s, ok := n.byKey[sig]
		if !ok {
			continue
		}
		if name, ok := s.assigned[ref]; ok {
			return name, true
		}
		for other, name := range s.assigned {
			if other.Name == ref.Name {
				return name, true
			}
		}
	}
	return "", false
}

// IsClaimedByOther reports whether candidate is already committed in the
// NamingState chain to some MethodRef other than ref. Unlike IsAvailable,
// it does not consult the ReservationState: it is the check a reserved
// name's own holder uses (spec §4.5 "honor the reservation if available"),
// where a hit in the ReservationState is expected — it is this method's
// own reservation — and would otherwise always spuriously fail.
func (r *Registry) IsClaimedByOther(t *model.Type, sig model.SignatureKey, candidate string, ref model.MethodRef) bool {
	for n := r.stateFor(t); n != nil; n = n.parent {
		s, ok := n.byKey[sig]
		if !ok {
			continue
		}
		for other := range s.usedBy[candidate] {
			if other != ref {
				return true
			}
		}
	}
	return false
}

// IsAvailable reports whether candidate may be assigned to ref under sig
// at t: it must not be claimed by a different method in the NamingState
// chain (a), and must not be reserved for a different method in the
// ReservationState chain (b) — spec §4.5's two rejection rules for fresh
// candidates.
func (r *Registry) IsAvailable(reservations *reservation.Registry, t *model.Type, sig model.SignatureKey, candidate string, ref model.MethodRef) bool {
	if r.IsClaimedByOther(t, sig, candidate, ref) {
		return false
	}
	if reservations != nil && reservations.IsReserved(t, sig, candidate) {
		// By the time a method reaches fresh-name drawing it has no
		// reservation of its own (that path is handled earlier in
		// assignName), so any reservation found here necessarily
		// belongs to a different method of the same signature.
		return false
	}
	return true
}

// Commit records that ref is assigned name under sig, at t's own node
// (so subtypes inherit it via Assigned, but unrelated sibling subtypes of
// a common ancestor do not see it prematurely).
func (r *Registry) Commit(t *model.Type, sig model.SignatureKey, ref model.MethodRef, name string) {
	s := r.stateFor(t).stateFor(sig)
	s.assigned[ref] = name
	if s.usedBy[name] == nil {
		s.usedBy[name] = make(map[model.MethodRef]bool)
	}
	s.usedBy[name][ref] = true
}

// NextFreshName draws candidates from t's own per-signature NameSource
// until one satisfies IsAvailable, without committing it — the caller
// commits explicitly via Commit once it has decided to take the
// candidate, matching the phase-3 interface assignment's "try, and only
// commit if accepted everywhere" protocol (spec §4.4).
func (r *Registry) NextFreshName(reservations *reservation.Registry, t *model.Type, sig model.SignatureKey, ref model.MethodRef) string {
	s := r.stateFor(t).stateFor(sig)
	for {
		candidate := s.source.Next()
		if r.IsAvailable(reservations, t, sig, candidate, ref) {
			return candidate
		}
	}
}
