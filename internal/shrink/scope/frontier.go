// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scope computes the Frontier map and populates the
// ReservationState tree — MethodMinifier's phase 1, "class reservation"
// (spec §4.3). It is shared by package methodminify (which runs phase 1
// before its own phase 4) and package ifaceminify (whose phases 2 and 3
// read the ReservationState built here).
package scope

import (
	"github.com/chrispaulwu/r8/internal/shrink/model"
	"github.com/chrispaulwu/r8/internal/shrink/reservation"
)

// Frontier gives, for each program type, the topmost program class in its
// supertype chain (the one whose supertype is absent or not a program
// type): the point at which reservations coalesce (spec §3 "Frontier
// map"). Non-program types map to themselves.
type Frontier struct {
	byType map[*model.Type]*model.Type
}

// Of returns t's frontier, computing (and memoizing) it if necessary. The
// recursion is bounded by hierarchy depth and terminates at any type
// without a program supertype — this is what makes top-down evaluation
// order unnecessary: the memoized recursion computes ancestors on demand
// regardless of the order Classes() enumerates types in.
func (f *Frontier) Of(t *model.Type) *model.Type {
	if t == nil {
		return nil
	}
	if v, ok := f.byType[t]; ok {
		return v
	}
	var frontier *model.Type
	switch {
	case !t.IsProgram():
		frontier = t
	case t.Supertype == nil || !t.Supertype.IsProgram():
		frontier = t
	default:
		frontier = f.Of(t.Supertype)
	}
	f.byType[t] = frontier
	return frontier
}

// BuildReservations walks every type in types, registering each declared
// method's strategy-reserved name (if any) into the ReservationState at
// that method's holder's frontier (spec §4.3). It returns both the
// populated Registry and the Frontier used to build it, since later
// phases (interface assignment, class assignment) need both.
//
// The walk order within this function does not need to be top-down: Of
// computes ancestors recursively, and Reserve/Registry.stateFor do the
// same, so reservations always land on the correct frontier node
// regardless of the order types are visited in. (The spec's "walk
// top-down" requirement is about *correctness of the frontier concept*,
// which recursion satisfies without needing a pre-sorted traversal.)
func BuildReservations(pm model.ProgramModel, types []*model.Type, strategy model.NamingStrategy, sigFn model.SignatureKeyFunc) (*reservation.Registry, *Frontier) {
	frontier := &Frontier{byType: make(map[*model.Type]*model.Type)}
	reg := reservation.NewRegistry()

	for _, t := range types {
		fr := frontier.Of(t)
		for _, md := range pm.DeclaredMethods(t) {
			if md.IsConstructor() || md.IsClassInit() {
				continue
			}
			name, ok := strategy.ReservedMethodName(md.Ref)
			if !ok {
				continue
			}
			sig := model.KeyFor(sigFn, md.Ref)
			reg.Reserve(fr, sig, name)
		}
	}
	return reg, frontier
}
