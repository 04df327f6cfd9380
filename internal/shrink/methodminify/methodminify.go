// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package methodminify implements MethodMinifier's phase 4, class
// assignment (spec §4.5), and the orchestration that ties it to phase 1
// (package scope) and phases 2-3 (package ifaceminify) to produce the
// final MethodRenaming.
package methodminify

import (
	"sort"

	"github.com/chrispaulwu/r8/internal/shrink/ifaceminify"
	"github.com/chrispaulwu/r8/internal/shrink/model"
	"github.com/chrispaulwu/r8/internal/shrink/naming"
	"github.com/chrispaulwu/r8/internal/shrink/reservation"
	"github.com/chrispaulwu/r8/internal/shrink/scope"
)

// Minifier runs phase 4 against a ReservationState/Frontier already
// populated by phases 1-3.
type Minifier struct {
	pm       model.ProgramModel
	strategy model.NamingStrategy
	sigFn    model.SignatureKeyFunc
	reg      *reservation.Registry
	frontier *scope.Frontier
	naming   *naming.Registry
}

// New creates a Minifier bound to the ReservationState/Frontier produced
// by scope.BuildReservations and (if interfaces exist) ifaceminify.Run.
func New(pm model.ProgramModel, strategy model.NamingStrategy, sigFn model.SignatureKeyFunc, reg *reservation.Registry, frontier *scope.Frontier) *Minifier {
	return &Minifier{pm: pm, strategy: strategy, sigFn: sigFn, reg: reg, frontier: frontier, naming: naming.NewRegistry()}
}

// Result is MethodMinifier's output: MethodRenaming plus the keep-rename
// set (spec §4.5: "mark as keep-rename if minification is disallowed but
// the name coincidentally matches a reserved assignment").
type Result struct {
	Names      map[model.MethodRef]string
	KeepRename map[model.MethodRef]bool
}

// Run performs the top-down walk over classes described in spec §4.5.
// classes must exclude interfaces; interface methods are assigned by
// package ifaceminify before Run is called, and their results are
// visible to Run through reg (the same ReservationState both packages
// share).
func (m *Minifier) Run(classes []*model.Type) *Result {
	result := &Result{Names: make(map[model.MethodRef]string), KeepRename: make(map[model.MethodRef]bool)}
	for _, t := range topoOrder(classes) {
		for _, md := range m.pm.DeclaredMethods(t) {
			if md.IsConstructor() || md.IsClassInit() {
				continue
			}
			name, keepRename := m.assignName(t, md)
			result.Names[md.Ref] = name
			if keepRename {
				result.KeepRename[md.Ref] = true
			}
		}
	}
	return result
}

// assignName is spec §4.5's assignName algorithm.
func (m *Minifier) assignName(holder *model.Type, md model.MethodDef) (name string, keepRename bool) {
	ref := md.Ref
	sig := model.KeyFor(m.sigFn, ref)

	allowRenaming := m.strategy.AllowMemberRenaming(holder)

	if reserved, ok := m.strategy.ReservedMethodName(ref); ok {
		if reserved == ref.Name {
			m.commit(holder, sig, ref, reserved)
			return reserved, false
		}
		// This reservation is ref's own (scope.BuildReservations already
		// recorded it), so the only real conflict left to check for is
		// another MethodRef having already committed to this exact name
		// in the NamingState chain — not the ReservationState, which
		// will always show this very reservation.
		if !m.naming.IsClaimedByOther(holder, sig, reserved, ref) {
			m.commit(holder, sig, ref, reserved)
			return reserved, !allowRenaming
		}
		if prev, ok := m.naming.Assigned(holder, sig, ref); ok {
			return prev, !allowRenaming
		}
		// Fall through: the reservation is stale and nothing was
		// assigned yet, so treat this method as unreserved.
	}

	if !allowRenaming {
		m.commit(holder, sig, ref, ref.Name)
		return ref.Name, true
	}

	if prev, ok := m.naming.Assigned(holder, sig, ref); ok {
		m.commit(holder, sig, ref, prev)
		return prev, false
	}

	if candidates := m.reg.Reservations(holder, sig); len(candidates) > 0 {
		if len(candidates) == 1 {
			if m.naming.IsAvailable(m.reg, holder, sig, candidates[0], ref) {
				m.commit(holder, sig, ref, candidates[0])
				return candidates[0], false
			}
		} else {
			ifaces := ifaceminify.ImplementedInterfaces(holder)
			for _, candidate := range candidates {
				if !m.naming.IsAvailable(m.reg, holder, sig, candidate, ref) {
					continue
				}
				if agreesWithAnyInterface(m.reg, ifaces, sig, candidate) {
					m.commit(holder, sig, ref, candidate)
					return candidate, false
				}
			}
		}
	}

	fresh := m.naming.NextFreshName(m.reg, holder, sig, ref)
	m.commit(holder, sig, ref, fresh)
	return fresh, false
}

func (m *Minifier) commit(holder *model.Type, sig model.SignatureKey, ref model.MethodRef, name string) {
	m.naming.Commit(holder, sig, ref, name)
}

// agreesWithAnyInterface reports whether candidate is reserved for sig on
// at least one of holder's implemented interfaces, enforcing the
// cross-hierarchy agreement rule of spec §4.5.
func agreesWithAnyInterface(reg *reservation.Registry, ifaces []*model.Type, sig model.SignatureKey, candidate string) bool {
	for _, iface := range ifaces {
		if reg.IsReserved(iface, sig, candidate) {
			return true
		}
	}
	return false
}

// topoOrder sorts classes so that every program class appears after its
// supertype, which assignName's "already assigned" lookup (step 3) relies
// on to see a superclass's override name before the subclass's own
// declaration is processed. Ties are broken by descriptor for
// determinism.
func topoOrder(classes []*model.Type) []*model.Type {
	inSet := make(map[*model.Type]bool, len(classes))
	for _, t := range classes {
		inSet[t] = true
	}

	sorted := append([]*model.Type(nil), classes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Descriptor < sorted[j].Descriptor })

	visited := make(map[*model.Type]bool, len(classes))
	order := make([]*model.Type, 0, len(classes))
	var visit func(*model.Type)
	visit = func(t *model.Type) {
		if t == nil || visited[t] {
			return
		}
		visited[t] = true
		if t.IsProgram() {
			visit(t.Supertype)
		}
		if inSet[t] {
			order = append(order, t)
		}
	}
	for _, t := range sorted {
		visit(t)
	}
	return order
}
