// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ifaceminify implements InterfaceMethodMinifier (spec §4.4):
// phases 2 and 3 of the overall method-naming pipeline, which resolve the
// non-tree constraints interfaces impose on method naming. Two unrelated
// interfaces implemented by a common class must agree on a name for a
// shared-signature method, even though neither is an ancestor of the
// other.
package ifaceminify

import (
	"sort"

	"github.com/chrispaulwu/r8/internal/shrink/model"
	"github.com/chrispaulwu/r8/internal/shrink/naming"
	"github.com/chrispaulwu/r8/internal/shrink/reservation"
	"github.com/chrispaulwu/r8/internal/shrink/scope"
)

// Minifier runs phases 2 and 3 against a previously built ReservationState
// (phase 1's output, from package scope) and Frontier.
type Minifier struct {
	pm       model.ProgramModel
	strategy model.NamingStrategy
	sigFn    model.SignatureKeyFunc
	reg      *reservation.Registry
	frontier *scope.Frontier
	naming   *naming.Registry
}

// New creates a Minifier. reg and frontier are typically the outputs of
// scope.BuildReservations.
func New(pm model.ProgramModel, strategy model.NamingStrategy, sigFn model.SignatureKeyFunc, reg *reservation.Registry, frontier *scope.Frontier) *Minifier {
	return &Minifier{pm: pm, strategy: strategy, sigFn: sigFn, reg: reg, frontier: frontier, naming: naming.NewRegistry()}
}

// key identifies "the same logical method" across the interface lattice:
// two declarations with equal Name and SignatureKey that are connected by
// the subtype lattice (directly, or through a common implementor) must
// resolve to one name.
type key struct {
	Name string
	Sig  model.SignatureKey
}

// Run executes phases 2 and 3 in order: reserve every interface's
// strategy-pinned names across the lattice, then assign fresh names to
// every remaining interface method group. allTypes must include every
// class and interface so BuildGroups can discover cross-interface
// linkage through common implementors; interfaces is the subset of
// allTypes with IsInterface set.
func (m *Minifier) Run(allTypes, interfaces []*model.Type) {
	m.Reserve(interfaces)
	m.Assign(BuildGroups(m.pm, allTypes, m.sigFn))
}

// Reserve is phase 2: for every interface method with a strategy
// reservation, propagate that reservation to the interface's own
// ReservationState and to every interface transitively reachable from it
// (both superinterfaces and subinterfaces/implementors).
func (m *Minifier) Reserve(interfaces []*model.Type) {
	for _, iface := range interfaces {
		for _, md := range m.pm.DeclaredMethods(iface) {
			name, ok := m.strategy.ReservedMethodName(md.Ref)
			if !ok {
				continue
			}
			sig := model.KeyFor(m.sigFn, md.Ref)
			for _, reached := range m.reachableInterfaces(iface) {
				m.reg.Reserve(m.frontier.Of(reached), sig, name)
			}
		}
	}
}

// reachableInterfaces returns iface plus every interface connected to it
// by extends (superinterface) or implements (subinterface/implementor)
// edges, transitively.
func (m *Minifier) reachableInterfaces(iface *model.Type) []*model.Type {
	seen := map[*model.Type]bool{iface: true}
	queue := []*model.Type{iface}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, up := range cur.Interfaces {
			if !seen[up] {
				seen[up] = true
				queue = append(queue, up)
			}
		}
		for _, down := range m.pm.Implementors(cur) {
			if down.IsInterface && !seen[down] {
				seen[down] = true
				queue = append(queue, down)
			}
		}
	}
	out := make([]*model.Type, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sortByDescriptor(out)
	return out
}

// group is one connected component of interfaces (and the classes forced
// to agree with them) for a single logical method.
type group struct {
	key        key
	interfaces []*model.Type // sorted; interfaces[0] is the deterministic "root"
	classes    []*model.Type // implementing classes whose frontier must agree
}

// BuildGroups partitions every interface method declared across
// interfaces into reachability groups (spec §4.4 phase 3, step 1: "Compute
// the union of all classes ... and interfaces that would host this
// signature").
//
// allTypes must include every class and interface in the model: classes
// are needed to discover the "two unrelated interfaces implemented by one
// class" linkage that interface-to-interface edges alone would miss.
func BuildGroups(pm model.ProgramModel, allTypes []*model.Type, sigFn model.SignatureKeyFunc) []group {
	uf := make(map[key]map[*model.Type]*model.Type) // union-find parent, partitioned per key

	find := func(gk key, t *model.Type) *model.Type {
		parents := uf[gk]
		for parents[t] != t {
			parents[t] = parents[parents[t]]
			t = parents[t]
		}
		return t
	}
	seed := func(gk key, n *model.Type) {
		parents, ok := uf[gk]
		if !ok {
			parents = make(map[*model.Type]*model.Type)
			uf[gk] = parents
		}
		if _, ok := parents[n]; !ok {
			parents[n] = n
		}
	}
	union := func(gk key, a, b *model.Type) {
		seed(gk, a)
		seed(gk, b)
		ra, rb := find(gk, a), find(gk, b)
		if ra != rb {
			parents := uf[gk]
			parents[ra] = rb
		}
	}

	// declaring: for each type, the (key -> declaring interface) set
	// visible in its transitive interface closure.
	implementingClasses := make(map[key]map[*model.Type]bool)

	for _, t := range allTypes {
		closure := interfaceClosure(t)
		var declared []struct {
			k     key
			iface *model.Type
		}
		for _, iface := range closure {
			for _, md := range pm.DeclaredMethods(iface) {
				declared = append(declared, struct {
					k     key
					iface *model.Type
				}{key{md.Ref.Name, model.KeyFor(sigFn, md.Ref)}, iface})
			}
		}
		for _, d := range declared {
			seed(d.k, d.iface)
		}
		for i := range declared {
			for j := i + 1; j < len(declared); j++ {
				if declared[i].k == declared[j].k {
					union(declared[i].k, declared[i].iface, declared[j].iface)
				}
			}
		}
		if !t.IsInterface && len(closure) > 0 {
			for _, d := range declared {
				m := implementingClasses[d.k]
				if m == nil {
					m = make(map[*model.Type]bool)
					implementingClasses[d.k] = m
				}
				m[t] = true
			}
		}
	}

	// Assemble groups: for every key with at least one union-find
	// partition, collect the interfaces sharing a root.
	byRoot := make(map[key]map[*model.Type][]*model.Type)
	for gk, parents := range uf {
		roots := make(map[*model.Type][]*model.Type)
		for iface := range parents {
			r := find(gk, iface)
			roots[r] = append(roots[r], iface)
		}
		byRoot[gk] = roots
	}

	var groups []group
	for gk, roots := range byRoot {
		for _, ifaces := range roots {
			sortByDescriptor(ifaces)
			classSet := make(map[*model.Type]bool)
			for _, iface := range ifaces {
				for c := range implementingClasses[gk] {
					if implements(c, iface) {
						classSet[c] = true
					}
				}
			}
			var classes []*model.Type
			for c := range classSet {
				classes = append(classes, c)
			}
			sortByDescriptor(classes)
			groups = append(groups, group{key: gk, interfaces: ifaces, classes: classes})
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].key.Name != groups[j].key.Name {
			return groups[i].key.Name < groups[j].key.Name
		}
		return groups[i].key.Sig < groups[j].key.Sig
	})
	return groups
}

// Assign is phase 3: for each group, draw a candidate from the root
// interface's NamingState and commit it only once available in every
// member of the group's class/interface union (spec §4.4 steps 2-4).
func (m *Minifier) Assign(groups []group) {
	for _, g := range groups {
		if len(g.interfaces) == 0 {
			continue
		}
		root := g.interfaces[0]

		// Phase 2 may already have pinned this group to a
		// strategy-reserved name; if so, honor it instead of
		// generating a fresh one (mirrors MethodMinifier's
		// reservation-before-fresh-name ordering, spec §4.5).
		if already := m.reservedAcrossGroup(g); already != "" {
			m.commit(g, already)
			continue
		}

		ref := model.MethodRef{Holder: root, Name: g.key.Name}
		for {
			candidate := m.naming.NextFreshName(m.reg, root, g.key.Sig, ref)
			if m.acceptedEverywhere(g, candidate) {
				m.commit(g, candidate)
				break
			}
		}
	}
}

// reservedAcrossGroup returns the reservation already recorded (by phase
// 2) for g's signature on its root interface, or "" if the group still
// needs a fresh name.
func (m *Minifier) reservedAcrossGroup(g group) string {
	names := m.reg.Reservations(m.frontier.Of(g.interfaces[0]), g.key.Sig)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func (m *Minifier) acceptedEverywhere(g group, candidate string) bool {
	for _, iface := range g.interfaces {
		if m.reg.IsReserved(m.frontier.Of(iface), g.key.Sig, candidate) {
			// A reservation for this exact candidate is only a
			// conflict if it was reserved under a name other than
			// the one we're about to propose; since candidate is
			// fresh from the root's NameSource it cannot itself be
			// the interface's own not-yet-committed reservation,
			// so any hit here is a real collision.
			return false
		}
	}
	for _, c := range g.classes {
		if m.reg.IsReserved(m.frontier.Of(c), g.key.Sig, candidate) {
			return false
		}
	}
	return true
}

func (m *Minifier) commit(g group, name string) {
	for _, iface := range g.interfaces {
		m.reg.Reserve(m.frontier.Of(iface), g.key.Sig, name)
	}
	for _, c := range g.classes {
		m.reg.Reserve(m.frontier.Of(c), g.key.Sig, name)
	}
}

// ImplementedInterfaces exposes interfaceClosure for MethodMinifier's
// cross-hierarchy agreement check (spec §4.5: a reservation is only
// eligible if "also reserved in at least one implemented interface's
// ReservationState for the same signature").
func ImplementedInterfaces(t *model.Type) []*model.Type { return interfaceClosure(t) }

// interfaceClosure returns every interface transitively implemented by t,
// walking both t's own supertype chain (a subclass inherits all of its
// ancestors' interfaces) and each interface's own extends chain.
func interfaceClosure(t *model.Type) []*model.Type {
	visited := make(map[*model.Type]bool)
	result := make(map[*model.Type]bool)
	var walk func(*model.Type)
	walk = func(n *model.Type) {
		if n == nil || visited[n] {
			return
		}
		visited[n] = true
		if n.IsInterface {
			result[n] = true
		}
		for _, iface := range n.Interfaces {
			walk(iface)
		}
		walk(n.Supertype)
	}
	walk(t)
	out := make([]*model.Type, 0, len(result))
	for iface := range result {
		out = append(out, iface)
	}
	sortByDescriptor(out)
	return out
}

func implements(t, iface *model.Type) bool {
	for _, i := range interfaceClosure(t) {
		if i == iface {
			return true
		}
	}
	return false
}

func sortByDescriptor(types []*model.Type) {
	sort.Slice(types, func(i, j int) bool { return types[i].Descriptor < types[j].Descriptor })
}
