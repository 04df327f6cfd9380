// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fieldminify implements FieldMinifier (spec §4.7): per-type field
// scoping, simpler than method scoping because a field reference always
// resolves to its exact declaring class (no virtual dispatch), so the
// only cross-class constraint is a reserved-name set inherited down the
// hierarchy.
package fieldminify

import (
	"github.com/chrispaulwu/r8/internal/shrink/model"
	"github.com/chrispaulwu/r8/internal/shrink/namesource"
)

// holderState is the InternalFieldState for one declaring class: a
// counter-backed NameSource plus the set of names already taken on this
// exact holder (JVM allows two same-named fields of different types on
// one class, but like the spec notes, shrinking conventionally avoids
// that, so one used-set per holder suffices).
type holderState struct {
	source *namesource.NameSource
	used   map[string]bool
}

// Minifier runs FieldMinifier against a NamingStrategy.
type Minifier struct {
	strategy   model.NamingStrategy
	dictionary []string

	reservedDown map[*model.Type]map[string]bool // ReservedFieldNames, inherited down the hierarchy
	holders      map[*model.Type]*holderState
}

// New creates a Minifier. dictionary seeds every holder's NameSource.
func New(strategy model.NamingStrategy, dictionary []string) *Minifier {
	return &Minifier{
		strategy:     strategy,
		dictionary:   dictionary,
		reservedDown: make(map[*model.Type]map[string]bool),
		holders:      make(map[*model.Type]*holderState),
	}
}

// reservedSet returns (creating if needed) the set of names reserved for
// t's own fields, inherited from its supertype so a field renamed on a
// superclass cannot be silently shadowed by a same-named fresh field name
// on a subclass.
func (m *Minifier) reservedSet(t *model.Type) map[string]bool {
	if s, ok := m.reservedDown[t]; ok {
		return s
	}
	s := make(map[string]bool)
	if t.Supertype != nil {
		for name := range m.reservedSet(t.Supertype) {
			s[name] = true
		}
	}
	m.reservedDown[t] = s
	return s
}

func (m *Minifier) holderStateFor(t *model.Type) *holderState {
	hs, ok := m.holders[t]
	if !ok {
		hs = &holderState{source: namesource.New(m.dictionary), used: make(map[string]bool)}
		m.holders[t] = hs
	}
	return hs
}

// Result is FieldMinifier's output: FieldRenaming (spec §3, §6).
type Result struct {
	Names map[model.FieldRef]string
}

// Run names every field in fields, in order.
func (m *Minifier) Run(fields []model.FieldDef) *Result {
	result := &Result{Names: make(map[model.FieldRef]string)}
	for _, fd := range fields {
		result.Names[fd.Ref] = m.NameFor(fd)
	}
	return result
}

// NameFor is getOrCreateNameFor from spec §4.7.
func (m *Minifier) NameFor(fd model.FieldDef) string {
	holder := fd.Ref.Holder

	if !fd.HolderIsProgram || !m.strategy.AllowMemberRenaming(holder) {
		if name, ok := m.strategy.ReservedFieldName(fd.Ref); ok {
			return name
		}
		return fd.Ref.Name
	}

	if name, ok := m.strategy.ReservedFieldName(fd.Ref); ok {
		m.reservedSet(holder)[name] = true
		hs := m.holderStateFor(holder)
		hs.used[name] = true
		return name
	}

	reserved := m.reservedSet(holder)
	hs := m.holderStateFor(holder)
	for {
		candidate := hs.source.Next()
		if hs.used[candidate] {
			continue
		}
		if reserved[candidate] {
			if m.strategy.BreakOnNotAvailable(fd.Ref, candidate) {
				return fd.Ref.Name
			}
			continue
		}
		hs.used[candidate] = true
		reserved[candidate] = true
		return candidate
	}
}
