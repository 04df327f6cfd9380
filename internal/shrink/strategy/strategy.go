// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package strategy provides a concrete, in-memory model.NamingStrategy
// for wiring the core against keep rules and apply-mapping held entirely
// in maps — the shape a frontend's keep-rule/apply-mapping parser (out
// of this core's scope per spec §1) would hand the core once it has
// finished parsing its own input.
//
// The "skip renaming, but still answer reservation queries" pattern here
// mirrors esbuild's noOpRenamer/MinifyRenamer split
// (other_examples/evanw-esbuild's internal/renamer): a symbol "pinned"
// by the frontend short-circuits straight to its original name, the same
// way esbuild's SlotMustNotBeRenamed does.
package strategy

import "github.com/chrispaulwu/r8/internal/shrink/model"

// Config is the fully-resolved input a keep-rule/apply-mapping frontend
// produces: which classes/methods/fields are pinned to their original
// name, which are pinned to a specific apply-mapping name, and which
// classes opt their members out of renaming entirely.
type Config struct {
	// KeepClasses, KeepMethods, KeepFields pin a member to its own
	// original name (spec §6 "keep rules").
	KeepClasses map[*model.Type]bool
	KeepMethods map[model.MethodRef]bool
	KeepFields  map[model.FieldRef]bool

	// ClassRenames, MethodRenames, FieldRenames pin a member to a
	// specific, possibly different, name (spec §6 "apply-mapping").
	ClassRenames  map[*model.Type]string
	MethodRenames map[model.MethodRef]string
	FieldRenames  map[model.FieldRef]string

	// NoRenameMembers opts a class's members out of renaming
	// (AllowMemberRenaming returns false) independent of any
	// per-member reservation.
	NoRenameMembers map[*model.Type]bool

	// BreakOnUnavailable, if true, tells FieldMinifier to keep a
	// field's original name rather than keep drawing candidates when
	// the first candidate collides with a reserved name (spec §4.7,
	// §6 breakOnNotAvailable).
	BreakOnUnavailable bool
}

// Strategy implements model.NamingStrategy against a Config.
type Strategy struct{ cfg Config }

// New wraps cfg as a model.NamingStrategy. A nil map in cfg behaves as
// empty.
func New(cfg Config) *Strategy { return &Strategy{cfg: cfg} }

func (s *Strategy) ReservedClassName(t *model.Type) (string, bool) {
	if name, ok := s.cfg.ClassRenames[t]; ok {
		return name, true
	}
	if s.cfg.KeepClasses[t] {
		return t.BinaryName(), true
	}
	if !t.IsProgram() {
		return t.BinaryName(), true
	}
	return "", false
}

func (s *Strategy) ReservedMethodName(m model.MethodRef) (string, bool) {
	if name, ok := s.cfg.MethodRenames[m]; ok {
		return name, true
	}
	if s.cfg.KeepMethods[m] {
		return m.Name, true
	}
	return "", false
}

func (s *Strategy) ReservedFieldName(f model.FieldRef) (string, bool) {
	if name, ok := s.cfg.FieldRenames[f]; ok {
		return name, true
	}
	if s.cfg.KeepFields[f] {
		return f.Name, true
	}
	return "", false
}

func (s *Strategy) AllowMemberRenaming(holder *model.Type) bool {
	return !s.cfg.NoRenameMembers[holder]
}

func (s *Strategy) BreakOnNotAvailable(model.FieldRef, string) bool {
	return s.cfg.BreakOnUnavailable
}

func (s *Strategy) IsKeepByProguardRules(t *model.Type) bool {
	return s.cfg.KeepClasses[t]
}

func (s *Strategy) IsRenamedByApplyMapping(t *model.Type) bool {
	_, ok := s.cfg.ClassRenames[t]
	return ok
}
