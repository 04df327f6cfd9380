// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rename orchestrates ClassMinifier, InterfaceMethodMinifier,
// MethodMinifier and FieldMinifier into the single Pipeline a host
// (bytecode writer, CLI) drives (spec §2 "System Overview"): ClassMinifier
// runs first since method/field descriptors embed class descriptors, then
// the independent method and field minifiers run against the class
// result.
package rename

import (
	"context"
	"fmt"

	"github.com/chrispaulwu/r8/internal/shrink/classminify"
	"github.com/chrispaulwu/r8/internal/shrink/fieldminify"
	"github.com/chrispaulwu/r8/internal/shrink/ifaceminify"
	"github.com/chrispaulwu/r8/internal/shrink/methodminify"
	"github.com/chrispaulwu/r8/internal/shrink/model"
	"github.com/chrispaulwu/r8/internal/shrink/reservation"
	"github.com/chrispaulwu/r8/internal/shrink/scope"
	"github.com/chrispaulwu/r8/internal/shrink/shrinkerr"
)

// Renaming is the combined output of a full pipeline run: the three
// tables described in spec §3 plus the informational package-renaming
// table ClassMinifier produces.
type Renaming struct {
	ClassDescriptors map[*model.Type]string
	PackageRenaming  map[string]string
	MethodNames      map[model.MethodRef]string
	FieldNames       map[model.FieldRef]string

	// MethodKeepRename marks a MethodRef whose name coincidentally
	// matches a reservation even though its holder disallows renaming
	// (spec §4.5's "keep-rename" case).
	MethodKeepRename map[model.MethodRef]bool
}

// Stats is the supplemented diagnostics surface (SPEC_FULL.md
// "Supplemented features"): counts derived from NamingStrategy's
// diagnostics hooks, which spec §6 calls out as informational only.
type Stats struct {
	KeptByProguardRules   int
	RenamedByApplyMapping int
}

// Pipeline bundles the collaborators every phase needs.
type Pipeline struct {
	pm         model.ProgramModel
	strategy   model.NamingStrategy
	sigFn      model.SignatureKeyFunc
	classOpts  classminify.Options
	fieldDict  []string
	finalNames map[model.MethodRef]string // populated by Run, read by Rebind
}

// New creates a Pipeline. sigFn is typically model.DefaultSignatureKey
// unless the host wants AggressiveOverloadingSignatureKey's return-type
// participation.
func New(pm model.ProgramModel, strategy model.NamingStrategy, sigFn model.SignatureKeyFunc, classOpts classminify.Options, fieldDictionary []string) *Pipeline {
	return &Pipeline{pm: pm, strategy: strategy, sigFn: sigFn, classOpts: classOpts, fieldDict: fieldDictionary}
}

// Run executes the full pipeline over pm.Classes() plus
// extraReferencedTypes (types reachable only through a signature or
// field type, for ClassMinifier's dangling-type pass).
func (p *Pipeline) Run(extraReferencedTypes []*model.Type) (*Renaming, *Stats, error) {
	types := p.pm.Classes()

	var interfaces, classes []*model.Type
	for _, t := range types {
		if t.IsInterface {
			interfaces = append(interfaces, t)
		} else {
			classes = append(classes, t)
		}
	}

	if conflict := findReservationConflict(p.pm, types, p.strategy, p.sigFn); conflict != nil {
		return nil, nil, shrinkerr.New(shrinkerr.InvariantViolation, "competing method reservations", conflict)
	}

	classResult, err := classminify.New(p.strategy, p.classOpts).Run(types, extraReferencedTypes)
	if err != nil {
		return nil, nil, err
	}

	reg, frontier := scope.BuildReservations(p.pm, types, p.strategy, p.sigFn)
	ifaceminify.New(p.pm, p.strategy, p.sigFn, reg, frontier).Run(types, interfaces)

	methodResult := methodminify.New(p.pm, p.strategy, p.sigFn, reg, frontier).Run(classes)

	methodNames := make(map[model.MethodRef]string, len(methodResult.Names))
	for ref, name := range methodResult.Names {
		methodNames[ref] = name
	}
	for ref, name := range interfaceMethodNames(p.pm, interfaces, reg, frontier, p.sigFn) {
		methodNames[ref] = name
	}

	var allFields []model.FieldDef
	for _, t := range types {
		allFields = append(allFields, p.pm.DeclaredFields(t)...)
	}
	fieldResult := fieldminify.New(p.strategy, p.fieldDict).Run(allFields)

	stats := &Stats{}
	for _, t := range types {
		if p.strategy.IsKeepByProguardRules(t) {
			stats.KeptByProguardRules++
		}
		if p.strategy.IsRenamedByApplyMapping(t) {
			stats.RenamedByApplyMapping++
		}
	}

	p.finalNames = methodNames

	return &Renaming{
		ClassDescriptors: classResult.Descriptors,
		PackageRenaming:  classResult.PackageRenaming,
		MethodNames:      methodNames,
		FieldNames:       fieldResult.Names,
		MethodKeepRename: methodResult.KeepRename,
	}, stats, nil
}

// Rebind resolves non-rebound method references discovered after Run
// (spec §4.6). It must be called after Run, since it reads the final
// method-name table Run produced.
func (p *Pipeline) Rebind(ctx context.Context, refs []model.MethodRef) (map[model.MethodRef]string, error) {
	return methodminify.Rebind(ctx, p.pm, refs, p.finalNames)
}

// interfaceMethodNames reads back the names ifaceminify.Run committed to
// the shared ReservationState: phase 3 writes the chosen name into every
// group member's frontier, so by the time Run returns, exactly one name
// should be reserved per (interface, SignatureKey) pair declared.
func interfaceMethodNames(pm model.ProgramModel, interfaces []*model.Type, reg *reservation.Registry, frontier *scope.Frontier, sigFn model.SignatureKeyFunc) map[model.MethodRef]string {
	out := make(map[model.MethodRef]string)
	for _, iface := range interfaces {
		for _, md := range pm.DeclaredMethods(iface) {
			if md.IsConstructor() || md.IsClassInit() {
				continue
			}
			sig := model.KeyFor(sigFn, md.Ref)
			names := reg.Reservations(frontier.Of(iface), sig)
			if len(names) == 0 {
				out[md.Ref] = md.Ref.Name
				continue
			}
			out[md.Ref] = names[0]
		}
	}
	return out
}

// MethodConflict describes two distinctly-named declarations that the
// strategy pinned to the same reserved name within the same (holder,
// SignatureKey) pool — an apply-mapping input that, if honored verbatim,
// would give one class two methods of the same erased signature (spec
// §8 invariant 2, "reservation respect"; §7 InvariantViolation). It
// implements error so it can travel as a shrinkerr.Error cause, and is
// plain-struct so test assertions can pretty-print it.
type MethodConflict struct {
	Holder        string
	Signature     model.SignatureKey
	ReservedName  string
	First, Second model.MethodRef
}

func (c MethodConflict) Error() string {
	return fmt.Sprintf("%s and %s both reserved to %q on %s", c.First.Name, c.Second.Name, c.ReservedName, c.Holder)
}

// findReservationConflict scans every declared method's strategy
// reservation for two different original names landing on the same
// (holder, SignatureKey, reserved name) triple.
func findReservationConflict(pm model.ProgramModel, types []*model.Type, strategy model.NamingStrategy, sigFn model.SignatureKeyFunc) *MethodConflict {
	type slot struct {
		holder *model.Type
		sig    model.SignatureKey
	}
	seen := make(map[slot]map[string]model.MethodRef)

	for _, t := range types {
		for _, md := range pm.DeclaredMethods(t) {
			if md.IsConstructor() || md.IsClassInit() {
				continue
			}
			name, ok := strategy.ReservedMethodName(md.Ref)
			if !ok {
				continue
			}
			s := slot{t, model.KeyFor(sigFn, md.Ref)}
			byName := seen[s]
			if byName == nil {
				byName = make(map[string]model.MethodRef)
				seen[s] = byName
			}
			if existing, ok := byName[name]; ok && existing.Name != md.Ref.Name {
				return &MethodConflict{Holder: t.Descriptor, Signature: s.sig, ReservedName: name, First: existing, Second: md.Ref}
			}
			byName[name] = md.Ref
		}
	}
	return nil
}
