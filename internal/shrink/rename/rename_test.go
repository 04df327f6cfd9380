// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rename

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kylelemons/godebug/pretty"

	"github.com/chrispaulwu/r8/internal/shrink/classminify"
	"github.com/chrispaulwu/r8/internal/shrink/model"
	"github.com/chrispaulwu/r8/internal/shrink/shrinkerr"
	"github.com/chrispaulwu/r8/internal/shrink/strategy"
)

type fakeModel struct {
	classes  []*model.Type
	declared map[*model.Type][]model.MethodDef
	fields   map[*model.Type][]model.FieldDef
}

func (f fakeModel) Classes() []*model.Type                          { return f.classes }
func (f fakeModel) DeclaredMethods(t *model.Type) []model.MethodDef { return f.declared[t] }
func (f fakeModel) DeclaredFields(t *model.Type) []model.FieldDef   { return f.fields[t] }
func (f fakeModel) Implementors(t *model.Type) []*model.Type        { return nil }
func (f fakeModel) ResolveMethod(holder *model.Type, sig model.MethodRef) (model.MethodDef, bool) {
	for n := holder; n != nil; n = n.Supertype {
		for _, md := range f.declared[n] {
			if md.Ref.Name == sig.Name {
				return md, true
			}
		}
	}
	return model.MethodDef{}, false
}

// Scenario B (spec §8): A{f(), g(int)}, B extends A {h(), i(int)}, none
// reserved. A.f and B.h share a SignatureKey (both zero-param) but are
// unrelated declarations, so they must receive distinct names.
func TestPipelineScenarioB(t *testing.T) {
	a := &model.Type{Descriptor: "Lcom/x/A;", Kind: model.Program}
	b := &model.Type{Descriptor: "Lcom/x/B;", Kind: model.Program, Supertype: a}
	intType := &model.Type{Descriptor: "I", Kind: model.Library}

	aF := model.MethodDef{Ref: model.MethodRef{Holder: a, Name: "f"}, HolderIsProgram: true}
	aG := model.MethodDef{Ref: model.MethodRef{Holder: a, Name: "g", Proto: model.Proto{Params: []*model.Type{intType}}}, HolderIsProgram: true}
	bH := model.MethodDef{Ref: model.MethodRef{Holder: b, Name: "h"}, HolderIsProgram: true}
	bI := model.MethodDef{Ref: model.MethodRef{Holder: b, Name: "i", Proto: model.Proto{Params: []*model.Type{intType}}}, HolderIsProgram: true}

	fm := fakeModel{
		classes: []*model.Type{a, b},
		declared: map[*model.Type][]model.MethodDef{
			a: {aF, aG},
			b: {bH, bI},
		},
	}
	strat := strategy.New(strategy.Config{})
	p := New(fm, strat, model.DefaultSignatureKey, classminify.Options{}, nil)

	result, _, err := p.Run(nil)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	names := map[string]bool{result.MethodNames[aF.Ref]: true, result.MethodNames[bH.Ref]: true}
	if len(names) != 2 {
		t.Errorf("A.f and B.h names = %q, %q; want two distinct names", result.MethodNames[aF.Ref], result.MethodNames[bH.Ref])
	}
}

// Scenario D (spec §8): apply-mapping pins A.m() -> x. B extends A
// declares m() (an override, no reservation of its own). B.m must also
// map to x.
func TestPipelineScenarioD(t *testing.T) {
	a := &model.Type{Descriptor: "Lcom/x/A;", Kind: model.Program}
	b := &model.Type{Descriptor: "Lcom/x/B;", Kind: model.Program, Supertype: a}

	aM := model.MethodDef{Ref: model.MethodRef{Holder: a, Name: "m"}, HolderIsProgram: true}
	bM := model.MethodDef{Ref: model.MethodRef{Holder: b, Name: "m"}, HolderIsProgram: true}

	fm := fakeModel{
		classes:  []*model.Type{a, b},
		declared: map[*model.Type][]model.MethodDef{a: {aM}, b: {bM}},
	}
	strat := strategy.New(strategy.Config{
		MethodRenames: map[model.MethodRef]string{aM.Ref: "x"},
	})
	p := New(fm, strat, model.DefaultSignatureKey, classminify.Options{}, nil)

	result, _, err := p.Run(nil)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if diff := cmp.Diff("x", result.MethodNames[aM.Ref]); diff != "" {
		t.Errorf("A.m name mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("x", result.MethodNames[bM.Ref]); diff != "" {
		t.Errorf("B.m name mismatch (-want +got):\n%s", diff)
	}
}

// Two unrelated zero-param declarations on one class pinned by
// apply-mapping to the same name is a genuine conflict: honoring it
// would give the class two methods of the same erased signature.
func TestPipelineReportsCompetingReservations(t *testing.T) {
	a := &model.Type{Descriptor: "Lcom/x/A;", Kind: model.Program}
	aF := model.MethodDef{Ref: model.MethodRef{Holder: a, Name: "f"}, HolderIsProgram: true}
	aG := model.MethodDef{Ref: model.MethodRef{Holder: a, Name: "g"}, HolderIsProgram: true}

	fm := fakeModel{
		classes:  []*model.Type{a},
		declared: map[*model.Type][]model.MethodDef{a: {aF, aG}},
	}
	strat := strategy.New(strategy.Config{
		MethodRenames: map[model.MethodRef]string{aF.Ref: "x", aG.Ref: "x"},
	})
	p := New(fm, strat, model.DefaultSignatureKey, classminify.Options{}, nil)

	_, _, err := p.Run(nil)
	if err == nil {
		t.Fatal("expected an InvariantViolation error, got nil")
	}
	if !errors.Is(err, shrinkerr.Sentinel(shrinkerr.InvariantViolation)) {
		t.Fatalf("error kind mismatch: %v", err)
	}
	var conflict *MethodConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected a MethodConflict in the error chain: %s", pretty.Sprint(err))
	}
	if conflict.ReservedName != "x" {
		t.Errorf("conflict report:\n%s", pretty.Sprint(conflict))
	}
}
