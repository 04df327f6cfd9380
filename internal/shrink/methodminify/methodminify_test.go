// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package methodminify

import (
	"context"
	"testing"

	"github.com/chrispaulwu/r8/internal/shrink/model"
	"github.com/chrispaulwu/r8/internal/shrink/scope"
)

type fakeModel struct {
	declared map[*model.Type][]model.MethodDef
}

func (f fakeModel) Classes() []*model.Type                          { return nil }
func (f fakeModel) DeclaredMethods(t *model.Type) []model.MethodDef { return f.declared[t] }
func (f fakeModel) DeclaredFields(t *model.Type) []model.FieldDef   { return nil }
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

type fakeStrategy struct {
	reserved map[model.MethodRef]string
	allow    map[*model.Type]bool
}

func (s fakeStrategy) ReservedClassName(*model.Type) (string, bool) { return "", false }
func (s fakeStrategy) ReservedMethodName(m model.MethodRef) (string, bool) {
	n, ok := s.reserved[m]
	return n, ok
}
func (fakeStrategy) ReservedFieldName(model.FieldRef) (string, bool) { return "", false }
func (s fakeStrategy) AllowMemberRenaming(t *model.Type) bool {
	if s.allow == nil {
		return true
	}
	v, ok := s.allow[t]
	return !ok || v
}
func (fakeStrategy) BreakOnNotAvailable(model.FieldRef, string) bool { return false }
func (fakeStrategy) IsKeepByProguardRules(*model.Type) bool          { return false }
func (fakeStrategy) IsRenamedByApplyMapping(*model.Type) bool        { return false }

// Scenario F (spec §8): B extends A; A declares f() with no reservation;
// B overrides f() and also declares its own g(). B.f must reuse A.f's
// assigned name; B.g must receive a distinct fresh name.
func TestScenarioF_OverrideReusesSupertypeName(t *testing.T) {
	a := &model.Type{Descriptor: "Lcom/x/A;", Kind: model.Program}
	b := &model.Type{Descriptor: "Lcom/x/B;", Kind: model.Program, Supertype: a}

	aF := model.MethodDef{Ref: model.MethodRef{Holder: a, Name: "f"}, HolderIsProgram: true}
	bF := model.MethodDef{Ref: model.MethodRef{Holder: b, Name: "f"}, HolderIsProgram: true}
	bG := model.MethodDef{Ref: model.MethodRef{Holder: b, Name: "g"}, HolderIsProgram: true}

	fm := fakeModel{declared: map[*model.Type][]model.MethodDef{
		a: {aF},
		b: {bF, bG},
	}}
	strat := fakeStrategy{}

	reg, frontier := scope.BuildReservations(fm, []*model.Type{a, b}, strat, model.DefaultSignatureKey)
	mm := New(fm, strat, model.DefaultSignatureKey, reg, frontier)
	result := mm.Run([]*model.Type{a, b})

	if result.Names[aF.Ref] != result.Names[bF.Ref] {
		t.Errorf("B.f = %q, want same name as A.f = %q", result.Names[bF.Ref], result.Names[aF.Ref])
	}
	if result.Names[bG.Ref] == result.Names[bF.Ref] {
		t.Errorf("B.g collided with B.f's name %q", result.Names[bF.Ref])
	}
}

func TestAssignNameHonorsOriginalNameReservation(t *testing.T) {
	a := &model.Type{Descriptor: "Lcom/x/A;", Kind: model.Program}
	keep := model.MethodDef{Ref: model.MethodRef{Holder: a, Name: "onCreate"}, HolderIsProgram: true}
	fm := fakeModel{declared: map[*model.Type][]model.MethodDef{a: {keep}}}
	strat := fakeStrategy{reserved: map[model.MethodRef]string{keep.Ref: "onCreate"}}

	reg, frontier := scope.BuildReservations(fm, []*model.Type{a}, strat, model.DefaultSignatureKey)
	mm := New(fm, strat, model.DefaultSignatureKey, reg, frontier)
	result := mm.Run([]*model.Type{a})

	if result.Names[keep.Ref] != "onCreate" {
		t.Errorf("kept method renamed to %q, want original name preserved", result.Names[keep.Ref])
	}
}

func TestAssignNameKeepRenameWhenMemberRenamingDisallowed(t *testing.T) {
	a := &model.Type{Descriptor: "Lcom/x/A;", Kind: model.Program}
	md := model.MethodDef{Ref: model.MethodRef{Holder: a, Name: "doThing"}, HolderIsProgram: true}
	fm := fakeModel{declared: map[*model.Type][]model.MethodDef{a: {md}}}
	strat := fakeStrategy{allow: map[*model.Type]bool{a: false}}

	reg, frontier := scope.BuildReservations(fm, []*model.Type{a}, strat, model.DefaultSignatureKey)
	mm := New(fm, strat, model.DefaultSignatureKey, reg, frontier)
	result := mm.Run([]*model.Type{a})

	if result.Names[md.Ref] != "doThing" {
		t.Errorf("name = %q, want original kept", result.Names[md.Ref])
	}
	if !result.KeepRename[md.Ref] {
		t.Errorf("expected KeepRename to be set for %v", md.Ref)
	}
}

func TestRebindResolvesUniqueNonReboundReference(t *testing.T) {
	a := &model.Type{Descriptor: "Lcom/x/A;", Kind: model.Program}
	b := &model.Type{Descriptor: "Lcom/x/B;", Kind: model.Program, Supertype: a}

	aF := model.MethodDef{Ref: model.MethodRef{Holder: a, Name: "f"}, HolderIsProgram: true}
	fm := fakeModel{declared: map[*model.Type][]model.MethodDef{a: {aF}}}

	finalNames := map[model.MethodRef]string{aF.Ref: "q"}
	nonRebound := model.MethodRef{Holder: b, Name: "f"}

	out, err := Rebind(context.Background(), fm, []model.MethodRef{nonRebound}, finalNames)
	if err != nil {
		t.Fatalf("Rebind error: %v", err)
	}
	if out[nonRebound] != "q" {
		t.Errorf("rebound name = %q, want %q", out[nonRebound], "q")
	}
}
