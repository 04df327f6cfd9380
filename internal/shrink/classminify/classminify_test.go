// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package classminify

import (
	"testing"

	"github.com/chrispaulwu/r8/internal/shrink/model"
)

type fakeStrategy struct {
	reservedClasses map[*model.Type]string
}

func (s fakeStrategy) ReservedClassName(t *model.Type) (string, bool) {
	n, ok := s.reservedClasses[t]
	return n, ok
}
func (fakeStrategy) ReservedMethodName(model.MethodRef) (string, bool) { return "", false }
func (fakeStrategy) ReservedFieldName(model.FieldRef) (string, bool)   { return "", false }
func (fakeStrategy) AllowMemberRenaming(*model.Type) bool              { return true }
func (fakeStrategy) BreakOnNotAvailable(model.FieldRef, string) bool   { return false }
func (fakeStrategy) IsKeepByProguardRules(*model.Type) bool            { return false }
func (fakeStrategy) IsRenamedByApplyMapping(*model.Type) bool          { return false }

// Scenario A (spec §8): two classes com.a.X and com.b.X, neither kept.
// With dictionary ["e"] and no mixed-case restriction, both become the
// package-local first name.
func TestScenarioA_TwoPackagesSameFirstName(t *testing.T) {
	x1 := &model.Type{Descriptor: "Lcom/a/X;", Kind: model.Program}
	x2 := &model.Type{Descriptor: "Lcom/b/X;", Kind: model.Program}

	m := New(fakeStrategy{}, Options{MixedCase: true, Dictionary: []string{"e"}})
	result, err := m.Run([]*model.Type{x1, x2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Descriptors[x1]; got != "Lcom/a/e;" {
		t.Errorf("x1 = %q, want Lcom/a/e;", got)
	}
	if got := result.Descriptors[x2]; got != "Lcom/b/e;" {
		t.Errorf("x2 = %q, want Lcom/b/e;", got)
	}
}

// Scenario E: inner class O$I with O kept at Lcom/p/O;. I's final
// descriptor starts with Lcom/p/O$ and differs only in the suffix.
func TestScenarioE_InnerClassPrefix(t *testing.T) {
	outer := &model.Type{Descriptor: "Lcom/p/O;", Kind: model.Program}
	inner := &model.Type{
		Descriptor: "Lcom/p/O$I;",
		Kind:       model.Program,
		Inner:      &model.InnerClassAttribute{Outer: outer, SimpleName: "I", Separator: '$'},
	}

	strat := fakeStrategy{reservedClasses: map[*model.Type]string{outer: "com/p/O"}}
	m := New(strat, Options{KeepInnerClassStructure: true, MixedCase: true})
	result, err := m.Run([]*model.Type{outer, inner}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Descriptors[outer]; got != "Lcom/p/O;" {
		t.Errorf("outer = %q, want Lcom/p/O;", got)
	}
	got := result.Descriptors[inner]
	const wantPrefix = "Lcom/p/O$"
	if len(got) <= len(wantPrefix) || got[:len(wantPrefix)] != wantPrefix {
		t.Errorf("inner = %q, want prefix %q", got, wantPrefix)
	}
}

func TestInnerClassOuterShrunkAway(t *testing.T) {
	outer := &model.Type{Descriptor: "Lcom/p/O;", Kind: model.Program}
	inner := &model.Type{
		Descriptor: "Lcom/p/O$I;",
		Kind:       model.Program,
		Inner:      &model.InnerClassAttribute{Outer: outer, SimpleName: "I", Separator: '$'},
	}

	m := New(fakeStrategy{}, Options{KeepInnerClassStructure: true, MixedCase: true})
	// Note: outer is intentionally NOT passed to Run — it was shrunk away.
	result, err := m.Run([]*model.Type{inner}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Descriptors[outer]; got != outer.Descriptor {
		t.Errorf("shrunk-away outer should keep its original descriptor, got %q", got)
	}
	const wantPrefix = "Lcom/p/O$"
	got := result.Descriptors[inner]
	if len(got) <= len(wantPrefix) || got[:len(wantPrefix)] != wantPrefix {
		t.Errorf("inner = %q, want prefix %q", got, wantPrefix)
	}
}
