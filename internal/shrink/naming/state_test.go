// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package naming

import (
	"testing"

	"github.com/chrispaulwu/r8/internal/shrink/model"
)

// Assigned must distinguish "this is the same logical method, inherit
// its committed name" from "this merely shares a SignatureKey bucket,
// draw a name of its own" — see the package doc on Assigned.
func TestAssignedDistinguishesOverrideFromSharedBucket(t *testing.T) {
	a := &model.Type{Descriptor: "Lcom/x/A;", Kind: model.Program}
	b := &model.Type{Descriptor: "Lcom/x/B;", Kind: model.Program, Supertype: a}

	r := NewRegistry()
	sig := model.SignatureKey("")
	aF := model.MethodRef{Holder: a, Name: "f"}
	aG := model.MethodRef{Holder: a, Name: "g"}
	r.Commit(a, sig, aF, "a")
	r.Commit(a, sig, aG, "b")

	bF := model.MethodRef{Holder: b, Name: "f"}
	if name, ok := r.Assigned(b, sig, bF); !ok || name != "a" {
		t.Errorf("B.f override lookup = (%q, %v), want (\"a\", true)", name, ok)
	}

	bH := model.MethodRef{Holder: b, Name: "h"}
	if _, ok := r.Assigned(b, sig, bH); ok {
		t.Errorf("B.h unrelated lookup unexpectedly matched an ancestor entry")
	}
}

// A fresh draw must never reuse a name already claimed by an unrelated
// method anywhere in the parent chain, even though Assigned would not
// treat that ancestor entry as an override for this ref.
func TestNextFreshNameAvoidsAncestorCollisionAcrossUnrelatedMethods(t *testing.T) {
	a := &model.Type{Descriptor: "Lcom/x/A;", Kind: model.Program}
	b := &model.Type{Descriptor: "Lcom/x/B;", Kind: model.Program, Supertype: a}

	r := NewRegistry()
	sig := model.SignatureKey("")
	aF := model.MethodRef{Holder: a, Name: "f"}
	r.Commit(a, sig, aF, "a")

	bH := model.MethodRef{Holder: b, Name: "h"}
	fresh := r.NextFreshName(nil, b, sig, bH)
	if fresh == "a" {
		t.Errorf("B.h drew %q, colliding with A.f's committed name", fresh)
	}
}

func TestCommitIsIdempotentForTheSameRef(t *testing.T) {
	a := &model.Type{Descriptor: "Lcom/x/A;", Kind: model.Program}
	r := NewRegistry()
	sig := model.SignatureKey("")
	ref := model.MethodRef{Holder: a, Name: "f"}

	r.Commit(a, sig, ref, "a")
	if name, ok := r.Assigned(a, sig, ref); !ok || name != "a" {
		t.Fatalf("Assigned after first Commit = (%q, %v)", name, ok)
	}
	r.Commit(a, sig, ref, "a")
	if name, ok := r.Assigned(a, sig, ref); !ok || name != "a" {
		t.Fatalf("Assigned after repeat Commit = (%q, %v)", name, ok)
	}
}
