// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strategy

import (
	"testing"

	"github.com/chrispaulwu/r8/internal/shrink/model"
)

func TestReservedClassNameKeepVsApplyMapping(t *testing.T) {
	kept := &model.Type{Descriptor: "Lcom/x/Kept;", Kind: model.Program}
	mapped := &model.Type{Descriptor: "Lcom/x/Mapped;", Kind: model.Program}
	free := &model.Type{Descriptor: "Lcom/x/Free;", Kind: model.Program}
	lib := &model.Type{Descriptor: "Lcom/x/Lib;", Kind: model.Library}

	s := New(Config{
		KeepClasses:  map[*model.Type]bool{kept: true},
		ClassRenames: map[*model.Type]string{mapped: "a/b/C"},
	})

	if name, ok := s.ReservedClassName(kept); !ok || name != "com/x/Kept" {
		t.Errorf("kept class = (%q, %v), want (com/x/Kept, true)", name, ok)
	}
	if name, ok := s.ReservedClassName(mapped); !ok || name != "a/b/C" {
		t.Errorf("mapped class = (%q, %v), want (a/b/C, true)", name, ok)
	}
	if _, ok := s.ReservedClassName(free); ok {
		t.Errorf("free class unexpectedly reserved")
	}
	if name, ok := s.ReservedClassName(lib); !ok || name != "com/x/Lib" {
		t.Errorf("library class = (%q, %v), want (com/x/Lib, true)", name, ok)
	}
}

func TestAllowMemberRenamingOptOut(t *testing.T) {
	noRename := &model.Type{Descriptor: "Lcom/x/A;", Kind: model.Program}
	other := &model.Type{Descriptor: "Lcom/x/B;", Kind: model.Program}
	s := New(Config{NoRenameMembers: map[*model.Type]bool{noRename: true}})

	if s.AllowMemberRenaming(noRename) {
		t.Errorf("expected renaming disallowed for %v", noRename)
	}
	if !s.AllowMemberRenaming(other) {
		t.Errorf("expected renaming allowed for %v", other)
	}
}

func TestIsRenamedByApplyMapping(t *testing.T) {
	mapped := &model.Type{Descriptor: "Lcom/x/Mapped;", Kind: model.Program}
	free := &model.Type{Descriptor: "Lcom/x/Free;", Kind: model.Program}
	s := New(Config{ClassRenames: map[*model.Type]string{mapped: "a/b/C"}})

	if !s.IsRenamedByApplyMapping(mapped) {
		t.Errorf("expected mapped to report apply-mapping")
	}
	if s.IsRenamedByApplyMapping(free) {
		t.Errorf("expected free to not report apply-mapping")
	}
}
