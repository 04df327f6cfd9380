// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package classminify implements ClassMinifier (spec §4.2): the two
// (really three, counting the dangling-type pass) phase walk over classes
// that assigns new binary names while preserving inner-class prefix
// attributes.
package classminify

import (
	"fmt"

	"github.com/chrispaulwu/r8/internal/shrink/caseutil"
	"github.com/chrispaulwu/r8/internal/shrink/model"
	"github.com/chrispaulwu/r8/internal/shrink/namesource"
)

// Options configures a Minifier run. Dictionary, when non-nil, supplies
// the first candidates drawn from every Namespace this minifier creates
// (spec §4.1) — a host CLI's "-classobfuscationdictionary".
type Options struct {
	// KeepInnerClassStructure mirrors ProGuard/R8's
	// -keepattributes/keep-inner-class-structure behavior (spec §4.2
	// phase 2): when true, an inner class's fresh name is drawn from a
	// Namespace bound to its outer class's final binary name.
	KeepInnerClassStructure bool
	// MixedCase false applies the case-folded collision policy (spec
	// §4.1).
	MixedCase bool
	// Dictionary seeds every Namespace's NameSource.
	Dictionary []string
	// Repackage, if non-nil, maps a source package prefix
	// ("com/x/") to a destination package prefix, implementing
	// "-repackageclasses". Returning ok=false leaves the package
	// in place.
	Repackage func(sourcePackage string) (dest string, ok bool)
}

// Result is ClassMinifier's output: the Type→descriptor table plus the
// informational PackageRenaming table (spec §3 "Renaming tables",
// §4.2 "Package renaming output").
type Result struct {
	Descriptors     map[*model.Type]string
	PackageRenaming map[string]string
}

// Minifier runs ClassMinifier against a ProgramModel and NamingStrategy.
type Minifier struct {
	opts     Options
	strategy model.NamingStrategy

	globalUsed map[string]bool // case-folded descriptor -> used, cross-package collision guard
	packages   map[string]*namesource.Namespace
	synthetic  map[model.SyntheticSite]*namesource.Namespace
	inProgress map[*model.Type]bool // cycle guard while recursively renaming outers
	known      map[*model.Type]bool // the set of types actually being minified
}

// New creates a Minifier.
func New(strategy model.NamingStrategy, opts Options) *Minifier {
	return &Minifier{
		opts:       opts,
		strategy:   strategy,
		globalUsed: make(map[string]bool),
		packages:   make(map[string]*namesource.Namespace),
		synthetic:  make(map[model.SyntheticSite]*namesource.Namespace),
		inProgress: make(map[*model.Type]bool),
	}
}

// Run executes all three phases over types (typically pm.Classes()) and
// additionally over extraReferencedTypes — types reachable only via a
// method signature or field type, not themselves enumerated by the model
// (spec §4.2 phase 3, "dangling-type pass").
func (m *Minifier) Run(types []*model.Type, extraReferencedTypes []*model.Type) (*Result, error) {
	result := &Result{
		Descriptors:     make(map[*model.Type]string),
		PackageRenaming: make(map[string]string),
	}
	m.known = make(map[*model.Type]bool, len(types))
	for _, t := range types {
		m.known[t] = true
	}

	// Phase 1: reserve.
	for _, t := range types {
		if t.Kind == model.Missing {
			m.reserveDescriptor(result, t, t.Descriptor)
			continue
		}
		if !t.IsProgram() {
			continue
		}
		if name, ok := m.strategy.ReservedClassName(t); ok {
			m.reserveDescriptor(result, t, toDescriptor(name))
		}
	}

	// Phase 2: rename.
	for _, t := range types {
		if !t.IsProgram() {
			continue
		}
		if _, done := result.Descriptors[t]; done {
			continue
		}
		if err := m.renameOne(result, t); err != nil {
			return nil, err
		}
	}

	// Phase 3: dangling-type pass.
	for _, t := range extraReferencedTypes {
		if _, done := result.Descriptors[t]; done {
			continue
		}
		if t.Descriptor == "" || t.Descriptor[0] != 'L' {
			continue // array/primitive descriptors never need their own entry
		}
		if name, ok := m.strategy.ReservedClassName(t); ok {
			m.reserveDescriptor(result, t, toDescriptor(name))
			continue
		}
		ns := m.packageNamespace(t.PackagePrefix(), t.PackagePrefix())
		candidate := ns.NextFreshName(m.descriptorUsed(ns.Prefix()))
		desc := toDescriptor(ns.Prefix() + candidate)
		m.commit(result, t, desc)
	}

	return result, nil
}

// renameOne computes and records t's new descriptor, recursively resolving
// its outer class first if t is a (kept-structure) inner class.
func (m *Minifier) renameOne(result *Result, t *model.Type) error {
	if m.inProgress[t] {
		return fmt.Errorf("classminify: cycle detected renaming %s", t.Descriptor)
	}
	m.inProgress[t] = true
	defer delete(m.inProgress, t)

	if t.Synthetic != "" {
		ns := m.syntheticNamespace(t.Synthetic)
		prefix := ns.Prefix() + string(t.Synthetic) + "$"
		candidate := ns.NextFreshName(m.descriptorUsed(prefix))
		m.commit(result, t, toDescriptor(prefix+candidate))
		return nil
	}

	if t.Inner != nil && m.opts.KeepInnerClassStructure {
		outer := t.Inner.Outer
		var outerBinaryName string
		if !m.known[outer] {
			// Outer was shrunk away: force-reserve its original
			// descriptor so this (and any sibling) inner class
			// still has a stable prefix to bind to.
			if _, done := result.Descriptors[outer]; !done {
				m.reserveDescriptor(result, outer, outer.Descriptor)
			}
			outerBinaryName = outer.BinaryName()
		} else {
			if _, done := result.Descriptors[outer]; !done {
				if err := m.renameOne(result, outer); err != nil {
					return err
				}
			}
			outerBinaryName = BinaryNameOf(result.Descriptors[outer])
		}
		sep := t.Inner.Separator
		if sep == 0 {
			sep = '$'
		}
		prefix := outerBinaryName + string(sep)
		ns := m.innerNamespace(prefix)
		candidate := ns.NextFreshName(m.descriptorUsed(prefix))
		m.commit(result, t, toDescriptor(prefix+candidate))
		return nil
	}

	srcPkg := t.PackagePrefix()
	destPkg := srcPkg
	if m.opts.Repackage != nil {
		if d, ok := m.opts.Repackage(srcPkg); ok {
			destPkg = d
		}
	}
	ns := m.packageNamespace(destPkg, srcPkg)
	candidate := ns.NextFreshName(m.descriptorUsed(destPkg))
	m.commit(result, t, toDescriptor(destPkg+candidate))
	if destPkg != srcPkg {
		result.PackageRenaming[trimSlash(srcPkg)] = trimSlash(destPkg)
	}
	return nil
}

func (m *Minifier) packageNamespace(destPkg, srcPkg string) *namesource.Namespace {
	ns, ok := m.packages[destPkg]
	if !ok {
		ns = namesource.NewNamespace(destPkg, srcPkg, m.opts.Dictionary, m.opts.MixedCase)
		m.packages[destPkg] = ns
	}
	return ns
}

func (m *Minifier) innerNamespace(prefix string) *namesource.Namespace {
	ns, ok := m.packages[prefix]
	if !ok {
		ns = namesource.NewNamespace(prefix, "", m.opts.Dictionary, m.opts.MixedCase)
		m.packages[prefix] = ns
	}
	return ns
}

func (m *Minifier) syntheticNamespace(site model.SyntheticSite) *namesource.Namespace {
	ns, ok := m.synthetic[site]
	if !ok {
		ns = namesource.NewNamespace(string(site), "", m.opts.Dictionary, m.opts.MixedCase)
		m.synthetic[site] = ns
	}
	return ns
}

func (m *Minifier) reserveDescriptor(result *Result, t *model.Type, descriptor string) {
	m.commit(result, t, descriptor)
}

// commit records descriptor for t and marks it used in the global,
// cross-package collision set (spec §4.2 "Collision rule").
func (m *Minifier) commit(result *Result, t *model.Type, descriptor string) {
	result.Descriptors[t] = descriptor
	m.globalUsed[caseutil.Fold(descriptor, m.opts.MixedCase)] = true
}

// descriptorUsed returns an isUsed predicate that checks the global,
// cross-package descriptor set for prefix+candidate wrapped as a
// descriptor (spec §4.2 "Collision rule": the Namespace guarantees no
// local collision, but a reserved descriptor from another package's
// class can still coincide with a fresh candidate here).
func (m *Minifier) descriptorUsed(prefix string) func(string) bool {
	return func(candidate string) bool {
		return m.globalUsed[caseutil.Fold(toDescriptor(prefix+candidate), m.opts.MixedCase)]
	}
}

func toDescriptor(binaryName string) string {
	if len(binaryName) > 0 && (binaryName[0] == '[' || binaryName == "V") {
		return binaryName
	}
	return "L" + binaryName + ";"
}

// BinaryNameOf strips the "L" ... ";" wrapper from a class descriptor,
// the same rule model.Type.BinaryName applies to a live Type, exposed here
// for callers (such as a host CLI printing a mapping file) holding only
// the descriptor string a rename pass produced.
func BinaryNameOf(descriptor string) string {
	if len(descriptor) >= 2 && descriptor[0] == 'L' && descriptor[len(descriptor)-1] == ';' {
		return descriptor[1 : len(descriptor)-1]
	}
	return descriptor
}

func trimSlash(pkg string) string {
	if len(pkg) > 0 && pkg[len(pkg)-1] == '/' {
		return pkg[:len(pkg)-1]
	}
	return pkg
}
