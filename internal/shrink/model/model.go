// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model defines the program representation consumed by the
// minification core: types, method and field references, and the
// NamingStrategy the core queries for keep rules and apply-mapping.
//
// Everything in this package is supplied by, or observed from, a frontend
// that the core does not implement: a class-file or dex reader, a
// reachability/tree-shaking pass, and a keep-rule/apply-mapping parser.
// The core only reads these types; it never mutates a Type, MethodRef or
// FieldRef in place.
package model

import "strings"

// Kind classifies a Type by where it was discovered.
type Kind int

const (
	// Program types are eligible for renaming.
	Program Kind = iota
	// Classpath types ship with the input but are not renamed (e.g. a
	// library module in the same build that isn't part of this shrink unit).
	Classpath
	// Library types come from the platform/SDK.
	Library
	// Missing types are referenced but absent from the model entirely;
	// they are treated as opaque frontier nodes rooted at java.lang.Object.
	Missing
)

func (k Kind) String() string {
	switch k {
	case Program:
		return "program"
	case Classpath:
		return "classpath"
	case Library:
		return "library"
	case Missing:
		return "missing"
	default:
		return "unknown"
	}
}

// AccessFlags mirrors the subset of JVM access flags the core cares about.
type AccessFlags uint16

const (
	Public AccessFlags = 1 << iota
	Private
	PackagePrivate
	Static
	Final
)

func (a AccessFlags) Has(f AccessFlags) bool { return a&f != 0 }

// InnerClassAttribute records the outer type, simple name and separator of
// an inner-class attribute, when present on a Type.
type InnerClassAttribute struct {
	Outer      *Type
	SimpleName string
	// Separator is the character joining the outer binary name to
	// SimpleName when synthesizing the inner class's own binary name.
	// '$' for ordinary inner classes; compilers may emit a different
	// (or synthetic) prefix for generated classes — see SyntheticSite.
	Separator byte
}

// SyntheticSite identifies a compiler-synthesized class (e.g. a
// lambda-desugared class) that has no real outer class to bind a Namespace
// to. The core treats each distinct site as its own Namespace, keyed by
// this value rather than by an outer type's binary name.
type SyntheticSite string

// Type is a class, interface, array or primitive type node in the resolved
// hierarchy. Identity is by pointer: the frontend is expected to intern
// Types so that two references to "the same" class share one *Type.
type Type struct {
	// Descriptor is the JVM internal form, e.g. "Lcom/x/A;", "[I", "V".
	Descriptor string
	Kind       Kind
	Supertype  *Type   // nil only for java.lang.Object and primitives
	Interfaces  []*Type // ordered, declaration order
	IsInterface bool

	Inner     *InnerClassAttribute // nil if not an inner class
	Synthetic SyntheticSite        // non-empty for compiler-synthesized classes

	Access AccessFlags
}

// BinaryName strips the "L" ... ";" wrapper from a class descriptor. A
// non-class descriptor (array or primitive) is returned unchanged.
func (t *Type) BinaryName() string {
	d := t.Descriptor
	if len(d) >= 2 && d[0] == 'L' && d[len(d)-1] == ';' {
		return d[1 : len(d)-1]
	}
	return d
}

// PackagePrefix returns the "com/x/" prefix (including trailing slash) of
// the type's binary name, or "" for a default-package class.
func (t *Type) PackagePrefix() string {
	bn := t.BinaryName()
	if i := strings.LastIndexByte(bn, '/'); i >= 0 {
		return bn[:i+1]
	}
	return ""
}

// IsProgram reports whether t is eligible for renaming.
func (t *Type) IsProgram() bool { return t.Kind == Program }

// Proto is a method's parameter and return types. Two protos with equal
// Params but differing Return dispatch identically on Android, which is
// why SignatureKey defaults to Params alone (see SignatureKey).
type Proto struct {
	Params []*Type
	Return *Type
}

// MethodRef identifies a method by holder, name and proto. It does not by
// itself say whether the method is declared on Holder or merely resolves
// there via superclass lookup — see ProgramModel.ResolveMethod.
type MethodRef struct {
	Holder *Type
	Name   string
	Proto  Proto
}

// FieldRef identifies a field by holder, name and type.
type FieldRef struct {
	Holder *Type
	Name   string
	Type   *Type
}

// MethodDef is a declared method: a MethodRef plus its access flags and
// whether its holder is a program type (and therefore a rename candidate).
type MethodDef struct {
	Ref            MethodRef
	Access         AccessFlags
	HolderIsProgram bool
}

func (m MethodDef) IsConstructor() bool { return m.Ref.Name == "<init>" }
func (m MethodDef) IsClassInit() bool   { return m.Ref.Name == "<clinit>" }

// FieldDef is a declared field: a FieldRef plus access flags.
type FieldDef struct {
	Ref             FieldRef
	Access          AccessFlags
	HolderIsProgram bool
}

// ProgramModel is the external collaborator that supplies class
// enumeration, supertype/interface edges, member lists, and the
// missing-type set, and performs method resolution against a holder. The
// core never constructs one; it is handed one by the frontend.
type ProgramModel interface {
	// Classes returns every Type the core must consider, in a stable,
	// deterministic order (by descriptor is conventional).
	Classes() []*Type

	// DeclaredMethods returns the methods declared directly on t (not
	// inherited), in a stable order.
	DeclaredMethods(t *Type) []MethodDef

	// DeclaredFields returns the fields declared directly on t, in a
	// stable order.
	DeclaredFields(t *Type) []FieldDef

	// Implementors returns the Types that directly implement or extend
	// iface (classes and subinterfaces alike).
	Implementors(iface *Type) []*Type

	// ResolveMethod performs JVM virtual/interface method resolution:
	// given a holder and a signature, find the MethodDef that a call
	// through holder would actually dispatch to. ok is false if
	// resolution fails (e.g. the holder is abstract with no concrete
	// override and no default method).
	ResolveMethod(holder *Type, sig MethodRef) (def MethodDef, ok bool)
}

// NamingStrategy is the external collaborator consulted for keep rules,
// apply-mapping, and fresh-name generation. The core treats it as a pure
// oracle: the same query must return the same answer for the life of a
// minification run.
type NamingStrategy interface {
	// ReservedClassName returns the locked-in binary name for a class, or
	// ("", false) if the class is free to rename.
	ReservedClassName(t *Type) (string, bool)

	// ReservedMethodName returns the locked-in name for a method, or
	// ("", false) if free. May be called multiple times for the same
	// method during apply-mapping conflict resolution.
	ReservedMethodName(m MethodRef) (string, bool)

	// ReservedFieldName returns the locked-in name for a field, or
	// ("", false) if free.
	ReservedFieldName(f FieldRef) (string, bool)

	// AllowMemberRenaming reports whether holder's members may be
	// renamed at all (a per-class opt-out, independent of individual
	// member reservations).
	AllowMemberRenaming(holder *Type) bool

	// BreakOnNotAvailable reports, for a field candidate that collided
	// with a reserved name, whether the field minifier should stop
	// looping (keep the original name) rather than keep drawing
	// candidates.
	BreakOnNotAvailable(f FieldRef, candidate string) bool

	// IsKeepByProguardRules and IsRenamedByApplyMapping are diagnostics
	// hooks: they do not affect naming decisions, only the Stats
	// produced alongside a Renaming (see package rename).
	IsKeepByProguardRules(t *Type) bool
	IsRenamedByApplyMapping(t *Type) bool
}

// SignatureKey is the equivalence class of method signatures that must not
// share a final name within a scope. Two MethodRefs with different
// SignatureKeys inhabit disjoint name pools even if declared in the same
// class.
type SignatureKey string

// SignatureKeyFunc projects a Proto to a SignatureKey. It must be a pure
// function of its argument, chosen once per minification run.
//
// SignatureKey deliberately omits the method name: its purpose is to
// identify the pool of param lists that could collide if two
// differently-named methods were ever renamed to the same new name, not
// to identify "the same logical method". Callers that need the latter
// (e.g. package ifaceminify's cross-interface grouping, or
// naming.Registry's override-name inheritance) pair a SignatureKey with
// the method's original Name explicitly.
type SignatureKeyFunc func(Proto) SignatureKey

// DefaultSignatureKey is Android's dispatch-accurate projection: only the
// parameter types matter, because the return type does not affect virtual
// dispatch on Android (spec §3, SignatureKey).
func DefaultSignatureKey(p Proto) SignatureKey {
	var b strings.Builder
	for _, t := range p.Params {
		b.WriteString(t.Descriptor)
		b.WriteByte(';')
	}
	return SignatureKey(b.String())
}

// AggressiveOverloadingSignatureKey is the non-Android projection: the
// full proto (params and return type) participates, so methods that differ
// only in return type fall into separate name pools and may share a name
// on JVM targets that support return-type overloading at the bytecode
// level.
func AggressiveOverloadingSignatureKey(p Proto) SignatureKey {
	var b strings.Builder
	for _, t := range p.Params {
		b.WriteString(t.Descriptor)
		b.WriteByte(';')
	}
	b.WriteByte('>')
	b.WriteString(p.Return.Descriptor)
	return SignatureKey(b.String())
}

// KeyFor is a convenience that applies fn to m's proto.
func KeyFor(fn SignatureKeyFunc, m MethodRef) SignatureKey { return fn(m.Proto) }
