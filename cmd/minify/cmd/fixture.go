// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chrispaulwu/r8/internal/shrink/model"
	"github.com/chrispaulwu/r8/internal/shrink/strategy"
)

// demoProgram is a small, hand-built model.ProgramModel: an interface
// with two implementors and a two-level class hierarchy with an
// override. It stands in for the class-file/dex reader this core does
// not implement (spec §1).
type demoProgram struct {
	classes  []*model.Type
	declared map[*model.Type][]model.MethodDef
	fields   map[*model.Type][]model.FieldDef
	impl     map[*model.Type][]*model.Type
}

func (p *demoProgram) Classes() []*model.Type { return p.classes }

func (p *demoProgram) DeclaredMethods(t *model.Type) []model.MethodDef { return p.declared[t] }

func (p *demoProgram) DeclaredFields(t *model.Type) []model.FieldDef { return p.fields[t] }

func (p *demoProgram) Implementors(iface *model.Type) []*model.Type { return p.impl[iface] }

func (p *demoProgram) ResolveMethod(holder *model.Type, sig model.MethodRef) (model.MethodDef, bool) {
	for n := holder; n != nil; n = n.Supertype {
		for _, md := range p.declared[n] {
			if md.Ref.Name == sig.Name {
				return md, true
			}
		}
	}
	return model.MethodDef{}, false
}

// buildDemoProgram builds: interface Shape{area()}; Circle, Square
// implement Shape; Animal{speak(), legCount}; Dog extends Animal, overrides
// speak() and adds bark().
func buildDemoProgram() *demoProgram {
	voidT := &model.Type{Descriptor: "V", Kind: model.Library}
	doubleT := &model.Type{Descriptor: "D", Kind: model.Library}
	intT := &model.Type{Descriptor: "I", Kind: model.Library}

	shape := &model.Type{Descriptor: "Lcom/demo/Shape;", Kind: model.Program, IsInterface: true}
	circle := &model.Type{Descriptor: "Lcom/demo/Circle;", Kind: model.Program, Interfaces: []*model.Type{shape}}
	square := &model.Type{Descriptor: "Lcom/demo/Square;", Kind: model.Program, Interfaces: []*model.Type{shape}}

	animal := &model.Type{Descriptor: "Lcom/demo/Animal;", Kind: model.Program}
	dog := &model.Type{Descriptor: "Lcom/demo/Dog;", Kind: model.Program, Supertype: animal}

	shapeArea := model.MethodDef{Ref: model.MethodRef{Holder: shape, Name: "area", Proto: model.Proto{Return: doubleT}}, HolderIsProgram: true}
	circleArea := model.MethodDef{Ref: model.MethodRef{Holder: circle, Name: "area", Proto: model.Proto{Return: doubleT}}, HolderIsProgram: true}
	squareArea := model.MethodDef{Ref: model.MethodRef{Holder: square, Name: "area", Proto: model.Proto{Return: doubleT}}, HolderIsProgram: true}

	animalSpeak := model.MethodDef{Ref: model.MethodRef{Holder: animal, Name: "speak", Proto: model.Proto{Return: voidT}}, HolderIsProgram: true}
	dogSpeak := model.MethodDef{Ref: model.MethodRef{Holder: dog, Name: "speak", Proto: model.Proto{Return: voidT}}, HolderIsProgram: true}
	dogBark := model.MethodDef{Ref: model.MethodRef{Holder: dog, Name: "bark", Proto: model.Proto{Params: []*model.Type{intT}, Return: voidT}}, HolderIsProgram: true}

	animalLegs := model.FieldDef{Ref: model.FieldRef{Holder: animal, Name: "legCount", Type: intT}, HolderIsProgram: true}

	return &demoProgram{
		classes: []*model.Type{shape, circle, square, animal, dog},
		declared: map[*model.Type][]model.MethodDef{
			shape:  {shapeArea},
			circle: {circleArea},
			square: {squareArea},
			animal: {animalSpeak},
			dog:    {dogSpeak, dogBark},
		},
		fields: map[*model.Type][]model.FieldDef{
			animal: {animalLegs},
		},
		impl: map[*model.Type][]*model.Type{
			shape: {circle, square},
		},
	}
}

// lookupType finds a declared class by its binary name ("com/demo/Dog")
// among p's classes.
func lookupType(p *demoProgram, binaryName string) (*model.Type, bool) {
	for _, t := range p.classes {
		if t.BinaryName() == binaryName {
			return t, true
		}
	}
	return nil, false
}

// buildStrategyConfig translates --keep/--map command-line values into a
// strategy.Config, standing in for a real keep-rule and apply-mapping
// parser (out of this core's scope, spec §1).
func buildStrategyConfig(p *demoProgram, keep, classMap []string) (strategy.Config, error) {
	cfg := strategy.Config{
		KeepClasses:  make(map[*model.Type]bool),
		ClassRenames: make(map[*model.Type]string),
	}
	for _, name := range keep {
		t, ok := lookupType(p, name)
		if !ok {
			return cfg, fmt.Errorf("-keep: no such class %q in the demo program", name)
		}
		cfg.KeepClasses[t] = true
	}
	for _, pair := range classMap {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return cfg, fmt.Errorf("-map: expected OldName=NewName, got %q", pair)
		}
		t, ok := lookupType(p, parts[0])
		if !ok {
			return cfg, fmt.Errorf("-map: no such class %q in the demo program", parts[0])
		}
		cfg.ClassRenames[t] = parts[1]
	}
	return cfg, nil
}

// sortedClasses returns p.classes ordered by descriptor, for stable CLI
// output.
func sortedClasses(p *demoProgram) []*model.Type {
	out := append([]*model.Type(nil), p.classes...)
	sort.Slice(out, func(i, j int) bool { return out[i].Descriptor < out[j].Descriptor })
	return out
}
