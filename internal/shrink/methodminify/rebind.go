// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package methodminify

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/chrispaulwu/r8/internal/shrink/model"
)

// AmbiguityResolver is an optional ProgramModel capability. When
// ResolveMethod fails for a non-rebound reference, Rebind consults it for
// the set of candidate targets the reference might still resolve to
// (spec §4.6: "consult the failure's dependency set"). A frontend that
// has no such ambiguity to report simply does not implement it.
type AmbiguityResolver interface {
	AmbiguousTargets(holder *model.Type, ref model.MethodRef) []model.MethodDef
}

// Rebind resolves every non-rebound reference in refs against pm and
// returns the rename each should receive, keyed by the reference's
// original (unresolved) MethodRef. finalNames is the union of every
// phase's committed renames (interface and class). The pass runs
// concurrently across refs: each reference only reads finalNames and
// resolves independently of every other, which is what spec §4.6 calls
// "embarrassingly parallel".
func Rebind(ctx context.Context, pm model.ProgramModel, refs []model.MethodRef, finalNames map[model.MethodRef]string) (map[model.MethodRef]string, error) {
	out := make(map[model.MethodRef]string, len(refs))
	var mu sync.Mutex

	g, _ := errgroup.WithContext(ctx)
	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			if name, ok := resolveOne(pm, ref, finalNames); ok {
				mu.Lock()
				out[ref] = name
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// resolveOne implements the per-reference resolution rule of spec §4.6:
// resolve uniquely and take the resolved target's rename, or (on
// resolution failure) take the rename every ambiguous candidate target
// agrees on, or emit nothing.
func resolveOne(pm model.ProgramModel, ref model.MethodRef, finalNames map[model.MethodRef]string) (string, bool) {
	if def, ok := pm.ResolveMethod(ref.Holder, ref); ok {
		name, ok := finalNames[def.Ref]
		return name, ok
	}

	resolver, ok := pm.(AmbiguityResolver)
	if !ok {
		return "", false
	}
	targets := resolver.AmbiguousTargets(ref.Holder, ref)
	if len(targets) == 0 {
		return "", false
	}
	var agreed string
	for i, t := range targets {
		name, ok := finalNames[t.Ref]
		if !ok {
			return "", false
		}
		if i == 0 {
			agreed = name
		} else if name != agreed {
			return "", false
		}
	}
	return agreed, true
}
