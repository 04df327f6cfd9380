// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrispaulwu/r8/internal/shrink/classminify"
	"github.com/chrispaulwu/r8/internal/shrink/model"
	"github.com/chrispaulwu/r8/internal/shrink/rename"
	"github.com/chrispaulwu/r8/internal/shrink/strategy"
)

// runPipeline builds the demo program and strategy from cmd's flags and
// runs the full rename.Pipeline against it.
func runPipeline(cmd *cobra.Command) (*demoProgram, *rename.Renaming, *rename.Stats, error) {
	keep, _ := cmd.Flags().GetStringSlice("keep")
	classMap, _ := cmd.Flags().GetStringSlice("map")
	mixedCase, _ := cmd.Flags().GetBool("mixed-case")
	verbose, _ := cmd.Flags().GetBool("verbose")

	program := buildDemoProgram()
	cfg, err := buildStrategyConfig(program, keep, classMap)
	if err != nil {
		return nil, nil, nil, err
	}
	strat := strategy.New(cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "minify: %d classes, %d class keep rules, %d class apply-mapping entries\n",
			len(program.classes), len(cfg.KeepClasses), len(cfg.ClassRenames))
	}

	opts := classminify.Options{MixedCase: mixedCase, KeepInnerClassStructure: true}
	pipeline := rename.New(program, strat, model.DefaultSignatureKey, opts, nil)

	if verbose {
		fmt.Fprintln(os.Stderr, "minify: running ClassMinifier, InterfaceMethodMinifier, MethodMinifier, FieldMinifier")
	}
	renaming, stats, err := pipeline.Run(nil)
	if err != nil {
		return nil, nil, nil, err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "minify: done (%d kept by rule, %d renamed by apply-mapping)\n", stats.KeptByProguardRules, stats.RenamedByApplyMapping)
	}
	return program, renaming, stats, nil
}
