// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrispaulwu/r8/internal/shrink/classminify"
	"github.com/chrispaulwu/r8/internal/shrink/model"
)

func newDumpMappingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-mapping",
		Short: "Run the pipeline and print a ProGuard-style apply-mapping file",
		RunE:  runDumpMapping,
	}
}

func runDumpMapping(cmd *cobra.Command, args []string) error {
	program, renaming, _, err := runPipeline(cmd)
	if err != nil {
		return err
	}

	for _, t := range sortedClasses(program) {
		from := dotted(t.BinaryName())
		to := dotted(classminify.BinaryNameOf(renaming.ClassDescriptors[t]))
		fmt.Printf("%s -> %s:\n", from, to)
		for _, md := range program.DeclaredMethods(t) {
			if md.IsConstructor() || md.IsClassInit() {
				continue
			}
			fmt.Printf("    %s(%s) -> %s\n", md.Ref.Name, protoParams(md.Ref.Proto), renaming.MethodNames[md.Ref])
		}
		for _, fd := range program.DeclaredFields(t) {
			fmt.Printf("    %s -> %s\n", fd.Ref.Name, renaming.FieldNames[fd.Ref])
		}
	}
	return nil
}

func dotted(binaryName string) string { return strings.ReplaceAll(binaryName, "/", ".") }

func protoParams(p model.Proto) string {
	names := make([]string, len(p.Params))
	for i, t := range p.Params {
		names[i] = t.Descriptor
	}
	return strings.Join(names, ", ")
}
