// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline and print a one-line-per-member renaming summary",
		RunE:  runRun,
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	program, renaming, _, err := runPipeline(cmd)
	if err != nil {
		return err
	}

	for _, t := range sortedClasses(program) {
		to := renaming.ClassDescriptors[t]
		fmt.Printf("class  %-24s -> %s\n", t.BinaryName(), to)
		for _, md := range program.DeclaredMethods(t) {
			if md.IsConstructor() || md.IsClassInit() {
				continue
			}
			fmt.Printf("  method %-22s -> %s\n", md.Ref.Name, renaming.MethodNames[md.Ref])
		}
		for _, fd := range program.DeclaredFields(t) {
			fmt.Printf("  field  %-22s -> %s\n", fd.Ref.Name, renaming.FieldNames[fd.Ref])
		}
	}
	return nil
}
