// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmd builds the minify command tree. It is a harness: the
// program it minifies is a small fixed fixture (see fixture.go), not a
// parsed class file or dex archive, since reading those formats is out
// of this core's scope (spec §1).
package cmd

import "github.com/spf13/cobra"

// Execute builds and runs the minify command tree.
func Execute() error {
	root := &cobra.Command{
		Use:   "minify",
		Short: "Drives the r8-go identifier minification core against a small fixture program",
	}
	root.PersistentFlags().StringSlice("keep", nil, "binary name of a demo class to pin to its original name (repeatable)")
	root.PersistentFlags().StringSlice("map", nil, "OldBinaryName=NewBinaryName apply-mapping entry for a demo class (repeatable)")
	root.PersistentFlags().Bool("mixed-case", false, "disable the case-folded collision policy (spec §4.1)")
	root.PersistentFlags().BoolP("verbose", "v", false, "print per-phase progress to stderr")

	root.AddCommand(newRunCmd())
	root.AddCommand(newDumpMappingCmd())

	return root.Execute()
}
