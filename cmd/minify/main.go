// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command minify is a harness around internal/shrink/rename, not a real
// shrinker CLI: it wires a NamingStrategy from a small in-memory fixture
// program (the keep-rule/apply-mapping frontend is out of this core's
// scope per spec §1) and runs the pipeline against it, the way gorename's
// main package wires refactor/rename against go/build.
package main

import (
	"fmt"
	"os"

	"github.com/chrispaulwu/r8/cmd/minify/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "minify: %v\n", err)
		os.Exit(1)
	}
}
