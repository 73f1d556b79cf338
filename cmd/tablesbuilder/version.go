// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tablesbuilder version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version := "(devel)"
			if info, ok := debug.ReadBuildInfo(); ok {
				version = moduleVersion(info.Main.Version)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tablesbuilder %s %s %s/%s\n",
				version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

// moduleVersion returns the module version v in canonical form. If v is not
// a semantic version, as for a binary built in the module, it returns
// "(devel)".
func moduleVersion(v string) string {
	if !semver.IsValid(v) {
		return "(devel)"
	}
	if semver.Build(v) == "+incompatible" {
		return v
	}
	return semver.Canonical(v)
}
