// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleVersion(t *testing.T) {
	tests := []struct {
		version  string
		expected string
	}{
		{"v1.2.3", "v1.2.3"},
		{"v1.2", "v1.2.0"},
		{"v0.3.0-beta.1", "v0.3.0-beta.1"},
		{"v1.0.0+meta", "v1.0.0"},
		{"v2.0.0+incompatible", "v2.0.0+incompatible"},
		{"(devel)", "(devel)"},
		{"", "(devel)"},
		{"1.2.3", "(devel)"},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, moduleVersion(test.version), "version %q", test.version)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute("version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tablesbuilder "), "unexpected output %q", out)
	assert.Contains(t, out, runtime.Version())

	_, _, err = execute("version", "extra")
	assert.Error(t, err)
}
