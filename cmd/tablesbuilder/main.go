// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tablesbuilder renders the tables described by YAML definitions.
//
// Usage:
//
//	tablesbuilder render [--no-script] [--lang LANG] FILE
//	tablesbuilder serve [--addr ADDR] [--lang LANG] [DIR]
//	tablesbuilder version
//
// Flags can also be set in a YAML config file, passed with --config, and
// with environment variables with the TABLESBUILDER_ prefix, for example
// TABLESBUILDER_LOG_LEVEL=debug.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
