// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/open2b/tablesbuilder/definition"
)

func newRenderCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Print the table of a definition",
		Long: "Render prints the HTML code of the table described by the YAML definition FILE.\n" +
			"If the table has an id, the code ends with the widget initialization script.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd.OutOrStdout(), args[0])
		},
	}
	cmd.Flags().Bool("no-script", false, "do not render the widget initialization script")
	return cmd
}

// render writes to out the table of the definition in the named file.
func (a *app) render(out io.Writer, name string) error {
	d, err := definition.LoadFile(name)
	if err != nil {
		return err
	}
	initialize := d.Initialize && !a.config.GetBool("no-script")
	a.log.WithFields(logrus.Fields{
		"file":       name,
		"steps":      len(d.Steps),
		"initialize": initialize,
	}).Debug("rendering definition")
	table, err := d.Build(a.translator(""))
	if err != nil {
		return err
	}
	err = table.RenderTo(out, initialize)
	if err == nil {
		_, err = io.WriteString(out, "\n")
	}
	return err
}
