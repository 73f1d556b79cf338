// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/open2b/tablesbuilder"
	"github.com/open2b/tablesbuilder/locale"
)

// envPrefix is the prefix of the environment variables that set the flags.
const envPrefix = "TABLESBUILDER"

// app holds the configuration and the logger shared by the commands.
type app struct {
	config *viper.Viper
	log    *logrus.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{
		config: viper.New(),
		log:    logrus.New(),
	}
	a.log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	root := &cobra.Command{
		Use:          "tablesbuilder",
		Short:        "Render HTML tables from YAML definitions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.String("config", "", "YAML config file")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("lang", "", "language of the widget texts, as \"it\" or \"en-US\"")
	root.AddCommand(
		newRenderCommand(a),
		newServeCommand(a),
		newVersionCommand(),
	)
	return root
}

// configure reads the configuration of cmd from its flags, the environment
// and the config file, in this order of precedence, and configures the
// logger.
func (a *app) configure(cmd *cobra.Command) error {
	v := a.config
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err == nil {
			err = v.BindPFlag(f.Name, f)
		}
	})
	if err != nil {
		return err
	}
	if name := v.GetString("config"); name != "" {
		v.SetConfigFile(name)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrap(err, "cannot read config file")
		}
	}
	a.log.SetOutput(cmd.ErrOrStderr())
	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.log.SetLevel(level)
	a.log.WithField("command", cmd.Name()).Debug("configuration read")
	return nil
}

// translator returns the catalog of the configured language or, if no
// language is configured, the catalog that best matches acceptLanguage.
func (a *app) translator(acceptLanguage string) tablesbuilder.Translator {
	if lang := a.config.GetString("lang"); lang != "" {
		return locale.Default().Match(lang)
	}
	return locale.Default().Match(acceptLanguage)
}
