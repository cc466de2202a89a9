// Command line interface
//
// Copyright (c) 2023  Philip Kaludercic
//
// This file is part of go-sandpit.
//
// go-sandpit is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-sandpit is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-sandpit. If not, see
// <http://www.gnu.org/licenses/>

package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"go-sandpit"
	"go-sandpit/conf"
)

// Configuration shared by all sub-commands, loaded before any of them
// are executed.
var config *conf.Conf

// Load the configuration from disk (if available)
func load(cmd *cobra.Command) error {
	var (
		name, _   = cmd.Flags().GetString("config")
		debug, _  = cmd.Flags().GetBool("debug")
		trace, _  = cmd.Flags().GetBool("trace")
		silent, _ = cmd.Flags().GetBool("silent")
		err       error
	)

	config, err = conf.Open(name)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		config, err = conf.Default(), nil
	}
	if err != nil {
		return err
	}

	sandpit.SetVerbosity(debug, trace, silent)
	return nil
}

func root() *cobra.Command {
	root := &cobra.Command{
		Use:   "sandpit",
		Short: "Round-robin tournament for table-filling programs",
		Long: heredoc.Doc(`
			sandpit runs a continuous tournament between player programs.
			Every game two players take turns filling a table of numbers, each
			trying to satisfy a secret victory condition on one column.

			Players are submitted over TCP or a websocket connection, and
			the standings are published on a web page.
		`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return load(cmd)
		},
	}

	// global flags
	root.PersistentFlags().StringP("config", "c", conf.DefaultPath, "Path to the configuration file")
	root.PersistentFlags().BoolP("debug", "d", false, "Show debug information")
	root.PersistentFlags().BoolP("trace", "t", false, "Show trace information")
	root.PersistentFlags().BoolP("silent", "s", false, "Only report warnings and errors")

	root.AddCommand(serve())
	root.AddCommand(test())
	root.AddCommand(send())
	root.AddCommand(dump())

	return root
}

func dump() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Dump(os.Stdout)
		},
	}
}
