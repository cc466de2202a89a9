// Tournament server
//
// Copyright (c) 2021, 2022, 2023  Philip Kaludercic
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
	"github.com/spf13/cobra"

	"go-sandpit/db"
	"go-sandpit/proto"
	"go-sandpit/sched"
	"go-sandpit/web"
)

func serve() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the tournament server",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				config.TCPPort, _ = cmd.Flags().GetUint16("port")
			}
			if cmd.Flags().Changed("db") {
				config.Database, _ = cmd.Flags().GetString("db")
			}

			// Enable the database
			if config.Database != "" {
				db.Register(config)
			}

			// Run the tournament between all registered players
			config.Register(sched.MakeLoop(config))

			// Allow TCP connections
			proto.Prepare(config)

			// Enable the web interface
			web.Register(config)

			// Launch the server
			config.Start()
			return nil
		},
	}

	cmd.Flags().Uint16P("port", "p", 0, "Port to accept requests on")
	cmd.Flags().String("db", "", "File to use for the database")

	return cmd
}
