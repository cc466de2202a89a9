// Client requests
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
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"go-sandpit/proto"
)

func send() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send {ping | add name syn file | del name syn | test file1 file2 vt1 vt2}",
		Short: "Send a request to a running server",
		Long: heredoc.Doc(`
			send issues a single request to a server and prints the response.
			The address may either be a host:port pair for a TCP connection,
			or a ws:// or wss:// URL for a websocket connection.
		`),
		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				addr, _    = cmd.Flags().GetString("addr")
				same, _    = cmd.Flags().GetBool("same-col")
				timeout, _ = cmd.Flags().GetDuration("timeout")
			)

			req, err := request(args, same)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			resp, err := proto.Send(ctx, addr, req)
			if err != nil {
				return err
			}
			fmt.Print(resp)
			return nil
		},
	}

	cmd.Flags().StringP("addr", "a", "localhost:5002", "Address of the server")
	cmd.Flags().Bool("same-col", false, "Assign both players the same column (test)")
	cmd.Flags().Duration("timeout", 5*time.Minute, "Give up after this long")

	return cmd
}

// Construct a request from the command line arguments
func request(args []string, same bool) (*proto.Request, error) {
	usage := func() error {
		return fmt.Errorf("invalid arguments for %s", args[0])
	}

	switch args[0] {
	case "ping":
		if len(args) != 1 {
			return nil, usage()
		}
		return proto.Ping(), nil
	case "add":
		if len(args) != 4 {
			return nil, usage()
		}
		syn, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, err
		}
		src, err := os.ReadFile(args[3])
		if err != nil {
			return nil, err
		}
		return proto.Add(args[1], syn, string(src)), nil
	case "del":
		if len(args) != 3 {
			return nil, usage()
		}
		syn, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, err
		}
		return proto.Del(args[1], syn), nil
	case "test":
		if len(args) != 5 {
			return nil, usage()
		}
		src1, err := os.ReadFile(args[1])
		if err != nil {
			return nil, err
		}
		src2, err := os.ReadFile(args[2])
		if err != nil {
			return nil, err
		}
		return proto.Test(string(src1), string(src2), args[3], args[4], same), nil
	}

	return nil, fmt.Errorf("unknown request %q", args[0])
}
