// Local test games
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
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"go-sandpit/proto"
)

func test() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test player1 player2",
		Short: "Play a single game between two local programs",
		Args:  cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				vt1, _  = cmd.Flags().GetString("vt1")
				vt2, _  = cmd.Flags().GetString("vt2")
				same, _ = cmd.Flags().GetBool("same-col")
			)

			src1, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			src2, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			s.Suffix = " Playing..."
			s.Writer = os.Stderr
			s.Start()
			req := proto.Test(string(src1), string(src2), vt1, vt2, same)
			resp := proto.MakeHandler(config).Handle(cmd.Context(), req)
			s.Stop()

			fmt.Print(resp)
			return nil
		},
	}

	cmd.Flags().String("vt1", "Max", "Victory type of the first player")
	cmd.Flags().String("vt2", "Min", "Victory type of the second player")
	cmd.Flags().Bool("same-col", false, "Assign both players the same column")

	return cmd
}
