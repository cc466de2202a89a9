// Command line tests
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
	"os"
	"path/filepath"
	"testing"

	"go-sandpit/proto"
)

func TestRequest(t *testing.T) {
	file := filepath.Join(t.TempDir(), "player.js")
	if err := os.WriteFile(file, []byte("function take_turn() {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	for i, test := range []struct {
		args []string
		cmd  string
		fail bool
	}{
		{args: []string{"ping"}, cmd: proto.CmdPing},
		{args: []string{"ping", "pong"}, fail: true},
		{args: []string{"add", "Alice", "3", file}, cmd: proto.CmdAdd},
		{args: []string{"add", "Alice", "three", file}, fail: true},
		{args: []string{"add", "Alice", "3", file + ".missing"}, fail: true},
		{args: []string{"del", "Alice", "3"}, cmd: proto.CmdDel},
		{args: []string{"del", "Alice"}, fail: true},
		{args: []string{"test", file, file, "Max", "Min"}, cmd: proto.CmdTest},
		{args: []string{"jump"}, fail: true},
	} {
		req, err := request(test.args, false)
		if test.fail {
			if err == nil {
				t.Errorf("(%d) Expected an error for %v", i, test.args)
			}
			continue
		}
		if err != nil {
			t.Errorf("(%d) Unexpected error: %v", i, err)
			continue
		}
		if req.Cmd != test.cmd {
			t.Errorf("(%d) Expected %s, got %s", i, test.cmd, req.Cmd)
		}
	}
}

func TestLoadDefault(t *testing.T) {
	cmd := root()
	cmd.SetArgs([]string{"config", "--config", filepath.Join(t.TempDir(), "none.toml")})
	if err := cmd.Execute(); err == nil {
		t.Error("Expected an explicitly named missing file to fail")
	}
}
