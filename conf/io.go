// Configuration Loading and Storing
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

package conf

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"go-sandpit"
)

// Fill DATA with the default values, so that missing keys in a file
// are not reset to zero.
func (c *Conf) fill(data *conf) {
	data.Database.File = c.Database
	data.Proto.Port = uint(c.TCPPort)
	data.Proto.Timeout = uint(c.TCPTimeout / time.Millisecond)
	data.Game.Rounds = c.Rounds
	data.Game.Columns = c.Columns
	data.Game.Timeout = uint(c.TurnTimeout / time.Millisecond)
	data.Game.Strict = c.Strict
	data.Tournament.Idle = uint(c.Idle / time.Millisecond)
	data.Tournament.Pause = uint(c.Pause / time.Millisecond)
	data.Web.Enabled = c.WebInterface
	data.Web.Port = uint(c.WebPort)
	data.Web.File = c.WebFile
	data.Web.Websocket = c.WebSocket
}

func load(r io.Reader) (*Conf, error) {
	c := Default()

	// Load configuration data
	var data conf
	c.fill(&data)
	_, err := toml.NewDecoder(r).Decode(&data)
	if err != nil {
		return nil, err
	}

	// Apply configuration requests
	if data.Debug {
		sandpit.SetVerbosity(true, false, false)
	}
	c.Database = data.Database.File
	c.TCPPort = uint16(data.Proto.Port)
	c.TCPTimeout = time.Duration(data.Proto.Timeout) * time.Millisecond
	c.Rounds = data.Game.Rounds
	c.Columns = data.Game.Columns
	c.TurnTimeout = time.Duration(data.Game.Timeout) * time.Millisecond
	c.Strict = data.Game.Strict
	c.Idle = time.Duration(data.Tournament.Idle) * time.Millisecond
	c.Pause = time.Duration(data.Tournament.Pause) * time.Millisecond
	c.WebInterface = data.Web.Enabled
	c.WebPort = uint16(data.Web.Port)
	c.WebFile = data.Web.File
	c.WebSocket = data.Web.Websocket

	return c, c.validate()
}

func (c *Conf) validate() error {
	switch {
	case c.Rounds < 1:
		return errInvalid("game.rounds must be at least 1")
	case c.Columns < 2:
		return errInvalid("game.columns must be at least 2")
	case int(c.Columns) > len(sandpit.Names()):
		return errInvalid("game.columns exceeds the name pool")
	case c.TurnTimeout <= 0:
		return errInvalid("game.timeout must be positive")
	}
	return nil
}

type errInvalid string

func (e errInvalid) Error() string { return "invalid configuration: " + string(e) }

func Open(name string) (*Conf, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return load(file)
}

func Default() *Conf {
	c := defaultConfig
	c.man = nil
	c.Ctx, c.Kill = context.WithCancel(context.Background())
	return &c
}

func (c *Conf) Dump(wr io.Writer) error {
	var data conf
	c.fill(&data)
	return toml.NewEncoder(wr).Encode(data)
}
