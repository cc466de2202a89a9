// Configuration Specification
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
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

type conf struct {
	Debug    bool `toml:"debug"`
	Database struct {
		File string `toml:"file"`
	} `toml:"database"`
	Proto struct {
		Port    uint `toml:"port"`
		Timeout uint `toml:"timeout"`
	} `toml:"proto"`
	Game struct {
		Rounds  uint `toml:"rounds"`
		Columns uint `toml:"columns"`
		Timeout uint `toml:"timeout"`
		Strict  bool `toml:"strict"`
	} `toml:"game"`
	Tournament struct {
		Idle  uint `toml:"idle"`
		Pause uint `toml:"pause"`
	} `toml:"tournament"`
	Web struct {
		Enabled   bool   `toml:"enabled"`
		Port      uint   `toml:"port"`
		File      string `toml:"file"`
		Websocket bool   `toml:"websocket"`
	} `toml:"web"`
}

type Conf struct {
	Ctx  context.Context
	Kill context.CancelFunc

	// Protocol Configuration
	TCPPort    uint16        // Port for accepting connections
	TCPTimeout time.Duration // Disconnect after this timeout

	// Database Configuration
	Database string // File to store the database
	DB       DatabaseManager

	// Game Configuration
	Rounds      uint          // Number of rounds per contest
	Columns     uint          // Number of columns per contest
	TurnTimeout time.Duration // Deadline for a single turn
	Strict      bool          // Abort a contest on an invalid row

	// Tournament Configuration
	Idle  time.Duration // Wait if no pairing is available
	Pause time.Duration // Wait between two contests
	Tourn TournamentManager

	// Website configuration
	WebInterface bool   // Has the web interface been enabled?
	WebPort      uint16 // Port that the web server listens on
	WebFile      string // Write the leaderboard to this file
	WebSocket    bool   // Accept requests via websockets
	Web          WebManager

	// Internal state
	man []Manager // List of system managers
	run bool      // Running flag
}

var defaultConfig = Conf{
	// Protocol Configuration
	TCPPort:    5002,
	TCPTimeout: time.Minute,

	// Database configuration
	Database: filepath.Join(xdg.DataHome, "sandpit", "sandpit.db"),

	// Game Configuration
	Rounds:      10,
	Columns:     5,
	TurnTimeout: 10 * time.Second,

	// Tournament Configuration
	Idle:  time.Second,
	Pause: 200 * time.Millisecond,

	// Website configuration
	WebInterface: true,
	WebPort:      8080,
	WebSocket:    true,
}

// DefaultPath is where the configuration is looked up if no other
// file was specified.
var DefaultPath = filepath.Join(xdg.ConfigHome, "sandpit", "sandpit.toml")
