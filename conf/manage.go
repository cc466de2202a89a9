// Configuration Management
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
	"fmt"
	"os"
	"os/signal"

	"go-sandpit"
)

type Manager interface {
	fmt.Stringer
	Start()
	Shutdown()
}

type DatabaseManager interface {
	Manager

	// Access interface
	Players(context.Context) ([]*sandpit.Player, error)
	Evictions(context.Context, int) ([]*sandpit.Eviction, error)
	Games(context.Context, int) ([]*sandpit.Outcome, error)

	// Store interface
	SavePlayer(context.Context, *sandpit.Player) error
	DeletePlayer(context.Context, sandpit.Key) error
	SaveGame(context.Context, *sandpit.Outcome) error
	SaveEviction(context.Context, *sandpit.Eviction) error
}

type TournamentManager interface {
	Manager

	Add(*sandpit.Player) error
	Remove(sandpit.Key) (*sandpit.Player, error)
	Standings() []*sandpit.Standing
}

type WebManager interface {
	Manager

	// Update is called whenever the leaderboard has changed
	Update()
}

func (c *Conf) Register(m Manager) {
	if c.run {
		panic(fmt.Sprintf("Late register: %#v", m))
	}

	switch s := m.(type) {
	case DatabaseManager:
		c.DB = s
	case TournamentManager:
		c.Tourn = s
	case WebManager:
		c.Web = s
	}

	c.man = append(c.man, m)
}

func (c *Conf) Start() {
	// Start the service
	for _, m := range c.man {
		sandpit.Debug.Debugf("Starting %s", m)
		go m.Start()
	}
	c.run = true

	// Catch an interrupt request...
	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	select {
	case <-intr:
		sandpit.Debug.Debug("Caught interrupt")
		c.Kill()
	case <-c.Ctx.Done():
		sandpit.Debug.Debug("Requested shutdown")
	}

	// ...and request all managers to shut down.
	sandpit.Debug.Debug("Waiting for managers to shutdown...")
	for i := len(c.man) - 1; i >= 0; i-- {
		sandpit.Debug.Debugf("Shutting %s down", c.man[i])
		c.man[i].Shutdown()
	}
	sandpit.Log.Info("Shutting down")
}
