// Player Registry
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

package sched

import (
	"fmt"
	"sync"

	"go-sandpit"
)

// Registry holds all active players.  The lock of the registry also
// guards the scoreboard, so that membership changes and results are
// always seen consistently.
type Registry struct {
	lock    sync.Mutex
	players []*sandpit.Player
	board   *Scoreboard
}

func MakeRegistry() *Registry {
	return &Registry{board: MakeScoreboard()}
}

func (r *Registry) find(k sandpit.Key) int {
	for i, p := range r.players {
		if p.Key == k {
			return i
		}
	}
	return -1
}

// Add a new player
func (r *Registry) Add(p *sandpit.Player) error {
	switch {
	case !sandpit.ValidSyndicate(p.Syndicate):
		return fmt.Errorf("%w: %d", sandpit.ErrInvalidSyndicate, p.Syndicate)
	case p.Name == "":
		return fmt.Errorf("%w: name", sandpit.ErrMissingField)
	case p.Logic == nil:
		return fmt.Errorf("%w: logic", sandpit.ErrMissingField)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if r.find(p.Key) != -1 {
		return sandpit.ErrAlreadyExists
	}
	r.players = append(r.players, p)
	return nil
}

// Remove a player, returning the removed player
func (r *Registry) Remove(k sandpit.Key) (*sandpit.Player, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	i := r.find(k)
	if i == -1 {
		return nil, fmt.Errorf("%w: %s", sandpit.ErrNotFound, k)
	}
	p := r.players[i]
	r.players = append(r.players[:i], r.players[i+1:]...)
	return p, nil
}

// Snapshot returns a copy of all active players in the order they
// were added.
func (r *Registry) Snapshot() []sandpit.Player {
	r.lock.Lock()
	defer r.lock.Unlock()

	ps := make([]sandpit.Player, len(r.players))
	for i, p := range r.players {
		ps[i] = *p
	}
	return ps
}

// reconcile the scoreboard with the current set of players.  The
// caller must hold the lock.
func (r *Registry) reconcile() []sandpit.Key {
	keys := make([]sandpit.Key, len(r.players))
	active := make(map[sandpit.Key]struct{}, len(r.players))
	for i, p := range r.players {
		keys[i] = p.Key
		active[p.Key] = struct{}{}
		r.board.Ensure(p.Key)
	}
	for _, k := range r.board.Keys() {
		if _, ok := active[k]; !ok {
			r.board.Remove(k)
		}
	}
	return keys
}

// Match is a pairing together with copies of both players
type Match struct {
	Pairing
	P1, P2 sandpit.Player
}

// Next brings the scoreboard up to date, and picks the next pairing.
// The players in the match may be used after the lock has been
// released.
func (r *Registry) Next() (*Match, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	p, ok := Choose(r.reconcile(), r.board)
	if !ok {
		return nil, false
	}
	return &Match{
		Pairing: p,
		P1:      *r.players[r.find(p.A)],
		P2:      *r.players[r.find(p.B)],
	}, true
}

// Record the outcome of a pairing
func (r *Registry) Record(p Pairing, w sandpit.Winner) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.board.Record(p.A, p.B, p.TypeA, p.TypeB, w)
}

// View calls FN with the scoreboard while holding the lock
func (r *Registry) View(fn func(*Scoreboard)) {
	r.lock.Lock()
	defer r.lock.Unlock()

	fn(r.board)
}

func (r *Registry) Standings() (st []*sandpit.Standing) {
	r.View(func(b *Scoreboard) {
		r.reconcile()
		st = b.Standings()
	})
	return
}
