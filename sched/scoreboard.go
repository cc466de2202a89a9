// Scoreboard
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
	"sort"

	"go-sandpit"
)

// Cell holds the record of one player against another, from the
// perspective of the first player.
type Cell struct {
	Wins   sandpit.Matrix
	Losses sandpit.Matrix
	Draws  sandpit.Matrix
}

// Games returns the number of games played with the victory types A
// and B.
func (c *Cell) Games(a, b sandpit.VictoryType) int {
	return c.Wins[a][b] + c.Losses[a][b] + c.Draws[a][b]
}

// Scoreboard maps every ordered pair of active players onto a cell.
// The counterpart (B, A) of every pair (A, B) is kept in mirror.
//
// A scoreboard is not synchronised, see Registry.
type Scoreboard struct {
	cells map[sandpit.Key]map[sandpit.Key]*Cell
}

func MakeScoreboard() *Scoreboard {
	return &Scoreboard{cells: make(map[sandpit.Key]map[sandpit.Key]*Cell)}
}

func (s *Scoreboard) Has(k sandpit.Key) bool {
	_, ok := s.cells[k]
	return ok
}

// Ensure that K has a cell against every other player on the board
func (s *Scoreboard) Ensure(k sandpit.Key) {
	if s.Has(k) {
		return
	}

	row := make(map[sandpit.Key]*Cell, len(s.cells))
	for o, orow := range s.cells {
		row[o] = new(Cell)
		orow[k] = new(Cell)
	}
	s.cells[k] = row
}

// Remove K and every cell that references K
func (s *Scoreboard) Remove(k sandpit.Key) {
	delete(s.cells, k)
	for _, row := range s.cells {
		delete(row, k)
	}
}

// Keys returns all players on the board in a stable order
func (s *Scoreboard) Keys() []sandpit.Key {
	keys := make([]sandpit.Key, 0, len(s.cells))
	for k := range s.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Syndicate != keys[j].Syndicate {
			return keys[i].Syndicate < keys[j].Syndicate
		}
		return keys[i].Name < keys[j].Name
	})
	return keys
}

// Get returns a copy of the cell of A against B
func (s *Scoreboard) Get(a, b sandpit.Key) (Cell, bool) {
	if c, ok := s.cells[a][b]; ok {
		return *c, true
	}
	return Cell{}, false
}

// Record the outcome of a game between A and B, where A used the
// victory type TA and B used TB.  If either player has been removed
// in the meantime, the result is discarded.
func (s *Scoreboard) Record(a, b sandpit.Key, ta, tb sandpit.VictoryType, w sandpit.Winner) bool {
	ab, ok := s.cells[a][b]
	if !ok {
		return false
	}
	ba := s.cells[b][a]

	switch w {
	case sandpit.Side1Won:
		ab.Wins[ta][tb]++
		ba.Losses[tb][ta]++
	case sandpit.Side2Won:
		ab.Losses[ta][tb]++
		ba.Wins[tb][ta]++
	case sandpit.Draw:
		ab.Draws[ta][tb]++
		ba.Draws[tb][ta]++
	default:
		panic("Illegal winner")
	}
	return true
}

// Standing sums up the record of K against all opponents.  As a
// player without any losses would have an infinite ratio, zero
// losses are counted as 0.1.
func (s *Scoreboard) Standing(k sandpit.Key) *sandpit.Standing {
	st := &sandpit.Standing{Key: k}
	for _, c := range s.cells[k] {
		for i := range c.Wins {
			for j := range c.Wins[i] {
				st.Wins[i][j] += c.Wins[i][j]
				st.Losses[i][j] += c.Losses[i][j]
				st.Draws[i][j] += c.Draws[i][j]
			}
		}
	}

	losses := float64(st.Losses.Sum())
	if losses == 0 {
		losses = 0.1
	}
	st.Ratio = float64(st.Wins.Sum()) / losses
	return st
}

// Standings of all players, ordered by their win/loss ratio
func (s *Scoreboard) Standings() []*sandpit.Standing {
	var all []*sandpit.Standing
	for _, k := range s.Keys() {
		all = append(all, s.Standing(k))
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Ratio > all[j].Ratio
	})
	return all
}
