// Matchmaking
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
	"go-sandpit"
)

// Pairing of two players and the victory types they are assigned
type Pairing struct {
	A, B         sandpit.Key
	TypeA, TypeB sandpit.VictoryType
}

// Choose the pairing with the fewest recorded games.  Players from
// the same syndicate never play one another.  Ties are resolved in
// favour of the first pairing found, enumerating pairs in the order
// of PLAYERS.
func Choose(players []sandpit.Key, board *Scoreboard) (p Pairing, ok bool) {
	least := -1
	for i, a := range players {
		for _, b := range players[i+1:] {
			if a.Syndicate == b.Syndicate {
				continue
			}
			cell, found := board.Get(a, b)
			if !found {
				continue
			}

			for _, ta := range sandpit.VictoryTypes() {
				for _, tb := range sandpit.VictoryTypes() {
					n := cell.Games(ta, tb)
					if least == -1 || n < least {
						least = n
						p = Pairing{A: a, B: b, TypeA: ta, TypeB: tb}
					}
				}
			}
		}
	}

	return p, least != -1
}
