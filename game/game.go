// Game Model
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

package game

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-sandpit"
	"go-sandpit/conf"
)

// Values outside of this range invalidate a row
const Bound = 1023

// Precision of a value in the table
const places = 5

// Contest describes the fixed parameters of a single game
type Contest struct {
	Columns []string
	Side1   sandpit.Descriptor
	Side2   sandpit.Descriptor
}

func (c *Contest) Assignment(s sandpit.Side) sandpit.Assignment {
	d := c.Side1
	if s == sandpit.Side2 {
		d = c.Side2
	}
	return sandpit.Assignment{Type: d.Victory, Column: d.Column}
}

// Setup draws N column names and assigns each side a column for its
// victory type.  If SAME is set, both sides are assigned the same
// column.
func Setup(rng *rand.Rand, n uint, p1, p2 string, vt1, vt2 sandpit.VictoryType, same bool) *Contest {
	cols := sandpit.SampleNames(rng, int(n))
	c := &Contest{
		Columns: cols,
		Side1:   sandpit.Descriptor{Player: p1, Victory: vt1},
		Side2:   sandpit.Descriptor{Player: p2, Victory: vt2},
	}

	if same || len(cols) < 2 {
		c.Side1.Column = cols[rng.Intn(len(cols))]
		c.Side2.Column = c.Side1.Column
	} else {
		pick := rng.Perm(len(cols))
		c.Side1.Column = cols[pick[0]]
		c.Side2.Column = cols[pick[1]]
	}

	return c
}

// Value extracts a valid number for COLUMN from ROW
func Value(row sandpit.Row, column string) (float64, bool) {
	var v float64

	switch x := row[column].(type) {
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	case int32:
		v = float64(x)
	default:
		return 0, false
	}

	if math.IsNaN(v) || v < -Bound || v > Bound {
		return 0, false
	}
	return v, true
}

// Round a value to the precision of the table
func Round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}

func reason(err error) string {
	var exec *sandpit.ExecutionError
	switch {
	case errors.As(err, &exec):
		return exec.Error()
	case errors.Is(err, sandpit.ErrTimedOut):
		return sandpit.ErrTimedOut.Error()
	case errors.Is(err, sandpit.ErrTampered):
		return sandpit.ErrTampered.Error()
	}
	return err.Error()
}

// Play a contest between D1 and D2
func Play(ctx context.Context, conf *conf.Conf, c *Contest, d1, d2 sandpit.Decider) sandpit.Result {
	var (
		id       = uuid.NewString()
		dbg      = sandpit.Debug.WithField("game", id)
		data     = sandpit.NewTable(c.Columns)
		couldWin = map[sandpit.Side]bool{sandpit.Side1: true, sandpit.Side2: true}
		msg      strings.Builder
		sides    = []struct {
			side sandpit.Side
			d    sandpit.Decider
		}{{sandpit.Side1, d1}, {sandpit.Side2, d2}}
	)

	dbg.Debugf("Starting %s (%s) against %s (%s) on %v",
		c.Side1.Player, c.Assignment(sandpit.Side1),
		c.Side2.Player, c.Assignment(sandpit.Side2),
		c.Columns)

	for round := 1; round <= int(conf.Rounds); round++ {
		sum := make(map[string]decimal.Decimal, len(c.Columns))

		// Both sides decide on the same state of the table
		for _, s := range sides {
			victory := c.Assignment(s.side)
			row, err := Call(ctx, s.d, data, victory, conf.TurnTimeout)
			if err != nil {
				dbg.Debugf("Round %d: %s failed: %v", round, s.side, err)
				return &sandpit.Failure{Side: s.side, Reason: reason(err)}
			}
			dbg.Debugf("Round %d: %s returned %v", round, s.side, row)

			for _, col := range c.Columns {
				v, ok := Value(row, col)
				if !ok {
					if conf.Strict {
						return &sandpit.Failure{
							Side:   s.side,
							Reason: sandpit.ErrInvalidRow.Error(),
						}
					}
					couldWin[s.side] = false
					fmt.Fprintf(&msg, "%s returned a row that was not valid (%s in round %d).\n",
						s.side, col, round)
					continue
				}
				sum[col] = sum[col].Add(Round(v))
			}
		}

		row := make(map[string]float64, len(c.Columns))
		for _, col := range c.Columns {
			row[col] = sum[col].InexactFloat64()
		}
		data.Append(row)
	}

	out := &sandpit.Outcome{
		ID:      id,
		Data:    data,
		Side1:   c.Side1,
		Side2:   c.Side2,
		Message: msg.String(),
	}
	if out.Message == "" {
		out.Message = "gg\n"
	}

	switch {
	case couldWin[sandpit.Side1] && couldWin[sandpit.Side2]:
		w1 := Holds(data, c.Assignment(sandpit.Side1))
		w2 := Holds(data, c.Assignment(sandpit.Side2))
		switch {
		case w1 == w2:
			out.Winner = sandpit.Draw
		case w1:
			out.Winner = sandpit.Side1Won
		default:
			out.Winner = sandpit.Side2Won
		}
	case couldWin[sandpit.Side1]:
		out.Winner = sandpit.Side1Won
	default:
		out.Winner = sandpit.Side2Won
	}

	dbg.Debugf("Finished: %s", out.Winner)
	return out
}
