// Game Model Tests
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

package game

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"go-sandpit"
	"go-sandpit/conf"
)

// constant returns a decider that sets every column to V, except
// for the column it is assigned, which is set to A.
func constant(v, a float64) sandpit.Decider {
	return sandpit.DeciderFunc(func(_ context.Context, t *sandpit.Table, victory sandpit.Assignment) (sandpit.Row, error) {
		row := make(sandpit.Row)
		for _, c := range t.Columns {
			row[c] = v
		}
		row[victory.Column] = a
		return row, nil
	})
}

func fixed(row sandpit.Row) sandpit.Decider {
	return sandpit.DeciderFunc(func(context.Context, *sandpit.Table, sandpit.Assignment) (sandpit.Row, error) {
		return row, nil
	})
}

func testConf(rounds uint) *conf.Conf {
	c := conf.Default()
	c.Rounds = rounds
	c.TurnTimeout = 100 * time.Millisecond
	return c
}

func contest(vt1, vt2 sandpit.VictoryType, col1, col2 string) *Contest {
	return &Contest{
		Columns: []string{"Amy", "Tom", "Sky"},
		Side1:   sandpit.Descriptor{Player: "A (1)", Victory: vt1, Column: col1},
		Side2:   sandpit.Descriptor{Player: "B (2)", Victory: vt2, Column: col2},
	}
}

func TestPlaySameColumn(t *testing.T) {
	c := contest(sandpit.ZeroM, sandpit.ZeroM, "Amy", "Amy")
	res := Play(context.Background(), testConf(1), c, constant(100, 0), constant(100, 0))

	out, ok := res.(*sandpit.Outcome)
	if !ok {
		t.Fatalf("Expected an outcome, got %v", res)
	}
	if out.Winner != sandpit.Draw {
		t.Errorf("Expected a draw, got %s", out.Winner)
	}
	if out.Message != "gg\n" {
		t.Errorf("Unexpected message %q", out.Message)
	}
	if v := out.Data.Values["Tom"]; len(v) != 2 || v[1] != 200 {
		t.Errorf("Unexpected column %v", v)
	}
	if out.ID == "" {
		t.Error("Outcome has no ID")
	}
}

func TestPlayLengths(t *testing.T) {
	for _, rounds := range []uint{1, 2, 7, 10} {
		c := contest(sandpit.Max, sandpit.Min, "Amy", "Tom")
		res := Play(context.Background(), testConf(rounds), c,
			constant(0.123456789, 1), constant(-1, 3))

		out, ok := res.(*sandpit.Outcome)
		if !ok {
			t.Fatalf("(%d) Expected an outcome, got %v", rounds, res)
		}
		for _, col := range c.Columns {
			if n := len(out.Data.Values[col]); n != int(rounds)+1 {
				t.Errorf("(%d) Column %s has %d entries", rounds, col, n)
			}
		}
		if v := out.Data.Values["Sky"][1]; v != -0.87654 {
			t.Errorf("(%d) Unexpected rounding: %v", rounds, v)
		}
	}
}

func TestPlayWinner(t *testing.T) {
	for i, test := range []struct {
		vt1, vt2 sandpit.VictoryType
		d1, d2   sandpit.Decider
		winner   sandpit.Winner
	}{
		{
			vt1:    sandpit.SumPos,
			vt2:    sandpit.SumNeg,
			d1:     constant(1, 1),
			d2:     constant(0, 0),
			winner: sandpit.Side1Won,
		}, {
			vt1:    sandpit.SumPos,
			vt2:    sandpit.SumNeg,
			d1:     constant(0, 0),
			d2:     constant(-1, -1),
			winner: sandpit.Side2Won,
		}, {
			vt1:    sandpit.SumPos,
			vt2:    sandpit.SumPos,
			d1:     constant(1, 1),
			d2:     constant(1, 1),
			winner: sandpit.Draw,
		}, {
			vt1:    sandpit.SumNeg,
			vt2:    sandpit.SumNeg,
			d1:     constant(1, 1),
			d2:     constant(1, 1),
			winner: sandpit.Draw,
		}, {
			// Side 1 forfeits by returning an invalid value
			vt1:    sandpit.SumPos,
			vt2:    sandpit.SumNeg,
			d1:     fixed(sandpit.Row{"Amy": 1.0, "Tom": "many", "Sky": 1.0}),
			d2:     constant(1, 1),
			winner: sandpit.Side2Won,
		}, {
			vt1:    sandpit.SumNeg,
			vt2:    sandpit.SumPos,
			d1:     constant(-1, -1),
			d2:     fixed(sandpit.Row{"Amy": 1.0, "Tom": 1.0}),
			winner: sandpit.Side1Won,
		}, {
			vt1:    sandpit.SumNeg,
			vt2:    sandpit.SumPos,
			d1:     constant(-1, -1),
			d2:     fixed(sandpit.Row{"Amy": 1.0, "Tom": 1.0, "Sky": 1024.0}),
			winner: sandpit.Side1Won,
		}, {
			// Neither side can win, which favours side 2
			vt1:    sandpit.SumPos,
			vt2:    sandpit.SumPos,
			d1:     fixed(sandpit.Row{}),
			d2:     fixed(sandpit.Row{}),
			winner: sandpit.Side2Won,
		},
	} {
		c := contest(test.vt1, test.vt2, "Amy", "Tom")
		res := Play(context.Background(), testConf(3), c, test.d1, test.d2)
		out, ok := res.(*sandpit.Outcome)
		if !ok {
			t.Errorf("(%d) Expected an outcome, got %v", i, res)
			continue
		}
		if out.Winner != test.winner {
			t.Errorf("(%d) Expected %s, got %s", i, test.winner, out.Winner)
		}
		if out.Winner != sandpit.Draw && out.Message == "gg\n" && i >= 4 {
			t.Errorf("(%d) Expected a message about invalid rows", i)
		}
	}
}

func TestPlayFailure(t *testing.T) {
	boom := sandpit.DeciderFunc(func(context.Context, *sandpit.Table, sandpit.Assignment) (sandpit.Row, error) {
		panic("boom")
	})
	slow := sandpit.DeciderFunc(func(context.Context, *sandpit.Table, sandpit.Assignment) (sandpit.Row, error) {
		time.Sleep(time.Second)
		return nil, nil
	})
	tamper := sandpit.DeciderFunc(func(_ context.Context, t *sandpit.Table, _ sandpit.Assignment) (sandpit.Row, error) {
		for _, c := range t.Columns {
			t.Values[c][0] = 1
		}
		return sandpit.Row{}, nil
	})

	for i, test := range []struct {
		d1, d2 sandpit.Decider
		strict bool
		side   sandpit.Side
		reason string
	}{
		{
			d1:     constant(1, 1),
			d2:     boom,
			side:   sandpit.Side2,
			reason: "execution failed: boom",
		}, {
			d1:     slow,
			d2:     constant(1, 1),
			side:   sandpit.Side1,
			reason: "timed out",
		}, {
			d1:     tamper,
			d2:     constant(1, 1),
			side:   sandpit.Side1,
			reason: "altered prior data",
		}, {
			d1:     constant(1, 1),
			d2:     fixed(sandpit.Row{"Amy": true}),
			strict: true,
			side:   sandpit.Side2,
			reason: "invalid row",
		},
	} {
		conf := testConf(2)
		conf.Strict = test.strict
		c := contest(sandpit.SumPos, sandpit.SumNeg, "Amy", "Tom")

		res := Play(context.Background(), conf, c, test.d1, test.d2)
		fail, ok := res.(*sandpit.Failure)
		if !ok {
			t.Errorf("(%d) Expected a failure, got %v", i, res)
			continue
		}
		if fail.Side != test.side || fail.Reason != test.reason {
			t.Errorf("(%d) Expected %s to fail with %q, got %s with %q",
				i, test.side, test.reason, fail.Side, fail.Reason)
		}
	}
}

func TestSetup(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		same := i%2 == 0
		c := Setup(rng, 5, "A", "B", sandpit.Max, sandpit.Linear, same)
		if len(c.Columns) != 5 {
			t.Fatalf("Expected 5 columns, got %v", c.Columns)
		}
		if same != (c.Side1.Column == c.Side2.Column) {
			t.Errorf("(%d) Unexpected columns %s and %s", i, c.Side1.Column, c.Side2.Column)
		}
		if !strings.Contains(strings.Join(c.Columns, ","), c.Side1.Column) {
			t.Errorf("(%d) Column %s is not part of %v", i, c.Side1.Column, c.Columns)
		}
	}
}

func TestValue(t *testing.T) {
	for i, test := range []struct {
		val interface{}
		ok  bool
	}{
		{1.5, true},
		{int64(3), true},
		{-1023.0, true},
		{1023.5, false},
		{"1", false},
		{nil, false},
		{true, false},
	} {
		_, ok := Value(sandpit.Row{"x": test.val}, "x")
		if ok != test.ok {
			t.Errorf("(%d) Expected %v to be %t", i, test.val, test.ok)
		}
	}
}
