// Victory Condition Tests
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
	"testing"

	"go-sandpit"
)

func table(cols map[string][]float64) *sandpit.Table {
	t := &sandpit.Table{Values: cols}
	for name := range cols {
		t.Columns = append(t.Columns, name)
	}
	return t
}

func TestHolds(t *testing.T) {
	for i, test := range []struct {
		data    map[string][]float64
		victory sandpit.Assignment
		holds   bool
	}{
		{
			data:    map[string][]float64{"Amy": {0, 1, -1}},
			victory: sandpit.Assignment{Type: sandpit.ZeroM, Column: "Amy"},
			holds:   true,
		}, {
			data:    map[string][]float64{"Amy": {0, 1, 1}},
			victory: sandpit.Assignment{Type: sandpit.ZeroM, Column: "Amy"},
			holds:   false,
		}, {
			data:    map[string][]float64{"Amy": {0, -2, -3}},
			victory: sandpit.Assignment{Type: sandpit.SumNeg, Column: "Amy"},
			holds:   true,
		}, {
			data:    map[string][]float64{"Amy": {0, 2, -3}},
			victory: sandpit.Assignment{Type: sandpit.SumNeg, Column: "Amy"},
			holds:   true,
		}, {
			data:    map[string][]float64{"Amy": {0, 0, 0}},
			victory: sandpit.Assignment{Type: sandpit.SumNeg, Column: "Amy"},
			holds:   false,
		}, {
			data:    map[string][]float64{"Amy": {0, 0.5}},
			victory: sandpit.Assignment{Type: sandpit.SumPos, Column: "Amy"},
			holds:   true,
		}, {
			data:    map[string][]float64{"Amy": {0, 0}},
			victory: sandpit.Assignment{Type: sandpit.SumPos, Column: "Amy"},
			holds:   false,
		}, {
			data: map[string][]float64{
				"Amy": {0, 5},
				"Tom": {0, 3},
			},
			victory: sandpit.Assignment{Type: sandpit.Max, Column: "Amy"},
			holds:   true,
		}, {
			data: map[string][]float64{
				"Amy": {0, 5},
				"Tom": {0, 3},
			},
			victory: sandpit.Assignment{Type: sandpit.Max, Column: "Tom"},
			holds:   false,
		}, {
			// The largest value is not unique, so 3 is the
			// largest unique value
			data: map[string][]float64{
				"Amy": {0, 5},
				"Tom": {0, 5, 3},
			},
			victory: sandpit.Assignment{Type: sandpit.Max, Column: "Tom"},
			holds:   true,
		}, {
			data: map[string][]float64{
				"Amy": {0, 5},
				"Tom": {0, 5},
			},
			victory: sandpit.Assignment{Type: sandpit.Max, Column: "Amy"},
			holds:   false,
		}, {
			data: map[string][]float64{
				"Amy": {0, -1},
				"Tom": {0, -1},
				"Sky": {0, 2},
			},
			victory: sandpit.Assignment{Type: sandpit.Min, Column: "Sky"},
			holds:   true,
		}, {
			data: map[string][]float64{
				"Amy": {0, -4},
				"Tom": {0, -1},
			},
			victory: sandpit.Assignment{Type: sandpit.Min, Column: "Tom"},
			holds:   false,
		}, {
			data:    map[string][]float64{"Amy": {0, 1, 2, 3, 4}},
			victory: sandpit.Assignment{Type: sandpit.Linear, Column: "Amy"},
			holds:   true,
		}, {
			data:    map[string][]float64{"Amy": {0, -1, -2, -3, -4}},
			victory: sandpit.Assignment{Type: sandpit.Linear, Column: "Amy"},
			holds:   false,
		}, {
			data:    map[string][]float64{"Amy": {0, 1, 0, 1, 0}},
			victory: sandpit.Assignment{Type: sandpit.Linear, Column: "Amy"},
			holds:   false,
		}, {
			// Too few points for a significant correlation
			data:    map[string][]float64{"Amy": {0, 1}},
			victory: sandpit.Assignment{Type: sandpit.Linear, Column: "Amy"},
			holds:   false,
		}, {
			data:    map[string][]float64{"Amy": {0, 0, 0, 0}},
			victory: sandpit.Assignment{Type: sandpit.Linear, Column: "Amy"},
			holds:   false,
		}, {
			data:    map[string][]float64{"Amy": {0, 1, 4, 9, 16, 25}},
			victory: sandpit.Assignment{Type: sandpit.Quadratic, Column: "Amy"},
			holds:   true,
		}, {
			data:    map[string][]float64{"Amy": {0, 25, 16, 9, 4, 1}},
			victory: sandpit.Assignment{Type: sandpit.Quadratic, Column: "Amy"},
			holds:   false,
		},
	} {
		if holds := Holds(table(test.data), test.victory); holds != test.holds {
			t.Errorf("(%d) Expected %s to be %t, got %t",
				i, test.victory, test.holds, holds)
		}
	}
}

func TestPearson(t *testing.T) {
	r, p := Pearson([]float64{1, 2, 3.1, 3.9, 5.2, 6})
	if r < 0.99 || r > 1 {
		t.Errorf("Unexpected correlation %f", r)
	}
	if p > 0.001 {
		t.Errorf("Unexpected p-value %f", p)
	}

	// Uncorrelated data must not be significant
	_, p = Pearson([]float64{1, -1, 1, -1, 1, -1, 1})
	if p < 0.05 {
		t.Errorf("Unexpected p-value %f", p)
	}
}

func TestHoldsUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected a panic for an unknown victory type")
		}
	}()
	Holds(table(map[string][]float64{"Amy": {0}}),
		sandpit.Assignment{Type: sandpit.VictoryType(99), Column: "Amy"})
}
