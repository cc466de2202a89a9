// Victory Conditions
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
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"go-sandpit"
)

const (
	// Thresholds for the trend conditions
	minCorrelation = 0.9
	maxPValue      = 0.05

	// Tolerance for ZeroM
	zeroMean = 1e-6
)

// Holds checks if the condition of VICTORY is satisfied by DATA
func Holds(data *sandpit.Table, victory sandpit.Assignment) bool {
	col := data.Values[victory.Column]

	switch victory.Type {
	case sandpit.Max:
		return uniqueExtreme(data, victory.Column, func(a, b float64) bool { return a > b })
	case sandpit.Min:
		return uniqueExtreme(data, victory.Column, func(a, b float64) bool { return a < b })
	case sandpit.Linear:
		return trend(col)
	case sandpit.Quadratic:
		if len(col) == 0 {
			return false
		}
		low := col[0]
		for _, v := range col {
			low = math.Min(low, v)
		}
		ys := make([]float64, len(col))
		for i, v := range col {
			ys[i] = math.Sqrt(v - low)
		}
		return trend(ys)
	case sandpit.ZeroM:
		if len(col) == 0 {
			return false
		}
		return math.Abs(stat.Mean(col, nil)) < zeroMean
	case sandpit.SumNeg:
		return floats(col) < 0
	case sandpit.SumPos:
		return floats(col) > 0
	}

	panic(fmt.Sprintf("%v: %d", sandpit.ErrUnknownVictoryType, victory.Type))
}

func floats(vs []float64) (sum float64) {
	for _, v := range vs {
		sum += v
	}
	return
}

// uniqueExtreme finds the most extreme value (ordered by BEFORE) that
// occurs exactly once in the entire table, and checks that COLUMN is
// the only column to contain it.  If no value is unique, no column
// can satisfy the condition.
func uniqueExtreme(data *sandpit.Table, column string, before func(a, b float64) bool) bool {
	freq := make(map[float64]int)
	for _, vs := range data.Values {
		for _, v := range vs {
			freq[v]++
		}
	}

	distinct := make([]float64, 0, len(freq))
	for v := range freq {
		distinct = append(distinct, v)
	}
	sort.Slice(distinct, func(i, j int) bool {
		return before(distinct[i], distinct[j])
	})

	var (
		extreme float64
		found   bool
	)
	for _, v := range distinct {
		if freq[v] == 1 {
			extreme, found = v, true
			break
		}
	}
	if !found {
		return false
	}

	var holders []string
	for _, name := range data.Columns {
		for _, v := range data.Values[name] {
			if v == extreme {
				holders = append(holders, name)
				break
			}
		}
	}

	return len(holders) == 1 && holders[0] == column
}

// Pearson returns the correlation coefficient of YS against their
// index and the two-sided p-value of the correlation.
func Pearson(ys []float64) (r, p float64) {
	n := len(ys)
	if n < 3 {
		return math.NaN(), 1
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	r = stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return r, 1
	}
	if math.Abs(r) >= 1 {
		return math.Copysign(1, r), 0
	}

	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.Survival(math.Abs(t))
	return r, p
}

func trend(ys []float64) bool {
	r, p := Pearson(ys)
	return r > minCorrelation && p < maxPValue
}
