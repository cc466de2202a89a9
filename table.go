// Shared Data Table
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

package sandpit

import (
	"encoding/json"
	"math/rand"
	"sort"
)

// Table is the data accumulated during a contest.  Every column has
// the same length, and values once appended are never changed.
type Table struct {
	// Column names in the order they were chosen
	Columns []string
	// Values of each column, one entry per completed round plus
	// the initial zero
	Values map[string][]float64
}

// NewTable creates a table seeded with one 0.0 per column
func NewTable(columns []string) *Table {
	t := &Table{
		Columns: append([]string(nil), columns...),
		Values:  make(map[string][]float64, len(columns)),
	}
	for _, c := range columns {
		t.Values[c] = []float64{0}
	}
	return t
}

// Len returns the number of entries in each column
func (t *Table) Len() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Values[t.Columns[0]])
}

// Copy returns a deep copy that shares no memory with T
func (t *Table) Copy() *Table {
	c := &Table{
		Columns: append([]string(nil), t.Columns...),
		Values:  make(map[string][]float64, len(t.Values)),
	}
	for k, v := range t.Values {
		c.Values[k] = append([]float64(nil), v...)
	}
	return c
}

// Has checks if NAME is a column of the table
func (t *Table) Has(name string) bool {
	_, ok := t.Values[name]
	return ok
}

// Append adds a row of values, one per column
func (t *Table) Append(row map[string]float64) {
	for _, c := range t.Columns {
		t.Values[c] = append(t.Values[c], row[c])
	}
}

// Extends reports whether T still contains every value of PRIOR at
// the same position.  New entries at the end of a column are
// permitted.
func (t *Table) Extends(prior *Table) bool {
	for name, old := range prior.Values {
		now, ok := t.Values[name]
		if !ok || len(now) < len(old) {
			return false
		}
		for i := range old {
			if now[i] != old[i] {
				return false
			}
		}
	}
	return true
}

func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Values)
}

func (t *Table) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &t.Values); err != nil {
		return err
	}
	t.Columns = t.Columns[:0]
	for c := range t.Values {
		t.Columns = append(t.Columns, c)
	}
	sort.Strings(t.Columns)
	return nil
}

// Column name pool.  The list the tournament was run with had "Ryan"
// twice, but columns have to be unique.
var names = []string{
	"Amy", "Andrew", "Angela", "Bernie", "Biying", "Bushra",
	"Carrie", "Claire", "Clarence", "Dane", "Dengke",
	"Erika", "Ernest", "Hong", "Hugh", "Inno", "Iris",
	"Jennifer", "Jiahui", "Jiaming", "Jianan", "Jianfeng",
	"Jingyu", "Joy", "Juerong", "Junming", "Junyi",
	"Kritika", "Maggie", "Mark", "Monica", "Nancy",
	"Noorida", "Peggy", "Peter", "Priyadarshini", "Qingqing",
	"Ryan", "Samuel", "Shaojuan", "Shiwen",
	"Shufan", "Simon", "Sky", "Suchi", "Thomas", "Tony",
	"Venkat", "Viplav", "Vivienne", "Wendee", "Xiaoyu",
	"Xinrong", "Xue", "Yanjun", "Yan", "Yijin", "Yinghao",
	"Yingrang", "Yin", "Yiwen", "Yoke", "Yuan", "Yunong",
	"Zichen",
}

// Names returns a copy of the column name pool
func Names() []string {
	return append([]string(nil), names...)
}

// SampleNames picks K distinct column names from the pool
func SampleNames(rng *rand.Rand, k int) []string {
	if k > len(names) {
		k = len(names)
	}
	perm := rng.Perm(len(names))
	cols := make([]string, k)
	for i := range cols {
		cols[i] = names[perm[i]]
	}
	return cols
}
