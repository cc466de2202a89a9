// Common Interfaces and constants
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

package sandpit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type (
	// VictoryType selects the condition a side has to satisfy
	VictoryType uint8
	// Side is either the first or the second player of a contest
	Side uint8
	// Winner is 0 for a draw, 1 or 2 for the respective side
	Winner uint8
)

const (
	Max VictoryType = iota
	Min
	Linear
	Quadratic
	ZeroM
	SumNeg
	SumPos

	// Number of victory types, used to size the score matrices
	NumVictoryTypes = int(SumPos) + 1
)

const (
	Side1 Side = 1
	Side2 Side = 2
)

const (
	Draw Winner = iota
	Side1Won
	Side2Won
)

var victoryNames = [NumVictoryTypes]string{
	"Max", "Min", "Linear", "Quadratic", "ZeroM", "SumNeg", "SumPos",
}

// VictoryTypes lists all victory types in matrix order
func VictoryTypes() []VictoryType {
	vts := make([]VictoryType, NumVictoryTypes)
	for i := range vts {
		vts[i] = VictoryType(i)
	}
	return vts
}

func (v VictoryType) Valid() bool { return int(v) < NumVictoryTypes }

func (v VictoryType) String() string {
	if !v.Valid() {
		panic(fmt.Sprintf("Illegal victory type: %d", v))
	}
	return victoryNames[v]
}

// ParseVictoryType maps a name such as "ZeroM" to its victory type
func ParseVictoryType(name string) (VictoryType, error) {
	for i, n := range victoryNames {
		if n == name {
			return VictoryType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVictoryType, name)
}

func (v VictoryType) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVictoryType, v)
	}
	return []byte(victoryNames[v]), nil
}

func (v *VictoryType) UnmarshalText(text []byte) (err error) {
	*v, err = ParseVictoryType(string(text))
	return
}

func (s Side) String() string {
	switch s {
	case Side1:
		return "Player 1"
	case Side2:
		return "Player 2"
	}
	panic("Illegal side")
}

// Other returns the opposing side
func (s Side) Other() Side {
	if s == Side1 {
		return Side2
	}
	return Side1
}

func (w Winner) String() string {
	switch w {
	case Draw:
		return "Draw"
	case Side1Won:
		return "Player 1 won"
	case Side2Won:
		return "Player 2 won"
	default:
		panic(fmt.Sprintf("Illegal winner: %d", w))
	}
}

// Assignment binds a victory condition to one column of a contest
type Assignment struct {
	Type   VictoryType `json:"type"`
	Column string      `json:"column"`
}

func (a Assignment) String() string {
	return fmt.Sprintf("%s(%s)", a.Type, a.Column)
}

// Row is what a decider submits for one turn.  Values are untrusted
// and may be of any type.
type Row map[string]interface{}

// Key identifies a player
type Key struct {
	Name      string `json:"name"`
	Syndicate int    `json:"syndicate"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s (%d)", k.Name, k.Syndicate)
}

// Decider chooses the values for one turn.  The table it receives is
// a private copy, that must not be modified.
type Decider interface {
	Decide(ctx context.Context, data *Table, victory Assignment) (Row, error)
}

// DeciderFunc adapts an ordinary function to the Decider interface
type DeciderFunc func(ctx context.Context, data *Table, victory Assignment) (Row, error)

func (f DeciderFunc) Decide(ctx context.Context, data *Table, victory Assignment) (Row, error) {
	return f(ctx, data, victory)
}

// Logic produces a fresh decider for every contest a player takes
// part in.
type Logic interface {
	Instance() (Decider, error)
}

// Static is logic that always hands out the same decider
type Static struct{ Decider }

func (s Static) Instance() (Decider, error) { return s.Decider, nil }

// Player is a registered participant of the tournament
type Player struct {
	Key
	Source string
	Logic  Logic
}

func (p *Player) String() string { return p.Key.String() }

// Descriptor names a side of a finished contest
type Descriptor struct {
	Player  string      `json:"player"`
	Victory VictoryType `json:"victory"`
	Column  string      `json:"column"`
}

// Result is either a *Failure or an *Outcome
type Result interface {
	isResult()
}

// Failure reports a contest that was aborted before all rounds were
// played
type Failure struct {
	Side   Side
	Reason string
}

func (*Failure) isResult() {}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failed: %s", f.Side, f.Reason)
}

// Outcome reports a contest that was played to the end
type Outcome struct {
	ID      string     `json:"id"`
	Data    *Table     `json:"data"`
	Side1   Descriptor `json:"side1"`
	Side2   Descriptor `json:"side2"`
	Winner  Winner     `json:"winner"`
	Message string     `json:"message"`
}

func (*Outcome) isResult() {}

// JSON returns the serialised outcome, as sent to clients
func (o *Outcome) JSON() string {
	data, err := json.Marshal(o)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Eviction records a player that was removed from the tournament
type Eviction struct {
	Key
	Victory VictoryType `json:"victory"`
	Reason  string      `json:"reason"`
	Stamp   time.Time   `json:"stamp"`
}

// Matrix is indexed by the victory type used by a player and the
// victory type used by the opponent
type Matrix [NumVictoryTypes][NumVictoryTypes]int

func (m *Matrix) Sum() (n int) {
	for i := range m {
		for j := range m[i] {
			n += m[i][j]
		}
	}
	return
}

// Standing summarises the record of a single player against all
// active opponents
type Standing struct {
	Key
	Wins   Matrix  `json:"wins"`
	Losses Matrix  `json:"losses"`
	Draws  Matrix  `json:"draws"`
	Ratio  float64 `json:"ratio"`
}
