// Error taxonomy
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

import "errors"

var (
	// Registration errors, reported back to the client
	ErrAlreadyExists    = errors.New("Player already exists")
	ErrInvalidSyndicate = errors.New("syndicate not in range [0,12]")
	ErrMissingField     = errors.New("missing field")
	ErrNotFound         = errors.New("no such player")

	// Turn errors, each of which aborts a contest
	ErrTimedOut = errors.New("timed out")
	ErrTampered = errors.New("altered prior data")

	// A row with a missing, non-numeric or out of range value.
	// Only fatal in strict mode.
	ErrInvalidRow = errors.New("invalid row")

	ErrUnknownVictoryType = errors.New("unknown victory type")
)

// Syndicates are numbered from 0 to MaxSyndicate
const MaxSyndicate = 12

// ExecutionError wraps a failure raised by turn-decision logic
type ExecutionError struct {
	Msg string
}

func (e *ExecutionError) Error() string {
	return "execution failed: " + e.Msg
}

// ValidSyndicate checks the range of a syndicate number
func ValidSyndicate(syn int) bool {
	return 0 <= syn && syn <= MaxSyndicate
}
