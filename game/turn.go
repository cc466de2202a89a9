// Turn Execution
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
	"fmt"
	"time"

	"go-sandpit"
)

type reply struct {
	row sandpit.Row
	err error
}

// Call asks D for a row, giving up after DEADLINE.
//
// The decider receives a private copy of DATA.  If the call succeeds,
// the copy is compared against DATA to detect modifications of prior
// values.  A call that times out is abandoned, and may continue to
// run in the background with no further effect on DATA.
func Call(ctx context.Context, d sandpit.Decider, data *sandpit.Table, victory sandpit.Assignment, deadline time.Duration) (sandpit.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	view := data.Copy()
	// Buffered, so that an abandoned call does not leak blocked
	res := make(chan reply, 1)
	go func() {
		defer func() {
			if err := recover(); err != nil {
				res <- reply{err: &sandpit.ExecutionError{
					Msg: fmt.Sprint(err),
				}}
			}
		}()

		row, err := d.Decide(ctx, view, victory)
		res <- reply{row, err}
	}()

	select {
	case <-ctx.Done():
		return nil, sandpit.ErrTimedOut
	case r := <-res:
		switch err := r.err.(type) {
		case nil:
		case *sandpit.ExecutionError:
			return nil, err
		default:
			if err == sandpit.ErrTimedOut || ctx.Err() != nil {
				return nil, sandpit.ErrTimedOut
			}
			return nil, &sandpit.ExecutionError{Msg: err.Error()}
		}

		if !view.Extends(data) {
			return nil, sandpit.ErrTampered
		}
		return r.row, nil
	}
}
