// Script Isolation
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

package isol

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dop251/goja"
	perrors "github.com/pkg/errors"

	"go-sandpit"
)

// Name of the function a script has to define
const entry = "take_turn"

// Time a script may take to initialise its global state
var initTimeout = 2 * time.Second

// Script is a compiled player, that is run in a fresh runtime for
// every contest.
type Script struct {
	prog *goja.Program
}

// Compile SOURCE and check that it defines an entry point
func Compile(source string) (*Script, error) {
	prog, err := goja.Compile("player.js", source, false)
	if err != nil {
		return nil, perrors.Wrap(err, "failed to compile script")
	}

	s := &Script{prog: prog}
	if _, err := s.instance(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Script) Instance() (sandpit.Decider, error) {
	d, err := s.instance()
	if err != nil {
		return nil, err
	}
	return d, nil
}

// sandbox removes all globals that could be used to escape the
// runtime or to construct code at runtime.
func sandbox(vm *goja.Runtime) {
	vm.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		sandpit.Debug.Debug(strings.Join(parts, " "))
		return goja.Undefined()
	})

	for _, name := range []string{
		"require", "fetch", "XMLHttpRequest", "eval", "Function",
	} {
		vm.Set(name, goja.Undefined())
	}
}

func (s *Script) instance() (*script, error) {
	vm := goja.New()
	sandbox(vm)

	timer := time.AfterFunc(initTimeout, func() {
		vm.Interrupt(sandpit.ErrTimedOut)
	})
	_, err := vm.RunProgram(s.prog)
	timer.Stop()
	vm.ClearInterrupt()
	if err != nil {
		return nil, &sandpit.ExecutionError{Msg: message(err)}
	}

	fn, ok := goja.AssertFunction(vm.Get(entry))
	if !ok {
		return nil, &sandpit.ExecutionError{
			Msg: fmt.Sprintf("%s is not a function", entry),
		}
	}
	return &script{vm: vm, fn: fn}, nil
}

func message(err error) string {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return ex.Value().String()
	}
	return err.Error()
}

type script struct {
	vm *goja.Runtime
	fn goja.Callable
}

// export DATA into the runtime
func (s *script) export(data *sandpit.Table) *goja.Object {
	obj := s.vm.NewObject()
	for _, col := range data.Columns {
		vals := make([]interface{}, len(data.Values[col]))
		for i, v := range data.Values[col] {
			vals[i] = v
		}
		obj.Set(col, s.vm.NewArray(vals...))
	}
	return obj
}

// sync writes modifications of OBJ back into DATA, so that they can
// be detected by the caller.
func (s *script) sync(obj *goja.Object, data *sandpit.Table) {
	for _, col := range data.Columns {
		val := obj.Get(col)
		if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
			delete(data.Values, col)
			continue
		}
		arr, ok := val.Export().([]interface{})
		if !ok {
			delete(data.Values, col)
			continue
		}

		vals := make([]float64, len(arr))
		for i, v := range arr {
			switch x := v.(type) {
			case float64:
				vals[i] = x
			case int64:
				vals[i] = float64(x)
			default:
				vals[i] = math.NaN()
			}
		}
		data.Values[col] = vals
	}
}

func (s *script) Decide(ctx context.Context, data *sandpit.Table, victory sandpit.Assignment) (sandpit.Row, error) {
	// The runtime is reused for every round, so an interrupt must
	// not outlive the call it was meant for.
	stop, stopped := make(chan struct{}), make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			s.vm.Interrupt(sandpit.ErrTimedOut)
		case <-stop:
		}
	}()
	defer func() {
		close(stop)
		<-stopped
		s.vm.ClearInterrupt()
	}()

	obj := s.export(data)
	vic := s.vm.NewObject()
	vic.Set("type", victory.Type.String())
	vic.Set("column", victory.Column)

	res, err := s.fn(goja.Undefined(), obj, vic)
	if err != nil {
		var intr *goja.InterruptedError
		if errors.As(err, &intr) {
			return nil, sandpit.ErrTimedOut
		}
		return nil, &sandpit.ExecutionError{Msg: message(err)}
	}
	s.sync(obj, data)

	row, ok := res.Export().(map[string]interface{})
	if !ok {
		return nil, &sandpit.ExecutionError{
			Msg: fmt.Sprintf("%s returned %s instead of an object", entry, res),
		}
	}
	return sandpit.Row(row), nil
}
