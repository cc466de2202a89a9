// Entry point
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

package main

import (
	"os"

	"go-sandpit"
)

func main() {
	if err := root().Execute(); err != nil {
		sandpit.Log.Error(err)
		os.Exit(1)
	}
}
