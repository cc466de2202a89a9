// General Isolation
//
// Copyright (c) 2022, 2023  Philip Kaludercic
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
	"strings"

	"github.com/pkg/errors"

	"go-sandpit"
)

// Sources starting with this prefix name a container image
const dockerPrefix = "#!docker"

// Load turns the source of a player into logic that can be
// instantiated for every contest.  The source is either a script, or
// a reference to a container image.
func Load(source string) (sandpit.Logic, error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.Wrap(sandpit.ErrMissingField, "empty source")
	}

	if strings.HasPrefix(source, dockerPrefix) {
		line := strings.SplitN(source, "\n", 2)[0]
		image := strings.TrimSpace(strings.TrimPrefix(line, dockerPrefix))
		if image == "" || strings.ContainsAny(image, " \t") {
			return nil, errors.Errorf("invalid image name %q", image)
		}
		sandpit.Debug.Debugf("Loading container player %s", image)
		return &Container{Image: image}, nil
	}

	return Compile(source)
}
