// Shared logging
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
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process wide logger
var Log = logrus.New()

// Debug only produces output once debugging has been enabled
var Debug = Log.WithField("debug", true)

func init() {
	Log.SetOutput(os.Stderr)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
		PadLevelText:     true,
	})
	Log.SetLevel(logrus.InfoLevel)
}

// SetVerbosity adjusts the log level from command line flags
func SetVerbosity(debug, trace, silent bool) {
	switch {
	case trace:
		Log.SetLevel(logrus.TraceLevel)
	case debug:
		Log.SetLevel(logrus.DebugLevel)
		Debug.Debug("Debug logging has been enabled")
	case silent:
		Log.SetLevel(logrus.WarnLevel)
	}
}
