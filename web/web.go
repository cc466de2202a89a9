// Web Interface
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

package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"go-sandpit"
)

//go:embed *.tmpl
var html embed.FS

var (
	// Template manager
	tmpl = template.Must(template.New("").Funcs(funcs).ParseFS(html, "*.tmpl"))

	// Custom template functions
	funcs = template.FuncMap{
		"victories": sandpit.VictoryTypes,
		"ratio": func(r float64) string {
			return strconv.FormatFloat(r, 'f', 2, 64)
		},
		"timefmt": func(t time.Time) string {
			s := time.Since(t).Round(time.Second)
			switch {
			case s < time.Second*5:
				return "now"
			case s < time.Minute:
				return fmt.Sprintf("%.0fs ago", s.Seconds())
			default:
				return t.Format(time.Stamp)
			}
		},
		"result": func(w sandpit.Winner) template.HTML {
			switch w {
			case sandpit.Side1Won:
				return `<span class="won">Player 1 won</span>`
			case sandpit.Side2Won:
				return `<span class="lost">Player 2 won</span>`
			default:
				return template.HTML(w.String())
			}
		},
		"now": func() string {
			return time.Now().Format(time.RFC3339)
		},
	}
)

// Played counts the games recorded in ST.  Every game is recorded
// for both players, so each one is counted twice.
func Played(st []*sandpit.Standing) int {
	var n int
	for _, s := range st {
		n += s.Wins.Sum() + s.Losses.Sum() + s.Draws.Sum()
	}
	return n / 2
}

// Render the leaderboard for ST into W
func Render(w io.Writer, st []*sandpit.Standing) error {
	return tmpl.ExecuteTemplate(w, "leaderboard.tmpl", struct {
		Standings []*sandpit.Standing
		Games     int
	}{st, Played(st)})
}
