// Web Routes
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
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-sandpit"
)

const DB_TIMEOUT = 20 * time.Second // arbitrary choice

// Number of entries shown in the logs
const PER_PAGE = 50

// Generate the leaderboard
func (s *web) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "text/html")
	err := Render(w, s.conf.Tourn.Standings())
	if err != nil {
		sandpit.Log.WithError(err).Error("Failed to render leaderboard")
	}
}

func (s *web) players(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(s.conf.Tourn.Standings())
	if err != nil {
		sandpit.Log.WithError(err).Error("Failed to encode standings")
	}
}

func (s *web) games(w http.ResponseWriter, r *http.Request) {
	if s.conf.DB == nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), DB_TIMEOUT)
	defer cancel()

	games, err := s.conf.DB.Games(ctx, PER_PAGE)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "text/html")
	if err = tmpl.ExecuteTemplate(w, "games.tmpl", games); err != nil {
		sandpit.Log.WithError(err).Error("Failed to render games")
	}
}

func (s *web) evictions(w http.ResponseWriter, r *http.Request) {
	if s.conf.DB == nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), DB_TIMEOUT)
	defer cancel()

	evs, err := s.conf.DB.Evictions(ctx, PER_PAGE)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "text/html")
	if err = tmpl.ExecuteTemplate(w, "evictions.tmpl", evs); err != nil {
		sandpit.Log.WithError(err).Error("Failed to render evictions")
	}
}
