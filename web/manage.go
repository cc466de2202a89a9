// Web Server Management
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
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"go-sandpit"
	"go-sandpit/conf"
	"go-sandpit/proto"
)

type web struct {
	conf    *conf.Conf
	srv     *http.Server
	handler *proto.Handler

	// Serialises writes to the leaderboard file
	lock sync.Mutex
}

func (*web) String() string { return "Web Server" }

func (s *web) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Get("/players.json", s.players)
	r.Get("/games", s.games)
	r.Get("/evictions", s.evictions)
	r.Get("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /")
	})

	// Install the WebSocket handler
	if s.conf.WebSocket {
		sandpit.Log.Info("Accepting websocket connections on /socket")
		r.With(middleware.Timeout(time.Hour)).Get("/socket", s.upgrade)
	}

	return r
}

func (s *web) Start() {
	s.Update()
	if !s.conf.WebInterface {
		return
	}

	addr := fmt.Sprintf(":%d", s.conf.WebPort)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sandpit.Log.Infof("Listening via HTTP on %s", addr)
	err := s.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		sandpit.Log.WithError(err).Error("Web server failed")
	}
}

func (s *web) Shutdown() {
	if s.srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		sandpit.Log.WithError(err).Error("Failed to shut down web server")
	}
}

// Update writes the current leaderboard to the configured file
func (s *web) Update() {
	if s.conf.WebFile == "" || s.conf.Tourn == nil {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	// Write to a temporary file first, so that readers never see
	// a partial leaderboard.
	dir := filepath.Dir(s.conf.WebFile)
	tmp, err := os.CreateTemp(dir, ".leaderboard-*")
	if err != nil {
		sandpit.Log.WithError(err).Error("Failed to write leaderboard")
		return
	}
	defer os.Remove(tmp.Name())

	err = Render(tmp, s.conf.Tourn.Standings())
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), s.conf.WebFile)
	}
	if err != nil {
		sandpit.Log.WithError(err).Error("Failed to write leaderboard")
	}
}

func Register(config *conf.Conf) {
	config.Register(&web{
		conf:    config,
		handler: proto.MakeHandler(config),
	})
}
