// Websocket Requests
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
	"net/http"

	"github.com/gorilla/websocket"

	"go-sandpit"
)

// Upgrade a HTTP connection to a WebSocket and answer every message
// as a request.
func (s *web) upgrade(w http.ResponseWriter, r *http.Request) {
	// upgrade to websocket or bail out
	conn, err := (&websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}).Upgrade(w, r, nil)
	if err != nil {
		sandpit.Debug.Debugf("Unable to upgrade connection: %s", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(1 << 20)

	sandpit.Debug.Debugf("New websocket connection from %s", conn.RemoteAddr())
	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sandpit.Debug.WithError(err).Debug("Websocket connection failed")
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		resp := s.handler.HandleRaw(r.Context(), msg)
		if err = conn.WriteMessage(websocket.TextMessage, []byte(resp)); err != nil {
			sandpit.Debug.WithError(err).Debug("Failed to respond")
			return
		}
	}
}
