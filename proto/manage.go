// Listener Management
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

package proto

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"go-sandpit"
	"go-sandpit/conf"
)

type Listener struct {
	conf    *conf.Conf
	conn    net.Listener
	port    uint16
	handler *Handler
}

func (*Listener) String() string {
	return "TCP Handler"
}

// Initialise a listener, unless it has already been initialised
func (t *Listener) init() error {
	if t.conn != nil {
		return nil
	}

	var err error
	tcp := fmt.Sprintf(":%d", t.port)
	t.conn, err = net.Listen("tcp", tcp)
	if err != nil {
		return err
	}
	if t.port == 0 {
		// Extract port number the operating system bound the listener
		// to, since port 0 is redirected to a "random" open port
		addr := t.conn.Addr().String()
		i := strings.LastIndexByte(addr, ':')
		if i == -1 || i+1 == len(addr) {
			return fmt.Errorf("invalid address %s", addr)
		}
		port, err := strconv.ParseUint(addr[i+1:], 10, 16)
		if err != nil {
			return err
		}
		t.port = uint16(port)
	}
	return nil
}

func (t *Listener) Start() {
	if t.conf.Tourn == nil {
		panic("No tournament manager")
	}
	if err := t.init(); err != nil {
		sandpit.Log.WithError(err).Fatal("Failed to listen")
	}

	sandpit.Log.Infof("Accepting connections on :%d", t.port)
	for {
		conn, err := t.conn.Accept()
		if errors.Is(err, net.ErrClosed) {
			return
		}
		if err != nil {
			sandpit.Debug.WithError(err).Debug("Failed to accept")
			continue
		}

		sandpit.Debug.Debugf("Connection from %s", conn.RemoteAddr())
		go t.handler.Serve(conn)
	}
}

func (t *Listener) Port() uint16 {
	return t.port
}

func (t *Listener) Shutdown() {
	if t.conn == nil {
		return
	}
	if err := t.conn.Close(); err != nil {
		sandpit.Log.WithError(err).Error("Failed to close listener")
	}
}

func MakeListener(config *conf.Conf, port uint16) *Listener {
	return &Listener{conf: config, port: port, handler: MakeHandler(config)}
}

func Prepare(config *conf.Conf) {
	config.Register(MakeListener(config, config.TCPPort))
}
