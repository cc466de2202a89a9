// Protocol Client
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

package proto

import (
	"bufio"
	"context"
	"net"
	"strings"

	"github.com/pkg/errors"
	"nhooyr.io/websocket"
)

// Send REQ to the server at ADDR, and return the response.  If ADDR
// is a websocket URL, the request is sent as a single message.
func Send(ctx context.Context, addr string, req *Request) (string, error) {
	payload, err := req.Encode()
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		return sendWebsocket(ctx, addr, payload)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", errors.Wrapf(err, "Failed to connect to %s", addr)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if _, err = conn.Write(payload); err != nil {
		return "", errors.Wrap(err, "Failed to send request")
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "Failed to read response")
	}
	return resp, nil
}

func sendWebsocket(ctx context.Context, addr string, payload []byte) (string, error) {
	c, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return "", errors.Wrapf(err, "Failed to connect to %s", addr)
	}
	defer c.Close(websocket.StatusNormalClosure, "")
	c.SetReadLimit(maxRequest)

	if err = c.Write(ctx, websocket.MessageText, payload); err != nil {
		return "", errors.Wrap(err, "Failed to send request")
	}
	_, resp, err := c.Read(ctx)
	if err != nil {
		return "", errors.Wrap(err, "Failed to read response")
	}
	return string(resp), nil
}
