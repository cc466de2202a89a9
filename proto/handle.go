// Request Handling
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
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"go-sandpit"
	"go-sandpit/conf"
	"go-sandpit/game"
	"go-sandpit/sched/isol"
)

const success = "SUCCESS\n"

func fail(format string, args ...interface{}) string {
	return "ERR: " + fmt.Sprintf(format, args...) + "\n"
}

// Handler interprets requests and answers them with a single line
type Handler struct {
	conf *conf.Conf
}

func MakeHandler(config *conf.Conf) *Handler {
	return &Handler{conf: config}
}

// Handle a request and return the response
func (h *Handler) Handle(ctx context.Context, req *Request) string {
	switch req.Cmd {
	case "":
		return fail("No cmd in request")
	case CmdPing:
		return success
	case CmdAdd:
		return h.add(ctx, req)
	case CmdDel:
		return h.del(ctx, req)
	case CmdTest:
		return h.test(ctx, req)
	default:
		return fail("unknown cmd %q", req.Cmd)
	}
}

// HandleRaw parses and handles a request
func (h *Handler) HandleRaw(ctx context.Context, raw []byte) string {
	req, err := Parse(raw)
	if err != nil {
		return fail("malformed request: %v", err)
	}
	return h.Handle(ctx, req)
}

// Serve a single request on RWC and close the connection
func (h *Handler) Serve(rwc io.ReadWriteCloser) {
	defer rwc.Close()

	if conn, ok := rwc.(net.Conn); ok && h.conf.TCPTimeout > 0 {
		conn.SetDeadline(time.Now().Add(h.conf.TCPTimeout))
	}

	var resp string
	req, err := ReadRequest(rwc)
	if err != nil {
		sandpit.Debug.WithError(err).Debug("Failed to read request")
		resp = fail("malformed request: %v", err)
	} else {
		resp = h.Handle(h.conf.Ctx, req)
	}

	if _, err := io.WriteString(rwc, resp); err != nil {
		sandpit.Debug.WithError(err).Debug("Failed to send response")
	}
}

func (h *Handler) add(ctx context.Context, req *Request) string {
	if req.Syn == nil {
		return fail("data does not have key 'syn'")
	}
	syn, err := req.Syn.Int()
	if err != nil {
		return fail("data['syn'] is not an integer")
	}
	if !sandpit.ValidSyndicate(syn) {
		return fail("data['syn'] not in range [0,%d]", sandpit.MaxSyndicate)
	}
	if req.Data == nil {
		return fail("data does not have key 'data'")
	}

	name := strconv.Itoa(syn)
	if req.Name != nil && *req.Name != "" {
		name = *req.Name
	}

	log := sandpit.Log.WithFields(logrus.Fields{
		"player":    name,
		"syndicate": syn,
	})

	logic, err := isol.Load(*req.Data)
	if err != nil {
		log.WithError(err).Info("Rejected player")
		return fail("cannot load player: %v", err)
	}

	p := &sandpit.Player{
		Key:    sandpit.Key{Name: name, Syndicate: syn},
		Source: *req.Data,
		Logic:  logic,
	}
	if err := h.conf.Tourn.Add(p); err != nil {
		if errors.Is(err, sandpit.ErrAlreadyExists) {
			return fail("%v", sandpit.ErrAlreadyExists)
		}
		return fail("%v", err)
	}
	if h.conf.DB != nil {
		if err := h.conf.DB.SavePlayer(ctx, p); err != nil {
			log.WithError(err).Error("Failed to store player")
			h.conf.Tourn.Remove(p.Key)
			return fail("couldn't store player")
		}
	}

	log.Info("Added player")
	return success
}

func (h *Handler) del(ctx context.Context, req *Request) string {
	if req.Name == nil || req.Syn == nil {
		return fail("missing name or syn in DEL")
	}
	syn, err := req.Syn.Int()
	if err != nil {
		return fail("data['syn'] is not an integer")
	}

	key := sandpit.Key{Name: *req.Name, Syndicate: syn}
	if _, err := h.conf.Tourn.Remove(key); err != nil {
		return fail("name %s doesn't exist", *req.Name)
	}
	if h.conf.DB != nil {
		if err := h.conf.DB.DeletePlayer(ctx, key); err != nil {
			sandpit.Log.WithError(err).Error("Failed to delete stored player")
			return fail("couldn't delete stored player")
		}
	}

	sandpit.Log.WithFields(logrus.Fields{
		"player":    key.Name,
		"syndicate": key.Syndicate,
	}).Info("Deleted player")
	return success
}

func instance(source string) (sandpit.Decider, error) {
	logic, err := isol.Load(source)
	if err != nil {
		return nil, err
	}
	return logic.Instance()
}

func (h *Handler) test(ctx context.Context, req *Request) string {
	if req.VT1 == nil || req.VT2 == nil {
		return fail("data needs keys 'vt1' and 'vt2' for TEST")
	}
	if req.Data == nil || req.Data2 == nil {
		return fail("data needs keys 'data' and 'data2' for TEST")
	}
	vt1, err := sandpit.ParseVictoryType(*req.VT1)
	if err != nil {
		return fail("victory type %s doesn't exist for TEST", *req.VT1)
	}
	vt2, err := sandpit.ParseVictoryType(*req.VT2)
	if err != nil {
		return fail("victory type %s doesn't exist for TEST", *req.VT2)
	}

	d1, err := instance(*req.Data)
	if err != nil {
		return fail("couldn't run game for TEST: %v", &sandpit.Failure{
			Side: sandpit.Side1, Reason: err.Error(),
		})
	}
	d2, err := instance(*req.Data2)
	if err != nil {
		return fail("couldn't run game for TEST: %v", &sandpit.Failure{
			Side: sandpit.Side2, Reason: err.Error(),
		})
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	c := game.Setup(rng, h.conf.Columns,
		sandpit.Side1.String(), sandpit.Side2.String(),
		vt1, vt2, req.SameCol)
	switch res := game.Play(ctx, h.conf, c, d1, d2).(type) {
	case *sandpit.Failure:
		return fail("couldn't run game for TEST: %v", res)
	case *sandpit.Outcome:
		return "SUCCESS " + res.JSON() + "\n"
	default:
		panic("Unexpected result")
	}
}
