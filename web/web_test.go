// Web Interface Tests
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

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"go-sandpit"
	"go-sandpit/conf"
	"go-sandpit/proto"
	"go-sandpit/sched"
)

var idle = sandpit.Static{Decider: sandpit.DeciderFunc(
	func(context.Context, *sandpit.Table, sandpit.Assignment) (sandpit.Row, error) {
		return sandpit.Row{}, nil
	})}

func testServer(t *testing.T) (*web, *sched.Loop) {
	c := conf.Default()
	c.WebFile = filepath.Join(t.TempDir(), "index.html")
	loop := sched.MakeLoop(c)
	c.Register(loop)

	s := &web{conf: c, handler: proto.MakeHandler(c)}
	return s, loop
}

func TestRender(t *testing.T) {
	var st sandpit.Standing
	st.Key = sandpit.Key{Name: "Alice", Syndicate: 3}
	st.Wins[sandpit.Max][sandpit.SumPos] = 2
	st.Ratio = 20

	var buf bytes.Buffer
	if err := Render(&buf, []*sandpit.Standing{&st}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for i, want := range []string{
		"Alice (3)",
		"win-loss-ratio=20.00",
		"Games played: 1",
		"<td>Quadratic</td>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("(%d) Expected %q in the leaderboard", i, want)
		}
	}
}

func TestPlayed(t *testing.T) {
	var a, b sandpit.Standing
	a.Wins[0][1] = 3
	a.Draws[2][2] = 1
	b.Losses[1][0] = 3
	b.Draws[2][2] = 1

	if n := Played([]*sandpit.Standing{&a, &b}); n != 4 {
		t.Errorf("Expected 4 games, got %d", n)
	}
	if n := Played(nil); n != 0 {
		t.Errorf("Expected no games, got %d", n)
	}
}

func TestPlayers(t *testing.T) {
	s, loop := testServer(t)
	err := loop.Add(&sandpit.Player{
		Key:   sandpit.Key{Name: "Bob", Syndicate: 2},
		Logic: idle,
	})
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(s.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/players.json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var st []sandpit.Standing
	if err = json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if len(st) != 1 || st[0].Name != "Bob" || st[0].Syndicate != 2 {
		t.Errorf("Unexpected standings %v", st)
	}

	// No database has been configured
	resp, err = http.Get(srv.URL + "/games")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestSocket(t *testing.T) {
	s, _ := testServer(t)
	srv := httptest.NewServer(s.routes())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/socket"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	for i, test := range []struct {
		req, resp string
	}{
		{`{"cmd": "PING"}EOM`, "SUCCESS\n"},
		{`{"cmd": "PING"}`, "SUCCESS\n"},
		{`{"cmd": "DEL", "name": "X", "syn": 1}EOM`, "ERR: name X doesn't exist\n"},
	} {
		err = conn.WriteMessage(websocket.TextMessage, []byte(test.req))
		if err != nil {
			t.Fatal(err)
		}
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		if string(msg) != test.resp {
			t.Errorf("(%d) Expected %q, got %q", i, test.resp, msg)
		}
	}
}

func TestUpdate(t *testing.T) {
	s, loop := testServer(t)
	err := loop.Add(&sandpit.Player{
		Key:   sandpit.Key{Name: "Carol", Syndicate: 5},
		Logic: idle,
	})
	if err != nil {
		t.Fatal(err)
	}

	s.Update()
	data, err := os.ReadFile(s.conf.WebFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Carol (5)") {
		t.Error("Leaderboard does not mention the new player")
	}

	// No temporary files are left behind
	ents, err := os.ReadDir(filepath.Dir(s.conf.WebFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(ents) != 1 {
		t.Errorf("Expected a single file, found %d", len(ents))
	}
}
