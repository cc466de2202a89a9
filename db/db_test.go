// Database Tests
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

package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go-sandpit"
	"go-sandpit/conf"
)

func open(t *testing.T) conf.DatabaseManager {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "sub", "sandpit.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(db.Shutdown)
	return db
}

func TestPlayers(t *testing.T) {
	var (
		db  = open(t)
		ctx = context.Background()
	)

	for _, p := range []*sandpit.Player{
		{Key: sandpit.Key{Name: "A", Syndicate: 1}, Source: "a"},
		{Key: sandpit.Key{Name: "B", Syndicate: 2}, Source: "b"},
		{Key: sandpit.Key{Name: "A", Syndicate: 3}, Source: "c"},
	} {
		if err := db.SavePlayer(ctx, p); err != nil {
			t.Fatalf("Failed to save %s: %v", p, err)
		}
	}

	if err := db.DeletePlayer(ctx, sandpit.Key{Name: "B", Syndicate: 2}); err != nil {
		t.Errorf("Failed to delete player: %v", err)
	}
	err := db.DeletePlayer(ctx, sandpit.Key{Name: "B", Syndicate: 2})
	if !errors.Is(err, sandpit.ErrNotFound) {
		t.Errorf("Expected %v, got %v", sandpit.ErrNotFound, err)
	}

	players, err := db.Players(ctx)
	if err != nil {
		t.Fatalf("Failed to query players: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(players))
	}
	if players[0].Name != "A" || players[0].Syndicate != 1 || players[0].Source != "a" {
		t.Errorf("Unexpected first player %#v", players[0])
	}
	if players[1].Name != "A" || players[1].Syndicate != 3 || players[1].Source != "c" {
		t.Errorf("Unexpected second player %#v", players[1])
	}
}

func TestGames(t *testing.T) {
	var (
		db  = open(t)
		ctx = context.Background()
	)

	data := sandpit.NewTable([]string{"Amy", "Tom"})
	data.Append(map[string]float64{"Amy": 1.5, "Tom": -2})
	out := &sandpit.Outcome{
		ID:      "f3b1c2e0-0000-4000-8000-000000000000",
		Data:    data,
		Side1:   sandpit.Descriptor{Player: "A (1)", Victory: sandpit.Linear, Column: "Amy"},
		Side2:   sandpit.Descriptor{Player: "B (2)", Victory: sandpit.SumNeg, Column: "Tom"},
		Winner:  sandpit.Side2Won,
		Message: "gg\n",
	}
	if err := db.SaveGame(ctx, out); err != nil {
		t.Fatalf("Failed to save game: %v", err)
	}

	games, err := db.Games(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to query games: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("Expected one game, got %d", len(games))
	}
	g := games[0]
	if g.ID != out.ID || g.Winner != out.Winner || g.Side1 != out.Side1 || g.Side2 != out.Side2 {
		t.Errorf("Unexpected game %#v", g)
	}
	if v := g.Data.Values["Amy"]; len(v) != 2 || v[1] != 1.5 {
		t.Errorf("Unexpected data %v", g.Data.Values)
	}
}

func TestEvictions(t *testing.T) {
	var (
		db  = open(t)
		ctx = context.Background()
		now = time.Now().Truncate(time.Second)
	)

	for i, reason := range []string{"timed out", "altered prior data"} {
		err := db.SaveEviction(ctx, &sandpit.Eviction{
			Key:     sandpit.Key{Name: "A", Syndicate: i},
			Victory: sandpit.Max,
			Reason:  reason,
			Stamp:   now,
		})
		if err != nil {
			t.Fatalf("Failed to log eviction: %v", err)
		}
	}

	evs, err := db.Evictions(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to query evictions: %v", err)
	}
	if len(evs) != 1 {
		t.Fatalf("Expected one eviction, got %d", len(evs))
	}
	if evs[0].Reason != "altered prior data" || evs[0].Syndicate != 1 || evs[0].Victory != sandpit.Max {
		t.Errorf("Unexpected eviction %#v", evs[0])
	}
	if !evs[0].Stamp.Equal(now) {
		t.Errorf("Expected stamp %v, got %v", now, evs[0].Stamp)
	}
}
