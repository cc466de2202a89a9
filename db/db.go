// Database Management
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

package db

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"io/fs"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"go-sandpit"
	"go-sandpit/conf"
)

//go:embed *.sql
var sql_dir embed.FS

type db struct {
	// The database connections
	read  *sql.DB
	write *sql.DB

	// The SQL queries are stored next to this file, and they are
	// loaded by the database manager.  QUERIES are the commands
	// handled by READ, and COMMANDS are the queries handled by
	// WRITE.
	queries  map[string]*sql.Stmt
	commands map[string]*sql.Stmt

	shut chan struct{}
}

func (db *db) Players(ctx context.Context) ([]*sandpit.Player, error) {
	rows, err := db.queries["select-players"].QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to query players")
	}
	defer rows.Close()

	var players []*sandpit.Player
	for rows.Next() {
		var p sandpit.Player
		err = rows.Scan(&p.Name, &p.Syndicate, &p.Source)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to scan player")
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}

func (db *db) SavePlayer(ctx context.Context, p *sandpit.Player) error {
	_, err := db.commands["insert-player"].ExecContext(ctx,
		p.Name, p.Syndicate, p.Source)
	if err != nil {
		return errors.Wrapf(err, "Failed to save %s", p)
	}
	sandpit.Debug.Debugf("Saved player %s", p)
	return nil
}

func (db *db) DeletePlayer(ctx context.Context, k sandpit.Key) error {
	res, err := db.commands["delete-player"].ExecContext(ctx,
		k.Name, k.Syndicate)
	if err != nil {
		return errors.Wrapf(err, "Failed to delete %s", k)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(sandpit.ErrNotFound, "Failed to delete %s", k)
	}
	return nil
}

func (db *db) SaveGame(ctx context.Context, o *sandpit.Outcome) error {
	data, err := json.Marshal(o.Data)
	if err != nil {
		return err
	}

	_, err = db.commands["insert-game"].ExecContext(ctx,
		o.ID,
		o.Side1.Player, o.Side1.Victory.String(), o.Side1.Column,
		o.Side2.Player, o.Side2.Victory.String(), o.Side2.Column,
		o.Winner, o.Message, string(data))
	if err != nil {
		return errors.Wrapf(err, "Failed to save game %s", o.ID)
	}
	return nil
}

func (db *db) Games(ctx context.Context, limit int) ([]*sandpit.Outcome, error) {
	rows, err := db.queries["select-games"].QueryContext(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to query games")
	}
	defer rows.Close()

	var games []*sandpit.Outcome
	for rows.Next() {
		var (
			o      = sandpit.Outcome{Data: new(sandpit.Table)}
			v1, v2 string
			data   string
		)
		err = rows.Scan(&o.ID,
			&o.Side1.Player, &v1, &o.Side1.Column,
			&o.Side2.Player, &v2, &o.Side2.Column,
			&o.Winner, &o.Message, &data)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to scan game")
		}
		if o.Side1.Victory, err = sandpit.ParseVictoryType(v1); err != nil {
			return nil, err
		}
		if o.Side2.Victory, err = sandpit.ParseVictoryType(v2); err != nil {
			return nil, err
		}
		if err = json.Unmarshal([]byte(data), o.Data); err != nil {
			return nil, errors.Wrapf(err, "Malformed data in game %s", o.ID)
		}
		games = append(games, &o)
	}
	return games, rows.Err()
}

func (db *db) SaveEviction(ctx context.Context, e *sandpit.Eviction) error {
	_, err := db.commands["insert-eviction"].ExecContext(ctx,
		e.Name, e.Syndicate, e.Victory.String(), e.Reason, e.Stamp)
	if err != nil {
		return errors.Wrapf(err, "Failed to log eviction of %s", e.Key)
	}
	return nil
}

func (db *db) Evictions(ctx context.Context, limit int) ([]*sandpit.Eviction, error) {
	rows, err := db.queries["select-evictions"].QueryContext(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to query evictions")
	}
	defer rows.Close()

	var evs []*sandpit.Eviction
	for rows.Next() {
		var (
			e sandpit.Eviction
			v string
		)
		err = rows.Scan(&e.Name, &e.Syndicate, &v, &e.Reason, &e.Stamp)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to scan eviction")
		}
		if e.Victory, err = sandpit.ParseVictoryType(v); err != nil {
			return nil, err
		}
		evs = append(evs, &e)
	}
	return evs, rows.Err()
}

func (db *db) Start() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGUSR1)
	defer signal.Stop(c)
	tick := time.NewTicker(24 * time.Hour)
	defer tick.Stop()
	for {
		var err error
		select {
		case <-db.shut:
			return
		case <-c:
			// https://www.sqlite.org/lang_vacuum.html
			_, err = db.write.Exec("VACUUM;")
		case <-tick.C:
			var res sql.Result
			res, err = db.commands["delete-games"].Exec()
			if err != nil {
				break
			}

			var n int64
			n, err = res.RowsAffected()
			if err != nil {
				break
			}
			sandpit.Debug.Debugf("Deleted %d games", n)
			// https://www.sqlite.org/pragma.html#pragma_optimize
			_, err = db.write.Exec("PRAGMA optimize;")
		}
		if err != nil {
			sandpit.Log.WithError(err).Error("Database maintenance failed")
		}
	}
}

func (db *db) Shutdown() {
	close(db.shut)

	// https://www.sqlite.org/pragma.html#pragma_optimize
	_, err := db.write.Exec("PRAGMA optimize;")
	if err != nil {
		sandpit.Log.WithError(err).Error("Failed to optimize database")
	}

	for _, stmt := range db.queries {
		stmt.Close()
	}
	for _, stmt := range db.commands {
		stmt.Close()
	}

	if err = db.write.Close(); err != nil {
		sandpit.Log.WithError(err).Error("Failed to close database")
	}
	if err = db.read.Close(); err != nil {
		sandpit.Log.WithError(err).Error("Failed to close database")
	}
}

func (*db) String() string { return "Database Manager" }

// Open the database in FILE and prepare all statements
func Open(file string) (conf.DatabaseManager, error) {
	if dir := filepath.Dir(file); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "Cannot create %s", dir)
		}
	}

	read, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	read.SetConnMaxLifetime(0)
	read.SetMaxIdleConns(1)

	write, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	write.SetConnMaxLifetime(0)
	write.SetMaxIdleConns(1)
	write.SetMaxOpenConns(1)

	db := &db{
		queries:  make(map[string]*sql.Stmt),
		commands: make(map[string]*sql.Stmt),
		write:    write,
		read:     read,
		shut:     make(chan struct{}),
	}

	for _, pragma := range []string{
		// https://www.sqlite.org/pragma.html#pragma_journal_mode
		"journal_mode = WAL",
		// https://www.sqlite.org/pragma.html#pragma_synchronous
		"synchronous = normal",
		// https://www.sqlite.org/pragma.html#pragma_temp_store
		"temp_store = memory",
		// https://www.sqlite.org/pragma.html#pragma_busy_timeout
		"busy_timeout = 5000",
	} {
		sandpit.Debug.Debugf("Run PRAGMA %v", pragma)
		_, err = db.write.Exec("PRAGMA " + pragma + ";")
		if err != nil {
			return nil, errors.Wrapf(err, "PRAGMA %s", pragma)
		}
	}

	entries, err := sql_dir.ReadDir(".")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		base := path.Base(entry.Name())
		data, err := fs.ReadFile(sql_dir, entry.Name())
		if err != nil {
			return nil, err
		}

		if strings.HasPrefix(base, "create-") || strings.HasPrefix(base, "run-") {
			_, err = db.write.Exec(string(data))
			sandpit.Debug.Debugf("Executed query %v", base)
		} else {
			query := strings.TrimSuffix(base, ".sql")
			if strings.HasPrefix(query, "select-") {
				db.queries[query], err = db.read.Prepare(string(data))
				sandpit.Debug.Debugf("Registered query %v", query)
			} else {
				db.commands[query], err = db.write.Prepare(string(data))
				sandpit.Debug.Debugf("Registered command %v", query)
			}
		}
		if err != nil {
			return nil, errors.Wrap(err, entry.Name())
		}
	}

	if len(db.queries) == 0 {
		panic("No queries loaded")
	}

	return db, nil
}

// Initialise the database and database manager
func Register(config *conf.Conf) {
	db, err := Open(config.Database)
	if err != nil {
		sandpit.Log.WithError(err).Fatal("Failed to open database")
	}
	config.Register(db)
}
