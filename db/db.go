// Standings database
//
// Copyright (c) 2022, 2023  The austerity authors
//
// This file is part of austerity.
//
// austerity is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// austerity is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with austerity. If not, see
// <http://www.gnu.org/licenses/>

package db

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"austerity"
	"austerity/conf"
)

//go:embed *.sql
var sqlDir embed.FS

// The db keeps every game the server constructed and the current
// standing of every seat in it.  Drivers upsert a seat's standing
// after each applied move, so the scoreboard aggregates live totals
// without touching any game state.
//
// The statements under ./*.sql are loaded on Prepare: create-* files
// are executed once, select-* files become queries on the read
// handle and the rest become commands on the write handle.
type db struct {
	read  *sql.DB
	write *sql.DB

	queries  map[string]*sql.Stmt
	commands map[string]*sql.Stmt
}

func (*db) String() string { return "Standings database" }

// Start does nothing; the database is opened before the server
// starts.
func (*db) Start(*conf.State) {}

func (d *db) Shutdown() {
	if err := d.write.Close(); err != nil {
		log.Errorf("Failed to close database: %s", err)
	}
	if err := d.read.Close(); err != nil {
		log.Errorf("Failed to close database: %s", err)
	}
}

// RecordGame inserts a freshly constructed game, with one zeroed
// standing per seat to be filled in as moves are applied.
func (d *db) RecordGame(ctx context.Context, g *austerity.Game) {
	_, err := d.commands["insert-game"].ExecContext(ctx,
		g.Name, g.Counter, len(g.Players), g.Goal)
	if err != nil {
		log.Errorf("Failed to record %s: %s", g, err)
	}
}

// RecordStanding upserts the current score and token holdings of one
// seat.
func (d *db) RecordStanding(ctx context.Context, g *austerity.Game, p *austerity.Player) {
	_, err := d.commands["record-standing"].ExecContext(ctx,
		p.Id, p.Name, p.Tokens.Sum(), p.Score, g.Name, g.Counter)
	if err != nil {
		log.Errorf("Failed to record standing of %c in %s: %s",
			p.Letter(), g, err)
	}
}

// FinishGame marks a game as over.  Its standings stay, the
// scoreboard counts past and present games alike.
func (d *db) FinishGame(ctx context.Context, g *austerity.Game) {
	_, err := d.commands["finish-game"].ExecContext(ctx, g.Name, g.Counter)
	if err != nil {
		log.Errorf("Failed to finish %s: %s", g, err)
	}
}

// Scores aggregates per-name totals across every recorded game,
// ordered by points descending, then tokens ascending, then name.
func (d *db) Scores(ctx context.Context) ([]conf.Standing, error) {
	rows, err := d.queries["select-scores"].QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var standings []conf.Standing
	for rows.Next() {
		var s conf.Standing
		if err := rows.Scan(&s.Name, &s.Tokens, &s.Points); err != nil {
			return nil, err
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

// Games lists every recorded game in construction order.
func (d *db) Games(ctx context.Context) ([]conf.GameRecord, error) {
	rows, err := d.queries["select-games"].QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []conf.GameRecord
	for rows.Next() {
		var r conf.GameRecord
		err := rows.Scan(&r.Name, &r.Counter, &r.Players, &r.Goal, &r.Finished)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Prepare opens the database named by the state's DSN, loads the
// embedded statements and registers the manager.  The stock DSN is an
// in-memory database that lives exactly as long as the process.
func Prepare(st *conf.State) error {
	read, err := sql.Open("sqlite3", st.DSN)
	if err != nil {
		return err
	}
	read.SetConnMaxLifetime(0)
	read.SetMaxIdleConns(1)

	write, err := sql.Open("sqlite3", st.DSN)
	if err != nil {
		return err
	}
	write.SetConnMaxLifetime(0)
	write.SetMaxIdleConns(1)
	write.SetMaxOpenConns(1)

	d := &db{
		read:     read,
		write:    write,
		queries:  make(map[string]*sql.Stmt),
		commands: make(map[string]*sql.Stmt),
	}

	for _, pragma := range []string{
		// https://www.sqlite.org/pragma.html#pragma_foreign_keys
		"foreign_keys = on",
		// https://www.sqlite.org/pragma.html#pragma_temp_store
		"temp_store = memory",
	} {
		if _, err := d.write.Exec("PRAGMA " + pragma + ";"); err != nil {
			return err
		}
	}

	entries, err := sqlDir.ReadDir(".")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		data, err := fs.ReadFile(sqlDir, name)
		if err != nil {
			return err
		}

		stmt := strings.TrimSuffix(name, ".sql")
		switch {
		case strings.HasPrefix(stmt, "create-"):
			_, err = d.write.Exec(string(data))
			log.Debugf("Executed %s", name)
		case strings.HasPrefix(stmt, "select-"):
			d.queries[stmt], err = d.read.Prepare(string(data))
			log.Debugf("Registered query %s", stmt)
		default:
			d.commands[stmt], err = d.write.Prepare(string(data))
			log.Debugf("Registered command %s", stmt)
		}
		if err != nil {
			return err
		}
	}

	st.Register(d)
	return nil
}
