// Server state and configuration
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

package conf

import (
	"context"
	"errors"
	"sync"
	"time"

	"austerity"
)

// Startup failures the server reports via dedicated exit codes.
var (
	ErrBadKeyfile   = errors.New("bad keyfile")
	ErrBadDeckfile  = errors.New("bad deckfile")
	ErrBadStatfile  = errors.New("bad statfile")
	ErrBadTimeout   = errors.New("bad timeout")
	ErrFailedListen = errors.New("failed to listen")
)

// An Entry is one statfile line, describing a port to listen on and
// the shape of the games formed through it.
type Entry struct {
	Port    int // 0 requests an ephemeral port
	Tokens  int // size of each coloured token pile
	Goal    int // point score that ends a game
	Players int
}

// Standing is one aggregated scoreboard row.
type Standing struct {
	Name   string
	Tokens int
	Points int
}

// GameRecord describes a game the server has constructed.
type GameRecord struct {
	Name     string
	Counter  int
	Goal     int
	Players  int
	Finished bool
}

// State is the shared server state, passed to every manager on
// startup.
type State struct {
	// Command line configuration
	Key      string
	Deck     []austerity.Card
	Statfile string
	Timeout  time.Duration // reconnection grace period

	// Ambient configuration
	Debug    bool
	DSN      string        // database source name
	Poll     time.Duration // reconnection poll interval
	WebUI    bool
	WebPort  uint16
	WebEntry int // statfile entry backing websocket players

	// Games holds games the lobby has filled, awaiting a driver.
	Games chan *austerity.Game

	// Ctx is cancelled when the server is to die.
	Ctx  context.Context
	Kill context.CancelFunc

	// Manager registry (see Register)
	DB     DatabaseManager
	Joiner Joiner
	Binder Binder

	mu      sync.Mutex
	stats   []Entry
	started []*austerity.Game
	man     []Manager
	run     bool
}

const (
	defaultDSN  = "file:austerity?mode=memory&cache=shared"
	defaultPoll = 50 * time.Millisecond
)

// SetStats installs the entries parsed from the statfile.  The binder
// replaces them whenever a SIGINT cycle reloads the file.
func (st *State) SetStats(entries []Entry) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.stats = entries
}

// Stats returns a copy of the current statfile entries.
func (st *State) Stats() []Entry {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]Entry(nil), st.stats...)
}

// Entry returns the n'th statfile entry, counting from 1.
func (st *State) Entry(n int) (Entry, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if n < 1 || n > len(st.stats) {
		return Entry{}, false
	}
	return st.stats[n-1], true
}

// Enroll adds a freshly constructed game to the registry, assigning
// it the next counter among games of the same name.
func (st *State) Enroll(g *austerity.Game) {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 1
	for _, o := range st.started {
		if o.Name == g.Name {
			n++
		}
	}
	g.Counter = n
	st.started = append(st.started, g)
}

// Lookup finds a running game by name and counter, as quoted in a
// reconnect identifier.  Finished games cannot be rejoined.
func (st *State) Lookup(name string, counter int) *austerity.Game {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, g := range st.started {
		if g.Name == name && g.Counter == counter && !g.Finished() {
			return g
		}
	}
	return nil
}

// AllGames returns every game the server has constructed, running or
// finished.
func (st *State) AllGames() []*austerity.Game {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]*austerity.Game(nil), st.started...)
}
