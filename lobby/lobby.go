// Lobby matching
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

package lobby

import (
	"errors"
	"sync"

	"austerity"
	"austerity/conf"
)

var (
	// ErrShutdown is returned for joins during server shutdown.
	ErrShutdown = errors.New("server is shutting down")

	// ErrBadEntry is returned when a join carries an unplayable
	// statfile entry.
	ErrBadEntry = errors.New("unplayable statfile entry")
)

// A lobby accumulates players for one named game.  Its parameters are
// those of the statfile entry the first arrival came in through.
type lobby struct {
	entry conf.Entry
	seats []*austerity.Player
}

// Lobbies is the server's Joiner: it matches authenticated players
// into pending games by name and spawns a game once a lobby is full.
type Lobbies struct {
	st *conf.State

	mu   sync.Mutex
	open map[string]*lobby
	dead bool
}

// Prepare creates the lobby manager and registers it.
func Prepare(st *conf.State) *Lobbies {
	l := &Lobbies{st: st, open: make(map[string]*lobby)}
	st.Register(l)
	return l
}

func (*Lobbies) String() string { return "Lobby matcher" }

// Start does nothing; lobbies are driven by joining connections.
func (l *Lobbies) Start(*conf.State) {}

// Shutdown refuses further joins and disposes of the players still
// waiting in open lobbies.  Their games never started, so there is
// nothing to announce.
func (l *Lobbies) Shutdown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dead = true
	for _, pend := range l.open {
		for _, p := range pend.seats {
			p.Conn.Close()
		}
	}
	l.open = nil
}

// Join admits a player into the open lobby named game, creating it
// with entry's parameters if no such lobby exists.  On success the
// lobby owns conn.  The lobby that reaches its player count is closed
// and handed to the game coordinator as a fresh Game.
func (l *Lobbies) Join(game, player string, entry conf.Entry, conn austerity.Conn) error {
	l.mu.Lock()
	if l.dead {
		l.mu.Unlock()
		return ErrShutdown
	}

	pend := l.open[game]
	if pend == nil {
		if entry.Players < austerity.MinPlayers ||
			entry.Players > austerity.MaxPlayers {
			l.mu.Unlock()
			return ErrBadEntry
		}
		pend = &lobby{entry: entry}
		l.open[game] = pend
		log.Debugf("Opened lobby %q for %d players", game, entry.Players)
	}

	pend.seats = append(pend.seats, &austerity.Player{Name: player, Conn: conn})
	log.Debugf("Seated %q in %q (%d/%d)",
		player, game, len(pend.seats), pend.entry.Players)
	if len(pend.seats) < pend.entry.Players {
		l.mu.Unlock()
		return nil
	}

	// The lobby is full; close it before giving up the lock so a
	// racing join opens a fresh one.
	delete(l.open, game)
	l.mu.Unlock()

	g := austerity.NewGame(game, pend.entry.Goal, pend.entry.Tokens,
		l.st.Deck, pend.seats)
	l.st.Enroll(g)
	log.Infof("Lobby %q closed, starting %s", game, g)

	select {
	case l.st.Games <- g:
		return nil
	case <-l.st.Ctx.Done():
		return ErrShutdown
	}
}
