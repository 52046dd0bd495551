// Manager registration and coordination
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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"austerity"
)

// A Manager implements a self-contained aspect of the server.  Every
// manager is started in its own goroutine and shut down in reverse
// registration order when the server dies.
type Manager interface {
	fmt.Stringer
	Start(*State)
	Shutdown()
}

// A DatabaseManager records games and standings and serves the
// aggregated scoreboard.
type DatabaseManager interface {
	Manager
	RecordGame(context.Context, *austerity.Game)
	RecordStanding(context.Context, *austerity.Game, *austerity.Player)
	FinishGame(context.Context, *austerity.Game)
	Scores(context.Context) ([]Standing, error)
	Games(context.Context) ([]GameRecord, error)
}

// A Joiner admits an authenticated player into a pending game.
type Joiner interface {
	Manager
	Join(game, player string, entry Entry, conn austerity.Conn) error
}

// A Binder owns the listening sockets and can rebind them when the
// statfile is reloaded.
type Binder interface {
	Manager
	Rebind() error
}

// Register installs a manager, taking note of the special interfaces
// it satisfies.
func (st *State) Register(m Manager) {
	if st.run {
		panic("late manager registration")
	}
	switch v := m.(type) {
	case DatabaseManager:
		st.DB = v
	case Joiner:
		st.Joiner = v
	case Binder:
		st.Binder = v
	}
	st.man = append(st.man, m)
}

// Start launches all registered managers and blocks handling
// signals: SIGINT reloads the statfile and rebinds the listeners,
// SIGTERM initiates an orderly shutdown.  The returned error is the
// rebind failure, if that is what brought the server down.
func (st *State) Start() error {
	for _, m := range st.man {
		log.Debugf("Starting %s", m)
		go m.Start(st)
	}
	st.run = true

	ints := make(chan os.Signal, 1)
	terms := make(chan os.Signal, 1)
	signal.Notify(ints, syscall.SIGINT)
	signal.Notify(terms, syscall.SIGTERM)

	var reason error
wait:
	for {
		select {
		case <-ints:
			if st.Binder == nil {
				continue
			}
			log.Infof("Caught SIGINT, rebinding")
			if err := st.Binder.Rebind(); err != nil {
				reason = err
				break wait
			}
		case <-terms:
			log.Infof("Caught SIGTERM, shutting down")
			break wait
		case <-st.Ctx.Done():
			break wait
		}
	}
	signal.Stop(ints)
	signal.Stop(terms)
	st.Kill()

	for i := len(st.man) - 1; i >= 0; i-- {
		m := st.man[i]
		log.Debugf("Shutting down %s", m)
		m.Shutdown()
	}
	return reason
}
