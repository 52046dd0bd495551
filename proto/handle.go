// Connection handling
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

package proto

import (
	"fmt"
	"io"
	"strings"
	"time"

	"austerity"
	"austerity/conf"
)

// Serve runs the connection handshake on an arbitrary transport,
// e.g. a websocket adapted into a byte stream.  The entry supplies
// the game parameters if the caller turns out to be a new joiner.
func Serve(st *conf.State, rwc io.ReadWriteCloser, entry conf.Entry) {
	handle(st, Wrap(rwc), entry)
}

// handle performs the handshake on a fresh connection and runs the
// matching flow.  NEW and RECONNECT pass transport ownership on; in
// every other case the handler closes the connection itself.
func handle(st *conf.State, cli *Client, entry conf.Entry) {
	line, err := cli.Recv()
	if err != nil {
		cli.Close()
		return
	}

	switch {
	case line == KeywordScores:
		scores(st, cli)
	case strings.HasPrefix(line, KeywordPlay) &&
		line[len(KeywordPlay):] == st.Key:
		join(st, cli, entry)
	case strings.HasPrefix(line, KeywordReconnect) &&
		line[len(KeywordReconnect):] == st.Key:
		reconnect(st, cli)
	default:
		cli.Send(No)
		cli.Close()
	}
}

// join admits a new player: two more lines name the game and the
// player, then the lobby takes the transport.
func join(st *conf.State, cli *Client, entry conf.Entry) {
	if err := cli.Send(Yes); err != nil {
		cli.Close()
		return
	}

	game, err := cli.Recv()
	if err != nil || !austerity.ValidName(game) {
		cli.Close()
		return
	}
	player, err := cli.Recv()
	if err != nil || !austerity.ValidName(player) {
		cli.Close()
		return
	}

	if err := st.Joiner.Join(game, player, entry, cli); err != nil {
		log.Debugf("Refusing %q for %q: %s", player, game, err)
		cli.Close()
	}
}

// reconnect reads a reconnect identifier and waits for its game to
// offer the quoted seat.  Once the seat is claimed the handler owns
// the handoff: it writes the second yes and the full catchup, then
// delivers the transport to the waiting driver.
func reconnect(st *conf.State, cli *Client) {
	if err := cli.Send(Yes); err != nil {
		cli.Close()
		return
	}

	line, err := cli.Recv()
	if err != nil {
		cli.Close()
		return
	}
	rid, err := ParseRid(line)
	if err != nil {
		cli.Send(No)
		cli.Close()
		return
	}

	g := st.Lookup(rid.Name, rid.Counter)
	if g == nil {
		cli.Send(No)
		cli.Close()
		return
	}
	if rid.Slot < 0 || rid.Slot >= len(g.Players) {
		cli.Send(No)
		cli.Close()
		return
	}

	for {
		if deliver, ok := g.ClaimSeat(rid.Slot); ok {
			catchup(g, rid.Slot, cli)
			deliver(cli)
			return
		}
		if g.Finished() {
			cli.Send(No)
			cli.Close()
			return
		}
		select {
		case <-time.After(st.Poll):
		case <-g.Done():
		}
	}
}

// catchup brings a reconnected player up to date.  The driver is
// blocked awaiting delivery while this runs, so the game state is
// stable.  Write errors are left for the driver to discover.
func catchup(g *austerity.Game, slot int, cli *Client) {
	cli.Send(Yes)
	p := g.Players[slot]
	cli.Send(PlayInfo{Letter: p.Letter(), Players: len(g.Players)}.String())
	cli.Send(StartTokens{Count: g.Init}.String())
	for _, card := range g.Board {
		cli.Send(NewCard{Card: card}.String())
	}
	for _, q := range g.Players {
		cli.Send(PlayerState{
			Letter:    q.Letter(),
			Score:     q.Score,
			Discounts: q.Discounts,
			Tokens:    q.Tokens,
		}.String())
	}
}

// scores dumps the aggregated scoreboard as CSV and closes the
// connection.
func scores(st *conf.State, cli *Client) {
	defer cli.Close()
	if err := cli.Send(Yes); err != nil {
		return
	}
	if err := cli.Send(ScoresHeader); err != nil {
		return
	}

	rows, err := st.DB.Scores(st.Ctx)
	if err != nil {
		log.Errorf("Failed to aggregate scores: %s", err)
		return
	}
	for _, row := range rows {
		line := fmt.Sprintf("%s,%d,%d", row.Name, row.Tokens, row.Points)
		if err := cli.Send(line); err != nil {
			return
		}
	}
}
