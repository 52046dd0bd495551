// Game driving
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

package game

import (
	"sync"

	"austerity"
	"austerity/conf"
	"austerity/proto"
)

// The coordinator consumes the games the lobby fills and runs one
// driver goroutine per game.  Each driver owns its game's state and
// its players' transports until the game ends.
type coord struct {
	st   *conf.State
	wait sync.WaitGroup
}

// Prepare creates the game coordinator and registers it.
func Prepare(st *conf.State) {
	st.Register(&coord{st: st})
}

func (*coord) String() string { return "Game coordinator" }

func (m *coord) Start(st *conf.State) {
	for {
		select {
		case g := <-st.Games:
			m.wait.Add(1)
			go func() {
				defer m.wait.Done()
				m.play(g)
			}()
		case <-st.Ctx.Done():
			return
		}
	}
}

// Shutdown ends every game the server ever constructed.  Finish is
// idempotent, so games that already ended ignore the call; the rest
// get their eog, have their sockets closed and their reconnect waits
// woken.  Then the drivers are joined.
func (m *coord) Shutdown() {
	for _, g := range m.st.AllGames() {
		g.Finish(proto.EndOfGame{}.String())
	}
	m.wait.Wait()
}

// play drives one game from the startup burst to its end.
func (m *coord) play(g *austerity.Game) {
	st := m.st
	log.Infof("Starting %s with %d players", g, len(g.Players))
	st.DB.RecordGame(st.Ctx, g)
	defer st.DB.FinishGame(st.Ctx, g)

	for _, p := range g.Players {
		m.send(p, proto.Rid{Name: g.Name, Counter: g.Counter, Slot: p.Id})
		m.send(p, proto.PlayInfo{Letter: p.Letter(), Players: len(g.Players)})
		m.send(p, proto.StartTokens{Count: g.Init})
		st.DB.RecordStanding(st.Ctx, g, p)
	}
	for {
		card, ok := g.Draw()
		if !ok {
			break
		}
		m.broadcast(g, proto.NewCard{Card: card})
	}

	for {
		for _, p := range g.Players {
			if g.Finished() {
				return
			}
			if g.BoardEmpty() {
				log.Infof("%s: market exhausted", g)
				g.Finish(proto.EndOfGame{}.String())
				return
			}
			if !m.turn(g, p) {
				return
			}
		}
		// Scores only end the game at round boundaries, so that
		// every player has acted once since the trigger.
		if g.ScoreReached() {
			log.Infof("%s: goal reached", g)
			g.Finish(proto.EndOfGame{}.String())
			return
		}
	}
}

// turn prompts p for one move and applies it.  It reports false when
// the game ended: two invalid replies in a row, a disconnect past
// the reconnect window, or a shutdown observed on the way.  A strike
// survives a mid-turn reconnect.
func (m *coord) turn(g *austerity.Game, p *austerity.Player) bool {
	struck := false
	for {
		m.send(p, proto.DoWhat{})
		line, err := p.Conn.Recv()
		if err != nil {
			if g.Finished() {
				return false
			}
			log.Infof("%s: %c disconnected", g, p.Letter())
			if _, ok := g.WaitReconnect(p.Id, m.st.Timeout); !ok {
				log.Infof("%s: %c never came back", g, p.Letter())
				g.Finish(proto.Disco{Letter: p.Letter()}.String())
				return false
			}
			log.Infof("%s: %c reconnected", g, p.Letter())
			continue
		}

		if m.apply(g, p, line) {
			m.st.DB.RecordStanding(m.st.Ctx, g, p)
			return true
		}
		if struck {
			log.Infof("%s: %c sent two invalid messages", g, p.Letter())
			g.Finish(proto.Invalid{Letter: p.Letter()}.String())
			return false
		}
		struck = true
	}
}

// apply validates and executes one reply, broadcasting the matching
// state-change message.  It reports whether the reply was a legal
// move.
func (m *coord) apply(g *austerity.Game, p *austerity.Player, line string) bool {
	move, err := proto.ParseMove(line)
	if err != nil {
		log.Debugf("%s: %c: %s", g, p.Letter(), err)
		return false
	}

	switch mv := move.(type) {
	case proto.TakeWild:
		g.TakeWild(p)
		m.broadcast(g, proto.TookWild{Letter: p.Letter()})
	case proto.TakeTokens:
		if !g.LegalTake(mv.Take) {
			return false
		}
		g.TakeTokens(p, mv.Take)
		m.broadcast(g, proto.Took{Letter: p.Letter(), Take: mv.Take})
	case proto.Purchase:
		if !g.LegalPurchase(p, mv.Index, mv.Spend) {
			return false
		}
		g.Purchase(p, mv.Index, mv.Spend)
		m.broadcast(g, proto.Purchased{
			Letter: p.Letter(),
			Index:  mv.Index,
			Spent:  mv.Spend,
		})
		if card, ok := g.Draw(); ok {
			m.broadcast(g, proto.NewCard{Card: card})
		}
	}
	return true
}

// send writes one event to a single player.  Write failures are left
// alone; a dead peer surfaces as EOF when its turn comes.
func (m *coord) send(p *austerity.Player, e proto.Event) {
	if p.Conn == nil {
		return
	}
	_ = p.Conn.Send(e.String())
}

// broadcast writes one event to every player, in seat order.
func (m *coord) broadcast(g *austerity.Game, e proto.Event) {
	line := e.String()
	for _, p := range g.Players {
		if p.Conn == nil {
			continue
		}
		_ = p.Conn.Send(line)
	}
}
