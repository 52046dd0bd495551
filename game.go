// Game state
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

package austerity

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

const (
	// MinPlayers and MaxPlayers bound the size of a game.
	MinPlayers = 2
	MaxPlayers = 26

	// BoardSize is the maximum number of face-up cards.
	BoardSize = 8

	// TakeSize is the number of coloured tokens a take moves.
	TakeSize = 3
)

// Conn is one player's transport, a line-oriented bidirectional
// stream.  Send, Recv and Close may be called from different
// goroutines; Close must unblock a pending Recv.
type Conn interface {
	Send(line string) error
	Recv() (string, error)
	Close() error
}

// A Player holds one seat in a game.  The transport handle is
// replaced when the player reconnects.
type Player struct {
	Id        int
	Name      string
	Score     int
	Discounts [Colours]int
	Tokens    Tokens
	Conn      Conn
}

// Letter returns the player's display letter.
func (p *Player) Letter() byte {
	return Letter(p.Id)
}

// A waiter publishes "this slot is awaiting a replacement transport"
// from a game's driver to reconnect handlers.  A handler that claims
// the waiter owns the handoff and must deliver exactly once.
type waiter struct {
	slot    int
	claimed bool
	ch      chan Conn
}

// A Game owns everything a single match needs: the seats in turn
// order, its private deck copy, the face-up board and the coloured
// token pool.  All mutation happens on the driver goroutine; the
// mutex only guards the finish flag and the reconnect handoff.
type Game struct {
	Name    string
	Counter int
	Goal    int // points that trigger the end of the game
	Init    int // initial size of each coloured pile

	Players []*Player
	Deck    []Card
	Board   []Card
	Pool    [Colours]int

	mu       sync.Mutex
	finished bool
	wait     *waiter
	done     chan struct{}
}

// NewGame assembles a game from the players that filled a lobby.
// Seats are reordered by name ascending with ties broken by arrival
// order, and ids are reassigned to match.  The deck is copied so
// concurrent games never share draw state.
func NewGame(name string, goal, init int, deck []Card, seats []*Player) *Game {
	if len(seats) < MinPlayers || len(seats) > MaxPlayers {
		panic(fmt.Sprintf("Unplayable game size %d", len(seats)))
	}

	g := &Game{
		Name: name,
		Goal: goal,
		Init: init,
		done: make(chan struct{}),
	}
	g.Deck = make([]Card, len(deck))
	copy(g.Deck, deck)

	g.Players = make([]*Player, len(seats))
	copy(g.Players, seats)
	sort.SliceStable(g.Players, func(i, j int) bool {
		return g.Players[i].Name < g.Players[j].Name
	})
	for i, p := range g.Players {
		p.Id = i
	}

	for c := range g.Pool {
		g.Pool[c] = init
	}

	return g
}

// NewView builds the client-side image of a game: n anonymous seats,
// no deck, an empty board.  Pools are filled in once the initial
// tokens message arrives.
func NewView(n int) *Game {
	g := &Game{done: make(chan struct{})}
	for i := 0; i < n; i++ {
		g.Players = append(g.Players, &Player{Id: i})
	}
	return g
}

func (g *Game) String() string {
	return fmt.Sprintf("%s#%d", g.Name, g.Counter)
}

// Draw moves the top card of the deck onto the board.  It reports
// false when the deck is exhausted or the board is already full.
func (g *Game) Draw() (Card, bool) {
	if len(g.Deck) == 0 || len(g.Board) >= BoardSize {
		return Card{}, false
	}
	c := g.Deck[0]
	g.Deck = g.Deck[1:]
	g.Board = append(g.Board, c)
	return c, true
}

// BoardEmpty reports whether no cards are face up.
func (g *Game) BoardEmpty() bool {
	return len(g.Board) == 0
}

// ScoreReached reports whether any player has reached the goal.
func (g *Game) ScoreReached() bool {
	for _, p := range g.Players {
		if p.Score >= g.Goal {
			return true
		}
	}
	return false
}

// Finish ends the game exactly once: the given lines are sent to
// every player, all transports are closed and everyone blocked on
// the game is woken.  Later calls are ignored, which keeps a natural
// end and a server shutdown from both announcing one.
func (g *Game) Finish(lines ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished {
		return
	}
	g.finished = true

	for _, p := range g.Players {
		if p.Conn == nil {
			continue
		}
		for _, l := range lines {
			// The peer may already be gone; readers detect
			// that on their side.
			_ = p.Conn.Send(l)
		}
		p.Conn.Close()
	}

	close(g.done)
}

// Finished reports whether the game has ended.
func (g *Game) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.finished
}

// Done is closed once the game has finished.
func (g *Game) Done() <-chan struct{} {
	return g.done
}

// WaitReconnect publishes slot as disconnected and blocks until a
// reconnect handler delivers a replacement transport, the timeout
// elapses, or the game finishes.  A zero timeout fails immediately.
// Once a handler has claimed the slot its delivery is honoured even
// past the deadline, so the new transport cannot leak.  On success
// the replacement is also installed as the seat's Conn, under the
// same lock Finish takes.
func (g *Game) WaitReconnect(slot int, timeout time.Duration) (Conn, bool) {
	if timeout <= 0 {
		// Reconnection is disabled; never offer the seat.
		return nil, false
	}

	g.mu.Lock()
	if g.finished {
		g.mu.Unlock()
		return nil, false
	}
	w := &waiter{slot: slot, ch: make(chan Conn, 1)}
	g.wait = w
	g.mu.Unlock()

	var c Conn
	timer := time.NewTimer(timeout)
	select {
	case c = <-w.ch:
	case <-timer.C:
	case <-g.done:
	}
	timer.Stop()

	g.mu.Lock()
	if c == nil && w.claimed {
		// A handler committed to the slot before the deadline
		// passed; its delivery is imminent.
		g.mu.Unlock()
		c = <-w.ch
		g.mu.Lock()
	}
	g.wait = nil
	finished := g.finished
	if c != nil && !finished {
		g.Players[slot].Conn = c
	}
	g.mu.Unlock()

	if finished {
		if c != nil {
			c.Close()
		}
		return nil, false
	}
	return c, c != nil
}

// ClaimSeat tries to claim the published reconnect slot.  On success
// the caller owns the handoff: it must write its catchup and then
// call the returned deliver function exactly once.
func (g *Game) ClaimSeat(slot int) (func(Conn), bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	w := g.wait
	if g.finished || w == nil || w.slot != slot || w.claimed {
		return nil, false
	}
	w.claimed = true

	ch := w.ch
	return func(c Conn) { ch <- c }, true
}
