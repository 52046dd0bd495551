// Player client
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

package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"austerity"
	"austerity/bot"
	"austerity/conf"
	"austerity/proto"
)

// Exit codes of the fixed CLI contract.
const (
	exitOK = iota
	exitUsage
	exitKeyfile
	exitName
	_
	exitConnect
	exitAuth
	exitRid
	exitProtocol
	exitDisco
	exitInvalid
)

func die(code int, message string) int {
	fmt.Fprintln(os.Stderr, message)
	return code
}

// A client tracks its own view of the game from the broadcasts: the
// market, the token pool and every player's holdings.  The strategy
// is consulted on each dowhat.
type client struct {
	cli   *proto.Client
	strat bot.Strategy
	view  *austerity.Game
	self  *austerity.Player
}

func run() int {
	strategy := flag.String("strategy", "greedy", "move strategy (greedy or random)")
	flag.Parse()
	if flag.NArg() != 4 {
		return die(exitUsage, "Usage: zazu keyfile port game pname")
	}
	args := flag.Args()

	strat, ok := bot.Make(*strategy)
	if !ok {
		return die(exitUsage, "Usage: zazu keyfile port game pname")
	}
	key, err := conf.LoadKey(args[0])
	if err != nil {
		return die(exitKeyfile, "Bad key file")
	}
	port, ok := austerity.ParseCount(args[1])
	if !ok || port < 1 || port > 65535 {
		return die(exitUsage, "Usage: zazu keyfile port game pname")
	}

	// The literal game name "reconnect" asks to resume a seat; the
	// player name is then a reconnect id instead.
	game, pname := args[2], args[3]
	reconnect := game == proto.KeywordReconnect
	if reconnect {
		if _, err := proto.ParseRid(proto.KeywordRid + pname); err != nil {
			return die(exitRid, "Bad reconnect id")
		}
	} else if !austerity.ValidName(game) || !austerity.ValidName(pname) {
		return die(exitName, "Bad name")
	}

	conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return die(exitConnect, "Failed to connect")
	}
	cli := proto.Wrap(conn)
	defer cli.Close()

	word := proto.KeywordPlay
	if reconnect {
		word = proto.KeywordReconnect
	}
	cli.Send(word + key)
	if line, err := cli.Recv(); err != nil || line != proto.Yes {
		return die(exitAuth, "Bad auth")
	}

	if reconnect {
		cli.Send(proto.KeywordRid + pname)
		if line, err := cli.Recv(); err != nil || line != proto.Yes {
			return die(exitRid, "Bad reconnect id")
		}
	} else {
		cli.Send(game)
		cli.Send(pname)
	}

	c := &client{cli: cli, strat: strat}
	return c.play()
}

// play consumes server events until the game ends one way or the
// other.
func (c *client) play() int {
	for {
		line, err := c.cli.Recv()
		if err != nil {
			return die(exitProtocol, "Communication Error")
		}
		event, err := proto.ParseEvent(line)
		if err != nil {
			return die(exitProtocol, "Communication Error")
		}

		switch ev := event.(type) {
		case proto.Rid:
			fmt.Println(ev.Body())
			continue
		case proto.PlayInfo:
			view := austerity.NewView(ev.Players)
			slot, ok := austerity.Slot(ev.Letter, ev.Players)
			if !ok {
				return die(exitProtocol, "Communication Error")
			}
			c.view, c.self = view, view.Players[slot]
			continue
		case proto.EndOfGame:
			fmt.Fprintf(os.Stderr, "Game over. Winners are %s\n",
				c.winners())
			return exitOK
		case proto.Disco:
			fmt.Fprintf(os.Stderr, "Player %c disconnected\n", ev.Letter)
			return exitDisco
		case proto.Invalid:
			fmt.Fprintf(os.Stderr, "Player %c sent invalid message\n",
				ev.Letter)
			return exitInvalid
		}

		// Everything else needs an established view.
		if c.view == nil {
			return die(exitProtocol, "Communication Error")
		}
		if !c.apply(event) {
			return die(exitProtocol, "Communication Error")
		}
	}
}

// apply folds one event into the view.  A broadcast that is not
// legal against the view means the server misbehaved (or the view
// drifted, which amounts to the same).
func (c *client) apply(event proto.Event) bool {
	switch ev := event.(type) {
	case proto.StartTokens:
		c.view.Init = ev.Count
		for i := range c.view.Pool {
			c.view.Pool[i] = ev.Count
		}
	case proto.NewCard:
		if len(c.view.Board) >= austerity.BoardSize {
			return false
		}
		c.view.Board = append(c.view.Board, ev.Card)
		c.render()
	case proto.Purchased:
		p := c.player(ev.Letter)
		if p == nil || !c.view.LegalPurchase(p, ev.Index, ev.Spent) {
			return false
		}
		c.view.Purchase(p, ev.Index, ev.Spent)
		c.render()
	case proto.Took:
		p := c.player(ev.Letter)
		if p == nil || !c.view.LegalTake(ev.Take) {
			return false
		}
		c.view.TakeTokens(p, ev.Take)
		c.render()
	case proto.TookWild:
		p := c.player(ev.Letter)
		if p == nil {
			return false
		}
		c.view.TakeWild(p)
		c.render()
	case proto.PlayerState:
		// A reconnect catchup line.  The pool is not sent; it is
		// the initial pile minus everyone's current holdings.
		p := c.player(ev.Letter)
		if p == nil {
			return false
		}
		p.Score = ev.Score
		p.Discounts = ev.Discounts
		p.Tokens = ev.Tokens
		for i := range c.view.Pool {
			held := 0
			for _, q := range c.view.Players {
				held += q.Tokens[i]
			}
			c.view.Pool[i] = c.view.Init - held
		}
	case proto.DoWhat:
		fmt.Println("Received dowhat")
		move := c.strat.Choose(c.view, c.self)
		c.cli.Send(move.String())
	default:
		return false
	}
	return true
}

func (c *client) player(letter byte) *austerity.Player {
	slot, ok := austerity.Slot(letter, len(c.view.Players))
	if !ok {
		return nil
	}
	return c.view.Players[slot]
}

// render prints the market and every player's holdings.
func (c *client) render() {
	for i, card := range c.view.Board {
		fmt.Printf("Card %d:%s/%d/%d,%d,%d,%d\n", i,
			card.Discount, card.Value,
			card.Price[austerity.Purple], card.Price[austerity.Brown],
			card.Price[austerity.Yellow], card.Price[austerity.Red])
	}
	for _, p := range c.view.Players {
		fmt.Printf("Player %c:%d:Discounts=%d,%d,%d,%d:Tokens=%d,%d,%d,%d,%d\n",
			p.Letter(), p.Score,
			p.Discounts[austerity.Purple], p.Discounts[austerity.Brown],
			p.Discounts[austerity.Yellow], p.Discounts[austerity.Red],
			p.Tokens[austerity.Purple], p.Tokens[austerity.Brown],
			p.Tokens[austerity.Yellow], p.Tokens[austerity.Red],
			p.Tokens[austerity.Wild])
	}
}

// winners lists the letters of the players sharing the top score.
func (c *client) winners() string {
	if c.view == nil {
		return ""
	}
	top := 0
	for _, p := range c.view.Players {
		if p.Score > top {
			top = p.Score
		}
	}
	var letters []string
	for _, p := range c.view.Players {
		if p.Score == top {
			letters = append(letters, string(p.Letter()))
		}
	}
	return strings.Join(letters, ",")
}

func main() {
	os.Exit(run())
}
