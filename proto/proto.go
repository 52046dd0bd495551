// Wire protocol messages
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
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"austerity"
)

// Handshake vocabulary.  The first line of every connection is a
// keyword, possibly followed by the authentication key.
const (
	Yes = "yes"
	No  = "no"

	KeywordPlay      = "play"
	KeywordReconnect = "reconnect"
	KeywordScores    = "scores"
	KeywordRid       = "rid"
)

// ScoresHeader opens every scoreboard dump.
const ScoresHeader = "Player Name,Total Tokens,Total Points"

// ErrMalformed is returned for any line that does not match the
// protocol exactly.  The protocol is strict: no whitespace, no signs,
// no trailing bytes.
var ErrMalformed = errors.New("malformed message")

// An Event is one server-to-player message.  Its String method
// renders the exact wire form, without the final newline.
type Event interface {
	fmt.Stringer
	event()
}

// A Move is one player-to-server message.
type Move interface {
	fmt.Stringer
	move()
}

// Rid carries a player's reconnect identifier, sent once when their
// lobby closes.
type Rid struct {
	Name    string
	Counter int
	Slot    int
}

// PlayInfo tells a player their letter and the size of the game.
type PlayInfo struct {
	Letter  byte
	Players int
}

// StartTokens announces the initial size of each coloured pile.
type StartTokens struct {
	Count int
}

// NewCard announces a card added to the market.
type NewCard struct {
	Card austerity.Card
}

// Purchased announces a valid purchase, quoting the exact tokens
// spent.
type Purchased struct {
	Letter byte
	Index  int
	Spent  austerity.Tokens
}

// Took announces a valid token take.
type Took struct {
	Letter byte
	Take   austerity.Take
}

// TookWild announces a wild take.
type TookWild struct {
	Letter byte
}

// DoWhat solicits the addressed player's move.
type DoWhat struct{}

// EndOfGame announces a normal end of game.
type EndOfGame struct{}

// Disco announces that the game died because a player stayed
// disconnected past the timeout.
type Disco struct {
	Letter byte
}

// Invalid announces that the game died because a player sent two
// invalid messages in a row.
type Invalid struct {
	Letter byte
}

// PlayerState is one reconnect catchup line, describing a single
// player in full.
type PlayerState struct {
	Letter    byte
	Score     int
	Discounts [austerity.Colours]int
	Tokens    austerity.Tokens
}

// TakeWild requests one wild token.
type TakeWild struct{}

// TakeTokens requests board tokens.
type TakeTokens struct {
	Take austerity.Take
}

// Purchase requests a card purchase, quoting the tokens to spend.
type Purchase struct {
	Index int
	Spend austerity.Tokens
}

func (Rid) event()         {}
func (PlayInfo) event()    {}
func (StartTokens) event() {}
func (NewCard) event()     {}
func (Purchased) event()   {}
func (Took) event()        {}
func (TookWild) event()    {}
func (DoWhat) event()      {}
func (EndOfGame) event()   {}
func (Disco) event()       {}
func (Invalid) event()     {}
func (PlayerState) event() {}

func (TakeWild) move()   {}
func (TakeTokens) move() {}
func (Purchase) move()   {}

// Body renders the reconnect identifier without the keyword, the
// form a player quotes when reconnecting.
func (m Rid) Body() string {
	return fmt.Sprintf("%s,%d,%d", m.Name, m.Counter, m.Slot)
}

func (m Rid) String() string {
	return KeywordRid + m.Body()
}

func (m PlayInfo) String() string {
	return fmt.Sprintf("playinfo%c/%d", m.Letter, m.Players)
}

func (m StartTokens) String() string {
	return fmt.Sprintf("tokens%d", m.Count)
}

func (m NewCard) String() string {
	return "newcard" + m.Card.String()
}

func (m Purchased) String() string {
	return fmt.Sprintf("purchased%c:%d:%d,%d,%d,%d,%d",
		m.Letter, m.Index,
		m.Spent[austerity.Purple], m.Spent[austerity.Brown],
		m.Spent[austerity.Yellow], m.Spent[austerity.Red],
		m.Spent[austerity.Wild])
}

func (m Took) String() string {
	return fmt.Sprintf("took%c:%d,%d,%d,%d",
		m.Letter,
		m.Take[austerity.Purple], m.Take[austerity.Brown],
		m.Take[austerity.Yellow], m.Take[austerity.Red])
}

func (m TookWild) String() string {
	return fmt.Sprintf("wild%c", m.Letter)
}

func (DoWhat) String() string {
	return "dowhat"
}

func (EndOfGame) String() string {
	return "eog"
}

func (m Disco) String() string {
	return fmt.Sprintf("disco%c", m.Letter)
}

func (m Invalid) String() string {
	return fmt.Sprintf("invalid%c", m.Letter)
}

func (m PlayerState) String() string {
	return fmt.Sprintf("player%c:%d:d=%d,%d,%d,%d:t=%d,%d,%d,%d,%d",
		m.Letter, m.Score,
		m.Discounts[austerity.Purple], m.Discounts[austerity.Brown],
		m.Discounts[austerity.Yellow], m.Discounts[austerity.Red],
		m.Tokens[austerity.Purple], m.Tokens[austerity.Brown],
		m.Tokens[austerity.Yellow], m.Tokens[austerity.Red],
		m.Tokens[austerity.Wild])
}

func (TakeWild) String() string {
	return "wild"
}

func (m TakeTokens) String() string {
	return fmt.Sprintf("take%d,%d,%d,%d",
		m.Take[austerity.Purple], m.Take[austerity.Brown],
		m.Take[austerity.Yellow], m.Take[austerity.Red])
}

func (m Purchase) String() string {
	return fmt.Sprintf("purchase%d:%d,%d,%d,%d,%d",
		m.Index,
		m.Spend[austerity.Purple], m.Spend[austerity.Brown],
		m.Spend[austerity.Yellow], m.Spend[austerity.Red],
		m.Spend[austerity.Wild])
}

// Anchored patterns for every fixed-shape payload.
var (
	ridPattern       = regexp.MustCompile(`^rid([^,]+),(\d+),(\d+)$`)
	playInfoPattern  = regexp.MustCompile(`^playinfo([A-Z])/(\d+)$`)
	tokensPattern    = regexp.MustCompile(`^tokens(\d+)$`)
	purchasedPattern = regexp.MustCompile(`^purchased([A-Z]):(\d+):(\d+),(\d+),(\d+),(\d+),(\d+)$`)
	tookPattern      = regexp.MustCompile(`^took([A-Z]):(\d+),(\d+),(\d+),(\d+)$`)
	wildPattern      = regexp.MustCompile(`^wild([A-Z])$`)
	discoPattern     = regexp.MustCompile(`^disco([A-Z])$`)
	invalidPattern   = regexp.MustCompile(`^invalid([A-Z])$`)
	playerPattern    = regexp.MustCompile(`^player([A-Z]):(\d+):` +
		`d=(\d+),(\d+),(\d+),(\d+):` +
		`t=(\d+),(\d+),(\d+),(\d+),(\d+)$`)

	takePattern     = regexp.MustCompile(`^take(\d+),(\d+),(\d+),(\d+)$`)
	purchasePattern = regexp.MustCompile(`^purchase(\d+):(\d+),(\d+),(\d+),(\d+),(\d+)$`)
)

// counts converts pattern submatches to numbers.  The patterns only
// pass digits, so the sole failure left is overflow.
func counts(parts []string) ([]int, error) {
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformed, p)
		}
		nums[i] = n
	}
	return nums, nil
}

// ParseRid interprets a reconnect identifier line, as sent by the
// server when a lobby closes and quoted back by a reconnecting
// player.
func ParseRid(line string) (Rid, error) {
	parts := ridPattern.FindStringSubmatch(line)
	if parts == nil || !austerity.ValidName(parts[1]) {
		return Rid{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	nums, err := counts(parts[2:])
	if err != nil {
		return Rid{}, err
	}
	return Rid{Name: parts[1], Counter: nums[0], Slot: nums[1]}, nil
}

// ParseMove interprets a player-to-server line.  Only the shape is
// checked here; whether the move is legal is for the rules to
// decide.
func ParseMove(line string) (Move, error) {
	if line == "wild" {
		return TakeWild{}, nil
	}
	if parts := takePattern.FindStringSubmatch(line); parts != nil {
		nums, err := counts(parts[1:])
		if err != nil {
			return nil, err
		}
		var take austerity.Take
		copy(take[:], nums)
		return TakeTokens{Take: take}, nil
	}
	if parts := purchasePattern.FindStringSubmatch(line); parts != nil {
		nums, err := counts(parts[1:])
		if err != nil {
			return nil, err
		}
		var spend austerity.Tokens
		copy(spend[:], nums[1:])
		return Purchase{Index: nums[0], Spend: spend}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrMalformed, line)
}

// ParseEvent interprets a server-to-player line.
func ParseEvent(line string) (Event, error) {
	switch line {
	case "dowhat":
		return DoWhat{}, nil
	case "eog":
		return EndOfGame{}, nil
	}

	if strings.HasPrefix(line, KeywordRid) {
		rid, err := ParseRid(line)
		if err != nil {
			return nil, err
		}
		return rid, nil
	}
	if strings.HasPrefix(line, "newcard") {
		card, err := austerity.ParseCard(line[len("newcard"):])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformed, line)
		}
		return NewCard{Card: card}, nil
	}

	if parts := playInfoPattern.FindStringSubmatch(line); parts != nil {
		nums, err := counts(parts[2:])
		if err != nil {
			return nil, err
		}
		return PlayInfo{Letter: parts[1][0], Players: nums[0]}, nil
	}
	if parts := tokensPattern.FindStringSubmatch(line); parts != nil {
		nums, err := counts(parts[1:])
		if err != nil {
			return nil, err
		}
		return StartTokens{Count: nums[0]}, nil
	}
	if parts := purchasedPattern.FindStringSubmatch(line); parts != nil {
		nums, err := counts(parts[2:])
		if err != nil {
			return nil, err
		}
		var spent austerity.Tokens
		copy(spent[:], nums[1:])
		return Purchased{Letter: parts[1][0], Index: nums[0], Spent: spent}, nil
	}
	if parts := tookPattern.FindStringSubmatch(line); parts != nil {
		nums, err := counts(parts[2:])
		if err != nil {
			return nil, err
		}
		var take austerity.Take
		copy(take[:], nums)
		return Took{Letter: parts[1][0], Take: take}, nil
	}
	if parts := wildPattern.FindStringSubmatch(line); parts != nil {
		return TookWild{Letter: parts[1][0]}, nil
	}
	if parts := discoPattern.FindStringSubmatch(line); parts != nil {
		return Disco{Letter: parts[1][0]}, nil
	}
	if parts := invalidPattern.FindStringSubmatch(line); parts != nil {
		return Invalid{Letter: parts[1][0]}, nil
	}
	if parts := playerPattern.FindStringSubmatch(line); parts != nil {
		nums, err := counts(parts[2:])
		if err != nil {
			return nil, err
		}
		var state PlayerState
		state.Letter = parts[1][0]
		state.Score = nums[0]
		copy(state.Discounts[:], nums[1:5])
		copy(state.Tokens[:], nums[5:])
		return state, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrMalformed, line)
}
