// Cards, colours and tokens
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
	"regexp"
	"strconv"
	"strings"
)

// A Colour identifies one of the four token colours, or the wild
// pseudo-colour.  The numeric order (purple, brown, yellow, red) is
// the order every wire message lists token counts in.
type Colour uint8

const (
	Purple Colour = iota
	Brown
	Yellow
	Red
	Wild

	// Colours is the number of non-wild colours.
	Colours = 4
)

func (c Colour) String() string {
	switch c {
	case Purple:
		return "P"
	case Brown:
		return "B"
	case Yellow:
		return "Y"
	case Red:
		return "R"
	case Wild:
		return "W"
	default:
		panic("Unknown colour")
	}
}

// ParseColour interprets a one-letter colour name.  Wild has no
// letter on the wire and is not accepted.
func ParseColour(s string) (Colour, bool) {
	switch s {
	case "P":
		return Purple, true
	case "B":
		return Brown, true
	case "Y":
		return Yellow, true
	case "R":
		return Red, true
	default:
		return 0, false
	}
}

// Tokens counts tokens per colour, wilds included.
type Tokens [5]int

// Take counts requested board tokens per non-wild colour.
type Take [Colours]int

// Sum returns the total number of tokens in t.
func (t Tokens) Sum() int {
	var n int
	for _, k := range t {
		n += k
	}
	return n
}

// A Card is immutable after construction.  Owning it grants a
// permanent one-token discount on its colour and Value points.
type Card struct {
	Discount Colour
	Value    int
	Price    [Colours]int
}

// String renders the card in its wire and deckfile form,
// D:V:pP,pB,pY,pR.
func (c Card) String() string {
	return fmt.Sprintf("%s:%d:%d,%d,%d,%d",
		c.Discount, c.Value,
		c.Price[Purple], c.Price[Brown],
		c.Price[Yellow], c.Price[Red])
}

var cardPattern = regexp.MustCompile(`^([PBYR]):(\d+):(\d+),(\d+),(\d+),(\d+)$`)

// ParseCard interprets a card descriptor as found in deckfiles and
// newcard messages.  The shape is strict: no whitespace, no signs, no
// trailing bytes.
func ParseCard(s string) (Card, error) {
	var c Card

	parts := cardPattern.FindStringSubmatch(s)
	if parts == nil {
		return c, fmt.Errorf("malformed card %q", s)
	}

	c.Discount, _ = ParseColour(parts[1])
	nums := make([]int, 5)
	for i, p := range parts[2:] {
		n, err := strconv.Atoi(p)
		if err != nil {
			return c, fmt.Errorf("malformed card %q: %v", s, err)
		}
		nums[i] = n
	}
	c.Value = nums[0]
	copy(c.Price[:], nums[1:])

	return c, nil
}

// ParseCount interprets a strictly non-negative decimal integer:
// digits only, no signs, no surrounding space.
func ParseCount(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Letter maps a 0-based player slot to its display letter.
func Letter(id int) byte {
	if id < 0 || id >= MaxPlayers {
		panic("Slot out of range")
	}
	return byte('A' + id)
}

// Slot maps a display letter back to a player slot, checking it
// against the game size.
func Slot(letter byte, players int) (int, bool) {
	id := int(letter) - 'A'
	if id < 0 || id >= players {
		return 0, false
	}
	return id, true
}

// ValidName reports whether a game or player name is acceptable:
// non-empty, no commas, no newlines.
func ValidName(name string) bool {
	return name != "" && !strings.ContainsAny(name, ",\n")
}
