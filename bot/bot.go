// Player strategies
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

package bot

import (
	"fmt"

	"austerity"
	"austerity/proto"
)

// A Strategy picks one move from a player's current view of a game.
// The view tracks the board, the token pool and every player's
// holdings; self is the seat the strategy plays.
type Strategy interface {
	fmt.Stringer
	Choose(view *austerity.Game, self *austerity.Player) proto.Move
}

// Make returns the named strategy.
func Make(name string) (Strategy, bool) {
	switch name {
	case "greedy":
		return MakeGreedy(), true
	case "random":
		return MakeRandom(), true
	default:
		return nil, false
	}
}

// fullTake picks one token from each of the first three non-empty
// piles, in colour order.  It reports false when fewer than three
// piles are non-empty, in which case no take is possible at all.
func fullTake(view *austerity.Game) (austerity.Take, bool) {
	var take austerity.Take
	n := 0
	for c := 0; c < austerity.Colours && n < austerity.TakeSize; c++ {
		if view.Pool[c] > 0 {
			take[c] = 1
			n++
		}
	}
	return take, n == austerity.TakeSize
}
