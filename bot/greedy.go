// Greedy strategy
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
	"austerity"
	"austerity/proto"
)

type greedy struct{}

// MakeGreedy returns the strategy that buys the most valuable
// affordable card, preferring the lowest index on ties.  When no
// card is affordable it takes three tokens, and failing that a wild.
func MakeGreedy() Strategy {
	return greedy{}
}

func (greedy) String() string { return "greedy" }

func (greedy) Choose(view *austerity.Game, self *austerity.Player) proto.Move {
	best := -1
	for i, card := range view.Board {
		if !self.Affordable(card) {
			continue
		}
		if best == -1 || card.Value > view.Board[best].Value {
			best = i
		}
	}
	if best != -1 {
		spend, _ := self.Spend(view.Board[best])
		return proto.Purchase{Index: best, Spend: spend}
	}

	if take, ok := fullTake(view); ok {
		return proto.TakeTokens{Take: take}
	}
	return proto.TakeWild{}
}
