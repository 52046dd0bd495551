// Random strategy
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
	"math/rand"
	"time"

	"austerity"
	"austerity/proto"
)

type random struct {
	rng *rand.Rand
}

// MakeRandom returns the strategy that plays any legal move with
// equal probability.  Taking a wild is always legal, so the choice
// is never empty.
func MakeRandom() Strategy {
	return &random{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (*random) String() string { return "random" }

func (r *random) Choose(view *austerity.Game, self *austerity.Player) proto.Move {
	moves := []proto.Move{proto.TakeWild{}}

	for i, card := range view.Board {
		if spend, ok := self.Spend(card); ok {
			moves = append(moves, proto.Purchase{Index: i, Spend: spend})
		}
	}

	// Every three-colour combination drawn from non-empty piles.
	for a := 0; a < austerity.Colours; a++ {
		for b := a + 1; b < austerity.Colours; b++ {
			for c := b + 1; c < austerity.Colours; c++ {
				if view.Pool[a] == 0 || view.Pool[b] == 0 ||
					view.Pool[c] == 0 {
					continue
				}
				var take austerity.Take
				take[a], take[b], take[c] = 1, 1, 1
				moves = append(moves, proto.TakeTokens{Take: take})
			}
		}
	}

	return moves[r.rng.Intn(len(moves))]
}
