// Move rules
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

// Spend computes the canonical decomposition of buying c: for each
// colour the outstanding price after discounts is paid from the
// player's coloured tokens first, and wilds cover only what remains.
// ok is false when even the wilds cannot close the gap.
func (p *Player) Spend(c Card) (spend Tokens, ok bool) {
	var wilds int
	for i := 0; i < Colours; i++ {
		need := c.Price[i] - p.Discounts[i]
		if need < 0 {
			need = 0
		}
		pay := need
		if pay > p.Tokens[i] {
			pay = p.Tokens[i]
		}
		spend[i] = pay
		wilds += need - pay
	}
	spend[Wild] = wilds
	return spend, wilds <= p.Tokens[Wild]
}

// Affordable reports whether p can purchase c at all.
func (p *Player) Affordable(c Card) bool {
	_, ok := p.Spend(c)
	return ok
}

// LegalPurchase reports whether p may buy board card i with exactly
// the proposed tokens.  Wilds must never replace a coloured token
// the player still holds, so only the canonical decomposition is
// accepted.
func (g *Game) LegalPurchase(p *Player, i int, t Tokens) bool {
	if i < 0 || i >= len(g.Board) {
		return false
	}
	spend, ok := p.Spend(g.Board[i])
	return ok && t == spend
}

// Purchase applies a legal purchase and returns the bought card.
// Coloured tokens return to the board pool, wilds are discarded, the
// board shifts down.  Refilling the freed slot from the deck is the
// caller's business.
func (g *Game) Purchase(p *Player, i int, t Tokens) Card {
	if !g.LegalPurchase(p, i, t) {
		panic("Illegal purchase")
	}

	card := g.Board[i]
	g.Board = append(g.Board[:i], g.Board[i+1:]...)

	for c := 0; c < Colours; c++ {
		p.Tokens[c] -= t[c]
		g.Pool[c] += t[c]
	}
	p.Tokens[Wild] -= t[Wild]

	p.Discounts[card.Discount]++
	p.Score += card.Value
	return card
}

// LegalTake reports whether t is a valid token take: exactly three
// distinct colours, one token each, all from non-empty piles.
func (g *Game) LegalTake(t Take) bool {
	ones := 0
	for c := 0; c < Colours; c++ {
		switch t[c] {
		case 0:
		case 1:
			if g.Pool[c] == 0 {
				return false
			}
			ones++
		default:
			return false
		}
	}
	return ones == TakeSize
}

// TakeTokens applies a legal take, moving the tokens from the board
// pool to the player.
func (g *Game) TakeTokens(p *Player, t Take) {
	if !g.LegalTake(t) {
		panic("Illegal take")
	}
	for c := 0; c < Colours; c++ {
		g.Pool[c] -= t[c]
		p.Tokens[c] += t[c]
	}
}

// TakeWild hands p a wild token.  Always legal; the board is not
// touched.
func (g *Game) TakeWild(p *Player) {
	p.Tokens[Wild]++
}
