// Move rule tests
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

import "testing"

func TestSpend(t *testing.T) {
	for i, test := range []struct {
		tokens    Tokens
		discounts [Colours]int
		card      Card
		spend     Tokens
		ok        bool
	}{
		{
			// Paid entirely from coloured tokens.
			tokens: Tokens{1, 0, 0, 0, 0},
			card:   Card{Purple, 1, [Colours]int{1, 0, 0, 0}},
			spend:  Tokens{1, 0, 0, 0, 0},
			ok:     true,
		}, {
			// Free card.
			tokens: Tokens{0, 0, 0, 0, 0},
			card:   Card{Brown, 0, [Colours]int{0, 0, 0, 0}},
			spend:  Tokens{0, 0, 0, 0, 0},
			ok:     true,
		}, {
			// Discounts clamp the price at zero.
			tokens:    Tokens{0, 0, 0, 0, 0},
			discounts: [Colours]int{2, 0, 0, 0},
			card:      Card{Purple, 1, [Colours]int{1, 0, 0, 0}},
			spend:     Tokens{0, 0, 0, 0, 0},
			ok:        true,
		}, {
			// Wilds cover what colours cannot.
			tokens: Tokens{1, 0, 0, 0, 2},
			card:   Card{Yellow, 2, [Colours]int{2, 1, 0, 0}},
			spend:  Tokens{1, 0, 0, 0, 2},
			ok:     true,
		}, {
			// Coloured tokens are preferred over wilds.
			tokens: Tokens{2, 0, 0, 0, 5},
			card:   Card{Purple, 1, [Colours]int{2, 0, 0, 0}},
			spend:  Tokens{2, 0, 0, 0, 0},
			ok:     true,
		}, {
			// Not affordable even with all wilds.
			tokens: Tokens{0, 0, 0, 0, 1},
			card:   Card{Red, 1, [Colours]int{1, 1, 0, 0}},
			spend:  Tokens{0, 0, 0, 0, 2},
			ok:     false,
		}, {
			// Mixed discounts, colours and wilds.
			tokens:    Tokens{1, 1, 0, 0, 1},
			discounts: [Colours]int{0, 1, 0, 0},
			card:      Card{Red, 3, [Colours]int{2, 2, 1, 0}},
			spend:     Tokens{1, 1, 0, 0, 2},
			ok:        false,
		},
	} {
		p := &Player{Tokens: test.tokens, Discounts: test.discounts}
		spend, ok := p.Spend(test.card)
		if ok != test.ok {
			t.Errorf("(%d) Expected ok=%v, got %v", i, test.ok, ok)
		}
		if spend != test.spend {
			t.Errorf("(%d) Expected spend %v, got %v", i, test.spend, spend)
		}
	}
}

func TestLegalPurchase(t *testing.T) {
	g := &Game{
		Board: []Card{
			{Purple, 1, [Colours]int{1, 0, 0, 0}},
			{Brown, 2, [Colours]int{0, 2, 0, 0}},
		},
	}
	p := &Player{Tokens: Tokens{1, 1, 0, 0, 1}}

	for i, test := range []struct {
		card  int
		spend Tokens
		legal bool
	}{
		// Canonical decomposition.
		{0, Tokens{1, 0, 0, 0, 0}, true},
		{1, Tokens{0, 1, 0, 0, 1}, true},
		// Wild instead of an owned coloured token.
		{0, Tokens{0, 0, 0, 0, 1}, false},
		// Overpayment.
		{0, Tokens{1, 1, 0, 0, 0}, false},
		// Underpayment.
		{1, Tokens{0, 1, 0, 0, 0}, false},
		// Out of range indices.
		{-1, Tokens{}, false},
		{2, Tokens{}, false},
	} {
		if g.LegalPurchase(p, test.card, test.spend) != test.legal {
			t.Errorf("(%d) Expected legal=%v for card %d spend %v",
				i, test.legal, test.card, test.spend)
		}
	}
}

func TestPurchase(t *testing.T) {
	g := &Game{
		Board: []Card{
			{Purple, 1, [Colours]int{1, 0, 0, 0}},
			{Brown, 2, [Colours]int{0, 2, 0, 0}},
			{Yellow, 0, [Colours]int{0, 0, 1, 0}},
		},
		Pool: [Colours]int{3, 3, 3, 3},
	}
	p := &Player{Tokens: Tokens{0, 1, 0, 0, 1}}

	card := g.Purchase(p, 1, Tokens{0, 1, 0, 0, 1})
	if card.Value != 2 {
		t.Errorf("Expected the brown card, got %v", card)
	}

	// The board shifted down, keeping insertion order.
	if len(g.Board) != 2 || g.Board[0].Discount != Purple || g.Board[1].Discount != Yellow {
		t.Errorf("Unexpected board %v", g.Board)
	}

	// The coloured token went back to the pool, the wild vanished.
	if g.Pool != [Colours]int{3, 4, 3, 3} {
		t.Errorf("Unexpected pool %v", g.Pool)
	}
	if p.Tokens != (Tokens{0, 0, 0, 0, 0}) {
		t.Errorf("Unexpected tokens %v", p.Tokens)
	}

	if p.Score != 2 {
		t.Errorf("Expected score 2, got %d", p.Score)
	}
	if p.Discounts != [Colours]int{0, 1, 0, 0} {
		t.Errorf("Unexpected discounts %v", p.Discounts)
	}
}

func TestLegalTake(t *testing.T) {
	for i, test := range []struct {
		pool  [Colours]int
		take  Take
		legal bool
	}{
		{[Colours]int{1, 1, 1, 1}, Take{1, 1, 1, 0}, true},
		{[Colours]int{1, 1, 0, 1}, Take{1, 1, 0, 1}, true},
		// Pile empty where a token is requested.
		{[Colours]int{1, 1, 0, 1}, Take{1, 1, 1, 0}, false},
		// Not exactly three.
		{[Colours]int{9, 9, 9, 9}, Take{1, 1, 0, 0}, false},
		{[Colours]int{9, 9, 9, 9}, Take{1, 1, 1, 1}, false},
		{[Colours]int{9, 9, 9, 9}, Take{0, 0, 0, 0}, false},
		// More than one of a colour.
		{[Colours]int{9, 9, 9, 9}, Take{2, 1, 0, 0}, false},
		{[Colours]int{9, 9, 9, 9}, Take{3, 0, 0, 0}, false},
		// Fewer than three non-empty piles.
		{[Colours]int{5, 5, 0, 0}, Take{1, 1, 1, 0}, false},
	} {
		g := &Game{Pool: test.pool}
		if g.LegalTake(test.take) != test.legal {
			t.Errorf("(%d) Expected legal=%v for take %v from %v",
				i, test.legal, test.take, test.pool)
		}
	}
}

func TestTakeTokens(t *testing.T) {
	g := &Game{Pool: [Colours]int{2, 2, 2, 2}}
	p := &Player{}

	g.TakeTokens(p, Take{1, 0, 1, 1})

	if g.Pool != [Colours]int{1, 2, 1, 1} {
		t.Errorf("Unexpected pool %v", g.Pool)
	}
	if p.Tokens != (Tokens{1, 0, 1, 1, 0}) {
		t.Errorf("Unexpected tokens %v", p.Tokens)
	}
}

func TestTakeWild(t *testing.T) {
	g := &Game{Pool: [Colours]int{0, 0, 0, 0}}
	p := &Player{}

	g.TakeWild(p)
	g.TakeWild(p)

	if p.Tokens[Wild] != 2 {
		t.Errorf("Expected 2 wilds, got %d", p.Tokens[Wild])
	}
	if g.Pool != [Colours]int{0, 0, 0, 0} {
		t.Errorf("The board must not change on a wild take")
	}
}

// Token conservation: for every non-wild colour the pool plus all
// holdings always equals the initial pile size.
func TestConservation(t *testing.T) {
	deck := []Card{
		{Purple, 1, [Colours]int{1, 1, 0, 0}},
		{Brown, 1, [Colours]int{0, 0, 1, 1}},
	}
	g := NewGame("conserve", 10, 4, deck, []*Player{
		{Name: "a"}, {Name: "b"},
	})
	for {
		if _, ok := g.Draw(); !ok {
			break
		}
	}
	a, b := g.Players[0], g.Players[1]

	check := func() {
		t.Helper()
		for c := 0; c < Colours; c++ {
			total := g.Pool[c]
			for _, p := range g.Players {
				total += p.Tokens[c]
			}
			if total != g.Init {
				t.Fatalf("Colour %d not conserved: %d != %d",
					c, total, g.Init)
			}
		}
	}

	check()
	g.TakeTokens(a, Take{1, 1, 0, 1})
	check()
	g.TakeTokens(b, Take{0, 1, 1, 1})
	check()
	g.TakeWild(a)
	check()
	g.Purchase(a, 0, Tokens{1, 1, 0, 0, 0})
	check()
}
