// Game registry tests
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

package conf

import (
	"testing"

	"austerity"
)

func testGame(name string) *austerity.Game {
	deck := []austerity.Card{{Discount: austerity.Brown, Value: 1}}
	seats := []*austerity.Player{
		{Name: "ann"},
		{Name: "bob"},
	}
	return austerity.NewGame(name, 5, 4, deck, seats)
}

func TestEnroll(t *testing.T) {
	st := Default()

	first := testGame("pride")
	second := testGame("pride")
	other := testGame("rock")
	st.Enroll(first)
	st.Enroll(second)
	st.Enroll(other)

	if first.Counter != 1 || second.Counter != 2 {
		t.Errorf("expected counters 1 and 2, got %d and %d",
			first.Counter, second.Counter)
	}
	if other.Counter != 1 {
		t.Errorf("expected counter 1, got %d", other.Counter)
	}

	if g := st.Lookup("pride", 2); g != second {
		t.Errorf("expected second game, got %v", g)
	}
	if g := st.Lookup("pride", 3); g != nil {
		t.Errorf("expected no game, got %v", g)
	}
	if g := st.Lookup("lion", 1); g != nil {
		t.Errorf("expected no game, got %v", g)
	}

	// Finished games cannot be rejoined.
	second.Finish()
	if g := st.Lookup("pride", 2); g != nil {
		t.Errorf("expected no game, got %v", g)
	}

	if n := len(st.AllGames()); n != 3 {
		t.Errorf("expected 3 games, got %d", n)
	}
}

func TestEntry(t *testing.T) {
	st := Default()
	st.SetStats([]Entry{
		{Port: 3000, Tokens: 7, Goal: 15, Players: 2},
		{Port: 0, Tokens: 4, Goal: 9, Players: 3},
	})

	if e, ok := st.Entry(2); !ok || e.Tokens != 4 {
		t.Errorf("expected second entry, got %v (%v)", e, ok)
	}
	if _, ok := st.Entry(0); ok {
		t.Error("entry 0 should not exist")
	}
	if _, ok := st.Entry(3); ok {
		t.Error("entry 3 should not exist")
	}
}
