// Command line file loading tests
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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func tempFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadKey(t *testing.T) {
	for i, test := range []struct {
		contents string
		key      string
		fail     bool
	}{
		{"secret\n", "secret", false},
		{"secret", "secret", false},
		{"top secret key\n", "top secret key", false},
		{"", "", true},
		{"\n", "", true},
		{"one\ntwo\n", "", true},
		{"one\n\n", "", true},
	} {
		key, err := LoadKey(tempFile(t, test.contents))
		if test.fail {
			if !errors.Is(err, ErrBadKeyfile) {
				t.Errorf("(%d) expected bad keyfile, got %v", i, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("(%d) unexpected error %v", i, err)
		} else if key != test.key {
			t.Errorf("(%d) expected %q, got %q", i, test.key, key)
		}
	}
}

func TestLoadKeyMissing(t *testing.T) {
	_, err := LoadKey(filepath.Join(t.TempDir(), "nonexistent"))
	if !errors.Is(err, ErrBadKeyfile) {
		t.Errorf("expected bad keyfile, got %v", err)
	}
}

func TestLoadDeck(t *testing.T) {
	deck, err := LoadDeck(tempFile(t, "B:1:0,2,1,1\nY:2:2,0,2,0\nP:3:3,3,0,0"))
	if err != nil {
		t.Fatal(err)
	}
	if len(deck) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(deck))
	}
	if deck[1].String() != "Y:2:2,0,2,0" {
		t.Errorf("expected Y:2:2,0,2,0, got %s", deck[1])
	}

	for i, contents := range []string{
		"",
		"\n",
		"B:1:0,2,1,1\n\nY:2:2,0,2,0\n",
		"Q:1:0,2,1,1\n",
		"B:1:0,2,1\n",
		"B:1:0,2,1,1,5\n",
		"B:-1:0,2,1,1\n",
		"b:1:0,2,1,1\n",
		"B:1:0, 2,1,1\n",
	} {
		if _, err := LoadDeck(tempFile(t, contents)); !errors.Is(err, ErrBadDeckfile) {
			t.Errorf("(%d) expected bad deckfile, got %v", i, err)
		}
	}
}

func TestLoadStats(t *testing.T) {
	entries, err := LoadStats(tempFile(t, "3000,7,15,2\n0,1,1,26\n0,20,100,4\n"))
	if err != nil {
		t.Fatal(err)
	}
	expect := []Entry{
		{Port: 3000, Tokens: 7, Goal: 15, Players: 2},
		{Port: 0, Tokens: 1, Goal: 1, Players: 26},
		{Port: 0, Tokens: 20, Goal: 100, Players: 4},
	}
	if len(entries) != len(expect) {
		t.Fatalf("expected %d entries, got %d", len(expect), len(entries))
	}
	for i, e := range expect {
		if entries[i] != e {
			t.Errorf("(%d) expected %v, got %v", i, e, entries[i])
		}
	}
}

func TestLoadStatsInvalid(t *testing.T) {
	for i, contents := range []string{
		"",
		"\n",
		"3000,7,15\n",
		"3000,7,15,2,9\n",
		"3000,7,15,two\n",
		"3000,7,15,-2\n",
		"3000, 7,15,2\n",
		"65536,7,15,2\n",
		"3000,0,15,2\n",
		"3000,7,0,2\n",
		"3000,7,15,1\n",
		"3000,7,15,27\n",
		"3000,7,15,2\n3000,1,1,2\n",
		"3000,7,15,2\n\n3001,1,1,2\n",
	} {
		if _, err := LoadStats(tempFile(t, contents)); !errors.Is(err, ErrBadStatfile) {
			t.Errorf("(%d) expected bad statfile, got %v", i, err)
		}
	}
}

func TestParseTimeout(t *testing.T) {
	for i, test := range []struct {
		arg  string
		want time.Duration
		fail bool
	}{
		{"30", 30 * time.Second, false},
		{"0", 0, false},
		{"1", time.Second, false},
		{"", 0, true},
		{"-1", 0, true},
		{"1.5", 0, true},
		{"30s", 0, true},
	} {
		d, err := ParseTimeout(test.arg)
		if test.fail {
			if !errors.Is(err, ErrBadTimeout) {
				t.Errorf("(%d) expected bad timeout, got %v", i, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("(%d) unexpected error %v", i, err)
		} else if d != test.want {
			t.Errorf("(%d) expected %v, got %v", i, test.want, d)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	st, err := load(strings.NewReader(`
poll = 100

[database]
dsn = "file:test.db"

[web]
enabled = true
port = 9090
entry = 2
`))
	if err != nil {
		t.Fatal(err)
	}
	if st.Poll != 100*time.Millisecond {
		t.Errorf("expected 100ms poll, got %v", st.Poll)
	}
	if st.DSN != "file:test.db" {
		t.Errorf("unexpected dsn %q", st.DSN)
	}
	if !st.WebUI || st.WebPort != 9090 || st.WebEntry != 2 {
		t.Errorf("unexpected web configuration %v %d %d",
			st.WebUI, st.WebPort, st.WebEntry)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	st, err := load(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if st.Poll != def.Poll || st.DSN != def.DSN {
		t.Errorf("expected defaults, got %v %q", st.Poll, st.DSN)
	}
	if st.WebUI {
		t.Error("web enabled by default")
	}
}
