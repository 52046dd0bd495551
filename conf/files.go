// Command line file loading
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
	"fmt"
	"os"
	"strings"
	"time"

	"austerity"
)

// fileLines splits raw file contents into lines.  The final newline
// is optional, everything else must be non-empty.
func fileLines(data string) ([]string, bool) {
	lines := strings.Split(data, "\n")
	if n := len(lines); lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) == 0 {
		return nil, false
	}
	for _, line := range lines {
		if line == "" {
			return nil, false
		}
	}
	return lines, true
}

// LoadKey reads the authentication key from path.  The key is a
// single non-empty line.
func LoadKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrBadKeyfile, err)
	}
	lines, ok := fileLines(string(data))
	if !ok || len(lines) != 1 {
		return "", ErrBadKeyfile
	}
	return lines[0], nil
}

// LoadDeck reads the card deck from path, in the order games will
// draw it.
func LoadDeck(path string) ([]austerity.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadDeckfile, err)
	}
	lines, ok := fileLines(string(data))
	if !ok {
		return nil, ErrBadDeckfile
	}
	deck := make([]austerity.Card, 0, len(lines))
	for _, line := range lines {
		card, err := austerity.ParseCard(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadDeckfile, err)
		}
		deck = append(deck, card)
	}
	return deck, nil
}

// LoadStats reads the statfile from path.  Each line gives a port
// and the token count, goal and player count of the games it forms.
func LoadStats(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadStatfile, err)
	}
	lines, ok := fileLines(string(data))
	if !ok {
		return nil, ErrBadStatfile
	}

	entries := make([]Entry, 0, len(lines))
	ports := make(map[int]bool)
	for _, line := range lines {
		fields := strings.Split(line, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: %q", ErrBadStatfile, line)
		}
		var nums [4]int
		for i, field := range fields {
			n, ok := austerity.ParseCount(field)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrBadStatfile, line)
			}
			nums[i] = n
		}
		entry := Entry{
			Port:    nums[0],
			Tokens:  nums[1],
			Goal:    nums[2],
			Players: nums[3],
		}
		switch {
		case entry.Port > 65535,
			entry.Tokens < 1,
			entry.Goal < 1,
			entry.Players < austerity.MinPlayers,
			entry.Players > austerity.MaxPlayers:
			return nil, fmt.Errorf("%w: %q", ErrBadStatfile, line)
		}
		// Two entries may both request an ephemeral port, but
		// a fixed port can only be bound once.
		if entry.Port != 0 {
			if ports[entry.Port] {
				return nil, fmt.Errorf("%w: duplicate port %d",
					ErrBadStatfile, entry.Port)
			}
			ports[entry.Port] = true
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ParseTimeout interprets the reconnection timeout argument, a
// non-negative number of seconds.
func ParseTimeout(arg string) (time.Duration, error) {
	n, ok := austerity.ParseCount(arg)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrBadTimeout, arg)
	}
	return time.Duration(n) * time.Second, nil
}
