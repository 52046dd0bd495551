// Configuration file handling
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
	"context"
	"io"
	"os"
	"time"

	"austerity"

	"github.com/BurntSushi/toml"
)

// conf mirrors the optional TOML configuration file.  Anything the
// file leaves out keeps its default.
type conf struct {
	Debug bool `toml:"debug"`
	Poll  uint `toml:"poll"` // milliseconds

	Database struct {
		DSN string `toml:"dsn"`
	} `toml:"database"`

	Web struct {
		Enabled bool   `toml:"enabled"`
		Port    uint16 `toml:"port"`
		Entry   int    `toml:"entry"`
	} `toml:"web"`
}

// Default returns a fresh state with the stock configuration.
func Default() *State {
	ctx, kill := context.WithCancel(context.Background())
	return &State{
		DSN:      defaultDSN,
		Poll:     defaultPoll,
		WebPort:  8080,
		WebEntry: 1,
		Games:    make(chan *austerity.Game, 1),
		Ctx:      ctx,
		Kill:     kill,
	}
}

// Open parses the TOML configuration file at path on top of the
// defaults.
func Open(path string) (*State, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return load(file)
}

func load(r io.Reader) (*State, error) {
	var c conf
	if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}

	st := Default()
	st.Debug = c.Debug
	if c.Poll != 0 {
		st.Poll = time.Duration(c.Poll) * time.Millisecond
	}
	if c.Database.DSN != "" {
		st.DSN = c.Database.DSN
	}
	st.WebUI = c.Web.Enabled
	if c.Web.Port != 0 {
		st.WebPort = c.Web.Port
	}
	if c.Web.Entry != 0 {
		st.WebEntry = c.Web.Entry
	}
	return st, nil
}

// Dump writes the current configuration of st to w, in the format
// Open understands.
func (st *State) Dump(w io.Writer) error {
	var c conf
	c.Debug = st.Debug
	c.Poll = uint(st.Poll / time.Millisecond)
	c.Database.DSN = st.DSN
	c.Web.Enabled = st.WebUI
	c.Web.Port = st.WebPort
	c.Web.Entry = st.WebEntry
	return toml.NewEncoder(w).Encode(&c)
}
