// Server entry point
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

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/decred/slog"

	"austerity/conf"
	"austerity/db"
	"austerity/game"
	"austerity/lobby"
	"austerity/proto"
	"austerity/web"
)

// Default name for the optional configuration file
const defconf = "rafiki.toml"

// Exit codes of the fixed CLI contract.
const (
	exitOK = iota
	exitUsage
	exitKeyfile
	exitDeckfile
	exitStatfile
	exitTimeout
	exitListen
	exitSystem = 10
)

// die prints one of the fixed error messages and returns its code.
func die(code int, message string) int {
	fmt.Fprintln(os.Stderr, message)
	return code
}

func run() int {
	var (
		confFile = flag.String("conf", defconf, "name of configuration file")
		dumpConf = flag.Bool("dump-config", false, "dump configuration and exit")
		debug    = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	st, err := conf.Open(*confFile)
	if err != nil {
		if !os.IsNotExist(err) || *confFile != defconf {
			return die(exitSystem, "System error")
		}
		st = conf.Default()
	}
	if *debug {
		st.Debug = true
	}

	if *dumpConf {
		if err := st.Dump(os.Stdout); err != nil {
			return die(exitSystem, "System error")
		}
		return exitOK
	}

	if flag.NArg() != 4 {
		return die(exitUsage, "Usage: rafiki keyfile deckfile statfile timeout")
	}
	args := flag.Args()
	if st.Key, err = conf.LoadKey(args[0]); err != nil {
		return die(exitKeyfile, "Bad keyfile")
	}
	if st.Deck, err = conf.LoadDeck(args[1]); err != nil {
		return die(exitDeckfile, "Bad deckfile")
	}
	st.Statfile = args[2]
	stats, err := conf.LoadStats(st.Statfile)
	if err != nil {
		return die(exitStatfile, "Bad statfile")
	}
	st.SetStats(stats)
	if st.Timeout, err = conf.ParseTimeout(args[3]); err != nil {
		return die(exitTimeout, "Bad timeout")
	}

	logging(st)

	// Writer failures are detected as EOF on the reader side.
	signal.Ignore(syscall.SIGPIPE)

	if err := db.Prepare(st); err != nil {
		return die(exitSystem, "System error")
	}
	lobby.Prepare(st)
	game.Prepare(st)
	listeners := proto.Prepare(st)
	web.Prepare(st)

	if err := listeners.Bind(); err != nil {
		return die(exitListen, "Failed listen")
	}

	// Block handling signals until the server dies.  A failed
	// SIGINT rebind cycle brings it down with the same codes as
	// startup.
	if err := st.Start(); err != nil {
		switch {
		case errors.Is(err, conf.ErrBadStatfile):
			return die(exitStatfile, "Bad statfile")
		case errors.Is(err, conf.ErrFailedListen):
			return die(exitListen, "Failed listen")
		default:
			return die(exitSystem, "System error")
		}
	}
	return exitOK
}

// logging builds the slog backend and hands every subsystem its
// logger.
func logging(st *conf.State) {
	backend := slog.NewBackend(os.Stderr)
	level := slog.LevelInfo
	if st.Debug {
		level = slog.LevelDebug
	}

	for sys, use := range map[string]func(slog.Logger){
		"CONF":  conf.UseLogger,
		"PROTO": proto.UseLogger,
		"LOBBY": lobby.UseLogger,
		"GAME":  game.UseLogger,
		"DB":    db.UseLogger,
		"WEB":   web.UseLogger,
	} {
		logger := backend.Logger(sys)
		logger.SetLevel(level)
		use(logger)
	}
}

func main() {
	os.Exit(run())
}
