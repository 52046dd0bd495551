// TCP listeners and acceptors
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

package proto

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"

	"austerity/conf"
)

// A listener pairs a bound socket with its resolved statfile entry.
type listener struct {
	conn  net.Listener
	entry conf.Entry
}

// Listeners owns one listening socket per statfile entry, plus the
// acceptors feeding accepted connections into handlers.  It is the
// server's Binder: a SIGINT cycle replaces the whole set.
type Listeners struct {
	st *conf.State

	mu   sync.Mutex
	open []listener
	wg   sync.WaitGroup // live acceptors
}

// Prepare creates the listener manager and registers it.  The
// initial Bind is left to the caller, so that a bind failure can
// stop startup before any manager runs.
func Prepare(st *conf.State) *Listeners {
	l := &Listeners{st: st}
	st.Register(l)
	return l
}

func (*Listeners) String() string {
	return "TCP listeners"
}

// Start does nothing; the sockets are bound before the server
// starts.
func (l *Listeners) Start(*conf.State) {}

// Shutdown closes every listening socket and joins the acceptors.
func (l *Listeners) Shutdown() {
	l.close()
}

// Bind opens the sockets for the current statfile entries.
func (l *Listeners) Bind() error {
	return l.bind(l.st.Stats())
}

// Rebind runs one SIGINT cycle: stop the acceptors, close the
// sockets, reload the statfile and bind afresh.  Running games are
// not touched.
func (l *Listeners) Rebind() error {
	l.close()
	entries, err := conf.LoadStats(l.st.Statfile)
	if err != nil {
		return err
	}
	return l.bind(entries)
}

// bind opens one socket per entry.  Once all are bound the resolved
// port numbers are printed to standard error as a single
// space-separated line, in statfile order.  On failure every socket
// already opened is closed again.
func (l *Listeners) bind(entries []conf.Entry) error {
	open := make([]listener, 0, len(entries))
	fail := func(err error) error {
		for _, o := range open {
			o.conn.Close()
		}
		return fmt.Errorf("%w: %s", conf.ErrFailedListen, err)
	}

	for _, e := range entries {
		conn, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", e.Port))
		if err != nil {
			return fail(err)
		}
		if e.Port == 0 {
			port, err := resolvePort(conn.Addr().String())
			if err != nil {
				conn.Close()
				return fail(err)
			}
			e.Port = port
		}
		open = append(open, listener{conn: conn, entry: e})
	}

	resolved := make([]conf.Entry, len(open))
	ports := make([]string, len(open))
	for i, o := range open {
		resolved[i] = o.entry
		ports[i] = strconv.Itoa(o.entry.Port)
	}
	fmt.Fprintln(os.Stderr, strings.Join(ports, " "))
	l.st.SetStats(resolved)

	l.mu.Lock()
	l.open = open
	l.mu.Unlock()

	for _, o := range open {
		l.wg.Add(1)
		go l.accept(o)
	}
	return nil
}

// close shuts the current socket set down and waits until every
// acceptor has exited.
func (l *Listeners) close() {
	l.mu.Lock()
	open := l.open
	l.open = nil
	l.mu.Unlock()

	for _, o := range open {
		if err := o.conn.Close(); err != nil {
			log.Errorf("Failed to close listener on port %d: %s",
				o.entry.Port, err)
		}
	}
	l.wg.Wait()
}

// accept loops on the listening socket, spawning one handler per
// connection.  Closing the socket is how rebind and shutdown stop
// the loop.
func (l *Listeners) accept(o listener) {
	defer l.wg.Done()
	log.Infof("Accepting connections on port %d", o.entry.Port)
	for {
		conn, err := o.conn.Accept()
		if err != nil {
			log.Debugf("Acceptor on port %d exits: %s",
				o.entry.Port, err)
			return
		}
		go handle(l.st, Wrap(conn), o.entry)
	}
}

// resolvePort extracts the port from a bound socket address, for
// entries that requested an ephemeral port.
func resolvePort(addr string) (int, error) {
	i := strings.LastIndexByte(addr, ':')
	if i == -1 || i+1 == len(addr) {
		return 0, fmt.Errorf("invalid address %q", addr)
	}
	port, err := strconv.ParseUint(addr[i+1:], 10, 16)
	if err != nil {
		return 0, err
	}
	return int(port), nil
}
