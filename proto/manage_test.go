// Listener tests
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
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"austerity/conf"
)

func writeStats(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statfile")
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBindEphemeral(t *testing.T) {
	st, _, _ := testState()
	st.Statfile = writeStats(t, "0,3,5,3\n0,4,6,2\n")
	stats, err := conf.LoadStats(st.Statfile)
	if err != nil {
		t.Fatal(err)
	}
	st.SetStats(stats)

	l := &Listeners{st: st}
	if err := l.Bind(); err != nil {
		t.Fatal(err)
	}
	defer l.Shutdown()

	// Both port 0 entries resolve to distinct real ports, and the
	// resolved numbers replace the requested ones.
	resolved := st.Stats()
	if len(resolved) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resolved))
	}
	if resolved[0].Port == 0 || resolved[1].Port == 0 {
		t.Errorf("unresolved ports: %v", resolved)
	}
	if resolved[0].Port == resolved[1].Port {
		t.Errorf("both entries resolved to port %d", resolved[0].Port)
	}
	if resolved[0].Tokens != 3 || resolved[1].Tokens != 4 {
		t.Errorf("entry parameters lost: %v", resolved)
	}

	conn, err := net.Dial("tcp",
		fmt.Sprintf("127.0.0.1:%d", resolved[0].Port))
	if err != nil {
		t.Fatalf("resolved port not accepting: %s", err)
	}
	conn.Close()
}

func TestRebind(t *testing.T) {
	st, _, _ := testState()
	st.Statfile = writeStats(t, "0,3,5,3\n")
	stats, err := conf.LoadStats(st.Statfile)
	if err != nil {
		t.Fatal(err)
	}
	st.SetStats(stats)

	l := &Listeners{st: st}
	if err := l.Bind(); err != nil {
		t.Fatal(err)
	}
	defer l.Shutdown()
	old := st.Stats()[0].Port

	// Replace the statfile and run one SIGINT cycle.
	if err := os.WriteFile(st.Statfile, []byte("0,4,6,2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := l.Rebind(); err != nil {
		t.Fatal(err)
	}

	fresh := st.Stats()
	if len(fresh) != 1 || fresh[0].Tokens != 4 || fresh[0].Players != 2 {
		t.Errorf("expected the new entry, got %v", fresh)
	}
	conn, err := net.Dial("tcp",
		fmt.Sprintf("127.0.0.1:%d", fresh[0].Port))
	if err != nil {
		t.Fatalf("rebound port not accepting: %s", err)
	}
	conn.Close()

	// The old socket may by chance be reused; only check it when the
	// port actually changed.
	if old != fresh[0].Port {
		if conn, err := net.Dial("tcp",
			fmt.Sprintf("127.0.0.1:%d", old)); err == nil {
			conn.Close()
			t.Errorf("old port %d still accepting", old)
		}
	}
}

func TestRebindBadStatfile(t *testing.T) {
	st, _, _ := testState()
	st.Statfile = writeStats(t, "0,3,5,3\n")
	stats, err := conf.LoadStats(st.Statfile)
	if err != nil {
		t.Fatal(err)
	}
	st.SetStats(stats)

	l := &Listeners{st: st}
	if err := l.Bind(); err != nil {
		t.Fatal(err)
	}
	defer l.Shutdown()

	if err := os.WriteFile(st.Statfile, []byte("garbage\n"), 0644); err != nil {
		t.Fatal(err)
	}
	err = l.Rebind()
	if err == nil {
		t.Fatal("expected the rebind to fail")
	}
	if !errors.Is(err, conf.ErrBadStatfile) {
		t.Errorf("expected a statfile error, got %v", err)
	}
}
