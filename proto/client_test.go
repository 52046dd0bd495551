// Line transport tests
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
	"bytes"
	"io"
	"strings"
	"testing"
)

// rwc is an in-memory connection for transport tests.
type rwc struct {
	io.Reader
	out    bytes.Buffer
	closed int
}

func (c *rwc) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

func (c *rwc) Close() error {
	c.closed++
	return nil
}

func TestRecv(t *testing.T) {
	cli := Wrap(&rwc{Reader: strings.NewReader("dowhat\nwild\n")})

	for i, want := range []string{"dowhat", "wild"} {
		got, err := cli.Recv()
		if err != nil {
			t.Fatalf("(%d) unexpected error %v", i, err)
		}
		if got != want {
			t.Errorf("(%d) expected %q, got %q", i, want, got)
		}
	}
	if _, err := cli.Recv(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestRecvTorn(t *testing.T) {
	// A peer dying mid-line leaves a final line without newline.
	// The data still comes through; the EOF follows.
	cli := Wrap(&rwc{Reader: strings.NewReader("take1,1")})

	got, err := cli.Recv()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got != "take1,1" {
		t.Errorf("expected torn line, got %q", got)
	}
	if _, err := cli.Recv(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestRecvKeepsCarriageReturn(t *testing.T) {
	// The protocol terminates lines with a bare newline; a
	// carriage return is payload and must fail parsing later.
	cli := Wrap(&rwc{Reader: strings.NewReader("wild\r\n")})

	got, err := cli.Recv()
	if err != nil {
		t.Fatal(err)
	}
	if got != "wild\r" {
		t.Errorf("expected %q, got %q", "wild\r", got)
	}
}

func TestSend(t *testing.T) {
	conn := &rwc{Reader: strings.NewReader("")}
	cli := Wrap(conn)

	if err := cli.Send("tokens7"); err != nil {
		t.Fatal(err)
	}
	if err := cli.Send("dowhat"); err != nil {
		t.Fatal(err)
	}
	if got := conn.out.String(); got != "tokens7\ndowhat\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestCloseOnce(t *testing.T) {
	conn := &rwc{Reader: strings.NewReader("")}
	cli := Wrap(conn)

	cli.Close()
	cli.Close()
	if conn.closed != 1 {
		t.Errorf("expected one close, got %d", conn.closed)
	}
}
