// Line transport
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
	"bufio"
	"fmt"
	"io"
	"sync"
)

// A Client is a line-oriented transport over a single connection,
// implementing austerity.Conn.  Sends are serialized so broadcasts
// from a driver and a late handshake reply cannot interleave; reads
// belong to one goroutine at a time.
type Client struct {
	rwc io.ReadWriteCloser
	r   *bufio.Reader

	wlock sync.Mutex
	once  sync.Once
	cerr  error
}

// Wrap turns a connection into a Client.
func Wrap(rwc io.ReadWriteCloser) *Client {
	return &Client{rwc: rwc, r: bufio.NewReader(rwc)}
}

func (cli *Client) String() string {
	return fmt.Sprintf("%p", cli.rwc)
}

// Send writes one protocol line.
func (cli *Client) Send(line string) error {
	cli.wlock.Lock()
	defer cli.wlock.Unlock()
	log.Debugf("%s > %s", cli, line)
	_, err := io.WriteString(cli.rwc, line+"\n")
	return err
}

// Recv reads one protocol line, stripping the final newline and
// nothing else.  A line torn off by the peer closing mid-write is
// returned as data; the end of the stream follows on the next call.
func (cli *Client) Recv() (string, error) {
	line, err := cli.r.ReadString('\n')
	if err != nil {
		if len(line) > 0 {
			log.Debugf("%s < %s (torn)", cli, line)
			return line, nil
		}
		return "", err
	}
	line = line[:len(line)-1]
	log.Debugf("%s < %s", cli, line)
	return line, nil
}

// Close shuts the connection down.  Only the first call reaches the
// underlying connection, so a driver and a handler both letting go
// of the same transport is harmless.
func (cli *Client) Close() error {
	cli.once.Do(func() { cli.cerr = cli.rwc.Close() })
	return cli.cerr
}
