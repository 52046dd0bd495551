// Websocket interface
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

package web

import (
	"io"
	"net/http"

	"github.com/gorilla/websocket"

	"austerity/conf"
	"austerity/proto"
)

// adapted from https://github.com/gorilla/websocket/issues/282

// wsrwc is a read-write-closer using websockets
type wsrwc struct {
	*websocket.Conn
	r io.Reader
}

// Convert a write call to a Websocket message
func (c *wsrwc) Write(p []byte) (int, error) {
	err := c.WriteMessage(websocket.TextMessage, p)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// Convert a read call into a Websocket query
func (c *wsrwc) Read(p []byte) (int, error) {
	for {
		if c.r == nil {
			// Advance to next message.
			var err error
			_, c.r, err = c.NextReader()
			if err != nil {
				return 0, err
			}
		}
		n, err := c.r.Read(p)
		if err == io.EOF {
			// At end of message.
			c.r = nil
			if n > 0 {
				return n, nil
			} else {
				// No data read, continue to next message.
				continue
			}
		}
		return n, err
	}
}

// upgrader turns HTTP connections on /socket into protocol
// connections.  A websocket joiner has no listening port to inherit
// game parameters from, so new games formed here use the configured
// statfile entry; reconnect and scores need none.
func upgrader(st *conf.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := (&websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		}).Upgrade(w, r, nil)
		if err != nil {
			log.Debugf("Unable to upgrade connection: %s", err)
			return
		}

		// A stale entry number leaves the zero Entry, which the
		// lobby refuses; scores and reconnects still work.
		entry, _ := st.Entry(st.WebEntry)
		log.Debugf("Websocket connection from %s", conn.RemoteAddr())
		go proto.Serve(st, &wsrwc{Conn: conn}, entry)
	}
}
