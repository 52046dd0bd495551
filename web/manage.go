// Web interface manager
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
	"errors"
	"fmt"
	"net/http"

	"austerity/conf"
)

// The web manager serves a read-only scoreboard page and, on
// /socket, the same line protocol as the TCP listeners, bridged over
// websockets.
type web struct {
	st  *conf.State
	srv *http.Server
}

// Prepare creates the web manager and registers it, unless the
// interface is disabled.
func Prepare(st *conf.State) {
	if !st.WebUI {
		return
	}
	st.Register(&web{st: st})
}

func (*web) String() string { return "Web server" }

func (s *web) Start(st *conf.State) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.index)
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /")
	})
	mux.Handle("/static/", http.FileServer(http.FS(static)))
	mux.HandleFunc("/socket", upgrader(st))

	addr := fmt.Sprintf(":%d", st.WebPort)
	s.srv = &http.Server{Addr: addr, Handler: mux}
	log.Infof("Serving the scoreboard on %s", addr)
	err := s.srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("Web server died: %s", err)
	}
}

func (s *web) Shutdown() {
	if s.srv != nil {
		s.srv.Close()
	}
}
