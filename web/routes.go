// Web interface routes
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
	"net/http"

	"austerity/conf"
)

// index renders the scoreboard: the same aggregate rows the scores
// endpoint emits as CSV, plus a list of every game.
func (s *web) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	scores, err := s.st.DB.Scores(r.Context())
	if err != nil {
		log.Errorf("Failed to aggregate scores: %s", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	games, err := s.st.DB.Games(r.Context())
	if err != nil {
		log.Errorf("Failed to list games: %s", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	err = tmpl.ExecuteTemplate(w, "index.tmpl", struct {
		Scores []conf.Standing
		Games  []conf.GameRecord
	}{scores, games})
	if err != nil {
		log.Errorf("Failed to render index: %s", err)
	}
}
