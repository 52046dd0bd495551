// Web interface tests
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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"austerity"
	"austerity/conf"
)

type fakeDB struct {
	scores []conf.Standing
	games  []conf.GameRecord
}

func (*fakeDB) String() string                                                     { return "fake database" }
func (*fakeDB) Start(*conf.State)                                                  {}
func (*fakeDB) Shutdown()                                                          {}
func (*fakeDB) RecordGame(context.Context, *austerity.Game)                        {}
func (*fakeDB) RecordStanding(context.Context, *austerity.Game, *austerity.Player) {}
func (*fakeDB) FinishGame(context.Context, *austerity.Game)                        {}

func (d *fakeDB) Scores(context.Context) ([]conf.Standing, error) {
	return d.scores, nil
}

func (d *fakeDB) Games(context.Context) ([]conf.GameRecord, error) {
	return d.games, nil
}

func testIndex(t *testing.T, d *fakeDB) *httptest.ResponseRecorder {
	t.Helper()
	st := conf.Default()
	st.Register(d)
	s := &web{st: st}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.index(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec
}

func TestIndexScoreboard(t *testing.T) {
	rec := testIndex(t, &fakeDB{
		scores: []conf.Standing{
			{Name: "alice", Tokens: 2, Points: 7},
			{Name: "bob", Tokens: 1, Points: 3},
		},
		games: []conf.GameRecord{
			{Name: "pride", Counter: 1, Players: 2, Goal: 10, Finished: true},
		},
	})

	body := rec.Body.String()
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "bob")
	assert.Contains(t, body, "pride#1")
	assert.Contains(t, body, "Finished")
}

func TestIndexEmpty(t *testing.T) {
	rec := testIndex(t, &fakeDB{})

	body := rec.Body.String()
	assert.Contains(t, body, "No games have been played yet.")
	assert.Contains(t, body, "No games have been started yet.")
}

func TestIndexNotFound(t *testing.T) {
	st := conf.Default()
	st.Register(&fakeDB{})
	s := &web{st: st}

	req := httptest.NewRequest(http.MethodGet, "/nonsense", nil)
	rec := httptest.NewRecorder()
	s.index(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
