// Web interface templates
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
	"embed"
	"html/template"
	"time"
)

//go:embed static
var static embed.FS

//go:embed *.tmpl
var html embed.FS

var (
	funcs = template.FuncMap{
		"inc": func(i int) int {
			return i + 1
		},
		"now": func() string {
			return time.Now().Format(time.RFC3339)
		},
		"state": func(finished bool) string {
			if finished {
				return "Finished"
			}
			return "Ongoing"
		},
	}

	tmpl = template.Must(template.New("").Funcs(funcs).ParseFS(html, "*.tmpl"))
)
