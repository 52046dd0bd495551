// Scoreboard client
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
	"fmt"
	"net"
	"os"

	"austerity"
	"austerity/proto"
)

const (
	exitOK = iota
	exitUsage
	_
	exitConnect
	exitInvalid
)

func die(code int, message string) int {
	fmt.Fprintln(os.Stderr, message)
	return code
}

func run() int {
	if len(os.Args) != 2 {
		return die(exitUsage, "Usage: gopher port")
	}
	port, ok := austerity.ParseCount(os.Args[1])
	if !ok || port < 1 || port > 65535 {
		return die(exitUsage, "Usage: gopher port")
	}

	conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return die(exitConnect, "Failed to connect")
	}
	cli := proto.Wrap(conn)
	defer cli.Close()

	if err := cli.Send(proto.KeywordScores); err != nil {
		return die(exitInvalid, "Invalid server")
	}
	if line, err := cli.Recv(); err != nil || line != proto.Yes {
		return die(exitInvalid, "Invalid server")
	}
	if line, err := cli.Recv(); err != nil || line != proto.ScoresHeader {
		return die(exitInvalid, "Invalid server")
	}
	fmt.Println(proto.ScoresHeader)

	// The dump ends when the server closes the connection.
	for {
		line, err := cli.Recv()
		if err != nil {
			return exitOK
		}
		fmt.Println(line)
	}
}

func main() {
	os.Exit(run())
}
