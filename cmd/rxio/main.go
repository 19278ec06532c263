// Package main provides the rxio command-line tool. rxio streams the lines
// of files with bounded demand, reads whole files concurrently and writes
// standard input to a file through the asynchronous writer.
package main

import "github.com/javasync/RxIo/cmd/rxio/cmd"

func main() {
	cmd.Execute()
}
