// Package main provides the entry point for the stocksync CLI tool.
package main

import "github.com/vroomi/stocksync/cmd/stocksync/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
