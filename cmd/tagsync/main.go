// Package main provides the entry point for the tagsync CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dataannex/tagsync/cmd/tagsync/cmd"
)

// Version information populated at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// Ctrl-C stops scheduling new tables; in-flight writes finish.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, version, commit, date); err != nil {
		os.Exit(1)
	}
}
