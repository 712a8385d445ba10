// Command lineup browses IPTV playlists.
//
// Usage:
//
//	lineup [source]              Interactive browser (plain list when stdout is not a terminal)
//	lineup list [source]         Print channels as a table or JSON
//	lineup serve [source]        HTTP command surface
//	lineup events                JSONL event log viewer
//
// A source is "bundled:<name>", an http(s) URL or a local file path.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}
