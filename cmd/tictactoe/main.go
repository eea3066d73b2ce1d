// Command tictactoe plays against the impossible computer in the local terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/terminal"
)

func main() {
	nickname := flag.String("name", os.Getenv("USER"), "your nickname")
	verbose := flag.Bool("v", false, "log debug output to stderr")
	flag.Parse()

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	game := terminal.NewGame(logger, os.Stdin, termenv.NewOutput(os.Stdout), *nickname)
	if err := game.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "tictactoe: %v\n", err)
		os.Exit(1)
	}
}
