package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
	"github.com/tomz197/pewpew/internal/loop/client"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}

	// The game owns the terminal; only log when stderr goes elsewhere.
	var logger *log.Logger
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logger = log.New(io.Discard)
	} else {
		logger = settings.NewLogger(os.Stderr, "game")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	sheet, err := asset.LoadSheet(ctx, asset.Embedded(), asset.Manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load sprites: %v\n", err)
		os.Exit(1)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c, err := client.NewClient(bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Sheet:        sheet,
		Logger:       logger,
		ColorProfile: termenv.NewOutput(os.Stdout).ColorProfile(),
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
	if err := c.Run(ctx); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
