package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
	"github.com/tomz197/pewpew/internal/desktop"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}
	logger := settings.NewLogger(os.Stderr, "desktop")

	sheet, err := asset.LoadSheet(context.Background(), asset.Embedded(), asset.Manifest)
	if err != nil {
		logger.Fatal("failed to load sprites", "err", err)
	}

	g, err := desktop.New(desktop.Options{Sheet: sheet, Logger: logger})
	if err != nil {
		logger.Fatal("failed to create game", "err", err)
	}

	scale := settings.Desktop.Scale
	ebiten.SetWindowSize(int(config.FieldWidth*scale), int(config.FieldHeight*scale))
	ebiten.SetWindowTitle("Pew Pew")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal("game error", "err", err)
	}
}
