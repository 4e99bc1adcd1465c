package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/config"
	"github.com/tomz197/pewpew/internal/web"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}
	logger := settings.NewLogger(os.Stderr, "web")

	sheet, err := asset.LoadSheet(context.Background(), asset.Embedded(), asset.Manifest)
	if err != nil {
		logger.Fatal("failed to load sprites", "err", err)
	}

	gameServer, err := web.NewServer(web.Options{
		Sheet:     sheet,
		PublicURL: settings.Web.PublicURL,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	addr := net.JoinHostPort(settings.Web.Host, settings.Web.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           gameServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting web server", "url", "http://"+addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown does not track hijacked websocket connections; close the
	// game sessions separately.
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
	gameServer.Close()
}
