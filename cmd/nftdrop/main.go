// Package main provides the entry point for the nftdrop-go simulator.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stable-net/nftdrop-go/pkg/backend"
	"github.com/stable-net/nftdrop-go/pkg/config"
	"github.com/stable-net/nftdrop-go/pkg/rpc"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("nftdrop-go version %s\n", Version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.Default()
	if len(os.Args) > 1 {
		loaded, err := config.LoadFromFile(os.Args[1])
		if err != nil {
			logger.Error("failed to load config", "path", os.Args[1], "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	b, err := backend.New(cfg)
	if err != nil {
		logger.Error("failed to initialize backend", "err", err)
		os.Exit(1)
	}

	logger.Info("drop simulator ready",
		"owner", b.Access.Owner().Hex(),
		"treasury", b.Sale.Treasury().Hex(),
		"allowlistRoot", b.Sale.AllowlistRoot().Hex(),
		"accounts", len(b.Accounts),
	)

	server := &http.Server{
		Addr:    cfg.ServerAddr(),
		Handler: rpc.NewServer(b),
	}

	go func() {
		logger.Info("rpc server listening", "addr", cfg.ServerAddr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("rpc server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
