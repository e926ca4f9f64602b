package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"foodshare/internal/donation/bootstrap"
	"foodshare/internal/shared/config"
	"foodshare/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log := logger.NewLogger("donation-service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	go func() { <-quit; cancel() }()

	bootstrap.Run(ctx, cfg, log)
}
