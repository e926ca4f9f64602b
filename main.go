package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"foodshare/internal/shared/config"
	"foodshare/internal/shared/logger"

	donationboot "foodshare/internal/donation/bootstrap"
	locationboot "foodshare/internal/livelocation/bootstrap"
)

func main() {
	svc := flag.String("service", "all", "donation|location|all")
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	go func() { <-quit; cancel() }()

	switch *svc {
	case "donation":
		donationboot.Run(ctx, cfg, logger.NewLogger("donation-service"))
	case "location":
		locationboot.Run(ctx, cfg, logger.NewLogger("location-service"))
	case "all":
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			donationboot.Run(ctx, cfg, logger.NewLogger("donation-service"))
		}()
		go func() {
			defer wg.Done()
			locationboot.Run(ctx, cfg, logger.NewLogger("location-service"))
		}()
		wg.Wait()
	default:
		log := logger.NewLogger("foodshare")
		log.Fatal(logger.Entry{
			Action:  "invalid_service_flag",
			Message: *svc,
		})
	}
}
