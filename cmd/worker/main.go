package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/kvfinder/kvfinder-web/internal/client"
	"github.com/kvfinder/kvfinder-web/internal/config"
	"github.com/kvfinder/kvfinder-web/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	queueClient := client.NewOcypodClient(&cfg.Ocypod)
	runner := worker.NewRunner(&cfg.Worker)
	w := worker.New(queueClient, runner, cfg.Ocypod.Queue, time.Duration(cfg.Worker.BackoffSecs)*time.Second)

	// The loop exits between jobs on SIGINT/SIGTERM; a job in flight
	// has its solver subprocess cancelled through the context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("KVFinder worker starting (queue %q at %s)", cfg.Ocypod.Queue, cfg.Ocypod.BaseURL)
	w.Start(ctx)
}
