// Command careercraft-worker consumes resume analysis jobs from RabbitMQ.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/0xcro3dile/careercraft/internal/adapters/queue"
	"github.com/0xcro3dile/careercraft/internal/app"
	"github.com/0xcro3dile/careercraft/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	workers := flag.Int("workers", 0, "number of concurrent jobs (overrides config)")
	flag.Parse()

	cfg, secrets, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[ERROR] Config: %v", err)
	}
	if *workers > 0 {
		cfg.Queue.Workers = *workers
	}
	if cfg.Queue.URL == "" {
		log.Fatal("[ERROR] empty CAREERCRAFT_QUEUE_URL in environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	core, err := app.NewCore(ctx, cfg, secrets)
	if err != nil {
		log.Fatalf("[ERROR] Startup: %v", err)
	}

	// Jobs are only scored once the engine is ready.
	log.Printf("[INFO] Loading reference corpus from %s", core.Corpus.Name())
	if err := core.Load(ctx); err != nil {
		log.Fatalf("[ERROR] Reference corpus failed to load: %v", err)
	}

	consumer := queue.NewConsumer(queue.Config{
		URL:      cfg.Queue.URL,
		Queue:    cfg.Queue.Queue,
		Exchange: cfg.Queue.Exchange,
		Workers:  cfg.Queue.Workers,
	}, core.Analyze, core.Fetcher, core.Parser)

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("[ERROR] Worker: %v", err)
	}
	log.Printf("[INFO] Worker stopped")
}
