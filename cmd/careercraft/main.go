// Command careercraft serves the resume matching API.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/0xcro3dile/careercraft/internal/app"
	"github.com/0xcro3dile/careercraft/internal/config"
	httpserver "github.com/0xcro3dile/careercraft/internal/infrastructure/http"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	inbox := flag.String("inbox", "", "directory of resumes to watch (overrides config)")
	flag.Parse()

	cfg, secrets, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[ERROR] Config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *inbox != "" {
		cfg.Inbox.Dir = *inbox
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, secrets)
	if err != nil {
		log.Fatalf("[ERROR] Startup: %v", err)
	}
	defer application.Close()

	// The API answers 503 until the reference index is ready.
	go func() {
		log.Printf("[INFO] Loading reference corpus from %s", application.Corpus.Name())
		if err := application.Load(ctx); err != nil {
			log.Printf("[ERROR] Reference corpus failed to load: %v", err)
		}
	}()

	if application.Inbox != nil {
		go func() {
			if err := application.Inbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[ERROR] Resume inbox stopped: %v", err)
			}
		}()
	}

	server := httpserver.NewServer(application.Services, cfg.Server.Addr)
	if err := server.Start(ctx); err != nil {
		log.Printf("[ERROR] Server: %v", err)
		return
	}
	log.Printf("[INFO] Shut down")
}
