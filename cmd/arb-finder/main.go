package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ETTyler/Arb-Finder/internal/alerts"
	"github.com/ETTyler/Arb-Finder/internal/config"
	"github.com/ETTyler/Arb-Finder/internal/engine"
	"github.com/ETTyler/Arb-Finder/internal/journal"
	"github.com/ETTyler/Arb-Finder/internal/oddsapi"
	"github.com/ETTyler/Arb-Finder/internal/web"
)

func main() {
	cfg := config.Load()

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.APIKey == "" {
		log.Fatal("ODDS_API_KEY is required")
	}

	// Initialize components
	client := oddsapi.NewClient(cfg.APIKey)
	notifier := alerts.NewNotifier(cfg.AlertCooldown, cfg.Currency)

	var db *journal.DB
	if cfg.DBPath != "" {
		var err error
		db, err = journal.Open(cfg.DBPath)
		if err != nil {
			log.Printf("Journal disabled: %v", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	scanner := engine.New(client, notifier, db, cfg)

	notifier.LogStartup(fmt.Sprintf(" region=%s market=%s stake=%d cutoff=%.3f started=%t interval=%s db=%s",
		cfg.Region, cfg.Market, cfg.TotalStake, cfg.Cutoff,
		cfg.IncludeStarted, cfg.ScanInterval, cfg.DBPath))

	// One-shot mode: scan once, print, exit.
	if cfg.ScanInterval == 0 {
		if _, err := scanner.Scan(context.Background()); err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		return
	}

	// Watch mode: serve results over HTTP and rescan on the interval.
	server := web.NewServer(cfg.Port, scanner, db)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Web server failed: %v", err)
		}
	}()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	scanner.Run(ctx)
	server.Stop()
	log.Println("Scanner stopped gracefully")
}
