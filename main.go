package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sh44ni/netkitd/api"
	"github.com/sh44ni/netkitd/core"
)

func main() {
	samplerOnly := flag.Bool("sampler-only", false, "Run sampler only (no HTTP server)")
	configPath := flag.String("config", "config.json", "Path to config.json")
	listenAddr := flag.String("listen", "", "Override listen address (optional)")
	dataDir := flag.String("data", "", "Override data directory (optional)")
	iface := flag.String("iface", "", "Network interface to monitor (default: all)")
	flag.Parse()

	godotenv.Load()

	cfg := core.LoadConfig(*configPath)
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *iface != "" {
		cfg.Interface = *iface
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("Cannot create data directory %s: %v", cfg.DataDir, err)
	}

	log.Printf("Starting netkitd...")
	log.Printf("Data dir: %s, source: %s, interface: %q", cfg.DataDir, cfg.Source, cfg.Interface)

	source, err := core.NewCounterSource(cfg)
	if err != nil {
		log.Fatalf("Failed to open counter source: %v", err)
	}

	store := core.NewHistoryStore(cfg.HistoryFile())
	log.Printf("History: loaded %d records from %s", store.Len(), cfg.HistoryFile())

	archive, err := core.NewArchive(cfg.ArchiveFile())
	if err != nil {
		// The raw store still works without the rollup archive.
		log.Printf("Archive unavailable (%v); long-range rollups disabled", err)
		archive = nil
	}

	queue := core.NewRecordQueue()
	sampler := core.NewSampler(source, queue, cfg)
	scheduler := core.NewPersistenceScheduler(store, queue, sampler, archive, cfg)
	monitor := core.NewMonitor(store, sampler)

	sampler.Start()
	scheduler.Start()

	if !*samplerOnly {
		server := api.NewServer(monitor, sampler, scheduler, archive, cfg)
		go server.Run()
	} else {
		log.Printf("Sampler-only mode: HTTP server disabled")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	sampler.Stop()
	scheduler.Stop()
	if archive != nil {
		archive.Close()
	}
}
