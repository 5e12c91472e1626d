// Window Seat Snapshot Fetcher
// Pulls one /states/all response from OpenSky and writes it to the
// snapshot file used for offline operation
package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/windowseat/windowseat/internal/source"
	"github.com/windowseat/windowseat/pkg/config"
	"github.com/windowseat/windowseat/pkg/opensky"
)

var (
	configPath = flag.String("config", "configs/config.json", "Path to configuration file")
	outPath    = flag.String("out", "", "Snapshot file path (overrides config)")
)

func main() {
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *outPath != "" {
		cfg.Source.SnapshotPath = *outPath
	}

	client := opensky.NewClient(
		opensky.WithBaseURL(cfg.Upstream.BaseURL),
		opensky.WithTimeout(cfg.Upstream.Timeout()),
		opensky.WithRateInterval(0),
		opensky.WithCredentials(cfg.Upstream.Username, cfg.Upstream.Password),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Upstream.Timeout())
	defer cancel()

	log.Println("📡 Fetching aircraft states from OpenSky...")
	states, err := client.GetStates(ctx)
	if err != nil {
		if rle, ok := opensky.IsRateLimitError(err); ok {
			log.Fatalf("Rate limited by OpenSky, retry after %s", rle.RetryAfter)
		}
		log.Fatalf("Failed to fetch states: %v", err)
	}

	store := source.NewSnapshotStore(cfg.Source.SnapshotPath)
	if err := store.Save(states); err != nil {
		log.Fatalf("Failed to write snapshot: %v", err)
	}

	log.Printf("✅ Saved %d state vectors to %s", len(states.States), store.Path())
}
