// Window Seat Web Server
// Serves the flight-tracking REST API over the OpenSky state feed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/windowseat/windowseat/internal/server"
	"github.com/windowseat/windowseat/internal/source"
	"github.com/windowseat/windowseat/pkg/config"
	"github.com/windowseat/windowseat/pkg/opensky"
)

var (
	configPath = flag.String("config", "configs/config.json", "Path to configuration file")
	port       = flag.String("port", "", "HTTP server port (overrides config)")
	offline    = flag.Bool("offline", false, "Serve only the on-disk snapshot")
)

func main() {
	flag.Parse()

	// Credentials may live in a .env file; missing is fine.
	_ = godotenv.Load()

	log.Println("🚀 Starting Window Seat web server...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *offline {
		cfg.Source.ForceOffline = true
	}

	client := opensky.NewClient(
		opensky.WithBaseURL(cfg.Upstream.BaseURL),
		opensky.WithTimeout(cfg.Upstream.Timeout()),
		opensky.WithRateInterval(cfg.Upstream.RateInterval()),
		opensky.WithCredentials(cfg.Upstream.Username, cfg.Upstream.Password),
	)

	states := source.New(
		client,
		source.NewCache(cfg.Source.CacheTTL()),
		source.NewSnapshotStore(cfg.Source.SnapshotPath),
		source.Options{
			SaveSnapshot: cfg.Source.SaveSnapshot,
			ForceOffline: cfg.Source.ForceOffline,
		},
	)

	if cfg.Source.ForceOffline {
		log.Printf("📼 Offline mode: serving snapshot from %s", cfg.Source.SnapshotPath)
	}

	srv := server.New(states, cfg)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("📡 Server listening on http://%s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n👋 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped")
}
