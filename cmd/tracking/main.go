package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/sandboxsec/awaretrack/internal/config"
	"github.com/sandboxsec/awaretrack/internal/repository/postgres"
	"github.com/sandboxsec/awaretrack/internal/service/clickstore"
	"github.com/sandboxsec/awaretrack/internal/tracking"
)

// The tracking endpoint runs as its own process so the pixel and
// redirect stay up while the operator API restarts or deploys.
func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("database url is required (config or DATABASE_URL)")
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("pinging database: %v", err)
	}

	clicks := clickstore.NewService(postgres.NewClickRepo(db))
	handler := tracking.NewHandler(clicks, os.Getenv("TRACKING_LANDING"))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Tracking.Port),
		Handler:           handler.Routes(),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Tracking endpoint listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Tracking server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down tracking endpoint...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Tracking shutdown error: %v", err)
	}
}
