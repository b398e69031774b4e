// interstitiald is the portal backend daemon: it serves the interstitial
// queue and the interaction API over HTTP, backed by SQLite.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/citygate/interstitial/internal/content"
	"github.com/citygate/interstitial/internal/logging"
	"github.com/citygate/interstitial/internal/server"
	"github.com/citygate/interstitial/internal/store"
)

func main() {
	addr := flag.String("addr", ":8097", "listen address")
	dbPath := flag.String("db", "interstitiald.db", "SQLite database path")
	seed := flag.Bool("seed", false, "seed a demo content queue on startup")
	flag.Parse()

	if err := logging.Init("interstitiald"); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	st, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	if *seed {
		n, err := st.SeedItems(demoQueue())
		if err != nil {
			log.Fatalf("Failed to seed demo queue: %v", err)
		}
		logging.Info("seeded demo queue", "new", n)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           server.New(st).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logging.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logging.Error("shutdown", "err", err)
		}
		close(done)
	}()

	logging.Info("listening", "addr", *addr, "db", *dbPath)
	log.Printf("interstitiald listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
	<-done
}

// demoQueue is a small realistic queue for local development.
func demoQueue() []content.Item {
	now := time.Now()
	return []content.Item{
		{
			ID:               "ad-pool",
			Kind:             content.KindAdvertisement,
			Title:            "Municipal pool season passes now on sale",
			Body:             "Early-bird pricing through the end of the month at the recreation office.",
			TotalSeconds:     10,
			MandatorySeconds: 5,
			Skippable:        true,
			Status:           content.StatusActive,
			CreatedAt:        now.Add(-4 * time.Hour),
		},
		{
			ID:               "mp-garcia",
			Kind:             content.KindMissingPerson,
			Title:            "Missing: Elena Garcia, 72",
			Body:             "Last seen near Riverside Park on Tuesday evening. Call 555-0188 with any information.",
			TotalSeconds:     15,
			MandatorySeconds: 10,
			Skippable:        true,
			Status:           content.StatusActive,
			CreatedAt:        now.Add(-3 * time.Hour),
		},
		{
			ID:           "ev-fair",
			Kind:         content.KindEvent,
			Title:        "Spring street fair this Saturday",
			Body:         "Main Street closes to traffic from 9am. Local vendors, live music, family activities.",
			TotalSeconds: 8,
			Skippable:    true,
			Status:       content.StatusActive,
			EventStart:   now.Add(72 * time.Hour),
			CreatedAt:    now.Add(-2 * time.Hour),
		},
		{
			ID:               "sv-transit",
			Kind:             content.KindSurvey,
			Title:            "Two minutes for better bus routes",
			Body:             "The transit authority wants your input on the proposed route changes.",
			TotalSeconds:     12,
			MandatorySeconds: 3,
			Skippable:        true,
			Status:           content.StatusActive,
			CreatedAt:        now.Add(-1 * time.Hour),
		},
	}
}
