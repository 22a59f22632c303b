package main

import (
	"log"
	"net/http"

	"ttsdeck/internal/cache"
	"ttsdeck/internal/config"
	"ttsdeck/internal/fetch"
	"ttsdeck/internal/handlers"
	"ttsdeck/internal/pipeline"
	"ttsdeck/internal/scryfall"
)

// SetupServer wires the full import stack and returns the HTTP
// handler for it. Fatal on any initialization failure.
func SetupServer(cfg *config.Config) http.Handler {
	// The cache file is created on first run if it does not exist.
	store, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		log.Fatal("Failed to open card cache: ", err)
	}
	log.Printf("Card cache loaded: %d entries from %s", store.Len(), cfg.Cache.Path)

	// One fetcher is shared by every upstream; its limiter is what
	// keeps us polite toward the card database.
	fetcher := fetch.New(fetch.Config{
		Delay:            cfg.Fetcher.Delay,
		Cooldown:         cfg.Fetcher.Cooldown,
		RequestThreshold: cfg.Fetcher.RequestThreshold,
		MaxAttempts:      cfg.Fetcher.MaxAttempts,
		UserAgent:        cfg.Fetcher.UserAgent,
	})

	cards := scryfall.NewClient(cfg.Scryfall.BaseURL, fetcher)

	imp := pipeline.New(fetcher, store, cards, pipeline.Options{
		Source:      pipeline.Source(cfg.Importer.Source),
		DeckBaseURL: cfg.Importer.DeckBaseURL,
		CardBackURL: cfg.Importer.CardBackURL,
	})

	h := handlers.New(imp)
	return handlers.SetupRouter(h, cfg, nil)
}
