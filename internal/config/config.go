package config

import (
	"fmt"
	"time"
)

// This file defines the configuration structures used by viper_config.go
// The actual loading is handled by viper in viper_config.go

// Config is the full service configuration.
type Config struct {
	Server   ServerSettings   `yaml:"server"`
	Fetcher  FetcherSettings  `yaml:"fetcher"`
	Cache    CacheSettings    `yaml:"cache"`
	Scryfall ScryfallSettings `yaml:"scryfall"`
	Importer ImporterSettings `yaml:"importer"`
}

// ServerSettings contains the HTTP surface settings.
type ServerSettings struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	// RequestTimeout bounds one import request end to end; a full
	// deck import sits behind upstream pacing, so it is generous.
	RequestTimeout time.Duration `yaml:"requestTimeout"`

	// Rate limiting for the API surface (using golang.org/x/time/rate)
	RateLimit      float64 `yaml:"rateLimit"`
	RateLimitBurst int     `yaml:"rateLimitBurst"`

	MaxRequestSize int64 `yaml:"maxRequestSize"`
}

// FetcherSettings tunes the upstream fetch pacing and retries.
type FetcherSettings struct {
	Delay            time.Duration `yaml:"delay"`
	Cooldown         time.Duration `yaml:"cooldown"`
	RequestThreshold int           `yaml:"requestThreshold"`
	MaxAttempts      int           `yaml:"maxAttempts"`
	UserAgent        string        `yaml:"userAgent"`
}

// CacheSettings locates the durable metadata cache.
type CacheSettings struct {
	Path string `yaml:"path"`
}

// ScryfallSettings points at the external card database.
type ScryfallSettings struct {
	BaseURL string `yaml:"baseUrl"`
}

// ImporterSettings tunes the pipeline itself.
type ImporterSettings struct {
	// Source is "scryfall" or "scrape".
	Source      string `yaml:"source"`
	DeckBaseURL string `yaml:"deckBaseUrl"`
	CardBackURL string `yaml:"cardBackUrl"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Port:            "", // Must be set via env
			Host:            "", // Must be set via env
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0, // imports can run for many minutes behind the upstream limiter
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Minute,
			RateLimit:       10,
			RateLimitBurst:  20,
			MaxRequestSize:  1048576, // 1MB
		},
		Fetcher: FetcherSettings{
			Delay:            5 * time.Second,
			Cooldown:         2 * time.Minute,
			RequestThreshold: 50,
			MaxAttempts:      5,
			UserAgent:        "ttsdeck/1.0",
		},
		Cache: CacheSettings{
			Path: "card-cache.json",
		},
		Scryfall: ScryfallSettings{
			BaseURL: "https://api.scryfall.com",
		},
		Importer: ImporterSettings{
			Source:      "scryfall",
			DeckBaseURL: "https://tappedout.net",
			CardBackURL: "",
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT environment variable must be set")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("HOST environment variable must be set")
	}

	if c.Fetcher.Delay < 0 {
		return fmt.Errorf("fetcher delay cannot be negative")
	}
	if c.Fetcher.Cooldown < 0 {
		return fmt.Errorf("fetcher cooldown cannot be negative")
	}
	if c.Fetcher.RequestThreshold < 1 {
		return fmt.Errorf("fetcher requestThreshold must be at least 1")
	}
	if c.Fetcher.MaxAttempts < 1 {
		return fmt.Errorf("fetcher maxAttempts must be at least 1")
	}

	if c.Cache.Path == "" {
		return fmt.Errorf("cache path must be set")
	}

	switch c.Importer.Source {
	case "scryfall", "scrape":
	default:
		return fmt.Errorf("importer source must be scryfall or scrape, got %q", c.Importer.Source)
	}
	if c.Importer.Source == "scrape" && c.Importer.DeckBaseURL == "" {
		return fmt.Errorf("importer deckBaseUrl must be set when source is scrape")
	}

	return nil
}
