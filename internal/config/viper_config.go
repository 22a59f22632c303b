package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration using Viper
// Priority order: Environment variables > Config file > Defaults
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file details
	v.SetConfigName("ttsdeck")
	v.SetConfigType("yaml")

	// Add config paths
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/ttsdeck")
	}

	// Enable environment variable binding
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind specific environment variables
	// These allow both TTSDECK_SERVER_PORT and PORT to work
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.ratelimit", "RATE_LIMIT")
	v.BindEnv("server.ratelimitburst", "RATE_LIMIT_BURST")
	v.BindEnv("server.maxrequestsize", "MAX_REQUEST_SIZE")
	v.BindEnv("cache.path", "CACHE_PATH")
	v.BindEnv("scryfall.baseurl", "SCRYFALL_BASE_URL")
	v.BindEnv("importer.source", "IMPORTER_SOURCE")

	// Server defaults
	v.SetDefault("server.readtimeout", "15s")
	v.SetDefault("server.writetimeout", "0s") // imports can run for many minutes
	v.SetDefault("server.idletimeout", "60s")
	v.SetDefault("server.shutdowntimeout", "30s")
	v.SetDefault("server.requesttimeout", "30m")
	v.SetDefault("server.ratelimit", 10.0)
	v.SetDefault("server.ratelimitburst", 20)
	v.SetDefault("server.maxrequestsize", 1048576) // 1MB

	// Fetcher defaults mirror the upstream's published limits: a
	// conservative spacing plus a long cooldown once the burst budget
	// is spent.
	v.SetDefault("fetcher.delay", "5s")
	v.SetDefault("fetcher.cooldown", "2m")
	v.SetDefault("fetcher.requestthreshold", 50)
	v.SetDefault("fetcher.maxattempts", 5)
	v.SetDefault("fetcher.useragent", "ttsdeck/1.0")

	v.SetDefault("cache.path", "card-cache.json")
	v.SetDefault("scryfall.baseurl", "https://api.scryfall.com")

	v.SetDefault("importer.source", "scryfall")
	v.SetDefault("importer.deckbaseurl", "https://tappedout.net")
	v.SetDefault("importer.cardbackurl", "")

	// Try to read config file (it's optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if strings.Contains(err.Error(), "no such file or directory") {
				// File doesn't exist, continue with defaults
			} else {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
		// Config file not found; continue with env vars and defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
