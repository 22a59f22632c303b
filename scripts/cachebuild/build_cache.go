// Command cachebuild builds a complete card metadata cache from the
// card database's bulk data export, so a server can start with every
// card already resolved instead of filling the cache one miss at a
// time.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"ttsdeck/internal/cache"
	"ttsdeck/internal/scryfall"
)

func main() {
	baseURL := flag.String("base", scryfall.DefaultBaseURL, "card database base URL")
	cachePath := flag.String("cache", "card-cache.json", "output cache file")
	overridesPath := flag.String("overrides", "", "optional JSON file of entries merged over the built cache")
	flag.Parse()

	fmt.Println("Card Cache Builder")
	fmt.Println("==================")
	fmt.Println()

	client := &http.Client{Timeout: 5 * time.Minute}

	fmt.Println("Fetching bulk data index...")
	db := scryfall.NewClient(*baseURL, plainGetter{client})
	downloadURL, err := defaultCardsURL(db)
	if err != nil {
		fmt.Printf("Error locating bulk export: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Downloading %s...\n", downloadURL)
	cards, err := downloadCards(client, downloadURL)
	if err != nil {
		fmt.Printf("Error downloading bulk export: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Downloaded %d cards\n", len(cards))

	entries := buildEntries(cards)
	fmt.Printf("Built %d cache entries\n", len(entries))

	if *overridesPath != "" {
		n, err := applyOverrides(entries, *overridesPath)
		if err != nil {
			fmt.Printf("Error applying overrides: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Applied %d overrides from %s\n", n, *overridesPath)
	}

	if err := cache.WriteFile(*cachePath, entries); err != nil {
		fmt.Printf("Error writing %s: %v\n", *cachePath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *cachePath)
}

// plainGetter adapts a stock HTTP client to the card database client.
// The bulk export host serves static files; no pacing is needed here.
type plainGetter struct {
	client *http.Client
}

func (g plainGetter) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// defaultCardsURL finds the download URL of the "default_cards" bulk
// export in the bulk data index.
func defaultCardsURL(db *scryfall.Client) (string, error) {
	list, err := db.BulkData(context.Background())
	if err != nil {
		return "", err
	}

	for _, bd := range list.Data {
		if bd.Type == "default_cards" {
			return bd.DownloadURI, nil
		}
	}
	return "", fmt.Errorf("no default_cards export in bulk data index")
}

func downloadCards(client *http.Client, url string) ([]scryfall.Card, error) {
	body, err := get(client, url)
	if err != nil {
		return nil, err
	}

	var cards []scryfall.Card
	if err := json.Unmarshal(body, &cards); err != nil {
		return nil, fmt.Errorf("failed to parse bulk export: %w", err)
	}
	return cards, nil
}

// buildEntries converts the bulk card list into cache entries. Cards
// that cannot appear in a deck list, or that have no usable art, are
// skipped. Tokens referenced by a card are resolved against the bulk
// list itself, never over the network.
func buildEntries(cards []scryfall.Card) map[string]cache.Entry {
	byID := make(map[string]scryfall.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	entries := make(map[string]cache.Entry)
	skipped := 0
	for _, c := range cards {
		if skipCard(c) {
			skipped++
			continue
		}

		front, back := c.ArtURLs()
		if front == "" {
			skipped++
			continue
		}

		e := cache.Entry{
			Name:     c.Name,
			OracleID: c.OracleID,
			Front:    front,
			Back:     back,
			Tokens:   tokensFor(c, byID),
		}

		entries[c.Name] = e
		// Double-faced names are also findable by their front face.
		if face, _, ok := strings.Cut(c.Name, " // "); ok {
			if _, exists := entries[face]; !exists {
				entries[face] = e
			}
		}
	}

	fmt.Printf("Skipped %d cards without usable art\n", skipped)
	return entries
}

func skipCard(c scryfall.Card) bool {
	if c.TypeLine == "" || c.ImageStatus == "" || c.ImageStatus == "missing" {
		return true
	}
	if strings.HasPrefix(c.TypeLine, "Token") || strings.HasPrefix(c.TypeLine, "Emblem") {
		return true
	}
	if c.Layout == "art_series" || c.SetType == "minigame" {
		return true
	}
	return false
}

func tokensFor(c scryfall.Card, byID map[string]scryfall.Card) []cache.Token {
	var tokens []cache.Token
	seen := make(map[cache.Token]struct{})
	for _, part := range c.AllParts {
		if !part.IsToken() {
			continue
		}
		tc, ok := byID[part.ID]
		if !ok {
			continue
		}
		front, _ := tc.ArtURLs()
		if front == "" {
			continue
		}
		tok := cache.Token{Name: tc.Name, Front: front}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// applyOverrides merges a local entry file over the built cache, for
// custom art and cards the bulk export lacks.
func applyOverrides(entries map[string]cache.Entry, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var overrides map[string]cache.Entry
	if err := json.Unmarshal(data, &overrides); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for name, e := range overrides {
		entries[name] = e
	}
	return len(overrides), nil
}

func get(client *http.Client, url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
