// Package deck implements the deck-import pipeline: parsing a deck
// page into raw entries, resolving authoritative art for every entry
// and assembling the data the scene synthesizer consumes.
package deck

import (
	"fmt"
	"strconv"

	"ttsdeck/internal/cache"
)

// Quantity is a validated positive card count.
type Quantity int

// ParseQuantity parses s as a positive integer. Zero, negative and
// non-numeric values are rejected at parse time rather than silently
// defaulted.
func ParseQuantity(s string) (Quantity, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid quantity %d: must be at least 1", n)
	}
	return Quantity(n), nil
}

// RawEntry is one mainboard line as read off the deck page, before any
// metadata resolution.
type RawEntry struct {
	Name     string
	Quantity Quantity
	// Slug identifies the entry's card page, used by the scraping art
	// source.
	Slug string
}

// CommanderRef is a commander designation found on the deck page.
type CommanderRef struct {
	Name string
	// URL is the card page path carried by the reference element.
	URL string
}

// ParsedDeck is the parser's view of a deck page.
type ParsedDeck struct {
	MainBoard  []RawEntry
	Commanders []CommanderRef
	Tokens     []cache.Token
}

// Card is a fully resolved deck entry. Back is present only for
// double-faced cards. Quantity is 1 for commanders and tokens.
type Card struct {
	Name     string        `json:"name"`
	Quantity int           `json:"quantity"`
	Front    string        `json:"front"`
	Back     string        `json:"back,omitempty"`
	Tokens   []cache.Token `json:"tokens,omitempty"`
}

// DeckData is the resolved deck handed to the scene synthesizer. Its
// Tokens list holds no duplicate (name, front) pairs and is sorted by
// name case-insensitively.
type DeckData struct {
	Commanders []Card        `json:"commanders"`
	MainBoard  []Card        `json:"mainBoard"`
	Tokens     []cache.Token `json:"tokens"`
}
