// Package pipeline wires the deck-import flow end to end: fetch the
// deck page, parse it, resolve every card through the cache and the
// external card database, and synthesize the tabletop scene. A run
// either produces a complete scene or fails; partial decks are never
// returned.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"ttsdeck/internal/cache"
	"ttsdeck/internal/deck"
	"ttsdeck/internal/scryfall"
	"ttsdeck/internal/tts"
)

// Source selects how card art is resolved.
type Source string

const (
	// SourceScryfall resolves art through the external card database.
	SourceScryfall Source = "scryfall"
	// SourceScrape resolves art by scraping the deck site's card pages.
	SourceScrape Source = "scrape"
)

// Getter fetches raw documents.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// MetaStore is the metadata cache the run resolves through.
type MetaStore interface {
	Get(name string) (cache.Entry, bool)
	Put(name string, e cache.Entry)
}

// CardSource is the external card database.
type CardSource interface {
	CardByName(ctx context.Context, name string) (*scryfall.Card, error)
	CardByURI(ctx context.Context, uri string) (*scryfall.Card, error)
}

// Result is a finished import: the scene plus the names that resolved
// to nothing and were left out of it.
type Result struct {
	Scene   tts.Scene `json:"scene"`
	Omitted []string  `json:"omitted,omitempty"`
}

// Pipeline is one import pipeline instance. The cache is constructed
// by the caller and threaded through; concurrent runs need separate
// caches or an external lock.
type Pipeline struct {
	get      Getter
	resolver *deck.Resolver
	scraper  *deck.ScrapeResolver
	synth    tts.Synthesizer
	source   Source
	deckBase string
}

// Options tunes a pipeline.
type Options struct {
	// Source selects the art source; default SourceScryfall.
	Source Source
	// DeckBaseURL is the deck site origin for the scraping source.
	DeckBaseURL string
	// CardBackURL overrides the placeholder back art.
	CardBackURL string
}

// New assembles a pipeline. store is the metadata cache (or an
// in-memory fake in tests), cards the card database client.
func New(get Getter, store MetaStore, cards CardSource, opts Options) *Pipeline {
	if opts.Source == "" {
		opts.Source = SourceScryfall
	}
	return &Pipeline{
		get:      get,
		resolver: deck.NewResolver(store, cards),
		scraper:  deck.NewScrapeResolver(store, get, opts.DeckBaseURL),
		synth:    tts.NewSynthesizer(opts.CardBackURL),
		source:   opts.Source,
		deckBase: opts.DeckBaseURL,
	}
}

// ImportURL imports the deck list published at deckURL.
func (p *Pipeline) ImportURL(ctx context.Context, deckURL string) (*Result, error) {
	body, err := p.get.Get(ctx, deckURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deck page: %w", err)
	}

	parsed, err := deck.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	commanders, err := p.resolveCommanders(ctx, parsed.Commanders)
	if err != nil {
		return nil, err
	}

	var (
		mainBoard []deck.Card
		omitted   []string
	)
	for _, raw := range parsed.MainBoard {
		entry, err := p.resolveEntry(ctx, raw)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			log.Printf("pipeline: dropping unresolvable card %q", raw.Name)
			omitted = append(omitted, raw.Name)
			continue
		}
		mainBoard = append(mainBoard, cardFrom(*entry, raw.Name, int(raw.Quantity)))
	}
	if len(mainBoard) == 0 {
		return nil, deck.ErrEmptyDeck
	}

	data := deck.DeckData{
		Commanders: commanders,
		MainBoard:  mainBoard,
		Tokens:     mergeTokens(parsed.Tokens, commanders, mainBoard),
	}

	return &Result{Scene: p.synth.Synthesize(data), Omitted: omitted}, nil
}

// ImportNames imports a flat ordered list of card names, the alternate
// input mode: no parsing, no commanders, quantity 1 each. Names the
// database does not know are dropped; a list where nothing resolves is
// an error.
func (p *Pipeline) ImportNames(ctx context.Context, names []string) (*Result, error) {
	var (
		mainBoard []deck.Card
		omitted   []string
	)
	for _, name := range names {
		entry, err := p.resolver.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			omitted = append(omitted, name)
			continue
		}
		mainBoard = append(mainBoard, cardFrom(*entry, name, 1))
	}
	if len(mainBoard) == 0 {
		return nil, deck.ErrEmptyDeck
	}

	data := deck.DeckData{
		MainBoard: mainBoard,
		Tokens:    mergeTokens(nil, nil, mainBoard),
	}

	return &Result{Scene: p.synth.Synthesize(data), Omitted: omitted}, nil
}

func (p *Pipeline) resolveCommanders(ctx context.Context, refs []deck.CommanderRef) ([]deck.Card, error) {
	var commanders []deck.Card
	for _, ref := range refs {
		var (
			entry *cache.Entry
			err   error
		)
		if p.source == SourceScrape {
			entry, err = p.scraper.ResolveEntry(ctx, ref.Name, ref.URL)
		} else {
			entry, err = p.resolver.Resolve(ctx, ref.Name)
		}
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, fmt.Errorf("%w: %q", deck.ErrCommanderNotFound, ref.Name)
		}
		commanders = append(commanders, cardFrom(*entry, ref.Name, 1))
	}
	return commanders, nil
}

func (p *Pipeline) resolveEntry(ctx context.Context, raw deck.RawEntry) (*cache.Entry, error) {
	if p.source == SourceScrape {
		return p.scraper.ResolveEntry(ctx, raw.Name, "mtg-card/"+raw.Slug)
	}
	return p.resolver.Resolve(ctx, raw.Name)
}

func cardFrom(e cache.Entry, name string, qty int) deck.Card {
	if e.Name != "" {
		name = e.Name
	}
	return deck.Card{
		Name:     name,
		Quantity: qty,
		Front:    e.Front,
		Back:     e.Back,
		Tokens:   e.Tokens,
	}
}

// mergeTokens combines the page's token placeholders with the tokens
// derived from every resolved card, drops duplicate (name, front)
// pairs and sorts by name case-insensitively.
func mergeTokens(page []cache.Token, commanders, mainBoard []deck.Card) []cache.Token {
	seen := make(map[cache.Token]struct{})
	var tokens []cache.Token

	addAll := func(ts []cache.Token) {
		for _, t := range ts {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			tokens = append(tokens, t)
		}
	}

	addAll(page)
	for _, c := range commanders {
		addAll(c.Tokens)
	}
	for _, c := range mainBoard {
		addAll(c.Tokens)
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		return strings.ToLower(tokens[i].Name) < strings.ToLower(tokens[j].Name)
	})

	return tokens
}
