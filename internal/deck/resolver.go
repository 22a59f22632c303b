package deck

import (
	"context"
	"log"

	"ttsdeck/internal/cache"
	"ttsdeck/internal/scryfall"
)

// metaStore is the slice of the cache the resolver needs; tests swap
// in an in-memory fake.
type metaStore interface {
	Get(name string) (cache.Entry, bool)
	Put(name string, e cache.Entry)
}

// cardSource is the external card database.
type cardSource interface {
	CardByName(ctx context.Context, name string) (*scryfall.Card, error)
	CardByURI(ctx context.Context, uri string) (*scryfall.Card, error)
}

// Resolver turns card names into normalized art metadata, memoized
// through the cache. It is constructed per pipeline run and threaded
// through explicitly; there is no shared module state.
type Resolver struct {
	store metaStore
	cards cardSource
}

// NewResolver creates a resolver over the given cache and card
// database.
func NewResolver(store metaStore, cards cardSource) *Resolver {
	return &Resolver{store: store, cards: cards}
}

// Resolve returns the metadata for name, or nil when the database does
// not know the name. Not-found results are not cached: callers drop
// the card, and a later run may retry.
//
// A cache hit short-circuits without any external call. On a miss the
// resolved entry is written through under the queried name and, when
// different, the record's canonical name.
func (r *Resolver) Resolve(ctx context.Context, name string) (*cache.Entry, error) {
	if e, ok := r.store.Get(name); ok {
		return &e, nil
	}

	card, err := r.cards.CardByName(ctx, name)
	if err != nil {
		if scryfall.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	front, back := card.ArtURLs()
	entry := cache.Entry{
		Name:     card.Name,
		OracleID: card.OracleID,
		Front:    front,
		Back:     back,
	}

	entry.Tokens, err = r.resolveTokens(ctx, card)
	if err != nil {
		return nil, err
	}

	r.store.Put(name, entry)
	return &entry, nil
}

// resolveTokens fetches every related part marked as a token or emblem
// and reduces it to name plus front art. No recursive expansion: a
// token's own related parts are ignored. Duplicate (name, front) pairs
// collapse to one.
func (r *Resolver) resolveTokens(ctx context.Context, card *scryfall.Card) ([]cache.Token, error) {
	var tokens []cache.Token
	seen := make(map[cache.Token]struct{})

	for _, part := range card.AllParts {
		if !part.IsToken() {
			continue
		}

		tc, err := r.cards.CardByURI(ctx, part.URI)
		if err != nil {
			if scryfall.IsNotFound(err) {
				log.Printf("deck: could not retrieve token data for %s", part.URI)
				continue
			}
			return nil, err
		}

		front, _ := tc.ArtURLs()
		tok := cache.Token{Name: tc.Name, Front: front}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}

	return tokens, nil
}
