// Package scryfall is a minimal client for the Scryfall card database,
// shaped to the importer's needs: exact-name lookup, part lookup by
// URI and the bulk-data index. All requests go through the caller's
// fetcher so its pacing and retry policy apply.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"ttsdeck/internal/fetch"
)

// DefaultBaseURL is the production Scryfall API root.
const DefaultBaseURL = "https://api.scryfall.com"

// Getter is the transport the client issues requests through.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Client queries the card database.
type Client struct {
	base string
	get  Getter
}

// NewClient creates a client against base, or DefaultBaseURL when base
// is empty.
func NewClient(base string, g Getter) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{base: base, get: g}
}

// CardByName looks a card up by its exact name. A name the database
// does not know returns a *NotFoundError.
func (c *Client) CardByName(ctx context.Context, name string) (*Card, error) {
	u := fmt.Sprintf("%s/cards/named?exact=%s", c.base, url.QueryEscape(name))

	card, err := c.cardAt(ctx, u)
	if err != nil {
		if fetch.IsStatus(err, http.StatusNotFound) {
			return nil, &NotFoundError{Lookup: name}
		}
		return nil, err
	}
	return card, nil
}

// CardByURI fetches a card record by an absolute URI, as carried by a
// related part.
func (c *Client) CardByURI(ctx context.Context, uri string) (*Card, error) {
	card, err := c.cardAt(ctx, uri)
	if err != nil {
		if fetch.IsStatus(err, http.StatusNotFound) {
			return nil, &NotFoundError{Lookup: uri}
		}
		return nil, err
	}
	return card, nil
}

// BulkData fetches the bulk-data index.
func (c *Client) BulkData(ctx context.Context) (*BulkDataList, error) {
	body, err := c.get.Get(ctx, c.base+"/bulk-data")
	if err != nil {
		return nil, fmt.Errorf("failed to get bulk data index: %w", err)
	}

	var list BulkDataList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse bulk data index: %w", err)
	}
	return &list, nil
}

func (c *Client) cardAt(ctx context.Context, u string) (*Card, error) {
	body, err := c.get.Get(ctx, u)
	if err != nil {
		return nil, err
	}

	var card Card
	if err := json.Unmarshal(body, &card); err != nil {
		return nil, fmt.Errorf("failed to parse card response from %s: %w", u, err)
	}
	return &card, nil
}
