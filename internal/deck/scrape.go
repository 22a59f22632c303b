package deck

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ttsdeck/internal/cache"
	"ttsdeck/internal/fetch"
	"ttsdeck/internal/htmltree"
)

// pageGetter fetches raw pages for the scraping art source.
type pageGetter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// ScrapeResolver is the scraping variant of the resolver: instead of
// querying the card database it reads art off the deck site's own card
// pages. Front art comes from the page's og:image meta tag; back art,
// when the page has a "Back:" heading, from the card page it links to.
type ScrapeResolver struct {
	store metaStore
	get   pageGetter
	base  string
}

// NewScrapeResolver creates a scraping resolver rooted at base (the
// deck site origin, no trailing slash).
func NewScrapeResolver(store metaStore, get pageGetter, base string) *ScrapeResolver {
	return &ScrapeResolver{store: store, get: get, base: strings.TrimRight(base, "/")}
}

// ResolveEntry resolves the card named name whose card page lives at
// pagePath (site-relative). Returns nil when the page does not exist.
func (s *ScrapeResolver) ResolveEntry(ctx context.Context, name, pagePath string) (*cache.Entry, error) {
	if e, ok := s.store.Get(name); ok {
		return &e, nil
	}

	front, doc, err := s.pageArt(ctx, s.pageURL(pagePath))
	if err != nil {
		if fetch.IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}

	entry := cache.Entry{Name: name, Front: front}

	if backPath := backFacePath(doc); backPath != "" {
		back, _, err := s.pageArt(ctx, s.pageURL(backPath))
		if err != nil {
			return nil, err
		}
		entry.Back = back
	}

	s.store.Put(name, entry)
	return &entry, nil
}

func (s *ScrapeResolver) pageURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return s.base + "/" + strings.TrimLeft(path, "/")
}

// pageArt fetches a card page and returns its og:image art URL along
// with the parsed document for further inspection.
func (s *ScrapeResolver) pageArt(ctx context.Context, url string) (string, *goquery.Document, error) {
	body, err := s.get.Get(ctx, url)
	if err != nil {
		return "", nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse card page %s: %w", url, err)
	}

	content, ok := doc.Find(`meta[property="og:image"]`).Attr("content")
	if !ok || content == "" {
		return "", nil, fmt.Errorf("card page %s has no og:image", url)
	}

	return absoluteHTTPS(content), doc, nil
}

// backFacePath finds the "Back:" heading on a card page and
// sibling-walks to the first anchor after it, the same walk the
// commander lookup uses. Returns "" for single-faced cards.
func backFacePath(doc *goquery.Document) string {
	var heading *goquery.Selection
	doc.Find("h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.TrimSpace(h.Text()) == "Back:" {
			heading = h
			return false
		}
		return true
	})
	if heading == nil {
		return ""
	}

	a := htmltree.FirstAnchorAfter(heading.Nodes[0])
	if a == nil {
		return ""
	}
	return htmltree.Attr(a, "data-url")
}
