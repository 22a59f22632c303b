package deck

import (
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"ttsdeck/internal/cache"
	"ttsdeck/internal/htmltree"
)

var whitespaceRuns = regexp.MustCompile(`[\r\n\t]+`)

// Parse extracts the raw mainboard entries, commander designations and
// token placeholders from a deck page.
//
// The page contract: mainboard cards are list items tagged
// li.member[id^="boardContainer-main"], each carrying an anchor with
// data-name, data-qty and data-slug; commanders sit under an h3
// heading containing "Commander"; tokens are .card-token anchors in
// the #deck-details region. Changes to these markers upstream are a
// compatibility break, not a parser bug.
func Parse(r io.Reader) (*ParsedDeck, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deck page: %w", err)
	}

	main, err := parseMainBoard(doc)
	if err != nil {
		return nil, err
	}

	return &ParsedDeck{
		MainBoard:  main,
		Commanders: parseCommanders(doc),
		Tokens:     parseTokens(doc),
	}, nil
}

func parseMainBoard(doc *goquery.Document) ([]RawEntry, error) {
	items := doc.Find(`li.member[id^="boardContainer-main"]`)
	if items.Length() == 0 {
		return nil, ErrMalformedDeck
	}

	var entries []RawEntry
	var parseErr error

	items.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		a := s.Find("a[data-qty]").First()
		if a.Length() == 0 {
			parseErr = fmt.Errorf("%w: entry %q has no card reference", ErrMalformedDeck, strings.TrimSpace(s.Text()))
			return false
		}

		name, _ := a.Attr("data-name")
		qtyAttr, _ := a.Attr("data-qty")
		slug, _ := a.Attr("data-slug")
		if name == "" || slug == "" {
			parseErr = fmt.Errorf("%w: entry %q is missing name or slug", ErrMalformedDeck, strings.TrimSpace(s.Text()))
			return false
		}

		qty, err := ParseQuantity(qtyAttr)
		if err != nil {
			parseErr = fmt.Errorf("%w: entry %q: %v", ErrMalformedDeck, name, err)
			return false
		}

		entries = append(entries, RawEntry{Name: name, Quantity: qty, Slug: slug})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return entries, nil
}

// parseCommanders finds the heading announcing the commander section
// and collects every card reference between it and the next heading of
// the same level. Decks without such a section are legal.
func parseCommanders(doc *goquery.Document) []CommanderRef {
	var heading *html.Node
	doc.Find("h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), "Commander") {
			heading = s.Nodes[0]
			return false
		}
		return true
	})
	if heading == nil {
		log.Printf("deck: no commander section found")
		return nil
	}

	var refs []CommanderRef
	for _, sib := range htmltree.SiblingsUntil(heading, "h3") {
		anchors := htmltree.FindAll(sib, func(n *html.Node) bool {
			return htmltree.IsElement(n, "a") && htmltree.Attr(n, "data-name") != ""
		})
		for _, a := range anchors {
			refs = append(refs, CommanderRef{
				Name: htmltree.Attr(a, "data-name"),
				URL:  htmltree.Attr(a, "data-url"),
			})
		}
	}
	if len(refs) == 0 {
		log.Printf("deck: commander heading present but no commander reference found")
	}
	return refs
}

func parseTokens(doc *goquery.Document) []cache.Token {
	var tokens []cache.Token
	doc.Find("#deck-details .card-token a").Each(func(_ int, s *goquery.Selection) {
		image, ok := s.Attr("data-image")
		if !ok {
			return
		}
		name := strings.TrimSpace(whitespaceRuns.ReplaceAllString(s.Text(), " "))
		tokens = append(tokens, cache.Token{
			Name:  name,
			Front: absoluteHTTPS(image),
		})
	})
	return tokens
}

// absoluteHTTPS normalizes protocol-relative and http inputs to an
// absolute https URL.
func absoluteHTTPS(u string) string {
	switch {
	case strings.HasPrefix(u, "https://"):
		return u
	case strings.HasPrefix(u, "http://"):
		return "https://" + strings.TrimPrefix(u, "http://")
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "s://"):
		// og:image content on card pages drops the leading "http".
		return "http" + u
	default:
		return "https:" + u
	}
}
