package scryfall

import (
	"context"
	"errors"
	"testing"

	"ttsdeck/internal/fetch"
)

// fakeGetter serves canned bodies keyed by URL and records requests.
type fakeGetter struct {
	responses map[string]string
	errs      map[string]error
	requested []string
}

func (g *fakeGetter) Get(_ context.Context, url string) ([]byte, error) {
	g.requested = append(g.requested, url)
	if err, ok := g.errs[url]; ok {
		return nil, err
	}
	body, ok := g.responses[url]
	if !ok {
		return nil, &fetch.StatusError{URL: url, StatusCode: 404}
	}
	return []byte(body), nil
}

func TestCardByName(t *testing.T) {
	g := &fakeGetter{responses: map[string]string{
		"https://db.test/cards/named?exact=Sol+Ring": `{
			"id": "abc123",
			"oracle_id": "def456",
			"name": "Sol Ring",
			"type_line": "Artifact",
			"image_uris": {"large": "https://img.test/solring.jpg"}
		}`,
	}}
	c := NewClient("https://db.test", g)

	card, err := c.CardByName(context.Background(), "Sol Ring")
	if err != nil {
		t.Fatalf("CardByName() error: %v", err)
	}
	if card.Name != "Sol Ring" {
		t.Errorf("expected name Sol Ring, got %q", card.Name)
	}
	if card.ImageURIs == nil || card.ImageURIs.Large != "https://img.test/solring.jpg" {
		t.Errorf("unexpected image uris: %+v", card.ImageURIs)
	}
}

func TestCardByNameEscapesName(t *testing.T) {
	g := &fakeGetter{responses: map[string]string{
		"https://db.test/cards/named?exact=Fire+%2F%2F+Ice": `{"name": "Fire // Ice"}`,
	}}
	c := NewClient("https://db.test", g)

	card, err := c.CardByName(context.Background(), "Fire // Ice")
	if err != nil {
		t.Fatalf("CardByName() error: %v", err)
	}
	if card.Name != "Fire // Ice" {
		t.Errorf("expected split card name, got %q", card.Name)
	}
}

func TestCardByNameNotFound(t *testing.T) {
	c := NewClient("https://db.test", &fakeGetter{})

	_, err := c.CardByName(context.Background(), "Not A Card")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	var nf *NotFoundError
	if errors.As(err, &nf) && nf.Lookup != "Not A Card" {
		t.Errorf("expected lookup name in error, got %q", nf.Lookup)
	}
}

func TestCardByNamePassesThroughOtherErrors(t *testing.T) {
	upstream := errors.New("connection refused")
	g := &fakeGetter{errs: map[string]error{
		"https://db.test/cards/named?exact=Sol+Ring": upstream,
	}}
	c := NewClient("https://db.test", g)

	_, err := c.CardByName(context.Background(), "Sol Ring")
	if !errors.Is(err, upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if IsNotFound(err) {
		t.Error("transport error must not read as not-found")
	}
}

func TestCardByURI(t *testing.T) {
	g := &fakeGetter{responses: map[string]string{
		"https://db.test/cards/tok1": `{"name": "Treasure", "type_line": "Token Artifact"}`,
	}}
	c := NewClient("https://db.test", g)

	card, err := c.CardByURI(context.Background(), "https://db.test/cards/tok1")
	if err != nil {
		t.Fatalf("CardByURI() error: %v", err)
	}
	if card.Name != "Treasure" {
		t.Errorf("expected token name, got %q", card.Name)
	}

	if _, err := c.CardByURI(context.Background(), "https://db.test/cards/missing"); !IsNotFound(err) {
		t.Errorf("expected NotFoundError for missing URI, got %v", err)
	}
}

func TestBulkData(t *testing.T) {
	g := &fakeGetter{responses: map[string]string{
		"https://db.test/bulk-data": `{"data": [
			{"type": "oracle_cards", "name": "Oracle Cards", "download_uri": "https://files.test/oracle.json"},
			{"type": "default_cards", "name": "Default Cards", "download_uri": "https://files.test/default.json"}
		]}`,
	}}
	c := NewClient("https://db.test", g)

	list, err := c.BulkData(context.Background())
	if err != nil {
		t.Fatalf("BulkData() error: %v", err)
	}
	if len(list.Data) != 2 {
		t.Fatalf("expected 2 bulk entries, got %d", len(list.Data))
	}
	if list.Data[1].Type != "default_cards" {
		t.Errorf("unexpected bulk entry order: %+v", list.Data)
	}
}

func TestNewClientDefaultBase(t *testing.T) {
	c := NewClient("", &fakeGetter{})
	if c.base != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", c.base)
	}
}

func TestArtURLs(t *testing.T) {
	t.Run("SingleFace", func(t *testing.T) {
		c := Card{ImageURIs: &ImageURIs{Large: "front.jpg"}}
		front, back := c.ArtURLs()
		if front != "front.jpg" || back != "" {
			t.Errorf("got front=%q back=%q", front, back)
		}
	})

	t.Run("DoubleFaced", func(t *testing.T) {
		c := Card{CardFaces: []CardFace{
			{Name: "Delver of Secrets", ImageURIs: &ImageURIs{Large: "front.jpg"}},
			{Name: "Insectile Aberration", ImageURIs: &ImageURIs{Large: "back.jpg"}},
		}}
		front, back := c.ArtURLs()
		if front != "front.jpg" || back != "back.jpg" {
			t.Errorf("got front=%q back=%q", front, back)
		}
	})

	t.Run("SplitWithSharedArt", func(t *testing.T) {
		// Split cards list faces but carry one shared image.
		c := Card{
			ImageURIs: &ImageURIs{Large: "shared.jpg"},
			CardFaces: []CardFace{{Name: "Fire"}, {Name: "Ice"}},
		}
		front, back := c.ArtURLs()
		if front != "shared.jpg" || back != "" {
			t.Errorf("got front=%q back=%q", front, back)
		}
	})

	t.Run("NoArt", func(t *testing.T) {
		var c Card
		front, back := c.ArtURLs()
		if front != "" || back != "" {
			t.Errorf("got front=%q back=%q", front, back)
		}
	})
}

func TestRelatedPartIsToken(t *testing.T) {
	cases := []struct {
		typeLine string
		want     bool
	}{
		{"Token Creature - Goblin", true},
		{"Token Artifact - Treasure", true},
		{"Emblem - Chandra, Torch of Defiance", true},
		{"Instant", false},
		{"Legendary Creature - Dragon", false},
	}
	for _, tc := range cases {
		p := RelatedPart{TypeLine: tc.typeLine}
		if got := p.IsToken(); got != tc.want {
			t.Errorf("IsToken(%q) = %v, want %v", tc.typeLine, got, tc.want)
		}
	}
}
