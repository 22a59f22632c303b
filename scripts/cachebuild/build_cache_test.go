package main

import (
	"testing"

	"ttsdeck/internal/scryfall"
)

func playableCard(name string) scryfall.Card {
	return scryfall.Card{
		ID:          "id-" + name,
		Name:        name,
		TypeLine:    "Instant",
		Layout:      "normal",
		SetType:     "expansion",
		ImageStatus: "highres_scan",
		ImageURIs:   &scryfall.ImageURIs{Large: "https://img.test/" + name + ".jpg"},
	}
}

func TestSkipCard(t *testing.T) {
	cases := []struct {
		name string
		card scryfall.Card
		want bool
	}{
		{"Playable", playableCard("Opt"), false},
		{"NoTypeLine", scryfall.Card{ImageStatus: "highres_scan"}, true},
		{"EmptyImageStatus", scryfall.Card{TypeLine: "Instant"}, true},
		{"MissingImage", scryfall.Card{TypeLine: "Instant", ImageStatus: "missing"}, true},
		{"Token", scryfall.Card{TypeLine: "Token Creature - Goblin", ImageStatus: "highres_scan"}, true},
		{"Emblem", scryfall.Card{TypeLine: "Emblem", ImageStatus: "highres_scan"}, true},
		{"ArtSeries", scryfall.Card{TypeLine: "Card", Layout: "art_series", ImageStatus: "highres_scan"}, true},
		{"Minigame", scryfall.Card{TypeLine: "Card", SetType: "minigame", ImageStatus: "highres_scan"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := skipCard(tc.card); got != tc.want {
				t.Errorf("skipCard() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuildEntriesSkipsUnusableCards(t *testing.T) {
	cards := []scryfall.Card{
		playableCard("Opt"),
		{Name: "Lost Art", TypeLine: "Instant", ImageStatus: "highres_scan"},
		{Name: "Backside", TypeLine: "Card", ImageStatus: ""},
	}

	entries := buildEntries(cards)

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if _, ok := entries["Opt"]; !ok {
		t.Error("expected entry for Opt")
	}
}

func TestBuildEntriesFrontFaceAlias(t *testing.T) {
	dfc := scryfall.Card{
		ID:          "id-delver",
		Name:        "Delver of Secrets // Insectile Aberration",
		TypeLine:    "Creature - Human Wizard",
		ImageStatus: "highres_scan",
		CardFaces: []scryfall.CardFace{
			{Name: "Delver of Secrets", ImageURIs: &scryfall.ImageURIs{Large: "front.jpg"}},
			{Name: "Insectile Aberration", ImageURIs: &scryfall.ImageURIs{Large: "back.jpg"}},
		},
	}

	entries := buildEntries([]scryfall.Card{dfc})

	full, ok := entries["Delver of Secrets // Insectile Aberration"]
	if !ok {
		t.Fatal("expected entry under the full name")
	}
	alias, ok := entries["Delver of Secrets"]
	if !ok {
		t.Fatal("expected alias under the front face name")
	}
	if alias.Name != full.Name || alias.Back != "back.jpg" {
		t.Errorf("alias does not match full entry: %+v", alias)
	}
}

func TestBuildEntriesResolvesTokensLocally(t *testing.T) {
	token := scryfall.Card{
		ID:          "id-goblin",
		Name:        "Goblin",
		TypeLine:    "Token Creature - Goblin",
		ImageStatus: "highres_scan",
		ImageURIs:   &scryfall.ImageURIs{Large: "goblin.jpg"},
	}
	maker := playableCard("Krenko's Command")
	maker.AllParts = []scryfall.RelatedPart{
		{ID: "id-goblin", TypeLine: "Token Creature - Goblin", Name: "Goblin"},
		{ID: "id-goblin", TypeLine: "Token Creature - Goblin", Name: "Goblin"},
		{ID: "id-unknown", TypeLine: "Token Artifact - Treasure", Name: "Treasure"},
	}

	entries := buildEntries([]scryfall.Card{maker, token})

	e, ok := entries["Krenko's Command"]
	if !ok {
		t.Fatal("expected entry for the token maker")
	}
	if len(e.Tokens) != 1 {
		t.Fatalf("expected 1 token after dedupe, got %d", len(e.Tokens))
	}
	if e.Tokens[0].Name != "Goblin" || e.Tokens[0].Front != "goblin.jpg" {
		t.Errorf("unexpected token: %+v", e.Tokens[0])
	}
}
