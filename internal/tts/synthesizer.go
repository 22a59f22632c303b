package tts

import (
	"ttsdeck/internal/cache"
	"ttsdeck/internal/deck"
)

const (
	// pileSpacing is the fixed distance between successive objects
	// along the x axis.
	pileSpacing = 2.2

	// DefaultCardBack is the placeholder back art used for cards
	// without a distinguishable back of their own.
	DefaultCardBack = "https://backs.scryfall.io/normal/0/a/0aeebaf5-8c7d-4636-9e82-8c27447861f7.jpg"
)

// Synthesizer lays resolved deck data out as a scene. Pure and
// deterministic: same deck data, same scene.
type Synthesizer struct {
	cardBack string
}

// NewSynthesizer creates a synthesizer; an empty cardBack falls back
// to DefaultCardBack.
func NewSynthesizer(cardBack string) Synthesizer {
	if cardBack == "" {
		cardBack = DefaultCardBack
	}
	return Synthesizer{cardBack: cardBack}
}

// pileEntry is one physical card copy to be laid into a pile.
type pileEntry struct {
	name string
	face string
	back string
}

// Synthesize builds the scene: the mainboard pile face-down, then the
// commander object(s), token object(s) and the supplementary
// double-sided pile, all face-up. Sections with a single card emit the
// single-card form; empty sections emit nothing.
func (s Synthesizer) Synthesize(d deck.DeckData) Scene {
	var objects []Object

	add := func(entries []pileEntry, faceDown bool) {
		if len(entries) == 0 {
			return
		}
		if len(entries) == 1 {
			objects = append(objects, s.single(entries[0], len(objects)))
			return
		}
		objects = append(objects, s.pile(entries, faceDown, len(objects)))
	}

	// The mainboard is always a pile, even with one physical copy.
	if main := s.expand(d.MainBoard); len(main) > 0 {
		objects = append(objects, s.pile(main, true, len(objects)))
	}

	add(s.commanderEntries(d.Commanders), false)
	add(s.tokenEntries(d.Tokens), false)
	add(s.doubleSidedEntries(d.MainBoard), false)

	return Scene{ObjectStates: objects}
}

// expand turns the mainboard into physical copies, one pile entry per
// copy in quantity order.
func (s Synthesizer) expand(cards []deck.Card) []pileEntry {
	var entries []pileEntry
	for _, c := range cards {
		e := pileEntry{name: c.Name, face: c.Front, back: s.backOr(c.Back)}
		for i := 0; i < c.Quantity; i++ {
			entries = append(entries, e)
		}
	}
	return entries
}

func (s Synthesizer) commanderEntries(cards []deck.Card) []pileEntry {
	var entries []pileEntry
	for _, c := range cards {
		entries = append(entries, pileEntry{name: c.Name, face: c.Front, back: s.backOr(c.Back)})
	}
	return entries
}

// tokenEntries lays out the token list; tokens carry no back art of
// their own, so every back is the placeholder.
func (s Synthesizer) tokenEntries(tokens []cache.Token) []pileEntry {
	var entries []pileEntry
	for _, t := range tokens {
		entries = append(entries, pileEntry{name: t.Name, face: t.Front, back: s.cardBack})
	}
	return entries
}

// doubleSidedEntries collects each double-faced mainboard card once,
// rendered with its back art as the face. The supplementary pile does
// not replace the card's copies in the mainboard pile.
func (s Synthesizer) doubleSidedEntries(cards []deck.Card) []pileEntry {
	var entries []pileEntry
	for _, c := range cards {
		if c.Back == "" {
			continue
		}
		entries = append(entries, pileEntry{name: c.Name, face: c.Back, back: s.cardBack})
	}
	return entries
}

// pile builds a face-up or face-down pile. Slots are assigned per
// physical copy: CustomDeck keys run densely 1..N and each contained
// copy's CardID is 100 times its slot, keeping the two index spaces
// aligned.
func (s Synthesizer) pile(entries []pileEntry, faceDown bool, index int) Object {
	customDeck := make(map[int]CustomDeckEntry, len(entries))
	contained := make([]ContainedCard, 0, len(entries))
	deckIDs := make([]int, 0, len(entries))

	for i, e := range entries {
		slot := i + 1
		customDeck[slot] = s.artEntry(e)
		contained = append(contained, ContainedCard{
			Name:     "Card",
			Nickname: e.name,
			CardID:   100 * slot,
		})
		deckIDs = append(deckIDs, 100*slot)
	}

	return Object{
		Name:             "DeckCustom",
		CustomDeck:       customDeck,
		DeckIDs:          deckIDs,
		ContainedObjects: contained,
		Transform:        transformAt(index, faceDown),
	}
}

func (s Synthesizer) single(e pileEntry, index int) Object {
	return Object{
		Name:       "Card",
		Nickname:   e.name,
		CardID:     100,
		CustomDeck: map[int]CustomDeckEntry{1: s.artEntry(e)},
		Transform:  transformAt(index, false),
	}
}

func (s Synthesizer) artEntry(e pileEntry) CustomDeckEntry {
	return CustomDeckEntry{
		FaceURL:      e.face,
		BackURL:      e.back,
		NumWidth:     1,
		NumHeight:    1,
		BackIsHidden: true,
		UniqueBack:   false,
	}
}

func (s Synthesizer) backOr(back string) string {
	if back == "" {
		return s.cardBack
	}
	return back
}

func transformAt(index int, faceDown bool) Transform {
	rotZ := 0.0
	if faceDown {
		rotZ = 180.0
	}
	return Transform{
		PosX:   pileSpacing * float64(index),
		PosY:   1.0,
		PosZ:   0.0,
		RotX:   0.0,
		RotY:   180.0,
		RotZ:   rotZ,
		ScaleX: 1.0,
		ScaleY: 1.0,
		ScaleZ: 1.0,
	}
}
