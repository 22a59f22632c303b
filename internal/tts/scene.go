// Package tts models the tabletop simulator scene document and
// synthesizes it from resolved deck data. Field names and nesting are
// bit-exact requirements of the consuming application.
package tts

// Scene is the top-level save document.
type Scene struct {
	ObjectStates []Object `json:"ObjectStates"`
}

// Object is one scene object: a custom deck pile or a single card.
type Object struct {
	Name             string                  `json:"Name"`
	Nickname         string                  `json:"Nickname,omitempty"`
	CardID           int                     `json:"CardID,omitempty"`
	CustomDeck       map[int]CustomDeckEntry `json:"CustomDeck"`
	DeckIDs          []int                   `json:"DeckIDs,omitempty"`
	ContainedObjects []ContainedCard         `json:"ContainedObjects,omitempty"`
	Transform        Transform               `json:"Transform"`
}

// CustomDeckEntry is the art sheet for one CustomDeck slot.
type CustomDeckEntry struct {
	FaceURL      string `json:"FaceURL"`
	BackURL      string `json:"BackURL"`
	NumWidth     int    `json:"NumWidth"`
	NumHeight    int    `json:"NumHeight"`
	BackIsHidden bool   `json:"BackIsHidden"`
	UniqueBack   bool   `json:"UniqueBack"`
}

// ContainedCard is a per-copy stub inside a pile.
type ContainedCard struct {
	Name     string `json:"Name"`
	Nickname string `json:"Nickname"`
	CardID   int    `json:"CardID"`
}

// Transform places an object on the table.
type Transform struct {
	PosX   float64 `json:"posX"`
	PosY   float64 `json:"posY"`
	PosZ   float64 `json:"posZ"`
	RotX   float64 `json:"rotX"`
	RotY   float64 `json:"rotY"`
	RotZ   float64 `json:"rotZ"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
	ScaleZ float64 `json:"scaleZ"`
}
