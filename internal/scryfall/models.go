package scryfall

import (
	"errors"
	"fmt"
	"strings"
)

// Card is the subset of a Scryfall card record the pipeline needs.
type Card struct {
	ID          string     `json:"id"`
	OracleID    string     `json:"oracle_id"`
	Name        string     `json:"name"`
	Layout      string     `json:"layout"`
	TypeLine    string     `json:"type_line"`
	SetType     string     `json:"set_type"`
	ImageStatus string     `json:"image_status"`
	ImageURIs   *ImageURIs `json:"image_uris,omitempty"`

	// Card faces, present on double-faced and split cards.
	CardFaces []CardFace `json:"card_faces,omitempty"`

	// Related cards: tokens, emblems, meld parts and so on.
	AllParts []RelatedPart `json:"all_parts,omitempty"`
}

// CardFace is one face of a multi-faced card.
type CardFace struct {
	Name      string     `json:"name"`
	TypeLine  string     `json:"type_line"`
	ImageURIs *ImageURIs `json:"image_uris,omitempty"`
}

// ImageURIs contains the art URLs for one card or face.
type ImageURIs struct {
	Small  string `json:"small"`
	Normal string `json:"normal"`
	Large  string `json:"large"`
	PNG    string `json:"png"`
}

// RelatedPart is an entry of a card's all_parts list.
type RelatedPart struct {
	ID        string `json:"id"`
	Component string `json:"component"`
	Name      string `json:"name"`
	TypeLine  string `json:"type_line"`
	URI       string `json:"uri"`
}

// IsToken reports whether the part is a token or an emblem.
func (p RelatedPart) IsToken() bool {
	return strings.HasPrefix(p.TypeLine, "Token") || strings.HasPrefix(p.TypeLine, "Emblem")
}

// ArtURLs returns the front and back art for the card. When the card
// has two faces each carrying independent art, front and back map to
// face one and face two; otherwise only front is set.
func (c *Card) ArtURLs() (front, back string) {
	if len(c.CardFaces) > 1 && c.CardFaces[0].ImageURIs != nil && c.CardFaces[1].ImageURIs != nil {
		return c.CardFaces[0].ImageURIs.Large, c.CardFaces[1].ImageURIs.Large
	}
	if c.ImageURIs != nil {
		return c.ImageURIs.Large, ""
	}
	return "", ""
}

// BulkDataList is the response of the bulk-data index endpoint.
type BulkDataList struct {
	Data []BulkData `json:"data"`
}

// BulkData describes one downloadable bulk file.
type BulkData struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	DownloadURI string `json:"download_uri"`
}

// NotFoundError reports a card name or URI the database does not know.
type NotFoundError struct {
	Lookup string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("card not found: %s", e.Lookup)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
