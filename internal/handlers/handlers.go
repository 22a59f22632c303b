// Package handlers exposes the deck-import pipeline over HTTP. The
// surface is deliberately small: one import endpoint and health
// checks; everything else about the surrounding site lives elsewhere.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"ttsdeck/internal/deck"
	"ttsdeck/internal/fetch"
	"ttsdeck/internal/pipeline"
)

// Importer is the pipeline the handlers drive.
type Importer interface {
	ImportURL(ctx context.Context, deckURL string) (*pipeline.Result, error)
	ImportNames(ctx context.Context, names []string) (*pipeline.Result, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	importer Importer
}

// New creates a new handler
func New(imp Importer) *Handler {
	return &Handler{importer: imp}
}

// importRequest is the POST /api/deck body: exactly one of URL or
// Names must be set.
type importRequest struct {
	URL   string   `json:"url,omitempty"`
	Names []string `json:"names,omitempty"`
}

// ImportDeck runs one pipeline import and returns the scene document
// plus the omission report.
func (h *Handler) ImportDeck(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	hasURL := req.URL != ""
	hasNames := len(req.Names) > 0
	if hasURL == hasNames {
		writeError(w, http.StatusBadRequest, "provide exactly one of url or names")
		return
	}

	var (
		result *pipeline.Result
		err    error
	)
	if hasURL {
		result, err = h.importer.ImportURL(r.Context(), req.URL)
	} else {
		result, err = h.importer.ImportNames(r.Context(), req.Names)
	}
	if err != nil {
		status, msg := classify(err)
		log.Printf("handlers: import failed: %v", err)
		writeError(w, status, msg)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("handlers: failed to write response: %v", err)
	}
}

// classify maps a pipeline error to a response status and a message
// safe to hand to the caller.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, deck.ErrMalformedDeck):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, deck.ErrEmptyDeck):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, deck.ErrCommanderNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, fetch.ErrTooManyAttempts):
		return http.StatusBadGateway, "upstream rate limit exhausted"
	}

	var se *fetch.StatusError
	if errors.As(err, &se) {
		// Card lookups translate their own 404s, so a raw 404 here
		// means the deck page itself does not exist.
		if se.StatusCode == http.StatusNotFound {
			return http.StatusNotFound, "deck page not found"
		}
		return http.StatusBadGateway, se.Error()
	}

	return http.StatusInternalServerError, "import failed"
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
