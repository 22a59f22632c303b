package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttsdeck/internal/config"
	"ttsdeck/internal/deck"
	"ttsdeck/internal/fetch"
	"ttsdeck/internal/pipeline"
	"ttsdeck/internal/tts"
)

// fakeImporter records the call it received and returns canned data.
type fakeImporter struct {
	result *pipeline.Result
	err    error

	gotURL   string
	gotNames []string
}

func (f *fakeImporter) ImportURL(_ context.Context, deckURL string) (*pipeline.Result, error) {
	f.gotURL = deckURL
	return f.result, f.err
}

func (f *fakeImporter) ImportNames(_ context.Context, names []string) (*pipeline.Result, error) {
	f.gotNames = names
	return f.result, f.err
}

func sceneResult() *pipeline.Result {
	return &pipeline.Result{
		Scene: tts.Scene{ObjectStates: []tts.Object{
			{Name: "DeckCustom", CustomDeck: map[int]tts.CustomDeckEntry{}},
		}},
		Omitted: []string{"Utter Nonsense"},
	}
}

func postDeck(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/deck", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ImportDeck(w, req)
	return w
}

func TestImportDeckByURL(t *testing.T) {
	imp := &fakeImporter{result: sceneResult()}
	h := New(imp)

	w := postDeck(t, h, `{"url": "https://decks.test/mtg-decks/goblins/"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://decks.test/mtg-decks/goblins/", imp.gotURL)
	assert.Empty(t, imp.gotNames)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Scene.ObjectStates, 1)
	assert.Equal(t, "DeckCustom", result.Scene.ObjectStates[0].Name)
	assert.Equal(t, []string{"Utter Nonsense"}, result.Omitted)
}

func TestImportDeckByNames(t *testing.T) {
	imp := &fakeImporter{result: sceneResult()}
	h := New(imp)

	w := postDeck(t, h, `{"names": ["Mountain", "Sol Ring"]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Mountain", "Sol Ring"}, imp.gotNames)
	assert.Empty(t, imp.gotURL)
}

func TestImportDeckRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"InvalidJSON", `not json`},
		{"Neither", `{}`},
		{"Both", `{"url": "https://decks.test/d", "names": ["Mountain"]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			imp := &fakeImporter{result: sceneResult()}
			w := postDeck(t, New(imp), tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, imp.gotURL)
			assert.Empty(t, imp.gotNames)
		})
	}
}

func TestImportDeckErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"MalformedDeck", deck.ErrMalformedDeck, http.StatusBadRequest},
		{"EmptyDeck", deck.ErrEmptyDeck, http.StatusBadRequest},
		{"CommanderNotFound", deck.ErrCommanderNotFound, http.StatusNotFound},
		{"UpstreamExhausted", fetch.ErrTooManyAttempts, http.StatusBadGateway},
		{"UpstreamStatus", &fetch.StatusError{URL: "https://db.test/x", StatusCode: 500}, http.StatusBadGateway},
		{"DeckPageNotFound", &fetch.StatusError{URL: "https://decks.test/gone", StatusCode: 404}, http.StatusNotFound},
		{"Unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := New(&fakeImporter{err: tc.err})
			w := postDeck(t, h, `{"url": "https://decks.test/d"}`)

			assert.Equal(t, tc.code, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func testRouterConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Server.Port = "8080"
	cfg.Server.Host = "localhost"
	return cfg
}

func TestSetupRouter(t *testing.T) {
	h := New(&fakeImporter{result: sceneResult()})
	r := SetupRouter(h, testRouterConfig(), &RouterOptions{DisableRequestLogger: true})

	t.Run("HealthLive", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/health/live", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("HealthReady", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/health/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ImportRoute", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/deck", strings.NewReader(`{"names": ["Mountain"]}`))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("SecurityHeaders", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/health/live", nil))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.NotEmpty(t, w.Header().Get("X-Frame-Options"))
	})

	t.Run("UnknownRoute", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSetupRouterRequestSizeLimit(t *testing.T) {
	cfg := testRouterConfig()
	cfg.Server.MaxRequestSize = 16

	h := New(&fakeImporter{result: sceneResult()})
	r := SetupRouter(h, cfg, &RouterOptions{DisableRequestLogger: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/deck", strings.NewReader(`{"names": ["A card name well past the limit"]}`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
