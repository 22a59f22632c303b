// Package cache is the durable store for resolved card metadata. It is
// the single owning store for metadata across a pipeline run: the
// resolver consults it before any external call and writes back every
// miss it resolves.
//
// The durable format is a single JSON object mapping card name to its
// entry, rewritten in full on each write so the file stays
// human-diffable.
package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
)

// Token is the reduced form of a token or emblem related to a card.
type Token struct {
	Name  string `json:"name"`
	Front string `json:"front"`
}

// Entry is the resolved metadata for one card name. Back is set only
// for double-faced cards.
type Entry struct {
	Name     string  `json:"name"`
	OracleID string  `json:"oracle_id,omitempty"`
	Front    string  `json:"front"`
	Back     string  `json:"back,omitempty"`
	Tokens   []Token `json:"tokens,omitempty"`
}

// Store holds the cache in memory and mirrors it to a JSON file.
type Store struct {
	path string

	mu      sync.RWMutex
	entries map[string]Entry
}

// Open loads the cache file at path, or initializes an empty cache and
// creates the file when it does not exist yet. A file that exists but
// cannot be parsed is an error: the run cannot safely proceed without
// cache consistency.
func Open(path string) (*Store, error) {
	s := &Store{
		path:    path,
		entries: make(map[string]Entry),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.flush(); err != nil {
			return nil, fmt.Errorf("failed to create cache file %s: %w", path, err)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("failed to parse cache file %s: %w", path, err)
	}

	return s, nil
}

// Get returns the entry stored under name.
func (s *Store) Get(name string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[name]
	return e, ok
}

// Put stores e under name and, when the entry's canonical name differs
// from name, under the canonical name as well, so later lookups by
// either name hit the cache. The file is rewritten on every put; a
// write failure is logged but does not fail the run, since the
// in-memory cache stays authoritative.
func (s *Store) Put(name string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[name] = e
	if e.Name != "" && e.Name != name {
		s.entries[e.Name] = e
	}

	if err := s.flush(); err != nil {
		log.Printf("cache: failed to write %s: %v", s.path, err)
	}
}

// Len returns the number of cached names.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// WriteFile writes a complete entry map to path in the cache file
// format. It is used by the bulk builder, which assembles the whole
// map before writing once.
func WriteFile(path string, entries map[string]Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
