// Package translator looks text units up in an ordered list of catalogs
// and collects the units that no catalog could translate.
package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/valpere/docloc/internal/catalog"
)

// ErrAlreadySaved is returned when Save is called more than once.
var ErrAlreadySaved = errors.New("translator: misses already saved")

// Stats counts lookups made through a Translator.
type Stats struct {
	Hits         int
	Misses       int
	UniqueMisses int
}

// Translator is owned by a single run and is not safe for concurrent use.
type Translator struct {
	catalogs []catalog.Catalog
	writer   catalog.Writer

	misses  []string
	missSet map[string]struct{}
	// hits[i] holds the keys served by catalogs[i]
	hits   [][]string
	hitSet map[string]struct{}
	stats  Stats
	saved  bool
}

// New returns a Translator that checks catalogs in order. writer may be nil,
// in which case Save persists nothing.
func New(catalogs []catalog.Catalog, writer catalog.Writer) *Translator {
	return &Translator{
		catalogs: catalogs,
		writer:   writer,
		missSet:  make(map[string]struct{}),
		hits:     make([][]string, len(catalogs)),
		hitSet:   make(map[string]struct{}),
	}
}

// Translate returns the translation of text, or text itself when no
// catalog holds it.
func (t *Translator) Translate(text string) string {
	if v, ok := t.lookup(text); ok {
		return v
	}
	return text
}

// TranslateLines translates lines as one unit keyed by the lines joined
// with '\n'. A translation is split back into lines.
func (t *Translator) TranslateLines(lines []string) []string {
	v, ok := t.lookup(strings.Join(lines, "\n"))
	if !ok {
		return lines
	}
	return strings.Split(v, "\n")
}

func (t *Translator) lookup(key string) (string, bool) {
	for i, c := range t.catalogs {
		if v, ok := c.Lookup(key); ok {
			t.stats.Hits++
			if _, seen := t.hitSet[key]; !seen {
				t.hitSet[key] = struct{}{}
				t.hits[i] = append(t.hits[i], key)
			}
			return v, true
		}
	}

	t.stats.Misses++
	if _, seen := t.missSet[key]; !seen {
		t.missSet[key] = struct{}{}
		t.misses = append(t.misses, key)
	}
	return "", false
}

// Misses returns the untranslated keys in the order first seen.
func (t *Translator) Misses() []string {
	return append([]string(nil), t.misses...)
}

// Hits returns the keys translated by the i-th catalog, in the order first
// seen. Keys served by an earlier catalog are not included.
func (t *Translator) Hits(i int) []string {
	if i < 0 || i >= len(t.hits) {
		return nil
	}
	return append([]string(nil), t.hits[i]...)
}

func (t *Translator) Stats() Stats {
	s := t.stats
	s.UniqueMisses = len(t.misses)
	return s
}

// Save persists the miss set through the writer. It may be called once.
func (t *Translator) Save(ctx context.Context) error {
	if t.saved {
		return ErrAlreadySaved
	}
	t.saved = true

	if t.writer == nil || len(t.misses) == 0 {
		return nil
	}
	if err := t.writer.Merge(ctx, t.Misses()); err != nil {
		return fmt.Errorf("failed to save untranslated entries: %w", err)
	}
	return nil
}
