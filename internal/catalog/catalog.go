// Package catalog provides translation catalogs keyed by exact source text,
// and writers that persist untranslated keys as new catalog entries.
package catalog

import (
	"context"
	"errors"
)

// ErrUnknownFormat is returned for a catalog format that has no loader.
var ErrUnknownFormat = errors.New("unknown catalog format")

const (
	FormatPO     = "po"
	FormatYAML   = "yaml"
	FormatSQLite = "sqlite"
)

// Catalog looks up the translation of an exact source key. An entry with
// an empty translation is reported as not found.
type Catalog interface {
	Lookup(key string) (string, bool)
}

// Writer persists keys as untranslated entries. Entries already present at
// the location are kept as they are.
type Writer interface {
	Merge(ctx context.Context, keys []string) error
}

// Map is an in-memory catalog.
type Map map[string]string

func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
