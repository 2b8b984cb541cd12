// Package session wires catalogs from configuration to a single
// localization pass and persists what was left untranslated.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/valpere/docloc/internal"
	"github.com/valpere/docloc/internal/catalog"
	"github.com/valpere/docloc/internal/config"
	"github.com/valpere/docloc/internal/doc"
	"github.com/valpere/docloc/internal/store"
	"github.com/valpere/docloc/internal/translator"
	"github.com/valpere/docloc/internal/walker"
)

// Session owns the translator and the SQLite handles of one run.
type Session struct {
	ID         string
	targetLang string
	tr         *translator.Translator
	stores     map[string]*store.Store
	// memories maps a catalog position to the store it was loaded from
	memories map[int]*store.Store
}

// Open loads every configured catalog in priority order. Any load failure
// aborts the session.
func Open(ctx context.Context, cfg config.Config) (*Session, error) {
	s := &Session{
		ID:         uuid.New().String(),
		targetLang: cfg.TargetLang,
		stores:     make(map[string]*store.Store),
		memories:   make(map[int]*store.Store),
	}

	var catalogs []catalog.Catalog
	for i, cc := range cfg.Catalogs {
		c, err := s.loadCatalog(ctx, i, cc)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to load catalog %s: %w", cc.Path, err)
		}
		catalogs = append(catalogs, c)
		log.Debug().Str("format", cc.Format).Str("path", cc.Path).Msg("Loaded catalog")
	}

	w, err := s.writer(cfg.Output)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.tr = translator.New(catalogs, w)
	return s, nil
}

func (s *Session) loadCatalog(ctx context.Context, pos int, cc config.CatalogConfig) (catalog.Catalog, error) {
	switch cc.Format {
	case catalog.FormatPO:
		return catalog.LoadPO(cc.Path)
	case catalog.FormatYAML:
		return catalog.LoadYAML(cc.Path)
	case catalog.FormatSQLite:
		st, err := s.openStore(cc.Path)
		if err != nil {
			return nil, err
		}
		s.memories[pos] = st
		return st.Catalog(ctx, s.targetLang)
	default:
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownFormat, cc.Format)
	}
}

func (s *Session) writer(out config.CatalogConfig) (catalog.Writer, error) {
	switch out.Format {
	case "":
		return nil, nil
	case catalog.FormatPO:
		return catalog.NewPOWriter(out.Path), nil
	case catalog.FormatYAML:
		return catalog.NewYAMLWriter(out.Path, s.targetLang), nil
	case catalog.FormatSQLite:
		st, err := s.openStore(out.Path)
		if err != nil {
			return nil, err
		}
		return st.Writer(s.targetLang, s.ID), nil
	default:
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownFormat, out.Format)
	}
}

// openStore shares one handle per database path.
func (s *Session) openStore(path string) (*store.Store, error) {
	if st, ok := s.stores[path]; ok {
		return st, nil
	}
	st, err := store.New(path)
	if err != nil {
		return nil, err
	}
	s.stores[path] = st
	return st, nil
}

// Run localizes root in place and persists the misses. source names the
// document in run records.
func (s *Session) Run(ctx context.Context, source string, root doc.Node) error {
	start := time.Now()
	walker.Process(root, s.tr)

	if err := s.tr.Save(ctx); err != nil {
		return err
	}

	stats := s.tr.Stats()
	for pos, st := range s.memories {
		if err := st.MarkUsed(ctx, s.targetLang, s.tr.Hits(pos)); err != nil {
			return fmt.Errorf("failed to update translation memory usage: %w", err)
		}
	}
	for _, st := range s.stores {
		run := internal.Run{
			ID:         s.ID,
			Source:     source,
			TargetLang: s.targetLang,
			Hits:       stats.Hits,
			Misses:     stats.Misses,
			Timestamp:  start,
		}
		if err := st.SaveRun(ctx, run); err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
	}

	log.Info().
		Str("run", s.ID).
		Str("source", source).
		Str("target", s.targetLang).
		Int("hits", stats.Hits).
		Int("misses", stats.Misses).
		Int("new_entries", stats.UniqueMisses).
		Dur("elapsed", time.Since(start)).
		Msg("Localization complete")
	return nil
}

// Misses returns the untranslated keys collected so far.
func (s *Session) Misses() []string {
	return s.tr.Misses()
}

func (s *Session) Close() error {
	var errs []error
	for _, st := range s.stores {
		errs = append(errs, st.Close())
	}
	s.stores = nil
	return errors.Join(errs...)
}
