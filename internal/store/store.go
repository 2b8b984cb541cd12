package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/valpere/docloc/internal"
	"github.com/valpere/docloc/internal/catalog"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		hits INTEGER DEFAULT 0,
		misses INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS translation_memory (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		final_text TEXT NOT NULL,
		usage_count INTEGER DEFAULT 0,
		invalidated BOOLEAN DEFAULT FALSE,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, target_lang)
	);

	-- untranslated collects source texts seen without a translation
	CREATE TABLE IF NOT EXISTS untranslated (
		source_text TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		first_run TEXT,
		last_run TEXT,
		seen_count INTEGER DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (source_text, target_lang)
	);

	CREATE INDEX IF NOT EXISTS idx_memory_lookup ON translation_memory(target_lang);
	CREATE INDEX IF NOT EXISTS idx_untranslated_lang ON untranslated(target_lang);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) SaveRun(ctx context.Context, run internal.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, target_lang, hits, misses, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.TargetLang, run.Hits, run.Misses, run.Timestamp)
	return err
}

// GetTranslation returns the active translation of sourceText. Keys are
// matched exactly.
func (s *Store) GetTranslation(ctx context.Context, sourceText, targetLang string) (string, bool, error) {
	var finalText string
	var invalidated bool

	err := s.db.QueryRowContext(ctx,
		`SELECT final_text, invalidated FROM translation_memory WHERE source_text = ? AND target_lang = ?`,
		sourceText, targetLang).Scan(&finalText, &invalidated)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if invalidated {
		return "", false, nil
	}
	return finalText, true, nil
}

// SaveToMemory inserts or replaces a translation and drops the source text
// from the untranslated list of that language.
func (s *Store) SaveToMemory(ctx context.Context, sourceText, targetLang, finalText string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := fmt.Sprintf("mem_%d", time.Now().UnixNano())
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO translation_memory (id, source_text, target_lang, final_text, usage_count, invalidated, last_used, created_at) VALUES (?, ?, ?, ?, 0, FALSE, ?, ?)`,
		id, sourceText, targetLang, finalText, time.Now(), time.Now()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM untranslated WHERE source_text = ? AND target_lang = ?`,
		sourceText, targetLang); err != nil {
		return err
	}
	return tx.Commit()
}

// MemoryEntry is a row from the translation_memory table.
type MemoryEntry struct {
	ID          string
	SourceText  string
	TargetLang  string
	FinalText   string
	UsageCount  int
	Invalidated bool
	LastUsed    time.Time
}

// MemoryStats summarises translation memory usage.
type MemoryStats struct {
	TotalEntries      int
	ActiveEntries     int
	InvalidEntries    int
	TotalUsage        int
	UntranslatedCount int
	Runs              int
}

func (s *Store) InvalidateMemory(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE translation_memory SET invalidated = TRUE WHERE id = ?`, id)
	return err
}

// DeleteMemory permanently removes a translation memory entry by ID.
func (s *Store) DeleteMemory(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM translation_memory WHERE id = ?`, id)
	return err
}

// ClearMemory removes all translation memory entries.
func (s *Store) ClearMemory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translation_memory`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListMemory returns all translation memory entries ordered by most recently used.
func (s *Store) ListMemory(ctx context.Context) ([]MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, target_lang, final_text, usage_count, invalidated, last_used FROM translation_memory ORDER BY last_used DESC, source_text`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		if err := rows.Scan(&e.ID, &e.SourceText, &e.TargetLang, &e.FinalText, &e.UsageCount, &e.Invalidated, &e.LastUsed); err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// Stats returns summary statistics for the translation memory.
func (s *Store) Stats(ctx context.Context) (*MemoryStats, error) {
	stats := &MemoryStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN NOT invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(usage_count), 0)
		FROM translation_memory`).Scan(
		&stats.TotalEntries,
		&stats.ActiveEntries,
		&stats.InvalidEntries,
		&stats.TotalUsage,
	)
	if err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM untranslated`).Scan(&stats.UntranslatedCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&stats.Runs); err != nil {
		return nil, err
	}
	return stats, nil
}

// Catalog loads every active translation for targetLang into memory.
func (s *Store) Catalog(ctx context.Context, targetLang string) (catalog.Map, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_text, final_text FROM translation_memory WHERE target_lang = ? AND NOT invalidated`,
		targetLang)
	if err != nil {
		return nil, fmt.Errorf("failed to load translation memory: %w", err)
	}
	defer rows.Close()

	m := make(catalog.Map)
	for rows.Next() {
		var src, tgt string
		if err := rows.Scan(&src, &tgt); err != nil {
			return nil, err
		}
		m[src] = tgt
	}
	return m, rows.Err()
}

// MarkUsed increments the usage counter of the given source texts.
func (s *Store) MarkUsed(ctx context.Context, targetLang string, sourceTexts []string) error {
	now := time.Now()
	for _, src := range sourceTexts {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE translation_memory SET usage_count = usage_count + 1, last_used = ? WHERE source_text = ? AND target_lang = ?`,
			now, src, targetLang); err != nil {
			return err
		}
	}
	return nil
}

// UntranslatedEntry is a row from the untranslated table.
type UntranslatedEntry struct {
	SourceText string
	TargetLang string
	FirstRun   string
	LastRun    string
	SeenCount  int
}

// ListUntranslated returns untranslated source texts, optionally filtered
// by language (pass "" for all).
func (s *Store) ListUntranslated(ctx context.Context, targetLang string) ([]UntranslatedEntry, error) {
	query := `SELECT source_text, target_lang, COALESCE(first_run, ''), COALESCE(last_run, ''), seen_count FROM untranslated`
	var args []interface{}
	if targetLang != "" {
		query += ` WHERE target_lang = ?`
		args = append(args, targetLang)
	}
	query += ` ORDER BY target_lang, created_at, source_text`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []UntranslatedEntry
	for rows.Next() {
		var e UntranslatedEntry
		if err := rows.Scan(&e.SourceText, &e.TargetLang, &e.FirstRun, &e.LastRun, &e.SeenCount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UntranslatedWriter records missing translations of one run.
type UntranslatedWriter struct {
	s          *Store
	targetLang string
	runID      string
}

// Writer returns a catalog.Writer that records keys as untranslated for
// targetLang, tagged with runID.
func (s *Store) Writer(targetLang, runID string) *UntranslatedWriter {
	return &UntranslatedWriter{s: s, targetLang: targetLang, runID: runID}
}

func (w *UntranslatedWriter) Merge(ctx context.Context, keys []string) error {
	tx, err := w.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO untranslated (source_text, target_lang, first_run, last_run) VALUES (?, ?, ?, ?)
			 ON CONFLICT(source_text, target_lang) DO UPDATE SET seen_count = seen_count + 1, last_run = excluded.last_run`,
			k, w.targetLang, w.runID, w.runID); err != nil {
			return fmt.Errorf("failed to record untranslated text: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}
