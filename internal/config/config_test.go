package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/valpere/docloc/internal/catalog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docloc.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
target_lang: ja
catalogs:
  - format: po
    path: locales/ja.po
  - format: sqlite
    path: data/memory.db
output:
  format: po
  path: locales/ja.pot
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TargetLang != "ja" {
		t.Errorf("TargetLang = %q", cfg.TargetLang)
	}
	if len(cfg.Catalogs) != 2 || cfg.Catalogs[0].Format != "po" || cfg.Catalogs[1].Path != "data/memory.db" {
		t.Errorf("Catalogs = %+v", cfg.Catalogs)
	}
	if cfg.Output.Path != "locales/ja.pot" {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel default = %q", cfg.LogLevel)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "target_lang: ja\n")
	t.Setenv("DOCLOC_TARGET_LANG", "uk")
	t.Setenv("DOCLOC_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TargetLang != "uk" {
		t.Errorf("TargetLang = %q, want env override", cfg.TargetLang)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestRead_DoesNotValidate(t *testing.T) {
	path := writeConfig(t, "catalogs:\n  - format: po\n    path: ja.po\n")

	cfg, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if cfg.TargetLang != "" {
		t.Errorf("TargetLang = %q", cfg.TargetLang)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should reject a config without target_lang")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{TargetLang: "ja"}, false},
		{"region tag", Config{TargetLang: "pt-BR"}, false},
		{"missing lang", Config{}, true},
		{"bad lang", Config{TargetLang: "not a tag"}, true},
		{"bad format", Config{TargetLang: "ja", Catalogs: []CatalogConfig{{Format: "xliff", Path: "x"}}}, true},
		{"missing path", Config{TargetLang: "ja", Catalogs: []CatalogConfig{{Format: "po"}}}, true},
		{"bad output", Config{TargetLang: "ja", Output: CatalogConfig{Format: "csv", Path: "x"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_UnknownFormatSentinel(t *testing.T) {
	cfg := Config{TargetLang: "ja", Catalogs: []CatalogConfig{{Format: "xliff", Path: "x"}}}
	if err := cfg.Validate(); !errors.Is(err, catalog.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
