/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/docloc/internal/config"
	"github.com/valpere/docloc/internal/markdown"
	"github.com/valpere/docloc/internal/session"
)

var (
	inputFile  string
	outputFile string
	targetLang string
	catalogs   []string
	missesOut  string
)

var localizeCmd = &cobra.Command{
	Use:   "localize",
	Short: "Localize a Markdown document from translation catalogs",
	Long: `Parse a Markdown document, replace every translatable unit found in the
configured catalogs, and write the localized document.

Soft-wrapped lines are merged into one unit; hard line breaks are kept.
Untranslated units are merged into the output catalog so they can be
translated later.

Catalog flags override the config file:
  --catalog po:locales/ja.po --catalog sqlite:data/memory.db
  --misses po:locales/ja.pot`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg.LogLevel)

		src, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}

		d, err := markdown.Parse(src)
		if err != nil {
			return fmt.Errorf("failed to parse input file: %w", err)
		}

		ctx := context.Background()
		s, err := session.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Run(ctx, inputFile, d); err != nil {
			return err
		}

		var out io.Writer = os.Stdout
		if outputFile != "" {
			if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if err := markdown.Write(out, d); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		if outputFile != "" {
			fmt.Printf("Localized %s to %s (%d untranslated)\n", inputFile, cfg.TargetLang, len(s.Misses()))
		}
		return nil
	},
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Read(configPath)
	if err != nil {
		return cfg, err
	}
	if targetLang != "" {
		cfg.TargetLang = targetLang
	}
	if len(catalogs) > 0 {
		cfg.Catalogs = nil
		for _, spec := range catalogs {
			cc, perr := parseCatalogFlag(spec)
			if perr != nil {
				return cfg, perr
			}
			cfg.Catalogs = append(cfg.Catalogs, cc)
		}
	}
	if missesOut != "" {
		cc, perr := parseCatalogFlag(missesOut)
		if perr != nil {
			return cfg, perr
		}
		cfg.Output = cc
	}
	return cfg, cfg.Validate()
}

// parseCatalogFlag parses "format:path".
func parseCatalogFlag(spec string) (config.CatalogConfig, error) {
	if format, path, ok := strings.Cut(spec, ":"); ok {
		return config.CatalogConfig{Format: format, Path: path}, nil
	}
	return config.CatalogConfig{}, fmt.Errorf("invalid catalog %q, expected format:path", spec)
}

func init() {
	rootCmd.AddCommand(localizeCmd)

	localizeCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Markdown file to localize (required)")
	localizeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default stdout)")
	localizeCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code (overrides config)")
	localizeCmd.Flags().StringArrayVar(&catalogs, "catalog", nil, "Catalog as format:path, highest priority first (repeatable)")
	localizeCmd.Flags().StringVar(&missesOut, "misses", "", "Catalog receiving untranslated units, as format:path")

	localizeCmd.MarkFlagRequired("input")
}
