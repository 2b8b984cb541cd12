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
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/docloc/internal/langcheck"
	"github.com/valpere/docloc/internal/store"
)

var (
	memoryDBPath string
	memoryLang   string
	memoryForce  bool
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Manage the SQLite translation memory",
	Long: `List, add, and remove translations in the SQLite translation memory,
and inspect the source texts that were recorded as untranslated.`,
}

func openMemory() (*store.Store, error) {
	db, err := store.New(memoryDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// snippet shortens text to n runes for a single table cell.
func snippet(text string, n int) string {
	text = strings.ReplaceAll(text, "\n", `\n`)
	runes := []rune(text)
	if len(runes) > n {
		return string(runes[:n-3]) + "..."
	}
	return text
}

// filterLang keeps the entries of lang; an empty lang keeps all.
func filterLang(entries []store.MemoryEntry, lang string) []store.MemoryEntry {
	if lang == "" {
		return entries
	}
	var out []store.MemoryEntry
	for _, e := range entries {
		if e.TargetLang == lang {
			out = append(out, e)
		}
	}
	return out
}

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all translation memory entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMemory()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListMemory(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		entries = filterLang(entries, memoryLang)

		if len(entries) == 0 {
			fmt.Println("No entries in translation memory.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLANG\tUSED\tLAST USED\tINVALID\tSOURCE\tTRANSLATION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%v\t%s\t%s\n",
				e.ID, e.TargetLang, e.UsageCount, e.LastUsed.Format("2006-01-02 15:04"),
				e.Invalidated, snippet(e.SourceText, 40), snippet(e.FinalText, 40))
		}
		return w.Flush()
	},
}

var memoryAddCmd = &cobra.Command{
	Use:   "add <source> <translation>",
	Short: "Add or replace a translation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if memoryLang == "" {
			return fmt.Errorf("--lang is required")
		}
		if !memoryForce {
			if err := langcheck.New().Check(args[1], memoryLang); err != nil {
				return fmt.Errorf("rejected translation (use --force to override): %w", err)
			}
		}
		db, err := openMemory()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.SaveToMemory(context.Background(), args[0], memoryLang, args[1]); err != nil {
			return fmt.Errorf("failed to save entry: %w", err)
		}
		fmt.Printf("Saved translation for %q (%s)\n", snippet(args[0], 40), memoryLang)
		return nil
	},
}

var memoryInvalidateCmd = &cobra.Command{
	Use:   "invalidate <id>",
	Short: "Mark a translation memory entry as invalid",
	Long:  `Invalid entries are kept in the database but no longer used as translations.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMemory()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.InvalidateMemory(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to invalidate entry: %w", err)
		}
		fmt.Printf("Invalidated entry: %s\n", args[0])
		return nil
	},
}

var memoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a translation memory entry by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMemory()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteMemory(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		fmt.Printf("Deleted entry: %s\n", args[0])
		return nil
	},
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all entries from translation memory",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMemory()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ClearMemory(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear memory: %w", err)
		}
		fmt.Printf("Cleared %d entries from translation memory.\n", n)
		return nil
	},
}

var memoryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show translation memory statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMemory()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total entries:   %d\n", stats.TotalEntries)
		fmt.Printf("Active entries:  %d\n", stats.ActiveEntries)
		fmt.Printf("Invalid entries: %d\n", stats.InvalidEntries)
		fmt.Printf("Total usage:     %d\n", stats.TotalUsage)
		fmt.Printf("Untranslated:    %d\n", stats.UntranslatedCount)
		fmt.Printf("Runs:            %d\n", stats.Runs)
		return nil
	},
}

var memoryUntranslatedCmd = &cobra.Command{
	Use:   "untranslated",
	Short: "List source texts recorded without a translation",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMemory()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListUntranslated(context.Background(), memoryLang)
		if err != nil {
			return fmt.Errorf("failed to list untranslated texts: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No untranslated texts.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "LANG\tSEEN\tLAST RUN\tSOURCE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", e.TargetLang, e.SeenCount, e.LastRun, snippet(e.SourceText, 60))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(memoryCmd)

	memoryCmd.PersistentFlags().StringVar(&memoryDBPath, "db", "./data/docloc.db", "Database path")
	memoryCmd.PersistentFlags().StringVarP(&memoryLang, "lang", "l", "", "Target language code")

	memoryAddCmd.Flags().BoolVar(&memoryForce, "force", false, "Skip the target language check")

	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.AddCommand(memoryAddCmd)
	memoryCmd.AddCommand(memoryInvalidateCmd)
	memoryCmd.AddCommand(memoryDeleteCmd)
	memoryCmd.AddCommand(memoryClearCmd)
	memoryCmd.AddCommand(memoryStatsCmd)
	memoryCmd.AddCommand(memoryUntranslatedCmd)
}
