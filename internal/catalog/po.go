package catalog

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// PO is a catalog read from a gettext PO file. Only entries without a
// message context take part in lookup.
type PO struct {
	path    string
	entries Map
}

// LoadPO parses the PO file at path.
func LoadPO(path string) (*PO, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read po file: %w", err)
	}
	po := gotext.NewPo()
	po.Parse(data)

	entries := make(Map)
	for id, tr := range po.GetDomain().GetTranslations() {
		if id == "" {
			continue
		}
		entries[id] = tr.Trs[0]
	}
	return &PO{path: path, entries: entries}, nil
}

func (p *PO) Lookup(key string) (string, bool) {
	return p.entries.Lookup(key)
}

// Path returns the file the catalog was loaded from.
func (p *PO) Path() string { return p.path }

// POWriter merges untranslated keys into a PO file, creating it when it
// does not exist yet.
type POWriter struct {
	path string
}

func NewPOWriter(path string) *POWriter {
	return &POWriter{path: path}
}

func (w *POWriter) Merge(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	po := gotext.NewPo()
	data, err := os.ReadFile(w.path)
	switch {
	case err == nil:
		po.Parse(data)
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("failed to read po file: %w", err)
	}

	dom := po.GetDomain()
	existing := dom.GetTranslations()
	for _, k := range keys {
		if _, ok := existing[k]; ok {
			continue
		}
		dom.Set(k, "")
	}

	return writeFile(w.path, marshalPO(headerComments(data), dom))
}

// poEscaper escapes a PO string body. gotext's own encoder leaves
// backslashes and control characters as they are, so msgids containing
// them would not read back as the same key.
var poEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\t", `\t`,
	"\r", `\r`,
	"\n", `\n`,
)

// marshalPO encodes dom in the PO format that gotext parses, with entries
// ordered by context then msgid.
func marshalPO(comments []string, dom *gotext.Domain) []byte {
	var b bytes.Buffer
	for _, c := range comments {
		b.WriteString(c + "\n")
	}

	headers := dom.Headers
	if len(headers) == 0 {
		headers = gotext.HeaderMap{"Content-Type": {"text/plain; charset=UTF-8"}}
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var header strings.Builder
	for _, k := range keys {
		for _, v := range headers[k] {
			header.WriteString(k + ": " + v + "\n")
		}
	}
	writePOString(&b, "msgid", "")
	writePOString(&b, "msgstr", header.String())

	type entry struct {
		context string
		tr      *gotext.Translation
	}
	var entries []entry
	for id, tr := range dom.GetTranslations() {
		if id != "" {
			entries = append(entries, entry{tr: tr})
		}
	}
	for name, trs := range dom.GetCtxTranslations() {
		for id, tr := range trs {
			if id != "" {
				entries = append(entries, entry{context: name, tr: tr})
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].context != entries[j].context {
			return entries[i].context < entries[j].context
		}
		return entries[i].tr.ID < entries[j].tr.ID
	})

	for _, e := range entries {
		b.WriteString("\n")
		if len(e.tr.Refs) > 0 {
			b.WriteString("#: " + strings.Join(e.tr.Refs, " ") + "\n")
		}
		if e.context != "" {
			writePOString(&b, "msgctxt", e.context)
		}
		writePOString(&b, "msgid", e.tr.ID)
		if e.tr.PluralID == "" {
			writePOString(&b, "msgstr", e.tr.Trs[0])
			continue
		}
		writePOString(&b, "msgid_plural", e.tr.PluralID)
		forms := make([]int, 0, len(e.tr.Trs))
		for n := range e.tr.Trs {
			forms = append(forms, n)
		}
		sort.Ints(forms)
		for _, n := range forms {
			writePOString(&b, "msgstr["+strconv.Itoa(n)+"]", e.tr.Trs[n])
		}
	}
	return b.Bytes()
}

// writePOString writes keyword and s, splitting multi-line strings into
// one quoted line per source line.
func writePOString(b *bytes.Buffer, keyword, s string) {
	b.WriteString(keyword)
	if !strings.Contains(strings.TrimSuffix(s, "\n"), "\n") {
		b.WriteString(` "` + poEscaper.Replace(s) + "\"\n")
		return
	}
	b.WriteString(" \"\"\n")
	for _, line := range strings.SplitAfter(s, "\n") {
		if line != "" {
			b.WriteString(`"` + poEscaper.Replace(line) + "\"\n")
		}
	}
}

// headerComments returns the comment lines before the first entry.
func headerComments(data []byte) []string {
	var comments []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		l := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(l, "msgid") || strings.HasPrefix(l, "msgctxt") {
			break
		}
		if strings.HasPrefix(l, "#") {
			comments = append(comments, l)
		}
	}
	return comments
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
