package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlFile is the on-disk layout of a YAML catalog.
type yamlFile struct {
	Language string            `yaml:"language"`
	Messages map[string]string `yaml:"messages"`
}

// YAML is a catalog read from a YAML messages file.
type YAML struct {
	Language string
	messages Map
}

// LoadYAML parses the YAML catalog at path.
func LoadYAML(path string) (*YAML, error) {
	yf, err := readYAML(path)
	if err != nil {
		return nil, err
	}
	return &YAML{Language: yf.Language, messages: Map(yf.Messages)}, nil
}

func (y *YAML) Lookup(key string) (string, bool) {
	return y.messages.Lookup(key)
}

func readYAML(path string) (*yamlFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read yaml catalog: %w", err)
	}
	var yf yamlFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, fmt.Errorf("yaml unmarshal %s: %w", path, err)
	}
	if yf.Messages == nil {
		yf.Messages = make(map[string]string)
	}
	return &yf, nil
}

// YAMLWriter merges untranslated keys into a YAML catalog.
type YAMLWriter struct {
	path     string
	language string
}

// NewYAMLWriter returns a writer for path. language is written when the
// file is created.
func NewYAMLWriter(path, language string) *YAMLWriter {
	return &YAMLWriter{path: path, language: language}
}

func (w *YAMLWriter) Merge(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	yf, err := readYAML(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		yf = &yamlFile{Language: w.language, Messages: make(map[string]string)}
	} else if err != nil {
		return err
	}

	for _, k := range keys {
		if _, ok := yf.Messages[k]; !ok {
			yf.Messages[k] = ""
		}
	}

	out, err := yaml.Marshal(yf)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return writeFile(w.path, out)
}
