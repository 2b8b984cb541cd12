// Package langcheck verifies that a translation entered into a catalog is
// written in the catalog's target language.
package langcheck

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	lingua "github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"
)

// ErrWrongLanguage is returned when the detected language differs from the
// target language.
var ErrWrongLanguage = errors.New("translation is not in the target language")

// minLength is the minimum rune count for detection. Shorter texts give
// unreliable results and are accepted.
const minLength = 20

// Checker detects the language of translations. Building the detector is
// expensive, so it happens once, on first use.
type Checker struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

func New() *Checker {
	return &Checker{}
}

func (c *Checker) detect(text string) (string, bool) {
	c.once.Do(func() {
		c.detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build()
	})
	lang, ok := c.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// Check returns nil when translation appears to be written in targetLang.
// targetLang is a BCP 47 tag; only its base language is compared, so
// "pt-BR" accepts Portuguese. Short or ambiguous texts pass.
func (c *Checker) Check(translation, targetLang string) error {
	tag, err := language.Parse(targetLang)
	if err != nil {
		return fmt.Errorf("invalid target language %q: %w", targetLang, err)
	}
	base, _ := tag.Base()

	text := strings.TrimSpace(translation)
	if text == "" {
		return fmt.Errorf("translation is empty")
	}
	if len([]rune(text)) < minLength {
		return nil
	}

	detected, ok := c.detect(text)
	if !ok {
		return nil
	}
	if detected != base.String() {
		return fmt.Errorf("%w: expected %s, detected %s", ErrWrongLanguage, base, detected)
	}
	return nil
}
