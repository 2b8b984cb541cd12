// Package reflow merges soft-wrapped source lines into translation units
// while keeping author-intended hard line breaks as unit boundaries.
//
// Whether two adjacent lines are separated by a hard break is decided by
// the node's own markup renderer: the pair is rendered and the output is
// checked for a rendered break marker. Markup rules are never interpreted
// here.
package reflow

import (
	"regexp"
	"strings"
)

// breakRe matches a rendered hard break at the end of any rendered line.
var breakRe = regexp.MustCompile(`(?m)<br>\s*$`)

// HasHardBreak reports whether rendered contains a hard-break marker that
// ends a line. The marker may appear on any line of the rendered text.
func HasHardBreak(rendered string) bool {
	return breakRe.MatchString(rendered)
}

// Lines returns the translation units for lines. Non-reflowable content
// and empty input are returned unchanged. Each adjacent pair is rendered
// independently, so the decision for (B, C) does not depend on (A, B).
func Lines(lines []string, reflowable bool, render func(text string) string) []string {
	if len(lines) == 0 || !reflowable {
		return lines
	}

	result := []string{lines[0]}
	for _, next := range lines[1:] {
		last := result[len(result)-1]
		if HasHardBreak(render(last + "\n" + next)) {
			result = append(result, next)
			continue
		}
		result[len(result)-1] = last + " " + next
	}
	return result
}

// Text reflows a single string whose lines are separated by '\n' and
// joins the units back with '\n'.
func Text(text string, reflowable bool, render func(text string) string) string {
	return strings.Join(Lines(strings.Split(text, "\n"), reflowable, render), "\n")
}
