package internal

import "time"

// Run describes one localization pass over a document.
type Run struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	TargetLang string    `json:"target_lang"`
	Hits       int       `json:"hits"`
	Misses     int       `json:"misses"`
	Timestamp  time.Time `json:"timestamp"`
}
