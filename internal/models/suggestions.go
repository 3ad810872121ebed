package models

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const MaxSuggestionLength = 512

type SuggestionEntry struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// UnmarshalJSON also accepts the bare-string entries older automation
// runs wrote into the suggestions file.
func (e *SuggestionEntry) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		*e = SuggestionEntry{Text: strings.TrimSpace(text)}
		return nil
	}
	type plain SuggestionEntry
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*e = SuggestionEntry(p)
	return nil
}

// NormalizeSuggestion trims, collapses internal whitespace and caps the
// text at MaxSuggestionLength runes.
func NormalizeSuggestion(s string) string {
	return Truncate(strings.Join(strings.Fields(s), " "), MaxSuggestionLength)
}

func NewSuggestionEntry(text string, now time.Time) SuggestionEntry {
	return SuggestionEntry{Text: text, Timestamp: Timestamp(now)}
}

type SuggestionsDocument struct {
	Suggestions []SuggestionEntry `json:"suggestions"`
}

func NewSuggestionsDocument() *SuggestionsDocument {
	return &SuggestionsDocument{Suggestions: []SuggestionEntry{}}
}

func (d *SuggestionsDocument) Valid() bool {
	return d.Suggestions != nil
}

func (d *SuggestionsDocument) Normalize() {
	if d.Suggestions == nil {
		d.Suggestions = []SuggestionEntry{}
	}
}

func (d *SuggestionsDocument) Len() int {
	return len(d.Suggestions)
}

// TextsDocument is written by the automation process and only read here.
type TextsDocument struct {
	Texts []string `json:"texts"`
}

func NewTextsDocument() *TextsDocument {
	return &TextsDocument{Texts: []string{}}
}

func (d *TextsDocument) Valid() bool {
	return d.Texts != nil
}

func (d *TextsDocument) Normalize() {
	if d.Texts == nil {
		d.Texts = []string{}
	}
}

func (d *TextsDocument) Len() int {
	return len(d.Texts)
}
