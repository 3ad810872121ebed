package models

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionEntry_AcceptsLegacyStrings(t *testing.T) {
	var doc SuggestionsDocument
	raw := `{"suggestions":["  Old idea ",{"text":"New idea","timestamp":"2024-05-01T10:00:00.000Z"}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	require.Len(t, doc.Suggestions, 2)
	assert.Equal(t, SuggestionEntry{Text: "Old idea"}, doc.Suggestions[0])
	assert.Equal(t, SuggestionEntry{Text: "New idea", Timestamp: "2024-05-01T10:00:00.000Z"}, doc.Suggestions[1])
}

func TestSuggestionsDocument_Valid(t *testing.T) {
	var doc SuggestionsDocument
	require.NoError(t, json.Unmarshal([]byte(`{}`), &doc))
	assert.False(t, doc.Valid())
	doc.Normalize()
	assert.True(t, doc.Valid())
	assert.Zero(t, doc.Len())

	assert.True(t, NewSuggestionsDocument().Valid())
}

func TestNormalizeSuggestion(t *testing.T) {
	assert.Equal(t, "dark mode please", NormalizeSuggestion("  dark \n mode\t please "))
	assert.Equal(t, "", NormalizeSuggestion(" \t\n"))

	long := NormalizeSuggestion(strings.Repeat("é", MaxSuggestionLength+50))
	assert.Equal(t, MaxSuggestionLength, utf8.RuneCountInString(long))
}

func TestNewSuggestionEntry(t *testing.T) {
	e := NewSuggestionEntry("Slower fades", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, SuggestionEntry{Text: "Slower fades", Timestamp: "2024-05-01T10:00:00.000Z"}, e)
}

func TestTextsDocument(t *testing.T) {
	var doc TextsDocument
	require.NoError(t, json.Unmarshal([]byte(`{"texts":["a","b"]}`), &doc))
	assert.True(t, doc.Valid())
	assert.Equal(t, 2, doc.Len())

	doc = TextsDocument{}
	require.NoError(t, json.Unmarshal([]byte(`{"texts":null}`), &doc))
	assert.False(t, doc.Valid())
}
