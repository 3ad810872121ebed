package services

import (
	"mediawall/internal/structures"
	"mediawall/internal/testutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historyFixture = `{"timestamp":"2024-04-01T10:00:00.000Z","reason":"scheduled","summary":"Added a Dark Mode toggle to the player","correctionSummary":"","nextFocus":"keyboard shortcuts","changes":[{"file":"public/app.js","description":"Écran-aware captions"}]}
not json but still searchable: Fullscreen on double click
`

func newTestCorpus(t *testing.T, history, report string) *ImplementedCorpus {
	t.Helper()
	dir := t.TempDir()
	conf := &structures.Config{Corpus: structures.CorpusConfig{
		HistoryFile: filepath.Join(dir, "history.jsonl"),
		ReportFile:  filepath.Join(dir, "reports.md"),
	}}
	if history != "" {
		require.NoError(t, os.WriteFile(conf.Corpus.HistoryFile, []byte(history), 0644))
	}
	if report != "" {
		require.NoError(t, os.WriteFile(conf.Corpus.ReportFile, []byte(report), 0644))
	}
	return NewImplementedCorpus(conf, &testutil.MockLogger{})
}

func TestImplementedCorpus_MatchesHistoryLeaves(t *testing.T) {
	c := newTestCorpus(t, historyFixture, "")

	assert.True(t, c.Contains("dark mode toggle"))
	assert.True(t, c.Contains("KEYBOARD shortcuts"))
	assert.True(t, c.Contains("écran-AWARE"), "non-ASCII case folding")
	assert.True(t, c.Contains("fullscreen on double click"))
	assert.False(t, c.Contains("add a playlist shuffle"))
}

func TestImplementedCorpus_MatchesReport(t *testing.T) {
	c := newTestCorpus(t, "", "# Cycle 12\n\nImplemented slower crossfades between clips.\n")

	assert.True(t, c.Contains("Slower Crossfades"))
	assert.False(t, c.Contains("faster crossfades"))
}

func TestImplementedCorpus_EmptyTextNeverMatches(t *testing.T) {
	c := newTestCorpus(t, historyFixture, "anything")
	assert.False(t, c.Contains("   "))
}

func TestImplementedCorpus_MissingFiles(t *testing.T) {
	c := newTestCorpus(t, "", "")
	assert.False(t, c.Contains("dark mode"))
}

func TestImplementedCorpus_PicksUpNewHistory(t *testing.T) {
	c := newTestCorpus(t, historyFixture, "")
	assert.False(t, c.Contains("shuffle"))

	path := c.history.Path()
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	assert.False(t, c.Contains("shuffle"))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"summary":"Shuffle the playlist on every loop"}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.True(t, c.Contains("shuffle"))
}
