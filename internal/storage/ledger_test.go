package storage

import (
	"errors"
	"mediawall/internal/models"
	"mediawall/internal/testutil"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLikesLedger(t *testing.T, path string) (*JSONLedger[*models.LikesDocument], *testutil.MockLogger, *testutil.MockMetrics) {
	t.Helper()
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	return NewJSONLedger("likes", path, models.NewLikesDocument, logger, metrics), logger, metrics
}

func readLikes(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestJSONLedger_EnsureCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "likes.json")
	ledger, _, _ := newLikesLedger(t, path)

	require.NoError(t, ledger.Ensure())

	doc := readLikes(t, path)
	assert.Equal(t, float64(0), doc["total"])
	assert.Equal(t, []any{}, doc["entries"])
}

func TestJSONLedger_EnsureResetsCorruptFile(t *testing.T) {
	for name, content := range map[string]string{
		"garbage":     "{not json",
		"array":       "[]",
		"null":        "null",
		"empty":       "",
		"missing key": `{"total": 3}`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "likes.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			ledger, logger, _ := newLikesLedger(t, path)

			require.NoError(t, ledger.Ensure())

			doc := readLikes(t, path)
			assert.Equal(t, float64(0), doc["total"])
			assert.Equal(t, []any{}, doc["entries"])
			assert.Equal(t, 1, logger.Count("warn"))
		})
	}
}

func TestJSONLedger_EnsureKeepsValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "likes.json")
	content := `{"total":1,"entries":[{"timestamp":"2024-01-01T00:00:00.000Z"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	ledger, logger, metrics := newLikesLedger(t, path)

	require.NoError(t, ledger.Ensure())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
	assert.Zero(t, logger.Count("warn"))
	assert.Equal(t, 1, metrics.LedgerSizes["likes"])
}

func TestJSONLedger_EnsureReturnsIOErrors(t *testing.T) {
	dir := t.TempDir()
	ledger, _, _ := newLikesLedger(t, dir)
	assert.Error(t, ledger.Ensure())
}

func TestJSONLedger_GetMissingAndCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "likes.json")
	ledger, _, _ := newLikesLedger(t, path)

	doc, err := ledger.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(0), doc.Count())
	assert.NotNil(t, doc.Entries)

	require.NoError(t, os.WriteFile(path, []byte("}}"), 0644))
	doc, err = ledger.Get()
	require.NoError(t, err)
	assert.Empty(t, doc.Entries)
}

func TestJSONLedger_MutateWritesWhenDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "likes.json")
	ledger, _, metrics := newLikesLedger(t, path)
	entry := models.NewLikeEntry(time.Now(), "198.51.100.1", "test-agent", nil)

	doc, err := ledger.Mutate(func(doc *models.LikesDocument) (bool, error) {
		doc.Append(entry)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.Count())
	assert.Equal(t, 1, metrics.Writes["likes"])

	stored := readLikes(t, path)
	assert.Equal(t, float64(1), stored["total"])
	assert.Len(t, stored["entries"], 1)
	assert.NoFileExists(t, path+".tmp")
}

func TestJSONLedger_MutateSkipsCleanWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "likes.json")
	ledger, _, _ := newLikesLedger(t, path)

	_, err := ledger.Mutate(func(doc *models.LikesDocument) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.NoFileExists(t, path)
}

func TestJSONLedger_MutateWritesDirtyAndReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggestions.json")
	ledger := NewJSONLedger("suggestions", path, models.NewSuggestionsDocument, &testutil.MockLogger{}, testutil.NewMockMetrics())
	sentinel := errors.New("duplicate")

	_, err := ledger.Mutate(func(doc *models.SuggestionsDocument) (bool, error) {
		doc.Suggestions = append(doc.Suggestions, models.SuggestionEntry{Text: "kept"})
		return true, sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	doc, err := ledger.Get()
	require.NoError(t, err)
	require.Len(t, doc.Suggestions, 1)
	assert.Equal(t, "kept", doc.Suggestions[0].Text)
}

func TestJSONLedger_RepairsDisagreeingTotal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "likes.json")
	content := `{"total":-4,"entries":[{"timestamp":"a"},{"timestamp":"b"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	ledger, _, _ := newLikesLedger(t, path)
	require.NoError(t, ledger.Ensure())

	doc, err := ledger.Mutate(func(doc *models.LikesDocument) (bool, error) {
		doc.Append(models.NewLikeEntry(time.Now(), "", "", nil))
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), doc.Total.Value)
	assert.Len(t, doc.Entries, 3)
}

func TestJSONLedger_ConcurrentAppendsKeepTotalInSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "likes.json")
	ledger, _, _ := newLikesLedger(t, path)
	require.NoError(t, ledger.Ensure())

	const workers = 16
	const perWorker = 10
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := ledger.Mutate(func(doc *models.LikesDocument) (bool, error) {
					doc.Append(models.NewLikeEntry(time.Now(), "", "", nil))
					return true, nil
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	stored := readLikes(t, path)
	assert.Equal(t, float64(workers*perWorker), stored["total"])
	assert.Len(t, stored["entries"], workers*perWorker)
}

func TestJSONLedger_SnapshotAndSeed(t *testing.T) {
	dir := t.TempDir()
	source, _, _ := newLikesLedger(t, filepath.Join(dir, "likes.json"))
	_, err := source.Mutate(func(doc *models.LikesDocument) (bool, error) {
		doc.Append(models.NewLikeEntry(time.Now(), "203.0.113.5", "", nil))
		return true, nil
	})
	require.NoError(t, err)

	snapshot, err := source.Snapshot()
	require.NoError(t, err)

	target, _, _ := newLikesLedger(t, filepath.Join(dir, "restored.json"))
	seeded, err := target.Seed(snapshot)
	require.NoError(t, err)
	assert.True(t, seeded)

	doc, err := target.Get()
	require.NoError(t, err)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "203.0.113.5", doc.Entries[0].IP)

	seeded, err = target.Seed([]byte(`{"total":0,"entries":[]}`))
	require.NoError(t, err)
	assert.False(t, seeded, "existing ledger is never overwritten")
}

func TestJSONLedger_SeedRejectsBadSnapshot(t *testing.T) {
	ledger, _, _ := newLikesLedger(t, filepath.Join(t.TempDir(), "likes.json"))

	_, err := ledger.Seed([]byte("nope"))
	assert.Error(t, err)
	_, err = ledger.Seed([]byte(`{"total":2}`))
	assert.Error(t, err)
}

func TestWriteFileAtomic_ReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
	assert.NoFileExists(t, path+".tmp")
}
