package services

import (
	"bufio"
	"bytes"
	"mediawall/internal/providers"
	"mediawall/internal/storage"
	"mediawall/internal/structures"
	"strings"

	json "github.com/goccy/go-json"
)

// CorpusInterface answers whether a suggestion already shows up in the
// automation's own records, i.e. it has been implemented.
type CorpusInterface interface {
	Contains(text string) bool
}

// ImplementedCorpus searches the history log and the report document.
// Matching is a case-insensitive substring test, so short texts can match
// unrelated prose; that heuristic is kept as is.
type ImplementedCorpus struct {
	history *storage.WatchedFile[[]string]
	report  *storage.WatchedFile[[]string]
}

func NewImplementedCorpus(conf *structures.Config, logger providers.Logger) *ImplementedCorpus {
	return &ImplementedCorpus{
		history: storage.NewWatchedFile(conf.Corpus.HistoryFile, parseHistory, logger),
		report:  storage.NewWatchedFile(conf.Corpus.ReportFile, parseReport, logger),
	}
}

func (c *ImplementedCorpus) Contains(text string) bool {
	needle := foldText(strings.TrimSpace(text))
	if needle == "" {
		return false
	}
	for _, source := range []*storage.WatchedFile[[]string]{c.history, c.report} {
		haystacks, _ := source.Load()
		for _, h := range haystacks {
			if strings.Contains(h, needle) {
				return true
			}
		}
	}
	return false
}

// parseHistory reads JSON Lines. Every string value of an entry becomes a
// searchable text; lines that are not JSON are searched verbatim.
func parseHistory(data []byte) ([]string, error) {
	var texts []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry any
		if err := json.Unmarshal(line, &entry); err != nil {
			texts = append(texts, foldText(string(line)))
			continue
		}
		texts = collectStrings(entry, texts)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return texts, nil
}

func collectStrings(v any, out []string) []string {
	switch val := v.(type) {
	case string:
		if val != "" {
			out = append(out, foldText(val))
		}
	case []any:
		for _, item := range val {
			out = collectStrings(item, out)
		}
	case map[string]any:
		for _, item := range val {
			out = collectStrings(item, out)
		}
	}
	return out
}

func parseReport(data []byte) ([]string, error) {
	return []string{foldText(string(data))}, nil
}
