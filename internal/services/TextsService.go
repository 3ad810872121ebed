package services

import (
	"errors"
	"mediawall/internal/models"
	"mediawall/internal/providers"
	"mediawall/internal/storage"
	"mediawall/internal/structures"

	json "github.com/goccy/go-json"
)

var errTextsShape = errors.New("texts document has no texts array")

type TextsServiceInterface interface {
	// Texts returns the reflective texts and a version that changes
	// whenever the source file is reloaded.
	Texts() ([]string, string)
}

type TextsService struct {
	source *storage.WatchedFile[[]string]
}

func parseTexts(data []byte) ([]string, error) {
	doc := &models.TextsDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	if !doc.Valid() {
		return nil, errTextsShape
	}
	return doc.Texts, nil
}

func (ts *TextsService) Texts() ([]string, string) {
	texts, version := ts.source.Load()
	if texts == nil {
		texts = []string{}
	}
	return texts, version
}

func NewTextsService(conf *structures.Config, logger providers.Logger) TextsServiceInterface {
	return &TextsService{
		source: storage.NewWatchedFile(conf.Corpus.TextsFile, parseTexts, logger),
	}
}
