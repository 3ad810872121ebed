package services

import (
	"mediawall/internal/models"
	"mediawall/internal/providers"
	"mediawall/internal/storage"
	"mediawall/internal/structures"
)

const (
	LedgerLikes       = "likes"
	LedgerSuggestions = "suggestions"
)

type LikesLedger interface {
	storage.Store[*models.LikesDocument]
}

type SuggestionsLedger interface {
	storage.Store[*models.SuggestionsDocument]
}

func NewLikesLedger(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) LikesLedger {
	return storage.NewJSONLedger(LedgerLikes, conf.DataPath(conf.Ledger.LikesFile), models.NewLikesDocument, logger, metrics)
}

func NewSuggestionsLedger(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) SuggestionsLedger {
	return storage.NewJSONLedger(LedgerSuggestions, conf.DataPath(conf.Ledger.SuggestionsFile), models.NewSuggestionsDocument, logger, metrics)
}
