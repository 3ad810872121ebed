package services

import (
	"errors"
	"mediawall/internal/models"
	"mediawall/internal/providers"
	"time"
)

type SuggestionServiceInterface interface {
	List() ([]models.SuggestionEntry, error)
	Submit(client, text string) ([]models.SuggestionEntry, error)
}

type SuggestionService struct {
	ledger   SuggestionsLedger
	corpus   CorpusInterface
	cooldown *Cooldown
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	now      func() time.Time
}

// purge drops entries the automation has already implemented.
func (ss *SuggestionService) purge(doc *models.SuggestionsDocument) bool {
	live := doc.Suggestions[:0]
	for _, entry := range doc.Suggestions {
		if ss.corpus.Contains(entry.Text) {
			ss.logger.Infof(providers.TypeApp, "Suggestion implemented, removing from backlog: %q", entry.Text)
			continue
		}
		live = append(live, entry)
	}
	removed := len(live) != len(doc.Suggestions)
	doc.Suggestions = live
	return removed
}

func (ss *SuggestionService) List() ([]models.SuggestionEntry, error) {
	doc, err := ss.ledger.Mutate(func(doc *models.SuggestionsDocument) (bool, error) {
		return ss.purge(doc), nil
	})
	if err != nil {
		return nil, err
	}
	return doc.Suggestions, nil
}

// Submit records text for client. ErrDuplicate and ErrAlreadyDone come back
// together with the current backlog; both keep the client's cooldown like an
// accepted submission does.
func (ss *SuggestionService) Submit(client, text string) ([]models.SuggestionEntry, error) {
	if wait, ok := ss.cooldown.Reserve(client); !ok {
		ss.metrics.IncSuggestionOutcome("cooldown")
		return nil, &CooldownError{Wait: wait}
	}

	text = models.NormalizeSuggestion(text)
	if text == "" {
		ss.cooldown.Release(client)
		ss.metrics.IncSuggestionOutcome("invalid")
		return nil, ErrInvalidSuggestion
	}
	key := foldText(text)

	doc, err := ss.ledger.Mutate(func(doc *models.SuggestionsDocument) (bool, error) {
		dirty := ss.purge(doc)
		if ss.corpus.Contains(text) {
			return dirty, ErrAlreadyDone
		}
		for _, entry := range doc.Suggestions {
			if foldText(models.NormalizeSuggestion(entry.Text)) == key {
				return dirty, ErrDuplicate
			}
		}
		doc.Suggestions = append(doc.Suggestions, models.NewSuggestionEntry(text, ss.now()))
		return true, nil
	})

	switch {
	case err == nil:
		ss.metrics.IncSuggestionOutcome("accepted")
	case errors.Is(err, ErrDuplicate):
		ss.metrics.IncSuggestionOutcome("duplicate")
	case errors.Is(err, ErrAlreadyDone):
		ss.metrics.IncSuggestionOutcome("already_done")
	default:
		ss.cooldown.Release(client)
		ss.metrics.IncSuggestionOutcome("error")
		return nil, err
	}
	return doc.Suggestions, err
}

func NewSuggestionService(ledger SuggestionsLedger, corpus CorpusInterface, cooldown *Cooldown, logger providers.Logger, metrics providers.MetricsProviderInterface) SuggestionServiceInterface {
	return &SuggestionService{
		ledger:   ledger,
		corpus:   corpus,
		cooldown: cooldown,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}
