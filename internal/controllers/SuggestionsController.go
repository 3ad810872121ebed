package controllers

import (
	"errors"
	"math"
	"mediawall/internal/models"
	"mediawall/internal/providers"
	"mediawall/internal/services"
	"mediawall/internal/structures"
	"net/http"
	"strconv"
)

const alreadyDoneMessage = "This suggestion has already been implemented."

type suggestionRequest struct {
	Suggestion string `json:"suggestion"`
}

type suggestionsResponse struct {
	Message     string                   `json:"message,omitempty"`
	Suggestions []models.SuggestionEntry `json:"suggestions"`
}

type SuggestionsController struct {
	logger    providers.Logger
	service   services.SuggestionServiceInterface
	bodyLimit int64
}

func NewSuggestionsController(conf *structures.Config, logger providers.Logger, service services.SuggestionServiceInterface) *SuggestionsController {
	return &SuggestionsController{
		logger:    logger,
		service:   service,
		bodyLimit: conf.Api.SuggestionBodyLimit,
	}
}

func (sc *SuggestionsController) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	list, err := sc.service.List()
	if err != nil {
		sc.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "Reading suggestions failed: %s", err)
		providers.WriteJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	providers.WriteJSON(w, http.StatusOK, suggestionsResponse{Suggestions: nonNil(list)})
}

func (sc *SuggestionsController) SubmitSuggestion(w http.ResponseWriter, r *http.Request) {
	var req suggestionRequest
	if _, err := decodeBody(w, r, sc.bodyLimit, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	list, err := sc.service.Submit(providers.ClientID(r), req.Suggestion)

	var cooldown *services.CooldownError
	switch {
	case err == nil:
		providers.WriteJSON(w, http.StatusCreated, suggestionsResponse{Suggestions: nonNil(list)})
	case errors.Is(err, services.ErrAlreadyDone):
		providers.WriteJSON(w, http.StatusOK, suggestionsResponse{Message: alreadyDoneMessage, Suggestions: nonNil(list)})
	case errors.Is(err, services.ErrDuplicate):
		providers.WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.As(err, &cooldown):
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(cooldown.Wait.Seconds()))))
		providers.WriteJSONError(w, http.StatusTooManyRequests, "please wait before submitting another suggestion")
	case errors.Is(err, services.ErrInvalidSuggestion):
		providers.WriteJSONError(w, http.StatusBadRequest, err.Error())
	default:
		sc.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "Recording suggestion failed: %s", err)
		providers.WriteJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func nonNil(list []models.SuggestionEntry) []models.SuggestionEntry {
	if list == nil {
		return []models.SuggestionEntry{}
	}
	return list
}
