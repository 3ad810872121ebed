package controllers

import (
	"mediawall/internal/providers"
	"mediawall/internal/services"
	"mediawall/internal/structures"
	"net/http"
)

type textsResponse struct {
	Texts []string `json:"texts"`
}

// TextsController hands the reflective texts to the player. The header gate
// only keeps casual hotlinkers out; it is not authentication.
type TextsController struct {
	logger     providers.Logger
	service    services.TextsServiceInterface
	cache      providers.CacheProviderInterface
	gateHeader string
	gateValue  string
}

func NewTextsController(conf *structures.Config, logger providers.Logger, service services.TextsServiceInterface, cache providers.CacheProviderInterface) *TextsController {
	return &TextsController{
		logger:     logger,
		service:    service,
		cache:      cache,
		gateHeader: conf.Api.GateHeader,
		gateValue:  conf.Api.GateValue,
	}
}

func (tc *TextsController) GetTexts(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(tc.gateHeader) != tc.gateValue {
		tc.logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "Texts requested without gate header from %s", r.RemoteAddr)
		providers.WriteJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	texts, version := tc.service.Texts()
	serveFromCacheOrCompute(tc.cache, w, "texts:"+version, func() (any, error) {
		return textsResponse{Texts: texts}, nil
	})
}
