package controllers

import (
	"mediawall/internal/models"
	"mediawall/internal/providers"
	"mediawall/internal/services"
	"mediawall/internal/structures"
	"net/http"
)

type totalResponse struct {
	Total int64 `json:"total"`
}

type LikesController struct {
	logger    providers.Logger
	service   services.LikesServiceInterface
	bodyLimit int64
}

func NewLikesController(conf *structures.Config, logger providers.Logger, service services.LikesServiceInterface) *LikesController {
	return &LikesController{
		logger:    logger,
		service:   service,
		bodyLimit: conf.Api.LikesBodyLimit,
	}
}

func (lc *LikesController) GetLikes(w http.ResponseWriter, r *http.Request) {
	total, err := lc.service.Total()
	if err != nil {
		lc.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "Reading likes failed: %s", err)
		providers.WriteJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	providers.WriteJSON(w, http.StatusOK, totalResponse{Total: total})
}

// AddLike accepts an optional client metadata object as the body.
func (lc *LikesController) AddLike(w http.ResponseWriter, r *http.Request) {
	var meta models.ClientMetadata
	present, err := decodeBody(w, r, lc.bodyLimit, &meta)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	var sanitized *models.ClientMetadata
	if present {
		sanitized = meta.Sanitize()
	}

	total, err := lc.service.Add(providers.ClientID(r), r.UserAgent(), sanitized)
	if err != nil {
		lc.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "Recording like failed: %s", err)
		providers.WriteJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	providers.WriteJSON(w, http.StatusCreated, totalResponse{Total: total})
}
