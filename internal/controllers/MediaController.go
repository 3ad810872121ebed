package controllers

import (
	"errors"
	"mediawall/internal/media"
	"mediawall/internal/models"
	"mediawall/internal/providers"
	"mediawall/internal/structures"
	"net/http"
	"strings"
)

const mediaPrefix = "/videos/"

type MediaController struct {
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	resolver *media.Resolver
}

func NewMediaController(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (*MediaController, error) {
	resolver, err := media.NewResolver(conf.Paths.MediaDir)
	if err != nil {
		return nil, err
	}
	return &MediaController{
		logger:   logger,
		metrics:  metrics,
		resolver: resolver,
	}, nil
}

// MediaDirExists reports whether the media root is present on disk.
func (mc *MediaController) MediaDirExists() bool {
	return mc.resolver.Exists()
}

func (mc *MediaController) MediaRoot() string {
	return mc.resolver.Root()
}

func (mc *MediaController) ListMedia(w http.ResponseWriter, r *http.Request) {
	entries, err := mc.resolver.List()
	if err != nil {
		mc.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "Media listing failed: %s", err)
		providers.WriteJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	providers.WriteJSON(w, http.StatusOK, entries)
}

func (mc *MediaController) ServeMedia(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, mediaPrefix)
	if name == "" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	path, err := mc.resolver.Resolve(name)
	if err != nil {
		mc.logger.Warnf(providers.GetLogTypeByRequestType(r.Method), "Rejected media path %q from %s", r.URL.Path, r.RemoteAddr)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	kind, ok := media.Classify(path)
	if !ok {
		http.Error(w, "Unsupported Media Type", http.StatusUnsupportedMediaType)
		return
	}

	n, err := media.ServeFile(w, r, path, media.Options{
		CacheControl: media.CacheImmutable,
		AllowRange:   kind == models.MediaVideo,
	})
	mc.metrics.AddBytesServed(string(kind), n)
	switch {
	case err == nil, errors.Is(err, media.ErrNotFound), errors.Is(err, media.ErrRangeNotSatisfiable):
	default:
		mc.logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "Streaming %s stopped after %d bytes: %s", name, n, err)
	}
}
