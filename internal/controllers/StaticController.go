package controllers

import (
	"errors"
	"mediawall/internal/media"
	"mediawall/internal/providers"
	"mediawall/internal/structures"
	"net/http"
	"path/filepath"
	"strings"
)

// StaticController serves the player bundle from the public root.
type StaticController struct {
	logger        providers.Logger
	metrics       providers.MetricsProviderInterface
	resolver      *media.Resolver
	indexFile     string
	serviceWorker string
}

func NewStaticController(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (*StaticController, error) {
	resolver, err := media.NewResolver(conf.Paths.PublicDir)
	if err != nil {
		return nil, err
	}
	return &StaticController{
		logger:        logger,
		metrics:       metrics,
		resolver:      resolver,
		indexFile:     conf.Paths.IndexFile,
		serviceWorker: conf.Paths.ServiceWorker,
	}, nil
}

func (sc *StaticController) cachePolicy(path string) string {
	name := filepath.Base(path)
	switch {
	case sc.serviceWorker != "" && name == sc.serviceWorker:
		return media.CacheNever
	case strings.EqualFold(filepath.Ext(name), ".html"):
		return media.CacheDocument
	default:
		return media.CacheStatic
	}
}

func (sc *StaticController) ServeStatic(w http.ResponseWriter, r *http.Request) {
	requested := r.URL.Path
	if requested == "/" {
		requested = sc.indexFile
	}

	path, err := sc.resolver.Resolve(requested)
	if err != nil {
		sc.logger.Warnf(providers.GetLogTypeByRequestType(r.Method), "Rejected static path %q from %s", r.URL.Path, r.RemoteAddr)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	n, err := media.ServeFile(w, r, path, media.Options{CacheControl: sc.cachePolicy(path)})
	sc.metrics.AddBytesServed("static", n)
	if err != nil && !errors.Is(err, media.ErrNotFound) {
		sc.logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "Serving %s failed: %s", r.URL.Path, err)
	}
}
