package controllers

import (
	"bytes"
	"errors"
	"io"
	"mediawall/internal/providers"
	"net/http"

	json "github.com/goccy/go-json"
)

var (
	errBodyTooLarge = errors.New("payload too large")
	errInvalidJSON  = errors.New("invalid json")
)

// decodeBody reads at most limit bytes of the request body into v. An empty
// body leaves v untouched and reports false.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) (bool, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return false, errBodyTooLarge
		}
		return false, errInvalidJSON
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errInvalidJSON
	}
	return true, nil
}

// writeBodyError maps a decodeBody failure onto the response.
func writeBodyError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		providers.WriteJSONError(w, http.StatusRequestEntityTooLarge, errBodyTooLarge.Error())
		return
	}
	providers.WriteJSONError(w, http.StatusBadRequest, errInvalidJSON.Error())
}

func serveFromCacheOrCompute(cache providers.CacheProviderInterface, w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		providers.WriteJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		providers.WriteJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
