// Package media maps request paths onto files under a root and serves them
// with HTTP validators and byte-range support.
package media

import (
	"mediawall/internal/models"
	"mime"
	"path/filepath"
	"strings"
)

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".ogv":  "video/ogg",
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var staticTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// Classify reports whether name is a recognized video or image.
func Classify(name string) (models.MediaType, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := videoTypes[ext]; ok {
		return models.MediaVideo, true
	}
	if _, ok := imageTypes[ext]; ok {
		return models.MediaImage, true
	}
	return "", false
}

// ContentType picks a Content-Type by extension, falling back to the
// system table and then to application/octet-stream.
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	for _, table := range []map[string]string{staticTypes, videoTypes, imageTypes} {
		if ct, ok := table[ext]; ok {
			return ct
		}
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
