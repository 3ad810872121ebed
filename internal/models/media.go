package models

type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaImage MediaType = "image"
)

// MediaEntry is one playable item of the wall, derived from a file name.
type MediaEntry struct {
	Name string    `json:"name"`
	Type MediaType `json:"type"`
}
