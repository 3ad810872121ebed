package models

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"
)

const (
	maxMetaShort    = 64
	maxMetaReferrer = 512
	maxUserAgent    = 512
	maxScreenSide   = 100000
)

type Screen struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// ClientMetadata is what the player volunteers about itself when liking.
type ClientMetadata struct {
	Language string  `json:"language,omitempty"`
	Platform string  `json:"platform,omitempty"`
	Timezone string  `json:"timezone,omitempty"`
	Screen   *Screen `json:"screen,omitempty"`
	Referrer string  `json:"referrer,omitempty"`
}

// Sanitize trims and caps every field. It returns nil when nothing usable remains.
func (m *ClientMetadata) Sanitize() *ClientMetadata {
	if m == nil {
		return nil
	}
	out := &ClientMetadata{
		Language: Truncate(m.Language, maxMetaShort),
		Platform: Truncate(m.Platform, maxMetaShort),
		Timezone: Truncate(m.Timezone, maxMetaShort),
		Referrer: Truncate(m.Referrer, maxMetaReferrer),
	}
	if m.Screen != nil {
		s := &Screen{Width: clampSide(m.Screen.Width), Height: clampSide(m.Screen.Height)}
		if s.Width > 0 || s.Height > 0 {
			out.Screen = s
		}
	}
	if *out == (ClientMetadata{}) {
		return nil
	}
	return out
}

func clampSide(v int) int {
	if v <= 0 {
		return 0
	}
	return min(v, maxScreenSide)
}

// Truncate trims s and caps it at limit runes.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:limit]))
}

type LikeEntry struct {
	Timestamp string          `json:"timestamp"`
	IP        string          `json:"ip,omitempty"`
	UserAgent string          `json:"userAgent,omitempty"`
	Metadata  *ClientMetadata `json:"metadata,omitempty"`
}

func NewLikeEntry(now time.Time, ip, userAgent string, meta *ClientMetadata) LikeEntry {
	return LikeEntry{
		Timestamp: Timestamp(now),
		IP:        ip,
		UserAgent: Truncate(userAgent, maxUserAgent),
		Metadata:  meta.Sanitize(),
	}
}

// Counter is a ledger total that tolerates a malformed value on read
// instead of failing the whole document.
type Counter struct {
	Value int64
	Valid bool
}

func (c *Counter) UnmarshalJSON(b []byte) error {
	*c = Counter{}
	if string(b) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return nil
	}
	if n < 0 || n != math.Trunc(n) || n > math.MaxInt64 {
		return nil
	}
	*c = Counter{Value: int64(n), Valid: true}
	return nil
}

func (c Counter) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, c.Value, 10), nil
}

type LikesDocument struct {
	Total   Counter     `json:"total"`
	Entries []LikeEntry `json:"entries"`
}

func NewLikesDocument() *LikesDocument {
	return &LikesDocument{Total: Counter{Valid: true}, Entries: []LikeEntry{}}
}

// Valid only requires the entries array. A broken total is repaired on
// the next append rather than discarding the entries.
func (d *LikesDocument) Valid() bool {
	return d.Entries != nil
}

func (d *LikesDocument) Normalize() {
	if d.Entries == nil {
		d.Entries = []LikeEntry{}
	}
}

func (d *LikesDocument) Len() int {
	return len(d.Entries)
}

// Count is the total reported to clients.
func (d *LikesDocument) Count() int64 {
	if d.Total.Valid && d.Total.Value == int64(len(d.Entries)) {
		return d.Total.Value
	}
	return int64(len(d.Entries))
}

// Append adds e and advances the total. A stored total that is missing or
// disagrees with the entry count is replaced by the count first, so
// total == len(entries) after every append.
func (d *LikesDocument) Append(e LikeEntry) int64 {
	prev := d.Total.Value
	if !d.Total.Valid || prev != int64(len(d.Entries)) {
		prev = int64(len(d.Entries))
	}
	d.Entries = append(d.Entries, e)
	d.Total = Counter{Value: prev + 1, Valid: true}
	return d.Total.Value
}
