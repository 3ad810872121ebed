package media

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
)

var (
	ErrNotFound             = errors.New("file not found")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrRangeNotSatisfiable  = errors.New("range not satisfiable")
)

// Cache-Control policies per asset class.
const (
	CacheImmutable = "public, max-age=31536000, immutable"
	CacheStatic    = "public, max-age=1800, must-revalidate"
	CacheDocument  = "public, max-age=0, must-revalidate"
	CacheNever     = "no-cache, no-store, must-revalidate"
)

var rangePattern = regexp.MustCompile(`bytes=(\d*)-(\d*)`)

// ByteRange is an inclusive window of a file.
type ByteRange struct {
	Start int64
	End   int64
}

func (br ByteRange) Length() int64 {
	return br.End - br.Start + 1
}

func (br ByteRange) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", br.Start, br.End, size)
}

// ParseRange understands a single "bytes=start-end", "bytes=start-" or
// "bytes=-suffix" range. An end past the file is clamped to the last byte.
func ParseRange(header string, size int64) (ByteRange, error) {
	m := rangePattern.FindStringSubmatch(header)
	if m == nil {
		return ByteRange{}, ErrRangeNotSatisfiable
	}
	startRaw, endRaw := m[1], m[2]
	if startRaw == "" && endRaw == "" {
		return ByteRange{}, ErrRangeNotSatisfiable
	}

	var start, end int64
	if startRaw == "" {
		suffix, err := strconv.ParseInt(endRaw, 10, 64)
		if err != nil {
			return ByteRange{}, ErrRangeNotSatisfiable
		}
		start = max(size-suffix, 0)
		end = size - 1
	} else {
		var err error
		start, err = strconv.ParseInt(startRaw, 10, 64)
		if err != nil {
			return ByteRange{}, ErrRangeNotSatisfiable
		}
		if endRaw == "" {
			end = size - 1
		} else if end, err = strconv.ParseInt(endRaw, 10, 64); err != nil {
			return ByteRange{}, ErrRangeNotSatisfiable
		}
	}

	if start < 0 || end < 0 || end < start || start >= size {
		return ByteRange{}, ErrRangeNotSatisfiable
	}
	if end >= size {
		end = size - 1
	}
	return ByteRange{Start: start, End: end}, nil
}

// ETag derives a validator from size and modification time in milliseconds.
func ETag(info os.FileInfo) string {
	return fmt.Sprintf(`"%d-%d"`, info.Size(), info.ModTime().UnixMilli())
}

type Options struct {
	CacheControl string
	// AllowRange enables partial content; without it Range is ignored.
	AllowRange bool
}

// ServeFile writes the file at path, or the matching error status, to w.
// It returns how many body bytes were streamed and, for anything but a
// successful or not-modified response, the reason.
func ServeFile(w http.ResponseWriter, r *http.Request, path string, opts Options) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, "Not found", http.StatusNotFound)
			return 0, ErrNotFound
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return 0, err
	}
	if info.IsDir() {
		http.Error(w, "Not found", http.StatusNotFound)
		return 0, ErrNotFound
	}

	size := info.Size()
	etag := ETag(info)

	h := w.Header()
	h.Set("ETag", etag)
	h.Set("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
	h.Set("Cache-Control", opts.CacheControl)
	h.Set("Content-Type", ContentType(path))
	if opts.AllowRange {
		h.Set("Accept-Ranges", "bytes")
	}

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return 0, nil
	}

	rangeHeader := r.Header.Get("Range")
	if !opts.AllowRange || rangeHeader == "" {
		h.Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return 0, nil
		}
		return io.Copy(w, f)
	}

	br, err := ParseRange(rangeHeader, size)
	if err != nil {
		for _, k := range []string{"ETag", "Last-Modified", "Cache-Control", "Accept-Ranges"} {
			h.Del(k)
		}
		h.Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return 0, err
	}

	h.Set("Content-Range", br.ContentRange(size))
	h.Set("Content-Length", strconv.FormatInt(br.Length(), 10))
	w.WriteHeader(http.StatusPartialContent)
	if r.Method == http.MethodHead {
		return 0, nil
	}
	return io.Copy(w, io.NewSectionReader(f, br.Start, br.Length()))
}
