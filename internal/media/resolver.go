package media

import (
	"errors"
	"mediawall/internal/models"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrForbidden = errors.New("path escapes root")

// Resolver turns request sub-paths into filesystem paths inside root.
type Resolver struct {
	root string
}

func NewResolver(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Resolver{root: abs}, nil
}

func (r *Resolver) Root() string {
	return r.root
}

// Resolve strips leading slashes and backslashes from requested, joins it
// with the root and refuses anything that lands outside of it.
func (r *Resolver) Resolve(requested string) (string, error) {
	sub := strings.TrimLeft(requested, `/\`)
	resolved := filepath.Join(r.root, sub)
	if resolved != r.root && !strings.HasPrefix(resolved, r.root+string(filepath.Separator)) {
		return "", ErrForbidden
	}
	return resolved, nil
}

// List enumerates recognized media directly under the root, sorted by
// name. A missing root is an empty wall, not an error.
func (r *Resolver) List() ([]models.MediaEntry, error) {
	dirEntries, err := os.ReadDir(r.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.MediaEntry{}, nil
		}
		return nil, err
	}

	entries := make([]models.MediaEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		kind, ok := Classify(de.Name())
		if !ok {
			continue
		}
		entries = append(entries, models.MediaEntry{Name: de.Name(), Type: kind})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Exists reports whether the root directory is present.
func (r *Resolver) Exists() bool {
	info, err := os.Stat(r.root)
	return err == nil && info.IsDir()
}
