package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// StampLayout is the timestamp format embedded in archived file names
const StampLayout = "20060102_150405"

// Page kinds, each archived in its own subdirectory
const (
	KindTeams = "milb"
	KindCity  = "city"
)

// ErrNotCached is returned by Latest when no archived page matches
var ErrNotCached = errors.New("page not cached")

// Storage handles the archive of fetched HTML pages
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved data directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// Slug derives the cache key of a page URL: the first four "_" separated
// phrases of the last path segment, lower-cased
func Slug(pageURL string) string {
	segment := pageURL
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	phrases := strings.Split(segment, "_")
	if len(phrases) > 4 {
		phrases = phrases[:4]
	}
	return strings.ToLower(strings.Join(phrases, "_"))
}

func fileName(slug string, at time.Time) string {
	return fmt.Sprintf("wiki_%s_%s.html", slug, at.Format(StampLayout))
}

// Save archives html under <dir>/<kind>/wiki_<slug>_<stamp>.html and
// returns the written path
func (s *Storage) Save(kind, slug string, html []byte, at time.Time) (string, error) {
	dir := filepath.Join(s.dataDir, kind)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating %s directory: %w", kind, err)
	}

	path := filepath.Join(dir, fileName(slug, at))
	if err := os.WriteFile(path, html, 0644); err != nil {
		return "", fmt.Errorf("writing page: %w", err)
	}
	return path, nil
}

// Latest returns the path of the newest archived page for slug. Only names
// matching wiki_<slug>_<YYYYmmdd_HHMMSS>.html exactly are considered.
func (s *Storage) Latest(kind, slug string) (string, error) {
	dir := filepath.Join(s.dataDir, kind)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotCached
		}
		return "", fmt.Errorf("listing %s pages: %w", kind, err)
	}

	pattern := regexp.MustCompile(`^wiki_` + regexp.QuoteMeta(slug) + `_(\d{8}_\d{6})\.html$`)

	var latestName string
	var latest time.Time
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		stamp, err := time.Parse(StampLayout, m[1])
		if err != nil {
			continue
		}
		if latestName == "" || stamp.After(latest) {
			latest = stamp
			latestName = e.Name()
		}
	}

	if latestName == "" {
		return "", ErrNotCached
	}
	return filepath.Join(dir, latestName), nil
}

// Load reads the newest archived page for slug
func (s *Storage) Load(kind, slug string) ([]byte, error) {
	path, err := s.Latest(kind, slug)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cached page: %w", err)
	}
	return data, nil
}
