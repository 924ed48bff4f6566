package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/milb-data/internal/httpx"
	"github.com/pfrederiksen/milb-data/internal/logger"
	"github.com/pfrederiksen/milb-data/internal/storage"
)

const (
	TeamsURL = "https://en.wikipedia.org/wiki/List_of_Minor_League_Baseball_leagues_and_teams"
)

// Scraper fetches Wikipedia pages and keeps an archive of every page it
// downloads
type Scraper struct {
	client *httpx.Client
	store  *storage.Storage
	now    func() time.Time
}

// New creates a new Scraper instance. store may be nil to disable the
// archive.
func New(client *httpx.Client, store *storage.Storage) *Scraper {
	if client == nil {
		client = httpx.New()
	}
	return &Scraper{
		client: client,
		store:  store,
		now:    time.Now,
	}
}

// FetchPage downloads a page without consulting the archive
func (s *Scraper) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	start := time.Now()
	body, err := s.client.Get(ctx, pageURL, nil)
	logger.RecordTiming("fetch.page", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	return body, nil
}

// Page returns the HTML of pageURL. Unless refresh is set the newest
// archived copy is used; otherwise the page is fetched and archived.
func (s *Scraper) Page(ctx context.Context, kind, pageURL string, refresh bool) ([]byte, error) {
	slug := storage.Slug(pageURL)

	if s.store != nil && !refresh {
		data, err := s.store.Load(kind, slug)
		if err == nil {
			logger.Debug("Using cached page", logger.Fields{"url": pageURL, "slug": slug})
			logger.IncrCounter("cache.hits")
			return data, nil
		}
		if !errors.Is(err, storage.ErrNotCached) {
			return nil, err
		}
	}

	body, err := s.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	logger.IncrCounter("cache.misses")

	if s.store != nil {
		path, err := s.store.Save(kind, slug, body, s.now())
		if err != nil {
			return nil, fmt.Errorf("archiving page: %w", err)
		}
		logger.Debug("Archived page", logger.Fields{"url": pageURL, "path": path})
	}
	return body, nil
}

// Document is Page parsed into a goquery document
func (s *Scraper) Document(ctx context.Context, kind, pageURL string, refresh bool) (*goquery.Document, error) {
	body, err := s.Page(ctx, kind, pageURL, refresh)
	if err != nil {
		return nil, err
	}
	return Parse(body)
}

// Parse builds a goquery document from raw HTML
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
