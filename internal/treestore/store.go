// Package treestore owns the persisted dashboard document. Every operation
// is a load, mutate, persist cycle over the whole document.
package treestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dgallion1/startpage/internal/dashboard"
	"github.com/dgallion1/startpage/internal/kvstore"
)

// DefaultKey is the storage key the document lives under.
const DefaultKey = "safari_dashboard_data"

// TitleFunc looks up a page title for a url.
type TitleFunc func(ctx context.Context, url string) (string, error)

// Store serializes read-modify-write cycles on the dashboard document.
type Store struct {
	kv    kvstore.Store
	key   string
	log   *slog.Logger
	newID func(prefix string) string
	title TitleFunc

	mu sync.Mutex
}

type Option func(*Store)

// WithIDFunc overrides id generation for new items.
func WithIDFunc(f func(prefix string) string) Option {
	return func(s *Store) { s.newID = f }
}

// WithTitleFetcher sets the fallback used by AddCurrentPage when no title
// is supplied.
func WithTitleFetcher(f TitleFunc) Option {
	return func(s *Store) { s.title = f }
}

func New(kv kvstore.Store, key string, log *slog.Logger, opts ...Option) *Store {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		kv:    kv,
		key:   key,
		log:   log.With("component", "treestore"),
		newID: dashboard.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Document loads the current document, seeding the defaults when nothing
// is stored. It never writes.
func (s *Store) Document(ctx context.Context) (dashboard.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// WithDocument loads the document, hands a working copy to fn and persists
// it when fn reports a change. The returned document is the new state, or
// the unmodified one when nothing changed.
func (s *Store) WithDocument(ctx context.Context, fn func(doc *dashboard.Document) bool) (dashboard.Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return dashboard.Document{}, false, err
	}
	work := doc.Clone()
	if !fn(&work) {
		return doc, false, nil
	}
	work.Normalize()
	if err := s.save(ctx, work); err != nil {
		return doc, false, err
	}
	return work, true, nil
}

func (s *Store) load(ctx context.Context) (dashboard.Document, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return dashboard.Document{}, fmt.Errorf("load document: %w", err)
	}
	if !ok {
		return dashboard.Default(), nil
	}
	var doc dashboard.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return dashboard.Document{}, fmt.Errorf("decode document: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

func (s *Store) save(ctx context.Context, doc dashboard.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Reset removes the stored document so the next load seeds defaults.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("reset document: %w", err)
	}
	s.log.Info("document reset", "key", s.key)
	return nil
}

func (s *Store) ToggleSectionVisibility(ctx context.Context, sectionID string) (dashboard.Document, bool, error) {
	return s.WithDocument(ctx, func(d *dashboard.Document) bool {
		return d.ToggleSectionVisibility(sectionID)
	})
}

func (s *Store) SaveItemToFavorites(ctx context.Context, it dashboard.Item) (dashboard.Document, bool, error) {
	return s.WithDocument(ctx, func(d *dashboard.Document) bool {
		return d.SaveToFavorites(it)
	})
}

func (s *Store) DeleteItem(ctx context.Context, itemID string) (dashboard.Document, bool, error) {
	return s.WithDocument(ctx, func(d *dashboard.Document) bool {
		return d.DeleteItem(itemID)
	})
}

func (s *Store) RenameItem(ctx context.Context, itemID, title string) (dashboard.Document, bool, error) {
	return s.WithDocument(ctx, func(d *dashboard.Document) bool {
		return d.RenameItem(itemID, title)
	})
}

func (s *Store) MoveItem(ctx context.Context, itemID, targetID string) (dashboard.Document, bool, error) {
	return s.WithDocument(ctx, func(d *dashboard.Document) bool {
		return d.MoveItem(itemID, targetID)
	})
}

func (s *Store) ReorderItem(ctx context.Context, sourceID, targetID string) (dashboard.Document, bool, error) {
	return s.WithDocument(ctx, func(d *dashboard.Document) bool {
		return d.ReorderItem(sourceID, targetID)
	})
}

// CreateFolderWithItems merges source and target into a new folder.
func (s *Store) CreateFolderWithItems(ctx context.Context, sourceID, targetID string) (dashboard.Document, bool, error) {
	folderID := s.newID(string(dashboard.TypeFolder))
	doc, changed, err := s.WithDocument(ctx, func(d *dashboard.Document) bool {
		return d.CreateFolderWithItems(sourceID, targetID, folderID)
	})
	if changed {
		s.log.Debug("folder created", "folder_id", folderID, "source", sourceID, "target", targetID)
	}
	return doc, changed, err
}

// AddCurrentPage saves a link to the given page into Favorites. An empty
// title falls back to the page's own title, then to "New Page".
func (s *Store) AddCurrentPage(ctx context.Context, url, title string) (dashboard.Document, bool, error) {
	url = strings.TrimSpace(url)
	title = strings.TrimSpace(title)
	if url == "" {
		doc, err := s.Document(ctx)
		return doc, false, err
	}
	if title == "" && s.title != nil {
		// Fetched outside the lock; it is network bound.
		t, err := s.title(ctx, url)
		if err != nil {
			s.log.Warn("title lookup failed", "url", url, "error", err)
		}
		title = strings.TrimSpace(t)
	}
	if title == "" {
		title = dashboard.DefaultPageTitle
	}
	it := dashboard.Item{
		ID:    s.newID(string(dashboard.TypeLink)),
		Title: title,
		Type:  dashboard.TypeLink,
		URL:   url,
	}
	return s.SaveItemToFavorites(ctx, it)
}

// ImportItems inserts items into a section and reports how many top-level
// items went in.
func (s *Store) ImportItems(ctx context.Context, sectionID string, items []dashboard.Item) (dashboard.Document, int, error) {
	var n int
	doc, _, err := s.WithDocument(ctx, func(d *dashboard.Document) bool {
		n = d.ImportItems(sectionID, items, s.newID)
		return n > 0
	})
	if err != nil {
		return doc, 0, err
	}
	if n > 0 {
		s.log.Info("items imported", "section", sectionID, "count", n)
	}
	return doc, n, nil
}
