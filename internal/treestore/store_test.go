package treestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/startpage/internal/dashboard"
	"github.com/dgallion1/startpage/internal/kvstore"
)

// countingStore wraps a kvstore and counts writes.
type countingStore struct {
	kvstore.Store
	mu   sync.Mutex
	sets int
}

func (c *countingStore) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.Store.Set(ctx, key, value)
}

func (c *countingStore) writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingStore) Set(context.Context, string, []byte) error         { return f.err }
func (f failingStore) Delete(context.Context, string) error              { return f.err }
func (f failingStore) Close() error                                      { return nil }

func seqIDs() func(string) string {
	var mu sync.Mutex
	n := 0
	return func(prefix string) string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *countingStore) {
	t.Helper()
	kv := &countingStore{Store: kvstore.NewMemory()}
	opts = append([]Option{WithIDFunc(seqIDs())}, opts...)
	return New(kv, "", nil, opts...), kv
}

func favoriteIDs(doc dashboard.Document) []string {
	s, _ := doc.Section(dashboard.FavoritesID)
	var ids []string
	for _, it := range s.Items {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestDocument_SeedsDefaultWithoutWriting(t *testing.T) {
	s, kv := newTestStore(t)
	doc, err := s.Document(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dashboard.Default(), doc)
	assert.Zero(t, kv.writes())
}

func TestWithDocument_PersistsOnlyOnChange(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)

	_, changed, err := s.DeleteItem(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, kv.writes(), "no-op must not persist")

	doc, changed, err := s.DeleteItem(ctx, "github")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, kv.writes())
	assert.False(t, doc.Contains("github"))

	raw, ok, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	var stored dashboard.Document
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, doc, stored)
}

func TestWithDocument_DiscardsWorkingCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	doc, changed, err := s.WithDocument(ctx, func(d *dashboard.Document) bool {
		d.Sections = nil
		return false
	})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, dashboard.Default(), doc)
}

func TestOperations_RoundTripThroughStorage(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, _, err := s.MoveItem(ctx, "github", "tech-folder")
	require.NoError(t, err)
	_, _, err = s.ReorderItem(ctx, "youtube", "google")
	require.NoError(t, err)
	_, _, err = s.RenameItem(ctx, "google", "Search")
	require.NoError(t, err)
	_, _, err = s.ToggleSectionVisibility(ctx, "social")
	require.NoError(t, err)

	doc, err := s.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"youtube", "google", "tech-folder", "add-btn"}, favoriteIDs(doc))
	loc, ok := doc.Find("google")
	require.True(t, ok)
	assert.Equal(t, "Search", loc.Item.Title)
	social, _ := doc.Section("social")
	assert.True(t, social.Hidden)
}

func TestCreateFolderWithItems_UsesFolderID(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	doc, changed, err := s.CreateFolderWithItems(ctx, "google", "youtube")
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, []string{"folder-1", "tech-folder", "github", "add-btn"}, favoriteIDs(doc))
	loc, ok := doc.FindFolder("folder-1")
	require.True(t, ok)
	assert.Equal(t, dashboard.DefaultFolderTitle, loc.Item.Title)
	assert.Len(t, loc.Item.Items, 2)
}

func TestAddCurrentPage_TitleFallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit title", func(t *testing.T) {
		s, _ := newTestStore(t)
		doc, changed, err := s.AddCurrentPage(ctx, "https://go.dev", "Go")
		require.NoError(t, err)
		require.True(t, changed)
		loc, ok := doc.Find("link-1")
		require.True(t, ok)
		assert.Equal(t, "Go", loc.Item.Title)
		assert.Equal(t, []string{"google", "youtube", "tech-folder", "github", "link-1", "add-btn"}, favoriteIDs(doc))
	})

	t.Run("fetched title", func(t *testing.T) {
		s, _ := newTestStore(t, WithTitleFetcher(func(context.Context, string) (string, error) {
			return " The Go Programming Language ", nil
		}))
		doc, _, err := s.AddCurrentPage(ctx, "https://go.dev", "")
		require.NoError(t, err)
		loc, _ := doc.Find("link-1")
		assert.Equal(t, "The Go Programming Language", loc.Item.Title)
	})

	t.Run("fetch fails", func(t *testing.T) {
		s, _ := newTestStore(t, WithTitleFetcher(func(context.Context, string) (string, error) {
			return "", errors.New("offline")
		}))
		doc, _, err := s.AddCurrentPage(ctx, "https://go.dev", "")
		require.NoError(t, err)
		loc, _ := doc.Find("link-1")
		assert.Equal(t, dashboard.DefaultPageTitle, loc.Item.Title)
	})

	t.Run("no url", func(t *testing.T) {
		s, kv := newTestStore(t)
		_, changed, err := s.AddCurrentPage(ctx, "  ", "x")
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Zero(t, kv.writes())
	})
}

func TestImportItems_ReassignsTakenIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	items := []dashboard.Item{
		{ID: "google", Title: "Google again", Type: dashboard.TypeLink, URL: "https://google.com"},
		{ID: "new", Title: "New", Type: dashboard.TypeLink, URL: "https://new.example"},
	}
	doc, n, err := s.ImportItems(ctx, "social", items)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	social, _ := doc.Section("social")
	require.Len(t, social.Items, 5)
	assert.Equal(t, "link-1", social.Items[3].ID)
	assert.Equal(t, "new", social.Items[4].ID)
}

func TestReset_SeedsAgain(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, _, err := s.DeleteItem(ctx, "google")
	require.NoError(t, err)
	require.NoError(t, s.Reset(ctx))

	doc, err := s.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, dashboard.Default(), doc)
}

func TestPersistenceFailure_IsWrapped(t *testing.T) {
	boom := errors.New("disk on fire")
	s := New(failingStore{err: boom}, "", nil)

	_, _, err := s.DeleteItem(context.Background(), "google")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "load document")
}

func TestCorruptDocument_IsAnError(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(ctx, DefaultKey, []byte("{not json")))

	_, err := New(kv, "", nil).Document(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode document")
}

func TestWithDocument_Serializes(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			it := dashboard.Item{ID: fmt.Sprintf("p%d", i), Title: "p", Type: dashboard.TypeLink, URL: "https://p.example"}
			_, _, err := s.SaveItemToFavorites(ctx, it)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	doc, err := s.Document(ctx)
	require.NoError(t, err)
	fav, _ := doc.Section(dashboard.FavoritesID)
	assert.Len(t, fav.Items, 6+20)
	assert.Equal(t, "add-btn", fav.Items[len(fav.Items)-1].ID)
}
