package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photosync/photolist/internal/models"
	"github.com/photosync/photolist/internal/repository"
)

// stubBackend records calls and returns canned answers
type stubBackend struct {
	collections map[int64]*models.Collection
	photos      map[int64][]models.Photo
	search      *models.SearchResult

	nextID     int64
	created    []models.CreateCollectionRequest
	added      map[int64][]string
	lastLimit  int
	failCreate error
	failAdd    error
	failFetch  error
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		collections: make(map[int64]*models.Collection),
		photos:      make(map[int64][]models.Photo),
		added:       make(map[int64][]string),
		nextID:      42,
	}
}

func (b *stubBackend) FetchCollection(_ context.Context, id int64) (*models.Collection, error) {
	if b.failFetch != nil {
		return nil, b.failFetch
	}
	col, ok := b.collections[id]
	if !ok {
		return nil, errors.New("not found")
	}
	c := *col
	return &c, nil
}

func (b *stubBackend) FetchCollectionPhotos(_ context.Context, id int64, _, limit int) ([]models.Photo, error) {
	b.lastLimit = limit
	return b.photos[id], nil
}

func (b *stubBackend) SearchPhotos(_ context.Context, _ models.SearchCriteria, _, limit int) (*models.SearchResult, error) {
	b.lastLimit = limit
	if b.failFetch != nil {
		return nil, b.failFetch
	}
	return b.search, nil
}

func (b *stubBackend) CreateCollection(_ context.Context, name string, description *string) (*models.Collection, error) {
	if b.failCreate != nil {
		return nil, b.failCreate
	}
	b.created = append(b.created, models.CreateCollectionRequest{Name: name, Description: description})
	col := &models.Collection{ID: b.nextID, Name: name, Description: description}
	b.nextID++
	return col, nil
}

func (b *stubBackend) AddPhotosToCollection(_ context.Context, id int64, hothashes []string) error {
	if b.failAdd != nil {
		return b.failAdd
	}
	b.added[id] = append(b.added[id], hothashes...)
	return nil
}

// recordingNotifier keeps every event it receives
type recordingNotifier struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (n *recordingNotifier) NotifyListChanges(events []ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, events...)
}

func (n *recordingNotifier) kinds() []ChangeKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]ChangeKind, len(n.events))
	for i, e := range n.events {
		out[i] = e.Kind
	}
	return out
}

// tickingClock advances one second per reading
func tickingClock() func() time.Time {
	t := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

type fixture struct {
	svc      *ListService
	backend  *stubBackend
	kv       *repository.MemoryStore
	notifier *recordingNotifier
}

func newFixture(t *testing.T, maxLists int) *fixture {
	t.Helper()
	kv := repository.NewMemoryStore()
	be := newStubBackend()
	n := &recordingNotifier{}
	svc := NewListService(context.Background(), repository.NewListStore(kv, nil), be, ListServiceConfig{
		MaxLists: maxLists,
		Notifier: n,
		Clock:    tickingClock(),
	})
	return &fixture{svc: svc, backend: be, kv: kv, notifier: n}
}

func (f *fixture) stored(t *testing.T) []models.PhotoList {
	t.Helper()
	return repository.NewListStore(f.kv, nil).Load(context.Background())
}

func photos(hashes ...string) []models.Photo {
	out := make([]models.Photo, len(hashes))
	for i, h := range hashes {
		out[i] = models.Photo{Hothash: h}
	}
	return out
}

func ids(lists []models.PhotoList) []string {
	out := make([]string, len(lists))
	for i, l := range lists {
		out[i] = l.ID
	}
	return out
}

func TestListService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("create and fill", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateEmpty(ctx)
		f.svc.AddPhotos(ctx, id, photos("a", "b"))

		l, ok := f.svc.Get(id)
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, models.Hothashes(l.Photos))
		assert.True(t, l.Modified)
		assert.Equal(t, 2, l.TotalCount)
	})

	t.Run("manual lists are numbered by count", func(t *testing.T) {
		f := newFixture(t, 10)
		first := f.svc.CreateEmpty(ctx)
		second := f.svc.CreateEmpty(ctx)

		l1, _ := f.svc.Get(first)
		l2, _ := f.svc.Get(second)
		assert.Equal(t, "List 1", l1.Label)
		assert.Equal(t, models.ManualSource{Number: 1}, l1.Source)
		assert.Equal(t, "List 2", l2.Label)

		f.svc.Delete(ctx, first)
		third := f.svc.CreateEmpty(ctx)
		l3, _ := f.svc.Get(third)
		assert.Equal(t, "List 2", l3.Label)
	})

	t.Run("from photos keeps label and count", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateFromPhotos(ctx, photos("x", "y", "z"), "Picks")

		l, ok := f.svc.Get(id)
		require.True(t, ok)
		assert.Equal(t, "Picks", l.Label)
		assert.Equal(t, 3, l.TotalCount)
		assert.False(t, l.Modified)
	})

	t.Run("from photos counts unique photos", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateFromPhotos(ctx, photos("a", "a", "b"), "")

		l, _ := f.svc.Get(id)
		assert.Equal(t, []string{"a", "b"}, models.Hothashes(l.Photos))
		assert.Equal(t, 2, l.TotalCount)
	})

	t.Run("from photos without label uses default", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateFromPhotos(ctx, photos("x"), "")
		l, _ := f.svc.Get(id)
		assert.Equal(t, "List 1", l.Label)
	})

	t.Run("every creation is persisted", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateEmpty(ctx)
		assert.Equal(t, []string{id}, ids(f.stored(t)))
		assert.Equal(t, []ChangeKind{ChangeCreated}, f.notifier.kinds())
	})
}

func TestListService_Eviction(t *testing.T) {
	ctx := context.Background()

	t.Run("oldest list is evicted", func(t *testing.T) {
		f := newFixture(t, 2)
		l1 := f.svc.CreateEmpty(ctx)
		l2 := f.svc.CreateEmpty(ctx)
		l3 := f.svc.CreateEmpty(ctx)

		assert.Equal(t, []string{l2, l3}, ids(f.svc.Lists()))
		assert.Equal(t, []string{l2, l3}, ids(f.stored(t)))
		_, ok := f.svc.Get(l1)
		assert.False(t, ok)
	})

	t.Run("selecting a list protects it", func(t *testing.T) {
		f := newFixture(t, 2)
		l1 := f.svc.CreateEmpty(ctx)
		l2 := f.svc.CreateEmpty(ctx)
		f.svc.SetActive(ctx, l1)
		l3 := f.svc.CreateEmpty(ctx)

		assert.Equal(t, []string{l1, l3}, ids(f.svc.Lists()))
		_, ok := f.svc.Get(l2)
		assert.False(t, ok)
	})

	t.Run("evicting the active list clears selection", func(t *testing.T) {
		f := newFixture(t, 2)
		l1 := f.svc.CreateEmpty(ctx)
		f.svc.SetActive(ctx, l1)
		l2 := f.svc.CreateEmpty(ctx)
		f.svc.AddPhotos(ctx, l2, photos("a"))
		f.svc.CreateEmpty(ctx)

		assert.Empty(t, f.svc.ActiveID())
		_, ok := f.svc.GetActive()
		assert.False(t, ok)
		assert.Contains(t, f.notifier.kinds(), ChangeEvicted)
	})

	t.Run("stored set over capacity is trimmed on startup", func(t *testing.T) {
		kv := repository.NewMemoryStore()
		store := repository.NewListStore(kv, nil)
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		var lists []models.PhotoList
		for i := 0; i < 4; i++ {
			lists = append(lists, models.NewPhotoList("x", models.ManualSource{Number: i + 1}, nil, 0, base.Add(time.Duration(i)*time.Minute)))
		}
		store.Save(ctx, lists)

		svc := NewListService(ctx, store, newStubBackend(), ListServiceConfig{MaxLists: 2})

		assert.Equal(t, []string{lists[2].ID, lists[3].ID}, ids(svc.Lists()))
		assert.Len(t, store.Load(ctx), 2)
	})
}

func TestListService_Active(t *testing.T) {
	ctx := context.Background()

	t.Run("set, get and clear", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateEmpty(ctx)
		before, _ := f.svc.Get(id)

		f.svc.SetActive(ctx, id)
		active, ok := f.svc.GetActive()
		require.True(t, ok)
		assert.Equal(t, id, active.ID)
		assert.True(t, active.LastAccessedAt.After(before.LastAccessedAt))

		f.svc.SetActive(ctx, "")
		assert.Empty(t, f.svc.ActiveID())
	})

	t.Run("unknown id is ignored", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateEmpty(ctx)
		f.svc.SetActive(ctx, id)
		f.svc.SetActive(ctx, "missing")
		assert.Equal(t, id, f.svc.ActiveID())
	})

	t.Run("deleting the active list clears it", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateEmpty(ctx)
		f.svc.SetActive(ctx, id)
		f.svc.Delete(ctx, id)

		assert.Empty(t, f.svc.ActiveID())
		assert.Empty(t, f.stored(t))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateEmpty(ctx)
		f.svc.Delete(ctx, id)
		f.svc.Delete(ctx, id)
		assert.Empty(t, f.svc.Lists())
	})
}

func TestListService_Mutations(t *testing.T) {
	ctx := context.Background()

	t.Run("absent id is a no-op", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateEmpty(ctx)
		snapshot := f.svc.Lists()

		f.svc.AddPhotos(ctx, "missing", photos("a"))
		f.svc.RemovePhotos(ctx, "missing", []string{"a"})
		f.svc.ReplacePhotos(ctx, "missing", photos("a"))
		f.svc.MarkUnmodified(ctx, "missing")
		require.NoError(t, f.svc.Rename(ctx, "missing", "x"))

		assert.Equal(t, snapshot, f.svc.Lists())
		l, _ := f.svc.Get(id)
		assert.Empty(t, l.Photos)
	})

	t.Run("other lists are untouched", func(t *testing.T) {
		f := newFixture(t, 10)
		a := f.svc.CreateEmpty(ctx)
		b := f.svc.CreateEmpty(ctx)
		before, _ := f.svc.Get(b)

		f.svc.AddPhotos(ctx, a, photos("x"))

		after, _ := f.svc.Get(b)
		assert.Equal(t, before, after)
	})

	t.Run("replace keeps modified flag", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateFromPhotos(ctx, photos("a"), "")
		f.svc.ReplacePhotos(ctx, id, photos("b", "c"))

		l, _ := f.svc.Get(id)
		assert.Equal(t, []string{"b", "c"}, models.Hothashes(l.Photos))
		assert.False(t, l.Modified)
	})

	t.Run("remove then mark unmodified", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateFromPhotos(ctx, photos("a", "b"), "")
		f.svc.RemovePhotos(ctx, id, []string{"a"})

		l, _ := f.svc.Get(id)
		assert.True(t, l.Modified)
		assert.Equal(t, 1, l.TotalCount)

		f.svc.MarkUnmodified(ctx, id)
		l, _ = f.svc.Get(id)
		assert.False(t, l.Modified)
	})

	t.Run("rename", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateEmpty(ctx)

		require.NoError(t, f.svc.Rename(ctx, id, "  Holiday "))
		l, _ := f.svc.Get(id)
		assert.Equal(t, "Holiday", l.Label)

		assert.ErrorIs(t, f.svc.Rename(ctx, id, " "), models.ErrListLabelRequired)
	})

	t.Run("returned copies do not leak", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateFromPhotos(ctx, photos("a"), "")
		l, _ := f.svc.Get(id)
		l.Photos[0].Hothash = "mutated"

		again, _ := f.svc.Get(id)
		assert.Equal(t, "a", again.Photos[0].Hothash)
	})
}

func TestListService_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("move keeps the union", func(t *testing.T) {
		f := newFixture(t, 10)
		from := f.svc.CreateFromPhotos(ctx, photos("a", "b", "c"), "")
		to := f.svc.CreateFromPhotos(ctx, photos("c", "d"), "")

		f.svc.MovePhotos(ctx, from, to, []string{"a", "c", "zzz"})

		src, _ := f.svc.Get(from)
		dst, _ := f.svc.Get(to)
		assert.Equal(t, []string{"b"}, models.Hothashes(src.Photos))
		assert.Equal(t, []string{"c", "d", "a"}, models.Hothashes(dst.Photos))
		assert.True(t, src.Modified)
		assert.True(t, dst.Modified)
	})

	t.Run("move to missing target keeps photos", func(t *testing.T) {
		f := newFixture(t, 10)
		from := f.svc.CreateFromPhotos(ctx, photos("a"), "")
		f.svc.MovePhotos(ctx, from, "missing", []string{"a"})

		src, _ := f.svc.Get(from)
		assert.Equal(t, []string{"a"}, models.Hothashes(src.Photos))
	})

	t.Run("move from missing source is a no-op", func(t *testing.T) {
		f := newFixture(t, 10)
		to := f.svc.CreateEmpty(ctx)
		f.svc.MovePhotos(ctx, "missing", to, []string{"a"})

		dst, _ := f.svc.Get(to)
		assert.Empty(t, dst.Photos)
		assert.False(t, dst.Modified)
	})

	t.Run("move onto itself is a no-op", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateFromPhotos(ctx, photos("a"), "")
		f.svc.MovePhotos(ctx, id, id, []string{"a"})

		l, _ := f.svc.Get(id)
		assert.Equal(t, []string{"a"}, models.Hothashes(l.Photos))
		assert.False(t, l.Modified)
	})

	t.Run("copy leaves source alone", func(t *testing.T) {
		f := newFixture(t, 10)
		from := f.svc.CreateFromPhotos(ctx, photos("a", "b"), "")
		to := f.svc.CreateEmpty(ctx)
		before, _ := f.svc.Get(from)

		f.svc.CopyPhotos(ctx, from, to, []string{"b"})

		after, _ := f.svc.Get(from)
		dst, _ := f.svc.Get(to)
		assert.Equal(t, before, after)
		assert.Equal(t, []string{"b"}, models.Hothashes(dst.Photos))
	})
}

func TestListService_LoadFromBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("from collection uses server count", func(t *testing.T) {
		f := newFixture(t, 10)
		f.backend.collections[7] = &models.Collection{ID: 7, Name: "Summer", PhotoCount: 1500}
		f.backend.photos[7] = photos("a", "b")

		id, err := f.svc.LoadFromCollection(ctx, 7)
		require.NoError(t, err)

		l, ok := f.svc.Get(id)
		require.True(t, ok)
		assert.Equal(t, "Summer", l.Label)
		assert.Equal(t, models.CollectionSource{ID: 7, Name: "Summer"}, l.Source)
		assert.Equal(t, 1500, l.TotalCount)
		assert.False(t, l.Modified)
		assert.Equal(t, DefaultPageSize, f.backend.lastLimit)
	})

	t.Run("from search", func(t *testing.T) {
		f := newFixture(t, 10)
		f.backend.search = &models.SearchResult{Items: photos("x", "y"), Total: 80}

		rating := 5
		criteria := models.SearchCriteria{RatingMin: &rating}
		id, err := f.svc.LoadFromSearch(ctx, criteria, "Five stars")
		require.NoError(t, err)

		l, _ := f.svc.Get(id)
		assert.Equal(t, "Five stars", l.Label)
		assert.Equal(t, 80, l.TotalCount)
		assert.Equal(t, models.SearchSource{Params: criteria, Description: "Five stars"}, l.Source)
	})

	t.Run("backend failure changes nothing", func(t *testing.T) {
		f := newFixture(t, 10)
		f.backend.failFetch = errors.New("network down")

		_, err := f.svc.LoadFromCollection(ctx, 7)
		assert.Error(t, err)
		_, err = f.svc.LoadFromSearch(ctx, models.SearchCriteria{}, "")
		assert.Error(t, err)

		assert.Empty(t, f.svc.Lists())
		assert.Empty(t, f.stored(t))
	})
}

func TestListService_SaveAsCollection(t *testing.T) {
	ctx := context.Background()

	t.Run("save transitions provenance", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateEmpty(ctx)
		f.svc.AddPhotos(ctx, id, photos("a", "b"))
		before, _ := f.svc.Get(id)

		desc := "desc"
		col, err := f.svc.SaveAsCollection(ctx, id, "Trip", &desc)
		require.NoError(t, err)
		assert.Equal(t, int64(42), col.ID)

		l, _ := f.svc.Get(id)
		assert.True(t, l.LastAccessedAt.After(before.LastAccessedAt))
		assert.Equal(t, models.CollectionSource{ID: 42, Name: "Trip"}, l.Source)
		assert.Equal(t, "Trip", l.Label)
		assert.False(t, l.Modified)
		assert.Equal(t, []string{"a", "b"}, f.backend.added[42])

		stored := f.stored(t)
		require.Len(t, stored, 1)
		assert.Equal(t, models.CollectionSource{ID: 42, Name: "Trip"}, stored[0].Source)
	})

	t.Run("empty list skips adding photos", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateEmpty(ctx)

		_, err := f.svc.SaveAsCollection(ctx, id, "Empty", nil)
		require.NoError(t, err)
		assert.Empty(t, f.backend.added)
	})

	t.Run("failure keeps the list dirty", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateFromPhotos(ctx, photos("a"), "")
		f.svc.AddPhotos(ctx, id, photos("b"))
		f.backend.failAdd = errors.New("boom")

		_, err := f.svc.SaveAsCollection(ctx, id, "Trip", nil)
		require.Error(t, err)

		l, _ := f.svc.Get(id)
		assert.True(t, l.Modified)
		assert.Equal(t, models.ManualSource{Number: 1}, l.Source)
	})

	t.Run("create failure", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateEmpty(ctx)
		f.backend.failCreate = errors.New("denied")

		_, err := f.svc.SaveAsCollection(ctx, id, "Trip", nil)
		assert.Error(t, err)
	})

	t.Run("unknown list", func(t *testing.T) {
		f := newFixture(t, 10)
		_, err := f.svc.SaveAsCollection(ctx, "missing", "Trip", nil)
		assert.ErrorIs(t, err, models.ErrListNotFound)
		assert.Empty(t, f.backend.created)
	})

	t.Run("name required", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateEmpty(ctx)
		_, err := f.svc.SaveAsCollection(ctx, id, "  ", nil)
		assert.ErrorIs(t, err, models.ErrListNameRequired)
	})
}

func TestListService_RefreshFromSource(t *testing.T) {
	ctx := context.Background()

	t.Run("collection list is replaced from server", func(t *testing.T) {
		f := newFixture(t, 10)
		f.backend.collections[7] = &models.Collection{ID: 7, Name: "Summer", PhotoCount: 2}
		f.backend.photos[7] = photos("a", "b")
		id, err := f.svc.LoadFromCollection(ctx, 7)
		require.NoError(t, err)
		f.svc.RemovePhotos(ctx, id, []string{"a"})

		f.backend.collections[7] = &models.Collection{ID: 7, Name: "Summer 2025", PhotoCount: 3}
		f.backend.photos[7] = photos("a", "b", "c")
		require.NoError(t, f.svc.RefreshFromSource(ctx, id))

		l, _ := f.svc.Get(id)
		assert.Equal(t, []string{"a", "b", "c"}, models.Hothashes(l.Photos))
		assert.Equal(t, 3, l.TotalCount)
		assert.False(t, l.Modified)
		assert.Equal(t, models.CollectionSource{ID: 7, Name: "Summer 2025"}, l.Source)
	})

	t.Run("search list keeps server total", func(t *testing.T) {
		f := newFixture(t, 10)
		f.backend.search = &models.SearchResult{Items: photos("x"), Total: 1}
		id, err := f.svc.LoadFromSearch(ctx, models.SearchCriteria{}, "s")
		require.NoError(t, err)

		f.backend.search = &models.SearchResult{Items: photos("x", "y"), Total: 5000}
		require.NoError(t, f.svc.RefreshFromSource(ctx, id))

		l, _ := f.svc.Get(id)
		assert.Equal(t, 5000, l.TotalCount)
	})

	t.Run("manual list cannot be refreshed", func(t *testing.T) {
		f := newFixture(t, 10)
		id := f.svc.CreateEmpty(ctx)
		assert.ErrorIs(t, f.svc.RefreshFromSource(ctx, id), models.ErrSourceNotRefreshable)
	})

	t.Run("backend failure leaves list", func(t *testing.T) {
		f := newFixture(t, 10)
		f.backend.search = &models.SearchResult{Items: photos("x"), Total: 1}
		id, err := f.svc.LoadFromSearch(ctx, models.SearchCriteria{}, "s")
		require.NoError(t, err)
		before, _ := f.svc.Get(id)

		f.backend.failFetch = errors.New("offline")
		assert.Error(t, f.svc.RefreshFromSource(ctx, id))

		after, _ := f.svc.Get(id)
		assert.Equal(t, before, after)
	})

	t.Run("unknown list", func(t *testing.T) {
		f := newFixture(t, 10)
		assert.ErrorIs(t, f.svc.RefreshFromSource(ctx, "missing"), models.ErrListNotFound)
	})
}

func TestListService_Persistence(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryStore()
	store := repository.NewListStore(kv, nil)

	first := NewListService(ctx, store, newStubBackend(), ListServiceConfig{Clock: tickingClock()})
	id := first.CreateFromPhotos(ctx, photos("a", "b"), "Keep")
	first.RemovePhotos(ctx, id, []string{"b"})

	second := NewListService(ctx, store, newStubBackend(), ListServiceConfig{})
	l, ok := second.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Keep", l.Label)
	assert.Equal(t, []string{"a"}, models.Hothashes(l.Photos))
	assert.True(t, l.Modified)
	assert.Empty(t, second.ActiveID())
}
