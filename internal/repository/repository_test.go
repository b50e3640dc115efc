package repository

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photosync/photolist/internal/models"
	"github.com/photosync/photolist/internal/observability"
)

var base = time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

func listAt(label string, accessed time.Time, hashes ...string) models.PhotoList {
	photos := make([]models.Photo, len(hashes))
	for i, h := range hashes {
		photos[i] = models.Photo{Hothash: h}
	}
	l := models.NewPhotoList(label, models.ManualSource{Number: 1}, photos, 0, base)
	l.LastAccessedAt = accessed
	return l
}

func labels(lists []models.PhotoList) []string {
	out := make([]string, len(lists))
	for i, l := range lists {
		out[i] = l.Label
	}
	return out
}

// failingStore fails every call
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("storage unavailable")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("quota exceeded") }
func (failingStore) Close() error                              { return nil }

func TestSerializeRoundTrip(t *testing.T) {
	rating := 4
	taken := time.Date(2023, 7, 4, 12, 30, 0, 0, time.UTC)

	collection := models.NewPhotoList("Trip", models.CollectionSource{ID: 42, Name: "Trip"},
		[]models.Photo{{Hothash: "a", TakenAt: &taken, Tags: []models.TagSummary{{ID: 1, Name: "sea"}}}}, 120, base)
	search := models.NewPhotoList("Best", models.SearchSource{
		Params:      models.SearchCriteria{RatingMin: &rating, TagIDs: []int64{5}},
		Description: "Best",
	}, nil, 0, base.Add(time.Hour))
	search = models.AddPhotos(search, []models.Photo{{Hothash: "z"}}, base.Add(2*time.Hour))

	in := []models.PhotoList{collection, search}

	data, err := Serialize(in)
	require.NoError(t, err)

	out, err := Deserialize(data)
	require.NoError(t, err)
	require.Len(t, out, 2)

	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Label, out[i].Label)
		assert.Equal(t, in[i].Source, out[i].Source)
		assert.Equal(t, in[i].TotalCount, out[i].TotalCount)
		assert.Equal(t, in[i].Modified, out[i].Modified)
		assert.Equal(t, models.Hothashes(in[i].Photos), models.Hothashes(out[i].Photos))
		assert.WithinDuration(t, in[i].CreatedAt, out[i].CreatedAt, time.Second)
		assert.WithinDuration(t, in[i].LastAccessedAt, out[i].LastAccessedAt, time.Second)
	}
	require.NotNil(t, out[0].Photos[0].TakenAt)
	assert.True(t, taken.Equal(*out[0].Photos[0].TakenAt))
	assert.Equal(t, in[0].Photos[0].Tags, out[0].Photos[0].Tags)
}

func TestSerializeEmpty(t *testing.T) {
	data, err := Serialize(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	out, err := Deserialize(data)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestDeserializeRejectsCorruptData(t *testing.T) {
	t.Run("not json", func(t *testing.T) {
		_, err := Deserialize([]byte("{not json"))
		assert.Error(t, err)
	})

	t.Run("unknown source type", func(t *testing.T) {
		raw := `[{"id":"x","label":"x","photos":[],"totalCount":0,"source":{"type":"album"},
			"modified":false,"createdAt":"2025-01-01T00:00:00Z","lastAccessedAt":"2025-01-01T00:00:00Z"}]`
		_, err := Deserialize([]byte(raw))
		assert.ErrorIs(t, err, models.ErrInvalidSource)
	})
}

func TestEnforceCapacity(t *testing.T) {
	t.Run("under capacity is unchanged", func(t *testing.T) {
		in := []models.PhotoList{listAt("a", base), listAt("b", base)}
		kept, evicted := EnforceCapacity(in, 2)
		assert.Equal(t, in, kept)
		assert.Empty(t, evicted)
	})

	t.Run("evicts least recently accessed", func(t *testing.T) {
		in := []models.PhotoList{
			listAt("old", base),
			listAt("newest", base.Add(3*time.Minute)),
			listAt("middle", base.Add(time.Minute)),
			listAt("newer", base.Add(2*time.Minute)),
		}
		kept, evicted := EnforceCapacity(in, 2)

		assert.Equal(t, []string{"newest", "newer"}, labels(kept))
		assert.Equal(t, []string{"old", "middle"}, labels(evicted))
	})

	t.Run("ties evict the earlier entry", func(t *testing.T) {
		in := []models.PhotoList{listAt("L1", base), listAt("L2", base), listAt("L3", base)}
		kept, evicted := EnforceCapacity(in, 2)

		assert.Equal(t, []string{"L2", "L3"}, labels(kept))
		assert.Equal(t, []string{"L1"}, labels(evicted))
	})

	t.Run("limit below one keeps one", func(t *testing.T) {
		in := []models.PhotoList{listAt("a", base), listAt("b", base.Add(time.Second))}
		kept, _ := EnforceCapacity(in, 0)
		assert.Equal(t, []string{"b"}, labels(kept))
	})
}

func TestListStore(t *testing.T) {
	ctx := context.Background()

	t.Run("load from empty store", func(t *testing.T) {
		s := NewListStore(NewMemoryStore(), nil)
		lists := s.Load(ctx)
		assert.NotNil(t, lists)
		assert.Empty(t, lists)
	})

	t.Run("save then load", func(t *testing.T) {
		kv := NewMemoryStore()
		s := NewListStore(kv, nil)

		in := []models.PhotoList{listAt("a", base, "h1", "h2"), listAt("b", base)}
		s.Save(ctx, in)

		raw, err := kv.Get(ctx, StorageKey)
		require.NoError(t, err)
		assert.Contains(t, raw, `"label":"a"`)

		out := s.Load(ctx)
		assert.Equal(t, []string{"a", "b"}, labels(out))
		assert.Equal(t, []string{"h1", "h2"}, models.Hothashes(out[0].Photos))
	})

	t.Run("corrupt data loads as empty", func(t *testing.T) {
		kv := NewMemoryStore()
		require.NoError(t, kv.Set(ctx, StorageKey, "[{garbage"))

		assert.Empty(t, NewListStore(kv, nil).Load(ctx))
	})

	t.Run("store failures are swallowed and logged", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewListStore(failingStore{}, nil)
		s.logger = observability.NewLogger("test", observability.LevelDebug)
		s.logger.SetOutput(&buf)

		assert.NotPanics(t, func() { s.Save(ctx, []models.PhotoList{listAt("a", base)}) })
		assert.Contains(t, buf.String(), "quota exceeded")

		assert.Empty(t, s.Load(ctx))
		assert.Contains(t, buf.String(), "storage unavailable")
	})
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	dir, err := os.MkdirTemp("", "photolist-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "lists.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k", "one"))
		require.NoError(t, store.Set(ctx, "k", "two"))

		v, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "two", v)
	})

	t.Run("list set survives reopen", func(t *testing.T) {
		NewListStore(store, nil).Save(ctx, []models.PhotoList{listAt("kept", base, "x")})
		require.NoError(t, store.Close())

		reopened, err := NewSQLiteStore(path)
		require.NoError(t, err)
		defer reopened.Close()

		out := NewListStore(reopened, nil).Load(ctx)
		require.Len(t, out, 1)
		assert.Equal(t, "kept", out[0].Label)
		assert.Equal(t, []string{"x"}, models.Hothashes(out[0].Photos))
	})
}
