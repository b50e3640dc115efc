package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLabel(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 5, 9, 0, time.UTC)

	tests := []struct {
		name   string
		source Source
		want   string
	}{
		{"collection uses name", CollectionSource{ID: 4, Name: "Summer"}, "Summer"},
		{"saved search uses name", SavedSearchSource{ID: 2, Name: "Five stars"}, "Five stars"},
		{"import session uses name", ImportSessionSource{ID: 9, Name: "SD card"}, "SD card"},
		{"search uses description", SearchSource{Description: "Beach"}, "Beach"},
		{"search falls back to time", SearchSource{}, "Search result 14:05:09"},
		{"manual formats number", ManualSource{Number: 3}, "List 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultLabel(tt.source, now))
		})
	}
}

func TestSourceJSON(t *testing.T) {
	minRating := 3
	author := int64(11)

	t.Run("round trips every variant", func(t *testing.T) {
		sources := []Source{
			CollectionSource{ID: 42, Name: "Trip"},
			SearchSource{
				Params: SearchCriteria{
					TagIDs:     []int64{1, 2},
					RatingMin:  &minRating,
					AuthorID:   &author,
					TakenAfter: "2024-01-01",
				},
				Description: "Good ones",
			},
			SearchSource{},
			SavedSearchSource{ID: 5, Name: "Saved"},
			ImportSessionSource{ID: 6, Name: "Import"},
			ManualSource{Number: 2},
		}

		for _, src := range sources {
			data, err := MarshalSource(src)
			require.NoError(t, err)

			decoded, err := UnmarshalSource(data)
			require.NoError(t, err)
			assert.Equal(t, src, decoded)
		}
	})

	t.Run("writes tagged objects", func(t *testing.T) {
		data, err := MarshalSource(CollectionSource{ID: 42, Name: "Trip"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"collection","id":42,"name":"Trip"}`, string(data))

		data, err = MarshalSource(ManualSource{Number: 1})
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"manual","number":1}`, string(data))
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := UnmarshalSource([]byte(`{"type":"album","id":1}`))
		assert.ErrorIs(t, err, ErrInvalidSource)
	})

	t.Run("rejects collection without id", func(t *testing.T) {
		_, err := UnmarshalSource([]byte(`{"type":"collection","name":"x"}`))
		assert.ErrorIs(t, err, ErrInvalidSource)
	})

	t.Run("rejects nil source", func(t *testing.T) {
		_, err := MarshalSource(nil)
		assert.ErrorIs(t, err, ErrInvalidSource)
	})
}

func TestSearchCriteriaQueryValues(t *testing.T) {
	upper := 5
	c := SearchCriteria{
		SearchString: "fjord",
		TagIDs:       []int64{3, 8},
		RatingMax:    &upper,
		TakenBefore:  "2024-12-31",
		SortOrder:    "desc",
	}

	v := c.QueryValues()

	assert.Equal(t, "fjord", v.Get("search_string"))
	assert.Equal(t, []string{"3", "8"}, v["tag_ids"])
	assert.Equal(t, "5", v.Get("rating_max"))
	assert.Equal(t, "2024-12-31", v.Get("taken_before"))
	assert.Equal(t, "desc", v.Get("sort_order"))
	assert.False(t, v.Has("rating_min"))
	assert.False(t, v.Has("author_id"))
}
