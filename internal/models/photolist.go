package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PhotoList is a named, ordered, de-duplicated set of photos kept by the
// client-side list cache.
type PhotoList struct {
	ID             string
	Label          string
	Photos         []Photo
	TotalCount     int
	Source         Source
	Modified       bool
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// NewPhotoList creates a clean list with a fresh id. Repeated hothashes are
// dropped, first occurrence wins. A totalCount below the number of photos is
// raised to it.
func NewPhotoList(label string, source Source, photos []Photo, totalCount int, now time.Time) PhotoList {
	owned := uniquePhotos(photos)
	if totalCount < len(owned) {
		totalCount = len(owned)
	}
	return PhotoList{
		ID:             uuid.New().String(),
		Label:          label,
		Photos:         owned,
		TotalCount:     totalCount,
		Source:         source,
		Modified:       false,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

// Clone returns a deep copy of the list
func (l PhotoList) Clone() PhotoList {
	out := l
	out.Photos = clonePhotos(l.Photos)
	out.Source = cloneSource(l.Source)
	return out
}

// Contains reports whether a photo with the given hothash is in the list
func (l PhotoList) Contains(hothash string) bool {
	for _, p := range l.Photos {
		if p.Hothash == hothash {
			return true
		}
	}
	return false
}

// SelectPhotos returns the photos whose hothash is in hothashes, in list order
func (l PhotoList) SelectPhotos(hothashes []string) []Photo {
	wanted := make(map[string]struct{}, len(hothashes))
	for _, h := range hothashes {
		wanted[h] = struct{}{}
	}
	selected := make([]Photo, 0, len(hothashes))
	for _, p := range l.Photos {
		if _, ok := wanted[p.Hothash]; ok {
			selected = append(selected, p)
		}
	}
	return selected
}

func clonePhotos(photos []Photo) []Photo {
	out := make([]Photo, len(photos))
	copy(out, photos)
	for i := range out {
		if photos[i].Tags != nil {
			out[i].Tags = append([]TagSummary(nil), photos[i].Tags...)
		}
	}
	return out
}

// uniquePhotos copies photos, skipping any hothash already seen
func uniquePhotos(photos []Photo) []Photo {
	seen := make(map[string]struct{}, len(photos))
	out := make([]Photo, 0, len(photos))
	for _, p := range photos {
		if _, ok := seen[p.Hothash]; ok {
			continue
		}
		seen[p.Hothash] = struct{}{}
		out = append(out, p)
	}
	return clonePhotos(out)
}

func cloneSource(s Source) Source {
	if ss, ok := s.(SearchSource); ok {
		ss.Params = ss.Params.clone()
		return ss
	}
	return s
}

// photoListWire is the serialized shape of a list. Timestamps are ISO-8601 strings.
type photoListWire struct {
	ID             string          `json:"id"`
	Label          string          `json:"label"`
	Photos         []Photo         `json:"photos"`
	TotalCount     int             `json:"totalCount"`
	Source         json.RawMessage `json:"source"`
	Modified       bool            `json:"modified"`
	CreatedAt      string          `json:"createdAt"`
	LastAccessedAt string          `json:"lastAccessedAt"`
}

// MarshalJSON implements json.Marshaler
func (l PhotoList) MarshalJSON() ([]byte, error) {
	src, err := MarshalSource(l.Source)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", l.ID, err)
	}
	photos := l.Photos
	if photos == nil {
		photos = []Photo{}
	}
	return json.Marshal(photoListWire{
		ID:             l.ID,
		Label:          l.Label,
		Photos:         photos,
		TotalCount:     l.TotalCount,
		Source:         src,
		Modified:       l.Modified,
		CreatedAt:      l.CreatedAt.UTC().Format(time.RFC3339Nano),
		LastAccessedAt: l.LastAccessedAt.UTC().Format(time.RFC3339Nano),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (l *PhotoList) UnmarshalJSON(data []byte) error {
	var w photoListWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if strings.TrimSpace(w.ID) == "" {
		return ErrListIDRequired
	}

	src, err := UnmarshalSource(w.Source)
	if err != nil {
		return fmt.Errorf("list %s: %w", w.ID, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("list %s: createdAt: %w", w.ID, err)
	}
	accessedAt, err := time.Parse(time.RFC3339Nano, w.LastAccessedAt)
	if err != nil {
		return fmt.Errorf("list %s: lastAccessedAt: %w", w.ID, err)
	}

	photos := w.Photos
	if photos == nil {
		photos = []Photo{}
	}
	total := w.TotalCount
	if total < len(photos) {
		total = len(photos)
	}

	*l = PhotoList{
		ID:             w.ID,
		Label:          w.Label,
		Photos:         photos,
		TotalCount:     total,
		Source:         src,
		Modified:       w.Modified,
		CreatedAt:      createdAt,
		LastAccessedAt: accessedAt,
	}
	return nil
}

// List errors
type ListError struct {
	Message string
}

func (e ListError) Error() string {
	return e.Message
}

var (
	ErrListNotFound         = ListError{"photo list not found"}
	ErrListIDRequired       = ListError{"photo list id is required"}
	ErrListLabelRequired    = ListError{"photo list label is required"}
	ErrListNameRequired     = ListError{"collection name is required"}
	ErrInvalidSource        = ListError{"invalid photo list source"}
	ErrSourceNotRefreshable = ListError{"photo list source cannot be refreshed"}
)
