package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/photosync/photolist/internal/backend"
	"github.com/photosync/photolist/internal/models"
	"github.com/photosync/photolist/internal/observability"
	"github.com/photosync/photolist/internal/repository"
)

// DefaultPageSize is how many photos are fetched when seeding a list from the backend
const DefaultPageSize = 1000

// ListServiceConfig holds the tunables and optional collaborators of a ListService
type ListServiceConfig struct {
	MaxLists int
	PageSize int
	Notifier ChangeNotifier
	Metrics  *observability.ListMetrics
	// Clock defaults to time.Now in UTC
	Clock func() time.Time
}

// ListService owns the in-memory list set, the active selection, persistence
// and backend synchronization. All mutations are serialized by mu; backend
// calls happen outside the lock and their result is committed in one step.
type ListService struct {
	mu       sync.RWMutex
	lists    []models.PhotoList
	activeID string

	store    *repository.ListStore
	backend  backend.Backend
	notifier ChangeNotifier
	metrics  *observability.ListMetrics
	maxLists int
	pageSize int
	now      func() time.Time
	logger   *observability.Logger
}

// NewListService loads the stored list set and trims it to capacity
func NewListService(ctx context.Context, store *repository.ListStore, be backend.Backend, cfg ListServiceConfig) *ListService {
	if cfg.MaxLists <= 0 {
		cfg.MaxLists = repository.DefaultMaxLists
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Clock == nil {
		cfg.Clock = func() time.Time { return time.Now().UTC() }
	}
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}

	s := &ListService{
		store:    store,
		backend:  be,
		notifier: cfg.Notifier,
		metrics:  cfg.Metrics,
		maxLists: cfg.MaxLists,
		pageSize: cfg.PageSize,
		now:      cfg.Clock,
		logger:   observability.GetLogger().WithField("component", "list_service"),
	}

	loaded := store.Load(ctx)
	kept, evicted := repository.EnforceCapacity(loaded, s.maxLists)
	s.lists = kept
	if len(evicted) > 0 {
		s.logger.Infof("dropped %d stored photo lists over capacity %d", len(evicted), s.maxLists)
		s.store.Save(ctx, kept)
	}
	s.logger.Infof("photo list cache ready with %d lists", len(kept))

	return s
}

// Capacity is the maximum number of lists kept
func (s *ListService) Capacity() int {
	return s.maxLists
}

// Lists returns a copy of every list in insertion order
func (s *ListService) Lists() []models.PhotoList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PhotoList, len(s.lists))
	for i, l := range s.lists {
		out[i] = l.Clone()
	}
	return out
}

// ActiveID returns the active list id, or "" when nothing is selected
func (s *ListService) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Get returns a copy of the list with the given id
func (s *ListService) Get(id string) (models.PhotoList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.lists, id); i >= 0 {
		return s.lists[i].Clone(), true
	}
	return models.PhotoList{}, false
}

// GetActive returns a copy of the active list
func (s *ListService) GetActive() (models.PhotoList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.activeID == "" {
		return models.PhotoList{}, false
	}
	if i := indexOf(s.lists, s.activeID); i >= 0 {
		return s.lists[i].Clone(), true
	}
	return models.PhotoList{}, false
}

// CreateEmpty inserts a new manual list labeled "List N" and returns its id
func (s *ListService) CreateEmpty(ctx context.Context) string {
	return s.createManual(ctx, nil, "")
}

// CreateFromPhotos inserts a new manual list holding photos. An empty label
// falls back to the "List N" default.
func (s *ListService) CreateFromPhotos(ctx context.Context, photos []models.Photo, label string) string {
	return s.createManual(ctx, photos, label)
}

func (s *ListService) createManual(ctx context.Context, photos []models.Photo, label string) string {
	var id string
	s.apply(ctx, func(lists []models.PhotoList, now time.Time) ([]models.PhotoList, []ChangeEvent, bool) {
		source := models.ManualSource{Number: countManual(lists) + 1}
		if strings.TrimSpace(label) == "" {
			label = models.DefaultLabel(source, now)
		}
		// NewPhotoList raises the total to the de-duplicated photo count
		l := models.NewPhotoList(label, source, photos, 0, now)
		id = l.ID
		return appendList(lists, l), []ChangeEvent{{Kind: ChangeCreated, ListID: id}}, true
	})
	s.metrics.RecordCreated(ctx, string(models.SourceManual))
	return id
}

// Delete removes a list. Deleting the active list clears the selection.
func (s *ListService) Delete(ctx context.Context, id string) {
	s.apply(ctx, func(lists []models.PhotoList, _ time.Time) ([]models.PhotoList, []ChangeEvent, bool) {
		i := indexOf(lists, id)
		if i < 0 {
			s.warnAbsent("delete", id)
			return nil, nil, false
		}
		next := make([]models.PhotoList, 0, len(lists)-1)
		next = append(next, lists[:i]...)
		next = append(next, lists[i+1:]...)

		events := []ChangeEvent{{Kind: ChangeDeleted, ListID: id}}
		if s.activeID == id {
			s.activeID = ""
			events = append(events, ChangeEvent{Kind: ChangeActive})
		}
		return next, events, true
	})
}

// SetActive selects a list and marks it accessed. An empty id clears the
// selection. An unknown id is ignored.
func (s *ListService) SetActive(ctx context.Context, id string) {
	if id == "" {
		s.mu.Lock()
		changed := s.activeID != ""
		s.activeID = ""
		s.mu.Unlock()
		if changed {
			s.notifier.NotifyListChanges([]ChangeEvent{{Kind: ChangeActive}})
		}
		return
	}

	s.apply(ctx, func(lists []models.PhotoList, now time.Time) ([]models.PhotoList, []ChangeEvent, bool) {
		i := indexOf(lists, id)
		if i < 0 {
			s.warnAbsent("set active", id)
			return nil, nil, false
		}
		s.activeID = id
		return replaceAt(lists, i, models.MarkAccessed(lists[i], now)),
			[]ChangeEvent{{Kind: ChangeActive, ListID: id}}, true
	})
}

// AddPhotos appends photos not already in the list
func (s *ListService) AddPhotos(ctx context.Context, id string, photos []models.Photo) {
	s.update(ctx, "add photos", id, func(l models.PhotoList, now time.Time) models.PhotoList {
		return models.AddPhotos(l, photos, now)
	})
}

// RemovePhotos drops photos by hothash
func (s *ListService) RemovePhotos(ctx context.Context, id string, hothashes []string) {
	s.update(ctx, "remove photos", id, func(l models.PhotoList, now time.Time) models.PhotoList {
		return models.RemovePhotos(l, hothashes, now)
	})
}

// ReplacePhotos swaps the list contents without touching the modified flag
func (s *ListService) ReplacePhotos(ctx context.Context, id string, photos []models.Photo) {
	s.update(ctx, "replace photos", id, func(l models.PhotoList, now time.Time) models.PhotoList {
		return models.ReplacePhotos(l, photos, now)
	})
}

// Rename changes a list label
func (s *ListService) Rename(ctx context.Context, id, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return models.ErrListLabelRequired
	}
	s.update(ctx, "rename", id, func(l models.PhotoList, _ time.Time) models.PhotoList {
		out := l.Clone()
		out.Label = label
		return out
	})
	return nil
}

// MarkUnmodified clears the dirty flag, e.g. after the user saved elsewhere
func (s *ListService) MarkUnmodified(ctx context.Context, id string) {
	s.update(ctx, "mark unmodified", id, func(l models.PhotoList, now time.Time) models.PhotoList {
		return models.MarkModified(l, false, now)
	})
}

// MovePhotos removes the photos from one list and adds them to another as a
// single state change. Nothing happens unless both lists exist and differ.
func (s *ListService) MovePhotos(ctx context.Context, fromID, toID string, hothashes []string) {
	s.transfer(ctx, "move photos", fromID, toID, hothashes, true)
}

// CopyPhotos adds photos of one list to another, leaving the first untouched
func (s *ListService) CopyPhotos(ctx context.Context, fromID, toID string, hothashes []string) {
	s.transfer(ctx, "copy photos", fromID, toID, hothashes, false)
}

func (s *ListService) transfer(ctx context.Context, op, fromID, toID string, hothashes []string, removeFromSource bool) {
	if fromID == toID {
		s.logger.Debugf("%s: source and target are both %s", op, fromID)
		return
	}

	s.apply(ctx, func(lists []models.PhotoList, now time.Time) ([]models.PhotoList, []ChangeEvent, bool) {
		fi := indexOf(lists, fromID)
		if fi < 0 {
			s.warnAbsent(op, fromID)
			return nil, nil, false
		}
		ti := indexOf(lists, toID)
		if ti < 0 {
			s.warnAbsent(op, toID)
			return nil, nil, false
		}

		selected := lists[fi].SelectPhotos(hothashes)
		next := replaceAt(lists, ti, models.AddPhotos(lists[ti], selected, now))
		events := []ChangeEvent{{Kind: ChangeUpdated, ListID: toID}}
		if removeFromSource {
			next[fi] = models.RemovePhotos(lists[fi], hothashes, now)
			events = append(events, ChangeEvent{Kind: ChangeUpdated, ListID: fromID})
		}
		return next, events, true
	})
}

// LoadFromCollection fetches a server collection and inserts it as a new list.
// The list total is the collection's photo count, which may exceed one page.
func (s *ListService) LoadFromCollection(ctx context.Context, collectionID int64) (string, error) {
	ctx, span := observability.StartServiceSpan(ctx, "list_service", "load_from_collection")
	defer span.End()
	span.SetAttributes(observability.CollectionID(collectionID))

	col, photos, err := s.fetchCollection(ctx, collectionID)
	s.metrics.RecordBackendCall(ctx, "load_from_collection", err)
	if err != nil {
		observability.RecordError(span, err)
		return "", err
	}

	source := models.CollectionSource{ID: col.ID, Name: col.Name}
	id := s.insert(ctx, source, photos, col.PhotoCount)
	span.SetAttributes(observability.ListID(id), observability.PhotoCount(len(photos)))
	observability.SetSuccess(span)
	return id, nil
}

// LoadFromSearch runs a search and inserts the first page as a new list
func (s *ListService) LoadFromSearch(ctx context.Context, criteria models.SearchCriteria, description string) (string, error) {
	ctx, span := observability.StartServiceSpan(ctx, "list_service", "load_from_search")
	defer span.End()

	res, err := s.backend.SearchPhotos(ctx, criteria, 0, s.pageSize)
	s.metrics.RecordBackendCall(ctx, "load_from_search", err)
	if err != nil {
		observability.RecordError(span, err)
		return "", fmt.Errorf("search photos: %w", err)
	}

	source := models.SearchSource{Params: criteria, Description: description}
	id := s.insert(ctx, source, res.Items, res.Total)
	span.SetAttributes(observability.ListID(id), observability.PhotoCount(len(res.Items)))
	observability.SetSuccess(span)
	return id, nil
}

func (s *ListService) fetchCollection(ctx context.Context, collectionID int64) (*models.Collection, []models.Photo, error) {
	col, err := s.backend.FetchCollection(ctx, collectionID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch collection %d: %w", collectionID, err)
	}
	photos, err := s.backend.FetchCollectionPhotos(ctx, collectionID, 0, s.pageSize)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch photos of collection %d: %w", collectionID, err)
	}
	return col, photos, nil
}

// insert commits a new list seeded from the backend
func (s *ListService) insert(ctx context.Context, source models.Source, photos []models.Photo, total int) string {
	var id string
	s.apply(ctx, func(lists []models.PhotoList, now time.Time) ([]models.PhotoList, []ChangeEvent, bool) {
		l := models.NewPhotoList(models.DefaultLabel(source, now), source, photos, total, now)
		id = l.ID
		return appendList(lists, l), []ChangeEvent{{Kind: ChangeCreated, ListID: id}}, true
	})
	s.metrics.RecordCreated(ctx, string(source.Kind()))
	return id
}

// SaveAsCollection creates a server collection holding the list's photos and
// turns the list into a clean copy of it. On failure the list is left as is.
func (s *ListService) SaveAsCollection(ctx context.Context, id, name string, description *string) (*models.Collection, error) {
	ctx, span := observability.StartServiceSpan(ctx, "list_service", "save_as_collection")
	defer span.End()
	span.SetAttributes(observability.ListID(id))

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrListNameRequired
	}

	list, ok := s.Get(id)
	if !ok {
		return nil, models.ErrListNotFound
	}
	hothashes := models.Hothashes(list.Photos)

	col, err := s.publish(ctx, name, description, hothashes)
	s.metrics.RecordBackendCall(ctx, "save_as_collection", err)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	committed := s.apply(ctx, func(lists []models.PhotoList, now time.Time) ([]models.PhotoList, []ChangeEvent, bool) {
		i := indexOf(lists, id)
		if i < 0 {
			return nil, nil, false
		}
		saved := lists[i].Clone()
		saved.Label = name
		saved.Source = models.CollectionSource{ID: col.ID, Name: name}
		saved.Modified = false
		saved.LastAccessedAt = now
		return replaceAt(lists, i, saved), []ChangeEvent{{Kind: ChangeUpdated, ListID: id}}, true
	})
	if !committed {
		s.logger.WithContext(ctx).Warnf("list %s vanished while saving; collection %d was created", id, col.ID)
	}

	span.SetAttributes(observability.CollectionID(col.ID), observability.PhotoCount(len(hothashes)))
	observability.SetSuccess(span)
	return col, nil
}

func (s *ListService) publish(ctx context.Context, name string, description *string, hothashes []string) (*models.Collection, error) {
	col, err := s.backend.CreateCollection(ctx, name, description)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	if len(hothashes) == 0 {
		return col, nil
	}
	if err := s.backend.AddPhotosToCollection(ctx, col.ID, hothashes); err != nil {
		s.logger.WithContext(ctx).Errorf("collection %d created but adding %d photos failed: %v", col.ID, len(hothashes), err)
		return nil, fmt.Errorf("add photos to collection %d: %w", col.ID, err)
	}
	return col, nil
}

// RefreshFromSource re-fetches a collection or search list from the backend
// and replaces its photos. The list is clean afterwards.
func (s *ListService) RefreshFromSource(ctx context.Context, id string) error {
	ctx, span := observability.StartServiceSpan(ctx, "list_service", "refresh_from_source")
	defer span.End()
	span.SetAttributes(observability.ListID(id))

	list, ok := s.Get(id)
	if !ok {
		return models.ErrListNotFound
	}

	r := &refresher{svc: s}
	list.Source.Accept(r)
	if r.fetch == nil {
		return models.ErrSourceNotRefreshable
	}

	source, photos, total, err := r.fetch(ctx)
	s.metrics.RecordBackendCall(ctx, "refresh_from_source", err)
	if err != nil {
		observability.RecordError(span, err)
		return err
	}

	s.update(ctx, "refresh", id, func(l models.PhotoList, now time.Time) models.PhotoList {
		out := models.ReplacePhotos(l, photos, now)
		if total > out.TotalCount {
			out.TotalCount = total
		}
		out.Source = source
		out.Modified = false
		return out
	})

	observability.SetSuccess(span)
	return nil
}

type refreshFunc func(ctx context.Context) (models.Source, []models.Photo, int, error)

// refresher picks the backend query that reproduces a list's source
type refresher struct {
	svc   *ListService
	fetch refreshFunc
}

func (r *refresher) VisitCollection(src models.CollectionSource) {
	r.fetch = func(ctx context.Context) (models.Source, []models.Photo, int, error) {
		col, photos, err := r.svc.fetchCollection(ctx, src.ID)
		if err != nil {
			return nil, nil, 0, err
		}
		return models.CollectionSource{ID: col.ID, Name: col.Name}, photos, col.PhotoCount, nil
	}
}

func (r *refresher) VisitSearch(src models.SearchSource) {
	r.fetch = func(ctx context.Context) (models.Source, []models.Photo, int, error) {
		res, err := r.svc.backend.SearchPhotos(ctx, src.Params, 0, r.svc.pageSize)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("search photos: %w", err)
		}
		return src, res.Items, res.Total, nil
	}
}

// Saved searches and import sessions are not reachable through Backend yet
func (r *refresher) VisitSavedSearch(models.SavedSearchSource)     {}
func (r *refresher) VisitImportSession(models.ImportSessionSource) {}
func (r *refresher) VisitManual(models.ManualSource)               {}

// update applies fn to one list. An unknown id is logged and ignored.
func (s *ListService) update(ctx context.Context, op, id string, fn func(models.PhotoList, time.Time) models.PhotoList) {
	s.apply(ctx, func(lists []models.PhotoList, now time.Time) ([]models.PhotoList, []ChangeEvent, bool) {
		i := indexOf(lists, id)
		if i < 0 {
			s.warnAbsent(op, id)
			return nil, nil, false
		}
		return replaceAt(lists, i, fn(lists[i], now)), []ChangeEvent{{Kind: ChangeUpdated, ListID: id}}, true
	})
}

// apply runs fn under the write lock. When fn reports a change, the new set
// is trimmed to capacity, committed and persisted before the lock is
// released. Listeners are notified afterwards.
func (s *ListService) apply(ctx context.Context, fn func(lists []models.PhotoList, now time.Time) ([]models.PhotoList, []ChangeEvent, bool)) bool {
	s.mu.Lock()
	next, events, ok := fn(s.lists, s.now())
	if ok {
		events = s.commitLocked(ctx, next, events)
	}
	s.mu.Unlock()

	if len(events) > 0 {
		s.notifier.NotifyListChanges(events)
	}
	return ok
}

func (s *ListService) commitLocked(ctx context.Context, next []models.PhotoList, events []ChangeEvent) []ChangeEvent {
	kept, evicted := repository.EnforceCapacity(next, s.maxLists)

	for _, l := range evicted {
		s.logger.Infof("evicted photo list %s (%q), last accessed %s", l.ID, l.Label, l.LastAccessedAt.Format(time.RFC3339))
		events = append(events, ChangeEvent{Kind: ChangeEvicted, ListID: l.ID})
		if l.ID == s.activeID {
			s.activeID = ""
			events = append(events, ChangeEvent{Kind: ChangeActive})
		}
	}
	s.metrics.RecordEvicted(ctx, len(evicted))

	s.lists = kept
	s.store.Save(ctx, kept)
	return events
}

func (s *ListService) warnAbsent(op, id string) {
	s.logger.Warnf("%s: photo list %s not found", op, id)
}

func indexOf(lists []models.PhotoList, id string) int {
	for i := range lists {
		if lists[i].ID == id {
			return i
		}
	}
	return -1
}

func countManual(lists []models.PhotoList) int {
	n := 0
	for _, l := range lists {
		if l.Source != nil && l.Source.Kind() == models.SourceManual {
			n++
		}
	}
	return n
}

// appendList returns a new slice so the committed set is never aliased
func appendList(lists []models.PhotoList, l models.PhotoList) []models.PhotoList {
	next := make([]models.PhotoList, 0, len(lists)+1)
	next = append(next, lists...)
	return append(next, l)
}

func replaceAt(lists []models.PhotoList, i int, l models.PhotoList) []models.PhotoList {
	next := make([]models.PhotoList, len(lists))
	copy(next, lists)
	next[i] = l
	return next
}
