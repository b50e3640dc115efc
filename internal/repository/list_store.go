package repository

import (
	"context"
	"errors"
	"time"

	"github.com/photosync/photolist/internal/models"
	"github.com/photosync/photolist/internal/observability"
)

// StorageKey is the fixed key the whole list set is stored under
const StorageKey = "photolist.lists"

// ListStore persists the list set as one serialized record. Persistence is
// best effort: Save never fails the caller and Load falls back to an empty set.
type ListStore struct {
	kv      KVStore
	metrics *observability.ListMetrics
	logger  *observability.Logger
}

// NewListStore creates a list store over kv. metrics may be nil.
func NewListStore(kv KVStore, metrics *observability.ListMetrics) *ListStore {
	return &ListStore{
		kv:      kv,
		metrics: metrics,
		logger:  observability.GetLogger().WithField("component", "list_store"),
	}
}

// Save overwrites the stored set. Errors are logged and dropped.
func (s *ListStore) Save(ctx context.Context, lists []models.PhotoList) {
	ctx, span := observability.StartServiceSpan(ctx, "list_store", "save")
	defer span.End()

	start := time.Now()
	err := s.save(ctx, lists)
	s.metrics.RecordPersist(ctx, "save", time.Since(start), err)

	if err != nil {
		observability.RecordError(span, err)
		s.logger.WithContext(ctx).Errorf("failed to persist %d photo lists: %v", len(lists), err)
		return
	}
	observability.SetSuccess(span)
}

func (s *ListStore) save(ctx context.Context, lists []models.PhotoList) error {
	data, err := Serialize(lists)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, StorageKey, string(data))
}

// Load reads the stored set. Missing or unreadable data yields an empty set.
func (s *ListStore) Load(ctx context.Context) []models.PhotoList {
	ctx, span := observability.StartServiceSpan(ctx, "list_store", "load")
	defer span.End()

	start := time.Now()
	raw, err := s.kv.Get(ctx, StorageKey)
	if errors.Is(err, ErrKeyNotFound) {
		s.metrics.RecordPersist(ctx, "load", time.Since(start), nil)
		observability.SetSuccess(span)
		return []models.PhotoList{}
	}

	var lists []models.PhotoList
	if err == nil {
		lists, err = Deserialize([]byte(raw))
	}
	s.metrics.RecordPersist(ctx, "load", time.Since(start), err)

	if err != nil {
		observability.RecordError(span, err)
		s.logger.WithContext(ctx).Warnf("discarding stored photo lists: %v", err)
		return []models.PhotoList{}
	}

	observability.SetSuccess(span)
	s.logger.Debugf("loaded %d photo lists", len(lists))
	return lists
}
