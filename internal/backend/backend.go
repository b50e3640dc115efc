// Package backend talks to the gallery REST API that owns photos and collections.
package backend

import (
	"context"

	"github.com/photosync/photolist/internal/models"
)

// Backend is the subset of the gallery API the list cache depends on
type Backend interface {
	FetchCollection(ctx context.Context, id int64) (*models.Collection, error)
	FetchCollectionPhotos(ctx context.Context, id int64, offset, limit int) ([]models.Photo, error)
	SearchPhotos(ctx context.Context, criteria models.SearchCriteria, offset, limit int) (*models.SearchResult, error)
	CreateCollection(ctx context.Context, name string, description *string) (*models.Collection, error)
	AddPhotosToCollection(ctx context.Context, id int64, hothashes []string) error
}
