package models

// Collection is a server-side photo collection as reported by the gallery backend
type Collection struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	PhotoCount  int     `json:"photo_count"`
}

// CreateCollectionRequest is the body sent to the backend to create a collection
type CreateCollectionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// AddPhotosToCollectionRequest is the body sent to the backend to add photos to a collection
type AddPhotosToCollectionRequest struct {
	Hothashes []string `json:"hothashes"`
}

// SearchResult is one page of a backend photo search
type SearchResult struct {
	Items []Photo
	Total int
}

// PaginationMeta is the meta block of a paginated backend response
type PaginationMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// PaginatedPhotos is the backend envelope for photo listings
type PaginatedPhotos struct {
	Data []Photo        `json:"data"`
	Meta PaginationMeta `json:"meta"`
}
