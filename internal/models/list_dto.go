package models

// CreateListRequest creates an empty list, or one pre-filled with photos
type CreateListRequest struct {
	Label  string  `json:"label,omitempty" validate:"max=200"`
	Photos []Photo `json:"photos,omitempty" validate:"dive"`
}

// RenameListRequest changes a list label
type RenameListRequest struct {
	Label string `json:"label" validate:"required,max=200"`
}

// SetActiveRequest selects the active list; a null id clears the selection
type SetActiveRequest struct {
	ID *string `json:"id"`
}

// PhotosRequest carries photos to add or to replace a list's contents with
type PhotosRequest struct {
	Photos []Photo `json:"photos" validate:"dive"`
}

// RemovePhotosRequest removes photos by hothash
type RemovePhotosRequest struct {
	Hothashes []string `json:"hothashes" validate:"dive,required"`
}

// TransferPhotosRequest moves or copies photos to another list
type TransferPhotosRequest struct {
	ToID      string   `json:"toId" validate:"required"`
	Hothashes []string `json:"hothashes" validate:"dive,required"`
}

// LoadFromSearchRequest builds a list from a backend search
type LoadFromSearchRequest struct {
	Criteria    SearchCriteria `json:"criteria"`
	Description string         `json:"description,omitempty" validate:"max=200"`
}

// SaveAsCollectionRequest publishes a list as a new server collection
type SaveAsCollectionRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description,omitempty"`
}

// ListCreatedResponse is returned by every operation that inserts a list
type ListCreatedResponse struct {
	ID string `json:"id"`
}

// ListsResponse is the full cache state
type ListsResponse struct {
	Lists    []PhotoList `json:"lists"`
	ActiveID *string     `json:"activeId"`
	Capacity int         `json:"capacity"`
}

// SaveAsCollectionResponse reports the collection created on the server
type SaveAsCollectionResponse struct {
	Collection *Collection `json:"collection"`
	List       *PhotoList  `json:"list,omitempty"`
}
