package repository

import (
	"encoding/json"
	"fmt"

	"github.com/photosync/photolist/internal/models"
)

// Serialize encodes the list set as a JSON array of list records
func Serialize(lists []models.PhotoList) ([]byte, error) {
	if lists == nil {
		lists = []models.PhotoList{}
	}
	data, err := json.Marshal(lists)
	if err != nil {
		return nil, fmt.Errorf("serialize photo lists: %w", err)
	}
	return data, nil
}

// Deserialize decodes what Serialize wrote. A single malformed record fails
// the whole set.
func Deserialize(data []byte) ([]models.PhotoList, error) {
	var lists []models.PhotoList
	if err := json.Unmarshal(data, &lists); err != nil {
		return nil, fmt.Errorf("deserialize photo lists: %w", err)
	}
	if lists == nil {
		lists = []models.PhotoList{}
	}
	return lists, nil
}
