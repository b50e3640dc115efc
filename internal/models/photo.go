package models

import (
	"strings"
	"time"
)

// TagSummary is the short tag form attached to photos by the gallery backend
type TagSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Photo is a photo record as returned by the gallery backend.
// Hothash is the content hash and identifies the photo everywhere.
type Photo struct {
	Hothash         string       `json:"hothash" validate:"required"`
	PrimaryFilename string       `json:"primary_filename,omitempty"`
	TakenAt         *time.Time   `json:"taken_at,omitempty"`
	CreatedAt       *time.Time   `json:"created_at,omitempty"`
	Width           int          `json:"width,omitempty"`
	Height          int          `json:"height,omitempty"`
	Rating          int          `json:"rating,omitempty"`
	Visibility      string       `json:"visibility,omitempty"`
	EventID         *int64       `json:"event_id,omitempty"`
	GPSLatitude     *float64     `json:"gps_latitude,omitempty"`
	GPSLongitude    *float64     `json:"gps_longitude,omitempty"`
	Tags            []TagSummary `json:"tags,omitempty"`
}

// Hothashes returns the identifiers of photos in order
func Hothashes(photos []Photo) []string {
	hashes := make([]string, 0, len(photos))
	for _, p := range photos {
		hashes = append(hashes, p.Hothash)
	}
	return hashes
}

// ValidatePhotos checks that every photo carries an identifier
func ValidatePhotos(photos []Photo) error {
	for _, p := range photos {
		if strings.TrimSpace(p.Hothash) == "" {
			return ErrEmptyHash
		}
	}
	return nil
}

// Errors
type PhotoError struct {
	Message string
}

func (e PhotoError) Error() string {
	return e.Message
}

var (
	ErrEmptyHash = PhotoError{"photo hothash cannot be empty"}
)
