package models

import (
	"net/url"
	"strconv"
)

// SearchCriteria is a snapshot of the photo search filters used to build a list.
// Empty fields are not sent to the backend.
type SearchCriteria struct {
	SearchString string  `json:"search_string,omitempty"`
	TagIDs       []int64 `json:"tag_ids,omitempty"`
	AuthorID     *int64  `json:"author_id,omitempty"`
	RatingMin    *int    `json:"rating_min,omitempty" validate:"omitempty,min=0,max=5"`
	RatingMax    *int    `json:"rating_max,omitempty" validate:"omitempty,min=0,max=5"`
	TakenAfter   string  `json:"taken_after,omitempty"`
	TakenBefore  string  `json:"taken_before,omitempty"`
	SortBy       string  `json:"sort_by,omitempty"`
	SortOrder    string  `json:"sort_order,omitempty" validate:"omitempty,oneof=asc desc"`
}

// QueryValues encodes the criteria as URL query parameters
func (c SearchCriteria) QueryValues() url.Values {
	v := url.Values{}
	if c.SearchString != "" {
		v.Set("search_string", c.SearchString)
	}
	for _, id := range c.TagIDs {
		v.Add("tag_ids", strconv.FormatInt(id, 10))
	}
	if c.AuthorID != nil {
		v.Set("author_id", strconv.FormatInt(*c.AuthorID, 10))
	}
	if c.RatingMin != nil {
		v.Set("rating_min", strconv.Itoa(*c.RatingMin))
	}
	if c.RatingMax != nil {
		v.Set("rating_max", strconv.Itoa(*c.RatingMax))
	}
	if c.TakenAfter != "" {
		v.Set("taken_after", c.TakenAfter)
	}
	if c.TakenBefore != "" {
		v.Set("taken_before", c.TakenBefore)
	}
	if c.SortBy != "" {
		v.Set("sort_by", c.SortBy)
	}
	if c.SortOrder != "" {
		v.Set("sort_order", c.SortOrder)
	}
	return v
}

// clone returns a copy that shares no slices or pointers with c
func (c SearchCriteria) clone() SearchCriteria {
	out := c
	if c.TagIDs != nil {
		out.TagIDs = append([]int64(nil), c.TagIDs...)
	}
	if c.AuthorID != nil {
		id := *c.AuthorID
		out.AuthorID = &id
	}
	if c.RatingMin != nil {
		r := *c.RatingMin
		out.RatingMin = &r
	}
	if c.RatingMax != nil {
		r := *c.RatingMax
		out.RatingMax = &r
	}
	return out
}
