package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SourceKind is the wire tag of a list source
type SourceKind string

const (
	SourceCollection    SourceKind = "collection"
	SourceSearch        SourceKind = "search"
	SourceSavedSearch   SourceKind = "saved-search"
	SourceImportSession SourceKind = "import-session"
	SourceManual        SourceKind = "manual"
)

// Source describes where the photos of a list came from.
// The set of variants is closed: only the types in this file implement it.
type Source interface {
	Kind() SourceKind
	Accept(v SourceVisitor)
	isSource()
}

// SourceVisitor handles every source variant. Adding a variant adds a
// method here, so every visitor stops compiling until it handles it.
type SourceVisitor interface {
	VisitCollection(s CollectionSource)
	VisitSearch(s SearchSource)
	VisitSavedSearch(s SavedSearchSource)
	VisitImportSession(s ImportSessionSource)
	VisitManual(s ManualSource)
}

// CollectionSource is a server collection
type CollectionSource struct {
	ID   int64
	Name string
}

// SearchSource is the result of running a photo search
type SearchSource struct {
	Params      SearchCriteria
	Description string
}

// SavedSearchSource is a saved search stored on the server
type SavedSearchSource struct {
	ID   int64
	Name string
}

// ImportSessionSource is the photo set of one import session
type ImportSessionSource struct {
	ID   int64
	Name string
}

// ManualSource is a hand-built selection; Number feeds the default label
type ManualSource struct {
	Number int
}

func (CollectionSource) Kind() SourceKind    { return SourceCollection }
func (SearchSource) Kind() SourceKind        { return SourceSearch }
func (SavedSearchSource) Kind() SourceKind   { return SourceSavedSearch }
func (ImportSessionSource) Kind() SourceKind { return SourceImportSession }
func (ManualSource) Kind() SourceKind        { return SourceManual }

func (s CollectionSource) Accept(v SourceVisitor)    { v.VisitCollection(s) }
func (s SearchSource) Accept(v SourceVisitor)        { v.VisitSearch(s) }
func (s SavedSearchSource) Accept(v SourceVisitor)   { v.VisitSavedSearch(s) }
func (s ImportSessionSource) Accept(v SourceVisitor) { v.VisitImportSession(s) }
func (s ManualSource) Accept(v SourceVisitor)        { v.VisitManual(s) }

func (CollectionSource) isSource()    {}
func (SearchSource) isSource()        {}
func (SavedSearchSource) isSource()   {}
func (ImportSessionSource) isSource() {}
func (ManualSource) isSource()        {}

// labeler builds the default display label for a source
type labeler struct {
	now   time.Time
	label string
}

func (l *labeler) VisitCollection(s CollectionSource)       { l.label = s.Name }
func (l *labeler) VisitSavedSearch(s SavedSearchSource)     { l.label = s.Name }
func (l *labeler) VisitImportSession(s ImportSessionSource) { l.label = s.Name }
func (l *labeler) VisitManual(s ManualSource)               { l.label = fmt.Sprintf("List %d", s.Number) }

func (l *labeler) VisitSearch(s SearchSource) {
	if s.Description != "" {
		l.label = s.Description
		return
	}
	l.label = "Search result " + l.now.Format("15:04:05")
}

// DefaultLabel returns the label used when a list is created without one.
// now is only consulted for search sources without a description.
func DefaultLabel(source Source, now time.Time) string {
	l := &labeler{now: now}
	source.Accept(l)
	return l.label
}

// sourceWire is the tagged JSON object a source is stored and served as
type sourceWire struct {
	Type        SourceKind      `json:"type"`
	ID          *int64          `json:"id,omitempty"`
	Name        *string         `json:"name,omitempty"`
	Params      *SearchCriteria `json:"params,omitempty"`
	Description *string         `json:"description,omitempty"`
	Number      *int            `json:"number,omitempty"`
}

// wireEncoder maps each variant onto sourceWire
type wireEncoder struct {
	w sourceWire
}

func (e *wireEncoder) named(kind SourceKind, id int64, name string) {
	e.w = sourceWire{Type: kind, ID: &id, Name: &name}
}

func (e *wireEncoder) VisitCollection(s CollectionSource)   { e.named(SourceCollection, s.ID, s.Name) }
func (e *wireEncoder) VisitSavedSearch(s SavedSearchSource) { e.named(SourceSavedSearch, s.ID, s.Name) }
func (e *wireEncoder) VisitImportSession(s ImportSessionSource) {
	e.named(SourceImportSession, s.ID, s.Name)
}

func (e *wireEncoder) VisitSearch(s SearchSource) {
	params := s.Params.clone()
	e.w = sourceWire{Type: SourceSearch, Params: &params}
	if s.Description != "" {
		desc := s.Description
		e.w.Description = &desc
	}
}

func (e *wireEncoder) VisitManual(s ManualSource) {
	n := s.Number
	e.w = sourceWire{Type: SourceManual, Number: &n}
}

// MarshalSource encodes a source as its tagged JSON object
func MarshalSource(source Source) ([]byte, error) {
	if source == nil {
		return nil, ErrInvalidSource
	}
	e := &wireEncoder{}
	source.Accept(e)
	return json.Marshal(e.w)
}

// UnmarshalSource decodes a tagged JSON object into its source variant
func UnmarshalSource(data []byte) (Source, error) {
	var w sourceWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode source: %w", err)
	}

	switch w.Type {
	case SourceCollection, SourceSavedSearch, SourceImportSession:
		if w.ID == nil {
			return nil, fmt.Errorf("%w: %s source without id", ErrInvalidSource, w.Type)
		}
		name := ""
		if w.Name != nil {
			name = *w.Name
		}
		switch w.Type {
		case SourceCollection:
			return CollectionSource{ID: *w.ID, Name: name}, nil
		case SourceSavedSearch:
			return SavedSearchSource{ID: *w.ID, Name: name}, nil
		default:
			return ImportSessionSource{ID: *w.ID, Name: name}, nil
		}
	case SourceSearch:
		s := SearchSource{}
		if w.Params != nil {
			s.Params = *w.Params
		}
		if w.Description != nil {
			s.Description = *w.Description
		}
		return s, nil
	case SourceManual:
		if w.Number == nil {
			return nil, fmt.Errorf("%w: manual source without number", ErrInvalidSource)
		}
		return ManualSource{Number: *w.Number}, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidSource, w.Type)
}
