// Package entity provides bibliographic entity records and the stores
// that resolve them by identifier.
package entity

// Record is the full bibliographic metadata for one citable work,
// addressable by identifier.
type Record struct {
	// RID is the identifier bibliography entries resolve by.
	RID string `json:"rid"`

	// Type is the work type (e.g., "journal-article", "book", "chapter").
	Type string `json:"type,omitempty"`

	// Title is the work's title.
	Title string `json:"title"`

	// Authors lists author display names in order.
	Authors []string `json:"authors,omitempty"`

	// ContainerTitle is the journal or book the work appeared in.
	ContainerTitle string `json:"container_title,omitempty"`

	// Year is the publication year.
	Year int `json:"year,omitempty"`

	// Volume is the volume designator, if any.
	Volume string `json:"volume,omitempty"`

	// Pages is the page range, if any.
	Pages string `json:"pages,omitempty"`

	// DOI is the digital object identifier, if any.
	DOI string `json:"doi,omitempty"`
}

// Store resolves bibliographic records by identifier. Lookups are
// read-only and lazy; absence is not an error.
type Store interface {
	// Get returns the record for rid, or false when absent.
	Get(rid string) (*Record, bool)
}

// MemStore is a map-backed Store for tests and embedding.
type MemStore struct {
	records map[string]*Record
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string]*Record)}
}

// Put adds or replaces a record.
func (s *MemStore) Put(r *Record) {
	s.records[r.RID] = r
}

// Get returns the record for rid, or false when absent.
func (s *MemStore) Get(rid string) (*Record, bool) {
	r, ok := s.records[rid]
	return r, ok
}
