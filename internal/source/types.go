package source

import "context"

// Query carries the caller's search parameters down to each source
type Query struct {
	Keywords string
	Page     int
}

// RawRecord is one candidate deal as a source saw it, before normalization.
// Sources fill whatever fields they can; the normalizer defaults the rest.
type RawRecord struct {
	NativeID     string
	Title        string
	Description  string
	Link         string
	Image        string
	Price        float64
	OldPrice     float64
	Stars        *float64
	TotalReviews int
	Store        string
}

// Source is the contract every upstream adapter implements. A Fetch outcome
// is one of: records, an empty slice (soft failure), or an error. The order
// of sources handed to the aggregator is the deduplication priority order.
type Source interface {
	// Name returns the source tag used for provenance and logging
	Name() string

	// Fetch retrieves candidate records from the upstream
	Fetch(ctx context.Context, q Query) ([]RawRecord, error)
}
