package integration

import "context"

// Record is one raw source record: a mapping from source field name to an
// untyped value
type Record = map[string]any

// Fetcher pulls raw records from an external source. Implementations receive
// the opaque source configuration from the integration request.
type Fetcher interface {
	Fetch(ctx context.Context, config map[string]any) ([]Record, error)
}

// FetcherFactory resolves the fetcher for a source type. Unknown types yield
// an UNSUPPORTED_SOURCE_TYPE error.
type FetcherFactory interface {
	ForType(t SourceType) (Fetcher, error)
}
