package source

import (
	"context"
	"fmt"

	"github.com/datasync/backend/internal/domain/integration"
	"github.com/datasync/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Record is one raw source record
type Record = integration.Record

// Factory resolves fetchers by source type
type Factory struct {
	logger *zap.Logger
}

// NewFactory creates a fetcher factory
func NewFactory(logger *zap.Logger) *Factory {
	return &Factory{logger: logger}
}

var _ integration.FetcherFactory = (*Factory)(nil)

// ForType returns the fetcher for a source type. Unknown types yield an
// UNSUPPORTED_SOURCE_TYPE error, which fails the whole job.
func (f *Factory) ForType(t integration.SourceType) (integration.Fetcher, error) {
	switch t {
	case integration.SourceTypeCSV:
		return &csvFetcher{logger: f.logger}, nil
	case integration.SourceTypeJSON:
		return &jsonFetcher{logger: f.logger}, nil
	case integration.SourceTypeAPI:
		return &apiFetcher{logger: f.logger}, nil
	case integration.SourceTypeMock:
		return &mockFetcher{}, nil
	default:
		return nil, shared.NewDomainError("UNSUPPORTED_SOURCE_TYPE",
			fmt.Sprintf("Unsupported source type: %s", t))
	}
}

// mockFetcher generates the synthetic record sequence
type mockFetcher struct{}

func (f *mockFetcher) Fetch(ctx context.Context, config map[string]any) ([]Record, error) {
	return generateRecords(config)
}

// csvFetcher will read from a CSV file once a real connector is wired.
// TODO: wire the CSV connector; until then the synthetic contract is
// load-bearing for tests and strategy logic and must not change.
type csvFetcher struct {
	logger *zap.Logger
}

func (f *csvFetcher) Fetch(ctx context.Context, config map[string]any) ([]Record, error) {
	f.logger.Info("fetching CSV data", zap.Any("config", config))
	return generateRecords(config)
}

// jsonFetcher will parse a JSON document once a real connector is wired
type jsonFetcher struct {
	logger *zap.Logger
}

func (f *jsonFetcher) Fetch(ctx context.Context, config map[string]any) ([]Record, error) {
	f.logger.Info("fetching JSON data", zap.Any("config", config))
	return generateRecords(config)
}

// apiFetcher will call an external API once a real connector is wired
type apiFetcher struct {
	logger *zap.Logger
}

func (f *apiFetcher) Fetch(ctx context.Context, config map[string]any) ([]Record, error) {
	f.logger.Info("fetching API data", zap.Any("config", config))
	return generateRecords(config)
}
