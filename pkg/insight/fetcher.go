package insight

import (
	"context"

	"github.com/gocrane/insight-report/pkg/utils"
)

//go:generate mockgen -destination=mock/mock_fetcher.go -package=mock github.com/gocrane/insight-report/pkg/insight Fetcher

// Fetcher loads metric series for one dimension value over a time range.
type Fetcher interface {
	// FetchMetrics returns one series per requested key, in request order. Keys the
	// backend knows nothing about come back as empty series.
	FetchMetrics(ctx context.Context, query Query) ([]utils.MetricSeries, error)
}

// Query selects the data of one server.
type Query struct {
	Keys           []string
	DimensionKey   string
	DimensionValue string
	// StartMs and EndMs are unix milliseconds, both inclusive.
	StartMs     int64
	EndMs       int64
	Interval    string
	Aggregation string
}
