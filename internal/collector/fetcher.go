package collector

import (
	"context"

	"StockPulse/internal/model"
)

// Fetcher defines the interface for fetching intraday market data and news.
type Fetcher interface {
	FetchIntraday(ctx context.Context, symbol string) ([]model.Bar, error)
	FetchNews(ctx context.Context, symbols []string, limit int) ([]model.Headline, error)
	Name() string
}

// FlowFetcher fetches an options activity snapshot for an underlying symbol.
type FlowFetcher interface {
	FetchOptionsFlow(ctx context.Context, symbol string) (*model.OptionsFlow, error)
	Name() string
}
