package collector

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"StockPulse/internal/model"
)

// PolygonFlowFetcher implements FlowFetcher using the Polygon options-chain
// snapshot endpoint.
type PolygonFlowFetcher struct {
	client *polygon.Client
}

// NewPolygonFlowFetcher creates a fetcher for the given API key.
func NewPolygonFlowFetcher(apiKey string) (*PolygonFlowFetcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}
	return &PolygonFlowFetcher{client: polygon.New(apiKey)}, nil
}

func (f *PolygonFlowFetcher) Name() string { return "polygon" }

// FetchOptionsFlow sums day volume across the options chain, split by
// contract type. Returns (nil, nil) when the chain carries no volume at all,
// so the caller posts nothing.
func (f *PolygonFlowFetcher) FetchOptionsFlow(ctx context.Context, symbol string) (*model.OptionsFlow, error) {
	params := &models.ListOptionsChainParams{
		UnderlyingAsset: symbol,
	}

	iter := f.client.ListOptionsChainSnapshot(ctx, params)
	flow := &model.OptionsFlow{Symbol: symbol, FetchedAt: time.Now()}
	for iter.Next() {
		snap := iter.Item()
		switch snap.Details.ContractType {
		case "call":
			flow.CallVolume += snap.Day.Volume
		case "put":
			flow.PutVolume += snap.Day.Volume
		}
		flow.Contracts++
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list options chain for %s: %w", symbol, err)
	}
	if flow.CallVolume == 0 && flow.PutVolume == 0 {
		return nil, nil
	}
	return flow, nil
}
