package model

import "time"

// Headline is a single normalized news item from the Alpha Vantage feed.
type Headline struct {
	ID          string // feed uuid, falling back to the article URL
	Title       string
	URL         string
	Tickers     []string
	Source      string
	PublishedAt time.Time
}
