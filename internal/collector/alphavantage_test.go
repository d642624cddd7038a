package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const intradayFixture = `{
  "Meta Data": {"2. Symbol": "AAPL"},
  "Time Series (1min)": {
    "2026-08-28 15:59:00": {"1. open": "189.00", "2. high": "189.50", "3. low": "188.90", "4. close": "189.12", "5. volume": "120000"},
    "2026-08-28 15:58:00": {"1. open": "188.80", "2. high": "189.10", "3. low": "188.70", "4. close": "188.95", "5. volume": "98000"},
    "2026-08-28 15:57:00": {"1. open": "188.60", "2. high": "188.90", "3. low": "188.50", "4. close": "188.80", "5. volume": "87000"}
  }
}`

const newsFixture = `{
  "feed": [
    {
      "uuid": "abc-123",
      "title": "Apple ships new thing",
      "url": "https://example.com/a",
      "source": "Newswire",
      "time_published": "20260828T153000",
      "ticker_sentiment": [{"ticker": "AAPL"}, {"ticker": "AAPL"}, {"ticker": "MSFT"}]
    },
    {
      "title": "No identifiers on this one",
      "ticker_sentiment": []
    },
    {
      "url": "https://example.com/b",
      "ticker_sentiment": [{"ticker": "SPY"}]
    }
  ]
}`

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *AlphaFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := NewAlphaFetcher("test-key", "")
	f.BaseURL = srv.URL
	return f
}

func TestFetchIntraday(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_INTRADAY", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1min", r.URL.Query().Get("interval"))
		w.Write([]byte(intradayFixture))
	})

	bars, err := f.FetchIntraday(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, bars, 3)

	// Oldest first.
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.True(t, bars[1].Time.Before(bars[2].Time))
	assert.InDelta(t, 189.12, bars[2].Close, 1e-9)
	assert.InDelta(t, 120000, bars[2].Volume, 1e-9)
}

func TestFetchIntraday_Throttled(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	})

	_, err := f.FetchIntraday(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrThrottled)
}

func TestFetchIntraday_APIError(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	})

	_, err := f.FetchIntraday(context.Background(), "NOPE")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrThrottled)
}

func TestFetchIntraday_HTTPError(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := f.FetchIntraday(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestFetchNews(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NEWS_SENTIMENT", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL,MSFT", r.URL.Query().Get("tickers"))
		assert.Equal(t, "30", r.URL.Query().Get("limit"))
		assert.Equal(t, "LATEST", r.URL.Query().Get("sort"))
		w.Write([]byte(newsFixture))
	})

	headlines, err := f.FetchNews(context.Background(), []string{"AAPL", "MSFT"}, 30)
	require.NoError(t, err)

	// The item with neither uuid nor url is dropped.
	require.Len(t, headlines, 2)

	assert.Equal(t, "abc-123", headlines[0].ID)
	assert.Equal(t, "Apple ships new thing", headlines[0].Title)
	assert.Equal(t, []string{"AAPL", "MSFT"}, headlines[0].Tickers)
	assert.Equal(t, "Newswire", headlines[0].Source)
	assert.False(t, headlines[0].PublishedAt.IsZero())

	// URL fallback id, default title.
	assert.Equal(t, "https://example.com/b", headlines[1].ID)
	assert.Equal(t, "News", headlines[1].Title)
}

func TestFetchNews_CapsTickerQuery(t *testing.T) {
	symbols := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}

	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "A,B,C,D,E,F,G,H,I,J", r.URL.Query().Get("tickers"))
		w.Write([]byte(`{"feed": []}`))
	})

	headlines, err := f.FetchNews(context.Background(), symbols, 30)
	require.NoError(t, err)
	assert.Empty(t, headlines)
}
