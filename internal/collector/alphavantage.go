package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"StockPulse/internal/model"
)

const defaultAlphaBaseURL = "https://www.alphavantage.co/query"

// ErrThrottled is returned when Alpha Vantage answers with a rate-limit
// notice instead of data. Callers skip the cycle and retry on the next
// interval.
var ErrThrottled = errors.New("alpha vantage rate limited")

// AlphaFetcher implements Fetcher against the Alpha Vantage REST API.
type AlphaFetcher struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewAlphaFetcher creates a fetcher with optional proxy support.
func NewAlphaFetcher(apiKey, proxyURL string) *AlphaFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &AlphaFetcher{
		APIKey:  apiKey,
		BaseURL: defaultAlphaBaseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *AlphaFetcher) Name() string { return "alphavantage" }

// intradayBar is one entry in the "Time Series (1min)" object.
type intradayBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type intradayResponse struct {
	apiNotice
	Series map[string]intradayBar `json:"Time Series (1min)"`
}

// apiNotice carries the soft-failure fields Alpha Vantage uses instead of
// HTTP error codes.
type apiNotice struct {
	Note        string `json:"Note"`
	Information string `json:"Information"`
	ErrorMsg    string `json:"Error Message"`
}

func (n *apiNotice) check() error {
	if n.Note != "" || n.Information != "" {
		return ErrThrottled
	}
	if n.ErrorMsg != "" {
		return fmt.Errorf("alpha vantage: %s", n.ErrorMsg)
	}
	return nil
}

// FetchIntraday fetches compact 1-minute bars for one symbol, oldest first.
func (f *AlphaFetcher) FetchIntraday(ctx context.Context, symbol string) ([]model.Bar, error) {
	params := url.Values{
		"function":   {"TIME_SERIES_INTRADAY"},
		"symbol":     {symbol},
		"interval":   {"1min"},
		"outputsize": {"compact"},
		"apikey":     {f.APIKey},
	}

	var resp intradayResponse
	if err := f.getJSON(ctx, params, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}
	if len(resp.Series) == 0 {
		return nil, fmt.Errorf("no intraday data for %s", symbol)
	}

	bars := make([]model.Bar, 0, len(resp.Series))
	for ts, v := range resp.Series {
		t, err := time.Parse("2006-01-02 15:04:05", ts)
		if err != nil {
			continue
		}
		bar, err := v.toBar(t)
		if err != nil {
			continue
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no parsable intraday bars for %s", symbol)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (b intradayBar) toBar(t time.Time) (model.Bar, error) {
	open, err := strconv.ParseFloat(b.Open, 64)
	if err != nil {
		return model.Bar{}, err
	}
	high, err := strconv.ParseFloat(b.High, 64)
	if err != nil {
		return model.Bar{}, err
	}
	low, err := strconv.ParseFloat(b.Low, 64)
	if err != nil {
		return model.Bar{}, err
	}
	closeP, err := strconv.ParseFloat(b.Close, 64)
	if err != nil {
		return model.Bar{}, err
	}
	vol, err := strconv.ParseFloat(b.Volume, 64)
	if err != nil {
		return model.Bar{}, err
	}
	return model.Bar{Time: t, Open: open, High: high, Low: low, Close: closeP, Volume: vol}, nil
}

type newsItem struct {
	UUID            string `json:"uuid"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	Source          string `json:"source"`
	TimePublished   string `json:"time_published"`
	TickerSentiment []struct {
		Ticker string `json:"ticker"`
	} `json:"ticker_sentiment"`
}

type newsResponse struct {
	apiNotice
	Feed []newsItem `json:"feed"`
}

// FetchNews fetches the latest headlines for the given symbols. Alpha Vantage
// caps the ticker filter, so only the first 10 symbols are sent.
func (f *AlphaFetcher) FetchNews(ctx context.Context, symbols []string, limit int) ([]model.Headline, error) {
	query := symbols
	if len(query) > 10 {
		query = query[:10]
	}
	params := url.Values{
		"function": {"NEWS_SENTIMENT"},
		"tickers":  {strings.Join(query, ",")},
		"limit":    {strconv.Itoa(limit)},
		"sort":     {"LATEST"},
		"apikey":   {f.APIKey},
	}

	var resp newsResponse
	if err := f.getJSON(ctx, params, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}

	headlines := make([]model.Headline, 0, len(resp.Feed))
	for _, item := range resp.Feed {
		id := item.UUID
		if id == "" {
			id = item.URL
		}
		if id == "" {
			continue
		}
		title := item.Title
		if title == "" {
			title = "News"
		}
		tickers := make([]string, 0, len(item.TickerSentiment))
		for _, ts := range item.TickerSentiment {
			if ts.Ticker != "" {
				tickers = append(tickers, ts.Ticker)
			}
		}
		tickers = lo.Uniq(tickers)
		h := model.Headline{
			ID:      id,
			Title:   title,
			URL:     item.URL,
			Tickers: tickers,
			Source:  item.Source,
		}
		if t, err := time.Parse("20060102T150405", item.TimePublished); err == nil {
			h.PublishedAt = t
		}
		headlines = append(headlines, h)
	}
	return headlines, nil
}

func (f *AlphaFetcher) getJSON(ctx context.Context, params url.Values, out any) error {
	endpoint := f.BaseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("alpha vantage fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("alpha vantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alpha vantage: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("alpha vantage decode: %w", err)
	}
	return nil
}
