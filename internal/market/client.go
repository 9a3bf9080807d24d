// Package market is a stateless pass-through to the Yahoo Finance API.
// It holds no local state and performs no caching or retries; provider
// failures surface directly to the caller.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

	historicalStart = "2020-01-01"
	quoteModules    = "summaryProfile,financialData,defaultKeyStatistics,earnings"
)

// newsSearchTerms maps a news category to the provider search query.
var newsSearchTerms = map[string]string{
	"general": "financial OR economy OR markets",
	"markets": "stock market OR equities OR trading",
	"economy": "economy OR inflation OR interest rates",
	"crypto":  "crypto OR bitcoin OR blockchain",
	"banking": "banking OR federal reserve OR central banks",
}

// validIntervals are the bar intervals the chart endpoint accepts.
var validIntervals = map[string]bool{
	"1m": true, "2m": true, "5m": true, "15m": true,
	"30m": true, "60m": true, "90m": true, "1h": true,
}

// ValidInterval reports whether the chart endpoint accepts the interval.
func ValidInterval(interval string) bool {
	return validIntervals[interval]
}

// ProviderError is a failure reported by the market-data provider. Its
// message is attached to the HTTP response, unlike internal errors.
type ProviderError struct {
	Op      string
	Message string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Client talks to the provider. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewClient creates a provider client. An empty baseURL selects the
// production endpoint.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// Search looks up symbols matching the query, dropping hits without a
// symbol or short name.
func (c *Client) Search(ctx context.Context, symbol string) (*SearchResult, error) {
	query := url.Values{}
	query.Set("q", symbol)
	query.Set("quotesCount", "100")
	query.Set("newsCount", "0")

	var resp yahooSearchResponse
	if err := c.getJSON(ctx, "/v1/finance/search", query, &resp); err != nil {
		return nil, err
	}

	results := make([]SymbolMatch, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" || q.ShortName == "" {
			continue
		}
		sector := q.Sector
		if sector == "" {
			sector = "N/A"
		}
		results = append(results, SymbolMatch{
			Symbol:   q.Symbol,
			Name:     q.ShortName,
			Exchange: q.ExchDisp,
			Type:     q.QuoteType,
			Sector:   sector,
		})
	}

	return &SearchResult{Symbol: symbol, Count: len(results), Results: results}, nil
}

// Historical returns daily bars from the fixed range start to now.
func (c *Client) Historical(ctx context.Context, symbol string) (*HistoricalResult, error) {
	start, _ := time.Parse("2006-01-02", historicalStart)

	chart, err := c.chart(ctx, symbol, start, time.Now(), "1d")
	if err != nil {
		return nil, err
	}

	return &HistoricalResult{Symbol: symbol, OHLC: chartBars(chart, false)}, nil
}

// Intraday returns today's bars at the given interval, keeping only
// complete candles.
func (c *Client) Intraday(ctx context.Context, symbol, interval string) (*IntradayResult, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	chart, err := c.chart(ctx, symbol, dayStart, now, interval)
	if err != nil {
		return nil, err
	}

	bars := chartBars(chart, true)
	points := make([]IntradayPoint, 0, len(bars))
	for _, b := range bars {
		points = append(points, IntradayPoint{
			Time:   b.Date.Format(time.RFC3339),
			Open:   strconv.FormatFloat(b.Open, 'f', 2, 64),
			High:   strconv.FormatFloat(b.High, 'f', 2, 64),
			Low:    strconv.FormatFloat(b.Low, 'f', 2, 64),
			Close:  strconv.FormatFloat(b.Close, 'f', 2, 64),
			Volume: strconv.FormatInt(b.Volume, 10),
		})
	}

	name := chart.Meta.ShortName
	if name == "" {
		name = chart.Meta.Symbol
	}

	return &IntradayResult{
		Symbol:     symbol,
		Interval:   interval,
		Name:       name,
		MarketOpen: dayStart.Format("2006-01-02"),
		LastUpdate: now,
		DataPoints: points,
	}, nil
}

// Quote returns the latest quote with extended fundamentals.
func (c *Client) Quote(ctx context.Context, symbol string) (*QuoteResult, error) {
	quote, err := c.quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	summary, err := c.quoteSummary(ctx, symbol)
	if err != nil {
		return nil, err
	}

	result := &QuoteResult{
		Symbol:           quote.Symbol,
		Name:             quoteName(quote),
		Exchange:         quote.FullExchangeName,
		Currency:         quote.Currency,
		CurrentPrice:     quote.RegularMarketPrice,
		PreviousClose:    quote.RegularMarketPreviousClose,
		Open:             quote.RegularMarketOpen,
		High:             quote.RegularMarketDayHigh,
		Low:              quote.RegularMarketDayLow,
		Volume:           quote.RegularMarketVolume,
		Bid:              quote.Bid,
		Ask:              quote.Ask,
		MarketCap:        quote.MarketCap,
		PERatio:          quote.TrailingPE,
		DividendYield:    quote.TrailingAnnualDividendYield,
		FiftyTwoWeekHigh: quote.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  quote.FiftyTwoWeekLow,
		IsMarketOpen:     quote.MarketState == "REGULAR",
		LastUpdated:      time.Now().UTC(),
	}

	if p := summary.SummaryProfile; p != nil {
		result.Fundamentals.Sector = orNA(p.Sector)
		result.Fundamentals.Industry = orNA(p.Industry)
		result.Fundamentals.Employees = p.FullTimeEmployees
		result.Fundamentals.Country = p.Country
		result.Fundamentals.Description = p.LongBusinessSummary
	} else {
		result.Fundamentals.Sector = "N/A"
		result.Fundamentals.Industry = "N/A"
	}
	if f := summary.FinancialData; f != nil {
		result.Fundamentals.Recommendation = f.RecommendationKey
		result.Fundamentals.ProfitMargins = f.ProfitMargins.Raw
		result.Fundamentals.RevenueGrowth = f.RevenueGrowth.Raw
		result.Fundamentals.ReturnOnEquity = f.ReturnOnEquity.Raw
		result.Fundamentals.ReturnOnAssets = f.ReturnOnAssets.Raw
	}
	if k := summary.DefaultKeyStatistics; k != nil {
		result.Fundamentals.Beta = k.Beta.Raw
		result.Fundamentals.ForwardPE = k.ForwardPE.Raw
		result.Fundamentals.PegRatio = k.PegRatio.Raw
	}

	return result, nil
}

// Price returns the latest price-only quote.
func (c *Client) Price(ctx context.Context, symbol string) (*PriceResult, error) {
	quote, err := c.quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	change := quote.RegularMarketPrice - quote.RegularMarketPreviousClose
	changePercent := "0.00"
	if quote.RegularMarketPreviousClose != 0 {
		changePercent = strconv.FormatFloat(change/quote.RegularMarketPreviousClose*100, 'f', 2, 64)
	}

	return &PriceResult{
		Symbol:        quote.Symbol,
		Name:          quoteName(quote),
		Currency:      quote.Currency,
		CurrentPrice:  quote.RegularMarketPrice,
		PreviousClose: quote.RegularMarketPreviousClose,
		Change:        change,
		ChangePercent: changePercent,
		IsMarketOpen:  quote.MarketState == "REGULAR",
		LastUpdated:   time.Now().UTC(),
	}, nil
}

// SymbolNews returns recent news for the symbol, searched by the company
// name resolved from its quote.
func (c *Client) SymbolNews(ctx context.Context, symbol string, count int) (*SymbolNewsResult, error) {
	quote, err := c.quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	companyName := quoteName(quote)
	if companyName == "" {
		companyName = symbol
	}

	query := url.Values{}
	query.Set("q", companyName)
	query.Set("newsCount", strconv.Itoa(count))
	query.Set("quotesCount", "0")

	var resp yahooSearchResponse
	if err := c.getJSON(ctx, "/v1/finance/search", query, &resp); err != nil {
		return nil, err
	}

	return &SymbolNewsResult{
		Symbol:      symbol,
		CompanyName: companyName,
		News:        newsItems(resp.News, ""),
	}, nil
}

// NewsFeed returns generic financial news for a category and region.
func (c *Client) NewsFeed(ctx context.Context, count int, category, region string) (*NewsFeedResult, error) {
	term, ok := newsSearchTerms[strings.ToLower(category)]
	if !ok {
		term = newsSearchTerms["general"]
	}

	query := url.Values{}
	query.Set("q", term)
	query.Set("newsCount", strconv.Itoa(count))
	query.Set("quotesCount", "0")
	query.Set("region", strings.ToUpper(region))

	var resp yahooSearchResponse
	if err := c.getJSON(ctx, "/v1/finance/search", query, &resp); err != nil {
		return nil, err
	}

	news := newsItems(resp.News, category)
	return &NewsFeedResult{
		Count:    len(news),
		Category: category,
		Region:   strings.ToUpper(region),
		News:     news,
	}, nil
}

// chart fetches one chart result for the symbol and range.
func (c *Client) chart(ctx context.Context, symbol string, from, to time.Time, interval string) (*yahooChartResult, error) {
	query := url.Values{}
	query.Set("period1", strconv.FormatInt(from.Unix(), 10))
	query.Set("period2", strconv.FormatInt(to.Unix(), 10))
	query.Set("interval", interval)

	var resp yahooChartResponse
	if err := c.getJSON(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), query, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, &ProviderError{Op: "chart " + symbol, Message: resp.Chart.Error.Description}
	}
	if len(resp.Chart.Result) == 0 {
		return nil, &ProviderError{Op: "chart " + symbol, Message: "no chart data returned"}
	}
	return &resp.Chart.Result[0], nil
}

// quote fetches the first quote result for the symbol.
func (c *Client) quote(ctx context.Context, symbol string) (*yahooQuote, error) {
	query := url.Values{}
	query.Set("symbols", symbol)

	var resp yahooQuoteResponse
	if err := c.getJSON(ctx, "/v7/finance/quote", query, &resp); err != nil {
		return nil, err
	}

	if len(resp.QuoteResponse.Result) == 0 {
		return nil, &ProviderError{Op: "quote " + symbol, Message: "symbol not found"}
	}
	return &resp.QuoteResponse.Result[0], nil
}

// quoteSummary fetches the fundamentals modules for the symbol. A missing
// summary is not an error; quotes exist for symbols without profiles.
func (c *Client) quoteSummary(ctx context.Context, symbol string) (*yahooSummaryResult, error) {
	query := url.Values{}
	query.Set("modules", quoteModules)

	var resp yahooSummaryResponse
	if err := c.getJSON(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), query, &resp); err != nil {
		return nil, err
	}

	if len(resp.QuoteSummary.Result) == 0 {
		return &yahooSummaryResult{}, nil
	}
	return &resp.QuoteSummary.Result[0], nil
}

// getJSON performs one provider request and decodes the response body.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &ProviderError{Op: "build request", Message: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ProviderError{Op: "request " + path, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return &ProviderError{
			Op:      "request " + path,
			Message: fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Op: "decode " + path, Message: err.Error()}
	}
	return nil
}

// chartBars converts a chart result into bars. With completeOnly set,
// candles missing any OHLC value are dropped (partial intraday candles).
func chartBars(chart *yahooChartResult, completeOnly bool) []Bar {
	if len(chart.Indicators.Quote) == 0 {
		return []Bar{}
	}
	q := chart.Indicators.Quote[0]

	bars := make([]Bar, 0, len(chart.Timestamp))
	for i, ts := range chart.Timestamp {
		open := at(q.Open, i)
		high := at(q.High, i)
		low := at(q.Low, i)
		closing := at(q.Close, i)
		if completeOnly && (open == nil || high == nil || low == nil || closing == nil) {
			continue
		}

		var volume int64
		if v := atInt(q.Volume, i); v != nil {
			volume = *v
		}
		bars = append(bars, Bar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   deref(open),
			High:   deref(high),
			Low:    deref(low),
			Close:  deref(closing),
			Volume: volume,
		})
	}
	return bars
}

func newsItems(items []yahooNewsItem, category string) []NewsItem {
	news := make([]NewsItem, 0, len(items))
	for _, item := range items {
		var thumbnail string
		if len(item.Thumbnail.Resolutions) > 0 {
			thumbnail = item.Thumbnail.Resolutions[0].URL
		}
		news = append(news, NewsItem{
			Title:     item.Title,
			Publisher: item.Publisher,
			Link:      item.Link,
			Date:      time.Unix(item.ProviderPublishTime, 0).UTC(),
			Thumbnail: thumbnail,
			Category:  category,
		})
	}
	return news
}

func quoteName(q *yahooQuote) string {
	if q.ShortName != "" {
		return q.ShortName
	}
	return q.LongName
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func atInt(values []*int64, i int) *int64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
