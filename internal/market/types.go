package market

import "time"

// Public result types returned by the proxy. They reshape the provider's
// payloads into the application's response contract.

// SymbolMatch is one search hit.
type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
	Sector   string `json:"sector"`
}

// SearchResult is the symbol search response.
type SearchResult struct {
	Symbol  string        `json:"symbol"`
	Count   int           `json:"count"`
	Results []SymbolMatch `json:"results"`
}

// Bar is one daily OHLCV candle.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// HistoricalResult holds daily bars over the requested range.
type HistoricalResult struct {
	Symbol string `json:"symbol"`
	OHLC   []Bar  `json:"ohlc"`
}

// IntradayPoint is one intraday candle, price fields formatted to two
// decimal places.
type IntradayPoint struct {
	Time   string `json:"time"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
}

// IntradayResult holds today's bars at the requested interval.
type IntradayResult struct {
	Symbol     string          `json:"symbol"`
	Interval   string          `json:"interval"`
	Name       string          `json:"name"`
	MarketOpen string          `json:"market_open"`
	LastUpdate time.Time       `json:"last_update"`
	DataPoints []IntradayPoint `json:"data_points"`
}

// Fundamentals is the extended company data attached to a full quote.
type Fundamentals struct {
	Sector         string   `json:"sector"`
	Industry       string   `json:"industry"`
	Employees      int      `json:"employees,omitempty"`
	Country        string   `json:"country,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	ProfitMargins  float64  `json:"profit_margins,omitempty"`
	RevenueGrowth  float64  `json:"revenue_growth,omitempty"`
	Beta           float64  `json:"beta,omitempty"`
	ForwardPE      float64  `json:"forward_pe,omitempty"`
	PegRatio       float64  `json:"peg_ratio,omitempty"`
	ReturnOnEquity float64  `json:"return_on_equity,omitempty"`
	ReturnOnAssets float64  `json:"return_on_assets,omitempty"`
	Description    string   `json:"description,omitempty"`
}

// QuoteResult is the latest quote with extended fundamentals.
type QuoteResult struct {
	Symbol           string       `json:"symbol"`
	Name             string       `json:"name"`
	Exchange         string       `json:"exchange"`
	Currency         string       `json:"currency"`
	CurrentPrice     float64      `json:"current_price"`
	PreviousClose    float64      `json:"previous_close"`
	Open             float64      `json:"open"`
	High             float64      `json:"high"`
	Low              float64      `json:"low"`
	Volume           int64        `json:"volume"`
	Bid              float64      `json:"bid"`
	Ask              float64      `json:"ask"`
	MarketCap        int64        `json:"market_cap"`
	PERatio          float64      `json:"pe_ratio"`
	DividendYield    float64      `json:"dividend_yield"`
	FiftyTwoWeekHigh float64      `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64      `json:"fifty_two_week_low"`
	IsMarketOpen     bool         `json:"is_market_open"`
	LastUpdated      time.Time    `json:"last_updated"`
	Fundamentals     Fundamentals `json:"fundamentals"`
}

// PriceResult is the latest price-only quote.
type PriceResult struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Currency      string    `json:"currency"`
	CurrentPrice  float64   `json:"current_price"`
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePercent string    `json:"change_percent"`
	IsMarketOpen  bool      `json:"is_market_open"`
	LastUpdated   time.Time `json:"last_updated"`
}

// NewsItem is one news article.
type NewsItem struct {
	Title     string    `json:"title"`
	Publisher string    `json:"publisher"`
	Link      string    `json:"link"`
	Date      time.Time `json:"date"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Category  string    `json:"category,omitempty"`
}

// SymbolNewsResult is the news listing for one symbol.
type SymbolNewsResult struct {
	Symbol      string     `json:"symbol"`
	CompanyName string     `json:"company_name"`
	News        []NewsItem `json:"news"`
}

// NewsFeedResult is the generic financial-news listing.
type NewsFeedResult struct {
	Count    int        `json:"count"`
	Category string     `json:"category"`
	Region   string     `json:"region"`
	News     []NewsItem `json:"news"`
}
