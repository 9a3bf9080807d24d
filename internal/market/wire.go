package market

// Provider wire formats. Only the fields the proxy reshapes are declared.

type yahooSearchResponse struct {
	Quotes []yahooSearchQuote `json:"quotes"`
	News   []yahooNewsItem    `json:"news"`
}

type yahooSearchQuote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	ExchDisp  string `json:"exchDisp"`
	QuoteType string `json:"quoteType"`
	Sector    string `json:"sector"`
}

type yahooNewsItem struct {
	Title               string `json:"title"`
	Publisher           string `json:"publisher"`
	Link                string `json:"link"`
	ProviderPublishTime int64  `json:"providerPublishTime"`
	Thumbnail           struct {
		Resolutions []struct {
			URL string `json:"url"`
		} `json:"resolutions"`
	} `json:"thumbnail"`
}

type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooChartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortName"`
		Currency  string `json:"currency"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []yahooQuote `json:"result"`
	} `json:"quoteResponse"`
}

type yahooQuote struct {
	Symbol                      string  `json:"symbol"`
	ShortName                   string  `json:"shortName"`
	LongName                    string  `json:"longName"`
	FullExchangeName            string  `json:"fullExchangeName"`
	Currency                    string  `json:"currency"`
	MarketState                 string  `json:"marketState"`
	RegularMarketPrice          float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose  float64 `json:"regularMarketPreviousClose"`
	RegularMarketOpen           float64 `json:"regularMarketOpen"`
	RegularMarketDayHigh        float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow         float64 `json:"regularMarketDayLow"`
	RegularMarketVolume         int64   `json:"regularMarketVolume"`
	Bid                         float64 `json:"bid"`
	Ask                         float64 `json:"ask"`
	MarketCap                   int64   `json:"marketCap"`
	TrailingPE                  float64 `json:"trailingPE"`
	TrailingAnnualDividendYield float64 `json:"trailingAnnualDividendYield"`
	FiftyTwoWeekHigh            float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow             float64 `json:"fiftyTwoWeekLow"`
}

// rawValue is the provider's {raw, fmt} numeric wrapper.
type rawValue struct {
	Raw float64 `json:"raw"`
}

type yahooSummaryResponse struct {
	QuoteSummary struct {
		Result []yahooSummaryResult `json:"result"`
	} `json:"quoteSummary"`
}

type yahooSummaryResult struct {
	SummaryProfile *struct {
		Sector              string `json:"sector"`
		Industry            string `json:"industry"`
		FullTimeEmployees   int    `json:"fullTimeEmployees"`
		Country             string `json:"country"`
		LongBusinessSummary string `json:"longBusinessSummary"`
	} `json:"summaryProfile"`
	FinancialData *struct {
		RecommendationKey string   `json:"recommendationKey"`
		ProfitMargins     rawValue `json:"profitMargins"`
		RevenueGrowth     rawValue `json:"revenueGrowth"`
		ReturnOnEquity    rawValue `json:"returnOnEquity"`
		ReturnOnAssets    rawValue `json:"returnOnAssets"`
	} `json:"financialData"`
	DefaultKeyStatistics *struct {
		Beta      rawValue `json:"beta"`
		ForwardPE rawValue `json:"forwardPE"`
		PegRatio  rawValue `json:"pegRatio"`
	} `json:"defaultKeyStatistics"`
}
