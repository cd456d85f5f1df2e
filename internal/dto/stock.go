package dto

// ChartPoint is one month-labelled close price on a stock's history chart.
type ChartPoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

type StockInfo struct {
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// Stock is a watchlist entry. Symbol is its unique key.
type Stock struct {
	Symbol    string       `json:"symbol"`
	ChartData []ChartPoint `json:"chartData"`
	StockInfo StockInfo    `json:"stockInfo"`
}

// IntradayPoint is a single minute quote, oldest first once formatted.
type IntradayPoint struct {
	Time  string  `json:"time"`
	Price float64 `json:"price"`
}

// HistoricalQuote is a row of GET /historical/{symbol}.
type HistoricalQuote struct {
	Date  string  `json:"Date"`
	Close float64 `json:"Close"`
}

// HistoricalResponse is the body of GET /historical/{symbol}.
type HistoricalResponse struct {
	History  []HistoricalQuote `json:"history"`
	Name     string            `json:"name"`
	Sector   string            `json:"sector"`
	Industry string            `json:"industry"`
	Error    string            `json:"error,omitempty"`
}

// IntradayQuote is a row of GET /intraday/{symbol}, newest first.
type IntradayQuote struct {
	Time  string  `json:"Time"`
	Price float64 `json:"Price"`
}

// ErrorResponse is the payload the remote service sends on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StockDataState is what a stock data view shows for its current symbol.
type StockDataState struct {
	Symbol    string          `json:"symbol"`
	ChartData []ChartPoint    `json:"chartData"`
	StockInfo StockInfo       `json:"stockInfo"`
	Intraday  []IntradayPoint `json:"intraday"`
	Error     string          `json:"error,omitempty"`
}
