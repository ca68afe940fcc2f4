package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"canslim-hunter/internal/errors"
	"canslim-hunter/internal/models"
)

// YahooClient fetches price history and fundamentals from the Yahoo
// Finance public API. It implements PriceSource and FundamentalsSource.
type YahooClient struct {
	client  *http.Client
	baseURL string
}

// NewYahooClient creates a Yahoo Finance client.
func NewYahooClient() *YahooClient {
	return &YahooClient{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://query1.finance.yahoo.com",
	}
}

// NewYahooClientWithBase creates a client against a custom base URL.
// Used by tests to point at a stub server.
func NewYahooClientWithBase(baseURL string) *YahooClient {
	return &YahooClient{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

// yahooChart is the response structure of the chart API. Null entries
// appear for holidays and halts, hence interface{} slices.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// FetchDailyBars fetches up to days daily bars, ascending by date.
func (y *YahooClient) FetchDailyBars(ctx context.Context, symbol string, days int) ([]models.PriceBar, error) {
	rng := "2y"
	if days <= 30 {
		rng = "1mo"
	} else if days <= 90 {
		rng = "3mo"
	} else if days <= 180 {
		rng = "6mo"
	} else if days <= 365 {
		rng = "1y"
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		y.baseURL, url.PathEscape(symbol), rng)

	body, err := y.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error for %s (%s): %w",
			symbol, chart.Chart.Error.Description, errors.ErrSymbolNotFound)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s: %w", symbol, errors.ErrDataNotFound)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s: %w", symbol, errors.ErrDataNotFound)
	}
	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	if len(quote.Open) < n || len(quote.High) < n || len(quote.Low) < n ||
		len(quote.Close) < n || len(quote.Volume) < n {
		return nil, fmt.Errorf("yahoo: truncated quote data for %s", symbol)
	}

	bars := make([]models.PriceBar, 0, n)
	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		lo := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && lo == 0 && c == 0 {
			continue // null bar (holiday, halt)
		}
		bars = append(bars, models.PriceBar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    lo,
			Close:  c,
			Volume: int64(toFloat(quote.Volume[i])),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// yahooSummary is the response structure of the quoteSummary API,
// reduced to the modules the fundamental screen consumes.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Earnings struct {
				FinancialsChart struct {
					Quarterly []struct {
						Earnings rawValue `json:"earnings"`
						Revenue  rawValue `json:"revenue"`
					} `json:"quarterly"`
				} `json:"financialsChart"`
			} `json:"earnings"`
			FinancialData struct {
				ReturnOnEquity *rawValue `json:"returnOnEquity"`
			} `json:"financialData"`
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// rawValue is Yahoo's {raw, fmt} number wrapper.
type rawValue struct {
	Raw float64 `json:"raw"`
}

// FetchFundamentals fetches quarterly EPS, quarterly revenue, ROE,
// sector and industry for one symbol. Quarterly series come back
// newest-first; absent fields stay at their zero values and the
// screens apply their own defaults.
func (y *YahooClient) FetchFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=earnings,financialData,assetProfile",
		y.baseURL, url.PathEscape(symbol))

	body, err := y.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error for %s (%s): %w",
			symbol, summary.QuoteSummary.Error.Description, errors.ErrSymbolNotFound)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no fundamentals for %s: %w", symbol, errors.ErrNoFundamentals)
	}

	result := summary.QuoteSummary.Result[0]

	quarters := result.Earnings.FinancialsChart.Quarterly
	eps := make([]float64, 0, len(quarters))
	revenue := make([]float64, 0, len(quarters))
	// Yahoo reports oldest-first; the screens expect newest-first.
	for i := len(quarters) - 1; i >= 0; i-- {
		eps = append(eps, quarters[i].Earnings.Raw)
		revenue = append(revenue, quarters[i].Revenue.Raw)
	}

	data := &models.Fundamentals{
		QuarterlyEPS:     eps,
		QuarterlyRevenue: revenue,
		Sector:           result.AssetProfile.Sector,
		Industry:         result.AssetProfile.Industry,
	}
	if result.FinancialData.ReturnOnEquity != nil {
		roe := result.FinancialData.ReturnOnEquity.Raw
		data.ROE = &roe
	}
	return data, nil
}

func (y *YahooClient) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %v: %w", err, errors.ErrConnectionFailed)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
