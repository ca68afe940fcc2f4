package marketdata

import (
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"canslim-hunter/internal/errors"
)

// tickerRow is one row of the ticker universe CSV.
type tickerRow struct {
	Symbol string `csv:"symbol"`
}

// LoadTickerList reads the ticker universe from a CSV file with a
// "symbol" column. Symbols are upper-cased, deduplicated and returned
// in file order.
func LoadTickerList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening ticker list %s", path)
	}
	defer f.Close()

	var rows []tickerRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.Wrapf(err, "parsing ticker list %s", path)
	}

	seen := make(map[string]bool, len(rows))
	tickers := make([]string, 0, len(rows))
	for _, row := range rows {
		symbol := strings.ToUpper(strings.TrimSpace(row.Symbol))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		tickers = append(tickers, symbol)
	}

	if len(tickers) == 0 {
		return nil, errors.ErrTickerListEmpty
	}
	return tickers, nil
}
