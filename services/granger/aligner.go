package granger

import (
	"sort"
	"time"
)

// Bar is the slice of a daily record the causality pipeline needs.
type Bar struct {
	Date   time.Time
	Close  float64
	Volume int64
}

// Align date-indexes two raw series, optionally drops the stock's
// suspension days (zero traded volume), intersects the remaining
// dates, and returns the two close-price sequences sorted ascending
// by date.
//
// The output sequences always have equal length and identical date
// alignment; empty input yields empty output. The index series is
// never filtered for its own zero-volume days; suspension is a
// property of the stock.
func Align(stock, index []Bar, excludeSuspension bool) (stockClose, indexClose []float64, dates []time.Time) {
	if len(stock) == 0 || len(index) == 0 {
		return nil, nil, nil
	}

	stockByDate := make(map[string]Bar, len(stock))
	for _, bar := range stock {
		if excludeSuspension && bar.Volume <= 0 {
			continue
		}
		stockByDate[dayKey(bar.Date)] = bar
	}

	indexByDate := make(map[string]Bar, len(index))
	for _, bar := range index {
		indexByDate[dayKey(bar.Date)] = bar
	}

	common := make([]string, 0, len(stockByDate))
	for key := range stockByDate {
		if _, ok := indexByDate[key]; ok {
			common = append(common, key)
		}
	}
	sort.Strings(common)

	stockClose = make([]float64, 0, len(common))
	indexClose = make([]float64, 0, len(common))
	dates = make([]time.Time, 0, len(common))
	for _, key := range common {
		sb := stockByDate[key]
		stockClose = append(stockClose, sb.Close)
		indexClose = append(indexClose, indexByDate[key].Close)
		dates = append(dates, sb.Date)
	}
	return stockClose, indexClose, dates
}

// dayKey truncates a timestamp to its calendar day. Keys sort in date
// order, so sorting the intersection keeps the series ascending.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
