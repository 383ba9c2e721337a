package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/edu-bd/StockVisualizer/models"
)

// SpotFetcher pulls the A-share spot table from a provider endpoint
// that serves one JSON record per listed symbol.
type SpotFetcher struct {
	url    string
	client *http.Client
}

// NewSpotFetcher creates a fetcher for the given provider URL.
func NewSpotFetcher(url string) *SpotFetcher {
	return &SpotFetcher{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type spotEntry struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// FetchSpotList downloads the spot table and maps bare symbols to
// prefixed form (6xxxxx -> sh, 0/3 -> sz, 4/8 -> bj). Symbols whose
// market cannot be identified are skipped, as are rows missing a
// symbol or name.
func (f *SpotFetcher) FetchSpotList(ctx context.Context) ([]models.StockBasicInfo, error) {
	if f.url == "" {
		return nil, fmt.Errorf("spot provider URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spot list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spot provider returned status %d", resp.StatusCode)
	}

	var entries []spotEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode spot list: %w", err)
	}

	infos := make([]models.StockBasicInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.Symbol == "" || entry.Name == "" {
			continue
		}
		symbol, ok := prefixSymbol(entry.Symbol)
		if !ok {
			continue
		}
		infos = append(infos, models.StockBasicInfo{Symbol: symbol, Name: entry.Name})
	}
	return infos, nil
}

// prefixSymbol maps a bare exchange code to its prefixed symbol.
func prefixSymbol(symbol string) (string, bool) {
	if hasExchangePrefix(symbol) {
		return symbol, true
	}
	switch {
	case strings.HasPrefix(symbol, "6"):
		return "sh" + symbol, true
	case strings.HasPrefix(symbol, "0"), strings.HasPrefix(symbol, "3"):
		return "sz" + symbol, true
	case strings.HasPrefix(symbol, "4"), strings.HasPrefix(symbol, "8"):
		return "bj" + symbol, true
	}
	return "", false
}
