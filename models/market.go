package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockDaily is one daily OHLCV bar for a stock.
type StockDaily struct {
	Symbol           string           `gorm:"primaryKey;type:varchar(20)" json:"symbol"`
	Date             time.Time        `gorm:"primaryKey;index" json:"date"`
	Open             decimal.Decimal  `gorm:"type:decimal(15,4)" json:"open"`
	Close            decimal.Decimal  `gorm:"type:decimal(15,4)" json:"close"`
	High             decimal.Decimal  `gorm:"type:decimal(15,4)" json:"high"`
	Low              decimal.Decimal  `gorm:"type:decimal(15,4)" json:"low"`
	Volume           int64            `json:"volume"`
	Amount           *decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
	OutstandingShare *decimal.Decimal `gorm:"type:decimal(20,2)" json:"outstanding_share"`
	Turnover         *decimal.Decimal `gorm:"type:decimal(10,6)" json:"turnover"`
}

// TableName keeps the legacy table name.
func (StockDaily) TableName() string { return "stock_daily_data" }

// IndexDaily is one daily OHLCV bar for a market index.
type IndexDaily struct {
	Symbol       string           `gorm:"primaryKey;type:varchar(20)" json:"symbol"`
	Name         string           `gorm:"type:varchar(100)" json:"name"`
	Date         time.Time        `gorm:"primaryKey;index" json:"date"`
	Open         decimal.Decimal  `gorm:"type:decimal(15,4)" json:"open"`
	Close        decimal.Decimal  `gorm:"type:decimal(15,4)" json:"close"`
	High         decimal.Decimal  `gorm:"type:decimal(15,4)" json:"high"`
	Low          decimal.Decimal  `gorm:"type:decimal(15,4)" json:"low"`
	Volume       int64            `json:"volume"`
	Amount       *decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
	Amplitude    *decimal.Decimal `gorm:"type:decimal(10,4)" json:"amplitude"`
	ChangeRate   *decimal.Decimal `gorm:"type:decimal(10,4)" json:"change_rate"`
	ChangeAmount *decimal.Decimal `gorm:"type:decimal(15,4)" json:"change_amount"`
	TurnoverRate *decimal.Decimal `gorm:"type:decimal(10,4)" json:"turnover_rate"`
}

// TableName keeps the legacy table name.
func (IndexDaily) TableName() string { return "index_daily_data" }

// StockBasicInfo holds reference data per stock symbol, refreshed from
// the spot-list provider.
type StockBasicInfo struct {
	Symbol               string `gorm:"primaryKey;type:varchar(20)" json:"symbol"`
	Name                 string `gorm:"type:varchar(100)" json:"name"`
	MorningAuctionVolume *int64 `json:"morning_auction_volume"`
	ClosingAuctionVolume *int64 `json:"closing_auction_volume"`
}

// TableName keeps the legacy table name.
func (StockBasicInfo) TableName() string { return "stock_basic_info" }

// PagedResult wraps a paginated listing.
type PagedResult struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// KlinePoint is one bar shaped for charting clients. Optional columns
// come through as null when the row has no value.
type KlinePoint struct {
	Date             string   `json:"date"`
	Open             float64  `json:"open"`
	Close            float64  `json:"close"`
	High             float64  `json:"high"`
	Low              float64  `json:"low"`
	Volume           float64  `json:"volume"`
	Amount           *float64 `json:"amount"`
	OutstandingShare *float64 `json:"outstanding_share,omitempty"`
	Turnover         *float64 `json:"turnover,omitempty"`
	Amplitude        *float64 `json:"amplitude,omitempty"`
	ChangeRate       *float64 `json:"change_rate,omitempty"`
	ChangeAmount     *float64 `json:"change_amount,omitempty"`
	TurnoverRate     *float64 `json:"turnover_rate,omitempty"`
}

const klineDateFormat = "2006-01-02"

// KlinePoint converts a stock bar to its chart representation.
func (d StockDaily) KlinePoint() KlinePoint {
	return KlinePoint{
		Date:             d.Date.Format(klineDateFormat),
		Open:             d.Open.InexactFloat64(),
		Close:            d.Close.InexactFloat64(),
		High:             d.High.InexactFloat64(),
		Low:              d.Low.InexactFloat64(),
		Volume:           float64(d.Volume),
		Amount:           decimalPtrToFloat(d.Amount),
		OutstandingShare: decimalPtrToFloat(d.OutstandingShare),
		Turnover:         decimalPtrToFloat(d.Turnover),
	}
}

// KlinePoint converts an index bar to its chart representation.
func (d IndexDaily) KlinePoint() KlinePoint {
	return KlinePoint{
		Date:         d.Date.Format(klineDateFormat),
		Open:         d.Open.InexactFloat64(),
		Close:        d.Close.InexactFloat64(),
		High:         d.High.InexactFloat64(),
		Low:          d.Low.InexactFloat64(),
		Volume:       float64(d.Volume),
		Amount:       decimalPtrToFloat(d.Amount),
		Amplitude:    decimalPtrToFloat(d.Amplitude),
		ChangeRate:   decimalPtrToFloat(d.ChangeRate),
		ChangeAmount: decimalPtrToFloat(d.ChangeAmount),
		TurnoverRate: decimalPtrToFloat(d.TurnoverRate),
	}
}

func decimalPtrToFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

// MigrateMarketModels runs database migrations for market data models.
func MigrateMarketModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&StockDaily{},
		&IndexDaily{},
		&StockBasicInfo{},
	)
}
