package strategy

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/edu-bd/StockVisualizer/models"
)

// ScreeningService executes screening strategies against the
// time-series store.
type ScreeningService struct {
	db *gorm.DB
}

// NewScreeningService creates a new screening service instance.
func NewScreeningService(db *gorm.DB) *ScreeningService {
	return &ScreeningService{db: db}
}

type screenRow struct {
	Symbol      string
	Name        string
	LatestPrice float64
}

// Execute runs one strategy against the selected universe and returns
// the matching instruments with execution metadata.
//
// The query projects the most recent close per symbol as a window
// function over the filtered rows; market-scope predicates are always
// AND-ed in, regardless of the strategy's logic operator. Callers are
// expected to have validated the strategy (Strategy.Validate) first;
// in particular, indicator and sort identifiers must already be
// allow-listed.
func (s *ScreeningService) Execute(strat *models.Strategy, target models.TargetType) (*models.ScreeningResult, error) {
	start := time.Now()

	var base, alias string
	switch target {
	case models.TargetStock:
		alias = "s"
		base = "SELECT DISTINCT s.symbol, " +
			"first_value(s.close) OVER (PARTITION BY s.symbol ORDER BY s.date DESC) AS latest_price " +
			"FROM stock_daily_data s"
	case models.TargetIndex:
		alias = "i"
		base = "SELECT DISTINCT i.symbol, i.name, " +
			"first_value(i.close) OVER (PARTITION BY i.symbol ORDER BY i.date DESC) AS latest_price " +
			"FROM index_daily_data i"
	default:
		return nil, fmt.Errorf("unsupported target type %q, expected 'stock' or 'index'", target)
	}

	params := map[string]interface{}{}
	condClauses := make([]string, 0, len(strat.Conditions))
	for i, cond := range strat.Conditions {
		compiled, err := compileCondition(cond, i, alias)
		if err != nil {
			return nil, err
		}
		condClauses = append(condClauses, "("+compiled.Clause+")")
		for k, v := range compiled.Params {
			params[k] = v
		}
	}

	joiner := " AND "
	if strat.Logic == models.LogicOr {
		joiner = " OR "
	}
	combined := strings.Join(condClauses, joiner)

	query := base
	market := marketClause(target, strat.Market, alias)
	switch {
	case market != "" && combined != "":
		query += fmt.Sprintf(" WHERE (%s) AND (%s)", market, combined)
	case market != "":
		query += " WHERE " + market
	case combined != "":
		query += " WHERE " + combined
	}

	if strat.SortBy != "" {
		direction := "DESC"
		if strat.SortOrder == "asc" {
			direction = "ASC"
		}
		query += " ORDER BY " + sortExpr(strat.SortBy, alias) + " " + direction
	}

	if strat.MaxStocks > 0 {
		query += fmt.Sprintf(" LIMIT %d", strat.MaxStocks)
	}

	var rows []screenRow
	tx := s.db.Raw(query)
	if len(params) > 0 {
		tx = s.db.Raw(query, params)
	}
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("strategy query failed: %w", err)
	}

	// Every item carries the same match-detail record: it describes
	// what was evaluated, not which clauses the row satisfied.
	details := make(map[string]models.MatchDetail, len(strat.Conditions))
	for i, cond := range strat.Conditions {
		details[fmt.Sprintf("condition_%d", i+1)] = models.MatchDetail{
			Indicator: cond.Indicator,
			Operator:  cond.Operator,
			Value:     cond.Value,
		}
	}

	items := make([]models.ScreeningResultItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.ScreeningResultItem{
			Symbol:       row.Symbol,
			Name:         row.Name,
			LatestPrice:  row.LatestPrice,
			MatchDetails: details,
		})
	}

	return &models.ScreeningResult{
		StrategyName:  strat.Name,
		Total:         len(items),
		Items:         items,
		ExecutionTime: time.Since(start).Seconds(),
	}, nil
}

// sortExpr qualifies a sort key. Projected columns (symbol, name,
// latest_price) sort by output name; data columns get the table alias.
func sortExpr(sortBy, alias string) string {
	switch sortBy {
	case "symbol", "name", "latest_price":
		return sortBy
	}
	return alias + "." + sortBy
}
