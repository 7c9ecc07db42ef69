package analysis

import (
	"fmt"
	"time"

	"cashflow-insight/internal/models"
)

// dateLayouts are tried in order when normalizing transaction dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDay(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// Enrich left-joins transactions against the product master on product_id and
// derives unit_margin, gross_profit and the calendar day per line. Every
// transaction row is preserved; rows without a matching product keep
// CostKnown=false and carry no usable margin figures.
func Enrich(txs []models.Transaction, products []models.Product) ([]models.EnrichedTransaction, error) {
	cogs := make(map[string]float64, len(products))
	for _, p := range products {
		cogs[p.ProductID] = p.COGS
	}

	out := make([]models.EnrichedTransaction, 0, len(txs))
	for _, tx := range txs {
		day, err := parseDay(tx.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.TransactionID, err)
		}
		en := models.EnrichedTransaction{Transaction: tx, Day: day}
		if c, ok := cogs[tx.ProductID]; ok {
			en.COGS = c
			en.UnitMargin = tx.UnitPrice - c
			en.GrossProfit = tx.Quantity*en.UnitMargin - tx.Discount
			en.CostKnown = true
		}
		out = append(out, en)
	}
	return out, nil
}

// windowDays returns the observation window length in calendar days,
// (max day - min day) + 1, never less than 1.
func windowDays(en []models.EnrichedTransaction) int {
	if len(en) == 0 {
		return 1
	}
	min, max := en[0].Day, en[0].Day
	for _, tx := range en[1:] {
		if tx.Day.Before(min) {
			min = tx.Day
		}
		if tx.Day.After(max) {
			max = tx.Day
		}
	}
	days := int(max.Sub(min).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days
}
