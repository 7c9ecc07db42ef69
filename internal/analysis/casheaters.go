package analysis

import (
	"sort"

	"cashflow-insight/internal/models"
)

// lowMarginCount is how many lowest-margin products the ranking surfaces.
const lowMarginCount = 5

// CashEaters ranks the three cash-drain categories by total amount and
// surfaces the lowest-margin products. Rows without a known product cost
// contribute to revenue but not to gross profit.
func CashEaters(en []models.EnrichedTransaction, refunds []models.Refund, payouts []models.Payout) models.CashEatersResult {
	var discounts, refunded, fees float64
	for _, tx := range en {
		discounts += tx.Discount
	}
	for _, rf := range refunds {
		refunded += rf.RefundAmount
	}
	for _, po := range payouts {
		fees += po.ProcessorFees
	}

	categories := []models.CashEaterCategory{
		{Category: "Discounts", Amount: discounts},
		{Category: "Refunds", Amount: refunded},
		{Category: "Processor fees", Amount: fees},
	}
	// Stable sort keeps the original category order on ties.
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Amount > categories[j].Amount
	})

	return models.CashEatersResult{
		Categories:        categories,
		LowMarginProducts: lowestMarginProducts(en),
	}
}

func lowestMarginProducts(en []models.EnrichedTransaction) []models.ProductMargin {
	type agg struct {
		name    string
		revenue float64
		gp      float64
	}
	byProduct := make(map[string]*agg)
	order := make([]string, 0)
	for _, tx := range en {
		a, ok := byProduct[tx.ProductID]
		if !ok {
			a = &agg{name: tx.ProductName}
			byProduct[tx.ProductID] = a
			order = append(order, tx.ProductID)
		}
		a.revenue += tx.NetSales
		if tx.CostKnown {
			a.gp += tx.GrossProfit
		}
	}

	products := make([]models.ProductMargin, 0, len(byProduct))
	for _, id := range order {
		a := byProduct[id]
		pm := models.ProductMargin{
			ProductID:   id,
			ProductName: a.name,
			Revenue:     a.revenue,
			GrossProfit: a.gp,
		}
		// Zero revenue means zero margin percentage, never a division fault.
		if a.revenue > 0 {
			pm.MarginPct = a.gp / a.revenue
		}
		products = append(products, pm)
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].MarginPct != products[j].MarginPct {
			return products[i].MarginPct < products[j].MarginPct
		}
		if products[i].Revenue != products[j].Revenue {
			return products[i].Revenue < products[j].Revenue
		}
		return products[i].ProductID < products[j].ProductID
	})

	if len(products) > lowMarginCount {
		products = products[:lowMarginCount]
	}
	return products
}
