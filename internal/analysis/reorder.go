package analysis

import (
	"math"
	"sort"

	"cashflow-insight/internal/models"
)

// PlanReorder produces a greedy budget-constrained purchase plan over
// profit velocity. Products are considered highest gp-per-day first; each
// gets up to a restock-horizon worth of units, capped by the remaining
// budget. A greedy heuristic, not a globally optimal allocation.
func PlanReorder(en []models.EnrichedTransaction, budget float64, horizonDays int) models.ReorderPlan {
	days := float64(windowDays(en))

	type sku struct {
		id        string
		name      string
		cogs      float64
		qty       float64
		gp        float64
		qtyPerDay float64
		gpPerDay  float64
	}
	byProduct := make(map[string]*sku)
	for _, tx := range en {
		// Without a known unit cost there is nothing to price a buy against.
		if !tx.CostKnown {
			continue
		}
		s, ok := byProduct[tx.ProductID]
		if !ok {
			s = &sku{id: tx.ProductID, name: tx.ProductName, cogs: tx.COGS}
			byProduct[tx.ProductID] = s
		}
		s.qty += tx.Quantity
		s.gp += tx.GrossProfit
	}

	ranked := make([]*sku, 0, len(byProduct))
	minCost := math.Inf(1)
	for _, s := range byProduct {
		s.qtyPerDay = s.qty / days
		s.gpPerDay = s.gp / days
		if s.cogs > 0 && s.cogs < minCost {
			minCost = s.cogs
		}
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].gpPerDay != ranked[j].gpPerDay {
			return ranked[i].gpPerDay > ranked[j].gpPerDay
		}
		if ranked[i].qtyPerDay != ranked[j].qtyPerDay {
			return ranked[i].qtyPerDay > ranked[j].qtyPerDay
		}
		return ranked[i].id < ranked[j].id
	})

	plan := models.ReorderPlan{Budget: budget, RemainingBudget: budget}
	for _, s := range ranked {
		if s.cogs <= 0 {
			continue
		}
		target := int(math.Ceil(s.qtyPerDay * float64(horizonDays)))
		if target < 1 {
			target = 1
		}
		affordable := int(math.Floor(plan.RemainingBudget / s.cogs))
		buy := target
		if affordable < buy {
			buy = affordable
		}
		if buy > 0 {
			spend := float64(buy) * s.cogs
			avgGPPerUnit := s.gp / math.Max(1, s.qty)
			plan.Lines = append(plan.Lines, models.ReorderLine{
				ProductID:       s.id,
				ProductName:     s.name,
				UnitCOGS:        s.cogs,
				SuggestedQty:    buy,
				BudgetSpend:     spend,
				EstGPUpliftWeek: float64(buy) * avgGPPerUnit,
			})
			plan.RemainingBudget -= spend
		}
		// No product is affordable any more; further walking is pointless.
		if plan.RemainingBudget < minCost {
			break
		}
	}
	return plan
}
