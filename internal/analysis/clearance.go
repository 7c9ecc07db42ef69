package analysis

import (
	"math"
	"sort"

	"cashflow-insight/internal/models"
)

// ClearancePolicy holds the clearance projection constants. Defaults match
// the historical values: 20% discount, 1.5x assumed demand lift, bottom
// quintile counted as slow movers.
type ClearancePolicy struct {
	DiscountRate      float64
	LiftMultiplier    float64
	SlowMoverQuantile float64
}

// DefaultClearancePolicy returns the standard policy constants.
func DefaultClearancePolicy() ClearancePolicy {
	return ClearancePolicy{
		DiscountRate:      0.20,
		LiftMultiplier:    1.5,
		SlowMoverQuantile: 0.20,
	}
}

// EstimateClearance identifies the slowest-selling products and projects one
// week of extra cash inflow from discounting them. A projection under an
// assumed elasticity, not a fitted demand model.
func EstimateClearance(en []models.EnrichedTransaction, policy ClearancePolicy) models.ClearanceEstimate {
	days := float64(windowDays(en))

	type sku struct {
		id     string
		name   string
		qty    float64
		prices []float64
	}
	byProduct := make(map[string]*sku)
	for _, tx := range en {
		s, ok := byProduct[tx.ProductID]
		if !ok {
			s = &sku{id: tx.ProductID, name: tx.ProductName}
			byProduct[tx.ProductID] = s
		}
		s.qty += tx.Quantity
		s.prices = append(s.prices, tx.UnitPrice)
	}

	skus := make([]*sku, 0, len(byProduct))
	for _, s := range byProduct {
		skus = append(skus, s)
	}
	sort.Slice(skus, func(i, j int) bool {
		qi, qj := skus[i].qty/days, skus[j].qty/days
		if qi != qj {
			return qi < qj
		}
		return skus[i].id < skus[j].id
	})

	slowCount := int(math.Round(policy.SlowMoverQuantile * float64(len(skus))))
	if slowCount < 1 {
		slowCount = 1
	}
	if slowCount > len(skus) {
		slowCount = len(skus)
	}

	var est models.ClearanceEstimate
	for _, s := range skus[:slowCount] {
		qtyPerDay := s.qty / days
		price := median(s.prices)
		discounted := round2(price * (1 - policy.DiscountRate))
		extraUnits := math.Round(qtyPerDay * 7 * (policy.LiftMultiplier - 1))
		extraCash := round2(extraUnits * discounted)
		est.Lines = append(est.Lines, models.ClearanceLine{
			ProductID:       s.id,
			ProductName:     s.name,
			QtyPerDay:       qtyPerDay,
			MedianPrice:     price,
			DiscountedPrice: discounted,
			ExtraUnits:      extraUnits,
			ExtraCashInflow: extraCash,
		})
		est.TotalExtraCash += extraCash
	}
	return est
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
