package analysis

import (
	"testing"
	"time"

	"cashflow-insight/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

func TestCashEatersCategoryRanking(t *testing.T) {
	en := []models.EnrichedTransaction{
		{Transaction: models.Transaction{ProductID: "P1", Discount: 5}, Day: day(4)},
		{Transaction: models.Transaction{ProductID: "P2", Discount: 3}, Day: day(4)},
	}
	refunds := []models.Refund{{RefundAmount: 20}, {RefundAmount: 10}}
	payouts := []models.Payout{{ProcessorFees: 12}}

	result := CashEaters(en, refunds, payouts)

	require.Len(t, result.Categories, 3)
	assert.Equal(t, "Refunds", result.Categories[0].Category)
	assert.Equal(t, 30.0, result.Categories[0].Amount)
	assert.Equal(t, "Processor fees", result.Categories[1].Category)
	assert.Equal(t, 12.0, result.Categories[1].Amount)
	assert.Equal(t, "Discounts", result.Categories[2].Category)
	assert.Equal(t, 8.0, result.Categories[2].Amount)
}

func TestCashEatersTieKeepsCategoryOrder(t *testing.T) {
	result := CashEaters(nil, nil, nil)

	require.Len(t, result.Categories, 3)
	assert.Equal(t, "Discounts", result.Categories[0].Category)
	assert.Equal(t, "Refunds", result.Categories[1].Category)
	assert.Equal(t, "Processor fees", result.Categories[2].Category)
}

func TestLowestMarginProducts(t *testing.T) {
	en := []models.EnrichedTransaction{
		// 50% margin
		{Transaction: models.Transaction{ProductID: "P1", ProductName: "Latte", NetSales: 100}, GrossProfit: 50, CostKnown: true, Day: day(4)},
		// 10% margin
		{Transaction: models.Transaction{ProductID: "P2", ProductName: "Muffin", NetSales: 100}, GrossProfit: 10, CostKnown: true, Day: day(4)},
		// 30% margin across two rows
		{Transaction: models.Transaction{ProductID: "P3", ProductName: "Tea", NetSales: 60}, GrossProfit: 20, CostKnown: true, Day: day(4)},
		{Transaction: models.Transaction{ProductID: "P3", ProductName: "Tea", NetSales: 40}, GrossProfit: 10, CostKnown: true, Day: day(5)},
	}

	result := CashEaters(en, nil, nil)

	require.Len(t, result.LowMarginProducts, 3)
	assert.Equal(t, "P2", result.LowMarginProducts[0].ProductID)
	assert.InDelta(t, 0.10, result.LowMarginProducts[0].MarginPct, 1e-9)
	assert.Equal(t, "P3", result.LowMarginProducts[1].ProductID)
	assert.InDelta(t, 0.30, result.LowMarginProducts[1].MarginPct, 1e-9)
	assert.Equal(t, "P1", result.LowMarginProducts[2].ProductID)
}

func TestLowestMarginUnknownCostCountsRevenueOnly(t *testing.T) {
	en := []models.EnrichedTransaction{
		{Transaction: models.Transaction{ProductID: "P1", NetSales: 100}, GrossProfit: 40, CostKnown: true, Day: day(4)},
		// Unknown cost: revenue counts, profit does not.
		{Transaction: models.Transaction{ProductID: "P1", NetSales: 100}, CostKnown: false, Day: day(4)},
	}

	result := CashEaters(en, nil, nil)

	require.Len(t, result.LowMarginProducts, 1)
	pm := result.LowMarginProducts[0]
	assert.Equal(t, 200.0, pm.Revenue)
	assert.Equal(t, 40.0, pm.GrossProfit)
	assert.InDelta(t, 0.20, pm.MarginPct, 1e-9)
}

func TestLowestMarginZeroRevenue(t *testing.T) {
	en := []models.EnrichedTransaction{
		{Transaction: models.Transaction{ProductID: "P1", NetSales: 0}, CostKnown: true, Day: day(4)},
	}

	result := CashEaters(en, nil, nil)

	require.Len(t, result.LowMarginProducts, 1)
	assert.Equal(t, 0.0, result.LowMarginProducts[0].MarginPct)
}

func TestLowestMarginCapsAtFive(t *testing.T) {
	var en []models.EnrichedTransaction
	for _, id := range []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7"} {
		en = append(en, models.EnrichedTransaction{
			Transaction: models.Transaction{ProductID: id, NetSales: 10},
			GrossProfit: 1, CostKnown: true, Day: day(4),
		})
	}

	result := CashEaters(en, nil, nil)
	assert.Len(t, result.LowMarginProducts, 5)
}
